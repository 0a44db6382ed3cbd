package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	AuthorFg    tcell.Color
	IDFg        tcell.Color
	BodyFg      tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	ErrorFg     tcell.Color
	BusyFg      tcell.Color
	MutedFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		AuthorFg:    tcell.Color33,
		IDFg:        tcell.ColorLightSlateGray,
		BodyFg:      tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
		BusyFg:      tcell.Color44,
		MutedFg:     tcell.ColorLightSlateGray,
	}
}

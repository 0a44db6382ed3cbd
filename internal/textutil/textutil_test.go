package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeLineReplacesControlSequences(t *testing.T) {
	got := SanitizeLine("bad\x1b[31m\nbody")
	if got != "bad?[31m body" {
		t.Fatalf("expected %q, got %q", "bad?[31m body", got)
	}
}

func TestSanitizeLineLeavesSafeInput(t *testing.T) {
	input := "quo vero reiciendis velit similique earum"
	if got := SanitizeLine(input); got != input {
		t.Fatalf("expected %q untouched, got %q", input, got)
	}
}

func TestSanitizeLabelsBidiOverrides(t *testing.T) {
	got := SanitizeLine("a" + string(rune(0x202E)) + "b")
	if !strings.Contains(got, "⟪RLO⟫") || strings.ContainsRune(got, 0x202E) {
		t.Fatalf("expected RLO to be labeled, got %q", got)
	}
}

func TestSanitizeBlockKeepsNewlines(t *testing.T) {
	got := SanitizeBlock("line one\r\nline\x07 two")
	if got != "line one\nline? two" {
		t.Fatalf("unexpected block %q", got)
	}
}

func TestSanitizeNormalizesNFC(t *testing.T) {
	decomposed := "e\u0301"
	if got := SanitizeLine(decomposed); got != "\u00e9" {
		t.Fatalf("expected composed é, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "comment", 20, "comment"},
		{"ellipsis", "verylongname", 6, "veryl…"},
		{"only ellipsis", "example", 1, "…"},
		{"wide runes", "你好世界", 5, "你好…"},
		{"zero width", "anything", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.width); got != tt.want {
				t.Fatalf("Truncate(%q, %d)=%q want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"single line", "laudantium enim", 20, []string{"laudantium enim"}},
		{"breaks on words", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"splits long words", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps paragraphs", "one\ntwo", 10, []string{"one", "two"}},
		{"wide runes", "你好世界", 4, []string{"你好", "世界"}},
		{"zero width", "x", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.width); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Wrap(%q, %d)=%q want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	if got := DisplayWidth("你好"); got != 4 {
		t.Fatalf("DisplayWidth=%d want 4", got)
	}
	if got := DisplayWidth("abc"); got != 3 {
		t.Fatalf("DisplayWidth=%d want 3", got)
	}
}

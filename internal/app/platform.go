package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

var (
	commandBuilder = exec.Command
	pagerLookPath  = exec.LookPath
)

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	trySingle := func(candidates ...string) ([]string, bool) {
		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if path, err := lookPath(candidate); err == nil && path != "" {
				return []string{path}, true
			}
		}
		return nil, false
	}

	if strings.EqualFold(goos, "windows") {
		if cmd, ok := trySingle("clip.exe", "clip"); ok {
			return cmd, true
		}
		for _, ps := range []string{"powershell", "powershell.exe", "pwsh"} {
			if path, err := lookPath(ps); err == nil && path != "" {
				return []string{path, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
			}
		}
		return nil, false
	}

	if cmd, ok := trySingle("pbcopy", "wl-copy"); ok {
		return cmd, true
	}
	if path, err := lookPath("xclip"); err == nil && path != "" {
		return []string{path, "-selection", "clipboard"}, true
	}
	if path, err := lookPath("xsel"); err == nil && path != "" {
		return []string{path, "--clipboard", "--input"}, true
	}
	return nil, false
}

func detectPagerCommand(goos string, pagerEnv string, lookPath func(string) (string, error)) []string {
	pagerEnv = strings.TrimSpace(pagerEnv)
	if pagerEnv != "" {
		if args := parseCommand(pagerEnv); len(args) > 0 {
			return args
		}
	}
	return defaultPagerCommand(goos, lookPath)
}

func defaultPagerCommand(goos string, lookPath func(string) (string, error)) []string {
	if strings.EqualFold(goos, "windows") {
		if lookPath != nil {
			for _, candidate := range []string{"more.com", "more"} {
				if path, err := lookPath(candidate); err == nil && path != "" {
					return []string{path}
				}
			}
		}
		return []string{"cmd", "/C", "type"}
	}
	return []string{"less"}
}

// parseCommand splits a shell-like command line, honouring single and double
// quotes. A leading ~ in the program name is expanded.
func parseCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle := false
	inDouble := false

	for _, r := range cmd {
		switch r {
		case '\'':
			if inDouble {
				current.WriteRune(r)
			} else {
				inSingle = !inSingle
			}
		case '"':
			if inSingle {
				current.WriteRune(r)
			} else {
				inDouble = !inDouble
			}
		default:
			if !inSingle && !inDouble && unicode.IsSpace(r) {
				if current.Len() > 0 {
					args = append(args, current.String())
					current.Reset()
				}
				continue
			}
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}
	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}
	return args
}

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}

	sep := path[1]
	if sep != '/' && sep != '\\' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

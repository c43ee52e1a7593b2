// Package terminal inspects the terminal debt-pulse runs in: its size,
// whether output is interactive, and which color profile to render with.
//
// Detection reads environment variables only; it never queries the
// terminal.
package terminal

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermAlacritty
	TermGNOME
	TermVSCode
	TermAppleTerminal
	TermWindowsTerminal
	TermTmux
	TermScreen
	TermGeneric
)

var terminalNames = [...]string{
	TermUnknown:         "unknown",
	TermGhostty:         "ghostty",
	TermKitty:           "kitty",
	TermWezTerm:         "wezterm",
	TermITerm2:          "iterm2",
	TermAlacritty:       "alacritty",
	TermGNOME:           "gnome-terminal",
	TermVSCode:          "vscode",
	TermAppleTerminal:   "apple-terminal",
	TermWindowsTerminal: "windows-terminal",
	TermTmux:            "tmux",
	TermScreen:          "screen",
	TermGeneric:         "generic",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsTrueColor reports whether the emulator renders 24-bit color.
// Apple Terminal and the multiplexers are left to COLORTERM.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermAlacritty, TermGNOME, TermVSCode, TermWindowsTerminal:
		return true
	default:
		return false
	}
}

// rule maps one environment signal to a terminal. Rules are tried in
// order; the first match wins.
type rule struct {
	env   string
	match func(v string) bool
	term  Terminal
}

func equals(s string) func(string) bool {
	return func(v string) bool { return strings.EqualFold(v, s) }
}

func present(v string) bool { return v != "" }

var rules = []rule{
	{"TERM_PROGRAM", equals("ghostty"), TermGhostty},
	{"TERM_PROGRAM", equals("kitty"), TermKitty},
	{"TERM_PROGRAM", equals("wezterm"), TermWezTerm},
	{"TERM_PROGRAM", equals("iterm.app"), TermITerm2},
	{"TERM_PROGRAM", equals("vscode"), TermVSCode},
	{"TERM_PROGRAM", equals("apple_terminal"), TermAppleTerminal},
	{"TERM_PROGRAM", equals("tmux"), TermTmux},
	{"TERM", equals("xterm-ghostty"), TermGhostty},
	{"TERM", equals("xterm-kitty"), TermKitty},
	{"TERM", func(v string) bool { return strings.HasPrefix(v, "alacritty") }, TermAlacritty},
	{"KITTY_WINDOW_ID", present, TermKitty},
	{"ITERM_SESSION_ID", present, TermITerm2},
	{"WEZTERM_EXECUTABLE", present, TermWezTerm},
	{"WT_SESSION", present, TermWindowsTerminal},
	{"VTE_VERSION", present, TermGNOME},
	{"TMUX", present, TermTmux},
	{"STY", present, TermScreen},
	{"LC_TERMINAL", equals("iTerm2"), TermITerm2},
}

// Detect identifies the terminal emulator from environment variables,
// returning TermGeneric when nothing matches.
func Detect() Terminal {
	for _, r := range rules {
		if r.match(os.Getenv(r.env)) {
			return r.term
		}
	}
	return TermGeneric
}

// IsTerminal reports whether f is attached to a terminal, including the
// Cygwin/MSYS pseudo terminals.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// isSSH reports whether the session runs over SSH.
func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}

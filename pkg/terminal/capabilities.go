package terminal

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Capabilities summarises the session's terminal.
type Capabilities struct {
	Term        Terminal
	Size        Size
	TrueColor   bool
	Interactive bool // stdout is a terminal
	SSH         bool
	Mux         bool // inside tmux or screen
}

var (
	capsMu sync.Mutex
	caps   *Capabilities
)

// DetectCapabilities detects on first use and returns the cached result.
func DetectCapabilities() *Capabilities {
	capsMu.Lock()
	defer capsMu.Unlock()
	if caps == nil {
		caps = detect()
	}
	return caps
}

// ForceRefresh drops the cached result and detects again.
func ForceRefresh() *Capabilities {
	capsMu.Lock()
	caps = nil
	capsMu.Unlock()
	return DetectCapabilities()
}

func detect() *Capabilities {
	term := Detect()
	trueColor := term.SupportsTrueColor()
	if !trueColor {
		ct := os.Getenv("COLORTERM")
		trueColor = ct == "truecolor" || ct == "24bit"
	}
	return &Capabilities{
		Term:        term,
		Size:        GetSize(),
		TrueColor:   trueColor,
		Interactive: IsTerminal(os.Stdout),
		SSH:         isSSH(),
		Mux:         os.Getenv("TMUX") != "" || os.Getenv("STY") != "",
	}
}

// Profile picks the color profile for output written to f. NO_COLOR, the
// noColor flag and non-terminal output all give plain ASCII.
func Profile(f *os.File, noColor bool) termenv.Profile {
	if noColor || os.Getenv("NO_COLOR") != "" || !IsTerminal(f) {
		return termenv.Ascii
	}
	p := termenv.NewOutput(f).EnvColorProfile()
	if p != termenv.Ascii && Detect().SupportsTrueColor() {
		return termenv.TrueColor
	}
	return p
}

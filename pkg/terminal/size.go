package terminal

import (
	"os"
	"strconv"

	xterm "github.com/charmbracelet/x/term"
	"golang.org/x/sys/unix"
)

// Size is a terminal's dimensions in character cells.
type Size struct {
	Cols int
	Rows int
}

// Fallback dimensions when nothing else is known.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// GetSize returns the current terminal dimensions. It tries, in order:
//  1. x/term on stdout, then stderr
//  2. TIOCGWINSZ directly, for descriptors x/term rejects
//  3. COLUMNS/LINES
//  4. 80x24
func GetSize() Size {
	return sizeOf(os.Stdout.Fd(), os.Stderr.Fd())
}

// GetSizeFromFd is GetSize for a specific descriptor.
func GetSizeFromFd(fd uintptr) Size {
	return sizeOf(fd)
}

func sizeOf(fds ...uintptr) Size {
	for _, fd := range fds {
		if w, h, err := xterm.GetSize(fd); err == nil && w > 0 && h > 0 {
			return Size{Cols: w, Rows: h}
		}
		if s := getSizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	return getSizeFromEnv()
}

func getSizeFromIoctl(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}
	return Size{Cols: int(ws.Col), Rows: int(ws.Row)}
}

func getSizeFromEnv() Size {
	return Size{Cols: envInt("COLUMNS", DefaultCols), Rows: envInt("LINES", DefaultRows)}
}

// envInt reads a positive integer from the named variable, or fallback.
func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen is the width of s in terminal cells. Escape sequences count
// zero and East Asian wide runes count two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most n cells, keeping escape sequences intact.
func Truncate(s string, n int) string {
	return TruncateWithTail(s, n, "")
}

// TruncateWithTail is Truncate with tail appended on a cut. The tail counts
// toward n.
func TruncateWithTail(s string, n int, tail string) string {
	if n <= 0 {
		return ""
	}
	return ansi.Truncate(s, n, tail)
}

// pad returns the blank runs that widen s to width, split by lead (0 to 1
// of the gap goes before s). Wider strings get no padding.
func pad(s string, width int, lead float64) (string, string) {
	gap := width - VisibleLen(s)
	if gap <= 0 {
		return "", ""
	}
	before := int(float64(gap) * lead)
	return strings.Repeat(" ", before), strings.Repeat(" ", gap-before)
}

func PadRight(s string, width int) string {
	_, after := pad(s, width, 0)
	return s + after
}

func PadLeft(s string, width int) string {
	before, _ := pad(s, width, 1)
	return before + s
}

// PadCenter centers s; an odd gap leaves the extra cell on the right.
func PadCenter(s string, width int) string {
	before, after := pad(s, width, 0.5)
	return before + s + after
}

// Wrap word-wraps s at width. Japanese text has no spaces, so lines are also
// broken mid-word when a run does not fit.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

// FitLine truncates or right-pads line to exactly width cells.
func FitLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	// a wide rune straddling the edge is dropped and the gap padded
	return PadRight(Truncate(line, width), width)
}

// FitBlock clips lines to height rows of exactly width cells, padding with
// blank rows when there are fewer lines.
func FitBlock(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = FitLine(lines[i], width)
		} else {
			out[i] = strings.Repeat(" ", width)
		}
	}
	return strings.Join(out, "\n")
}

package components

import (
	"math"
	"strings"
)

// Block characters for sub-cell precision (8 levels per cell).
var gaugeBlocks = [9]string{
	" ",
	"\u258F", // 1/8
	"\u258E", // 2/8
	"\u258D", // 3/8
	"\u258C", // 4/8
	"\u258B", // 5/8
	"\u258A", // 6/8
	"\u2589", // 7/8
	"\u2588", // 8/8
}

// GaugeCells splits ratio*width into full cells and a trailing eighth.
// ratio is clamped to [0,1].
func GaugeCells(ratio float64, width int) (full, eighths int) {
	if width <= 0 || math.IsNaN(ratio) {
		return 0, 0
	}
	ratio = math.Min(math.Max(ratio, 0), 1)
	units := int(math.Round(ratio * float64(width*8)))
	return units / 8, units % 8
}

// Gauge renders a horizontal bar exactly width cells wide. The filled part
// uses fill, the remainder is drawn as a light track in empty.
func Gauge(ratio float64, width int, fill, empty string) string {
	if width <= 0 {
		return ""
	}
	full, eighths := GaugeCells(ratio, width)

	var b strings.Builder
	b.WriteString(Fg(fill, strings.Repeat(gaugeBlocks[8], full)))
	used := full
	if eighths > 0 {
		b.WriteString(Fg(fill, gaugeBlocks[eighths]))
		used++
	}
	if rest := width - used; rest > 0 {
		b.WriteString(Fg(empty, strings.Repeat("\u2591", rest)))
	}
	return b.String()
}

// LabeledGauge renders "label [bar] suffix" in width cells, with the label
// padded to labelWidth.
func LabeledGauge(label string, labelWidth int, ratio float64, suffix string, width int, fill, empty string) string {
	barWidth := width - labelWidth - VisibleLen(suffix) - 2
	if barWidth < 1 {
		return Truncate(label+" "+suffix, width)
	}
	return PadRight(label, labelWidth) + " " + Gauge(ratio, barWidth, fill, empty) + " " + suffix
}

package components

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Color string
	// Note replaces the formatted value when set.
	Note string
}

// BarChartOptions configures BarChart.
type BarChartOptions struct {
	// Max is the value of a full-width bar. Zero scales to the largest bar.
	Max float64
	// Format renders the value after each bar. Defaults to Compact.
	Format func(float64) string
	// LabelWidth fixes the label column; zero sizes it to the widest label.
	LabelWidth int
	Empty      string
}

// BarChart renders one row per bar: label, bar, value. Every row is width
// cells wide.
func BarChart(bars []Bar, width int, opts BarChartOptions) []string {
	if len(bars) == 0 || width <= 0 {
		return nil
	}
	format := opts.Format
	if format == nil {
		format = Compact
	}
	labelW := opts.LabelWidth
	if labelW == 0 {
		labelW = lo.Max(lo.Map(bars, func(b Bar, _ int) int { return VisibleLen(b.Label) }))
	}
	maxV := opts.Max
	if maxV == 0 {
		maxV = lo.Max(lo.Map(bars, func(b Bar, _ int) float64 { return b.Value }))
	}
	notes := lo.Map(bars, func(b Bar, _ int) string {
		if b.Note != "" {
			return b.Note
		}
		return format(b.Value)
	})
	noteW := lo.Max(lo.Map(notes, func(n string, _ int) int { return VisibleLen(n) }))

	barW := width - labelW - noteW - 2
	rows := make([]string, len(bars))
	for i, b := range bars {
		if barW < 1 {
			rows[i] = FitLine(PadRight(b.Label, labelW)+" "+notes[i], width)
			continue
		}
		ratio := 0.0
		if maxV > 0 {
			ratio = b.Value / maxV
		}
		rows[i] = PadRight(b.Label, labelW) + " " +
			Gauge(ratio, barW, b.Color, opts.Empty) + " " +
			PadLeft(notes[i], noteW)
	}
	return rows
}

// DivergingBars renders signed values around a center axis: negatives grow
// left in neg, positives grow right in pos.
func DivergingBars(bars []Bar, width int, pos, neg string, format func(float64) string) []string {
	if len(bars) == 0 || width <= 0 {
		return nil
	}
	if format == nil {
		format = Compact
	}
	labelW := lo.Max(lo.Map(bars, func(b Bar, _ int) int { return VisibleLen(b.Label) }))
	notes := lo.Map(bars, func(b Bar, _ int) string { return format(b.Value) })
	noteW := lo.Max(lo.Map(notes, func(n string, _ int) int { return VisibleLen(n) }))
	maxAbs := lo.Max(lo.Map(bars, func(b Bar, _ int) float64 { return math.Abs(b.Value) }))

	half := (width - labelW - noteW - 3) / 2
	rows := make([]string, len(bars))
	for i, b := range bars {
		if half < 1 || maxAbs == 0 {
			rows[i] = FitLine(PadRight(b.Label, labelW)+" "+notes[i], width)
			continue
		}
		cells := int(math.Round(math.Abs(b.Value) / maxAbs * float64(half)))
		var leftSide, rightSide string
		if b.Value < 0 {
			leftSide = strings.Repeat(" ", half-cells) + Fg(neg, strings.Repeat("█", cells))
			rightSide = strings.Repeat(" ", half)
		} else {
			leftSide = strings.Repeat(" ", half)
			rightSide = Fg(pos, strings.Repeat("█", cells)) + strings.Repeat(" ", half-cells)
		}
		rows[i] = PadRight(b.Label, labelW) + " " + leftSide + "│" + rightSide + " " + PadLeft(notes[i], noteW)
	}
	return rows
}

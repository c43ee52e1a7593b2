package components

import (
	"math"
	"strings"
)

// Sparkline block characters: 8 vertical levels per cell.
var sparkBlocks = [8]rune{
	'▁', // 1/8
	'▂', // 2/8
	'▃', // 3/8
	'▄', // 4/8
	'▅', // 5/8
	'▆', // 6/8
	'▇', // 7/8
	'█', // 8/8
}

// SparklineScaled renders one block per point on the fixed range
// [minY, maxY], so several series can share one axis. A flat range renders
// mid-height blocks.
func SparklineScaled(data []float64, minY, maxY float64, color string) string {
	if len(data) == 0 {
		return ""
	}
	return Fg(color, sparkMapToBlocks(data, minY, maxY))
}

// sparkMapToBlocks maps data values to block characters based on the Y range.
func sparkMapToBlocks(data []float64, minY, maxY float64) string {
	var b strings.Builder
	rangeY := maxY - minY

	for _, v := range data {
		idx := 3
		if rangeY > 0 {
			normalized := math.Min(math.Max((v-minY)/rangeY, 0), 1)
			idx = min(int(math.Round(normalized*7)), 7)
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

package banner

// bnPlacement is a widget's box on the frame, border included.
type bnPlacement struct {
	Widget WidgetData
	Col    int
	X, Y   int
	W, H   int
}

// bnMinInnerHeight keeps tiny widgets readable.
const bnMinInnerHeight = 3

// bnColumnWidths splits width evenly; the last column takes the remainder.
func bnColumnWidths(width, cols int) []int {
	if width <= 0 {
		return nil
	}
	cols = max(min(cols, width), 1)
	out := make([]int, cols)
	each := width / cols
	for i := range out {
		out[i] = each
	}
	out[cols-1] += width - each*cols
	return out
}

// bnArrangeWidgets packs widgets greedily: each goes to the currently
// shortest column, so input order is kept within a column.
func bnArrangeWidgets(widgets []WidgetData, colWidths []int) []bnPlacement {
	if len(widgets) == 0 || len(colWidths) == 0 {
		return nil
	}
	colX := make([]int, len(colWidths))
	for i := 1; i < len(colWidths); i++ {
		colX[i] = colX[i-1] + colWidths[i-1]
	}
	colY := make([]int, len(colWidths))

	placements := make([]bnPlacement, 0, len(widgets))
	for _, w := range widgets {
		col := bnPickColumn(colY)
		h := bnWidgetHeight(w)
		placements = append(placements, bnPlacement{
			Widget: w,
			Col:    col,
			X:      colX[col],
			Y:      colY[col],
			W:      colWidths[col],
			H:      h,
		})
		colY[col] += h
	}
	return placements
}

// bnWidgetHeight is the widget's minimum height plus the border.
func bnWidgetHeight(w WidgetData) int {
	return max(w.MinH, bnMinInnerHeight) + 2
}

// bnPickColumn returns the shortest column, leftmost on ties.
func bnPickColumn(colY []int) int {
	best := 0
	for i := range colY {
		if colY[i] < colY[best] {
			best = i
		}
	}
	return best
}

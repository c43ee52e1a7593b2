package weather

// FallbackLabel is shown for codes outside the table.
const FallbackLabel = "不明"

type codeRange struct {
	lo, hi int
	label  string
}

// WMO code ranges, inclusive.
var codeTable = []codeRange{
	{0, 0, "晴れ"},
	{1, 3, "曇り"},
	{45, 48, "霧"},
	{51, 67, "雨"},
	{71, 77, "雪"},
	{95, 99, "雷雨"},
}

// Label maps a WMO weather code to its display label.
func Label(code int) string {
	for _, r := range codeTable {
		if code >= r.lo && code <= r.hi {
			return r.label
		}
	}
	return FallbackLabel
}

// Anomaly returns how far temp sits above the 1980s mean for month, using a
// twelve-entry table of monthly means starting in January.
func Anomaly(temp float64, month int, means []float64) (float64, bool) {
	if month < 1 || month > 12 || len(means) != 12 {
		return 0, false
	}
	return temp - means[month-1], true
}

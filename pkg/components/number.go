package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Comma formats v rounded to an integer with thousands separators.
func Comma(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// CommaDecimal formats v with thousands separators and exactly decimals
// fractional digits, rounding half away from zero.
func CommaDecimal(v float64, decimals int) string {
	// CommafWithDigits cuts digits off, so round first.
	scale := math.Pow10(max(decimals, 0))
	s := humanize.CommafWithDigits(math.Round(v*scale)/scale, decimals)
	if decimals <= 0 {
		return s
	}
	// CommafWithDigits drops trailing zeros; put them back so counters keep
	// a fixed width.
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s + "." + strings.Repeat("0", decimals)
	}
	if have := len(s) - dot - 1; have < decimals {
		s += strings.Repeat("0", decimals-have)
	}
	return s
}

// Japanese large-number units, largest first.
var jpUnits = []struct {
	name string
	size float64
}{
	{"兆", 1e12},
	{"億", 1e8},
	{"万", 1e4},
}

// JapaneseUnits renders v with 兆/億/万 groups, for example 1,293兆2,145億.
// At most parts groups are printed; lower groups are truncated.
func JapaneseUnits(v float64, parts int) string {
	if parts <= 0 {
		parts = 2
	}
	neg := v < 0
	rest := math.Floor(math.Abs(v))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	written := 0
	for _, u := range jpUnits {
		if written == parts {
			break
		}
		n := math.Floor(rest / u.size)
		if n == 0 && written == 0 {
			continue
		}
		rest -= n * u.size
		if n == 0 {
			continue
		}
		b.WriteString(humanize.Comma(int64(n)))
		b.WriteString(u.name)
		written++
	}
	if written == 0 {
		b.WriteString(humanize.Comma(int64(rest)))
	}
	return b.String()
}

// Compact formats chart values: integers without decimals, the rest with
// one decimal.
func Compact(v float64) string {
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// Signed prefixes positive values with "+".
func Signed(v float64, format func(float64) string) string {
	if v > 0 {
		return "+" + format(v)
	}
	return format(v)
}

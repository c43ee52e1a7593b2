package projection

import "time"

// Ratio divides two projections taken at the same instant. A zero
// denominator yields 0.
func Ratio(num, den Spec, now time.Time) float64 {
	d := den.At(now)
	if d == 0 {
		return 0
	}
	return num.At(now) / d
}

// StartOfDay returns local midnight for t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Daily returns a projection that climbs from 0 at the midnight preceding
// now to perDay at the following midnight.
func Daily(now time.Time, perDay float64) Spec {
	return Must(StartOfDay(now), 0, perDay/86400, WithFloor(0), WithCeiling(perDay))
}

// PerPeriod returns a continuous projection that moves by stepPerPeriod over
// each period, expressed as a per-second rate. It does not snap to whole
// steps: a reading between period boundaries includes a partial step.
func PerPeriod(base time.Time, value, stepPerPeriod float64, period time.Duration, opts ...Option) Spec {
	return Must(base, value, stepPerPeriod/period.Seconds(), opts...)
}

package util

import "time"

const (
	unixEpochJD  = 2440587.5
	secondsInDay = 86400.0
)

// JulianDay returns the Julian day number (UT) of t.
func JulianDay(t time.Time) float64 {
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return unixEpochJD + sec/secondsInDay
}

// FromJulianDay is the inverse of JulianDay, in UTC.
func FromJulianDay(jd float64) time.Time {
	sec := (jd - unixEpochJD) * secondsInDay
	whole := int64(sec)
	nsec := int64((sec - float64(whole)) * 1e9)
	return time.Unix(whole, nsec).UTC()
}

package siri

import "time"

// ParseTime parses a provider timestamp. The provider emits RFC3339
// with or without fractional seconds; both parse with this layout.
func ParseTime(stamp string) (time.Time, error) {
	return time.Parse(time.RFC3339, stamp)
}

// MinutesUntil returns the whole minutes from now until stamp,
// negative when the stamp is already past. Unparseable stamps return
// -1; consumers render anything at or below zero as "due".
func MinutesUntil(now time.Time, stamp string) int {
	t, err := ParseTime(stamp)
	if err != nil {
		return -1
	}
	return int(t.Sub(now).Minutes())
}

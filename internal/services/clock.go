package services

import "time"

// Clock returns the current time in the application's time zone.
type Clock func() time.Time

// ClockIn returns a Clock reporting wall time in loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

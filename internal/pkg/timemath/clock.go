package timemath

import "time"

// Clock supplies the current instant and the host zone offset.
type Clock interface {
	Now() time.Time
	// OffsetMinutes returns the host offset from UTC at t, east-positive.
	OffsetMinutes(t time.Time) int
}

type systemClock struct{}

// SystemClock reads time.Now in the process's local zone.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) OffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return offset / 60
}

// FixedClock always reports the same instant. The host offset is taken from the instant's location.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.At
}

func (c *FixedClock) OffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return offset / 60
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}

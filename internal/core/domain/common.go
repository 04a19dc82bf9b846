package domain

import "time"

// Clock supplies the current time. Services take one so that timestamps
// such as DatePaid and LastModified can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock, always in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

package clock

import (
	"log"
	"time"

	"github.com/danieljstvincent/topthreeclub/internal/pkg/env"
)

// Clock supplies the current calendar date and instant in the configured
// time zone. The engine and aggregator take "today" as an explicit
// parameter so they stay deterministic under test; this interface is how
// callers obtain it.
type Clock interface {
	// Today returns the current calendar date at midnight in the clock's zone.
	Today() time.Time
	// Now returns the current instant in the clock's zone.
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock builds a Clock resolved in the APP_TIMEZONE zone
// (default UTC). An unknown zone falls back to UTC with a log line
// rather than failing startup.
func NewSystemClock() Clock {
	name := env.GetEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("unknown APP_TIMEZONE %q, falling back to UTC: %v", name, err)
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Today() time.Time {
	return Midnight(c.Now())
}

// Midnight truncates t to 00:00 of its calendar day, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Fixed returns a Clock pinned to the given instant, for tests.
func Fixed(now time.Time) Clock {
	return fixedClock{now: now}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time   { return c.now }
func (c fixedClock) Today() time.Time { return Midnight(c.now) }

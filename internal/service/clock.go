package service

import (
	"time"

	"lexibot/internal/domain"
)

// Clock yields the current time in the bot's timezone
type Clock struct {
	Location *time.Location
	NowFunc  func() time.Time
}

// NewClock creates a wall clock for loc
func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc, NowFunc: time.Now}
}

// Now returns the current time in the clock's location
func (c Clock) Now() time.Time {
	now := time.Now
	if c.NowFunc != nil {
		now = c.NowFunc
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Today returns midnight of the current day
func (c Clock) Today() time.Time {
	return domain.StartOfDay(c.Now())
}

// Tomorrow returns midnight of the next day
func (c Clock) Tomorrow() time.Time {
	return c.Today().AddDate(0, 0, 1)
}

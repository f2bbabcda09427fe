package app

import (
	"time"

	"github.com/bethropolis/gotoflash/internal/clock"
)

// loopClock hands timer callbacks to the event loop instead of running them
// on the timer's goroutine, so every view mutation happens on one goroutine.
type loopClock struct {
	base clock.Clock
	post func(func())
}

func (c loopClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	return c.base.AfterFunc(d, func() { c.post(fn) })
}

func (c loopClock) Now() time.Time {
	return c.base.Now()
}

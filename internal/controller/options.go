package controller

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultLinkNoticeDelay = 500 * time.Millisecond

	// LinkNotice is shown once after the download link is first opened.
	LinkNotice = "Your download should start shortly. The link will expire after this download."
)

// Ticker is the part of *time.Ticker the poller needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d
type TickerFunc func(d time.Duration) Ticker

// AfterFunc runs f once after d and returns a function that cancels it
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configures a Controller
type Option func(*Controller)

// WithPollInterval sets the status polling period; non-positive values are ignored
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxPollFailures ends polling with a network error after n consecutive failed
// ticks. Zero keeps polling indefinitely.
func WithMaxPollFailures(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.maxPollFailures = n
		}
	}
}

// WithLinkNoticeDelay sets how long after the first link open the notice appears
func WithLinkNoticeDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.noticeDelay = d
		}
	}
}

// WithTicker replaces the poll ticker source
func WithTicker(f TickerFunc) Option {
	return func(c *Controller) { c.newTicker = f }
}

// WithAfterFunc replaces the timer used for the link notice
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = f }
}

// WithLogger sets the controller logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

package app

import "time"

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay. Sessions use it for the countdown,
// the reveal chain and warning expiry so tests can drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Timings are the delays between automatic game steps.
type Timings struct {
	Intro   time.Duration // stage banner before categories load
	Tick    time.Duration // one countdown second
	Reveal  time.Duration // per dropped option
	Settle  time.Duration // after the last drop, before payout
	Warning time.Duration // how long a betting warning stays up
	Fetch   time.Duration // question provider timeout
}

func DefaultTimings() Timings {
	return Timings{
		Intro:   1500 * time.Millisecond,
		Tick:    time.Second,
		Reveal:  1200 * time.Millisecond,
		Settle:  time.Second,
		Warning: 2 * time.Second,
		Fetch:   5 * time.Second,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.Intro <= 0 {
		t.Intro = d.Intro
	}
	if t.Tick <= 0 {
		t.Tick = d.Tick
	}
	if t.Reveal <= 0 {
		t.Reveal = d.Reveal
	}
	if t.Settle <= 0 {
		t.Settle = d.Settle
	}
	if t.Warning <= 0 {
		t.Warning = d.Warning
	}
	if t.Fetch <= 0 {
		t.Fetch = d.Fetch
	}
	return t
}

package cycle

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Countdown is where we are inside the repeating reward cycle.
type Countdown struct {
	Cycle    int64 // 1 based
	Days     int64
	Hours    int64
	Minutes  int64
	Seconds  int64
	Progress float64 // percent of the current cycle elapsed
}

// Duration of a cycle lasting days.
func Duration(days int) time.Duration {
	return time.Duration(days) * day
}

// CountdownAt computes the countdown for cycles of length duration that started at start.
func CountdownAt(start, now time.Time, duration time.Duration) Countdown {
	if duration <= 0 {
		return Countdown{Cycle: 1}
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	into := elapsed % duration
	left := duration - into
	return Countdown{
		Cycle:    int64(elapsed/duration) + 1,
		Days:     int64(left / day),
		Hours:    int64((left % day) / time.Hour),
		Minutes:  int64((left % time.Hour) / time.Minute),
		Seconds:  int64((left % time.Minute) / time.Second),
		Progress: float64(into) / float64(duration) * 100,
	}
}

// BalanceTween counts a displayed balance from From to To with a quartic ease out.
type BalanceTween struct {
	From     float64
	To       float64
	Duration time.Duration
}

const TweenDuration = 3 * time.Second

func NewBalanceTween(from, to float64) BalanceTween {
	return BalanceTween{From: from, To: to, Duration: TweenDuration}
}

// Value is the displayed balance elapsed into the tween.
func (b BalanceTween) Value(elapsed time.Duration) float64 {
	if elapsed >= b.Duration || b.Duration <= 0 {
		return b.To
	}
	if elapsed <= 0 {
		return b.From
	}
	t := float64(elapsed) / float64(b.Duration)
	progress := 1 - math.Pow(1-t, 4)
	return b.From + (b.To-b.From)*progress
}

// Retarget starts a new tween towards to from wherever this one is at elapsed.
func (b BalanceTween) Retarget(elapsed time.Duration, to float64) BalanceTween {
	return BalanceTween{From: b.Value(elapsed), To: to, Duration: b.Duration}
}

package money

import (
	"math"
	"sync"
	"time"
)

// AnimationDuration is how long a headline figure takes to settle.
const AnimationDuration = 360 * time.Millisecond

// EaseOutCubic maps linear progress p in [0,1] onto 1-(1-p)^3.
func EaseOutCubic(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 1 - math.Pow(1-p, 3)
}

// Tween interpolates a displayed value from From to To.
type Tween struct {
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
}

// Progress returns the linear progress in [0,1] at now.
func (t Tween) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	return math.Min(math.Max(p, 0), 1)
}

// At returns the eased value at now.
func (t Tween) At(now time.Time) float64 {
	return t.From + (t.To-t.From)*EaseOutCubic(t.Progress(now))
}

// Done reports whether the tween has reached its target.
func (t Tween) Done(now time.Time) bool {
	return t.Progress(now) >= 1
}

// Animator remembers the last target rendered per element key so the next
// render starts from it. Unknown keys start from 0.
type Animator struct {
	mu       sync.Mutex
	prev     map[string]float64
	duration time.Duration
}

// NewAnimator returns an Animator using AnimationDuration.
func NewAnimator() *Animator {
	return &Animator{prev: make(map[string]float64), duration: AnimationDuration}
}

// Animate starts a tween for key towards target and records target as the
// new starting point for that key.
func (a *Animator) Animate(key string, target float64, now time.Time) Tween {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		target = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	tw := Tween{From: a.prev[key], To: target, Start: now, Duration: a.duration}
	a.prev[key] = target
	return tw
}

// Last returns the last target recorded for key.
func (a *Animator) Last(key string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prev[key]
}

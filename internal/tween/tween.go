// Package tween runs timed interpolations cooperatively inside a frame loop.
//
// A Task interpolates from a start value to an end value over a duration,
// calling an update hook on every Advance and a completion hook once at the end.
// Nothing here spawns goroutines or sleeps: the host advances the Animator from
// its frame callback.
package tween

import (
	"time"
)

// Ease maps linear progress in [0,1] to eased progress
type Ease func(t float32) float32

// Linear is the identity ease
func Linear(t float32) float32 {
	return t
}

// OutQuad decelerates towards the end
func OutQuad(t float32) float32 {
	return 1 - (1-t)*(1-t)
}

// InOutQuad accelerates then decelerates
func InOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Task interpolates a value of type T
type Task[T any] struct {
	From     T
	To       T
	Duration time.Duration
	Ease     Ease
	Lerp     func(a, b T, t float32) T
	// OnUpdate receives the interpolated value on every tick
	OnUpdate func(v T)
	// OnComplete runs once after the final OnUpdate
	OnComplete func()
}

// runner is a scheduled task as seen by the Animator
type runner interface {
	// step advances by dt and reports whether the task has finished
	step(dt time.Duration) bool
	cancel()
}

type running[T any] struct {
	task      Task[T]
	elapsed   time.Duration
	cancelled bool
}

func (r *running[T]) step(dt time.Duration) bool {
	if r.cancelled {
		return true
	}
	r.elapsed += dt
	progress := float32(1)
	if r.task.Duration > 0 && r.elapsed < r.task.Duration {
		progress = float32(r.elapsed) / float32(r.task.Duration)
	}
	ease := r.task.Ease
	if ease == nil {
		ease = Linear
	}
	if r.task.OnUpdate != nil {
		r.task.OnUpdate(r.task.Lerp(r.task.From, r.task.To, ease(progress)))
	}
	if progress < 1 {
		return false
	}
	if r.task.OnComplete != nil {
		r.task.OnComplete()
	}
	return true
}

func (r *running[T]) cancel() {
	r.cancelled = true
}

// Handle identifies a scheduled task
type Handle struct {
	r runner
}

// Animator owns the set of in-flight tasks
type Animator struct {
	tasks []runner
}

// NewAnimator creates an idle animator
func NewAnimator() *Animator {
	return &Animator{}
}

// Start schedules task; it first updates on the next Advance
func Start[T any](a *Animator, task Task[T]) Handle {
	r := &running[T]{task: task}
	a.tasks = append(a.tasks, r)
	return Handle{r: r}
}

// Advance steps every task by dt and drops finished ones.
// Tasks started from a completion hook run from the next Advance.
func (a *Animator) Advance(dt time.Duration) {
	if len(a.tasks) == 0 {
		return
	}
	current := a.tasks
	a.tasks = nil
	var keep []runner
	for _, r := range current {
		if !r.step(dt) {
			keep = append(keep, r)
		}
	}
	a.tasks = append(keep, a.tasks...)
}

// Cancel stops a task without calling its hooks again
func (a *Animator) Cancel(h Handle) {
	if h.r == nil {
		return
	}
	h.r.cancel()
	for i, r := range a.tasks {
		if r == h.r {
			a.tasks = append(a.tasks[:i], a.tasks[i+1:]...)
			return
		}
	}
}

// Active returns the number of in-flight tasks
func (a *Animator) Active() int {
	return len(a.tasks)
}

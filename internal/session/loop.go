package session

import (
	"context"
	"sync"
)

// Loop is a cooperative task queue standing in for "the next rendering
// turn". Tasks run in the order they were posted, one at a time, on
// whichever goroutine calls RunPending or Run.
type Loop struct {
	mu    sync.Mutex
	queue []*Task
	wake  chan struct{}
}

// Task is a unit of deferred work returned by Post.
type Task struct {
	fn      func()
	loop    *Loop
	pending bool
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn for the next turn.
func (l *Loop) Post(fn func()) *Task {
	t := &Task{fn: fn, loop: l, pending: true}

	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Cancel removes the task from the queue. It reports whether the task was
// still queued; a cancelled task never runs.
func (t *Task) Cancel() bool {
	if t == nil {
		return false
	}
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()

	if !t.pending {
		return false
	}
	t.pending = false
	for i, q := range l.queue {
		if q == t {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			break
		}
	}
	return true
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunPending runs the tasks queued when it was called and returns how many
// ran. Tasks posted while draining wait for the next turn; tasks cancelled
// while draining are skipped.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	turn := append([]*Task(nil), l.queue...)
	l.mu.Unlock()

	ran := 0
	for _, t := range turn {
		if !l.take(t) {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

// Run drains the loop every time work is posted until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// take dequeues t if it is still pending.
func (l *Loop) take(t *Task) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !t.pending {
		return false
	}
	t.pending = false
	for i, q := range l.queue {
		if q == t {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			break
		}
	}
	return true
}

// Package apptest provides helpers for driving game sessions in tests.
package apptest

import (
	"sync"
	"time"

	"money-drop-service/internal/app"
)

// ManualScheduler is an app.Scheduler whose clock only moves on Advance.
// Callbacks run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTimer
}

type manualTimer struct {
	owner *ManualScheduler
	at    time.Duration
	seq   int
	f     func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) app.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, at: m.now + d, seq: m.seq, f: f}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	for i, task := range t.owner.tasks {
		if task == t {
			t.owner.tasks = append(t.owner.tasks[:i], t.owner.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, running every callback that falls due in
// deadline order, including callbacks scheduled by earlier ones.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		idx := -1
		for i, t := range m.tasks {
			if t.at > target {
				continue
			}
			if idx < 0 || t.at < m.tasks[idx].at || (t.at == m.tasks[idx].at && t.seq < m.tasks[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		due := m.tasks[idx]
		m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
		m.now = due.at
		m.mu.Unlock()

		due.f()
	}
}

// Pending returns how many callbacks are scheduled and not yet run or stopped.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Now returns the elapsed manual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Package retention deletes delivered media artifacts after a fixed delay so
// the scratch directory does not grow without bound.
package retention

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Manager schedules one-shot deletions for artifact files. Deletions survive
// nothing: timers are process-local, so a restart forgets pending work. That
// matches the delivery contract, where the chat already holds the media.
type Manager struct {
	logger *slog.Logger
	delay  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewManager builds a manager deleting scheduled paths after delay.
func NewManager(log *slog.Logger, delay time.Duration) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		logger:    log.With(slog.String("service", "retention")),
		delay:     delay,
		timers:    make(map[string]*time.Timer),
		afterFunc: time.AfterFunc,
	}
}

// Schedule arms a deletion timer for path. Scheduling the same path again
// resets its countdown. The call never blocks on the deletion itself.
func (m *Manager) Schedule(path string) {
	if path == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[path]; ok {
		t.Stop()
	}
	m.timers[path] = m.afterFunc(m.delay, func() {
		m.deleteNow(path)
	})
	m.logger.Debug("deletion scheduled",
		slog.String("path", path),
		slog.Duration("delay", m.delay))
}

func (m *Manager) deleteNow(path string) {
	m.mu.Lock()
	delete(m.timers, path)
	m.mu.Unlock()

	err := os.Remove(path)
	switch {
	case err == nil:
		m.logger.Info("artifact deleted", slog.String("path", path))
	case errors.Is(err, os.ErrNotExist):
		m.logger.Debug("artifact already gone", slog.String("path", path))
	default:
		m.logger.Warn("artifact deletion failed",
			slog.String("path", path),
			slog.Any("error", err))
	}
}

// Stop cancels all pending timers. Files whose timers had not fired stay on
// disk.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for path, t := range m.timers {
		t.Stop()
		delete(m.timers, path)
	}
}

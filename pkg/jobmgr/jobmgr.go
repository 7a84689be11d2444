// Package jobmgr runs named background jobs that can be stopped by name.
//
//	jm := jobmgr.NewManager(logger)
//	_ = jm.StartAsync(ctx, "presence", func(ctx context.Context) error {
//	    // work until ctx is cancelled
//	    return nil
//	})
//	_ = jm.Stop("presence")
//
// Jobs are removed once they return. There is no retry and no persistence.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrRunning    = errors.New("job already running")
	ErrNotRunning = errors.New("job not running")
)

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	jobs   map[string]*job
	logger zerolog.Logger
}

func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		jobs:   make(map[string]*job),
		logger: logger,
	}
}

// StartAsync runs runner in its own goroutine with a child of parent. A job
// with the same name must not be running.
func (m *Manager) StartAsync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrRunning, name)
	}

	ctx, cancel := context.WithCancel(parent)
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j

	go func() {
		defer close(j.done)
		defer cancel()

		m.logger.Debug().Str("job", name).Msg("job started")
		err := runner(ctx)
		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			m.logger.Error().Err(err).Str("job", name).Msg("job failed")
		default:
			m.logger.Debug().Str("job", name).Msg("job finished")
		}

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Every starts a job calling fn immediately and then once per interval.
func (m *Manager) Every(parent context.Context, name string, interval time.Duration, fn func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	return m.StartAsync(parent, name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			fn(ctx)
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
}

// Stop cancels the job and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}

	j.cancel()
	<-j.done
	return nil
}

// StopAll cancels every job and waits for them.
func (m *Manager) StopAll() {
	for _, name := range m.List() {
		_ = m.Stop(name)
	}
}

// List returns the running job names, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Status is a one-line summary such as "Running jobs: presence".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return "Running jobs: " + strings.Join(active, ", ")
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package poller refreshes dashboard data sources on fixed intervals.
//
// Each source is a Task with its own goroutine and ticker. Runs are
// numbered; a result is delivered only if no later-numbered run of the same
// task has been delivered already, so a slow scheduled fetch can never
// overwrite the result of a newer manual refresh.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Fetcher loads the current state of one data source.
type Fetcher func(ctx context.Context) (any, error)

// Task is one periodically refreshed data source.
type Task struct {
	Name     string
	Interval time.Duration
	Fetch    Fetcher
}

// Sink receives fresh results.
type Sink interface {
	Publish(name string, seq uint64, data any)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, seq uint64, data any)

func (f SinkFunc) Publish(name string, seq uint64, data any) { f(name, seq, data) }

// ErrUnknownTask is returned by Trigger for names that were never added.
var ErrUnknownTask = errors.New("unknown task")

type state struct {
	task    Task
	trigger chan struct{}

	mu     sync.Mutex
	issued uint64

	deliverMu sync.Mutex
	delivered uint64
}

// Poller runs a set of tasks until stopped.
type Poller struct {
	sink    Sink
	timeout time.Duration
	tasks   map[string]*state
	order   []string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a poller delivering to sink. Each fetch is bounded by
// timeout, or by the task interval when timeout is zero.
func New(sink Sink, timeout time.Duration, tasks ...Task) *Poller {
	p := &Poller{sink: sink, timeout: timeout, tasks: make(map[string]*state)}
	for _, t := range tasks {
		if t.Interval <= 0 || t.Fetch == nil {
			continue
		}
		if _, dup := p.tasks[t.Name]; dup {
			continue
		}
		p.tasks[t.Name] = &state{task: t, trigger: make(chan struct{}, 1)}
		p.order = append(p.order, t.Name)
	}
	return p
}

// Start launches one goroutine per task. Every task runs once right away.
// Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	for _, name := range p.order {
		s := p.tasks[name]
		p.wg.Add(1)
		go p.loop(ctx, s)
	}
	slog.Info("poller started", "tasks", p.order)
}

// Stop cancels all tasks and waits for in-flight fetches to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
}

// Trigger asks a task to refresh now, outside its schedule. Triggers that
// arrive while one is already pending are coalesced.
func (p *Poller) Trigger(name string) error {
	s, ok := p.tasks[name]
	if !ok {
		return ErrUnknownTask
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return nil
}

func (p *Poller) loop(ctx context.Context, s *state) {
	defer p.wg.Done()

	ticker := time.NewTicker(s.task.Interval)
	defer ticker.Stop()

	var runs sync.WaitGroup
	defer runs.Wait()

	start := func() {
		seq := s.next()
		runs.Add(1)
		go func() {
			defer runs.Done()
			p.run(ctx, s, seq)
		}()
	}

	start()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start()
		case <-s.trigger:
			start()
		}
	}
}

// run fetches and delivers one numbered result.
func (p *Poller) run(ctx context.Context, s *state, seq uint64) {
	timeout := p.timeout
	if timeout <= 0 {
		timeout = s.task.Interval
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := s.task.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("poll failed", "task", s.task.Name, "seq", seq, "error", err)
		}
		return
	}
	s.deliver(p.sink, seq, data)
}

func (s *state) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// deliver publishes data unless a newer run was delivered already. The
// check and the publish happen under one lock so results reach the sink in
// sequence order.
func (s *state) deliver(sink Sink, seq uint64, data any) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if seq <= s.delivered {
		slog.Debug("discarding stale poll result", "task", s.task.Name, "seq", seq)
		return
	}
	s.delivered = seq
	sink.Publish(s.task.Name, seq, data)
}

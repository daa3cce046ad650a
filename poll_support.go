package driver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PollFunc runs once per interval. A nil error counts as success.
type PollFunc func(ctx context.Context) error

// PollStatus is a snapshot of a Poller, shaped for JSON.
type PollStatus struct {
	IsRunning           bool      `json:"is_running"`
	Healthy             bool      `json:"healthy"`
	LastPollTime        time.Time `json:"last_poll_time,omitempty"`
	LastSuccessTime     time.Time `json:"last_success_time,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	TotalPolls          int64     `json:"total_polls"`
	TotalFailures       int64     `json:"total_failures"`
}

type PollerOptions struct {
	Logger Logger
	// Name tags log lines.
	Name string

	// MaxConsecutiveFailures before IsHealthy turns false (0 = never).
	MaxConsecutiveFailures int

	// Timeout bounds a single poll; defaults to the interval.
	Timeout time.Duration

	OnUnhealthy func(failures int)
}

// Poller runs a PollFunc on a fixed interval and keeps counters about it.
type Poller struct {
	interval time.Duration
	pollFn   PollFunc
	opts     PollerOptions

	mu                  sync.RWMutex
	running             atomic.Bool
	lastPollTime        time.Time
	lastSuccessTime     time.Time
	lastError           error
	consecutiveFailures int
	totalPolls          int64
	totalFailures       int64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewPoller(interval time.Duration, pollFn PollFunc, opts PollerOptions) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = interval
	}
	if opts.Logger == nil {
		opts.Logger = NewNopLogger()
	}
	return &Poller{
		interval: interval,
		pollFn:   pollFn,
		opts:     opts,
	}
}

// Start polls once immediately and then on every tick until Stop or ctx is done.
func (p *Poller) Start(ctx context.Context) {
	if p.running.Swap(true) {
		return
	}
	p.stopCh = make(chan struct{})
	p.wg.Add(1)
	go p.loop(ctx, p.stopCh)
}

func (p *Poller) Stop() {
	if !p.running.Swap(false) {
		return
	}
	close(p.stopCh)
	p.wg.Wait()
}

func (p *Poller) IsRunning() bool { return p.running.Load() }

func (p *Poller) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthyLocked()
}

func (p *Poller) healthyLocked() bool {
	if p.opts.MaxConsecutiveFailures <= 0 {
		return true
	}
	return p.consecutiveFailures < p.opts.MaxConsecutiveFailures
}

func (p *Poller) Status() PollStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := PollStatus{
		IsRunning:           p.running.Load(),
		Healthy:             p.healthyLocked(),
		LastPollTime:        p.lastPollTime,
		LastSuccessTime:     p.lastSuccessTime,
		ConsecutiveFailures: p.consecutiveFailures,
		TotalPolls:          p.totalPolls,
		TotalFailures:       p.totalFailures,
	}
	if p.lastError != nil {
		status.LastError = p.lastError.Error()
	}
	return status
}

func (p *Poller) loop(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.Lock()
	p.lastPollTime = time.Now()
	p.totalPolls++
	p.mu.Unlock()

	pollCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	err := p.pollFn(pollCtx)
	cancel()

	p.mu.Lock()
	if err == nil {
		p.lastError = nil
		p.lastSuccessTime = time.Now()
		p.consecutiveFailures = 0
		p.mu.Unlock()
		return
	}
	p.lastError = err
	p.consecutiveFailures++
	p.totalFailures++
	failures := p.consecutiveFailures
	p.mu.Unlock()

	p.opts.Logger.Warn("poll failed", "poller", p.opts.Name, "error", err, "consecutive_failures", failures)

	if p.opts.MaxConsecutiveFailures > 0 && failures == p.opts.MaxConsecutiveFailures && p.opts.OnUnhealthy != nil {
		p.opts.OnUnhealthy(failures)
	}
}

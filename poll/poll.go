package poll

import (
	"context"
	"sync"
	"time"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
)

// Fetch loads the full current value of a resource
type Fetch[T any] func(ctx context.Context) (T, error)

// State is the view state of a resource. Every successful fetch replaces Data.
type State[T any] struct {
	Data      T         `json:"data" yaml:"data"`
	Loaded    bool      `json:"loaded" yaml:"loaded"`
	Loading   bool      `json:"loading" yaml:"loading"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	Fetches   int       `json:"fetches" yaml:"fetches"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Snapshot is the type erased state of a resource
type Snapshot struct {
	Name      string        `json:"name" yaml:"name"`
	Interval  time.Duration `json:"interval" yaml:"interval"`
	Data      any           `json:"data" yaml:"data"`
	Loaded    bool          `json:"loaded" yaml:"loaded"`
	Loading   bool          `json:"loading" yaml:"loading"`
	Error     string        `json:"error,omitempty" yaml:"error,omitempty"`
	Fetches   int           `json:"fetches" yaml:"fetches"`
	UpdatedAt time.Time     `json:"updatedAt" yaml:"updatedAt"`
}

type Poller interface {
	Name() string
	Start(ctx context.Context)
	Stop()
	Running() bool
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot))
}

// Resource fetches immediately when started and then again on every tick of the
// interval until stopped. A zero interval fetches once. Failures are recorded as
// an error string and the next tick retries.
type Resource[T any] struct {
	name     string
	interval time.Duration
	fetch    Fetch[T]
	logger   *zap.SugaredLogger

	mu        sync.Mutex
	state     State[T]
	cancel    context.CancelFunc
	done      chan struct{}
	listeners []func(Snapshot)
}

var _ Poller = &Resource[int]{}

func New[T any](name string, interval time.Duration, fetch Fetch[T], logger *zap.SugaredLogger) *Resource[T] {
	return &Resource[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger.With("resource", name),
	}
}

func (r *Resource[T]) Name() string {
	return r.name
}

func (r *Resource[T]) Interval() time.Duration {
	return r.interval
}

// Start is a no-op if the resource is already running
func (r *Resource[T]) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.state.Loading = !r.state.Loaded
	go r.run(ctx, r.done)
}

// Stop cancels the timer and any fetch in flight and waits for the loop to exit.
// No fetch is issued after Stop returns.
func (r *Resource[T]) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.state.Loading = false
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Resource[T]) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// State returns a deep copy of the current view state
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return deepcopy.Copy(r.state).(State[T])
}

func (r *Resource[T]) Snapshot() Snapshot {
	return r.snapshot(r.State())
}

// Subscribe registers fn to be called after every completed fetch
func (r *Resource[T]) Subscribe(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Resource[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	r.tick(ctx)
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Resource[T]) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	data, err := r.fetch(ctx)
	if ctx.Err() != nil {
		// Stopped while the request was in flight
		return
	}

	r.mu.Lock()
	if err != nil {
		r.logger.Warnw("fetch failed", "error", err)
		r.state.Error = errs.Message(err)
	} else {
		r.state.Data = data
		r.state.Loaded = true
		r.state.Error = ""
		r.state.UpdatedAt = time.Now()
	}
	r.state.Loading = false
	r.state.Fetches++
	state := deepcopy.Copy(r.state).(State[T])
	listeners := r.listeners
	r.mu.Unlock()

	snapshot := r.snapshot(state)
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (r *Resource[T]) snapshot(state State[T]) Snapshot {
	return Snapshot{
		Name:      r.name,
		Interval:  r.interval,
		Data:      state.Data,
		Loaded:    state.Loaded,
		Loading:   state.Loading,
		Error:     state.Error,
		Fetches:   state.Fetches,
		UpdatedAt: state.UpdatedAt,
	}
}

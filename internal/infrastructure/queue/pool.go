package queue

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrStopped is returned when work is submitted to a pool whose context has
// been cancelled.
var ErrStopped = errors.New("queue: pool stopped")

const (
	jobQueued int32 = iota
	jobRunning
	jobAbandoned
)

type job struct {
	ctx   context.Context
	fn    func()
	state atomic.Int32
	done  chan struct{}
}

// Pool runs submitted functions on a fixed set of workers. It bounds how many
// CPU-heavy jobs (bcrypt) execute at once; callers block until their job has
// run or their context is done.
type Pool struct {
	jobs    chan *job
	workers int
	stopped chan struct{}
	depth   prometheus.Gauge
	log     zerolog.Logger
}

type Option func(*Pool)

// WithDepthGauge reports the number of queued jobs to g.
func WithDepthGauge(g prometheus.Gauge) Option {
	return func(p *Pool) { p.depth = g }
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewPool(numWorkers int, log zerolog.Logger, opts ...Option) *Pool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	p := &Pool{
		jobs:    make(chan *job, channelBuffer),
		workers: numWorkers,
		stopped: make(chan struct{}),
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. Cancelling ctx stops the pool: jobs already
// running finish and their callers get nil, jobs still queued are dropped and
// their callers get ErrStopped. Give the pool a context that outlives the HTTP
// server's drain, not the signal context.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.stopped)
	}()
}

// Do queues fn and waits for it to complete.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	j := &job{ctx: ctx, fn: fn, done: make(chan struct{})}

	select {
	case p.jobs <- j:
		p.observeDepth()
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrStopped
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		j.state.CompareAndSwap(jobQueued, jobAbandoned)
		return ctx.Err()
	case <-p.stopped:
		if j.state.CompareAndSwap(jobQueued, jobAbandoned) {
			return ErrStopped
		}
	}

	// A worker claimed the job before the pool stopped.
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			p.observeDepth()
			if ctx.Err() != nil {
				return
			}
			if j.ctx.Err() != nil || !j.state.CompareAndSwap(jobQueued, jobRunning) {
				p.log.Debug().Int("worker_id", id).Msg("skipping abandoned job")
				continue
			}
			j.fn()
			close(j.done)
		}
	}
}

func (p *Pool) observeDepth() {
	if p.depth != nil {
		p.depth.Set(float64(len(p.jobs)))
	}
}

package worker

import (
	"context"
	"sync"

	"github.com/strayline/casevault/internal/logger"
)

// Job is a unit of background work.
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed set of workers fed from a bounded queue.
// Maintenance work (audit purges and the like) goes through here so a slow
// job can never starve the request path of goroutines.
type Pool struct {
	workers int
	jobs    chan Job
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, queueSize),
		stop:    make(chan struct{}),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			// Jobs outlive any request, so they run on a detached context
			if err := job.Process(context.Background()); err != nil {
				logger.Error("Background job failed", "worker", id, "error", err)
			}
		case <-p.stop:
			return
		}
	}
}

// Enqueue submits a job, blocking while the queue is full.
func (p *Pool) Enqueue(job Job) {
	p.jobs <- job
}

// Stop signals the workers and waits for the one in flight on each to
// finish. Queued but unstarted jobs are dropped.
func (p *Pool) Stop() {
	close(p.stop)
	p.wg.Wait()
}

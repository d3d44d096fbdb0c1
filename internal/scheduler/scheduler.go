package scheduler

import (
	"sync"
	"time"

	"github.com/strayline/casevault/internal/worker"
)

// Scheduler enqueues registered jobs onto a worker pool at fixed intervals.
// It owns only the timing; execution and error logging belong to the pool
// and the jobs themselves.
type Scheduler struct {
	pool *worker.Pool
	stop chan struct{}
	wg   sync.WaitGroup
}

func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		pool: pool,
		stop: make(chan struct{}),
	}
}

// Schedule starts a ticker that enqueues the job every interval. The first
// run happens one interval after registration, not immediately. A full
// queue blocks the tick until a worker frees up, which skips beats under
// sustained backlog instead of stacking duplicates.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go s.tickLoop(interval, job)
}

func (s *Scheduler) tickLoop(interval time.Duration, job worker.Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pool.Enqueue(job)
		case <-s.stop:
			return
		}
	}
}

// Stop halts every ticker and waits for the loops to exit.
func (s *Scheduler) Stop() {
	close(s.stop)
	s.wg.Wait()
}

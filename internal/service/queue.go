// FILE: internal/service/queue.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chesssim/internal/core"
)

// SimTask is one game of a batch and the channel its result goes to
type SimTask struct {
	Index    int
	Config   GameConfig
	Response chan<- SimResult
}

// SimResult contains the outcome of one simulated game
type SimResult struct {
	Index  int
	GameID string
	State  core.State
	Turns  int
	Error  error
}

// SimQueue runs simulated games on a fixed pool of workers. Each game owns its board; workers
// share nothing but the read-only piece rules.
type SimQueue struct {
	tasks   chan SimTask
	workers int
	run     func(context.Context, SimTask) SimResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSimQueue creates a queue with workerCount workers executing run
func NewSimQueue(ctx context.Context, workerCount int, run func(context.Context, SimTask) SimResult) *SimQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(ctx)

	q := &SimQueue{
		tasks:   make(chan SimTask, 100),
		workers: workerCount,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

func (q *SimQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

func (q *SimQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}

			result := q.run(q.ctx, task)

			select {
			case task.Response <- result:
			case <-q.ctx.Done():
				return
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// Submit enqueues a task, waiting for room while the queue is alive
func (q *SimQueue) Submit(task SimTask) error {
	select {
	case q.tasks <- task:
		return nil
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down: %w", q.ctx.Err())
	}
}

// Close stops accepting tasks; workers finish what is queued
func (q *SimQueue) Close() {
	close(q.tasks)
}

// Shutdown cancels running games and waits for the workers
func (q *SimQueue) Shutdown(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

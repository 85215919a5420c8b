package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(ctx context.Context, job T) (G, error)

type indexedJob[T any] struct {
	index int
	job   T
}

type indexedResult[G any] struct {
	index int
	res   G
	err   error
}

// WorkerPool runs jobs on a fixed number of goroutines. results come back tagged with the position
// the job was added at, so callers can restore submission order.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan indexedJob[T]
	results    chan indexedResult[G]
	wg         sync.WaitGroup
	added      int
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan indexedJob[T], jobQueueSize),
		results:    make(chan indexedResult[G], jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for j := range wp.jobQueue {
		if err := ctx.Err(); err != nil {
			wp.results <- indexedResult[G]{index: j.index, err: err}
			continue
		}
		res, err := jobFunc(ctx, j.job)
		wp.results <- indexedResult[G]{index: j.index, res: res, err: err}
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

// AddJob must not be called concurrently with itself.
func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- indexedJob[T]{index: wp.added, job: job}
	wp.added++
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

// Map runs jobFunc over jobs and returns the results in job order. after the first failure the remaining
// jobs see a cancelled ctx; the first error is returned.
func Map[T any, G any](ctx context.Context, numWorkers int, jobs []T, jobFunc JobFunc[T, G]) ([]G, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp := NewWorkerPool[T, G](numWorkers, len(jobs))
	wp.Start(ctx, jobFunc)
	for _, job := range jobs {
		wp.AddJob(job)
	}
	wp.Close()

	go wp.Wait()

	out := make([]G, len(jobs))
	var firstErr error
	for r := range wp.results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		out[r.index] = r.res
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

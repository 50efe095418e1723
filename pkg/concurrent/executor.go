package concurrent

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"meetpoint/pkg/util"
)

const DefaultMaxConcurrent = 6

var ErrInvalidConfiguration = errors.New("invalid executor configuration")

type Task[T any] func() (T, error)

// Outcome is the terminal state of one task: either Value or Err is
// meaningful, never both.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Executor runs independent tasks with at most maxConcurrent in flight.
// A task failure is recorded in its outcome and never prevents queued tasks
// from running.
type Executor struct {
	maxConcurrent int
	running       atomic.Int64
	queued        atomic.Int64
}

func NewExecutor(maxConcurrent int) (*Executor, error) {
	if maxConcurrent <= 0 {
		return nil, util.WrapErrorf(ErrInvalidConfiguration, util.ErrBadParamInput,
			"maxConcurrent must be positive, got %d", maxConcurrent)
	}
	return &Executor{maxConcurrent: maxConcurrent}, nil
}

func (e *Executor) MaxConcurrent() int {
	return e.maxConcurrent
}

// Running returns the number of tasks currently executing.
func (e *Executor) Running() int {
	return int(e.running.Load())
}

// Queued returns the number of submitted tasks that have not started yet.
func (e *Executor) Queued() int {
	return int(e.queued.Load())
}

// Run executes tasks with bounded parallelism and returns one outcome per
// task at the task's input position, regardless of completion order. The
// first min(maxConcurrent, len(tasks)) tasks start immediately; the rest are
// dequeued strictly in input order as running tasks finish. Run returns only
// once every task reached a terminal state.
func Run[T any](e *Executor, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	sem := make(chan struct{}, e.maxConcurrent)
	var wg sync.WaitGroup

	e.queued.Add(int64(len(tasks)))
	for i := range tasks {
		sem <- struct{}{}
		e.queued.Add(-1)
		e.running.Add(1)
		wg.Add(1)
		go func(i int, task Task[T]) {
			defer func() {
				e.running.Add(-1)
				<-sem
				wg.Done()
			}()
			outcomes[i] = runTask(task)
		}(i, tasks[i])
	}

	wg.Wait()
	return outcomes
}

func runTask[T any](task Task[T]) (outcome Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	outcome.Value, outcome.Err = task()
	return outcome
}

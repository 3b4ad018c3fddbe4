package grace

import (
	"sync"

	"github.com/sre-norns/waymark/pkg/links"
)

// WorkItem is a unit of work executed by a [Workgroup].
type WorkItem func() error

// Workgroup runs work items on a fixed number of goroutines and collects their errors.
// Workers share the group, so it must not be copied after [NewWorkgroup].
type Workgroup struct {
	wg sync.WaitGroup

	workstream chan WorkItem

	mu   sync.Mutex
	errs []error
}

// NewWorkgroup starts capacity workers. Capacity less than 1 is treated as 1.
func NewWorkgroup(capacity int) *Workgroup {
	capacity = max(capacity, 1)

	result := &Workgroup{
		workstream: make(chan WorkItem, capacity),
	}

	result.wg.Add(capacity)
	for i := 0; i < capacity; i++ {
		go result.run()
	}

	return result
}

// Go schedules work. It blocks if all workers are busy and the queue is full.
func (w *Workgroup) Go(work WorkItem) {
	w.workstream <- work
}

// Wait stops accepting work, waits for scheduled work to complete and returns all errors as [links.ErrorSet], or nil.
func (w *Workgroup) Wait() error {
	close(w.workstream)

	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	return links.AsMultiErrorOrNil(w.errs...)
}

func (w *Workgroup) run() {
	for {
		work, ok := <-w.workstream
		if !ok {
			w.wg.Done()
			return
		}

		if err := work(); err != nil {
			w.mu.Lock()
			w.errs = append(w.errs, err)
			w.mu.Unlock()
		}
	}
}

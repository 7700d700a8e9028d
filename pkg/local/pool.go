package local

import (
	"fmt"
	"sync"
)

type Task func()

// Pool runs submitted tasks on a fixed number of goroutines. Close is the
// join barrier: it returns only after every submitted task has finished.
type Pool struct {
	numWorkers int
	tasks      chan Task
	onPanic    func(any)
	startOnce  sync.Once
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan Task, numWorkers),
	}
}

// OnPanic installs a handler for values recovered from panicking tasks. The
// handler runs on the worker goroutine that recovered the panic, which then
// keeps draining tasks. Must be called before Start.
func (p *Pool) OnPanic(handler func(any)) *Pool {
	p.onPanic = handler
	return p
}

func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for range p.numWorkers {
			p.wg.Go(func() {
				for task := range p.tasks {
					p.run(task)
				}
			})
		}
	})
}

func (p *Pool) run(task Task) {
	if task == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if p.onPanic != nil {
				p.onPanic(r)
				return
			}
			panic(fmt.Sprintf("pool task panicked: %v", r))
		}
	}()
	task()
}

// Submit blocks until a worker can accept the task. Submitting after Close
// panics.
func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}

package loader

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// decodePool runs loads on automation workers over channels it owns. Closing the stop channel
// ends every worker, and close joins the tasks still running.
type decodePool struct {
	mu      sync.Mutex
	closed  bool
	tasks   chan worker.Task
	stop    chan int
	workers []worker.Worker
	running sync.WaitGroup
}

func newDecodePool(workers, queue int, idleTimeout time.Duration) *decodePool {
	p := &decodePool{
		tasks: make(chan worker.Task, queue),
		stop:  make(chan int),
	}
	for i := range workers {
		w := worker.NewWorker(i, p.tasks, p.stop, idleTimeout, nil)
		w.Start()
		p.workers = append(p.workers, w)
	}
	return p
}

// submit queues t. It blocks while the queue is full and reports false once the pool is closed.
func (p *decodePool) submit(t worker.Task) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.running.Add(1)
	p.mu.Unlock()

	do := t.Do
	t.Do = func() (any, error) {
		defer p.running.Done()
		return do()
	}
	select {
	case p.tasks <- t:
		return true
	case <-p.stop:
		p.running.Done()
		return false
	}
}

// close stops the workers and returns once no task is running. Tasks still queued run on the
// calling goroutine, so they must observe the closed loader and return quickly.
func (p *decodePool) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.stop)
	p.mu.Unlock()

	idle := make(chan struct{})
	go func() {
		p.running.Wait()
		close(idle)
	}()
	for {
		select {
		case t := <-p.tasks:
			t.Do()
		case <-idle:
			return
		}
	}
}

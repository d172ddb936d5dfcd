package worker

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is one unit of background work.
type Job interface {
	Execute() error
	ID() string
}

// ErrQueueFull is returned by Submit when the job queue has no capacity left.
var ErrQueueFull = errors.New("job queue is full")

// Dispatcher fans submitted jobs out to a fixed pool of workers. Callers get
// an immediate answer from Submit and never block on job execution.
type Dispatcher struct {
	pool    chan chan Job
	queue   chan Job
	quit    chan struct{}
	workers []*worker
	wg      sync.WaitGroup
	log     *logrus.Logger
}

func NewDispatcher(maxWorkers, queueSize int, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		pool:    make(chan chan Job, maxWorkers),
		queue:   make(chan Job, queueSize),
		quit:    make(chan struct{}),
		workers: make([]*worker, 0, maxWorkers),
		log:     log,
	}
}

// Run starts the workers and the dispatch loop.
func (d *Dispatcher) Run() {
	for i := 1; i <= cap(d.pool); i++ {
		w := newWorker(i, d.pool, &d.wg, d.log)
		d.workers = append(d.workers, w)
		w.start()
	}
	go d.dispatch()
	d.log.WithField("workers", len(d.workers)).Info("dispatcher running")
}

func (d *Dispatcher) dispatch() {
	for {
		select {
		case job := <-d.queue:
			// Hand the job to the next worker that registers a free channel.
			go func(job Job) {
				jobChannel := <-d.pool
				jobChannel <- job
			}(job)
		case <-d.quit:
			return
		}
	}
}

// Submit enqueues a job without blocking. The caller decides what a full
// queue means for its client.
func (d *Dispatcher) Submit(job Job) error {
	select {
	case d.queue <- job:
		d.log.WithField("job_id", job.ID()).Info("job submitted")
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop shuts the dispatch loop down and waits for in-flight jobs to finish.
func (d *Dispatcher) Stop() {
	close(d.quit)
	for _, w := range d.workers {
		w.stop()
	}
	d.wg.Wait()
	d.log.Info("dispatcher stopped")
}

// worker pulls jobs from its own channel, re-registering that channel with
// the dispatcher pool between jobs.
type worker struct {
	id   int
	pool chan chan Job
	jobs chan Job
	quit chan struct{}
	wg   *sync.WaitGroup
	log  *logrus.Logger
}

func newWorker(id int, pool chan chan Job, wg *sync.WaitGroup, log *logrus.Logger) *worker {
	return &worker{
		id:   id,
		pool: pool,
		jobs: make(chan Job),
		quit: make(chan struct{}),
		wg:   wg,
		log:  log,
	}
}

func (w *worker) start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			w.pool <- w.jobs

			select {
			case job := <-w.jobs:
				log := w.log.WithFields(logrus.Fields{"worker": w.id, "job_id": job.ID()})
				log.Info("job started")
				if err := job.Execute(); err != nil {
					log.WithError(err).Error("job failed")
				} else {
					log.Info("job finished")
				}
			case <-w.quit:
				return
			}
		}
	}()
}

func (w *worker) stop() {
	close(w.quit)
}

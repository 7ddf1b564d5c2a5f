package mail

import (
	"context"
	"errors"
	"sync"

	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

var (
	ErrQueueFull         = errors.New("mail queue is full")
	ErrDispatcherStopped = errors.New("mail dispatcher is stopped")
)

type job struct {
	template string
	to       []string
	subject  string
	data     map[string]any
}

// Dispatcher queues notifications and delivers them from a pool of workers.
// Send never blocks on delivery.
type Dispatcher struct {
	sender  Sender
	queue   chan job
	workers int
	logger  *logging.Service

	mu        sync.RWMutex
	stopped   bool
	startOnce sync.Once
	wg        sync.WaitGroup
}

func NewDispatcher(sender Sender, queueSize, workers int, logger *logging.Service) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan job, queueSize),
		workers: workers,
		logger:  logger,
	}
}

func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work(i)
		}
		d.logger.Info("mail dispatcher started",
			zap.Int("workers", d.workers),
			zap.Int("queue_size", cap(d.queue)))
	})
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for j := range d.queue {
		if err := d.sender.SendTemplate(j.template, j.to, j.subject, j.data); err != nil {
			d.logger.Error("mail delivery failed",
				zap.Error(err),
				zap.Int("worker", id),
				zap.String("template", j.template),
				zap.Strings("recipients", j.to))
		}
	}
}

func (d *Dispatcher) Send(templateName string, to []string, data map[string]any, subject string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- job{template: templateName, to: to, subject: subject, data: data}:
		return nil
	default:
		d.logger.Warn("mail queue full, dropping message",
			zap.String("template", templateName),
			zap.Strings("recipients", to))
		return ErrQueueFull
	}
}

func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Stop rejects new messages and waits for queued ones to be delivered or for
// ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	// Workers that were never started still have to drain the queue.
	d.Start()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("mail dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn("mail dispatcher stopped before queue drained", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

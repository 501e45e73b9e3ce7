package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bricklane/storefront/internal/adapter/mailer"
	"github.com/bricklane/storefront/internal/domain/model"
)

type notificationKind int

const (
	kindOrderCreated notificationKind = iota
	kindOrderStatus
)

type notification struct {
	kind  notificationKind
	order *model.Order
	user  *model.User
}

// Notifier delivers order emails on a background worker pool. Enqueueing never
// blocks the request path; when the queue is full the notification is dropped
// and logged.
type Notifier struct {
	mailer  mailer.Mailer
	workers int
	logger  *slog.Logger

	jobs   chan notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotifier constructs the notification worker pool.
func NewNotifier(m mailer.Mailer, workers, queueSize int, logger *slog.Logger) *Notifier {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Notifier{
		mailer:  m,
		workers: workers,
		logger:  logger,
		jobs:    make(chan notification, queueSize),
	}
}

// Start launches the workers.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go n.worker(runCtx)
	}
}

// Stop drains in-flight work and waits for all workers to finish.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.mu.Unlock()

	n.wg.Wait()
}

// OrderCreated enqueues an order confirmation email.
func (n *Notifier) OrderCreated(order *model.Order, user *model.User) {
	n.enqueue(notification{kind: kindOrderCreated, order: order, user: user})
}

// OrderStatusChanged enqueues a status change email.
func (n *Notifier) OrderStatusChanged(order *model.Order, user *model.User) {
	n.enqueue(notification{kind: kindOrderStatus, order: order, user: user})
}

func (n *Notifier) enqueue(job notification) {
	select {
	case n.jobs <- job:
	default:
		n.logger.Warn("notification queue full, dropping",
			slog.String("order", job.order.Number))
	}
}

func (n *Notifier) worker(ctx context.Context) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-n.jobs:
			if !ok {
				return
			}
			n.handle(job)
		}
	}
}

func (n *Notifier) handle(job notification) {
	var err error
	switch job.kind {
	case kindOrderCreated:
		err = n.mailer.SendOrderCreated(job.order, job.user)
	case kindOrderStatus:
		err = n.mailer.SendOrderStatus(job.order, job.user)
	}
	if err != nil {
		n.logger.Error("notification delivery failed",
			slog.String("order", job.order.Number),
			slog.String("error", err.Error()))
	}
}

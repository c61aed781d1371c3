package store

import (
	"context"
	"sync"
	"time"

	"github.com/linalabs/go-lina/internal/log"
)

// DefaultQueueSize bounds how many tasks may wait for the worker.
const DefaultQueueSize = 256

// DefaultStopTimeout is how long Stop waits for the worker to drain.
const DefaultStopTimeout = 5 * time.Second

// Queue serializes database work onto a single worker goroutine.
// Saves are fire and forget; reads wait for their turn in the queue
// so every operation observes all writes enqueued before it.
type Queue struct {
	store Store
	tasks chan func(ctx context.Context)
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewQueue starts the worker over the given store.
func NewQueue(st Store) *Queue {
	q := &Queue{
		store: st,
		tasks: make(chan func(ctx context.Context), DefaultQueueSize),
		done:  make(chan struct{}),
	}
	go q.worker()
	log.Info("database worker started")
	return q
}

func (q *Queue) worker() {
	defer close(q.done)
	ctx := context.Background()
	for task := range q.tasks {
		task(ctx)
	}
	log.Info("database worker stopped")
}

// enqueue hands a task to the worker. Returns ErrClosed after Stop.
func (q *Queue) enqueue(task func(ctx context.Context)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.tasks <- task
	return nil
}

// SaveUser queues a user registration.
func (q *Queue) SaveUser(userID, alias string) error {
	return q.enqueue(func(ctx context.Context) {
		created, err := q.store.SaveUser(ctx, userID, alias)
		if err != nil {
			log.Error("saving user failed", "user_id", userID, "error", err)
			return
		}
		if created {
			log.Info("user saved", "user_id", userID)
		}
	})
}

// SaveMessage queues a chat message write.
func (q *Queue) SaveMessage(userID, sender, content string) error {
	return q.enqueue(func(ctx context.Context) {
		if err := q.store.SaveMessage(ctx, userID, sender, content); err != nil {
			log.Error("saving message failed", "user_id", userID, "error", err)
		}
	})
}

// Messages runs a history read through the queue and waits for the
// result, so it sees every save enqueued before it.
func (q *Queue) Messages(ctx context.Context, userID string, limit int) ([]StoredMessage, error) {
	type reply struct {
		messages []StoredMessage
		err      error
	}
	replyCh := make(chan reply, 1)

	err := q.enqueue(func(taskCtx context.Context) {
		messages, err := q.store.Messages(taskCtx, userID, limit)
		replyCh <- reply{messages: messages, err: err}
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-replyCh:
		return r.messages, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop drains the queue and shuts the worker down. Tasks already
// queued are still processed; new work is rejected immediately.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultStopTimeout)
		defer cancel()
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		log.Warn("database worker did not stop in time")
		return ctx.Err()
	}
}

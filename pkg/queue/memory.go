package queue

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xsteinzy/betting-analysis-system/pkg/logger"
)

// MemoryQueue is a bounded in-process queue. Producers block when the buffer
// is full, which keeps batch submitters naturally throttled to worker speed.
type MemoryQueue struct {
	logger    *logger.Logger
	config    *QueueConfig
	jobs      map[string]Job
	ch        chan *Message
	wg        sync.WaitGroup
	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	seq       atomic.Int64
}

// NewMemoryQueue creates an in-memory queue with the given jobs registered.
func NewMemoryQueue(lgr *logger.Logger, config *QueueConfig, jobs []Job) *MemoryQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &MemoryQueue{
		logger: lgr,
		config: config,
		jobs:   make(map[string]Job),
		ch:     make(chan *Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, job := range jobs {
		q.RegisterJob(job)
	}
	return q
}

// RegisterJob registers a single job handler.
func (q *MemoryQueue) RegisterJob(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.jobs[job.Type()]; exists {
		q.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	q.jobs[job.Type()] = job
	q.logger.Info("job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start launches the worker pool.
func (q *MemoryQueue) Start() error {
	q.mu.Lock()
	if q.isRunning {
		q.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	q.isRunning = true
	q.mu.Unlock()

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.logger.Info("queue started", logger.Int("workers", q.config.Workers))
	return nil
}

// PublishMessage enqueues one message. It blocks while the buffer is full and
// fails only when ctx is done or the queue has stopped. Publishing must not
// race with Stop; the channel closes during shutdown.
func (q *MemoryQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	q.mu.RLock()
	running := q.isRunning
	q.mu.RUnlock()
	if !running {
		return fmt.Errorf("queue not running")
	}

	msg := &Message{
		ID:        strconv.FormatInt(q.seq.Add(1), 10),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return fmt.Errorf("queue stopped")
	}
}

// Stop waits for queued messages to drain, then shuts the workers down.
func (q *MemoryQueue) Stop() {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return
	}
	q.isRunning = false
	q.mu.Unlock()

	close(q.ch)
	q.wg.Wait()
	q.cancel()
	q.logger.Info("queue stopped")
}

func (q *MemoryQueue) worker() {
	defer q.wg.Done()
	for msg := range q.ch {
		q.process(msg)
	}
}

func (q *MemoryQueue) process(msg *Message) {
	q.mu.RLock()
	job, ok := q.jobs[msg.Type]
	q.mu.RUnlock()
	if !ok {
		q.logger.Warn("no job registered for message", logger.String("type", msg.Type))
		return
	}

	for {
		msg.Attempts++
		err := job.Handle(q.ctx, msg.Payload)
		if err == nil {
			return
		}
		if msg.Attempts > q.config.RetryLimit {
			q.logger.Error("job failed permanently",
				logger.String("job", job.Name()),
				logger.String("id", msg.ID),
				logger.Int("attempts", msg.Attempts),
				logger.Error(err))
			return
		}
		q.logger.Warn("job failed, retrying",
			logger.String("job", job.Name()),
			logger.String("id", msg.ID),
			logger.Int("attempt", msg.Attempts),
			logger.Error(err))
		select {
		case <-time.After(q.config.RetryDelay):
		case <-q.ctx.Done():
			return
		}
	}
}

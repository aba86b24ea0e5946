package queue

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xsteinzy/betting-analysis-system/pkg/logger"
)

type countingJob struct {
	msgType  string
	handled  atomic.Int64
	failures atomic.Int64 // fail this many times before succeeding
}

func (j *countingJob) Name() string { return "counting" }
func (j *countingJob) Type() string { return j.msgType }

func (j *countingJob) Handle(ctx context.Context, payload interface{}) error {
	if j.failures.Load() > 0 {
		j.failures.Add(-1)
		return errors.New("transient failure")
	}
	j.handled.Add(1)
	return nil
}

func TestMemoryQueueDrainsOnStop(t *testing.T) {
	job := &countingJob{msgType: "test.count"}
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{Workers: 3, QueueSize: 8}, []Job{job})
	if err := q.Start(); err != nil {
		t.Fatal(err)
	}

	const n = 20
	for i := 0; i < n; i++ {
		if err := q.PublishMessage(context.Background(), "test.count", fmt.Sprintf("m%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	q.Stop()

	if got := job.handled.Load(); got != n {
		t.Fatalf("handled = %d, want %d", got, n)
	}
}

func TestMemoryQueueRetries(t *testing.T) {
	job := &countingJob{msgType: "test.retry"}
	job.failures.Store(2)
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{
		Workers:    1,
		RetryLimit: 3,
		RetryDelay: time.Millisecond,
	}, []Job{job})
	if err := q.Start(); err != nil {
		t.Fatal(err)
	}
	if err := q.PublishMessage(context.Background(), "test.retry", "payload"); err != nil {
		t.Fatal(err)
	}
	q.Stop()

	if got := job.handled.Load(); got != 1 {
		t.Fatalf("handled = %d, want 1 after retries", got)
	}
}

func TestMemoryQueueGivesUpPastRetryLimit(t *testing.T) {
	job := &countingJob{msgType: "test.giveup"}
	job.failures.Store(100)
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{
		Workers:    1,
		RetryLimit: 2,
		RetryDelay: time.Millisecond,
	}, []Job{job})
	if err := q.Start(); err != nil {
		t.Fatal(err)
	}
	if err := q.PublishMessage(context.Background(), "test.giveup", "payload"); err != nil {
		t.Fatal(err)
	}
	q.Stop()

	if got := job.handled.Load(); got != 0 {
		t.Fatalf("handled = %d, want 0", got)
	}
	// 1 initial attempt + 2 retries leaves 97 budgeted failures unused
	if got := job.failures.Load(); got != 97 {
		t.Fatalf("remaining failures = %d, want 97", got)
	}
}

func TestMemoryQueueDropsUnknownType(t *testing.T) {
	job := &countingJob{msgType: "test.known"}
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{Workers: 1}, []Job{job})
	if err := q.Start(); err != nil {
		t.Fatal(err)
	}
	if err := q.PublishMessage(context.Background(), "test.unknown", "payload"); err != nil {
		t.Fatal(err)
	}
	q.Stop()

	if got := job.handled.Load(); got != 0 {
		t.Fatalf("handled = %d, want 0", got)
	}
}

func TestMemoryQueueDoubleStart(t *testing.T) {
	q := NewMemoryQueue(logger.Nop(), nil, nil)
	if err := q.Start(); err != nil {
		t.Fatal(err)
	}
	if err := q.Start(); err == nil {
		t.Fatal("second start must fail")
	}
	q.Stop()
}

func TestMemoryQueuePublishAfterStop(t *testing.T) {
	q := NewMemoryQueue(logger.Nop(), &QueueConfig{QueueSize: 1}, nil)
	if err := q.Start(); err != nil {
		t.Fatal(err)
	}
	q.Stop()

	err := q.PublishMessage(context.Background(), "test.late", "payload")
	if err == nil {
		t.Fatal("publish after stop must fail")
	}
}

func TestParsePayload(t *testing.T) {
	type cell struct {
		Index int
		Name  string
	}

	got, err := ParsePayload[cell](&cell{Index: 3, Name: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Index != 3 || got.Name != "a" {
		t.Fatalf("parsed = %+v", got)
	}

	// JSON round-trip path for payloads that crossed a serialization boundary.
	got, err = ParsePayload[cell](map[string]interface{}{"Index": 7, "Name": "b"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Index != 7 || got.Name != "b" {
		t.Fatalf("parsed = %+v", got)
	}

	if _, err := ParsePayload[cell]("not a cell"); err == nil {
		t.Fatal("mismatched payload must fail")
	}
}

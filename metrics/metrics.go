package metrics

import (
	"context"
	"fmt"
	"time"
)

// Snapshot represents the current state of the gateway.
type Snapshot struct {
	// InFlight is the number of background update tasks still running
	InFlight int64 `json:"in_flight"`

	// InboxLength is the number of entries waiting in the inbox stream
	InboxLength int64 `json:"inbox_length"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting gauges from the gateway.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Snapshot, error)
}

// TaskCounter reports running background tasks
type TaskCounter interface {
	InFlight() int64
}

// QueueMeter reports the inbox length
type QueueMeter interface {
	Len(ctx context.Context) (int64, error)
}

// GatewayCollector reads gauges from the runner and, when present, the inbox.
type GatewayCollector struct {
	tasks TaskCounter
	queue QueueMeter
}

// NewCollector creates a collector. queue may be nil when updates are not stored.
func NewCollector(tasks TaskCounter, queue QueueMeter) *GatewayCollector {
	return &GatewayCollector{
		tasks: tasks,
		queue: queue,
	}
}

// Collect gathers all gauges. When the inbox cannot be read the error is returned together
// with a snapshot that still carries InFlight.
func (c *GatewayCollector) Collect(ctx context.Context) (Snapshot, error) {
	snapshot := Snapshot{
		InFlight:  c.tasks.InFlight(),
		Timestamp: time.Now(),
	}

	if c.queue != nil {
		length, err := c.queue.Len(ctx)
		if err != nil {
			return snapshot, fmt.Errorf("getting inbox length: %w", err)
		}
		snapshot.InboxLength = length
	}

	return snapshot, nil
}

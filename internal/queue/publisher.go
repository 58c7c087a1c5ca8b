package queue

import (
	"context"
)

// Publisher hands analysis jobs to the worker pool. Delivery is
// at-least-once; workers must tolerate duplicate messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

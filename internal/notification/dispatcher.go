package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/repvision/repvision-api/internal/push"
	"github.com/repvision/repvision-api/pkg/metrics"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher delivers push notifications in the background. Enqueue never
// blocks on the push provider; a slow or failing provider only delays the
// internal buffer. Durable notification rows are written by the caller
// before Enqueue, so a lost push is recoverable from the inbox.
type Dispatcher struct {
	buffer           *buffer
	startConsumingCh chan any
	doneCh           chan any
	client           push.Client
	sendTimeout      time.Duration
}

func NewDispatcher(client push.Client, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		buffer:           newBuffer(),
		startConsumingCh: make(chan any),
		doneCh:           make(chan any),
		client:           client,
		sendTimeout:      defaultSendTimeout,
	}

	for _, o := range opts {
		o(d)
	}

	go d.run()
	return d
}

func (d *Dispatcher) Enqueue(notification push.Notification) {
	prevSize := d.buffer.Size()
	d.buffer.PushBack(&item{notification: notification})

	if prevSize == 0 {
		// unblock the consumer and start sending
		d.startConsumingCh <- struct{}{}
	}
}

func (d *Dispatcher) Close() {
	d.doneCh <- struct{}{}
	zap.S().Named("notification_dispatcher").Info("dispatcher closed")
}

func (d *Dispatcher) run() {
	for {
		select {
		case <-d.doneCh:
			return
		default:
		}

		if d.buffer.Size() == 0 {
			select {
			case <-d.startConsumingCh:
			case <-d.doneCh:
				return
			}
		}

		it := d.buffer.Pop()
		if it == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.client.Send(ctx, it.notification)
		cancel()

		metrics.IncreasePushSendsMetric()
		if err != nil {
			metrics.IncreasePushSendFailuresMetric()
			zap.S().Named("notification_dispatcher").Errorw("failed to send push", "error", err, "title", it.notification.Title)
		}
	}
}

package notification

import "time"

type DispatcherOption func(d *Dispatcher)

func WithSendTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.sendTimeout = timeout
	}
}

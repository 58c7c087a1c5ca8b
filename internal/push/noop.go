package push

import (
	"context"

	"go.uber.org/zap"
)

// push client used in dev when no provider is configured
type NoopClient struct{}

var _ Client = (*NoopClient)(nil)

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (n *NoopClient) Send(_ context.Context, notification Notification) error {
	zap.S().Named("push").Infow("push skipped", "title", notification.Title)
	return nil
}

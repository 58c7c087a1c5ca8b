package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/repvision/repvision-api/internal/config"
)

// Client sends push notifications to a user's device. Delivery is best
// effort; the caller treats failures as non-fatal.
type Client interface {
	Send(ctx context.Context, notification Notification) error
}

// Notification is one push message addressed to a device token.
type Notification struct {
	Token        string
	Title        string
	Body         string
	RelatedJobID *int64
}

type expoMessage struct {
	To    string   `json:"to"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Data  expoData `json:"data"`
}

type expoData struct {
	RelatedVideoID *int64 `json:"relatedVideoId,omitempty"`
}

// ExpoClient delivers pushes through the Expo push service.
type ExpoClient struct {
	endpoint string
	client   *http.Client
}

var _ Client = (*ExpoClient)(nil)

func NewExpoClient(cfg *config.Config) *ExpoClient {
	return &ExpoClient{
		endpoint: cfg.Push.Endpoint,
		client:   &http.Client{Timeout: cfg.Push.Timeout},
	}
}

func (e *ExpoClient) Send(ctx context.Context, notification Notification) error {
	payload, err := json.Marshal(expoMessage{
		To:    notification.Token,
		Title: notification.Title,
		Body:  notification.Body,
		Data:  expoData{RelatedVideoID: notification.RelatedJobID},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push provider returned %d: %s", resp.StatusCode, string(body))
	}

	zap.S().Named("push").Debugw("push accepted", "status", resp.StatusCode, "response", string(body))
	return nil
}

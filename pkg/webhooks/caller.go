package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sre-norns/waymark/pkg/bark"
)

// Caller delivers verification events to a webhook.
type Caller interface {
	Post(ctx context.Context, hook WebhookSpec, event VerificationEvent) error
}

// HTTPCaller posts events as JSON documents.
type HTTPCaller struct {
	client *http.Client
}

// NewHTTPCaller creates a caller using client, or [http.DefaultClient] if client is nil.
func NewHTTPCaller(client *http.Client) (Caller, error) {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPCaller{
		client: client,
	}, nil
}

// Post sends the event to the hook. Any 2xx response is a successful delivery.
func (h *HTTPCaller) Post(ctx context.Context, hook WebhookSpec, event VerificationEvent) error {
	targetURL, err := hook.TargetURL()
	if err != nil {
		return fmt.Errorf("failed to build webhook URL: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event of %s: %w", event.Target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set(bark.HTTPHeaderContentType, bark.MimeTypeJSON)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to POST webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook %s rejected event: %v", targetURL, resp.Status)
	}

	return nil
}

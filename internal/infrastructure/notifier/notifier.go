// Package notifier pushes review decisions to the gateway's /authorised
// endpoint.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
)

const _defaultTimeout = 5 * time.Second

type GatewayNotifier struct {
	url    string
	client *http.Client
}

// New targets url, which already includes the /authorised path.
func New(url string, timeout time.Duration) *GatewayNotifier {
	if timeout <= 0 {
		timeout = _defaultTimeout
	}

	return &GatewayNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify sends one request and never retries.
func (n *GatewayNotifier) Notify(ctx context.Context, push entity.AuthorizationPush) error {
	body, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("GatewayNotifier - Notify - json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("GatewayNotifier - Notify - http.NewRequestWithContext: %w: %w", errs.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// the gateway serves one connection at a time
	req.Close = true

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("GatewayNotifier - Notify - n.client.Do: %w: %w", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GatewayNotifier - Notify - gateway answered %d %q: %w", resp.StatusCode, bytes.TrimSpace(msg), errs.ErrNetwork)
	}

	return nil
}

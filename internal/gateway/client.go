package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
)

const (
	_defaultCaptureTimeout = 30 * time.Second
	_maxCaptureBody        = 64 << 10
)

type ClientErrorKind int

const (
	RequestCreation ClientErrorKind = iota
	Send
	Status
	BodyRead
	JSONParse
)

// Reason is short enough for one display line.
func (k ClientErrorKind) Reason() string {
	switch k {
	case RequestCreation:
		return "Request Failed"
	case Send:
		return "Send Failed"
	case Status:
		return "Status Error"
	case BodyRead:
		return "Body Read Error"
	case JSONParse:
		return "JSON Parse Error"
	default:
		return "Unknown Error"
	}
}

type ClientError struct {
	Kind ClientErrorKind
	// Code is set for Status errors.
	Code int
	Err  error
}

func (e *ClientError) Error() string {
	if e.Kind == Status {
		return fmt.Sprintf("capture client: %s: HTTP %d", e.Kind.Reason(), e.Code)
	}
	return fmt.Sprintf("capture client: %s: %v", e.Kind.Reason(), e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }

// CaptureClient asks the camera node for one capture.
type CaptureClient struct {
	url    string
	client *http.Client
}

func NewCaptureClient(url string, timeout time.Duration) *CaptureClient {
	if timeout <= 0 {
		timeout = _defaultCaptureTimeout
	}

	return &CaptureClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// RequestCapture runs to completion once sent; cancelling ctx does not abort
// a request in flight. Only the client timeout bounds it.
func (c *CaptureClient) RequestCapture(ctx context.Context) (*entity.StatusProjection, error) {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &ClientError{Kind: RequestCreation, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ClientError{Kind: Send, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, _maxCaptureBody))
	if err != nil {
		return nil, &ClientError{Kind: BodyRead, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{Kind: Status, Code: resp.StatusCode, Err: fmt.Errorf("%s", body)}
	}

	var projection entity.StatusProjection
	if err = json.Unmarshal(body, &projection); err != nil {
		return nil, &ClientError{Kind: JSONParse, Err: err}
	}

	return &projection, nil
}

// Package apiclient is the camera's client for the status service.
package apiclient

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

const _maxErrorBody = 512

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// UploadPicture posts a raw JPEG to /picture.
func (c *Client) UploadPicture(ctx context.Context, jpeg []byte) (*entity.StatusProjection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/picture", bytes.NewReader(jpeg))
	if err != nil {
		return nil, fmt.Errorf("Client - UploadPicture - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	return c.do(req)
}

func (c *Client) GetStatus(ctx context.Context, id string) (*entity.StatusProjection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("Client - GetStatus - http.NewRequestWithContext: %w", err)
	}

	return c.do(req)
}

func (c *Client) SetAuthorisation(ctx context.Context, id string, authorised bool) (*entity.StatusProjection, error) {
	body, err := json.Marshal(map[string]bool{"authorised": authorised})
	if err != nil {
		return nil, fmt.Errorf("Client - SetAuthorisation - json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/status/"+id, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Client - SetAuthorisation - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) PushDecision(ctx context.Context, id string) (*entity.StatusProjection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/status/"+id+"/push", nil)
	if err != nil {
		return nil, fmt.Errorf("Client - PushDecision - http.NewRequestWithContext: %w", err)
	}

	return c.do(req)
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status service answered %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return errs.ErrRecordNotFound
	case e.Code >= 400 && e.Code < 500:
		return errs.ErrValidation
	default:
		return errs.ErrNetwork
	}
}

func (c *Client) do(req *http.Request) (*entity.StatusProjection, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Client - do - c.http.Do: %w: %w", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, _maxErrorBody))
		return nil, fmt.Errorf("Client - do: %w", &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))})
	}

	var projection entity.StatusProjection
	err = json.NewDecoder(resp.Body).Decode(&projection)
	if err != nil {
		return nil, fmt.Errorf("Client - do - json.Decode: %w: %w", errs.ErrNetwork, err)
	}

	return &projection, nil
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/google/uuid"
)

func TestCaptureClientSuccess(t *testing.T) {
	want := entity.StatusProjection{ID: uuid.New(), Picture: entity.Picture{ID: uuid.New(), Name: "a.jpg"}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/capture" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := NewCaptureClient(srv.URL+"/capture", time.Second).RequestCapture(context.Background())
	if err != nil {
		t.Fatalf("RequestCapture: %v", err)
	}
	if got.ID != want.ID || got.Picture.Name != "a.jpg" {
		t.Errorf("got %+v", got)
	}
}

func TestCaptureClientErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ClientErrorKind
		code    int
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "Failed to capture image", http.StatusInternalServerError)
			},
			kind: Status,
			code: http.StatusInternalServerError,
		},
		{
			name: "json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			kind: JSONParse,
		},
		{
			name: "body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Length", "100")
				_, _ = w.Write([]byte("{"))
			},
			kind: BodyRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewCaptureClient(srv.URL, time.Second).RequestCapture(context.Background())

			var ce *ClientError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *ClientError", err)
			}
			if ce.Kind != tt.kind || ce.Code != tt.code {
				t.Errorf("kind = %v code = %d, want %v %d", ce.Kind, ce.Code, tt.kind, tt.code)
			}
		})
	}
}

func TestCaptureClientSendAndCreation(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var ce *ClientError

	_, err := NewCaptureClient(url, time.Second).RequestCapture(context.Background())
	if !errors.As(err, &ce) || ce.Kind != Send {
		t.Errorf("closed server: err = %v", err)
	}

	_, err = NewCaptureClient("http://bad host/\x7f", time.Second).RequestCapture(context.Background())
	if !errors.As(err, &ce) || ce.Kind != RequestCreation {
		t.Errorf("bad url: err = %v", err)
	}
	if ce.Kind.Reason() != "Request Failed" {
		t.Errorf("reason = %q", ce.Kind.Reason())
	}
}

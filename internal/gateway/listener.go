package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/andreyxaxa/Access-Gate/pkg/rawhttp"
)

const (
	_defaultReadTimeout = 10 * time.Second
	_defaultBufferSize  = 2048
	_pushPath           = "/authorised"
	_acceptBackoffMin   = 5 * time.Millisecond
	_acceptBackoffMax   = time.Second

	_bodyBadRequest   = "Bad Request"
	_bodyInvalidJSON  = "Invalid JSON payload"
	_bodyMissingJSON  = "Missing JSON body for /authorised"
	_bodyNotFound     = "Endpoint not found or method not allowed"
	_bodyUpdatedTrue  = "Authorization status updated to true"
	_bodyUpdatedFalse = "Authorization status updated to false"
)

// Listener accepts decision pushes one connection at a time. Every
// connection gets one response and is closed.
type Listener struct {
	address     string
	readTimeout time.Duration
	bufferSize  int
	display     chan<- DisplayMessage
	machine     *Machine
	logger      logger.Interface

	ln    net.Listener
	bound chan struct{}
}

func NewListener(
	address string,
	readTimeout time.Duration,
	bufferSize int,
	display chan<- DisplayMessage,
	m *Machine,
	l logger.Interface,
) *Listener {
	if readTimeout <= 0 {
		readTimeout = _defaultReadTimeout
	}
	if bufferSize <= 0 {
		bufferSize = _defaultBufferSize
	}

	return &Listener{
		address:     address,
		readTimeout: readTimeout,
		bufferSize:  bufferSize,
		display:     display,
		machine:     m,
		logger:      l,
		bound:       make(chan struct{}),
	}
}

// Bound is closed once the socket is listening.
func (s *Listener) Bound() <-chan struct{} { return s.bound }

// Addr is valid after Bound is closed.
func (s *Listener) Addr() net.Addr { return s.ln.Addr() }

func (s *Listener) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("Listener - Run - net.Listen: %w", err)
	}
	s.ln = ln
	close(s.bound)

	s.logger.Info("Listener - Run - listening on %s", ln.Addr())

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			delay = acceptBackoff(delay)
			s.logger.Error(err, "Listener - Run - ln.Accept, retrying in %v", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}

			continue
		}
		delay = 0

		s.serve(ctx, conn)
	}
}

// acceptBackoff doubles the wait after each failed Accept, capped at one second.
func acceptBackoff(prev time.Duration) time.Duration {
	if prev == 0 {
		return _acceptBackoffMin
	}
	return min(2*prev, _acceptBackoffMax)
}

func (s *Listener) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		s.logger.Error(err, "Listener - serve - conn.SetReadDeadline")
		return
	}

	req, err := s.read(conn)
	if errors.Is(err, errAbort) {
		s.logger.Warn("Listener - serve - %s: %v", conn.RemoteAddr(), err)
		return
	}

	code, body := s.handle(ctx, req, err)

	if err = conn.SetWriteDeadline(time.Now().Add(s.readTimeout)); err != nil {
		s.logger.Error(err, "Listener - serve - conn.SetWriteDeadline")
		return
	}
	if err = rawhttp.WriteResponse(conn, code, body); err != nil {
		s.logger.Error(err, "Listener - serve - rawhttp.WriteResponse")
	}
}

var errAbort = errors.New("connection aborted")

// read fills the buffer until a whole request is parsed, the buffer is full
// or the peer stops sending. A timeout or a peer that sent nothing yields
// errAbort, which gets no response.
func (s *Listener) read(conn net.Conn) (rawhttp.Request, error) {
	buf := make([]byte, s.bufferSize)
	n := 0

	for {
		m, err := conn.Read(buf[n:])
		n += m

		var ne net.Error
		if err != nil && (n == 0 || errors.As(err, &ne) && ne.Timeout()) {
			return rawhttp.Request{}, fmt.Errorf("%w: %w", errAbort, err)
		}

		req, perr := rawhttp.ParseRequest(buf[:n])
		if perr == nil || !rawhttp.Incomplete(perr) || n == len(buf) || err != nil {
			return req, perr
		}
	}
}

type pushPayload struct {
	ID         *string `json:"id"`
	Authorised *bool   `json:"authorised"`
}

func (s *Listener) handle(ctx context.Context, req rawhttp.Request, perr error) (int, string) {
	if perr != nil {
		s.logger.Warn("Listener - handle - malformed request: %v", perr)

		if errors.Is(perr, rawhttp.ErrIncompleteBody) {
			return http.StatusBadRequest, _bodyInvalidJSON
		}
		return http.StatusBadRequest, _bodyBadRequest
	}

	if req.Method != http.MethodPost || req.Path != _pushPath {
		s.logger.Warn("Listener - handle - unrecognized %s %s", req.Method, req.Path)

		return http.StatusNotFound, _bodyNotFound
	}

	if len(req.Body) == 0 {
		s.logger.Warn("Listener - handle - %s without a body", _pushPath)

		return http.StatusBadRequest, _bodyMissingJSON
	}

	push, err := decodePush(req.Body)
	if err != nil {
		s.logger.Warn("Listener - handle - decodePush: %v", err)

		return http.StatusBadRequest, _bodyInvalidJSON
	}

	s.logger.Info("Listener - handle - status %s authorised=%t", push.ID, push.Authorised)

	s.machine.TransitionFrom(AwaitingDecision, Ready)
	send(ctx, s.display, DecisionMessage(push))

	if push.Authorised {
		return http.StatusOK, _bodyUpdatedTrue
	}
	return http.StatusOK, _bodyUpdatedFalse
}

// decodePush requires both fields.
func decodePush(body []byte) (entity.AuthorizationPush, error) {
	var p pushPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return entity.AuthorizationPush{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if p.ID == nil || p.Authorised == nil {
		return entity.AuthorizationPush{}, errors.New("id and authorised are required")
	}

	return entity.AuthorizationPush{ID: *p.ID, Authorised: *p.Authorised}, nil
}

// Package legacylink answers capture requests over the old point-to-point
// datagram link. A "capture" datagram is answered with the frame split by
// pkg/chunk, sent to the requester one chunk at a time.
package legacylink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/chunk"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

const (
	_defaultChunkGap = 10 * time.Millisecond
	_readBuffer      = 64
)

// Command is the only datagram the responder understands.
var Command = []byte("capture")

// FrameCapturer is satisfied by the capture use case.
type FrameCapturer interface {
	CaptureFrame(ctx context.Context) ([]byte, error)
}

type Responder struct {
	camera FrameCapturer
	logger logger.Interface

	address  string
	chunkGap time.Duration

	conn   net.PacketConn
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(camera FrameCapturer, l logger.Interface, address string, chunkGap time.Duration) *Responder {
	if chunkGap <= 0 {
		chunkGap = _defaultChunkGap
	}

	return &Responder{
		camera:   camera,
		logger:   l,
		address:  address,
		chunkGap: chunkGap,
	}
}

func (r *Responder) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Responder - Start - already started")
	}

	conn, err := net.ListenPacket("udp", r.address)
	if err != nil {
		r.started.Store(false)

		return fmt.Errorf("Responder - Start - net.ListenPacket: %w", err)
	}

	r.conn = conn
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.logger.Info("Responder - Start - listening on %s", conn.LocalAddr())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.serve()
	}()

	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (r *Responder) Addr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// serve handles one request at a time. Datagrams arriving while a frame is
// being streamed are queued by the socket.
func (r *Responder) serve() {
	buf := make([]byte, _readBuffer)

	for {
		n, peer, err := r.conn.ReadFrom(buf)
		if err != nil {
			if r.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			r.logger.Error(err, "Responder - serve - r.conn.ReadFrom")

			continue
		}

		if !bytes.Equal(bytes.TrimSpace(buf[:n]), Command) {
			r.logger.Warn("Responder - serve - unknown command from %s", peer)
			continue
		}

		if err := r.respond(peer); err != nil {
			r.logger.Error(err, "Responder - serve - r.respond")
		}
	}
}

func (r *Responder) respond(peer net.Addr) error {
	frame, err := r.camera.CaptureFrame(r.ctx)
	if err != nil {
		return fmt.Errorf("Responder - respond - r.camera.CaptureFrame: %w", err)
	}

	datagrams, err := chunk.Split(frame)
	if err != nil {
		return fmt.Errorf("Responder - respond - chunk.Split: %w", err)
	}

	r.logger.Debug("Responder - respond - %d bytes in %d chunks to %s", len(frame), len(datagrams), peer)

	for i, d := range datagrams {
		if i > 0 {
			select {
			case <-time.After(r.chunkGap):
			case <-r.ctx.Done():
				return r.ctx.Err()
			}
		}

		if _, err := r.conn.WriteTo(d, peer); err != nil {
			return fmt.Errorf("Responder - respond - r.conn.WriteTo chunk %d: %w", i, err)
		}
	}

	return nil
}

func (r *Responder) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	r.cancel()
	_ = r.conn.Close()

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Responder - Shutdown: %w", ctx.Err())
	}
}

// Fetch requests one frame from a responder at address and reassembles it.
// Chunks may arrive in any order; a lost chunk ends in a timeout.
func Fetch(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
	conn, err := net.Dial("udp", address)
	if err != nil {
		return nil, fmt.Errorf("legacylink - Fetch - net.Dial: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err = conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("legacylink - Fetch - conn.SetDeadline: %w", err)
	}

	if _, err = conn.Write(Command); err != nil {
		return nil, fmt.Errorf("legacylink - Fetch - conn.Write: %w", err)
	}

	var (
		r   chunk.Reassembler
		buf = make([]byte, chunk.HeaderSize+chunk.MaxPayload)
	)

	for !r.Complete() {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("legacylink - Fetch - conn.Read, missing %d chunks: %w", len(r.Missing()), err)
		}

		c, err := chunk.Decode(buf[:n])
		if err != nil {
			return nil, fmt.Errorf("legacylink - Fetch - chunk.Decode: %w", err)
		}
		if _, err = r.Add(c); err != nil {
			return nil, fmt.Errorf("legacylink - Fetch - r.Add: %w", err)
		}
	}

	return r.Frame(), nil
}

// Package chunk splits a frame into datagram-sized chunks and puts it back
// together.
//
// Every chunk is a 5 byte header followed by up to 200 payload bytes:
//
//	byte 0     tag 'C'
//	bytes 1-2  total chunk count, big-endian uint16
//	bytes 3-4  chunk index, big-endian uint16
//
// Both counters are big-endian.
package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	Tag        byte = 'C'
	HeaderSize      = 5
	MaxPayload      = 200
	MaxChunks       = 1<<16 - 1
	// MaxFrameSize is the largest frame that can be encoded.
	MaxFrameSize = MaxChunks * MaxPayload
)

var (
	ErrEmpty        = errors.New("chunk: empty frame")
	ErrTooLarge     = errors.New("chunk: frame too large")
	ErrShort        = errors.New("chunk: datagram shorter than header")
	ErrTag          = errors.New("chunk: unknown tag")
	ErrIndex        = errors.New("chunk: index out of range")
	ErrPayload      = errors.New("chunk: payload too large")
	ErrInconsistent = errors.New("chunk: total does not match earlier chunks")
)

type Chunk struct {
	Total   uint16
	Index   uint16
	Payload []byte
}

// Count is the number of chunks needed for n bytes, rounded up.
func Count(n int) int {
	return (n + MaxPayload - 1) / MaxPayload
}

// Split encodes frame into datagrams ready to send in order.
func Split(frame []byte) ([][]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmpty
	}
	if len(frame) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(frame))
	}

	total := Count(len(frame))
	out := make([][]byte, 0, total)

	for i := 0; i < total; i++ {
		start := i * MaxPayload
		end := min(start+MaxPayload, len(frame))

		out = append(out, Encode(Chunk{
			Total:   uint16(total), //nolint:gosec // bounded by MaxChunks
			Index:   uint16(i),     //nolint:gosec // bounded by MaxChunks
			Payload: frame[start:end],
		}))
	}

	return out, nil
}

func Encode(c Chunk) []byte {
	buf := make([]byte, HeaderSize+len(c.Payload))
	buf[0] = Tag
	binary.BigEndian.PutUint16(buf[1:3], c.Total)
	binary.BigEndian.PutUint16(buf[3:5], c.Index)
	copy(buf[HeaderSize:], c.Payload)

	return buf
}

// Decode parses one datagram. The payload aliases b.
func Decode(b []byte) (Chunk, error) {
	if len(b) < HeaderSize {
		return Chunk{}, ErrShort
	}
	if b[0] != Tag {
		return Chunk{}, fmt.Errorf("%w: %#x", ErrTag, b[0])
	}

	c := Chunk{
		Total:   binary.BigEndian.Uint16(b[1:3]),
		Index:   binary.BigEndian.Uint16(b[3:5]),
		Payload: b[HeaderSize:],
	}

	if c.Index >= c.Total {
		return Chunk{}, fmt.Errorf("%w: %d of %d", ErrIndex, c.Index, c.Total)
	}
	if len(c.Payload) > MaxPayload {
		return Chunk{}, fmt.Errorf("%w: %d bytes", ErrPayload, len(c.Payload))
	}

	return c, nil
}

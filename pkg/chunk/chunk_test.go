package chunk

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func frame(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return b
}

func TestCount(t *testing.T) {
	tests := []struct{ n, want int }{
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tt := range tests {
		if got := Count(tt.n); got != tt.want {
			t.Errorf("Count(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestHeaderIsBigEndian(t *testing.T) {
	b := Encode(Chunk{Total: 0x0102, Index: 0x0003, Payload: []byte{9}})

	want := []byte{'C', 0x01, 0x02, 0x00, 0x03, 9}
	if !bytes.Equal(b, want) {
		t.Fatalf("Encode = %x, want %x", b, want)
	}
}

func TestSplitKeepsTrailingBytes(t *testing.T) {
	in := frame(450)

	chunks, err := Split(in)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if got := len(chunks[2]) - HeaderSize; got != 50 {
		t.Errorf("last payload = %d bytes, want 50", got)
	}
}

func TestSplitReassembleOutOfOrder(t *testing.T) {
	in := frame(12345)

	chunks, err := Split(in)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })
	// a duplicate must not break anything
	chunks = append(chunks, chunks[0])

	var r Reassembler
	done := false
	for _, raw := range chunks {
		c, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if done, err = r.Add(c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if !done || len(r.Missing()) != 0 {
		t.Fatalf("incomplete, missing %v", r.Missing())
	}
	if !bytes.Equal(r.Frame(), in) {
		t.Fatal("reassembled frame differs")
	}
}

func TestReassemblerMissingAndInconsistent(t *testing.T) {
	var r Reassembler

	if _, err := r.Add(Chunk{Total: 3, Index: 1, Payload: []byte{1}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Frame() != nil {
		t.Error("Frame returned data before completion")
	}
	if m := r.Missing(); len(m) != 2 || m[0] != 0 || m[1] != 2 {
		t.Errorf("Missing = %v", m)
	}

	_, err := r.Add(Chunk{Total: 4, Index: 0})
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("err = %v, want ErrInconsistent", err)
	}

	r.Reset()
	if r.Complete() || r.Missing() != nil {
		t.Error("Reset left state behind")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short", []byte{'C', 0, 1}, ErrShort},
		{"tag", []byte{'X', 0, 1, 0, 0}, ErrTag},
		{"index", []byte{'C', 0, 1, 0, 1}, ErrIndex},
		{"payload", append([]byte{'C', 0, 1, 0, 0}, make([]byte, MaxPayload+1)...), ErrPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.raw); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSplitLimits(t *testing.T) {
	if _, err := Split(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := Split(make([]byte, MaxFrameSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("large: err = %v", err)
	}
}

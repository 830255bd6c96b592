package chunk

import "fmt"

// Reassembler collects the chunks of one frame in any order. Duplicates are
// ignored. It is not safe for concurrent use.
type Reassembler struct {
	total    int
	received int
	parts    [][]byte
}

// Add stores c and reports whether the frame is complete.
func (r *Reassembler) Add(c Chunk) (bool, error) {
	if r.parts == nil {
		r.total = int(c.Total)
		r.parts = make([][]byte, r.total)
	}

	if int(c.Total) != r.total {
		return false, fmt.Errorf("%w: got %d, want %d", ErrInconsistent, c.Total, r.total)
	}
	if int(c.Index) >= r.total {
		return false, fmt.Errorf("%w: %d of %d", ErrIndex, c.Index, r.total)
	}

	if r.parts[c.Index] == nil {
		r.parts[c.Index] = append([]byte{}, c.Payload...)
		r.received++
	}

	return r.Complete(), nil
}

func (r *Reassembler) Complete() bool {
	return r.parts != nil && r.received == r.total
}

// Missing returns the indexes that have not arrived yet.
func (r *Reassembler) Missing() []int {
	var out []int
	for i, p := range r.parts {
		if p == nil {
			out = append(out, i)
		}
	}
	return out
}

// Frame joins the chunks. It returns nil until the frame is complete.
func (r *Reassembler) Frame() []byte {
	if !r.Complete() {
		return nil
	}

	size := 0
	for _, p := range r.parts {
		size += len(p)
	}

	out := make([]byte, 0, size)
	for _, p := range r.parts {
		out = append(out, p...)
	}
	return out
}

func (r *Reassembler) Reset() {
	*r = Reassembler{}
}

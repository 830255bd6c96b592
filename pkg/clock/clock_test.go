package clock

import (
	"testing"
	"time"
)

func TestFakeAfter(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	got := <-f.After(2 * time.Second)
	if !got.Equal(start.Add(2 * time.Second)) {
		t.Fatalf("After fired at %v", got)
	}

	f.Advance(time.Second)
	<-f.After(4 * time.Second)

	if !f.Now().Equal(start.Add(7 * time.Second)) {
		t.Fatalf("Now = %v", f.Now())
	}

	waits := f.Waits()
	if len(waits) != 2 || waits[0] != 2*time.Second || waits[1] != 4*time.Second {
		t.Fatalf("Waits = %v", waits)
	}
}

package delta

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/suffixdiff/bsdiff"
	"github.com/suffixdiff/bsdiff/stream"
)

func diffAndApply(t *testing.T, old, new []byte) []byte {
	t.Helper()

	ctrl := stream.NewBufferStream()
	diffOut := stream.NewBufferStream()
	extraOut := stream.NewBufferStream()

	if err := Diff(old, new, ctrl, diffOut, extraOut, Options{SuffixSortConcurrency: 1}); err != nil {
		t.Fatalf("Diff failed: %v", err)
	}

	got, err := Apply(old, int64(len(new)), ctrl, diffOut, extraOut, ApplyOptions{})

	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	return got
}

func TestRoundTripIdentity(t *testing.T) {
	old := []byte("the quick brown fox jumps over the lazy dog")
	got := diffAndApply(t, old, old)

	if !bytes.Equal(got, old) {
		t.Fatalf("identity round trip mismatch")
	}
}

func TestRoundTripSmallEdit(t *testing.T) {
	old := []byte("the quick brown fox jumps over the lazy dog")
	new := []byte("the quick brown cat jumps over the lazy dogs")

	got := diffAndApply(t, old, new)

	if !bytes.Equal(got, new) {
		t.Fatalf("round trip mismatch:\n got=%q\nwant=%q", got, new)
	}
}

func TestRoundTripEmptyOld(t *testing.T) {
	old := []byte{}
	new := []byte("brand new content")

	got := diffAndApply(t, old, new)

	if !bytes.Equal(got, new) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripEmptyNew(t *testing.T) {
	old := []byte("some old content that disappears")
	new := []byte{}

	got := diffAndApply(t, old, new)

	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d bytes", len(got))
	}
}

func TestRoundTripBothEmpty(t *testing.T) {
	got := diffAndApply(t, nil, nil)

	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d bytes", len(got))
	}
}

func TestRoundTripSingleByteFlip(t *testing.T) {
	old := bytes.Repeat([]byte("0123456789"), 200)
	new := append([]byte{}, old...)
	new[1234] ^= 0xff

	got := diffAndApply(t, old, new)

	if !bytes.Equal(got, new) {
		t.Fatalf("round trip mismatch after single byte flip")
	}
}

func TestRoundTripRandomBinary(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	old := make([]byte, 20000)
	r.Read(old)

	new := append([]byte{}, old...)

	// Scatter a handful of edits and a block insertion/deletion.
	for i := 0; i < 50; i++ {
		new[r.Intn(len(new))] = byte(r.Intn(256))
	}

	insertAt := 5000
	insertion := make([]byte, 777)
	r.Read(insertion)
	tail := append([]byte{}, new[insertAt:]...)
	new = append(new[:insertAt], append(insertion, tail...)...)
	new = append(new[:15000], new[15500:]...)

	got := diffAndApply(t, old, new)

	if !bytes.Equal(got, new) {
		t.Fatalf("round trip mismatch on random binary input")
	}
}

type countingListener struct {
	events []int
}

func (l *countingListener) ProcessEvent(evt *bsdiff.Event) {
	l.events = append(l.events, evt.Type())
}

func TestListenerReceivesStartAndEndEvents(t *testing.T) {
	old := []byte("abcdefghijklmnopqrstuvwxyz")
	new := []byte("abcdefghijklmnopqrstuvwxyZ")

	ctrl := stream.NewBufferStream()
	diffOut := stream.NewBufferStream()
	extraOut := stream.NewBufferStream()

	l := &countingListener{}

	if err := Diff(old, new, ctrl, diffOut, extraOut, Options{SuffixSortConcurrency: 1, Listener: l}); err != nil {
		t.Fatalf("Diff failed: %v", err)
	}

	if len(l.events) < 2 {
		t.Fatalf("expected at least start and end events, got %v", l.events)
	}

	if l.events[0] != bsdiff.EVT_DIFF_START {
		t.Fatalf("first event = %d, want EVT_DIFF_START", l.events[0])
	}

	if l.events[len(l.events)-1] != bsdiff.EVT_DIFF_END {
		t.Fatalf("last event = %d, want EVT_DIFF_END", l.events[len(l.events)-1])
	}
}

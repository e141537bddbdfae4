package delta

import (
	"testing"

	"github.com/suffixdiff/bsdiff/stream"
)

func TestApplyRejectsOversizedAddTriple(t *testing.T) {
	ctrl := stream.NewBufferStream()
	diffIn := stream.NewBufferStream()
	extraIn := stream.NewBufferStream()

	var buf [24]byte
	Control{Add: 100, Copy: 0, Seek: 0}.Encode(buf[:])
	ctrl.Write(buf[:])

	_, err := Apply([]byte("short"), 10, ctrl, diffIn, extraIn, ApplyOptions{})

	if err == nil {
		t.Fatalf("expected corrupt patch error, got nil")
	}
}

func TestApplyRejectsOversizedCopyTriple(t *testing.T) {
	ctrl := stream.NewBufferStream()
	diffIn := stream.NewBufferStream()
	extraIn := stream.NewBufferStream()

	var buf [24]byte
	Control{Add: 0, Copy: 100, Seek: 0}.Encode(buf[:])
	ctrl.Write(buf[:])

	_, err := Apply([]byte("short"), 10, ctrl, diffIn, extraIn, ApplyOptions{})

	if err == nil {
		t.Fatalf("expected corrupt patch error, got nil")
	}
}

func TestApplyTruncatedControlStreamFails(t *testing.T) {
	ctrl := stream.NewBufferStream()
	diffIn := stream.NewBufferStream()
	extraIn := stream.NewBufferStream()

	_, err := Apply([]byte("old"), 3, ctrl, diffIn, extraIn, ApplyOptions{})

	if err == nil {
		t.Fatalf("expected read error on empty control stream, got nil")
	}
}

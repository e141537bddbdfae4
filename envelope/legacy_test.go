package envelope

import (
	"bytes"
	"testing"

	"github.com/suffixdiff/bsdiff/delta"
)

type bytesReaderAt struct {
	b []byte
}

func (r bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(r.b).ReadAt(p, off)
}

func TestLegacyRoundTrip(t *testing.T) {
	old := []byte("the quick brown fox jumps over the lazy dog, repeatedly, many times over")
	new := []byte("the quick brown cat jumps over the lazy dogs, repeatedly, many times over again")

	var patch bytes.Buffer

	if err := EncodeLegacy(old, new, &patch, EncodeLegacyOptions{SuffixSortConcurrency: 1}); err != nil {
		t.Fatalf("EncodeLegacy failed: %v", err)
	}

	got, err := DecodeLegacy(old, bytesReaderAt{patch.Bytes()}, delta.ApplyOptions{})

	if err != nil {
		t.Fatalf("DecodeLegacy failed: %v", err)
	}

	if !bytes.Equal(got, new) {
		t.Fatalf("legacy round trip mismatch:\n got=%q\nwant=%q", got, new)
	}
}

func TestLegacyRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 32)
	copy(bad, "NOTMAGIC")

	_, err := DecodeLegacy(nil, bytesReaderAt{bad}, delta.ApplyOptions{})

	if err == nil {
		t.Fatalf("expected error for bad magic, got nil")
	}
}

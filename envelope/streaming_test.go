package envelope

import (
	"bytes"
	"testing"

	"github.com/suffixdiff/bsdiff/delta"
)

func TestStreamingRoundTripBSDIFF43(t *testing.T) {
	old := []byte("the quick brown fox jumps over the lazy dog, repeatedly, many times over")
	new := []byte("the quick brown cat jumps over the lazy dogs, repeatedly, many times over again")

	var patch bytes.Buffer

	err := EncodeStreaming(old, new, &patch, EncodeStreamingOptions{
		Algorithm:             AlgorithmBzip2,
		SuffixSortConcurrency: 1,
	})

	if err != nil {
		t.Fatalf("EncodeStreaming failed: %v", err)
	}

	got, hdr, err := DecodeStreaming(old, bytes.NewReader(patch.Bytes()), delta.ApplyOptions{})

	if err != nil {
		t.Fatalf("DecodeStreaming failed: %v", err)
	}

	if !bytes.Equal(got, new) {
		t.Fatalf("streaming round trip mismatch:\n got=%q\nwant=%q", got, new)
	}

	if hdr.HasChecksums {
		t.Fatalf("BSDIFF43 header should not carry checksums")
	}
}

func TestStreamingRoundTripBSDIFF44(t *testing.T) {
	old := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	new := []byte("0123456789ABCDEFghijklmnopqrstuvwxyz!!")

	var patch bytes.Buffer

	err := EncodeStreaming(old, new, &patch, EncodeStreamingOptions{
		Algorithm:             AlgorithmBzip2,
		BSDIFF44:              true,
		SuffixSortConcurrency: 1,
	})

	if err != nil {
		t.Fatalf("EncodeStreaming failed: %v", err)
	}

	got, hdr, err := DecodeStreaming(old, bytes.NewReader(patch.Bytes()), delta.ApplyOptions{})

	if err != nil {
		t.Fatalf("DecodeStreaming failed: %v", err)
	}

	if !bytes.Equal(got, new) {
		t.Fatalf("streaming round trip mismatch")
	}

	if !hdr.HasChecksums {
		t.Fatalf("BSDIFF44 header should carry checksums")
	}

	if hdr.OldChecksum != Fletcher16(old) {
		t.Errorf("old checksum mismatch: got %d want %d", hdr.OldChecksum, Fletcher16(old))
	}

	if hdr.NewChecksum != Fletcher16(new) {
		t.Errorf("new checksum mismatch: got %d want %d", hdr.NewChecksum, Fletcher16(new))
	}

	if hdr.OldSize != int64(len(old)) {
		t.Errorf("old size mismatch: got %d want %d", hdr.OldSize, len(old))
	}
}

func TestFletcher16KnownValues(t *testing.T) {
	if got := Fletcher16(nil); got != 0 {
		t.Errorf("Fletcher16(nil) = %d, want 0", got)
	}

	// Fletcher16 must be sensitive to byte order, not just byte content.
	a := Fletcher16([]byte{1, 2})
	b := Fletcher16([]byte{2, 1})

	if a == b {
		t.Errorf("Fletcher16 should differ for reordered input: got %d for both", a)
	}
}

package suffixarray

import (
	"math/rand"
	"testing"
)

// isValidSuffixArray checks that I is a permutation of [0, len(buf)] and that
// the suffixes it orders are non-decreasing lexicographically.
func isValidSuffixArray(t *testing.T, buf []byte, I []int) {
	t.Helper()
	n := len(buf)

	if len(I) != n+1 {
		t.Fatalf("expected suffix array of length %d, got %d", n+1, len(I))
	}

	seen := make([]bool, n+1)

	for _, v := range I {
		if v < 0 || v > n {
			t.Fatalf("suffix array entry out of range: %d", v)
		}

		if seen[v] {
			t.Fatalf("suffix array is not a permutation, duplicate %d", v)
		}

		seen[v] = true
	}

	suffix := func(i int) []byte {
		return buf[i:]
	}

	for i := 1; i < len(I); i++ {
		a, b := suffix(I[i]), suffix(I[i-1])
		cmp := prefixCompare(a, b)

		if cmp < 0 || (cmp == 0 && len(a) < len(b)) {
			t.Fatalf("suffix array not sorted at rank %d: %q before %q", i, suffix(I[i-1]), suffix(I[i]))
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	idx := Build(nil, Options{Concurrency: 1})
	isValidSuffixArray(t, nil, idx.I)
}

func TestBuildSingleByte(t *testing.T) {
	idx := Build([]byte{'a'}, Options{Concurrency: 1})
	isValidSuffixArray(t, []byte{'a'}, idx.I)
}

func TestBuildRepeatedBytes(t *testing.T) {
	buf := make([]byte, 300)

	for i := range buf {
		buf[i] = 'x'
	}

	idx := Build(buf, Options{Concurrency: 1})
	isValidSuffixArray(t, buf, idx.I)
}

func TestBuildRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	buf := make([]byte, 5000)
	r.Read(buf)

	idx := Build(buf, Options{Concurrency: 1})
	isValidSuffixArray(t, buf, idx.I)
}

func TestSearchFindsExactMatch(t *testing.T) {
	buf := []byte("the quick brown fox jumps over the lazy dog")
	idx := Build(buf, Options{Concurrency: 1})

	pos, n := idx.Search([]byte("quick brown"))

	if n < len("quick brown") {
		t.Fatalf("expected a full match of length %d, got %d", len("quick brown"), n)
	}

	if got := string(buf[pos : pos+n]); got != "quick brown" {
		t.Fatalf("matched region = %q, want %q", got, "quick brown")
	}
}

func TestSearchNoMatch(t *testing.T) {
	buf := []byte("aaaaaaaaaa")
	idx := Build(buf, Options{Concurrency: 1})

	_, n := idx.Search([]byte("zzz"))

	if n != 0 {
		t.Fatalf("expected zero-length match, got %d", n)
	}
}

// TestBuildSequentialVsParallel asserts that the opt-in concurrent doubling
// pass produces byte-identical suffix arrays to the sequential path.
func TestBuildSequentialVsParallel(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	buf := make([]byte, 1<<17)
	r.Read(buf)

	seq := Build(buf, Options{Concurrency: 1})
	par := Build(buf, Options{Concurrency: 4})

	if len(seq.I) != len(par.I) {
		t.Fatalf("length mismatch: %d vs %d", len(seq.I), len(par.I))
	}

	for i := range seq.I {
		if seq.I[i] != par.I[i] {
			t.Fatalf("suffix array mismatch at rank %d: sequential=%d parallel=%d", i, seq.I[i], par.I[i])
		}
	}
}

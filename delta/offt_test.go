package delta

import "testing"

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 255, -255, 256, 1 << 20, -(1 << 20), 1<<55 - 1, -(1<<55 - 1)}

	for _, v := range values {
		var buf [8]byte
		EncodeInt64(v, buf[:])

		if got := DecodeInt64(buf[:]); got != v {
			t.Errorf("round trip of %d got %d", v, got)
		}
	}
}

func TestInt64BothZeroEncodingsDecodeToZero(t *testing.T) {
	positive := [8]byte{}
	negative := [8]byte{0, 0, 0, 0, 0, 0, 0, 0x80}

	if got := DecodeInt64(positive[:]); got != 0 {
		t.Errorf("positive zero decoded to %d", got)
	}

	if got := DecodeInt64(negative[:]); got != 0 {
		t.Errorf("negative zero decoded to %d", got)
	}
}

func TestControlRoundTrip(t *testing.T) {
	c := Control{Add: 42, Copy: 17, Seek: -9}
	var buf [24]byte
	c.Encode(buf[:])

	got := DecodeControl(buf[:])

	if got != c {
		t.Errorf("control round trip = %+v, want %+v", got, c)
	}
}

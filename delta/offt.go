/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package delta

// EncodeInt64 writes x into buf (which must be at least 8 bytes long) as a
// little-endian sign-magnitude integer: bytes 0-6 hold the magnitude base
// 256, the low 7 bits of byte 7 hold the magnitude's high bits, and the top
// bit of byte 7 is the sign bit (set when x is negative).
func EncodeInt64(x int64, buf []byte) {
	y := x

	if y < 0 {
		y = -y
	}

	for i := 0; i < 8; i++ {
		buf[i] = byte(y % 256)
		y -= int64(buf[i])
		y /= 256
	}

	if x < 0 {
		buf[7] |= 0x80
	}
}

// DecodeInt64 reads the 8-byte little-endian sign-magnitude encoding written
// by EncodeInt64. Both encodings of zero (positive and negative) decode to 0.
func DecodeInt64(buf []byte) int64 {
	y := int64(buf[7] & 0x7f)

	for i := 6; i >= 0; i-- {
		y = y*256 + int64(buf[i])
	}

	if buf[7]&0x80 != 0 {
		y = -y
	}

	return y
}

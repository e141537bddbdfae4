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

package envelope

// Fletcher16 computes the Fletcher-16 checksum of data, as carried by the
// BSDIFF44 header. Neither this package nor delta verifies it against the
// bytes it describes; it is surfaced on StreamingHeader for a caller to
// check if it wants that guarantee.
func Fletcher16(data []byte) uint16 {
	var sum1, sum2 uint32

	for _, b := range data {
		sum1 = (sum1 + uint32(b)) % 255
		sum2 = (sum2 + sum1) % 255
	}

	return uint16(sum2<<8 | sum1)
}

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

import (
	"fmt"

	"github.com/suffixdiff/bsdiff"
)

// Error reports a failure from the core diff/apply engine, carrying one of
// the bsdiff.ERR_* codes so callers (envelope, app) can map it to an exit
// status without string-matching messages.
type Error struct {
	Code    int
	Message string
	err     error
}

// NewError wraps err (which may be nil) with a code and message.
func NewError(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}

	return e.Message
}

// Unwrap exposes the wrapped error, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// ErrCorrupt indicates that a patch is malformed or requests more output
// than the declared new-file size allows.
var ErrCorrupt = NewError(bsdiff.ERR_CORRUPT_PATCH, "corrupt patch", nil)

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package illyria

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports an invalid configuration or nil transport/codec.
	ErrInvalidArgument = errors.New("illyria: invalid argument")

	// ErrBusy is returned by Send when a previous message has not yet been
	// acknowledged (tx_state != Idle per spec §3).
	ErrBusy = errors.New("illyria: send already in progress")

	// ErrTooLong is returned by Send when the payload exceeds
	// min(255, N-4) for the configured tx buffer, or by a codec that
	// exceeds its destination buffer.
	ErrTooLong = errors.New("illyria: message too long")

	// ErrEncodeFailure is returned by Send when the application codec
	// rejects the value being sent.
	ErrEncodeFailure = errors.New("illyria: codec failed to encode value")

	// ErrDecodeFailure is returned internally when the application codec
	// rejects a received payload; PollRx reports it as a failed receive
	// without surfacing the malformed bytes.
	ErrDecodeFailure = errors.New("illyria: codec failed to decode payload")
)

// TransportError wraps a hard (non-would-block) error returned by the
// Transport, surfaced from PollTx/PollRx per spec §7.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("illyria: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

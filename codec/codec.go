// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package codec declares the L3 glue contract between application messages
// and the byte buffers the ARQ layer carries (spec §4.3): a pair of
// encode/decode functions operating on a caller-supplied buffer, self
// delimiting within their declared length, deterministic, and — for the
// default implementation — zero-allocation.
package codec

import "errors"

var (
	// ErrTooLong is returned by Encode when v's encoded form does not fit
	// in out.
	ErrTooLong = errors.New("codec: encoded value too long")
	// ErrEncodeFailure is returned by Encode when v cannot be encoded.
	ErrEncodeFailure = errors.New("codec: encode failed")
	// ErrDecodeFailure is returned by Decode when in is not a valid
	// encoding.
	ErrDecodeFailure = errors.New("codec: decode failed")
)

// Codec encodes and decodes application messages of type T against a
// caller-provided byte buffer.
type Codec[T any] interface {
	// Encode writes the encoding of v into out and returns the number of
	// bytes written. It must not retain out or any reference into it past
	// the call.
	Encode(v T, out []byte) (n int, err error)

	// Decode parses in (exactly the bytes a prior Encode call produced) and
	// returns the value. It must not retain in past the call.
	Decode(in []byte) (v T, err error)
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cbor provides a structured, typed Illyria codec backed by
// github.com/fxamacker/cbor/v2, for hosts that want application messages
// richer than a raw byte slice (cf. codec/raw, the zero-allocation
// default). cbor.Marshal/Unmarshal allocate, so this codec trades spec
// §4.3's zero-allocation preference for a real typed wire format — the
// same trade librescoot-bluetooth-service's pkg/service/helpers.go makes
// when it CBOR-encodes a message before handing it to the lower transport.
package cbor

import (
	"github.com/fxamacker/cbor/v2"

	"code.hybscloud.com/illyria/codec"
)

// Codec implements codec.Codec[T] for any CBOR-marshalable T.
type Codec[T any] struct{}

var _ codec.Codec[struct{}] = Codec[struct{}]{}

func (Codec[T]) Encode(v T, out []byte) (int, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return 0, codec.ErrEncodeFailure
	}
	if len(b) > len(out) {
		return 0, codec.ErrTooLong
	}
	return copy(out, b), nil
}

func (Codec[T]) Decode(in []byte) (T, error) {
	var v T
	if err := cbor.Unmarshal(in, &v); err != nil {
		return v, codec.ErrDecodeFailure
	}
	return v, nil
}

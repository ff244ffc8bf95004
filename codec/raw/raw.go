// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package raw provides the default, zero-allocation Illyria codec: the
// application message type is []byte itself, copied verbatim into and out
// of the caller's buffer. This is the codec spec §4.3 describes as the
// baseline contract ("any compact, length-prefixed-or-type-tagged binary
// serialization meets the contract") taken to its simplest form — the
// message already is its own wire form.
package raw

import "code.hybscloud.com/illyria/codec"

// Codec implements codec.Codec[[]byte] with a straight copy in each
// direction. It performs no allocation: Decode returns a slice aliasing the
// caller-owned input, valid only until the caller reuses that buffer (a Peer
// decodes every received frame into the same rx buffer).
type Codec struct{}

var _ codec.Codec[[]byte] = Codec{}

func (Codec) Encode(v []byte, out []byte) (int, error) {
	if len(v) > len(out) {
		return 0, codec.ErrTooLong
	}
	return copy(out, v), nil
}

func (Codec) Decode(in []byte) ([]byte, error) {
	return in, nil
}

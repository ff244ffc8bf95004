// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package illyria

import "code.hybscloud.com/iox"

// Transport is the narrow byte-at-a-time, non-blocking link below the
// framer (L0 in the layering table). Implementations are expected to be
// thin adapters over a UART, a pipe, or any other raw byte channel; Illyria
// never buffers more than one in-flight byte against it.
//
// A would-block condition (no byte to read yet, or the sink cannot accept a
// byte right now) is reported as ErrWouldBlock, reusing the control-flow
// sentinel iox.ErrWouldBlock, rather than a hard error.
type Transport interface {
	// ReadByte returns the next byte, or ErrWouldBlock if none is available
	// without waiting, or any other error to report a hard transport
	// failure.
	ReadByte() (byte, error)

	// WriteByte writes one byte, or returns ErrWouldBlock if the sink has
	// no room right now, or any other error to report a hard transport
	// failure.
	WriteByte(b byte) error
}

// ErrWouldBlock is the control-flow signal a Transport returns to mean "no
// further progress without waiting" — it is not a failure, and PollTx/PollRx
// treat it as "stop for this invocation, try again on the next poll".
var ErrWouldBlock = iox.ErrWouldBlock

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package illyria

// cobsEncoder streams the COBS encoding of a source buffer one byte at a
// time, including the trailing 0x00 delimiter, without an auxiliary copy of
// the encoded form. It scans up to 254 bytes ahead to find the next zero (or
// end of input) each time it needs to emit a new prefix byte — the only
// look-ahead the algorithm requires.
//
// A run that ends by consuming a source zero, or by hitting the 254-byte
// chain cap, right at the last byte of src requires one further empty run
// (prefix 0x01) before the delimiter — otherwise a trailing zero byte (or an
// exactly-254-byte chain boundary) would be lost on decode. finishRun
// synthesizes that extra run when needed.
type cobsEncoder struct {
	src    []byte
	cursor int  // next unconsumed byte in src
	runEnd int  // cursor of the byte just past the current run
	prefix byte // prefix byte for the current run
	state  cobsEncState

	// One-byte lookahead buffer so a caller writing to a would-block
	// transport can retry the SAME byte without losing encoder progress:
	// peek() computes and holds a byte; advance() commits it only after a
	// successful write.
	pendingByte byte
	pendingMore bool
	hasPending  bool
	exhausted   bool
}

type cobsEncState uint8

const (
	cobsEncPrefix cobsEncState = iota
	cobsEncBody
	cobsEncDelimiter
	cobsEncDone
)

// init (re)initializes the encoder over src. Retransmission reuses this to
// walk the same bytes again, byte-for-byte identical.
func (e *cobsEncoder) init(src []byte) {
	e.src = src
	e.cursor = 0
	e.state = cobsEncPrefix
	e.hasPending = false
	e.exhausted = false
	e.scanRun()
}

// peek returns the next byte to emit without consuming it; ok is false once
// the delimiter has already been consumed via advance.
func (e *cobsEncoder) peek() (b byte, ok bool) {
	if e.exhausted {
		return 0, false
	}
	if !e.hasPending {
		e.pendingByte, e.pendingMore = e.next()
		e.hasPending = true
	}
	return e.pendingByte, true
}

// advance commits the byte last returned by peek.
func (e *cobsEncoder) advance() {
	if !e.hasPending {
		return
	}
	if !e.pendingMore {
		e.exhausted = true
	}
	e.hasPending = false
}

// scanRun finds the end of the current run: the next zero byte in src (not
// included) or min(cursor+254, len(src)), whichever comes first.
func (e *cobsEncoder) scanRun() {
	limit := e.cursor + 254
	if limit > len(e.src) {
		limit = len(e.src)
	}
	i := e.cursor
	for i < limit && e.src[i] != 0 {
		i++
	}
	e.runEnd = i
	e.prefix = byte(i - e.cursor + 1)
}

// finishRun is called once cursor reaches runEnd (the current run, data
// bytes already emitted). It decides what follows: a consumed source zero
// chains to the next run; hitting the cap chains without consuming one;
// either case landing exactly at end of input needs a synthetic empty run
// before the delimiter; anything else goes straight to the delimiter.
func (e *cobsEncoder) finishRun() {
	consumedZero := false
	if e.prefix != 0xFF && e.cursor < len(e.src) && e.src[e.cursor] == 0 {
		e.cursor++
		consumedZero = true
	}
	cappedAtMax := e.prefix == 0xFF

	if e.cursor >= len(e.src) {
		if consumedZero || cappedAtMax {
			e.runEnd = e.cursor
			e.prefix = 1
			e.state = cobsEncPrefix
			return
		}
		e.state = cobsEncDelimiter
		return
	}
	e.scanRun()
	e.state = cobsEncPrefix
}

// next returns the next encoded byte and whether more bytes remain after it.
func (e *cobsEncoder) next() (b byte, more bool) {
	switch e.state {
	case cobsEncPrefix:
		b = e.prefix
		if e.cursor == e.runEnd {
			e.finishRun()
		} else {
			e.state = cobsEncBody
		}
		return b, e.state != cobsEncDone
	case cobsEncBody:
		b = e.src[e.cursor]
		e.cursor++
		if e.cursor == e.runEnd {
			e.finishRun()
		}
		return b, e.state != cobsEncDone
	case cobsEncDelimiter:
		e.state = cobsEncDone
		return 0x00, false
	default:
		return 0, false
	}
}

// done reports whether the encoder has emitted the trailing delimiter.
func (e *cobsEncoder) done() bool { return e.state == cobsEncDone }

// cobsDecodeEvent is the outcome of feeding one byte to the decoder.
type cobsDecodeEvent uint8

const (
	cobsContinue cobsDecodeEvent = iota
	cobsComplete
	cobsMalformed
)

// cobsDecoder reassembles a COBS-encoded stream into rx_buffer one byte at a
// time, per spec §4.1. It tracks the countdown to the next prefix byte, the
// active prefix, and the write cursor; overflow is sticky until the next
// delimiter.
//
// Whether a run boundary implies a zero byte in the decoded payload cannot
// be decided when the run completes — it depends on whether the *next*
// byte is another run's prefix or the frame delimiter. pendingZero defers
// that decision: it is flushed into dst as soon as a non-delimiter byte
// arrives, and silently dropped if the delimiter arrives first (the run was
// the last one, and the encoder's trailing empty-run convention guarantees
// no information is lost by dropping it there).
type cobsDecoder struct {
	dst         []byte
	cursor      int // bytes written to dst so far
	remaining   int // bytes left in the current run before the next prefix byte
	prefix      byte
	pendingZero bool
	sawAnyByte  bool // distinguishes "leading 0x00" from a clean empty run boundary
	overflow    bool
}

// reset arms the decoder to write into dst.
func (d *cobsDecoder) reset(dst []byte) {
	d.dst = dst
	d.cursor = 0
	d.remaining = 0
	d.prefix = 0
	d.pendingZero = false
	d.sawAnyByte = false
	d.overflow = false
}

// pushByte consumes one input byte and reports the resulting event. On
// cobsComplete, n is the number of decoded payload bytes written to dst
// (dst[0:n]); the decoder is already reset and ready for the next frame.
func (d *cobsDecoder) pushByte(b byte) (ev cobsDecodeEvent, n int) {
	if b == 0x00 {
		// Delimiter: frame boundary. A delimiter while a run is still open
		// (remaining > 0) means the source was truncated relative to its own
		// prefix count — malformed. Any still-pending zero is dropped: it
		// belonged only if another run had followed.
		wasOverflow := d.overflow
		midRun := d.remaining > 0
		started := d.sawAnyByte
		n = d.cursor
		d.resetAfterDelimiter()
		if !started || wasOverflow || midRun {
			return cobsMalformed, 0
		}
		if n < 4 {
			// A decoded frame shorter than 4 bytes cannot hold a valid
			// header+length+CRC per spec §3.
			return cobsMalformed, 0
		}
		return cobsComplete, n
	}

	d.sawAnyByte = true

	if d.remaining == 0 {
		// b starts a new run: flush any zero deferred from the previous run
		// first, then treat b as this run's prefix.
		if d.pendingZero {
			d.writeByte(0x00)
			d.pendingZero = false
		}
		d.prefix = b
		d.remaining = int(b) - 1
		if d.remaining == 0 && d.prefix != 0xFF {
			d.pendingZero = true
		}
		return cobsContinue, 0
	}

	d.remaining--
	d.writeByte(b)
	if d.remaining == 0 && d.prefix != 0xFF {
		d.pendingZero = true
	}
	return cobsContinue, 0
}

func (d *cobsDecoder) writeByte(b byte) {
	if d.overflow {
		return
	}
	if d.cursor >= len(d.dst) {
		d.overflow = true
		return
	}
	d.dst[d.cursor] = b
	d.cursor++
}

func (d *cobsDecoder) resetAfterDelimiter() {
	d.cursor = 0
	d.remaining = 0
	d.prefix = 0
	d.pendingZero = false
	d.sawAnyByte = false
	d.overflow = false
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package illyria implements the Burkle stop-and-wait ARQ layered over a
// streaming COBS framer (see cobs.go), targeting embedded links driven by
// cooperative polling: no dynamic allocation, fixed caller-supplied
// buffers, two entry points (PollTx/PollRx) the host calls as often as it
// can.
//
// Wire format (normative, spec §3/§6): a COBS-encoded, 0x00-delimited frame
// of [header:1][length:1][payload:length][crc_hi:1][crc_lo:1]. header is
// 0x01 for an I-frame (0..255 payload bytes), 0x02 for ACK, 0x03 for NACK;
// S-frames always carry length 0. crc is CRC-16/X.25 over header+length+
// payload, transmitted big-endian.
package illyria

import (
	"code.hybscloud.com/illyria/codec"
)

// txState is the sender-side state from spec §3.
type txState uint8

const (
	txIdle txState = iota
	txSending
	txAwaitingAck
	// txWaitingRetry is named in spec §3's state enumeration but never
	// named as a distinct node in the transition table (spec §4.2): the
	// retry wait happens while txAwaitingAck, gated on the deadline. It is
	// declared here only so the state space matches the spec's data model
	// one-for-one; nothing transitions into or out of it.
	txWaitingRetry
)

// Stats exposes read-only counters for host-side diagnosis of a
// persistently non-idle link (spec §7's closing note). They add no
// protocol behavior.
type Stats struct {
	Retransmits    int
	NacksSent      int
	NacksReceived  int
	AcksReceived   int
	FramesReceived int
	FramesRejected int // malformed, overflowed, codec-rejected, or NACKed under WithPendingReject
}

// Peer is one side of a symmetric Illyria link: a combined sender and
// receiver sharing one Transport and Clock. T is the application message
// type; Codec bridges it to the byte payloads the ARQ layer carries.
type Peer[T any] struct {
	transport Transport
	clock     Clock
	codec     codec.Codec[T]
	opts      Options

	// Sender state (spec §3).
	txBuf           []byte
	txLen           int
	txState         txState
	txEncoder       cobsEncoder
	txRetryDeadline Instant

	// Outgoing S-frame queue, capacity 1 (spec §4.2).
	sFrameBuf     [frameOverhead]byte
	sFrameEncoder cobsEncoder
	sFramePending bool

	// Receiver state (spec §3).
	rxBuf     []byte
	rxDecoder cobsDecoder

	pendingKind  pendingKind
	pendingValue T
	pendingErr   error

	stats Stats
}

type pendingKind uint8

const (
	pendingNone pendingKind = iota
	pendingValueKind
	pendingErrKind
)

// New constructs a Peer, rejecting a nil transport, clock, or codec with
// ErrInvalidArgument rather than deferring the failure to the first
// PollTx/PollRx call (the teacher's internal.go applies the same
// nil-check-and-reject rule at the equivalent point it first needs the
// collaborator). txBuf and rxBuf are borrowed exclusively for the Peer's
// lifetime (spec §5's resource policy: no allocation, no global state).
// Message capacity is min(255, len(txBuf)-4).
func New[T any](transport Transport, clock Clock, c codec.Codec[T], txBuf, rxBuf []byte, opts ...Option) (*Peer[T], error) {
	if transport == nil || clock == nil || c == nil {
		return nil, ErrInvalidArgument
	}
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	p := &Peer[T]{
		transport: transport,
		clock:     clock,
		codec:     c,
		opts:      o,
		txBuf:     txBuf,
		rxBuf:     rxBuf,
	}
	p.rxDecoder.reset(rxBuf)
	return p, nil
}

// txCapacity is the largest application-message byte length New's buffers
// can carry: min(255, len(txBuf)-4).
func (p *Peer[T]) txCapacity() int {
	capacity := len(p.txBuf) - frameOverhead
	if capacity > maxPayload {
		capacity = maxPayload
	}
	if capacity < 0 {
		capacity = 0
	}
	return capacity
}

// IsIdle reports whether the sender has no in-flight message.
func (p *Peer[T]) IsIdle() bool { return p.txState == txIdle }

// Stats returns a snapshot of the link's diagnostic counters.
func (p *Peer[T]) Stats() Stats { return p.stats }

// Send submits one application message. It fails fast: Busy if a previous
// send has not yet been acknowledged, TooLong if the encoded payload
// exceeds capacity, EncodeFailure if the codec rejects v. On failure the
// pending buffer and sender state are left untouched.
func (p *Peer[T]) Send(v T) error {
	if p.txState != txIdle {
		return ErrBusy
	}
	capacity := p.txCapacity()
	n, err := p.codec.Encode(v, p.txBuf[frameHeaderLen:frameHeaderLen+capacity])
	if err != nil {
		if err == codec.ErrTooLong {
			return ErrTooLong
		}
		return ErrEncodeFailure
	}
	if n > capacity {
		return ErrTooLong
	}
	frameLen := buildFrame(p.txBuf, frameI, p.txBuf[frameHeaderLen:frameHeaderLen+n])
	p.txLen = n
	p.txEncoder.init(p.txBuf[:frameLen])
	p.txState = txSending
	return nil
}

// PollTx makes forward progress on outgoing bytes and retry timers. It
// never blocks beyond the transport's own non-blocking write.
func (p *Peer[T]) PollTx() error {
	if p.sFramePending {
		done, err := p.drain(&p.sFrameEncoder)
		if err != nil {
			return err
		}
		if !done {
			return nil
		}
		p.sFramePending = false
	}

	switch p.txState {
	case txIdle:
		return nil
	case txSending:
		done, err := p.drain(&p.txEncoder)
		if err != nil {
			return err
		}
		if done {
			p.txState = txAwaitingAck
			p.txRetryDeadline = p.clock.Now().Add(p.opts.RetryInterval)
		}
		return nil
	case txAwaitingAck:
		if !p.clock.Now().Before(p.txRetryDeadline) {
			p.stats.Retransmits++
			frameLen := frameHeaderLen + p.txLen + frameCRCLen
			p.txEncoder.init(p.txBuf[:frameLen])
			p.txState = txSending
		}
		return nil
	default:
		return nil
	}
}

// drain writes enc's remaining bytes to the transport until either the
// transport would-blocks (done=false, err=nil: try again next poll) or the
// encoder's delimiter has been written (done=true).
func (p *Peer[T]) drain(enc *cobsEncoder) (done bool, err error) {
	for {
		b, ok := enc.peek()
		if !ok {
			return true, nil
		}
		if werr := p.transport.WriteByte(b); werr != nil {
			if werr == ErrWouldBlock {
				return false, nil
			}
			return false, newTransportError("write", werr)
		}
		enc.advance()
	}
}

// PollRx consumes as many transport bytes as are available without
// blocking. It reports at most one application message or decode error per
// call, per the at-most-one-pending-slot policy (spec §9): ok is true iff v
// is a freshly delivered message.
func (p *Peer[T]) PollRx() (v T, ok bool, err error) {
	for {
		b, rerr := p.transport.ReadByte()
		if rerr != nil {
			if rerr == ErrWouldBlock {
				break
			}
			return v, false, newTransportError("read", rerr)
		}
		p.handleRxByte(b)
	}

	switch p.pendingKind {
	case pendingValueKind:
		v = p.pendingValue
		p.pendingKind = pendingNone
		var zero T
		p.pendingValue = zero
		return v, true, nil
	case pendingErrKind:
		err = p.pendingErr
		p.pendingKind = pendingNone
		p.pendingErr = nil
		return v, false, err
	default:
		return v, false, nil
	}
}

func (p *Peer[T]) handleRxByte(b byte) {
	ev, n := p.rxDecoder.pushByte(b)
	switch ev {
	case cobsContinue:
		return
	case cobsMalformed:
		p.stats.FramesRejected++
		p.enqueueSFrame(frameNACK)
		return
	case cobsComplete:
		pf, valid := parseFrame(p.rxBuf[:n])
		if !valid {
			p.stats.FramesRejected++
			p.enqueueSFrame(frameNACK)
			return
		}
		p.stats.FramesReceived++
		p.dispatch(pf)
	}
}

func (p *Peer[T]) dispatch(pf parsedFrame) {
	switch pf.kind {
	case frameI:
		if p.pendingKind != pendingNone && p.opts.PendingPolicy == pendingReject {
			p.stats.FramesRejected++
			p.enqueueSFrame(frameNACK)
			return
		}
		p.enqueueSFrame(frameACK)
		v, derr := p.codec.Decode(pf.payload)
		if derr != nil {
			p.stats.FramesRejected++
			p.pendingKind = pendingErrKind
			p.pendingErr = ErrDecodeFailure
			return
		}
		p.pendingKind = pendingValueKind
		p.pendingValue = v
	case frameACK:
		p.stats.AcksReceived++
		if p.txState == txAwaitingAck {
			p.txState = txIdle
			p.txLen = 0
		}
	case frameNACK:
		p.stats.NacksReceived++
		if p.txState == txAwaitingAck {
			frameLen := frameHeaderLen + p.txLen + frameCRCLen
			p.txEncoder.init(p.txBuf[:frameLen])
			p.txState = txSending
		}
	}
}

// enqueueSFrame arms the single-slot outgoing S-frame queue. A fresh S-frame
// overwrites one still queued (stop-and-wait means the receive side only
// ever needs to signal the most recent validation outcome).
func (p *Peer[T]) enqueueSFrame(kind frameKind) {
	if kind == frameNACK {
		p.stats.NacksSent++
	}
	n := buildFrame(p.sFrameBuf[:], kind, nil)
	p.sFrameEncoder.init(p.sFrameBuf[:n])
	p.sFramePending = true
}

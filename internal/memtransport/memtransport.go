// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package memtransport provides in-memory illyria.Transport test doubles:
// a byte-queue pipe for wiring two Peers together directly, and a scripted
// transport (a scripted reader plus a would-block-gated writer) for
// exercising ErrWouldBlock and hard-failure paths one byte at a time.
package memtransport

import (
	"code.hybscloud.com/iox"
)

// Pipe is a single-direction, unbounded byte queue implementing the read
// half or write half of a Transport, depending on which end the caller
// holds. Two Pipes crossed (A's Out feeds B's In and vice versa) simulate a
// full-duplex wire with no loss and no reordering.
type Pipe struct {
	buf []byte
}

// ReadByte returns the oldest unread byte, or ErrWouldBlock if empty.
func (p *Pipe) ReadByte() (byte, error) {
	if len(p.buf) == 0 {
		return 0, iox.ErrWouldBlock
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, nil
}

// WriteByte appends b; a Pipe never reports ErrWouldBlock on write (it has
// no capacity limit).
func (p *Pipe) WriteByte(b byte) error {
	p.buf = append(p.buf, b)
	return nil
}

// Len reports the number of unread bytes queued.
func (p *Pipe) Len() int { return len(p.buf) }

// Link is a pair of crossed Pipes connecting two Peers in a test: A.Send
// writes land in B's read side and vice versa.
type Link struct {
	AtoB Pipe
	BtoA Pipe
}

// EndA and EndB return the Transport each side of the Link should use: side A reads
// BtoA and writes AtoB, side B the reverse.
func (l *Link) EndA() Transport { return endA{l} }
func (l *Link) EndB() Transport { return endB{l} }

// Transport mirrors illyria.Transport without importing the root package,
// avoiding an import cycle from illyria's own tests.
type Transport interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

type endA struct{ l *Link }

func (e endA) ReadByte() (byte, error) { return e.l.BtoA.ReadByte() }
func (e endA) WriteByte(b byte) error  { return e.l.AtoB.WriteByte(b) }

type endB struct{ l *Link }

func (e endB) ReadByte() (byte, error) { return e.l.AtoB.ReadByte() }
func (e endB) WriteByte(b byte) error  { return e.l.BtoA.WriteByte(b) }

// Step is one scripted action: either a byte to deliver from ReadByte, or
// an error to return instead (iox.ErrWouldBlock or a hard failure).
type Step struct {
	B   byte
	Err error
}

// Scripted replays a fixed sequence of ReadByte outcomes and gates
// WriteByte behind a byte budget that ResetWriteBudget refills.
type Scripted struct {
	Steps []Step
	step  int

	// WriteLimit caps bytes accepted per WriteByte call-burst before
	// reporting ErrWouldBlock; zero means unlimited. Written bytes
	// accumulate in Written for assertions.
	WriteLimit int
	written    int
	Written    []byte
}

func (s *Scripted) ReadByte() (byte, error) {
	if s.step >= len(s.Steps) {
		return 0, iox.ErrWouldBlock
	}
	st := s.Steps[s.step]
	s.step++
	if st.Err != nil {
		return 0, st.Err
	}
	return st.B, nil
}

func (s *Scripted) WriteByte(b byte) error {
	if s.WriteLimit > 0 && s.written >= s.WriteLimit {
		return iox.ErrWouldBlock
	}
	s.Written = append(s.Written, b)
	s.written++
	return nil
}

// ResetWriteBudget clears the would-block gate, simulating the transport
// draining its outgoing buffer between polls.
func (s *Scripted) ResetWriteBudget() { s.written = 0 }

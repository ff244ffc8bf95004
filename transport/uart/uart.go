// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package uart adapts a real serial port to the byte-at-a-time, non-blocking
// Transport the illyria package polls against. It wraps github.com/tarm/serial
// the way librescoot-bluetooth-service's pkg/usock package opens a port
// (serial.Config{Name,Baud,Size,Parity,StopBits}), but turns the short-read
// and read-timeout cases the OS driver reports into iox.ErrWouldBlock instead
// of treating them as errors, since a poller calls ReadByte opportunistically
// rather than blocking for data.
package uart

import (
	"io"
	"time"

	"github.com/tarm/serial"

	"code.hybscloud.com/iox"
)

// Config mirrors the knobs librescoot-bluetooth-service's usock.New passes
// to serial.Config, plus a read poll timeout controlling how long a single
// ReadByte call may wait before reporting ErrWouldBlock.
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// Port is an illyria.Transport backed by an open serial port. It is not
// safe for concurrent use from more than one goroutine, matching Peer's own
// single-threaded polling contract.
type Port struct {
	port *serial.Port
	rbuf [64]byte
	rn   int
	roff int
}

// Open opens the configured serial device. ReadTimeout of zero defaults to
// 10ms, long enough to batch a handful of bytes without stalling a
// cooperative poll loop noticeably.
func Open(cfg Config) (*Port, error) {
	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = 10 * time.Millisecond
	}
	sp, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Port{port: sp}, nil
}

// ReadByte returns the next byte read from the port, or iox.ErrWouldBlock if
// the read timeout elapsed without one arriving.
func (p *Port) ReadByte() (byte, error) {
	if p.roff < p.rn {
		b := p.rbuf[p.roff]
		p.roff++
		return b, nil
	}
	n, err := p.port.Read(p.rbuf[:])
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, iox.ErrWouldBlock
	}
	p.rn = n
	p.roff = 1
	return p.rbuf[0], nil
}

// WriteByte writes one byte to the port. tarm/serial's Write blocks until
// the byte is accepted by the driver, so this never reports ErrWouldBlock;
// a transport with a genuinely non-blocking sink (e.g. a ring buffer shared
// with an interrupt handler) would report it here instead.
func (p *Port) WriteByte(b byte) error {
	_, err := p.port.Write([]byte{b})
	return err
}

// Close releases the underlying serial port.
func (p *Port) Close() error { return p.port.Close() }

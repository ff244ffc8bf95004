// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package illyria

import "code.hybscloud.com/illyria/internal/crc16x25"

// frameKind is the L2 header byte (spec §3/§6).
type frameKind byte

const (
	frameI    frameKind = 0x01
	frameACK  frameKind = 0x02
	frameNACK frameKind = 0x03
)

const (
	frameHeaderLen = 2 // header + length
	frameCRCLen    = 2
	frameOverhead  = frameHeaderLen + frameCRCLen // 4

	// maxPayload is the protocol-wide cap from the 8-bit length field.
	maxPayload = 255
)

// buildFrame writes [header][length][payload...][crc_hi][crc_lo] into dst
// (which must have capacity >= len(payload)+frameOverhead) and returns the
// frame length. dst and payload may overlap only if payload was already
// written into dst[frameHeaderLen:frameHeaderLen+len(payload)] by the
// caller (the common case: building an I-frame in place in tx_buffer).
func buildFrame(dst []byte, kind frameKind, payload []byte) int {
	dst[0] = byte(kind)
	dst[1] = byte(len(payload))
	copy(dst[frameHeaderLen:frameHeaderLen+len(payload)], payload)
	n := frameHeaderLen + len(payload)
	crc := crc16x25.Checksum(dst[:n])
	dst[n] = byte(crc >> 8)
	dst[n+1] = byte(crc)
	return n + frameCRCLen
}

// parsedFrame is the result of validating a decoded (post-COBS) byte slice
// as a Burkle frame.
type parsedFrame struct {
	kind    frameKind
	payload []byte // view into the decoded buffer, length-validated
}

// parseFrame validates frame (the raw bytes a COBS decode completed with)
// against the wire layout and CRC. It never panics on malformed input.
func parseFrame(frame []byte) (parsedFrame, bool) {
	if len(frame) < frameOverhead {
		return parsedFrame{}, false
	}
	length := int(frame[1])
	if frameHeaderLen+length+frameCRCLen != len(frame) {
		return parsedFrame{}, false
	}
	if !crc16x25.Verify(frame) {
		return parsedFrame{}, false
	}
	kind := frameKind(frame[0])
	switch kind {
	case frameI:
		return parsedFrame{kind: kind, payload: frame[frameHeaderLen : frameHeaderLen+length]}, true
	case frameACK, frameNACK:
		if length != 0 {
			return parsedFrame{}, false
		}
		return parsedFrame{kind: kind}, true
	default:
		return parsedFrame{}, false
	}
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package crc16x25 computes the CRC-16/X.25 checksum used to protect
// Illyria's on-wire frames.
//
// Parameters: polynomial 0x1021, initial value 0xFFFF, reflected input,
// reflected output, final XOR 0xFFFF. This is the CRC-16/IBM-SDLC
// parameterization, distinct from the CRC-16/CCITT variant used elsewhere
// in byte-stuffed link layers.
package crc16x25

// table is precomputed for the reflected polynomial 0x8408 (the bit-reversal
// of 0x1021), one entry per possible input byte.
var table = func() (t [256]uint16) {
	const poly = 0x8408
	for i := 0; i < 256; i++ {
		crc := uint16(i)
		for b := 0; b < 8; b++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}()

// Checksum returns the CRC-16/X.25 of data.
func Checksum(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = (crc >> 8) ^ table[byte(crc)^b]
	}
	return crc ^ 0xFFFF
}

// Append writes the big-endian CRC-16/X.25 of data to the end of dst and
// returns the extended slice. dst must have at least 2 bytes of spare
// capacity.
func Append(dst []byte, data []byte) []byte {
	crc := Checksum(data)
	return append(dst, byte(crc>>8), byte(crc))
}

// Verify reports whether the last two bytes of frame are the correct
// big-endian CRC-16/X.25 of the bytes preceding them. frame must contain at
// least 2 bytes.
func Verify(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	body := frame[:len(frame)-2]
	want := Checksum(body)
	got := uint16(frame[len(frame)-2])<<8 | uint16(frame[len(frame)-1])
	return want == got
}

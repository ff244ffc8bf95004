// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package crc16x25_test

import (
	"testing"

	"code.hybscloud.com/illyria/internal/crc16x25"
)

// Test vector from spec §6: I-frame payload "123", pre-CRC bytes
// 01 03 31 32 33, CRC bytes BB 86.
func TestChecksum_IFrameVector(t *testing.T) {
	body := []byte{0x01, 0x03, 0x31, 0x32, 0x33}
	got := crc16x25.Checksum(body)
	if want := uint16(0xBB86); got != want {
		t.Fatalf("Checksum=%#04x want %#04x", got, want)
	}
}

func TestChecksum_AckVector(t *testing.T) {
	body := []byte{0x02, 0x00}
	got := crc16x25.Checksum(body)
	if want := uint16(0x3CF7); got != want {
		t.Fatalf("Checksum=%#04x want %#04x", got, want)
	}
}

func TestAppendVerify_RoundTrip(t *testing.T) {
	body := []byte{0x01, 0x03, 0x31, 0x32, 0x33}
	frame := crc16x25.Append(append([]byte(nil), body...), body)
	if !crc16x25.Verify(frame) {
		t.Fatalf("Verify(%x)=false want true", frame)
	}
}

func TestVerify_CorruptedByte(t *testing.T) {
	frame := []byte{0x01, 0x03, 0x31, 0x32, 0x33, 0xBB, 0x87} // last CRC byte flipped
	if crc16x25.Verify(frame) {
		t.Fatalf("Verify returned true for corrupted frame")
	}
}

func TestVerify_TooShort(t *testing.T) {
	if crc16x25.Verify([]byte{0x01}) {
		t.Fatalf("Verify returned true for a frame shorter than 2 bytes")
	}
}

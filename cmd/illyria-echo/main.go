// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command illyria-echo is a reference host program for a Peer: it opens a
// serial device, echoes each received message back to the sender when no
// send of its own is in flight (otherwise the echo is skipped), and relays
// stdin lines as outgoing messages. It exists to demonstrate the
// main-loop contract the illyria package assumes (a host driving PollTx/
// PollRx cooperatively) against a real UART rather than an in-memory pipe.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.hybscloud.com/illyria"
	"code.hybscloud.com/illyria/codec/raw"
	"code.hybscloud.com/illyria/transport/uart"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "serial device path")
	baud    = flag.Int("baud", 115200, "serial baud rate")
	retry   = flag.Duration("retry", 500*time.Millisecond, "ARQ retransmit interval")
	bufSize = flag.Int("buf", 256, "tx/rx buffer size in bytes")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	log.Printf("Opening %s at %d baud", *device, *baud)
	port, err := uart.Open(uart.Config{Device: *device, Baud: *baud})
	if err != nil {
		log.Fatalf("failed to open serial port: %v", err)
	}
	defer port.Close()

	peer, err := illyria.New[[]byte](
		port,
		illyria.SystemClock{},
		raw.Codec{},
		make([]byte, *bufSize),
		make([]byte, *bufSize),
		illyria.WithRetryInterval(*retry),
	)
	if err != nil {
		log.Fatalf("failed to construct peer: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go readStdinLines(lines)

	log.Printf("Ready. Type a line to send it; received messages are echoed back.")
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			log.Printf("Shutting down...")
			return
		case line := <-lines:
			if peer.IsIdle() {
				if err := peer.Send([]byte(line)); err != nil {
					log.Printf("send failed: %v", err)
				}
			} else {
				log.Printf("busy, dropping input: %q", line)
			}
		case <-ticker.C:
			pollOnce(peer)
		}
	}
}

func pollOnce(peer *illyria.Peer[[]byte]) {
	if err := peer.PollTx(); err != nil {
		log.Printf("poll tx: %v", err)
	}
	v, ok, err := peer.PollRx()
	if err != nil {
		log.Printf("poll rx: %v", err)
		return
	}
	if !ok {
		return
	}
	log.Printf("received: %q", v)
	if peer.IsIdle() {
		if err := peer.Send(v); err != nil {
			log.Printf("echo send failed: %v", err)
		}
	}
}

func readStdinLines(out chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package illyria

import "time"

// pendingPolicy decides what happens when an I-frame arrives while a
// previously-received payload has not yet been picked up by the
// application. Spec §9 flags this as an explicit choice point rather than
// settling on one behavior.
type pendingPolicy uint8

const (
	// pendingOverwrite replaces the unconsumed pending message, matching
	// the source behavior spec §9 describes. Default.
	pendingOverwrite pendingPolicy = iota
	// pendingReject NACKs the new I-frame instead of overwriting the
	// pending one.
	pendingReject
)

// Options configures a Peer. See the With* functions.
type Options struct {
	RetryInterval time.Duration
	PendingPolicy pendingPolicy
}

var defaultOptions = Options{
	RetryInterval: 500 * time.Millisecond,
	PendingPolicy: pendingOverwrite,
}

// Option configures a Peer at construction time.
type Option func(*Options)

// WithRetryInterval sets the stop-and-wait retransmit timeout armed after
// each fully-emitted I-frame (spec §4.2's tx_retry_deadline).
func WithRetryInterval(d time.Duration) Option {
	return func(o *Options) { o.RetryInterval = d }
}

// WithPendingOverwrite selects the default at-most-one-pending-message
// policy: a second validated I-frame arriving before the first is picked up
// replaces it (an ACK is still sent for the new frame).
func WithPendingOverwrite() Option {
	return func(o *Options) { o.PendingPolicy = pendingOverwrite }
}

// WithPendingReject selects the alternative policy spec §9 allows: a second
// validated I-frame arriving before the first pending one is picked up is
// NACKed instead of overwriting it.
func WithPendingReject() Option {
	return func(o *Options) { o.PendingPolicy = pendingReject }
}

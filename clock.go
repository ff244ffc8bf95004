// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package illyria

import "time"

// Clock is the monotonic time source the ARQ layer uses to compute retry
// deadlines (spec §6). Resolution only needs to be finer than the retry
// interval supplied at construction.
type Clock interface {
	Now() Instant
}

// Instant is an opaque point in time with the two operations the ARQ layer
// needs: advancing by a duration, and ordering against another Instant.
type Instant interface {
	Add(d time.Duration) Instant
	Before(other Instant) bool
}

// SystemClock is a Clock backed by time.Now, suitable for any host that
// isn't simulating time in tests.
type SystemClock struct{}

func (SystemClock) Now() Instant { return systemInstant(time.Now()) }

type systemInstant time.Time

func (i systemInstant) Add(d time.Duration) Instant {
	return systemInstant(time.Time(i).Add(d))
}

func (i systemInstant) Before(other Instant) bool {
	o, ok := other.(systemInstant)
	if !ok {
		return false
	}
	return time.Time(i).Before(time.Time(o))
}

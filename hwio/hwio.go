// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hwio gives 32-bit access to a memory mapped register
// window.
package hwio

import (
	"fmt"
	"time"
)

// Io is one register window. Offsets are byte offsets from the start
// of the window. Delay covers the settle times hardware sequences
// call for; a mock records it instead of sleeping.
type Io interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
	Delay(d time.Duration)
}

// ClrSet clears then sets bits of one register. The write is skipped
// when the register already holds the new value, so repeated
// programming of an already-configured block touches nothing.
func ClrSet(io Io, off, clr, set uint32) {
	v := io.Read32(off)
	if n := v&^clr | set; n != v {
		io.Write32(off, n)
	}
}

// napTime paces status polls; hardware flips lock/ready bits within
// a few hundred microseconds.
const napTime = 100 * time.Microsecond

// WaitTimeout polls until poll returns true or the budget runs out.
func WaitTimeout(poll func() bool, budget time.Duration) error {
	start := time.Now()
	for !poll() {
		if time.Since(start) > budget {
			return fmt.Errorf("not ready after %v", budget)
		}
		time.Sleep(napTime)
	}
	return nil
}

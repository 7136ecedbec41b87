// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clk is a small clock tree framework: named nodes with
// reference counted enables, cached rates and a registry tying them
// together.
package clk

import (
	"errors"
	"fmt"
)

var (
	// ErrRange rejects a rate outside a clock's output window.
	ErrRange = errors.New("rate out of range")

	// ErrHardware reports a lock or ready wait that expired.
	ErrHardware = errors.New("hardware not ready")

	// ErrNoParent reports a mux index with no registered source.
	ErrNoParent = errors.New("no such parent")
)

// Flags adjust per-clock behavior.
type Flags uint

const (
	// Critical clocks are enabled at registration and never disabled.
	Critical Flags = 1 << iota

	// SetRateGate gaps the output around a rate change: the gate
	// closes, the new rate stages, and the re-enable commits it.
	SetRateGate

	// SetRateParent forwards rate requests to the parent clock.
	SetRateParent
)

// Ops is the minimum every clock implements. GetRate derives the rate
// from the parent rate; Enable and Disable touch the gate, if any.
type Ops interface {
	Enable(parent uint64) error
	Disable()
	Enabled() bool
	GetRate(parent uint64) uint64
}

// RateSetter clocks accept new rates. Set stages or commits a rate
// previously vetted by Round, depending on enable state and flags.
type RateSetter interface {
	Round(parent, rate uint64) (uint64, error)
	Set(parent, rate uint64, enabled bool) error
}

// Muxed clocks select among parents.
type Muxed interface {
	Parent() int
	SetParent(index int, parentRate uint64) error
	NumParents() int
}

// SafeDivider marks the one divider that must park at its largest
// ratio while its parent PLL moves, then restore.
type SafeDivider interface {
	Park() (restore func(), err error)
}

// Range is an allowed frequency window, inclusive.
type Range struct {
	Min, Max uint64
}

func (r Range) Contains(hz uint64) bool {
	return hz >= r.Min && (r.Max == 0 || hz <= r.Max)
}

func (r Range) Check(hz uint64) error {
	if !r.Contains(hz) {
		return fmt.Errorf("%w: %d hz not in [%d, %d]",
			ErrRange, hz, r.Min, r.Max)
	}
	return nil
}

// DivRound divides to nearest, matching the reference firmware's
// rounding of divider and multiplier choices.
func DivRound(a, b uint64) uint64 {
	return (a + b/2) / b
}

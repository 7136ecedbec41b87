// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package osc drives the clock tree roots: the fixed-rate inputs, the
// internal RC oscillator, the main crystal oscillator and the main
// clock selector between them. The oscillator control register takes
// effect only with its write key, which pmc supplies.
package osc

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// Fixed is a rate with no hardware behind it: crystals and the
// slow clock input.
type Fixed uint64

func (f Fixed) Enable(parent uint64) error   { return nil }
func (f Fixed) Disable()                     {}
func (f Fixed) Enabled() bool                { return true }
func (f Fixed) GetRate(parent uint64) uint64 { return uint64(f) }

// RC is the internal RC oscillator.
type RC struct {
	Regs *pmc.Regs
	Rate uint64
}

func (o *RC) Enable(parent uint64) error {
	r := o.Regs
	if o.Enabled() {
		return nil
	}
	r.MorClrSet(0, pmc.MorMoscrcen)
	if err := r.WaitSr(pmc.SrMoscrcs); err != nil {
		return fmt.Errorf("%w: rc osc: %v", clk.ErrHardware, err)
	}
	return nil
}

func (o *RC) Disable() {
	o.Regs.MorClrSet(pmc.MorMoscrcen, 0)
}

func (o *RC) Enabled() bool {
	return o.Regs.Read32(pmc.Mor)&pmc.MorMoscrcen != 0
}

func (o *RC) GetRate(parent uint64) uint64 { return o.Rate }

// Xtal is the main crystal oscillator. Bypass mode feeds an external
// clock through the xin pad instead of driving the crystal.
type Xtal struct {
	Regs   *pmc.Regs
	Rate   uint64
	Bypass bool
}

func (o *Xtal) Enable(parent uint64) error {
	r := o.Regs
	if o.Bypass {
		r.MorClrSet(pmc.MorMoscxten, pmc.MorMoscxtby)
		return nil
	}
	if o.Enabled() {
		return nil
	}
	r.MorClrSet(pmc.MorMoscxtby, pmc.MorMoscxten)
	if err := r.WaitSr(pmc.SrMoscxts); err != nil {
		return fmt.Errorf("%w: main xtal: %v", clk.ErrHardware, err)
	}
	return nil
}

func (o *Xtal) Disable() {
	o.Regs.MorClrSet(pmc.MorMoscxten|pmc.MorMoscxtby, 0)
}

func (o *Xtal) Enabled() bool {
	return o.Regs.Read32(pmc.Mor)&(pmc.MorMoscxten|pmc.MorMoscxtby) != 0
}

func (o *Xtal) GetRate(parent uint64) uint64 { return o.Rate }

// MainCk selects the main clock source: index 0 the RC oscillator,
// index 1 the crystal.
type MainCk struct {
	Regs *pmc.Regs
}

func (o *MainCk) Enable(parent uint64) error   { return nil }
func (o *MainCk) Disable()                     {}
func (o *MainCk) Enabled() bool                { return true }
func (o *MainCk) GetRate(parent uint64) uint64 { return parent }

func (o *MainCk) Parent() int {
	if o.Regs.Read32(pmc.Mor)&pmc.MorMoscsel != 0 {
		return 1
	}
	return 0
}

func (o *MainCk) NumParents() int { return 2 }

func (o *MainCk) SetParent(index int, parentRate uint64) error {
	r := o.Regs
	switch index {
	case 0:
		r.MorClrSet(pmc.MorMoscsel, 0)
	case 1:
		r.MorClrSet(0, pmc.MorMoscsel)
	default:
		return fmt.Errorf("mainck: %w: %d", clk.ErrNoParent, index)
	}
	if err := r.WaitSr(pmc.SrMoscsels); err != nil {
		return fmt.Errorf("%w: mainck select: %v", clk.ErrHardware, err)
	}
	return nil
}

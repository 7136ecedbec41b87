// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// Frac is a fractional PLL: output = parent * (mul+1 + frac/2^22).
// Rate changes stage in memory; hardware commit happens on Enable, so
// the framework gaps the output around a change.
type Frac struct {
	Core
	mul  uint32 // hardware encoding, multiplier less one
	frac uint32
	on   bool
}

// computeMulFrac finds the multiplier and 22-bit fraction producing
// the closest achievable rate to rate, returning that rate. The
// fractional refinement can push the achieved rate past the window
// edge; such a rate is rejected even when the request itself was in
// range, keeping the achieved-rate bound strict.
func (f *Frac) computeMulFrac(parent, rate uint64, update bool) (uint64, error) {
	if err := f.Charac.CoreOutput.Check(rate); err != nil {
		return 0, err
	}
	nmul := rate / parent
	if nmul == 0 {
		// mul encodes as value-1; below-parent rates have no
		// encoding. The window check catches this on real
		// characteristics, this guards pathological ones.
		return 0, fmt.Errorf("%w: %d hz below parent %d hz",
			clk.ErrRange, rate, parent)
	}
	achieved := nmul * parent
	var nfrac uint64
	if rem := rate - achieved; rem != 0 {
		nfrac = clk.DivRound(rem<<fracBits, parent)
		if nfrac >= 1<<fracBits {
			// Rounded up to the next whole multiple.
			nmul, nfrac = nmul+1, 0
		}
		achieved = nmul*parent + clk.DivRound(nfrac*parent, 1<<fracBits)
	}
	if err := f.Charac.CoreOutput.Check(achieved); err != nil {
		return 0, err
	}
	if update {
		f.mul = uint32(nmul - 1)
		f.frac = uint32(nfrac)
	}
	return achieved, nil
}

// apply programs the staged multiplier and fraction and powers the
// PLL. With force clear, a locked PLL already running the staged
// values is left untouched.
func (f *Frac) apply(force bool) error {
	var err error
	f.Regs.Seq(func() { err = f.applyLocked(force) })
	return err
}

func (f *Frac) applyLocked(force bool) error {
	r, l := f.Regs, f.Layout
	r.LatchPll(f.ID)
	c1 := r.Read32(pmc.PllCtrl1)
	same := (c1&l.MulMask)>>l.MulShift == f.mul &&
		(c1&l.FracMask)>>l.FracShift == f.frac
	if !force && same && r.PllLocked(f.ID) {
		f.on = true
		return nil
	}
	if !same || !force {
		r.Write32(pmc.PllAcr, f.acrDefault())
		r.ClrSet(pmc.PllCtrl1, l.MulMask|l.FracMask,
			f.mul<<l.MulShift|f.frac<<l.FracShift)
	}
	if f.Charac.Upll {
		// Bandgap first, then the regulator, each with its own
		// settle time.
		acr := r.Read32(pmc.PllAcr)
		r.Write32(pmc.PllAcr, acr|pmc.AcrUtmiBg)
		r.Delay(settleDelay)
		r.Write32(pmc.PllAcr, acr|pmc.AcrUtmiBg|pmc.AcrUtmiVr)
		r.Delay(settleDelay)
	}
	r.CommitPll(f.ID)
	r.ClrSet(pmc.PllCtrl0, 0, pmc.Ctrl0Enlock|pmc.Ctrl0Enpll)
	// The trigger must be reasserted after the CTRL0 write, not
	// folded into it.
	r.CommitPll(f.ID)
	if err := r.WaitPllLock(f.ID); err != nil {
		return fmt.Errorf("%w: pll %d lock: %v",
			clk.ErrHardware, f.ID, err)
	}
	f.on = true
	return nil
}

func (f *Frac) Enable(parent uint64) error { return f.apply(false) }

func (f *Frac) Disable() {
	r := f.Regs
	r.Seq(func() {
		r.LatchPll(f.ID)
		r.ClrSet(pmc.PllCtrl0, pmc.Ctrl0Enpll, 0)
		if f.Charac.Upll {
			r.ClrSet(pmc.PllAcr, pmc.AcrUtmiBg|pmc.AcrUtmiVr, 0)
		}
		r.CommitPll(f.ID)
	})
	f.on = false
}

func (f *Frac) Enabled() bool { return f.on }

func (f *Frac) GetRate(parent uint64) uint64 {
	if parent == 0 {
		return 0
	}
	rate := parent*uint64(f.mul+1) +
		clk.DivRound(parent*uint64(f.frac), 1<<fracBits)
	if f.Layout.Div2 {
		rate >>= 1
	}
	return rate
}

func (f *Frac) Round(parent, rate uint64) (uint64, error) {
	return f.computeMulFrac(parent, rate, false)
}

// Set stages the new multiplier and fraction. Hardware picks them up
// on the next Enable.
func (f *Frac) Set(parent, rate uint64, enabled bool) error {
	_, err := f.computeMulFrac(parent, rate, true)
	return err
}

// FracChg is a Frac whose rate changes commit in place, without
// gapping the output. Explicit rate requests always run the hardware
// sequence, skipping the locked-and-matching short circuit.
type FracChg struct {
	Frac
}

func (f *FracChg) Set(parent, rate uint64, enabled bool) error {
	if _, err := f.computeMulFrac(parent, rate, true); err != nil {
		return err
	}
	return f.apply(true)
}

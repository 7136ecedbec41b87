// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// Div is a PLL post divider: output = parent / (div+1).
type Div struct {
	Core
	div uint32 // hardware encoding, ratio less one
	on  bool
	chg bool // rate changes commit in place

	// safeDiv, when nonzero, is the raw divider this node parks at
	// while its parent PLL moves. At most one divider in the tree
	// carries it.
	safeDiv uint32
}

// maxRatio is the largest effective division the field encodes.
func (d *Div) maxRatio() uint64 {
	return uint64(d.Layout.DivMask >> d.Layout.DivShift)
}

func (d *Div) ratioFor(parent, rate uint64) (uint64, error) {
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	if ratio > d.maxRatio() {
		return 0, fmt.Errorf("%w: %d/%d needs divider %d, max %d",
			clk.ErrRange, parent, rate, ratio, d.maxRatio())
	}
	return ratio, nil
}

// setDiv programs raw divider div and opens the divider gate,
// leaving an already-matching enabled divider untouched.
func (d *Div) setDiv(div uint32) error {
	var err error
	d.Regs.Seq(func() { err = d.setDivLocked(div) })
	return err
}

func (d *Div) setDivLocked(div uint32) error {
	r, l := d.Regs, d.Layout
	r.LatchPll(d.ID)
	c0 := r.Read32(pmc.PllCtrl0)
	if c0&l.Endiv != 0 && (c0&l.DivMask)>>l.DivShift == div {
		d.div = div
		d.on = true
		return nil
	}
	// Divider field and enable go in one write; a partial field
	// would transiently assert a wrong ratio.
	r.ClrSet(pmc.PllCtrl0, l.DivMask|l.Endiv, div<<l.DivShift|l.Endiv)
	r.CommitPll(d.ID)
	if err := r.WaitPllLock(d.ID); err != nil {
		return fmt.Errorf("%w: pll %d lock: %v",
			clk.ErrHardware, d.ID, err)
	}
	d.div = div
	d.on = true
	return nil
}

func (d *Div) Enable(parent uint64) error { return d.setDiv(d.div) }

func (d *Div) Disable() {
	r := d.Regs
	r.Seq(func() {
		r.LatchPll(d.ID)
		r.ClrSet(pmc.PllCtrl0, d.Layout.Endiv, 0)
		r.CommitPll(d.ID)
	})
	d.on = false
}

func (d *Div) Enabled() bool { return d.on }

func (d *Div) GetRate(parent uint64) uint64 {
	return clk.DivRound(parent, uint64(d.div)+1)
}

func (d *Div) Round(parent, rate uint64) (uint64, error) {
	ratio, err := d.ratioFor(parent, rate)
	if err != nil {
		return 0, err
	}
	return clk.DivRound(parent, ratio), nil
}

// Set reprograms the divider. Only a change-in-place divider commits
// while enabled; otherwise the value stages for the next Enable.
func (d *Div) Set(parent, rate uint64, enabled bool) error {
	ratio, err := d.ratioFor(parent, rate)
	if err != nil {
		return err
	}
	if enabled && d.chg {
		return d.setDiv(uint32(ratio - 1))
	}
	d.div = uint32(ratio - 1)
	return nil
}

// Park forces the safe ratio ahead of a parent PLL rate change and
// hands back the restore of the computed divider.
func (d *Div) Park() (func(), error) {
	if d.safeDiv == 0 {
		return nil, fmt.Errorf("pll %d: no safe divider", d.ID)
	}
	old := d.div
	if err := d.setDiv(d.safeDiv); err != nil {
		return nil, err
	}
	return func() { d.setDiv(old) }, nil
}

// FixedDiv is the degenerate divide-by-two output. The ratio is wired
// in silicon; only the gate is programmable.
type FixedDiv struct {
	Core
	on bool
}

func (d *FixedDiv) Enable(parent uint64) error {
	var err error
	r := d.Regs
	r.Seq(func() {
		r.LatchPll(d.ID)
		if r.Read32(pmc.PllCtrl0)&d.Layout.Endiv != 0 {
			d.on = true
			return
		}
		r.ClrSet(pmc.PllCtrl0, 0, d.Layout.Endiv)
		r.CommitPll(d.ID)
		if e := r.WaitPllLock(d.ID); e != nil {
			err = fmt.Errorf("%w: pll %d lock: %v",
				clk.ErrHardware, d.ID, e)
			return
		}
		d.on = true
	})
	return err
}

func (d *FixedDiv) Disable() {
	r := d.Regs
	r.Seq(func() {
		r.LatchPll(d.ID)
		r.ClrSet(pmc.PllCtrl0, d.Layout.Endiv, 0)
		r.CommitPll(d.ID)
	})
	d.on = false
}

func (d *FixedDiv) Enabled() bool { return d.on }

func (d *FixedDiv) GetRate(parent uint64) uint64 { return parent >> 1 }

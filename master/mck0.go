// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package master

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// Mck0Layout locates the prescaler and divider fields in MCKR for
// master clock 0, which predates the MCR id latch.
type Mck0Layout struct {
	CssMask   uint32
	PresShift uint32
	PresMask  uint32
	DivShift  uint32
	DivMask   uint32
}

// Pres is mck0's source mux and power-of-two prescaler.
type Pres struct {
	Regs   *pmc.Regs
	Layout *Mck0Layout
	pres   uint32
	parent int
}

// NewPres reads back the bootloader's source and prescaler.
func NewPres(regs *pmc.Regs, lay *Mck0Layout) *Pres {
	p := &Pres{Regs: regs, Layout: lay}
	v := regs.Read32(pmc.Mckr)
	p.pres = (v >> lay.PresShift) & lay.PresMask
	p.parent = int(v & lay.CssMask)
	return p
}

func (p *Pres) Parent() int     { return p.parent }
func (p *Pres) NumParents() int { return int(p.Layout.CssMask) + 1 }

// SetParent reclocks mck0; the CSS encoding is the mux index itself.
func (p *Pres) SetParent(index int, parentRate uint64) error {
	if index < 0 || uint32(index) > p.Layout.CssMask {
		return fmt.Errorf("mck0: %w: %d", clk.ErrNoParent, index)
	}
	var werr error
	r := p.Regs
	r.Seq(func() {
		r.ClrSet(pmc.Mckr, p.Layout.CssMask, uint32(index))
		if e := r.WaitSr(pmc.SrMckrdy); e != nil {
			werr = fmt.Errorf("%w: mck0 css: %v", clk.ErrHardware, e)
			return
		}
		p.parent = index
	})
	return werr
}

func (p *Pres) Enable(parent uint64) error { return nil }
func (p *Pres) Disable()                   {}
func (p *Pres) Enabled() bool              { return true }

func (p *Pres) GetRate(parent uint64) uint64 {
	if p.pres == div3Code {
		return clk.DivRound(parent, 3)
	}
	return parent >> p.pres
}

func (p *Pres) Round(parent, rate uint64) (uint64, error) {
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	pres, err := encode(ratio)
	if err != nil {
		return 0, err
	}
	if pres == div3Code {
		return clk.DivRound(parent, 3), nil
	}
	return parent >> pres, nil
}

func (p *Pres) Set(parent, rate uint64, enabled bool) error {
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	pres, err := encode(ratio)
	if err != nil {
		return err
	}
	var werr error
	r := p.Regs
	r.Seq(func() {
		r.ClrSet(pmc.Mckr, p.Layout.PresMask<<p.Layout.PresShift,
			pres<<p.Layout.PresShift)
		if e := r.WaitSr(pmc.SrMckrdy); e != nil {
			werr = fmt.Errorf("%w: mck0 pres: %v", clk.ErrHardware, e)
			return
		}
		p.pres = pres
	})
	return werr
}

// mck0Divisors maps the divider field to its ratio; code 3 divides by
// three, not eight.
var mck0Divisors = [...]uint64{1, 2, 4, 3}

// Div0 is mck0's final divider.
type Div0 struct {
	Regs   *pmc.Regs
	Layout *Mck0Layout
	div    uint32
}

func NewDiv0(regs *pmc.Regs, lay *Mck0Layout) *Div0 {
	d := &Div0{Regs: regs, Layout: lay}
	d.div = (regs.Read32(pmc.Mckr) >> lay.DivShift) & lay.DivMask
	return d
}

func (d *Div0) Enable(parent uint64) error { return nil }
func (d *Div0) Disable()                   {}
func (d *Div0) Enabled() bool              { return true }

func (d *Div0) GetRate(parent uint64) uint64 {
	return clk.DivRound(parent, mck0Divisors[d.div&3])
}

func (d *Div0) Round(parent, rate uint64) (uint64, error) {
	_, achieved, err := d.pick(parent, rate)
	return achieved, err
}

// pick selects the divisor whose output lands closest to rate.
func (d *Div0) pick(parent, rate uint64) (uint32, uint64, error) {
	if rate == 0 {
		return 0, 0, fmt.Errorf("%w: zero rate", clk.ErrRange)
	}
	best, bestDiff := -1, uint64(0)
	for i, div := range mck0Divisors {
		out := clk.DivRound(parent, div)
		diff := out - rate
		if out < rate {
			diff = rate - out
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return uint32(best), clk.DivRound(parent, mck0Divisors[best]), nil
}

func (d *Div0) Set(parent, rate uint64, enabled bool) error {
	div, _, err := d.pick(parent, rate)
	if err != nil {
		return err
	}
	var werr error
	r := d.Regs
	r.Seq(func() {
		r.ClrSet(pmc.Mckr, d.Layout.DivMask<<d.Layout.DivShift,
			div<<d.Layout.DivShift)
		if e := r.WaitSr(pmc.SrMckrdy); e != nil {
			werr = fmt.Errorf("%w: mck0 div: %v", clk.ErrHardware, e)
			return
		}
		d.div = div
	})
	return werr
}

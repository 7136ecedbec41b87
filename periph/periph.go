// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package periph drives the PCR-controlled clocks: per-peripheral
// bus clock gates and the generic clocks with their own mux and
// divider. PCR is id-latched by peripheral id the same way the PLL
// block is latched by UPDT, so sequences run under the block lock.
package periph

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// Periph is one peripheral's bus clock gate.
type Periph struct {
	Regs *pmc.Regs
	PID  uint8
	on   bool
}

// New reads back the gate the bootloader left for pid.
func New(regs *pmc.Regs, pid uint8) *Periph {
	p := &Periph{Regs: regs, PID: pid}
	regs.Seq(func() {
		regs.Write32(pmc.Pcr, uint32(pid))
		p.on = regs.Read32(pmc.Pcr)&pmc.PcrEn != 0
	})
	return p
}

func (p *Periph) set(on bool) {
	r := p.Regs
	r.Seq(func() {
		r.Write32(pmc.Pcr, uint32(p.PID))
		var en uint32
		if on {
			en = pmc.PcrEn
		}
		r.ClrSet(pmc.Pcr, pmc.PcrEn|pmc.PcrCmd|pmc.PcrPidMask,
			en|pmc.PcrCmd|uint32(p.PID))
	})
	p.on = on
}

func (p *Periph) Enable(parent uint64) error   { p.set(true); return nil }
func (p *Periph) Disable()                     { p.set(false) }
func (p *Periph) Enabled() bool                { return p.on }
func (p *Periph) GetRate(parent uint64) uint64 { return parent }

// Generated is one peripheral's generic clock: a mux over the PLL and
// oscillator outputs plus an 8-bit divider, all in PCR.
type Generated struct {
	Regs  *pmc.Regs
	PID   uint8
	Mux   []uint8 // logical parent index to GCKCSS encoding
	Range clk.Range

	parent int
	div    uint32 // ratio less one
	on     bool
}

func NewGenerated(regs *pmc.Regs, pid uint8, mux []uint8) *Generated {
	g := &Generated{Regs: regs, PID: pid, Mux: mux}
	regs.Seq(func() {
		regs.Write32(pmc.Pcr, uint32(pid))
		v := regs.Read32(pmc.Pcr)
		g.div = (v >> pmc.PcrGckdivShift) & pmc.PcrGckdivMask
		g.on = v&pmc.PcrGcken != 0
		css := uint8((v >> pmc.PcrGckcssShift) & pmc.PcrGckcssMask)
		for i, enc := range mux {
			if enc == css {
				g.parent = i
				break
			}
		}
	})
	return g
}

func (g *Generated) set(parent int, div uint32, on bool) {
	r := g.Regs
	r.Seq(func() {
		r.Write32(pmc.Pcr, uint32(g.PID))
		var en uint32
		if on {
			en = pmc.PcrGcken
		}
		r.ClrSet(pmc.Pcr,
			pmc.PcrGcken|pmc.PcrCmd|pmc.PcrPidMask|
				(pmc.PcrGckcssMask<<pmc.PcrGckcssShift)|
				(pmc.PcrGckdivMask<<pmc.PcrGckdivShift),
			en|pmc.PcrCmd|uint32(g.PID)|
				uint32(g.Mux[parent])<<pmc.PcrGckcssShift|
				div<<pmc.PcrGckdivShift)
	})
	g.parent, g.div, g.on = parent, div, on
}

func (g *Generated) Enable(parent uint64) error {
	g.set(g.parent, g.div, true)
	return nil
}

func (g *Generated) Disable()      { g.set(g.parent, g.div, false) }
func (g *Generated) Enabled() bool { return g.on }

func (g *Generated) GetRate(parent uint64) uint64 {
	return clk.DivRound(parent, uint64(g.div)+1)
}

func (g *Generated) ratioFor(parent, rate uint64) (uint64, error) {
	if err := g.Range.Check(rate); err != nil {
		return 0, fmt.Errorf("gck %d: %w", g.PID, err)
	}
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	if ratio > pmc.PcrGckdivMask+1 {
		return 0, fmt.Errorf("%w: gck %d needs divider %d, max %d",
			clk.ErrRange, g.PID, ratio, pmc.PcrGckdivMask+1)
	}
	return ratio, nil
}

func (g *Generated) Round(parent, rate uint64) (uint64, error) {
	ratio, err := g.ratioFor(parent, rate)
	if err != nil {
		return 0, err
	}
	return clk.DivRound(parent, ratio), nil
}

func (g *Generated) Set(parent, rate uint64, enabled bool) error {
	ratio, err := g.ratioFor(parent, rate)
	if err != nil {
		return err
	}
	g.set(g.parent, uint32(ratio-1), g.on || enabled)
	return nil
}

func (g *Generated) Parent() int     { return g.parent }
func (g *Generated) NumParents() int { return len(g.Mux) }

func (g *Generated) SetParent(index int, parentRate uint64) error {
	if index < 0 || index >= len(g.Mux) {
		return fmt.Errorf("gck %d: %w: %d", g.PID, clk.ErrNoParent, index)
	}
	g.set(index, g.div, g.on)
	return nil
}

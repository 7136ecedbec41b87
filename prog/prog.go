// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prog drives the programmable clock outputs: a PCKR mux and
// prescaler per output, gated through the system clock enable
// registers.
package prog

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

const (
	cssMask   = 0x1f
	presMask  = 0xff
	presShift = 8
)

// Prog is one programmable clock: mux plus prescaler in PCKRx. The
// output pin gate is the matching System clock.
type Prog struct {
	Regs  *pmc.Regs
	Index uint8
	Mux   []uint8

	parent int
	pres   uint32 // ratio less one
}

func (p *Prog) reg() uint32 { return pmc.Pckr0 + 4*uint32(p.Index) }

func New(regs *pmc.Regs, index uint8, mux []uint8) *Prog {
	p := &Prog{Regs: regs, Index: index, Mux: mux}
	v := regs.Read32(p.reg())
	p.pres = (v >> presShift) & presMask
	css := uint8(v & cssMask)
	for i, enc := range mux {
		if enc == css {
			p.parent = i
			break
		}
	}
	return p
}

func (p *Prog) set(parent int, pres uint32) {
	p.Regs.ClrSet(p.reg(), cssMask|(presMask<<presShift),
		uint32(p.Mux[parent])|pres<<presShift)
	p.parent, p.pres = parent, pres
}

func (p *Prog) Enable(parent uint64) error { return nil }
func (p *Prog) Disable()                   {}
func (p *Prog) Enabled() bool              { return true }

func (p *Prog) GetRate(parent uint64) uint64 {
	return clk.DivRound(parent, uint64(p.pres)+1)
}

func (p *Prog) ratioFor(parent, rate uint64) (uint64, error) {
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	if ratio > presMask+1 {
		return 0, fmt.Errorf("%w: pck%d needs prescaler %d, max %d",
			clk.ErrRange, p.Index, ratio, presMask+1)
	}
	return ratio, nil
}

func (p *Prog) Round(parent, rate uint64) (uint64, error) {
	ratio, err := p.ratioFor(parent, rate)
	if err != nil {
		return 0, err
	}
	return clk.DivRound(parent, ratio), nil
}

func (p *Prog) Set(parent, rate uint64, enabled bool) error {
	ratio, err := p.ratioFor(parent, rate)
	if err != nil {
		return err
	}
	p.set(p.parent, uint32(ratio-1))
	return nil
}

func (p *Prog) Parent() int     { return p.parent }
func (p *Prog) NumParents() int { return len(p.Mux) }

func (p *Prog) SetParent(index int, parentRate uint64) error {
	if index < 0 || index >= len(p.Mux) {
		return fmt.Errorf("pck%d: %w: %d", p.Index, clk.ErrNoParent, index)
	}
	p.set(index, p.pres)
	return nil
}

// System is one bit of the system clock gate registers: set in SCER,
// cleared in SCDR, observed in SCSR.
type System struct {
	Regs *pmc.Regs
	Bit  uint32
}

func NewSystem(regs *pmc.Regs, bit uint32) *System {
	return &System{Regs: regs, Bit: bit}
}

func (s *System) Enable(parent uint64) error {
	s.Regs.Write32(pmc.Scer, 1<<s.Bit)
	return nil
}

func (s *System) Disable() {
	s.Regs.Write32(pmc.Scdr, 1<<s.Bit)
}

func (s *System) Enabled() bool {
	return s.Regs.Read32(pmc.Scsr)&(1<<s.Bit) != 0
}

func (s *System) GetRate(parent uint64) uint64 { return parent }

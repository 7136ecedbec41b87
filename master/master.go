// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package master drives the PMC's master clocks: per-id mux plus
// divider behind the MCR register's id latch, and the prescaler and
// divider pair feeding master clock 0.
package master

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// div3Code is the one non-power-of-two divider encoding.
const (
	div3Code = 7
	maxShift = 6
)

// Master is one mux-divider master clock. The divider encodes a
// power-of-two shift 0..6, or div3Code for divide by three.
type Master struct {
	Regs *pmc.Regs
	ID   uint8
	Mux  []uint8 // logical parent index to CSS encoding

	parent int
	div    uint32
	on     bool
}

// New reads back the mux and divider the bootloader left in MCR.
func New(regs *pmc.Regs, id uint8, mux []uint8) *Master {
	m := &Master{Regs: regs, ID: id, Mux: mux}
	regs.Seq(func() {
		regs.Write32(pmc.Mcr, uint32(id))
		v := regs.Read32(pmc.Mcr)
		m.div = (v >> pmc.McrDivShift) & pmc.McrDivMask
		m.on = v&pmc.McrEn != 0
		css := uint8((v >> pmc.McrCssShift) & pmc.McrCssMask)
		for i, enc := range mux {
			if enc == css {
				m.parent = i
				break
			}
		}
	})
	return m
}

// set rewrites this id's mux, divider and enable in one command,
// waiting for ready only when the source actually moves.
func (m *Master) set(parent int, div uint32, enable bool) error {
	var err error
	r := m.Regs
	r.Seq(func() {
		css := uint32(m.Mux[parent])
		// MCR reads return the settings of the id last written.
		r.Write32(pmc.Mcr, uint32(m.ID))
		cur := r.Read32(pmc.Mcr)
		var en uint32
		if enable {
			en = pmc.McrEn
		}
		r.ClrSet(pmc.Mcr,
			pmc.McrEn|(pmc.McrCssMask<<pmc.McrCssShift)|
				(pmc.McrDivMask<<pmc.McrDivShift)|
				pmc.McrCmd|pmc.McrIDMask,
			en|css<<pmc.McrCssShift|div<<pmc.McrDivShift|
				pmc.McrCmd|uint32(m.ID))
		if (cur>>pmc.McrCssShift)&pmc.McrCssMask != css && enable {
			if e := r.WaitMasterReady(m.ID); e != nil {
				err = fmt.Errorf("%w: mck %d: %v",
					clk.ErrHardware, m.ID, e)
				return
			}
		}
	})
	if err == nil {
		m.parent, m.div, m.on = parent, div, enable
	}
	return err
}

func (m *Master) Enable(parentRate uint64) error {
	return m.set(m.parent, m.div, true)
}

func (m *Master) Disable()      { m.set(m.parent, m.div, false) }
func (m *Master) Enabled() bool { return m.on }

func (m *Master) GetRate(parent uint64) uint64 {
	if m.div == div3Code {
		return clk.DivRound(parent, 3)
	}
	return parent >> m.div
}

// encode maps an effective ratio to the divider field: powers of two
// up to 64, and 3.
func encode(ratio uint64) (uint32, error) {
	if ratio == 3 {
		return div3Code, nil
	}
	for shift := uint32(0); shift <= maxShift; shift++ {
		if ratio == 1<<shift {
			return shift, nil
		}
	}
	return 0, fmt.Errorf("%w: divider %d not encodable", clk.ErrRange, ratio)
}

func (m *Master) Round(parent, rate uint64) (uint64, error) {
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	div, err := encode(ratio)
	if err != nil {
		return 0, err
	}
	if div == div3Code {
		return clk.DivRound(parent, 3), nil
	}
	return parent >> div, nil
}

func (m *Master) Set(parent, rate uint64, enabled bool) error {
	ratio := clk.DivRound(parent, rate)
	if ratio == 0 {
		ratio = 1
	}
	div, err := encode(ratio)
	if err != nil {
		return err
	}
	return m.set(m.parent, div, m.on || enabled)
}

func (m *Master) Parent() int     { return m.parent }
func (m *Master) NumParents() int { return len(m.Mux) }

func (m *Master) SetParent(index int, parentRate uint64) error {
	if index < 0 || index >= len(m.Mux) {
		return fmt.Errorf("mck %d: %w: %d", m.ID, clk.ErrNoParent, index)
	}
	return m.set(index, m.div, m.on)
}

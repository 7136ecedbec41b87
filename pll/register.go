// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pll

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// FracConfig registers one fractional PLL node.
type FracConfig struct {
	Name   string
	Parent string
	ID     uint8
	Charac *Charac
	Layout *Layout
	Flags  clk.Flags
	Chg    bool // rate changes commit in place
}

// RegisterFrac adds a fractional PLL to reg, adopting whatever the
// bootloader programmed when the PLL is locked, else staging the
// lowest characterized rate so no child ever sees an undefined
// frequency.
func RegisterFrac(reg *clk.Registry, reg2 *pmc.Regs, c FracConfig) (*clk.Node, error) {
	f := &Frac{Core: Core{Regs: reg2, ID: c.ID, Charac: c.Charac, Layout: c.Layout}}
	reg2.Seq(func() {
		reg2.LatchPll(c.ID)
		c1 := reg2.Read32(pmc.PllCtrl1)
		f.mul = (c1 & c.Layout.MulMask) >> c.Layout.MulShift
		f.frac = (c1 & c.Layout.FracMask) >> c.Layout.FracShift
		f.on = reg2.Read32(pmc.PllCtrl0)&pmc.Ctrl0Enpll != 0
	})
	if !reg2.PllLocked(c.ID) {
		p := reg.Get(c.Parent)
		if p == nil {
			return nil, fmt.Errorf("pll %s: parent %s not registered",
				c.Name, c.Parent)
		}
		prate := p.Rate()
		if prate == 0 {
			return nil, fmt.Errorf("pll %s: parent %s has no rate",
				c.Name, c.Parent)
		}
		if _, err := f.computeMulFrac(prate, c.Charac.CoreOutput.Min, true); err != nil {
			return nil, fmt.Errorf("pll %s: %w", c.Name, err)
		}
		f.on = false
	}
	var ops clk.Ops = f
	if c.Chg {
		ops = &FracChg{Frac: *f}
	}
	return reg.Add(c.Name, ops, c.Flags, c.Parent)
}

// DivConfig registers one PLL post-divider node.
type DivConfig struct {
	Name   string
	Parent string
	ID     uint8
	Charac *Charac
	Layout *Layout
	Flags  clk.Flags
	Chg    bool

	// SafeDiv, when nonzero, nominates this node as the tree's one
	// parked-while-parent-moves divider.
	SafeDiv uint32
}

// RegisterDiv adds a post divider, reading back the bootloader's
// ratio when the divider gate is open, else staging the ratio for the
// lowest characterized output.
func RegisterDiv(reg *clk.Registry, reg2 *pmc.Regs, c DivConfig) (*clk.Node, error) {
	d := &Div{
		Core:    Core{Regs: reg2, ID: c.ID, Charac: c.Charac, Layout: c.Layout},
		chg:     c.Chg,
		safeDiv: c.SafeDiv,
	}
	// The parked value must fit the divider field.
	if max := uint32(c.Layout.DivMask >> c.Layout.DivShift); d.safeDiv > max {
		d.safeDiv = max
	}
	var c0 uint32
	reg2.Seq(func() {
		reg2.LatchPll(c.ID)
		c0 = reg2.Read32(pmc.PllCtrl0)
	})
	if c0&c.Layout.Endiv != 0 {
		d.div = (c0 & c.Layout.DivMask) >> c.Layout.DivShift
		d.on = true
	} else {
		p := reg.Get(c.Parent)
		if p == nil {
			return nil, fmt.Errorf("pll %s: parent %s not registered",
				c.Name, c.Parent)
		}
		prate := p.Rate()
		if prate == 0 {
			return nil, fmt.Errorf("pll %s: parent %s has no rate",
				c.Name, c.Parent)
		}
		// Deepest encodable division when even the window floor
		// is out of reach.
		ratio := clk.DivRound(prate, c.Charac.Output.Min)
		if ratio == 0 {
			ratio = 1
		}
		if max := d.maxRatio(); ratio > max {
			ratio = max
		}
		d.div = uint32(ratio - 1)
	}
	n, err := reg.Add(c.Name, d, c.Flags, c.Parent)
	if err != nil {
		return nil, err
	}
	if c.SafeDiv != 0 {
		if err := reg.SetSafeDiv(n, c.Parent); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// RegisterFixedDiv adds the wired divide-by-two output of a PLL.
func RegisterFixedDiv(reg *clk.Registry, reg2 *pmc.Regs, name, parent string,
	id uint8, ch *Charac, lay *Layout, flags clk.Flags) (*clk.Node, error) {
	d := &FixedDiv{Core: Core{Regs: reg2, ID: id, Charac: ch, Layout: lay}}
	reg2.Seq(func() {
		reg2.LatchPll(id)
		d.on = reg2.Read32(pmc.PllCtrl0)&lay.Endiv != 0
	})
	return reg.Add(name, d, flags, parent)
}

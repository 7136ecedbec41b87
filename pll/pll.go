// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pll drives the PMC's PLL family: fractional multipliers,
// post dividers and the degenerate fixed divide-by-two output.
//
// All PLLs in one block share the CTRL0/CTRL1/ACR register window;
// the UPDT id latch selects which PLL a given access addresses, and
// an update trigger bit in UPDT commits staged values into the
// analog block. Sequencing against the latch runs under pmc.Regs.Seq.
package pll

import (
	"time"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pmc"
)

// fracBits sizes the fractional multiplier field.
const fracBits = 22

// settleDelay follows each analog bias enable of a USB PLL.
const settleDelay = 10 * time.Microsecond

// Layout locates one PLL generation's control fields.
type Layout struct {
	MulMask   uint32
	MulShift  uint32
	FracMask  uint32
	FracShift uint32
	DivMask   uint32
	DivShift  uint32
	Endiv     uint32 // divider-enable bit in CTRL0
	Div2      bool   // output is the VCO halved
}

// Canonical layouts for the current PLL generation.
var (
	LayoutFrac   = Layout{MulMask: 0xff << 24, MulShift: 24, FracMask: 0x3fffff}
	LayoutDivPMC = Layout{DivMask: 0xff, Endiv: 1 << 29}
	LayoutDivIO  = Layout{DivMask: 0xff << 12, DivShift: 12, Endiv: 1 << 30}
)

// Charac is one PLL's frequency windows and analog flags, shared
// read-only by every node of that kind.
type Charac struct {
	Input      clk.Range
	CoreOutput clk.Range // fractional stage (VCO) window
	Output     clk.Range // post-divider window
	Upll       bool      // feeds a USB PHY; needs bandgap+regulator
}

// Core is the state common to every PLL node: which block, which slot
// within it, and how that slot's fields are laid out.
type Core struct {
	Regs   *pmc.Regs
	ID     uint8
	Charac *Charac
	Layout *Layout
}

func (c *Core) acrDefault() uint32 {
	if c.Charac.Upll {
		return pmc.AcrDefaultUpll
	}
	return pmc.AcrDefaultPlla
}

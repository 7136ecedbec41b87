// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sama7g5 assembles the SAMA7G5 clock tree: oscillator roots,
// seven PLL slots, the five master clocks, eight programmable
// outputs with their pad gates, and the peripheral and generic
// clocks, all over one PMC block.
package sama7g5

import (
	"fmt"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/master"
	"github.com/platinasystems/samclk/osc"
	"github.com/platinasystems/samclk/periph"
	"github.com/platinasystems/samclk/pll"
	"github.com/platinasystems/samclk/pmc"
	"github.com/platinasystems/samclk/prog"
)

// PmcBase is the PMC block's physical address.
const PmcBase = 0xe0018000

// Config carries the board inputs the device tree normally supplies.
type Config struct {
	Regs     *pmc.Regs
	MainXtal uint64 // main crystal, hz
	Bypass   bool   // external clock on xin instead of a crystal
	SlowXtal uint64 // slow clock, hz; 0 means the usual 32768
}

var mck0Layout = master.Mck0Layout{
	CssMask: 0x3, PresShift: 4, PresMask: 0x7, DivShift: 8, DivMask: 0x3,
}

// Setup registers the whole tree and returns its registry. Critical
// clocks are running when it returns; everything else is left the way
// the bootloader had it.
func Setup(cfg Config) (*clk.Registry, error) {
	r := cfg.Regs
	slow := cfg.SlowXtal
	if slow == 0 {
		slow = 32768
	}
	reg := clk.NewRegistry()

	for _, root := range []struct {
		name string
		ops  clk.Ops
	}{
		{"md_slck", osc.Fixed(slow)},
		{"td_slck", osc.Fixed(slow)},
		{"main_xtal", osc.Fixed(cfg.MainXtal)},
		{"main_rc_osc", &osc.RC{Regs: r, Rate: 12000000}},
	} {
		if _, err := reg.Add(root.name, root.ops, 0); err != nil {
			return nil, err
		}
	}
	if _, err := reg.Add("main_osc", &osc.Xtal{
		Regs: r, Rate: cfg.MainXtal, Bypass: cfg.Bypass,
	}, 0, "main_xtal"); err != nil {
		return nil, err
	}
	if _, err := reg.Add("mainck", &osc.MainCk{Regs: r}, 0,
		"main_rc_osc", "main_osc"); err != nil {
		return nil, err
	}

	for _, p := range plls {
		var err error
		if p.frac {
			_, err = pll.RegisterFrac(reg, r, pll.FracConfig{
				Name: p.name, Parent: p.parent, ID: p.id,
				Charac: p.charac, Layout: p.layout,
				Flags: p.flags, Chg: p.chg,
			})
		} else {
			_, err = pll.RegisterDiv(reg, r, pll.DivConfig{
				Name: p.name, Parent: p.parent, ID: p.id,
				Charac: p.charac, Layout: p.layout,
				Flags: p.flags, Chg: p.chg, SafeDiv: p.safeDiv,
			})
		}
		if err != nil {
			return nil, err
		}
	}

	// mck0 splits into the fclk prescaler and the final divider.
	if _, err := reg.Add("fclk", master.NewPres(r, &mck0Layout), 0,
		"md_slck", "mainck", "cpupll_divpmcck", "syspll_divpmcck"); err != nil {
		return nil, err
	}
	if _, err := reg.Add("mck0", master.NewDiv0(r, &mck0Layout),
		clk.Critical, "fclk"); err != nil {
		return nil, err
	}

	mckParents := []string{"md_slck", "td_slck", "mainck", "mck0"}
	mckCss := []uint8{0, 1, 2, 3}
	for _, m := range mcks {
		parents := append(append([]string{}, mckParents...), m.extra...)
		mux := append(append([]uint8{}, mckCss...), m.extraCss...)
		var flags clk.Flags
		if m.critical {
			flags = clk.Critical
		}
		if _, err := reg.Add(m.name, master.New(r, m.id, mux),
			flags, parents...); err != nil {
			return nil, err
		}
	}

	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("prog%d", i)
		if _, err := reg.Add(name, prog.New(r, uint8(i), progCss),
			0, progParents...); err != nil {
			return nil, err
		}
	}
	for _, s := range systems {
		if _, err := reg.Add(s.name, prog.NewSystem(r, s.bit),
			0, s.parent); err != nil {
			return nil, err
		}
	}

	for _, p := range periphs {
		if _, err := reg.Add(p.name, periph.New(r, p.pid),
			0, p.parent); err != nil {
			return nil, err
		}
	}

	gckParents := []string{"md_slck", "td_slck", "mainck"}
	gckCss := []uint8{0, 1, 2}
	for _, g := range gcks {
		parents := append(append([]string{}, gckParents...), g.pllSrcs...)
		mux := append(append([]uint8{}, gckCss...), g.pllCss...)
		gen := periph.NewGenerated(r, g.pid, mux)
		gen.Range = clk.Range{Max: g.max}
		if _, err := reg.Add(g.name, gen, 0, parents...); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

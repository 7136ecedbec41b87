// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sama7g5

import (
	"errors"
	"testing"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/hwio"
	"github.com/platinasystems/samclk/pmc"
)

// bootMock mimics a block the bootloader brought up: every PLL locked,
// master and oscillator status always ready.
func bootMock() *hwio.Mock {
	m := hwio.NewMock()
	m.OnRead = func(off, v uint32) uint32 {
		switch off {
		case pmc.PllIsr0:
			return 0xffff
		case pmc.Sr:
			return v | pmc.SrMckrdy | pmc.SrMckxrdy |
				pmc.SrMoscxts | pmc.SrMoscrcs | pmc.SrMoscsels
		}
		return v
	}
	return m
}

func testSetup(t *testing.T) (*clk.Registry, *hwio.Mock) {
	t.Helper()
	m := bootMock()
	reg, err := Setup(Config{Regs: pmc.New(m), MainXtal: 24000000})
	if err != nil {
		t.Fatal(err)
	}
	return reg, m
}

func TestSetupTree(t *testing.T) {
	reg, _ := testSetup(t)
	for _, name := range []string{
		"md_slck", "main_xtal", "mainck",
		"cpupll_fracck", "cpupll_divpmcck",
		"syspll_fracck", "syspll_divpmcck",
		"audiopll_diviock", "ethpll_divpmcck",
		"fclk", "mck0", "mck1", "mck4",
		"prog0", "prog7", "pck0", "pck7",
		"flex0_clk", "uhphs_clk",
		"adc_gclk", "tcpcb_gclk",
	} {
		if reg.Get(name) == nil {
			t.Errorf("clock %s not registered", name)
		}
	}
	if n := reg.Get("mck1"); n.ParentName() != "md_slck" {
		t.Errorf("mck1 cold parent = %q, want md_slck", n.ParentName())
	}
	if !reg.Get("cpupll_fracck").Enabled() {
		t.Error("critical cpupll_fracck not enabled")
	}
}

func TestSetupStagesColdPlls(t *testing.T) {
	reg, _ := testSetup(t)
	// The mock's dividers came up gateless, so registration staged
	// the deepest ratio toward the characterized floor.
	n := reg.Get("syspll_divpmcck")
	if rate := n.Rate(); rate == 0 {
		t.Fatal("syspll_divpmcck has no rate after setup")
	}
}

func TestSafeDivParksDuringCpuPllChange(t *testing.T) {
	reg, m := testSetup(t)
	cpu := reg.Get("cpupll_fracck")
	div := reg.Get("cpupll_divpmcck")
	ratioBefore := clk.DivRound(cpu.Rate(), div.Rate())
	if err := cpu.SetRate(800000000); err != nil {
		t.Fatal(err)
	}
	// Achieved rate is within one fractional quantization step.
	rate := cpu.Rate()
	if rate < 799999997 || rate > 800000003 {
		t.Fatalf("cpupll_fracck rate = %d, want ~800000000", rate)
	}
	// The park ratio 16 went to hardware mid-change...
	parked := false
	for _, op := range m.Ops {
		if op.Kind == 'w' && op.Off == pmc.PllCtrl0 && op.Val&0xff == 15 {
			parked = true
		}
	}
	if !parked {
		t.Fatal("safe divider never parked during parent change")
	}
	// ...and the computed ratio is back afterward.
	if got := clk.DivRound(rate, div.Rate()); got != ratioBefore {
		t.Fatalf("divider ratio %d after parent set, want %d", got, ratioBefore)
	}
	if m.WritesTo(pmc.PllCtrl1) == 0 {
		t.Fatal("rate change never touched CTRL1")
	}
}

func TestGckCeiling(t *testing.T) {
	reg, _ := testSetup(t)
	n := reg.Get("csi_gclk")
	if err := n.SetRate(30000000); !errors.Is(err, clk.ErrRange) {
		t.Fatalf("csi_gclk over-ceiling err = %v, want range error", err)
	}
	if err := n.SetRate(24000000); err != nil {
		t.Fatal(err)
	}
}

func TestPck0Gate(t *testing.T) {
	reg, m := testSetup(t)
	if err := reg.Get("pck0").Enable(); err != nil {
		t.Fatal(err)
	}
	if m.Regs[pmc.Scer]&(1<<8) == 0 {
		t.Fatalf("SCER = %#x, pck0 bit clear", m.Regs[pmc.Scer])
	}
}

func TestPeriphGatePid(t *testing.T) {
	reg, m := testSetup(t)
	if err := reg.Get("trng_clk").Enable(); err != nil {
		t.Fatal(err)
	}
	v := m.Regs[pmc.Pcr]
	if v&pmc.PcrPidMask != 97 || v&pmc.PcrEn == 0 {
		t.Fatalf("PCR = %#x after trng_clk enable", v)
	}
}

// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sama7g5

import (
	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/pll"
)

// PLL slot ids within the PMC block.
const (
	idCPU = iota
	idSys
	idDDR
	idImg
	idBaud
	idAudio
	idEth
)

// The CPU PLL tops out at 1000000002 hz; the block cannot output
// exactly 1 GHz.
var (
	cpuPllCharac = pll.Charac{
		Input:      clk.Range{Min: 12000000, Max: 50000000},
		CoreOutput: clk.Range{Min: 600000000, Max: 1200000000},
		Output:     clk.Range{Min: 2343750, Max: 1000000002},
	}
	pllCharac = pll.Charac{
		Input:      clk.Range{Min: 12000000, Max: 50000000},
		CoreOutput: clk.Range{Min: 600000000, Max: 1200000000},
		Output:     clk.Range{Min: 2343750, Max: 1200000000},
	}
)

type pllDesc struct {
	name    string
	parent  string
	id      uint8
	frac    bool
	layout  *pll.Layout
	charac  *pll.Charac
	flags   clk.Flags
	chg     bool
	safeDiv uint32
}

// The PLL pairs. Each divider's parent is its slot's fractional
// stage; a critical entry is never allowed to stop once registered.
var plls = []pllDesc{
	{name: "cpupll_fracck", parent: "mainck", id: idCPU, frac: true,
		layout: &pll.LayoutFrac, charac: &cpuPllCharac,
		flags: clk.Critical, chg: true},
	// Safe div 15 parks the output at a sixteenth of the VCO,
	// in range anywhere in its window.
	{name: "cpupll_divpmcck", parent: "cpupll_fracck", id: idCPU,
		layout: &pll.LayoutDivPMC, charac: &cpuPllCharac,
		flags: clk.Critical | clk.SetRateParent, chg: true, safeDiv: 15},

	{name: "syspll_fracck", parent: "mainck", id: idSys, frac: true,
		layout: &pll.LayoutFrac, charac: &pllCharac,
		flags: clk.Critical | clk.SetRateGate},
	{name: "syspll_divpmcck", parent: "syspll_fracck", id: idSys,
		layout: &pll.LayoutDivPMC, charac: &pllCharac,
		flags: clk.Critical | clk.SetRateGate},

	{name: "ddrpll_fracck", parent: "mainck", id: idDDR, frac: true,
		layout: &pll.LayoutFrac, charac: &pllCharac,
		flags: clk.Critical | clk.SetRateGate},
	{name: "ddrpll_divpmcck", parent: "ddrpll_fracck", id: idDDR,
		layout: &pll.LayoutDivPMC, charac: &pllCharac,
		flags: clk.Critical | clk.SetRateGate},

	{name: "imgpll_fracck", parent: "mainck", id: idImg, frac: true,
		layout: &pll.LayoutFrac, charac: &pllCharac,
		flags: clk.SetRateGate},
	{name: "imgpll_divpmcck", parent: "imgpll_fracck", id: idImg,
		layout: &pll.LayoutDivPMC, charac: &pllCharac,
		flags: clk.SetRateGate | clk.SetRateParent},

	{name: "baudpll_fracck", parent: "mainck", id: idBaud, frac: true,
		layout: &pll.LayoutFrac, charac: &pllCharac,
		flags: clk.SetRateGate},
	{name: "baudpll_divpmcck", parent: "baudpll_fracck", id: idBaud,
		layout: &pll.LayoutDivPMC, charac: &pllCharac,
		flags: clk.SetRateGate | clk.SetRateParent},

	{name: "audiopll_fracck", parent: "main_xtal", id: idAudio, frac: true,
		layout: &pll.LayoutFrac, charac: &pllCharac,
		flags: clk.SetRateGate},
	{name: "audiopll_divpmcck", parent: "audiopll_fracck", id: idAudio,
		layout: &pll.LayoutDivPMC, charac: &pllCharac,
		flags: clk.SetRateGate | clk.SetRateParent},
	{name: "audiopll_diviock", parent: "audiopll_fracck", id: idAudio,
		layout: &pll.LayoutDivIO, charac: &pllCharac,
		flags: clk.SetRateGate | clk.SetRateParent},

	{name: "ethpll_fracck", parent: "main_xtal", id: idEth, frac: true,
		layout: &pll.LayoutFrac, charac: &pllCharac,
		flags: clk.SetRateGate},
	{name: "ethpll_divpmcck", parent: "ethpll_fracck", id: idEth,
		layout: &pll.LayoutDivPMC, charac: &pllCharac,
		flags: clk.SetRateGate | clk.SetRateParent},
}

type mckDesc struct {
	name     string
	id       uint8
	extra    []string // parents past the common four
	extraCss []uint8
	critical bool
}

// Master clocks 1..4. Every mck shares the first four sources; the
// CSS encodings of the extra sources come from the mux table in the
// datasheet's available-inputs table.
var mcks = []mckDesc{
	{name: "mck1", id: 1, extra: []string{"syspll_divpmcck"},
		extraCss: []uint8{5}, critical: true},
	{name: "mck2", id: 2, extra: []string{"ddrpll_divpmcck"},
		extraCss: []uint8{6}, critical: true},
	{name: "mck3", id: 3,
		extra:    []string{"syspll_divpmcck", "ddrpll_divpmcck", "imgpll_divpmcck"},
		extraCss: []uint8{5, 6, 7}},
	{name: "mck4", id: 4, extra: []string{"syspll_divpmcck"},
		extraCss: []uint8{5}, critical: true},
}

// progParents feed every programmable clock, CSS encodings 0,1,2 then
// 5..10.
var (
	progParents = []string{
		"md_slck", "td_slck", "mainck",
		"syspll_divpmcck", "ddrpll_divpmcck", "imgpll_divpmcck",
		"baudpll_divpmcck", "audiopll_divpmcck", "ethpll_divpmcck",
	}
	progCss = []uint8{0, 1, 2, 5, 6, 7, 8, 9, 10}
)

type systemDesc struct {
	name   string
	parent string
	bit    uint32
}

// System gates for the programmable clock pads.
var systems = []systemDesc{
	{"pck0", "prog0", 8},
	{"pck1", "prog1", 9},
	{"pck2", "prog2", 10},
	{"pck3", "prog3", 11},
	{"pck4", "prog4", 12},
	{"pck5", "prog5", 13},
	{"pck6", "prog6", 14},
	{"pck7", "prog7", 15},
}

type periphDesc struct {
	name   string
	parent string
	pid    uint8
}

// Peripheral bus clock gates.
var periphs = []periphDesc{
	{"pioA_clk", "mck0", 11},
	{"securam_clk", "mck0", 18},
	{"sfr_clk", "mck1", 19},
	{"hsmc_clk", "mck1", 21},
	{"xdmac0_clk", "mck1", 22},
	{"xdmac1_clk", "mck1", 23},
	{"xdmac2_clk", "mck1", 24},
	{"acc_clk", "mck1", 25},
	{"aes_clk", "mck1", 27},
	{"tzaesbasc_clk", "mck1", 28},
	{"asrc_clk", "mck1", 30},
	{"cpkcc_clk", "mck0", 32},
	{"eic_clk", "mck1", 37},
	{"flex0_clk", "mck1", 38},
	{"flex1_clk", "mck1", 39},
	{"flex2_clk", "mck1", 40},
	{"flex3_clk", "mck1", 41},
	{"flex4_clk", "mck1", 42},
	{"flex5_clk", "mck1", 43},
	{"flex6_clk", "mck1", 44},
	{"flex7_clk", "mck1", 45},
	{"flex8_clk", "mck1", 46},
	{"flex9_clk", "mck1", 47},
	{"flex10_clk", "mck1", 48},
	{"flex11_clk", "mck1", 49},
	{"gmac0_clk", "mck1", 51},
	{"gmac1_clk", "mck1", 52},
	{"icm_clk", "mck1", 55},
	{"i2smcc0_clk", "mck1", 57},
	{"i2smcc1_clk", "mck1", 58},
	{"matrix_clk", "mck1", 60},
	{"mcan0_clk", "mck1", 61},
	{"mcan1_clk", "mck1", 62},
	{"mcan2_clk", "mck1", 63},
	{"mcan3_clk", "mck1", 64},
	{"mcan4_clk", "mck1", 65},
	{"mcan5_clk", "mck1", 66},
	{"pdmc0_clk", "mck1", 68},
	{"pdmc1_clk", "mck1", 69},
	{"pit64b0_clk", "mck1", 70},
	{"pit64b1_clk", "mck1", 71},
	{"pit64b2_clk", "mck1", 72},
	{"pit64b3_clk", "mck1", 73},
	{"pit64b4_clk", "mck1", 74},
	{"pit64b5_clk", "mck1", 75},
	{"pwm_clk", "mck1", 77},
	{"qspi0_clk", "mck1", 78},
	{"qspi1_clk", "mck1", 79},
	{"sdmmc0_clk", "mck1", 80},
	{"sdmmc1_clk", "mck1", 81},
	{"sdmmc2_clk", "mck1", 82},
	{"sha_clk", "mck1", 83},
	{"spdifrx_clk", "mck1", 84},
	{"spdiftx_clk", "mck1", 85},
	{"ssc0_clk", "mck1", 86},
	{"ssc1_clk", "mck1", 87},
	{"tcb0_ch0_clk", "mck1", 88},
	{"tcb0_ch1_clk", "mck1", 89},
	{"tcb0_ch2_clk", "mck1", 90},
	{"tcb1_ch0_clk", "mck1", 91},
	{"tcb1_ch1_clk", "mck1", 92},
	{"tcb1_ch2_clk", "mck1", 93},
	{"tcpca_clk", "mck1", 94},
	{"tcpcb_clk", "mck1", 95},
	{"tdes_clk", "mck1", 96},
	{"trng_clk", "mck1", 97},
	{"udphsa_clk", "mck1", 104},
	{"udphsb_clk", "mck1", 105},
	{"uhphs_clk", "mck1", 106},
}

type gckDesc struct {
	name    string
	pid     uint8
	max     uint64
	pllSrcs []string // PLL parents past md_slck/td_slck/mainck
	pllCss  []uint8
}

var (
	gckSysBaud     = []string{"syspll_divpmcck", "baudpll_divpmcck"}
	gckSysBaudCss  = []uint8{5, 8}
	gckSysAudio    = []string{"syspll_divpmcck", "audiopll_divpmcck"}
	gckSysAudioCss = []uint8{5, 9}
	gckTimer       = []string{"syspll_divpmcck", "imgpll_divpmcck",
		"baudpll_divpmcck", "audiopll_divpmcck", "ethpll_divpmcck"}
	gckTimerCss = []uint8{5, 7, 8, 9, 10}
)

// Generic clocks with their frequency ceilings.
var gcks = []gckDesc{
	{name: "adc_gclk", pid: 26, max: 100000000,
		pllSrcs: []string{"syspll_divpmcck", "imgpll_divpmcck", "audiopll_divpmcck"},
		pllCss:  []uint8{5, 7, 9}},
	{name: "asrc_gclk", pid: 30, max: 200000000,
		pllSrcs: []string{"audiopll_divpmcck"}, pllCss: []uint8{9}},
	{name: "csi_gclk", pid: 33, max: 27000000,
		pllSrcs: []string{"ddrpll_divpmcck", "imgpll_divpmcck"},
		pllCss:  []uint8{6, 7}},
	{name: "flex0_gclk", pid: 38, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex1_gclk", pid: 39, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex2_gclk", pid: 40, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex3_gclk", pid: 41, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex4_gclk", pid: 42, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex5_gclk", pid: 43, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex6_gclk", pid: 44, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex7_gclk", pid: 45, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex8_gclk", pid: 46, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex9_gclk", pid: 47, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex10_gclk", pid: 48, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "flex11_gclk", pid: 49, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "gmac0_gclk", pid: 51, max: 125000000,
		pllSrcs: []string{"ethpll_divpmcck"}, pllCss: []uint8{10}},
	{name: "gmac1_gclk", pid: 52, max: 50000000,
		pllSrcs: []string{"ethpll_divpmcck"}, pllCss: []uint8{10}},
	{name: "gmac0_tsu_gclk", pid: 53, max: 300000000,
		pllSrcs: []string{"audiopll_divpmcck", "ethpll_divpmcck"},
		pllCss:  []uint8{9, 10}},
	{name: "gmac1_tsu_gclk", pid: 54, max: 300000000,
		pllSrcs: []string{"audiopll_divpmcck", "ethpll_divpmcck"},
		pllCss:  []uint8{9, 10}},
	{name: "i2smcc0_gclk", pid: 57, max: 100000000, pllSrcs: gckSysAudio, pllCss: gckSysAudioCss},
	{name: "i2smcc1_gclk", pid: 58, max: 100000000, pllSrcs: gckSysAudio, pllCss: gckSysAudioCss},
	{name: "mcan0_gclk", pid: 61, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "mcan1_gclk", pid: 62, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "mcan2_gclk", pid: 63, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "mcan3_gclk", pid: 64, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "mcan4_gclk", pid: 65, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "mcan5_gclk", pid: 66, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "pdmc0_gclk", pid: 68, max: 50000000, pllSrcs: gckSysAudio, pllCss: gckSysAudioCss},
	{name: "pdmc1_gclk", pid: 69, max: 50000000, pllSrcs: gckSysAudio, pllCss: gckSysAudioCss},
	{name: "pit64b0_gclk", pid: 70, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "pit64b1_gclk", pid: 71, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "pit64b2_gclk", pid: 72, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "pit64b3_gclk", pid: 73, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "pit64b4_gclk", pid: 74, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "pit64b5_gclk", pid: 75, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "qspi0_gclk", pid: 78, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "qspi1_gclk", pid: 79, max: 200000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "sdmmc0_gclk", pid: 80, max: 208000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "sdmmc1_gclk", pid: 81, max: 208000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "sdmmc2_gclk", pid: 82, max: 208000000, pllSrcs: gckSysBaud, pllCss: gckSysBaudCss},
	{name: "spdifrx_gclk", pid: 84, max: 150000000, pllSrcs: gckSysAudio, pllCss: gckSysAudioCss},
	{name: "spdiftx_gclk", pid: 85, max: 25000000, pllSrcs: gckSysAudio, pllCss: gckSysAudioCss},
	{name: "tcb0_ch0_gclk", pid: 88, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "tcb1_ch0_gclk", pid: 91, max: 200000000, pllSrcs: gckTimer, pllCss: gckTimerCss},
	{name: "tcpca_gclk", pid: 94, max: 32768},
	{name: "tcpcb_gclk", pid: 95, max: 32768},
}

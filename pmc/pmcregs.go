// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmc

// Register byte offsets within the PMC block.
const (
	Scer     = 0x00
	Scdr     = 0x04
	Scsr     = 0x08
	PllCtrl0 = 0x0c
	PllCtrl1 = 0x10
	PllSsr   = 0x14
	PllAcr   = 0x18
	PllUpdt  = 0x1c
	Mor      = 0x20
	Mcfr     = 0x24
	Mckr     = 0x28
	Mcr      = 0x30
	PllIsr0  = 0x50
	Sr       = 0x68
	Pcr      = 0x88
	Pckr0    = 0x90
)

// PLL_CTRL0: divider field and enable bits per the PLL layout, plus
// the common enables.
const (
	Ctrl0Enpll  = 1 << 28
	Ctrl0Enlock = 1 << 31
)

// PLL_ACR analog control: recommended defaults and the UTMI bias
// enables for a PLL driving a USB PHY.
const (
	AcrUtmiVr      = 1 << 12
	AcrUtmiBg      = 1 << 13
	AcrDefaultPlla = 0x00020010
	AcrDefaultUpll = 0x12020010
)

// PLL_UPDT: id latch selecting which PLL the shared CTRL0/CTRL1/ACR
// registers address, and the trigger committing staged values.
const (
	UpdtIDMask = 0xf
	UpdtUpdate = 1 << 8
)

// MCR: master clock id latch, source select, divider and command.
const (
	McrIDMask   = 0xf
	McrCmd      = 1 << 5
	McrDivMask  = 0x7
	McrDivShift = 8
	McrCssMask  = 0x1f
	McrCssShift = 16
	McrEn       = 1 << 28
)

// MOR main oscillator control. Writes take effect only with the key.
const (
	MorMoscxten = 1 << 0
	MorMoscxtby = 1 << 1
	MorMoscrcen = 1 << 3
	MorMoscsel  = 1 << 24
	MorKeyMask  = 0xff << 16
	MorKey      = 0x37 << 16
)

// SR status bits.
const (
	SrMoscxts  = 1 << 0
	SrMckrdy   = 1 << 3
	SrMoscsels = 1 << 16
	SrMoscrcs  = 1 << 17
	SrMckxrdy  = 1 << 26
)

// PCR peripheral control: pid latch, gated peripheral enable and the
// generic clock mux+divider.
const (
	PcrPidMask     = 0x7f
	PcrGckcssMask  = 0x1f
	PcrGckcssShift = 8
	PcrGckdivMask  = 0xff
	PcrGckdivShift = 20
	PcrEn          = 1 << 28
	PcrGcken       = 1 << 29
	PcrCmd         = 1 << 31
)

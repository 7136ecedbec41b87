// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package periph

import (
	"errors"
	"testing"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/hwio"
	"github.com/platinasystems/samclk/pmc"
)

func TestPeriphGate(t *testing.T) {
	m := hwio.NewMock()
	p := New(pmc.New(m), 38)
	if p.Enabled() {
		t.Fatal("enabled from cold registers")
	}
	if err := p.Enable(0); err != nil {
		t.Fatal(err)
	}
	v := m.Regs[pmc.Pcr]
	if v&pmc.PcrEn == 0 || v&pmc.PcrCmd == 0 || v&pmc.PcrPidMask != 38 {
		t.Fatalf("PCR = %#x after enable", v)
	}
	p.Disable()
	if v := m.Regs[pmc.Pcr]; v&pmc.PcrEn != 0 {
		t.Fatalf("PCR = %#x after disable", v)
	}
}

func TestGeneratedMuxDiv(t *testing.T) {
	m := hwio.NewMock()
	g := NewGenerated(pmc.New(m), 42, []uint8{0, 9, 10})
	if err := g.Set(600000000, 3000000, true); err != nil {
		t.Fatal(err)
	}
	if rate := g.GetRate(600000000); rate != 3000000 {
		t.Fatalf("rate = %d, want 3000000", rate)
	}
	v := m.Regs[pmc.Pcr]
	if div := (v >> pmc.PcrGckdivShift) & pmc.PcrGckdivMask; div != 199 {
		t.Fatalf("gckdiv = %d, want 199", div)
	}
	if err := g.SetParent(2, 600000000); err != nil {
		t.Fatal(err)
	}
	v = m.Regs[pmc.Pcr]
	if css := (v >> pmc.PcrGckcssShift) & pmc.PcrGckcssMask; css != 10 {
		t.Fatalf("gckcss = %d, want 10", css)
	}
	if div := (v >> pmc.PcrGckdivShift) & pmc.PcrGckdivMask; div != 199 {
		t.Fatalf("gckdiv lost across setparent: %d", div)
	}
}

func TestGeneratedDivBounds(t *testing.T) {
	g := NewGenerated(pmc.New(hwio.NewMock()), 7, []uint8{0})
	if _, err := g.Round(600000000, 2343750); err != nil { // ratio 256
		t.Fatal(err)
	}
	if _, err := g.Round(600000000, 2000000); !errors.Is(err, clk.ErrRange) { // ratio 300
		t.Fatalf("err = %v, want range error", err)
	}
}

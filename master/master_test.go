// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package master

import (
	"errors"
	"testing"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/hwio"
	"github.com/platinasystems/samclk/pmc"
)

func readyMock() *hwio.Mock {
	m := hwio.NewMock()
	m.OnRead = func(off, v uint32) uint32 {
		if off == pmc.Sr {
			return v | pmc.SrMckrdy | pmc.SrMckxrdy
		}
		return v
	}
	return m
}

func TestEncode(t *testing.T) {
	for _, x := range []struct {
		ratio uint64
		div   uint32
		ok    bool
	}{
		{1, 0, true},
		{2, 1, true},
		{3, div3Code, true},
		{4, 2, true},
		{5, 0, false},
		{64, 6, true},
		{128, 0, false},
	} {
		div, err := encode(x.ratio)
		if got := err == nil; got != x.ok {
			t.Errorf("encode(%d) err = %v, want ok %v", x.ratio, err, x.ok)
			continue
		}
		if x.ok && div != x.div {
			t.Errorf("encode(%d) = %d, want %d", x.ratio, div, x.div)
		}
	}
}

func TestRoundDiv3(t *testing.T) {
	m := New(pmc.New(readyMock()), 1, []uint8{0, 9, 13})
	got, err := m.Round(600000000, 200000000)
	if err != nil {
		t.Fatal(err)
	}
	if got != 200000000 {
		t.Fatalf("Round = %d, want 200000000", got)
	}
	if _, err = m.Round(600000000, 120000000); !errors.Is(err, clk.ErrRange) {
		t.Fatalf("ratio 5 err = %v, want range error", err)
	}
}

func TestSetWaitsOnlyOnParentChange(t *testing.T) {
	mock := hwio.NewMock() // ready bits never rise
	regs := pmc.New(mock)
	regs.LockWait = 0
	m := New(regs, 1, []uint8{0, 9, 13})
	// Readback left css 0 = mux index 0; enabling with the same
	// source must not wait.
	if err := m.Enable(0); err != nil {
		t.Fatalf("divider-only enable waited for ready: %v", err)
	}
	if err := m.Set(600000000, 300000000, true); err != nil {
		t.Fatalf("divider-only set waited for ready: %v", err)
	}
	if err := m.SetParent(2, 600000000); !errors.Is(err, clk.ErrHardware) {
		t.Fatalf("parent change err = %v, want hardware fault", err)
	}
}

func TestSetParent(t *testing.T) {
	mock := readyMock()
	m := New(pmc.New(mock), 3, []uint8{0, 9, 13})
	if err := m.SetParent(1, 600000000); err != nil {
		t.Fatal(err)
	}
	if m.Parent() != 1 {
		t.Fatalf("parent = %d, want 1", m.Parent())
	}
	v := mock.Regs[pmc.Mcr]
	if css := (v >> pmc.McrCssShift) & pmc.McrCssMask; css != 9 {
		t.Fatalf("css = %d, want 9", css)
	}
	if v&pmc.McrCmd == 0 || v&pmc.McrIDMask != 3 {
		t.Fatalf("MCR = %#x missing cmd/id", v)
	}
	if err := m.SetParent(7, 600000000); !errors.Is(err, clk.ErrNoParent) {
		t.Fatalf("bad index err = %v, want no such parent", err)
	}
}

func TestMck0(t *testing.T) {
	mock := readyMock()
	regs := pmc.New(mock)
	lay := &Mck0Layout{PresShift: 4, PresMask: 0x7, DivShift: 8, DivMask: 0x3}
	mock.Regs[pmc.Mckr] = 1<<4 | 2<<8 // pres /2, div /4
	p := NewPres(regs, lay)
	d := NewDiv0(regs, lay)
	if rate := p.GetRate(1200000000); rate != 600000000 {
		t.Fatalf("pres rate = %d, want 600000000", rate)
	}
	if rate := d.GetRate(600000000); rate != 150000000 {
		t.Fatalf("div rate = %d, want 150000000", rate)
	}
	// Divide by three uses the dedicated code, not shift 3.
	if err := d.Set(600000000, 200000000, true); err != nil {
		t.Fatal(err)
	}
	if rate := d.GetRate(600000000); rate != 200000000 {
		t.Fatalf("div3 rate = %d, want 200000000", rate)
	}
	if got := (mock.Regs[pmc.Mckr] >> 8) & 0x3; got != 3 {
		t.Fatalf("div field = %d, want 3", got)
	}
}

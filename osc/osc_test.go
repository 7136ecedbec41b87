// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package osc

import (
	"errors"
	"testing"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/hwio"
	"github.com/platinasystems/samclk/pmc"
)

func statusMock(bits uint32) *hwio.Mock {
	m := hwio.NewMock()
	m.OnRead = func(off, v uint32) uint32 {
		if off == pmc.Sr {
			return v | bits
		}
		return v
	}
	return m
}

func TestXtalEnableKeyed(t *testing.T) {
	m := statusMock(pmc.SrMoscxts)
	o := &Xtal{Regs: pmc.New(m), Rate: 24000000}
	if err := o.Enable(0); err != nil {
		t.Fatal(err)
	}
	v := m.Regs[pmc.Mor]
	if v&pmc.MorKeyMask != pmc.MorKey {
		t.Fatalf("MOR = %#x written without key", v)
	}
	if v&pmc.MorMoscxten == 0 {
		t.Fatalf("MOR = %#x, oscillator not enabled", v)
	}
	if rate := o.GetRate(0); rate != 24000000 {
		t.Fatalf("rate = %d, want 24000000", rate)
	}
	// A second enable sees the MOR bit already set and leaves the
	// register alone.
	writes := m.Writes
	if err := o.Enable(0); err != nil {
		t.Fatal(err)
	}
	if m.Writes != writes {
		t.Fatalf("re-enable rewrote MOR, %d writes", m.Writes-writes)
	}
}

func TestXtalTimeout(t *testing.T) {
	m := hwio.NewMock()
	regs := pmc.New(m)
	regs.LockWait = 0
	o := &Xtal{Regs: regs, Rate: 24000000}
	if err := o.Enable(0); !errors.Is(err, clk.ErrHardware) {
		t.Fatalf("err = %v, want hardware fault", err)
	}
}

func TestMainCkSelect(t *testing.T) {
	m := statusMock(pmc.SrMoscsels)
	o := &MainCk{Regs: pmc.New(m)}
	if o.Parent() != 0 {
		t.Fatalf("cold parent = %d, want 0 (rc)", o.Parent())
	}
	if err := o.SetParent(1, 0); err != nil {
		t.Fatal(err)
	}
	if o.Parent() != 1 {
		t.Fatalf("parent = %d, want 1 (xtal)", o.Parent())
	}
	if err := o.SetParent(2, 0); !errors.Is(err, clk.ErrNoParent) {
		t.Fatalf("err = %v, want no such parent", err)
	}
}

// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clk

import "testing"

// fakeGate is a counting gate with a fixed rate for tree tests.
type fakeGate struct {
	rate    uint64
	on      bool
	enables int
}

func (g *fakeGate) Enable(parent uint64) error {
	g.on = true
	g.enables++
	return nil
}
func (g *fakeGate) Disable()      { g.on = false }
func (g *fakeGate) Enabled() bool { return g.on }
func (g *fakeGate) GetRate(parent uint64) uint64 {
	if g.rate != 0 {
		return g.rate
	}
	return parent
}

// fakeDiv divides by a settable ratio and can park at its largest.
type fakeDiv struct {
	fakeGate
	div    uint64
	parked int
}

func (d *fakeDiv) GetRate(parent uint64) uint64 { return parent / d.div }
func (d *fakeDiv) Round(parent, rate uint64) (uint64, error) {
	return rate, nil
}
func (d *fakeDiv) Set(parent, rate uint64, enabled bool) error {
	d.div = parent / rate
	return nil
}
func (d *fakeDiv) Park() (func(), error) {
	old := d.div
	d.div = 16
	d.parked++
	return func() { d.div = old }, nil
}

// fakeSetter accepts any rate and remembers it.
type fakeSetter struct {
	fakeGate
	sets int
}

func (s *fakeSetter) GetRate(parent uint64) uint64 { return s.rate }
func (s *fakeSetter) Round(parent, rate uint64) (uint64, error) {
	return rate, nil
}
func (s *fakeSetter) Set(parent, rate uint64, enabled bool) error {
	s.rate = rate
	s.sets++
	return nil
}

func TestEnableRefcount(t *testing.T) {
	r := NewRegistry()
	root := &fakeGate{rate: 24000000}
	child := &fakeGate{}
	r.MustAdd("main", root, 0)
	c := r.MustAdd("mck", child, 0, "main")
	if err := c.Enable(); err != nil {
		t.Fatal(err)
	}
	if err := c.Enable(); err != nil {
		t.Fatal(err)
	}
	if root.enables != 1 || child.enables != 1 {
		t.Fatalf("enables: root %d child %d, want 1 1",
			root.enables, child.enables)
	}
	c.Disable()
	if !root.on || !child.on {
		t.Fatal("disabled with a user left")
	}
	c.Disable()
	if root.on || child.on {
		t.Fatal("still on after last disable")
	}
	c.Disable() // extra disables are ignored
	if c.users != 0 {
		t.Fatalf("users = %d after extra disable", c.users)
	}
}

func TestCriticalNeverDisables(t *testing.T) {
	r := NewRegistry()
	g := &fakeGate{rate: 600000000}
	n := r.MustAdd("cpu", g, Critical)
	if !g.on {
		t.Fatal("critical clock not enabled at registration")
	}
	n.Disable()
	if !g.on {
		t.Fatal("critical clock disabled")
	}
}

func TestSafeDivSingleton(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("pll", &fakeSetter{fakeGate: fakeGate{rate: 1000000000}}, 0)
	d1 := r.MustAdd("div1", &fakeDiv{div: 2}, 0, "pll")
	d2 := r.MustAdd("div2", &fakeDiv{div: 4}, 0, "pll")
	if err := r.SetSafeDiv(d1, "pll"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetSafeDiv(d2, "pll"); err == nil {
		t.Fatal("second safe divider accepted")
	}
}

func TestSafeDivParksAroundSetRate(t *testing.T) {
	r := NewRegistry()
	pll := &fakeSetter{fakeGate: fakeGate{rate: 1000000000}}
	div := &fakeDiv{div: 2}
	p := r.MustAdd("pll", pll, 0)
	d := r.MustAdd("div", div, 0, "pll")
	if err := r.SetSafeDiv(d, "pll"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetRate(800000000); err != nil {
		t.Fatal(err)
	}
	if div.parked != 1 {
		t.Fatalf("parked %d times, want 1", div.parked)
	}
	if div.div != 2 {
		t.Fatalf("div = %d after restore, want 2", div.div)
	}
	// Changing an unrelated clock must not park.
	if err := d.SetRate(250000000); err != nil {
		t.Fatal(err)
	}
	if div.parked != 1 {
		t.Fatalf("parked %d times, want still 1", div.parked)
	}
}

// fakeGated records the order of gate and rate calls.
type fakeGated struct {
	fakeGate
	calls []string
}

func (g *fakeGated) Enable(parent uint64) error {
	g.calls = append(g.calls, "enable")
	return g.fakeGate.Enable(parent)
}

func (g *fakeGated) Disable() {
	g.calls = append(g.calls, "disable")
	g.fakeGate.Disable()
}

func (g *fakeGated) Round(parent, rate uint64) (uint64, error) {
	return rate, nil
}

func (g *fakeGated) Set(parent, rate uint64, enabled bool) error {
	g.calls = append(g.calls, "set")
	g.rate = rate
	return nil
}

func TestSetRateGateCycles(t *testing.T) {
	r := NewRegistry()
	g := &fakeGated{}
	n := r.MustAdd("pll", g, SetRateGate)
	if err := n.Enable(); err != nil {
		t.Fatal(err)
	}
	g.calls = nil
	if err := n.SetRate(600000000); err != nil {
		t.Fatal(err)
	}
	if len(g.calls) != 3 || g.calls[0] != "disable" ||
		g.calls[1] != "set" || g.calls[2] != "enable" {
		t.Fatalf("running gated change ran %v, want [disable set enable]",
			g.calls)
	}
	if !g.on {
		t.Fatal("gate left closed after rate change")
	}
	// A stopped clock just stages; the next enable commits.
	n.Disable()
	g.calls = nil
	if err := n.SetRate(700000000); err != nil {
		t.Fatal(err)
	}
	if len(g.calls) != 1 || g.calls[0] != "set" {
		t.Fatalf("stopped gated change ran %v, want [set]", g.calls)
	}
}

func TestSetRateParentForwarding(t *testing.T) {
	r := NewRegistry()
	pll := &fakeSetter{fakeGate: fakeGate{rate: 1000000000}}
	r.MustAdd("pll", pll, 0)
	g := r.MustAdd("gate", &fakeGate{}, SetRateParent, "pll")
	if err := g.SetRate(1200000000); err != nil {
		t.Fatal(err)
	}
	if pll.rate != 1200000000 {
		t.Fatalf("parent rate = %d, want 1200000000", pll.rate)
	}
}

func TestUnknownParentRejected(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add("orphan", &fakeGate{}, 0, "missing"); err == nil {
		t.Fatal("registration with unknown parent accepted")
	}
}

func TestRangeCheck(t *testing.T) {
	w := Range{Min: 600000000, Max: 1200000000}
	for _, x := range []struct {
		hz uint64
		ok bool
	}{
		{599999999, false},
		{600000000, true},
		{1200000000, true},
		{1200000001, false},
	} {
		if got := w.Check(x.hz) == nil; got != x.ok {
			t.Errorf("Check(%d) ok = %v, want %v", x.hz, got, x.ok)
		}
	}
}

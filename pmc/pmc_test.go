// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pmc

import (
	"testing"

	"github.com/platinasystems/samclk/hwio"
)

func TestLatchCommit(t *testing.T) {
	m := hwio.NewMock()
	r := New(m)
	r.LatchPll(5)
	if got := m.Regs[PllUpdt]; got != 5 {
		t.Fatalf("latch: UPDT = %#x, want 5", got)
	}
	r.CommitPll(5)
	if got := m.Regs[PllUpdt]; got != UpdtUpdate|5 {
		t.Fatalf("commit: UPDT = %#x, want %#x", got, UpdtUpdate|5)
	}
	// A later latch changes only the id field. The trigger is
	// write-one and self-clearing; the mock just keeps what was
	// written.
	r.LatchPll(2)
	if got := m.Regs[PllUpdt]; got&UpdtIDMask != 2 {
		t.Fatalf("relatch: UPDT = %#x", got)
	}
}

func TestWaitPllLock(t *testing.T) {
	m := hwio.NewMock()
	r := New(m)
	r.LockWait = 0
	if err := r.WaitPllLock(3); err == nil {
		t.Fatal("expected timeout with lock bit clear")
	}
	m.Regs[PllIsr0] = 1 << 3
	if err := r.WaitPllLock(3); err != nil {
		t.Fatal(err)
	}
	if r.PllLocked(4) {
		t.Fatal("id 4 reported locked")
	}
}

func TestMasterReadyBits(t *testing.T) {
	m := hwio.NewMock()
	r := New(m)
	m.Regs[Sr] = SrMckrdy
	if !r.MasterReady(0) {
		t.Fatal("mck0 not ready with MCKRDY set")
	}
	if r.MasterReady(1) {
		t.Fatal("mck1 ready without MCKXRDY")
	}
	m.Regs[Sr] = SrMckxrdy
	if !r.MasterReady(4) {
		t.Fatal("mck4 not ready with MCKXRDY set")
	}
}

func TestMorKey(t *testing.T) {
	m := hwio.NewMock()
	r := New(m)
	m.Regs[Mor] = MorMoscrcen
	r.MorClrSet(0, MorMoscxten)
	got := m.Regs[Mor]
	if got&MorKeyMask != MorKey {
		t.Fatalf("MOR = %#x, key missing", got)
	}
	if got&(MorMoscxten|MorMoscrcen) != MorMoscxten|MorMoscrcen {
		t.Fatalf("MOR = %#x, enables wrong", got)
	}
}

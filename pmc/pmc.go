// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pmc models one power management controller register block.
//
// The block has two id latches, PLL_UPDT for the PLL family and MCR
// for the master clocks: writes to the shared control registers apply
// to whichever id was last latched. Every latch...program...commit
// sequence therefore runs under the block lock via Seq.
package pmc

import (
	"sync"
	"time"

	"github.com/platinasystems/samclk/hwio"
)

// DefaultLockWait bounds every lock/ready status poll. The reference
// firmware spins forever; a silicon fault there hangs the system, so
// waits here expire into an error instead.
const DefaultLockWait = 100 * time.Millisecond

// Regs is one PMC block.
type Regs struct {
	mu sync.Mutex
	io hwio.Io

	// LockWait is the status poll budget, settable before use.
	LockWait time.Duration
}

func New(io hwio.Io) *Regs {
	return &Regs{io: io, LockWait: DefaultLockWait}
}

// Seq runs f with exclusive use of the block's shared id latches.
func (r *Regs) Seq(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f()
}

func (r *Regs) Read32(off uint32) uint32    { return r.io.Read32(off) }
func (r *Regs) Write32(off, v uint32)       { r.io.Write32(off, v) }
func (r *Regs) ClrSet(off, clr, set uint32) { hwio.ClrSet(r.io, off, clr, set) }
func (r *Regs) Delay(d time.Duration)       { r.io.Delay(d) }

// LatchPll targets id for following CTRL0/CTRL1/ACR access.
func (r *Regs) LatchPll(id uint8) {
	r.ClrSet(PllUpdt, UpdtIDMask, uint32(id))
}

// CommitPll re-latches id with the update trigger, pushing the staged
// control values into the analog block. The trigger self-clears and
// reads back as zero, so the write is always issued.
func (r *Regs) CommitPll(id uint8) {
	v := r.Read32(PllUpdt)&^uint32(UpdtIDMask) | UpdtUpdate | uint32(id)
	r.Write32(PllUpdt, v)
}

// PllLocked reports the lock status bit for id.
func (r *Regs) PllLocked(id uint8) bool {
	return r.Read32(PllIsr0)&(1<<id) != 0
}

func (r *Regs) WaitPllLock(id uint8) error {
	return hwio.WaitTimeout(func() bool { return r.PllLocked(id) },
		r.LockWait)
}

// MasterReady reports the ready status for master clock id; mck0 has
// its own status bit.
func (r *Regs) MasterReady(id uint8) bool {
	bit := uint32(SrMckrdy)
	if id != 0 {
		bit = SrMckxrdy
	}
	return r.Read32(Sr)&bit != 0
}

func (r *Regs) WaitMasterReady(id uint8) error {
	return hwio.WaitTimeout(func() bool { return r.MasterReady(id) },
		r.LockWait)
}

// MorClrSet rewrites main oscillator control bits with the write key.
func (r *Regs) MorClrSet(clr, set uint32) {
	r.ClrSet(Mor, clr|MorKeyMask, set|MorKey)
}

func (r *Regs) SrSet(bit uint32) bool { return r.Read32(Sr)&bit != 0 }

func (r *Regs) WaitSr(bit uint32) error {
	return hwio.WaitTimeout(func() bool { return r.SrSet(bit) },
		r.LockWait)
}

// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwio

import "time"

// Op is one recorded register access or delay.
type Op struct {
	Kind  byte // 'r', 'w' or 'd'
	Off   uint32
	Val   uint32
	Sleep time.Duration
}

// Mock is an in-memory register window that records every operation
// a hardware sequence performs, for tests that assert write order,
// write counts and settle delays.
type Mock struct {
	Regs   map[uint32]uint32
	Ops    []Op
	Reads  int
	Writes int

	// OnRead, when set, may rewrite the value a read returns; tests
	// use it to fake status bits real hardware would flip.
	OnRead func(off uint32, v uint32) uint32
}

func NewMock() *Mock { return &Mock{Regs: make(map[uint32]uint32)} }

func (m *Mock) Read32(off uint32) uint32 {
	v := m.Regs[off]
	if m.OnRead != nil {
		v = m.OnRead(off, v)
	}
	m.Reads++
	m.Ops = append(m.Ops, Op{Kind: 'r', Off: off, Val: v})
	return v
}

func (m *Mock) Write32(off uint32, v uint32) {
	m.Regs[off] = v
	m.Writes++
	m.Ops = append(m.Ops, Op{Kind: 'w', Off: off, Val: v})
}

func (m *Mock) Delay(d time.Duration) {
	m.Ops = append(m.Ops, Op{Kind: 'd', Sleep: d})
}

// WritesTo counts recorded writes to one register.
func (m *Mock) WritesTo(off uint32) (n int) {
	for _, op := range m.Ops {
		if op.Kind == 'w' && op.Off == off {
			n++
		}
	}
	return
}

// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clk

import (
	"fmt"
	"sync"
)

// Node is one clock in the tree. All methods are safe for concurrent
// use; the per-node lock orders against the registry's safe-divider
// hook, which runs outside it.
type Node struct {
	Name string

	mu      sync.Mutex
	ops     Ops
	parents []*Node
	flags   Flags
	reg     *Registry
	users   int
}

func (n *Node) Flags() Flags { return n.flags }

// parentRate reads the current parent's cached rate, 0 for a root.
func (n *Node) parentRate() uint64 {
	p := n.parent()
	if p == nil {
		return 0
	}
	return p.Rate()
}

func (n *Node) parent() *Node {
	if len(n.parents) == 0 {
		return nil
	}
	if m, ok := n.ops.(Muxed); ok {
		i := m.Parent()
		if i < 0 || i >= len(n.parents) {
			return nil
		}
		return n.parents[i]
	}
	return n.parents[0]
}

// ParentNames lists the registered sources in mux order; reserved,
// unimplemented slots are "".
func (n *Node) ParentNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, len(n.parents))
	for i, p := range n.parents {
		if p != nil {
			names[i] = p.Name
		}
	}
	return names
}

// ParentName names the active parent, "" for a root clock.
func (n *Node) ParentName() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.parent()
	if p == nil {
		return ""
	}
	return p.Name
}

// Rate is the clock's current output rate in hz.
func (n *Node) Rate() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ops.GetRate(n.parentRate())
}

func (n *Node) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ops.Enabled()
}

// Enable turns the clock on, first enabling its parent chain. Each
// Enable must pair with one Disable.
func (n *Node) Enable() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enable()
}

func (n *Node) enable() error {
	if n.users > 0 {
		n.users++
		return nil
	}
	if p := n.parent(); p != nil {
		if err := p.Enable(); err != nil {
			return err
		}
	}
	if err := n.ops.Enable(n.parentRate()); err != nil {
		if p := n.parent(); p != nil {
			p.Disable()
		}
		return fmt.Errorf("%s: %w", n.Name, err)
	}
	n.users = 1
	return nil
}

// Disable drops one use; the gate closes when the count reaches zero.
// Critical clocks keep their last use forever.
func (n *Node) Disable() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.users == 0 {
		return
	}
	if n.users == 1 && n.flags&Critical != 0 {
		return
	}
	n.users--
	if n.users > 0 {
		return
	}
	n.ops.Disable()
	if p := n.parent(); p != nil {
		p.Disable()
	}
}

// RoundRate reports the nearest rate the clock can produce without
// changing anything.
func (n *Node) RoundRate(hz uint64) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	rs, ok := n.ops.(RateSetter)
	if !ok {
		if n.flags&SetRateParent != 0 {
			if p := n.parent(); p != nil {
				return p.RoundRate(hz)
			}
		}
		return 0, fmt.Errorf("%s: fixed rate", n.Name)
	}
	return rs.Round(n.parentRate(), hz)
}

// SetRate reprograms the clock to the nearest achievable rate to hz.
// When the clock feeds the registry's safe divider chain, that
// divider parks at its largest ratio around the change.
func (n *Node) SetRate(hz uint64) error {
	n.mu.Lock()
	rs, ok := n.ops.(RateSetter)
	if !ok && n.flags&SetRateParent != 0 {
		p := n.parent()
		n.mu.Unlock()
		if p == nil {
			return fmt.Errorf("%s: no parent", n.Name)
		}
		return p.SetRate(hz)
	}
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("%s: fixed rate", n.Name)
	}
	rate, err := rs.Round(n.parentRate(), hz)
	if err != nil {
		n.mu.Unlock()
		return fmt.Errorf("%s: %w", n.Name, err)
	}
	n.mu.Unlock()

	var restore func()
	if n.reg != nil {
		restore, err = n.reg.preRateChange(n)
		if err != nil {
			return err
		}
	}
	n.mu.Lock()
	if n.flags&SetRateGate != 0 && n.users > 0 {
		// Gap the output around the change; the enable path
		// commits the staged values.
		n.ops.Disable()
		err = rs.Set(n.parentRate(), rate, false)
		if e := n.ops.Enable(n.parentRate()); err == nil {
			err = e
		}
	} else {
		err = rs.Set(n.parentRate(), rate, n.users > 0)
	}
	n.mu.Unlock()
	if restore != nil {
		restore()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", n.Name, err)
	}
	return nil
}

// SetParent reclocks a mux to the index'th registered parent.
func (n *Node) SetParent(index int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, ok := n.ops.(Muxed)
	if !ok {
		return fmt.Errorf("%s: not a mux", n.Name)
	}
	if index < 0 || index >= len(n.parents) || n.parents[index] == nil {
		return fmt.Errorf("%s: %w: %d", n.Name, ErrNoParent, index)
	}
	old := n.parent()
	np := n.parents[index]
	if n.users > 0 {
		if err := np.Enable(); err != nil {
			return err
		}
	}
	if err := m.SetParent(index, np.Rate()); err != nil {
		if n.users > 0 {
			np.Disable()
		}
		return fmt.Errorf("%s: %w", n.Name, err)
	}
	if n.users > 0 && old != nil {
		old.Disable()
	}
	return nil
}

// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clk

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds one chip's clock tree by name.
type Registry struct {
	mu    sync.Mutex
	nodes map[string]*Node

	// safeDiv is the single divider parked during rate changes of
	// its PLL, and safeSrc that PLL's name.
	safeDiv *Node
	safeSrc string
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]*Node)}
}

// Add registers ops under name with the named parents, in mux index
// order. A nil entry keeps an index reserved for an unimplemented
// source.
func (r *Registry) Add(name string, ops Ops, flags Flags, parents ...string) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.nodes[name]; dup {
		return nil, fmt.Errorf("clk %s: already registered", name)
	}
	n := &Node{Name: name, ops: ops, flags: flags, reg: r}
	for _, pn := range parents {
		if pn == "" {
			n.parents = append(n.parents, nil)
			continue
		}
		p, found := r.nodes[pn]
		if !found {
			return nil, fmt.Errorf("clk %s: parent %s not registered",
				name, pn)
		}
		n.parents = append(n.parents, p)
	}
	r.nodes[name] = n
	if flags&Critical != 0 {
		if err := n.Enable(); err != nil {
			delete(r.nodes, name)
			return nil, err
		}
	}
	return n, nil
}

// MustAdd is Add for static chip tables, where a registration error is
// a programming mistake.
func (r *Registry) MustAdd(name string, ops Ops, flags Flags, parents ...string) *Node {
	n, err := r.Add(name, ops, flags, parents...)
	if err != nil {
		panic(err)
	}
	return n
}

func (r *Registry) Get(name string) *Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nodes[name]
}

// Names lists all registered clocks, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetSafeDiv nominates div as the divider parked while srcName
// changes rate. At most one clock in the tree may hold the role.
func (r *Registry) SetSafeDiv(div *Node, srcName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := div.ops.(SafeDivider); !ok {
		return fmt.Errorf("clk %s: cannot park", div.Name)
	}
	if r.safeDiv != nil && r.safeDiv != div {
		return fmt.Errorf("clk %s: safe divider already %s",
			div.Name, r.safeDiv.Name)
	}
	r.safeDiv = div
	r.safeSrc = srcName
	return nil
}

// preRateChange parks the safe divider if changed feeds it. The
// caller runs the returned restore after the rate change, successful
// or not.
func (r *Registry) preRateChange(changed *Node) (func(), error) {
	r.mu.Lock()
	div, src := r.safeDiv, r.safeSrc
	r.mu.Unlock()
	if div == nil || changed.Name != src {
		return nil, nil
	}
	return div.ops.(SafeDivider).Park()
}

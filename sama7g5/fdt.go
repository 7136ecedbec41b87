// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sama7g5

import (
	"fmt"

	"github.com/platinasystems/fdt"
)

// FromDeviceTree pulls the board inputs out of a flattened device
// tree: the main crystal and slow clock frequencies from their
// fixed-clock nodes, and the oscillator bypass flag from the PMC
// node.
func FromDeviceTree(dtb []byte) (Config, error) {
	var cfg Config
	t := &fdt.Tree{}
	if err := t.Parse(dtb); err != nil {
		return cfg, err
	}
	grab := func(node string, hz *uint64) {
		t.MatchNode(node, func(n *fdt.Node) {
			if b, found := n.Properties["clock-frequency"]; found {
				*hz = uint64(t.PropUint32(b))
			}
		})
	}
	grab("main_xtal", &cfg.MainXtal)
	grab("slow_xtal", &cfg.SlowXtal)
	t.MatchNode("pmc", func(n *fdt.Node) {
		if b, found := n.Properties["atmel,osc-bypass"]; found {
			cfg.Bypass = len(b) == 0 || t.PropUint32(b) != 0
		}
	})
	if cfg.MainXtal == 0 {
		return cfg, fmt.Errorf("device tree: no main_xtal clock-frequency")
	}
	return cfg, nil
}

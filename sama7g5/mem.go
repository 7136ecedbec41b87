// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build linux

package sama7g5

import (
	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/hwio"
	"github.com/platinasystems/samclk/pmc"
)

// SetupMem maps the PMC block through /dev/mem and assembles the tree
// over it. Base 0 means the chip's usual PMC address.
func SetupMem(cfg Config, base uintptr) (*clk.Registry, error) {
	if cfg.Regs == nil {
		if base == 0 {
			base = PmcBase
		}
		m, err := hwio.MapMem(base, 0x200)
		if err != nil {
			return nil, err
		}
		cfg.Regs = pmc.New(m)
	}
	return Setup(cfg)
}

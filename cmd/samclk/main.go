// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Samclk is a one-shot front end to samclkd through redis.
//
//	samclk [-hash NAME] show [CLOCK]
//	samclk [-hash NAME] set CLOCK HZ
//	samclk [-hash NAME] enable CLOCK
//	samclk [-hash NAME] disable CLOCK
//	samclk [-hash NAME] parent CLOCK PARENT
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
)

func main() {
	if err := Main(os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, "samclk:", err)
		os.Exit(1)
	}
}

func Main(argv ...string) error {
	parm, argv := parms.New(argv, "-hash")
	if s := parm.ByName["-hash"]; len(s) > 0 {
		redis.DefaultHash = s
	} else if len(redis.DefaultHash) == 0 {
		redis.DefaultHash = "platina"
	}
	if len(argv) == 0 {
		return show("")
	}
	switch argv[0] {
	case "show":
		name := ""
		if len(argv) > 1 {
			name = argv[1]
		}
		return show(name)
	case "set":
		if len(argv) != 3 {
			return fmt.Errorf("usage: samclk set CLOCK HZ")
		}
		if _, err := strconv.ParseUint(argv[2], 10, 64); err != nil {
			return fmt.Errorf("HZ %s: %v", argv[2], err)
		}
		return hset(argv[1], "rate.hz", argv[2])
	case "enable", "disable":
		if len(argv) != 2 {
			return fmt.Errorf("usage: samclk %s CLOCK", argv[0])
		}
		return hset(argv[1], "state", argv[0])
	case "parent":
		if len(argv) != 3 {
			return fmt.Errorf("usage: samclk parent CLOCK PARENT")
		}
		return hset(argv[1], "parent", argv[2])
	}
	return fmt.Errorf("%s: unknown command", argv[0])
}

func hset(clock, prop, value string) error {
	field := "clk." + clock + "." + prop
	if _, err := redis.Hset(redis.DefaultHash, field, value); err != nil {
		return err
	}
	return show(clock)
}

// show prints the published fields of one clock, or of the whole tree.
func show(clock string) error {
	prefix := "clk."
	if len(clock) > 0 {
		prefix += clock + "."
	}
	keys, err := redis.Hkeys(redis.DefaultHash)
	if err != nil {
		return err
	}
	sort.Strings(keys)
	n := 0
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		s, err := redis.Hget(redis.DefaultHash, k)
		if err != nil {
			return err
		}
		fmt.Println(k+":", s)
		n++
	}
	if n == 0 {
		if len(clock) > 0 {
			return fmt.Errorf("%s: no such clock", clock)
		}
		return fmt.Errorf("no clocks published; is samclkd running?")
	}
	return nil
}

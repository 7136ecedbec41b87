// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build linux

// Samclkd publishes the SAMA7G5 clock tree to redis and applies
// rate/state/parent writes made through the machine hash.
//
//	samclkd [-dtb FILE] [-base ADDR] [-xtal HZ] [-bypass] [-interval SEC]
package main

import (
	"fmt"
	"io/ioutil"
	"net/rpc"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"

	"github.com/platinasystems/samclk/clk"
	"github.com/platinasystems/samclk/sama7g5"
)

type Info struct {
	mutex sync.Mutex
	reg   *clk.Registry
	pub   *publisher.Publisher
	rpc   *atsock.RpcServer
	lasts map[string]string
}

func main() {
	if err := Main(os.Args[1:]...); err != nil {
		log.Print("err: ", err)
		fmt.Fprintln(os.Stderr, "samclkd:", err)
		os.Exit(1)
	}
}

func Main(argv ...string) error {
	flag, argv := flags.New(argv, "-bypass")
	parm, _ := parms.New(argv, "-dtb", "-base", "-xtal", "-interval",
		"-hash")

	if s := parm.ByName["-hash"]; len(s) > 0 {
		redis.DefaultHash = s
	} else if len(redis.DefaultHash) == 0 {
		redis.DefaultHash = "platina"
	}

	cfg, err := boardConfig(parm, flag.ByName["-bypass"])
	if err != nil {
		return err
	}
	var base uint64
	if s := parm.ByName["-base"]; len(s) > 0 {
		if base, err = strconv.ParseUint(s, 0, 64); err != nil {
			return fmt.Errorf("-base %s: %v", s, err)
		}
	}
	interval := 10 * time.Second
	if s := parm.ByName["-interval"]; len(s) > 0 {
		sec, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("-interval %s: %v", s, err)
		}
		interval = time.Duration(sec) * time.Second
	}

	// Redis may still be coming up when we are started at boot.
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    10 * time.Second,
		Jitter: true,
	}
	for redis.IsReady() != nil {
		time.Sleep(b.Duration())
	}

	reg, err := sama7g5.SetupMem(cfg, uintptr(base))
	if err != nil {
		return err
	}
	log.Print("notice: sama7g5 clock tree up, ",
		len(reg.Names()), " clocks")

	info := &Info{reg: reg, lasts: make(map[string]string)}
	if info.pub, err = publisher.New(); err != nil {
		return err
	}
	if info.rpc, err = atsock.NewRpcServer("samclkd"); err != nil {
		return err
	}
	rpc.Register(info)
	if err = redis.Assign(redis.DefaultHash+":clk.", "samclkd",
		"Info"); err != nil {
		return err
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	info.update()
	for range t.C {
		info.update()
	}
	return nil
}

func boardConfig(parm *parms.Parms, bypass bool) (sama7g5.Config, error) {
	var cfg sama7g5.Config
	if f := parm.ByName["-dtb"]; len(f) > 0 {
		dtb, err := ioutil.ReadFile(f)
		if err != nil {
			return cfg, err
		}
		return sama7g5.FromDeviceTree(dtb)
	}
	cfg.MainXtal = 24000000
	if s := parm.ByName["-xtal"]; len(s) > 0 {
		hz, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return cfg, fmt.Errorf("-xtal %s: %v", s, err)
		}
		cfg.MainXtal = hz
	}
	cfg.Bypass = bypass
	return cfg, nil
}

// update publishes every clock's rate, state and parent, skipping
// values unchanged since the last tick.
func (i *Info) update() {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	i.publishAll()
}

func (i *Info) publishAll() {
	for _, name := range i.reg.Names() {
		n := i.reg.Get(name)
		i.publish("clk."+name+".rate.hz",
			strconv.FormatUint(n.Rate(), 10))
		state := "disabled"
		if n.Enabled() {
			state = "enabled"
		}
		i.publish("clk."+name+".state", state)
		if p := n.ParentName(); p != "" {
			i.publish("clk."+name+".parent", p)
		}
	}
}

func (i *Info) publish(k, v string) {
	if i.lasts[k] != v {
		i.pub.Print(k, ": ", v)
		i.lasts[k] = v
	}
}

// Hset applies a write to clk.<name>.{rate.hz,state,parent}.
func (i *Info) Hset(a args.Hset, r *reply.Hset) error {
	field := strings.TrimPrefix(a.Field, "clk.")
	value := string(a.Value)
	var name, prop string
	switch {
	case strings.HasSuffix(field, ".rate.hz"):
		name, prop = strings.TrimSuffix(field, ".rate.hz"), "rate"
	case strings.HasSuffix(field, ".state"):
		name, prop = strings.TrimSuffix(field, ".state"), "state"
	case strings.HasSuffix(field, ".parent"):
		name, prop = strings.TrimSuffix(field, ".parent"), "parent"
	default:
		return fmt.Errorf("%s: unknown field", a.Field)
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()
	n := i.reg.Get(name)
	if n == nil {
		return fmt.Errorf("%s: no such clock", name)
	}
	var err error
	switch prop {
	case "rate":
		var hz uint64
		if hz, err = strconv.ParseUint(value, 10, 64); err == nil {
			err = n.SetRate(hz)
		}
	case "state":
		switch value {
		case "enable", "enabled", "1", "true":
			err = n.Enable()
		case "disable", "disabled", "0", "false":
			n.Disable()
		default:
			err = fmt.Errorf("%s: enable or disable", value)
		}
	case "parent":
		err = setParentByName(i.reg, n, value)
	}
	if err != nil {
		return err
	}
	*r = 1
	i.publishAll()
	return nil
}

func setParentByName(reg *clk.Registry, n *clk.Node, parent string) error {
	for index, name := range n.ParentNames() {
		if name == parent {
			return n.SetParent(index)
		}
	}
	return fmt.Errorf("%s: not a parent of %s", parent, n.Name)
}

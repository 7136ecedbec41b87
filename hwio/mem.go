// Copyright © 2021-2022 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build linux

package hwio

import (
	"os"
	"syscall"
	"time"
	"unsafe"
)

// Mem is an Io over a /dev/mem mapping of a physical register block.
type Mem struct {
	f *os.File
	b []byte
	p unsafe.Pointer
}

const pageMask = 0xfff

// MapMem maps size bytes of physical address space at addr. The
// mapping is page aligned; addr need not be.
func MapMem(addr uintptr, size int) (*Mem, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	pad := int(addr & pageMask)
	b, err := syscall.Mmap(int(f.Fd()), int64(addr&^uintptr(pageMask)),
		size+pad, syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Mem{f: f, b: b, p: unsafe.Pointer(&b[pad])}, nil
}

func (m *Mem) Close() error {
	if m.b != nil {
		syscall.Munmap(m.b)
		m.b = nil
	}
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}

func (m *Mem) Read32(off uint32) uint32 {
	return *(*uint32)(unsafe.Pointer(uintptr(m.p) + uintptr(off)))
}

func (m *Mem) Write32(off uint32, v uint32) {
	*(*uint32)(unsafe.Pointer(uintptr(m.p) + uintptr(off))) = v
}

func (m *Mem) Delay(d time.Duration) { time.Sleep(d) }

package nes

import (
	"fmt"
	"sort"
)

// ╔═════════════════╤═══════════════════════════════╤══════════╗
// ║ Address Range   │ Device                        │ Priority ║
// ╠═════════════════╪═══════════════════════════════╪══════════╣
// ║ 0x0000 - 0xFFFF │ Cartridge (mapper decides)    │    0     ║
// ║ 0x0000 - 0x1FFF │ Work RAM, mirrors every 0x800 │    1     ║
// ║ 0x2000 - 0x3FFF │ PPU registers, mirrors every 8│    1     ║
// ║ 0x4000 - 0x4013 │ APU channel registers         │    1     ║
// ║ 0x4014          │ OAM DMA latch                 │    1     ║
// ║ 0x4015          │ APU enable / status           │    1     ║
// ║ 0x4016          │ Controller 1                  │    1     ║
// ║ 0x4017          │ APU frame counter (write)     │    1     ║
// ║ 0x4017          │ Controller 2 (read, strobe)   │    2     ║
// ╚═════════════════╧═══════════════════════════════╧══════════╝
//
// The cartridge is consulted first for every address and claims only
// what its mapper maps, which lets a mapper shadow any built-in device.

// A route binds an inclusive address range to a device at a given
// precedence. Lower priority numbers win.
type route struct {
	lo, hi   uint16
	priority byte
	name     string
	dev      Device
}

// Bus directs CPU transactions to the highest-precedence device whose
// range contains the address. Routes are set at wiring time; the
// table is not fixed afterwards, since Disconnect and Connect replace
// the cartridge route whenever a cartridge is inserted.
type Bus struct {
	routes []route
}

func NewBus() *Bus {
	return &Bus{}
}

// Connect registers dev over the inclusive range [lo, hi]. The
// (range, priority) pair must be unique; violations are wiring bugs
// and panic at startup rather than surfacing mid-emulation.
func (b *Bus) Connect(lo, hi uint16, priority byte, name string, dev Device) {
	if lo > hi {
		panic(fmt.Sprintf("nes: route %s: low end %04X above high end %04X", name, lo, hi))
	}
	for _, r := range b.routes {
		if r.lo == lo && r.hi == hi && r.priority == priority {
			panic(fmt.Sprintf("nes: route %s: duplicate of %s", name, r.name))
		}
	}

	b.routes = append(b.routes, route{lo: lo, hi: hi, priority: priority, name: name, dev: dev})
	sort.SliceStable(b.routes, func(i, j int) bool {
		return b.routes[i].priority < b.routes[j].priority
	})
}

// Disconnect removes the route registered over exactly [lo, hi] at
// the given priority, if any. Used when swapping cartridges.
func (b *Bus) Disconnect(lo, hi uint16, priority byte) {
	for i, r := range b.routes {
		if r.lo == lo && r.hi == hi && r.priority == priority {
			b.routes = append(b.routes[:i], b.routes[i+1:]...)
			return
		}
	}
}

// CPURead returns the byte serviced by the first matching device in
// precedence order, or 0x00 when nothing claims the address.
func (b *Bus) CPURead(addr uint16) byte {
	for _, r := range b.routes {
		if addr < r.lo || addr > r.hi {
			continue
		}
		if v, ok := r.dev.CPURead(addr); ok {
			return v
		}
	}
	return 0
}

// CPUWrite stores the byte through the first matching device in
// precedence order. A write nothing claims panics with a *BusError;
// the console has no silent drop.
func (b *Bus) CPUWrite(addr uint16, data byte) {
	for _, r := range b.routes {
		if addr < r.lo || addr > r.hi {
			continue
		}
		if r.dev.CPUWrite(addr, data) {
			return
		}
	}
	panic(&BusError{Addr: addr, Data: data, Write: true})
}

// CPUReadAddress reads a little-endian address pair starting at addr.
func (b *Bus) CPUReadAddress(addr uint16) uint16 {
	lo := b.CPURead(addr)
	hi := b.CPURead(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

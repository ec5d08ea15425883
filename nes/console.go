package nes

import (
	"fmt"
	"io"
	"os"
)

const (
	workRAMSize = 2048

	// masterTicksPerFrame is one NTSC frame of PPU-domain clocks.
	masterTicksPerFrame = 89342
)

// Console is the hub that owns every device and the wiring between
// them. Devices never hold each other except where the hardware does:
// the PPU borrows the cartridge for CHR, and the bus routes to all of
// them. Time enters only through Clock.
type Console struct {
	Bus *Bus
	CPU *CPU
	APU *APU
	PPU *PPU
	RAM *RAM
	DMA *DMA

	Controller1 *Controller
	Controller2 *Controller

	cart *Cartridge

	// clockCounter counts master ticks. It wraps; nothing compares
	// against it across the wrap because all periodic behavior keys
	// off sub-component counters.
	clockCounter uint32
}

// NewConsole wires the default address map. The CPU powers on against
// an empty bus; InsertCartridge re-runs the reset sequence once a real
// reset vector exists. trace may be nil.
func NewConsole(sampleRate float32, trace io.Writer) *Console {
	bus := NewBus()

	c := &Console{
		Bus:         bus,
		APU:         NewAPU(4096, sampleRate),
		PPU:         NewPPU(),
		RAM:         NewRAM(workRAMSize),
		DMA:         NewDMA(),
		Controller1: &Controller{},
		Controller2: &Controller{},
	}

	bus.Connect(0x0000, 0x1FFF, 1, "WORK_RAM", c.RAM)
	bus.Connect(0x2000, 0x3FFF, 1, "PPU", c.PPU)
	bus.Connect(0x4000, 0x4013, 1, "APU_CHANNELS", c.APU)
	bus.Connect(0x4014, 0x4014, 1, "OAM_DMA", c.DMA)
	bus.Connect(0x4015, 0x4015, 1, "APU_STATUS", c.APU)
	bus.Connect(0x4016, 0x4016, 1, "CONTROLLER_1", c.Controller1)

	// 0x4017 is two devices. The APU applies writes to the frame
	// counter port and then declines them, so they also strobe the
	// controller underneath; it declines reads outright, which fall
	// through to the same controller.
	bus.Connect(0x4017, 0x4017, 1, "APU_FRAME", c.APU)
	bus.Connect(0x4017, 0x4017, 2, "CONTROLLER_2", c.Controller2)

	c.CPU = NewCPU(bus, trace)

	return c
}

// Empty reports whether a cartridge has been inserted.
func (c *Console) Empty() bool {
	return c.cart == nil
}

// InsertCartridge routes the cartridge over the whole CPU address
// space at top precedence, lends it to the PPU, and resets.
func (c *Console) InsertCartridge(cart *Cartridge) {
	if c.cart != nil {
		c.Bus.Disconnect(0x0000, 0xFFFF, 0)
	}

	c.cart = cart
	c.Bus.Connect(0x0000, 0xFFFF, 0, "CARTRIDGE", cart)
	c.PPU.ConnectCartridge(cart)

	c.Reset()
}

// LoadROM reads an iNES image and inserts it.
func (c *Console) LoadROM(r io.Reader) error {
	cart, err := LoadINES(r)
	if err != nil {
		return err
	}

	c.InsertCartridge(cart)
	return nil
}

// LoadPath reads an iNES image from disk and inserts it.
func (c *Console) LoadPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("nes: unable to open rom: %w", err)
	}
	defer f.Close()

	return c.LoadROM(f)
}

// Reset puts every device back in its power-on state.
func (c *Console) Reset() {
	if c.cart != nil {
		c.cart.Reset()
	}
	c.CPU.Reset()
	c.APU.Reset()
	c.PPU.Reset()
	c.DMA.Reset()
	c.Controller1.Reset()
	c.Controller2.Reset()
	c.clockCounter = 0
}

// Clock advances the whole system by one master tick. The PPU domain
// runs at full rate (rendering is external), the CPU at a third of it
// unless a DMA transfer has stolen its slot, and the APU every tick
// with its internal divide-by-six gate.
func (c *Console) Clock() {
	if c.clockCounter%3 == 0 {
		if c.DMA.InProgress() {
			c.clockDMA()
		} else {
			c.CPU.Clock()
		}
	}

	c.APU.Clock()

	c.clockCounter++
}

// clockDMA moves one half-step of the OAM page copy: a read from the
// source page on even CPU ticks, a write into OAM on odd ones. The
// first read waits for alignment, which costs the one or two idle
// cycles well-behaved games rely on.
func (c *Console) clockDMA() {
	d := c.DMA

	if d.sync {
		if c.clockCounter%2 == 1 {
			d.sync = false
		}
		return
	}

	if c.clockCounter%2 == 0 {
		d.data = c.Bus.CPURead(uint16(d.page)<<8 | uint16(d.addr))
	} else {
		c.PPU.WriteOAM(d.addr, d.data)
		d.addr++
		if d.addr == 0 {
			d.transfer = false
			d.sync = true
		}
	}
}

// StepInstruction runs master ticks until the CPU reaches its next
// instruction boundary, having ticked at least once.
func (c *Console) StepInstruction() {
	start := c.CPU.ClockCount()
	for !c.CPU.Complete() || c.CPU.ClockCount() == start {
		c.Clock()
	}
}

// StepFrame runs one NTSC frame of master ticks.
func (c *Console) StepFrame() {
	for i := 0; i < masterTicksPerFrame; i++ {
		c.Clock()
	}
}

// Press and Release poke the live state of controller 0 or 1.
func (c *Console) Press(ctrl int, b Button) {
	c.controller(ctrl).Press(b)
}

func (c *Console) Release(ctrl int, b Button) {
	c.controller(ctrl).Release(b)
}

func (c *Console) controller(ctrl int) *Controller {
	if ctrl == 0 {
		return c.Controller1
	}
	return c.Controller2
}

// AudioChannel is the mixed APU output stream.
func (c *Console) AudioChannel() <-chan float32 {
	return c.APU.Output()
}

// Read and Write expose raw bus transactions to shells and tests.
func (c *Console) Read(addr uint16) byte {
	return c.Bus.CPURead(addr)
}

func (c *Console) Write(addr uint16, v byte) {
	c.Bus.CPUWrite(addr, v)
}

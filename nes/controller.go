package nes

// Button bit positions in a controller's live state. Reads come off
// the snapshot MSB-first, so A is reported first.
type Button byte

const (
	A      Button = 0x80
	B      Button = 0x40
	Start  Button = 0x20
	Select Button = 0x10
	Up     Button = 0x08
	Down   Button = 0x04
	Left   Button = 0x02
	Right  Button = 0x01
)

// Controller is an 8-bit shift register with strobe-latched snapshot
// semantics. A CPU write to its port copies the live button state into
// the snapshot; each CPU read returns the snapshot's top bit and
// shifts, so eight reads drain it and further reads return 0.
type Controller struct {
	live     byte
	snapshot byte
}

// Press sets the button's bit in the live state.
func (c *Controller) Press(b Button) {
	c.live |= byte(b)
}

// Release clears the button's bit in the live state.
func (c *Controller) Release(b Button) {
	c.live &^= byte(b)
}

// Reset clears both the live state and any pending snapshot bits.
func (c *Controller) Reset() {
	c.live = 0
	c.snapshot = 0
}

func (c *Controller) CPURead(addr uint16) (byte, bool) {
	bit := c.snapshot >> 7
	c.snapshot <<= 1
	return bit, true
}

func (c *Controller) CPUWrite(addr uint16, data byte) bool {
	c.snapshot = c.live
	return true
}

func (c *Controller) PPURead(addr uint16) (byte, bool) { return 0, false }

func (c *Controller) PPUWrite(addr uint16, data byte) bool { return false }

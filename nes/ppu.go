package nes

// PPU is the bus-visible seam of the picture unit. Rendering lives in
// an external collaborator; the core only carries what the rest of the
// system can observe: the eight registers mirrored across
// 0x2000-0x3FFF, the object attribute memory the DMA latch streams
// into, and CHR pattern access delegated to the cartridge for whoever
// draws.
type PPU struct {
	registers [8]byte
	oam       [256]byte

	cart *Cartridge
}

func NewPPU() *PPU {
	return &PPU{}
}

// ConnectCartridge lends the cartridge to the PPU so pattern reads can
// reach CHR. The console owns the cartridge; the PPU only borrows it.
func (p *PPU) ConnectCartridge(cart *Cartridge) {
	p.cart = cart
}

// WriteOAM stores one byte of object attribute memory. Used by the
// DMA copy loop.
func (p *PPU) WriteOAM(addr byte, data byte) {
	p.oam[addr] = data
}

// OAM exposes object attribute memory to the external renderer.
func (p *PPU) OAM(addr byte) byte {
	return p.oam[addr]
}

// Pattern reads CHR space through the cartridge's mapper.
func (p *PPU) Pattern(addr uint16) byte {
	if p.cart == nil {
		return 0
	}
	if v, ok := p.cart.PPURead(addr); ok {
		return v
	}
	return 0
}

func (p *PPU) Reset() {
	p.registers = [8]byte{}
}

func (p *PPU) CPURead(addr uint16) (byte, bool) {
	return p.registers[addr&0x0007], true
}

func (p *PPU) CPUWrite(addr uint16, data byte) bool {
	p.registers[addr&0x0007] = data
	return true
}

func (p *PPU) PPURead(addr uint16) (byte, bool) {
	if addr < 0x2000 && p.cart != nil {
		return p.cart.PPURead(addr)
	}
	return 0, false
}

func (p *PPU) PPUWrite(addr uint16, data byte) bool {
	if addr < 0x2000 && p.cart != nil {
		return p.cart.PPUWrite(addr, data)
	}
	return false
}

package nes

// DMA is the single-address latch at 0x4014. A CPU write arms a 256
// byte page copy into PPU object memory; the console performs the copy
// itself, a read on one CPU-domain tick and the matching write on the
// next, after waiting for an even tick so the first read is aligned.
type DMA struct {
	page byte
	addr byte
	data byte

	transfer bool
	sync     bool
}

func NewDMA() *DMA {
	return &DMA{sync: true}
}

// InProgress reports whether a transfer is armed or running. While
// true the CPU is stalled and the console drives the copy.
func (d *DMA) InProgress() bool {
	return d.transfer
}

// Reset aborts any transfer and re-arms the alignment wait.
func (d *DMA) Reset() {
	d.addr = 0
	d.transfer = false
	d.sync = true
}

func (d *DMA) CPURead(addr uint16) (byte, bool) {
	// Write-only port.
	return 0, false
}

func (d *DMA) CPUWrite(addr uint16, data byte) bool {
	d.page = data
	d.addr = 0
	d.transfer = true
	return true
}

func (d *DMA) PPURead(addr uint16) (byte, bool) { return 0, false }

func (d *DMA) PPUWrite(addr uint16, data byte) bool { return false }

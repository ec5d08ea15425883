package nes

// RAM is a flat byte buffer behind the device interface. The mask
// folds mirrored addresses back onto the backing storage, so the 2KiB
// work RAM can be routed across the whole 0x0000-0x1FFF window.
type RAM struct {
	data []byte
	mask uint16
}

// NewRAM returns a RAM of the given size. size must be a power of two;
// the mirror mask is derived from it.
func NewRAM(size int) *RAM {
	return &RAM{
		data: make([]byte, size),
		mask: uint16(size - 1),
	}
}

func (r *RAM) CPURead(addr uint16) (byte, bool) {
	return r.data[addr&r.mask], true
}

func (r *RAM) CPUWrite(addr uint16, data byte) bool {
	r.data[addr&r.mask] = data
	return true
}

func (r *RAM) PPURead(addr uint16) (byte, bool) { return 0, false }

func (r *RAM) PPUWrite(addr uint16, data byte) bool { return false }

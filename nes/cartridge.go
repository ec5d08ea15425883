package nes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	trainerLen = 512
	prgMul     = 1024 * 16
	chrMul     = 1024 * 8
)

const (
	fl1MirrorVertical = 1 << iota
	fl1SaveRAM
	fl1Trainer
	fl1FourScreen
)

var (
	inesMagic = []byte{'N', 'E', 'S', 0x1A}

	errNoMagic = errors.New("nes: invalid magic in header")
)

// MirrorMode is how the external renderer should fold nametable
// addresses outside the base tables.
type MirrorMode int

const (
	Horizontal MirrorMode = iota
	Vertical
	OneScreenLo
	OneScreenHi
)

func (m MirrorMode) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case OneScreenLo:
		return "one-screen low"
	case OneScreenHi:
		return "one-screen high"
	}
	return "unknown"
}

// Cartridge owns the PRG and CHR memory of a loaded ROM and a mapper
// that decides which bus addresses reach it. It is routed over the
// whole CPU address space at top precedence, claiming only what the
// mapper maps, so a mapper can shadow any built-in device.
type Cartridge struct {
	prg []byte
	chr []byte

	mapperID byte
	prgBanks byte
	chrBanks byte
	mirror   MirrorMode

	mapper Mapper
}

// LoadINES reads a cartridge from an iNES stream: 16 byte header,
// optional 512 byte trainer, PRG payload, CHR payload. Carts with a
// zero CHR bank count get 8KiB of CHR-RAM.
func LoadINES(r io.Reader) (*Cartridge, error) {
	type header struct {
		// String "NES^Z" used to recognize .NES files.
		Magic [4]byte

		// Number of 16kB PRG-ROM banks.
		PRGBanks byte

		// Number of 8kB CHR-ROM banks; zero means the cart uses CHR-RAM.
		CHRBanks byte

		// Bit 0 mirroring (0 horizontal, 1 vertical), bit 1 battery
		// RAM, bit 2 trainer present, bit 3 four-screen VRAM, high
		// nibble the low nibble of the mapper id.
		Flags1 byte

		// High nibble is the high nibble of the mapper id.
		Flags2 byte

		// Reserved, must be zeroes.
		_ [8]byte
	}
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("nes: unable to read header: %w", err)
	}

	if !bytes.Equal(h.Magic[:], inesMagic) {
		return nil, errNoMagic
	}

	if h.Flags1&fl1Trainer > 0 {
		if _, err := io.CopyN(io.Discard, r, trainerLen); err != nil {
			return nil, fmt.Errorf("nes: unable to skip trainer: %w", err)
		}
	}

	if h.PRGBanks == 0 {
		return nil, errors.New("nes: header advertises zero PRG banks")
	}

	prg := make([]byte, int(h.PRGBanks)*prgMul)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("nes: short PRG payload: %w", err)
	}

	var chr []byte
	if h.CHRBanks == 0 {
		chr = make([]byte, chrMul)
	} else {
		chr = make([]byte, int(h.CHRBanks)*chrMul)
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("nes: short CHR payload: %w", err)
		}
	}

	mirror := Horizontal
	if h.Flags1&fl1MirrorVertical > 0 {
		mirror = Vertical
	}

	mapperID := h.Flags1>>4 | h.Flags2&0xF0

	cart := &Cartridge{
		prg:      prg,
		chr:      chr,
		mapperID: mapperID,
		prgBanks: h.PRGBanks,
		chrBanks: h.CHRBanks,
		mirror:   mirror,
	}

	switch mapperID {
	case 0:
		cart.mapper = &mapper000{prgBanks: h.PRGBanks, chrBanks: h.CHRBanks}
	case 2:
		cart.mapper = &mapper002{prgBanks: h.PRGBanks, chrBanks: h.CHRBanks}
	default:
		return nil, fmt.Errorf("nes: unsupported mapper %d", mapperID)
	}
	cart.mapper.Reset()

	return cart, nil
}

// Mirror reports the nametable mirroring the header declared.
func (c *Cartridge) Mirror() MirrorMode {
	return c.mirror
}

// MapperID reports the mapper the header declared.
func (c *Cartridge) MapperID() byte {
	return c.mapperID
}

// Reset restores the mapper's power-on bank selection.
func (c *Cartridge) Reset() {
	c.mapper.Reset()
}

func (c *Cartridge) CPURead(addr uint16) (byte, bool) {
	if off, ok := c.mapper.CPUMapRead(addr); ok {
		return c.prg[off], true
	}
	return 0, false
}

func (c *Cartridge) CPUWrite(addr uint16, data byte) bool {
	off, ok := c.mapper.CPUMapWrite(addr, data)
	if !ok {
		return false
	}
	if off != mapperInternal {
		c.prg[off] = data
	}
	return true
}

func (c *Cartridge) PPURead(addr uint16) (byte, bool) {
	if off, ok := c.mapper.PPUMapRead(addr); ok {
		return c.chr[off], true
	}
	return 0, false
}

func (c *Cartridge) PPUWrite(addr uint16, data byte) bool {
	if off, ok := c.mapper.PPUMapWrite(addr); ok {
		c.chr[off] = data
		return true
	}
	return false
}

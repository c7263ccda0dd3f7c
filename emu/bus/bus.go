/*
 * go64 - System bus and bank-switched memory map.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package bus is the single owner of RAM, ROM and the processor port that
// bank-switches them. The CPU, VIC-II and CIA chips never see each other
// directly; they only ever see the Bus.
package bus

import "fmt"

const (
	basicROMSize = 8192
	kernalROMSize = 8192
	charROMSize   = 4096

	basicBase  = 0xA000
	ioBase     = 0xD000
	vicBase    = 0xD000
	vicTop     = 0xD3FF
	colorBase  = 0xD800
	colorTop   = 0xDBFF
	ciaABase   = 0xDC00
	ciaATop    = 0xDCFF
	ciaBBase   = 0xDD00
	ciaBTop    = 0xDDFF
	ioTop      = 0xDFFF
	kernalBase = 0xE000
)

// ioDevice is the structural interface the IO-mapped chips satisfy. It is
// declared here, not imported from emu/vic or emu/cia, so the Bus can hold
// a reference to a chip without either package importing the other.
type ioDevice interface {
	ReadReg(offset uint8) uint8
	WriteReg(offset uint8, value uint8)
}

// Bus is constructed once by the machine loop and passed by reference to
// every operation that needs it. It deliberately holds no package-level
// global state.
type Bus struct {
	ram [65536]byte

	basicROM  [basicROMSize]byte
	kernalROM [kernalROMSize]byte
	charROM   [charROMSize]byte

	direction byte // processor port direction register, $0000
	data      byte // processor port data register, $0001

	colorRAM [1024]byte

	vic  ioDevice
	ciaA ioDevice
	ciaB ioDevice
}

// ROMs bundles the three stock ROM images loaded from disk.
type ROMs struct {
	Basic  []byte
	Kernal []byte
	Char   []byte
}

// NewBus validates the ROM images and builds a Bus around them. Attach
// must be called afterwards to wire the IO-mapped chips before any IO
// address is touched.
func NewBus(roms ROMs) (*Bus, error) {
	if len(roms.Basic) != basicROMSize {
		return nil, fmt.Errorf("basic ROM must be %d bytes, got %d", basicROMSize, len(roms.Basic))
	}
	if len(roms.Kernal) != kernalROMSize {
		return nil, fmt.Errorf("kernal ROM must be %d bytes, got %d", kernalROMSize, len(roms.Kernal))
	}
	if len(roms.Char) != charROMSize {
		return nil, fmt.Errorf("char ROM must be %d bytes, got %d", charROMSize, len(roms.Char))
	}

	b := &Bus{
		direction: 0x2f,
		data:      0x37,
	}
	copy(b.basicROM[:], roms.Basic)
	copy(b.kernalROM[:], roms.Kernal)
	copy(b.charROM[:], roms.Char)
	return b, nil
}

// Attach wires the VIC-II and CIA chips into the IO address decode. It is
// a separate step from NewBus because the VIC-II reads RAM through the Bus
// (see vic.New), so construction order is: NewBus, vic.New/cia.New, Attach.
func (b *Bus) Attach(vic, ciaA, ciaB ioDevice) {
	b.vic = vic
	b.ciaA = ciaA
	b.ciaB = ciaB
}

// KernalImage returns the raw KERNAL ROM bytes, for checksum validation by
// the disk HLE component.
func (b *Bus) KernalImage() []byte {
	return b.kernalROM[:]
}

// bankBits returns the effective LORAM, HIRAM, CHAREN latch bits: a bit
// driven as an input (direction bit clear) always reads back as 1.
func (b *Bus) bankBits() (loram, hiram, charen bool) {
	effective := (b.data & b.direction) | ^b.direction
	return effective&0x01 != 0, effective&0x02 != 0, effective&0x04 != 0
}

// Read returns the byte visible at addr under the current bank
// configuration.
func (b *Bus) Read(addr uint16) uint8 {
	switch addr {
	case 0x0000:
		return b.direction
	case 0x0001:
		effective := (b.data & b.direction) | ^b.direction
		return effective
	}

	loram, hiram, charen := b.bankBits()

	switch {
	case addr >= basicBase && addr < ioBase:
		if loram && hiram {
			return b.basicROM[addr-basicBase]
		}
		return b.ram[addr]

	case addr >= ioBase && addr <= ioTop:
		if !charen && (loram || hiram) {
			return b.charROM[addr-ioBase]
		}
		if !loram && !hiram {
			return b.ram[addr]
		}
		return b.readIO(addr)

	case addr >= kernalBase:
		if hiram {
			return b.kernalROM[addr-kernalBase]
		}
		return b.ram[addr]

	default:
		return b.ram[addr]
	}
}

// Write stores a byte at addr. Writes always land in underlying RAM even
// when a ROM is currently visible for reads, except for writes that are
// claimed by an IO device.
func (b *Bus) Write(addr uint16, value uint8) {
	switch addr {
	case 0x0000:
		b.direction = value
		return
	case 0x0001:
		b.data = value
		return
	}

	loram, hiram, charen := b.bankBits()

	if addr >= ioBase && addr <= ioTop && charen && (loram || hiram) {
		b.writeIO(addr, value)
		return
	}

	b.ram[addr] = value
}

// ColorRAM reads one nibble of color RAM directly by cell index (0..999 for
// a 40x25 text screen), bypassing CPU bank switching. VIC-II uses this to
// build a framebuffer snapshot.
func (b *Bus) ColorRAM(cell int) uint8 {
	return b.colorRAM[cell] & 0x0f
}

// ReadChar reads the character generator at offset (0..4095), independent
// of what the CPU currently sees at $D000 — VIC-II always has its own
// view of the character generator.
func (b *Bus) ReadChar(offset uint16) uint8 {
	return b.charROM[offset&0x0fff]
}

// ReadRAM reads straight through to RAM, bypassing bank switching. VIC-II
// uses this for its video matrix and framebuffer reads, which always come
// from RAM regardless of what the CPU currently has banked in at $A000 or
// $D000.
func (b *Bus) ReadRAM(addr uint16) uint8 {
	return b.ram[addr]
}

// WriteRAM writes straight through to RAM. Used by the disk HLE component
// to land loaded program data regardless of the current bank
// configuration (LOAD always targets RAM).
func (b *Bus) WriteRAM(addr uint16, value uint8) {
	b.ram[addr] = value
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr >= vicBase && addr <= vicTop:
		if b.vic == nil {
			return 0xff
		}
		return b.vic.ReadReg(uint8(addr & 0x3f))
	case addr >= colorBase && addr <= colorTop:
		return b.colorRAM[addr-colorBase] & 0x0f
	case addr >= ciaABase && addr <= ciaATop:
		if b.ciaA == nil {
			return 0xff
		}
		return b.ciaA.ReadReg(uint8(addr & 0x0f))
	case addr >= ciaBBase && addr <= ciaBTop:
		if b.ciaB == nil {
			return 0xff
		}
		return b.ciaB.ReadReg(uint8(addr & 0x0f))
	default:
		return 0xff
	}
}

func (b *Bus) writeIO(addr uint16, value uint8) {
	switch {
	case addr >= vicBase && addr <= vicTop:
		if b.vic != nil {
			b.vic.WriteReg(uint8(addr&0x3f), value)
		}
	case addr >= colorBase && addr <= colorTop:
		b.colorRAM[addr-colorBase] = value & 0x0f
	case addr >= ciaABase && addr <= ciaATop:
		if b.ciaA != nil {
			b.ciaA.WriteReg(uint8(addr&0x0f), value)
		}
	case addr >= ciaBBase && addr <= ciaBTop:
		if b.ciaB != nil {
			b.ciaB.WriteReg(uint8(addr&0x0f), value)
		}
	}
}

/*
   CPU: addressing modes and the opcode dispatch table.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package cpu

type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

// resolve computes the effective address for mode, advancing PC past any
// operand bytes, and reports whether an indexed access crossed a page
// boundary (the +1 cycle cases documented in the MOS table). For
// modeAccumulator and modeImplied there is no address; callers that need
// one (shifts) special-case modeAccumulator themselves.
func (c *CPU) resolve(bus Bus, mode addrMode) (addr uint16, pageCrossed bool) {
	switch mode {
	case modeImplied, modeAccumulator:
		return 0, false

	case modeImmediate:
		addr = c.PC
		c.PC++
		return addr, false

	case modeZeroPage:
		addr = uint16(bus.Read(c.PC))
		c.PC++
		return addr, false

	case modeZeroPageX:
		addr = uint16(uint8(bus.Read(c.PC) + c.X))
		c.PC++
		return addr, false

	case modeZeroPageY:
		addr = uint16(uint8(bus.Read(c.PC) + c.Y))
		c.PC++
		return addr, false

	case modeAbsolute:
		addr = c.readWordAt(bus, c.PC)
		c.PC += 2
		return addr, false

	case modeAbsoluteX:
		base := c.readWordAt(bus, c.PC)
		c.PC += 2
		addr = base + uint16(c.X)
		return addr, (base & 0xff00) != (addr & 0xff00)

	case modeAbsoluteY:
		base := c.readWordAt(bus, c.PC)
		c.PC += 2
		addr = base + uint16(c.Y)
		return addr, (base & 0xff00) != (addr & 0xff00)

	case modeIndirect:
		ptr := c.readWordAt(bus, c.PC)
		c.PC += 2
		return c.readWordBug(bus, ptr), false

	case modeIndirectX:
		zp := bus.Read(c.PC) + c.X
		c.PC++
		addr = c.readWordZP(bus, zp)
		return addr, false

	case modeIndirectY:
		zp := bus.Read(c.PC)
		c.PC++
		base := c.readWordZP(bus, zp)
		addr = base + uint16(c.Y)
		return addr, (base & 0xff00) != (addr & 0xff00)

	case modeRelative:
		offset := int8(bus.Read(c.PC))
		c.PC++
		addr = uint16(int32(c.PC) + int32(offset))
		return addr, (c.PC & 0xff00) != (addr & 0xff00)
	}
	return 0, false
}

// readWordAt reads a little-endian word with no addressing quirks.
func (c *CPU) readWordAt(bus Bus, addr uint16) uint16 {
	lo := bus.Read(addr)
	hi := bus.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// readWordZP reads a little-endian word from zero page, wrapping within
// the page (the pointer never crosses into page 1).
func (c *CPU) readWordZP(bus Bus, zp uint8) uint16 {
	lo := bus.Read(uint16(zp))
	hi := bus.Read(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// readWordBug reproduces the documented JMP (indirect) page-wrap bug: if
// the pointer's low byte is $FF, the high byte is fetched from the start
// of the same page rather than the next page.
func (c *CPU) readWordBug(bus Bus, ptr uint16) uint16 {
	lo := bus.Read(ptr)
	hiAddr := (ptr & 0xff00) | uint16(uint8(ptr)+1)
	hi := bus.Read(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

type opcodeEntry struct {
	mnemonic    string
	mode        addrMode
	cycles      int
	pagePenalty bool
	exec        func(c *CPU, bus Bus, addr uint16)
}

var opcodeTable [256]opcodeEntry

func op(code uint8, mnemonic string, mode addrMode, cycles int, pagePenalty bool, fn func(c *CPU, bus Bus, addr uint16)) {
	opcodeTable[code] = opcodeEntry{mnemonic: mnemonic, mode: mode, cycles: cycles, pagePenalty: pagePenalty, exec: fn}
}

// Mnemonic returns the mnemonic of opcode, or "???" if it is undefined,
// for use by the disassembler and debug console.
func Mnemonic(opcode uint8) string {
	if opcodeTable[opcode].exec == nil {
		return "???"
	}
	return opcodeTable[opcode].mnemonic
}

// Mode exposes the addressing mode of opcode to the disassembler.
func Mode(opcode uint8) int {
	return int(opcodeTable[opcode].mode)
}

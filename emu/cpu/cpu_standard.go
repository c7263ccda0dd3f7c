/*
   CPU: the 151 documented MOS 6502 instructions.

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

func init() {
	registerLoadStore()
	registerTransfers()
	registerStack()
	registerLogic()
	registerArithmetic()
	registerShifts()
	registerBranches()
	registerJumps()
	registerFlags()
	registerMisc()
}

func registerLoadStore() {
	lda := func(c *CPU, bus Bus, addr uint16) { c.A = bus.Read(addr); c.setZN(c.A) }
	ldx := func(c *CPU, bus Bus, addr uint16) { c.X = bus.Read(addr); c.setZN(c.X) }
	ldy := func(c *CPU, bus Bus, addr uint16) { c.Y = bus.Read(addr); c.setZN(c.Y) }
	sta := func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.A) }
	stx := func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.X) }
	sty := func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.Y) }

	op(0xa9, "LDA", modeImmediate, 2, false, lda)
	op(0xa5, "LDA", modeZeroPage, 3, false, lda)
	op(0xb5, "LDA", modeZeroPageX, 4, false, lda)
	op(0xad, "LDA", modeAbsolute, 4, false, lda)
	op(0xbd, "LDA", modeAbsoluteX, 4, true, lda)
	op(0xb9, "LDA", modeAbsoluteY, 4, true, lda)
	op(0xa1, "LDA", modeIndirectX, 6, false, lda)
	op(0xb1, "LDA", modeIndirectY, 5, true, lda)

	op(0xa2, "LDX", modeImmediate, 2, false, ldx)
	op(0xa6, "LDX", modeZeroPage, 3, false, ldx)
	op(0xb6, "LDX", modeZeroPageY, 4, false, ldx)
	op(0xae, "LDX", modeAbsolute, 4, false, ldx)
	op(0xbe, "LDX", modeAbsoluteY, 4, true, ldx)

	op(0xa0, "LDY", modeImmediate, 2, false, ldy)
	op(0xa4, "LDY", modeZeroPage, 3, false, ldy)
	op(0xb4, "LDY", modeZeroPageX, 4, false, ldy)
	op(0xac, "LDY", modeAbsolute, 4, false, ldy)
	op(0xbc, "LDY", modeAbsoluteX, 4, true, ldy)

	op(0x85, "STA", modeZeroPage, 3, false, sta)
	op(0x95, "STA", modeZeroPageX, 4, false, sta)
	op(0x8d, "STA", modeAbsolute, 4, false, sta)
	op(0x9d, "STA", modeAbsoluteX, 5, false, sta)
	op(0x99, "STA", modeAbsoluteY, 5, false, sta)
	op(0x81, "STA", modeIndirectX, 6, false, sta)
	op(0x91, "STA", modeIndirectY, 6, false, sta)

	op(0x86, "STX", modeZeroPage, 3, false, stx)
	op(0x96, "STX", modeZeroPageY, 4, false, stx)
	op(0x8e, "STX", modeAbsolute, 4, false, stx)

	op(0x84, "STY", modeZeroPage, 3, false, sty)
	op(0x94, "STY", modeZeroPageX, 4, false, sty)
	op(0x8c, "STY", modeAbsolute, 4, false, sty)
}

func registerTransfers() {
	op(0xaa, "TAX", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.X = c.A; c.setZN(c.X) })
	op(0xa8, "TAY", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.Y = c.A; c.setZN(c.Y) })
	op(0xba, "TSX", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.X = c.S; c.setZN(c.X) })
	op(0x8a, "TXA", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.X; c.setZN(c.A) })
	op(0x9a, "TXS", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.S = c.X })
	op(0x98, "TYA", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.Y; c.setZN(c.A) })
}

func registerStack() {
	op(0x48, "PHA", modeImplied, 3, false, func(c *CPU, bus Bus, addr uint16) { c.push(bus, c.A) })
	op(0x08, "PHP", modeImplied, 3, false, func(c *CPU, bus Bus, addr uint16) { c.push(bus, c.P|FlagB|FlagU) })
	op(0x68, "PLA", modeImplied, 4, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.pull(bus); c.setZN(c.A) })
	op(0x28, "PLP", modeImplied, 4, false, func(c *CPU, bus Bus, addr uint16) {
		c.P = (c.pull(bus) &^ FlagB) | FlagU
	})
}

func registerLogic() {
	and := func(c *CPU, bus Bus, addr uint16) { c.A &= bus.Read(addr); c.setZN(c.A) }
	ora := func(c *CPU, bus Bus, addr uint16) { c.A |= bus.Read(addr); c.setZN(c.A) }
	eor := func(c *CPU, bus Bus, addr uint16) { c.A ^= bus.Read(addr); c.setZN(c.A) }
	bit := func(c *CPU, bus Bus, addr uint16) {
		v := bus.Read(addr)
		c.setFlag(FlagZ, c.A&v == 0)
		c.setFlag(FlagV, v&0x40 != 0)
		c.setFlag(FlagN, v&0x80 != 0)
	}

	op(0x29, "AND", modeImmediate, 2, false, and)
	op(0x25, "AND", modeZeroPage, 3, false, and)
	op(0x35, "AND", modeZeroPageX, 4, false, and)
	op(0x2d, "AND", modeAbsolute, 4, false, and)
	op(0x3d, "AND", modeAbsoluteX, 4, true, and)
	op(0x39, "AND", modeAbsoluteY, 4, true, and)
	op(0x21, "AND", modeIndirectX, 6, false, and)
	op(0x31, "AND", modeIndirectY, 5, true, and)

	op(0x09, "ORA", modeImmediate, 2, false, ora)
	op(0x05, "ORA", modeZeroPage, 3, false, ora)
	op(0x15, "ORA", modeZeroPageX, 4, false, ora)
	op(0x0d, "ORA", modeAbsolute, 4, false, ora)
	op(0x1d, "ORA", modeAbsoluteX, 4, true, ora)
	op(0x19, "ORA", modeAbsoluteY, 4, true, ora)
	op(0x01, "ORA", modeIndirectX, 6, false, ora)
	op(0x11, "ORA", modeIndirectY, 5, true, ora)

	op(0x49, "EOR", modeImmediate, 2, false, eor)
	op(0x45, "EOR", modeZeroPage, 3, false, eor)
	op(0x55, "EOR", modeZeroPageX, 4, false, eor)
	op(0x4d, "EOR", modeAbsolute, 4, false, eor)
	op(0x5d, "EOR", modeAbsoluteX, 4, true, eor)
	op(0x59, "EOR", modeAbsoluteY, 4, true, eor)
	op(0x41, "EOR", modeIndirectX, 6, false, eor)
	op(0x51, "EOR", modeIndirectY, 5, true, eor)

	op(0x24, "BIT", modeZeroPage, 3, false, bit)
	op(0x2c, "BIT", modeAbsolute, 4, false, bit)
}

func cmpGeneric(c *CPU, reg uint8, v uint8) {
	result := reg - v
	c.setFlag(FlagC, reg >= v)
	c.setZN(result)
}

func registerArithmetic() {
	op(0xc9, "CMP", modeImmediate, 2, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xc5, "CMP", modeZeroPage, 3, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xd5, "CMP", modeZeroPageX, 4, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xcd, "CMP", modeAbsolute, 4, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xdd, "CMP", modeAbsoluteX, 4, true, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xd9, "CMP", modeAbsoluteY, 4, true, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xc1, "CMP", modeIndirectX, 6, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })
	op(0xd1, "CMP", modeIndirectY, 5, true, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.A, bus.Read(addr)) })

	op(0xe0, "CPX", modeImmediate, 2, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.X, bus.Read(addr)) })
	op(0xe4, "CPX", modeZeroPage, 3, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.X, bus.Read(addr)) })
	op(0xec, "CPX", modeAbsolute, 4, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.X, bus.Read(addr)) })

	op(0xc0, "CPY", modeImmediate, 2, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.Y, bus.Read(addr)) })
	op(0xc4, "CPY", modeZeroPage, 3, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.Y, bus.Read(addr)) })
	op(0xcc, "CPY", modeAbsolute, 4, false, func(c *CPU, bus Bus, addr uint16) { cmpGeneric(c, c.Y, bus.Read(addr)) })

	inc := func(c *CPU, bus Bus, addr uint16) { v := bus.Read(addr) + 1; bus.Write(addr, v); c.setZN(v) }
	dec := func(c *CPU, bus Bus, addr uint16) { v := bus.Read(addr) - 1; bus.Write(addr, v); c.setZN(v) }

	op(0xe6, "INC", modeZeroPage, 5, false, inc)
	op(0xf6, "INC", modeZeroPageX, 6, false, inc)
	op(0xee, "INC", modeAbsolute, 6, false, inc)
	op(0xfe, "INC", modeAbsoluteX, 7, false, inc)

	op(0xc6, "DEC", modeZeroPage, 5, false, dec)
	op(0xd6, "DEC", modeZeroPageX, 6, false, dec)
	op(0xce, "DEC", modeAbsolute, 6, false, dec)
	op(0xde, "DEC", modeAbsoluteX, 7, false, dec)

	op(0xe8, "INX", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.X++; c.setZN(c.X) })
	op(0xc8, "INY", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.Y++; c.setZN(c.Y) })
	op(0xca, "DEX", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.X--; c.setZN(c.X) })
	op(0x88, "DEY", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.Y--; c.setZN(c.Y) })

	adc := func(c *CPU, bus Bus, addr uint16) { c.adc(bus.Read(addr)) }
	sbc := func(c *CPU, bus Bus, addr uint16) { c.sbc(bus.Read(addr)) }

	op(0x69, "ADC", modeImmediate, 2, false, adc)
	op(0x65, "ADC", modeZeroPage, 3, false, adc)
	op(0x75, "ADC", modeZeroPageX, 4, false, adc)
	op(0x6d, "ADC", modeAbsolute, 4, false, adc)
	op(0x7d, "ADC", modeAbsoluteX, 4, true, adc)
	op(0x79, "ADC", modeAbsoluteY, 4, true, adc)
	op(0x61, "ADC", modeIndirectX, 6, false, adc)
	op(0x71, "ADC", modeIndirectY, 5, true, adc)

	op(0xe9, "SBC", modeImmediate, 2, false, sbc)
	op(0xe5, "SBC", modeZeroPage, 3, false, sbc)
	op(0xf5, "SBC", modeZeroPageX, 4, false, sbc)
	op(0xed, "SBC", modeAbsolute, 4, false, sbc)
	op(0xfd, "SBC", modeAbsoluteX, 4, true, sbc)
	op(0xf9, "SBC", modeAbsoluteY, 4, true, sbc)
	op(0xe1, "SBC", modeIndirectX, 6, false, sbc)
	op(0xf1, "SBC", modeIndirectY, 5, true, sbc)
}

func registerShifts() {
	op(0x0a, "ASL", modeAccumulator, 2, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.asl(c.A) })
	op(0x06, "ASL", modeZeroPage, 5, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.asl(bus.Read(addr))) })
	op(0x16, "ASL", modeZeroPageX, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.asl(bus.Read(addr))) })
	op(0x0e, "ASL", modeAbsolute, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.asl(bus.Read(addr))) })
	op(0x1e, "ASL", modeAbsoluteX, 7, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.asl(bus.Read(addr))) })

	op(0x4a, "LSR", modeAccumulator, 2, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.lsr(c.A) })
	op(0x46, "LSR", modeZeroPage, 5, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.lsr(bus.Read(addr))) })
	op(0x56, "LSR", modeZeroPageX, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.lsr(bus.Read(addr))) })
	op(0x4e, "LSR", modeAbsolute, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.lsr(bus.Read(addr))) })
	op(0x5e, "LSR", modeAbsoluteX, 7, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.lsr(bus.Read(addr))) })

	op(0x2a, "ROL", modeAccumulator, 2, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.rol(c.A) })
	op(0x26, "ROL", modeZeroPage, 5, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.rol(bus.Read(addr))) })
	op(0x36, "ROL", modeZeroPageX, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.rol(bus.Read(addr))) })
	op(0x2e, "ROL", modeAbsolute, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.rol(bus.Read(addr))) })
	op(0x3e, "ROL", modeAbsoluteX, 7, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.rol(bus.Read(addr))) })

	op(0x6a, "ROR", modeAccumulator, 2, false, func(c *CPU, bus Bus, addr uint16) { c.A = c.ror(c.A) })
	op(0x66, "ROR", modeZeroPage, 5, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.ror(bus.Read(addr))) })
	op(0x76, "ROR", modeZeroPageX, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.ror(bus.Read(addr))) })
	op(0x6e, "ROR", modeAbsolute, 6, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.ror(bus.Read(addr))) })
	op(0x7e, "ROR", modeAbsoluteX, 7, false, func(c *CPU, bus Bus, addr uint16) { bus.Write(addr, c.ror(bus.Read(addr))) })
}

func (c *CPU) asl(v uint8) uint8 {
	c.setFlag(FlagC, v&0x80 != 0)
	v <<= 1
	c.setZN(v)
	return v
}

func (c *CPU) lsr(v uint8) uint8 {
	c.setFlag(FlagC, v&0x01 != 0)
	v >>= 1
	c.setZN(v)
	return v
}

func (c *CPU) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 1
	}
	c.setFlag(FlagC, v&0x80 != 0)
	v = (v << 1) | carryIn
	c.setZN(v)
	return v
}

func (c *CPU) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(FlagC) {
		carryIn = 0x80
	}
	c.setFlag(FlagC, v&0x01 != 0)
	v = (v >> 1) | carryIn
	c.setZN(v)
	return v
}

func registerBranches() {
	branch := func(cond func(c *CPU) bool) func(c *CPU, bus Bus, addr uint16) {
		return func(c *CPU, bus Bus, addr uint16) {
			if !cond(c) {
				return
			}
			c.branchTaken = true
			if (c.PC & 0xff00) != (addr & 0xff00) {
				c.branchCrossed = true
			}
			c.PC = addr
		}
	}

	op(0x90, "BCC", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.flag(FlagC) }))
	op(0xb0, "BCS", modeRelative, 2, false, branch(func(c *CPU) bool { return c.flag(FlagC) }))
	op(0xf0, "BEQ", modeRelative, 2, false, branch(func(c *CPU) bool { return c.flag(FlagZ) }))
	op(0xd0, "BNE", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.flag(FlagZ) }))
	op(0x30, "BMI", modeRelative, 2, false, branch(func(c *CPU) bool { return c.flag(FlagN) }))
	op(0x10, "BPL", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.flag(FlagN) }))
	op(0x50, "BVC", modeRelative, 2, false, branch(func(c *CPU) bool { return !c.flag(FlagV) }))
	op(0x70, "BVS", modeRelative, 2, false, branch(func(c *CPU) bool { return c.flag(FlagV) }))
}

func registerJumps() {
	op(0x4c, "JMP", modeAbsolute, 3, false, func(c *CPU, bus Bus, addr uint16) { c.PC = addr })
	op(0x6c, "JMP", modeIndirect, 5, false, func(c *CPU, bus Bus, addr uint16) { c.PC = addr })

	op(0x20, "JSR", modeAbsolute, 6, false, func(c *CPU, bus Bus, addr uint16) {
		c.push16(bus, c.PC-1)
		c.PC = addr
	})
	op(0x60, "RTS", modeImplied, 6, false, func(c *CPU, bus Bus, addr uint16) {
		c.PC = c.pull16(bus) + 1
	})
	op(0x40, "RTI", modeImplied, 6, false, func(c *CPU, bus Bus, addr uint16) {
		c.P = (c.pull(bus) &^ FlagB) | FlagU
		c.PC = c.pull16(bus)
	})
	op(0x00, "BRK", modeImplied, 7, false, func(c *CPU, bus Bus, addr uint16) {
		c.PC++ // BRK is a two byte instruction; the second byte is a padding/signature byte.
		c.serviceInterrupt(bus, irqVector, true)
	})
}

func registerFlags() {
	op(0x18, "CLC", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagC, false) })
	op(0x38, "SEC", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagC, true) })
	op(0xd8, "CLD", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagD, false) })
	op(0xf8, "SED", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagD, true) })
	op(0x58, "CLI", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagI, false) })
	op(0x78, "SEI", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagI, true) })
	op(0xb8, "CLV", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) { c.setFlag(FlagV, false) })
}

func registerMisc() {
	op(0xea, "NOP", modeImplied, 2, false, func(c *CPU, bus Bus, addr uint16) {})
}

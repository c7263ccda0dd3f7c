/*
   CPU: main CPU instruction fetch and execute.

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

// Package cpu implements the documented MOS 6502 instruction set: 151
// opcodes across 13 addressing modes, cycle-accurate including
// page-crossing and branch timing, and IRQ/NMI/BRK/RTI semantics. The CPU
// sees only the Bus it is given at each Step; it holds no reference to
// any other chip, matching the bus-ownership design in the machine loop.
package cpu

import "fmt"

// Status flag bits of the P register.
const (
	FlagC uint8 = 1 << 0 // Carry
	FlagZ uint8 = 1 << 1 // Zero
	FlagI uint8 = 1 << 2 // Interrupt disable
	FlagD uint8 = 1 << 3 // Decimal mode
	FlagB uint8 = 1 << 4 // Break, meaningful only in a pushed copy of P
	FlagU uint8 = 1 << 5 // Unused, always reads as 1
	FlagV uint8 = 1 << 6 // Overflow
	FlagN uint8 = 1 << 7 // Negative
)

const (
	nmiVector   = 0xfffa
	resetVector = 0xfffc
	irqVector   = 0xfffe
	stackBase   = 0x0100
)

// Bus is everything the CPU is allowed to touch.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// FatalError reports an unrecoverable emulation fault, such as decoding an
// unofficial opcode. It is returned from Step, never panicked: the core
// never panics on data the guest controls.
type FatalError struct {
	PC     uint16
	Opcode uint8
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: undefined opcode %#02x at PC=%#04x", e.Opcode, e.PC)
}

// CPU holds the complete architectural state of a 6502: registers, flags,
// and pending-interrupt latches.
type CPU struct {
	PC uint16
	A  uint8
	X  uint8
	Y  uint8
	S  uint8
	P  uint8

	irqLine    bool // level, re-asserted by Irq() before every Step that should see it
	nmiLatched bool // edge, set by Nmi(), cleared once serviced

	branchTaken   bool
	branchCrossed bool
}

// Reset loads PC from the reset vector and puts the CPU in its documented
// power-on register state.
func (c *CPU) Reset(bus Bus) {
	lo := bus.Read(resetVector)
	hi := bus.Read(resetVector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.S = 0xfd
	c.P = FlagI | FlagU
	c.A, c.X, c.Y = 0, 0, 0
	c.irqLine = false
	c.nmiLatched = false
}

// Irq asserts the IRQ line for the next Step only; a source that wants the
// interrupt taken must call Irq again on every subsequent iteration it is
// still pending, modeling a level-triggered line masked by the I flag.
func (c *CPU) Irq() {
	c.irqLine = true
}

// Nmi latches a non-maskable interrupt. It is edge-triggered: once raised
// it stays pending across Steps until serviced, and is not masked by the
// I flag.
func (c *CPU) Nmi() {
	c.nmiLatched = true
}

// Step executes exactly one instruction, or services one pending
// interrupt, and returns the number of bus cycles consumed. The count is a
// whole-instruction total: the machine loop ticks the other chips by it
// after the instruction completes, not per bus access, and this return
// value is the only place the CPU reports timing.
func (c *CPU) Step(bus Bus) (int, error) {
	if c.nmiLatched {
		c.nmiLatched = false
		c.serviceInterrupt(bus, nmiVector, false)
		return 7, nil
	}

	irqPending := c.irqLine
	c.irqLine = false
	if irqPending && c.P&FlagI == 0 {
		c.serviceInterrupt(bus, irqVector, false)
		return 7, nil
	}

	opcode := bus.Read(c.PC)
	entry := opcodeTable[opcode]
	if entry.exec == nil {
		return 0, &FatalError{PC: c.PC, Opcode: opcode}
	}
	c.PC++

	addr, pageCrossed := c.resolve(bus, entry.mode)
	entry.exec(c, bus, addr)

	cycles := entry.cycles
	if entry.pagePenalty && pageCrossed {
		cycles++
	}
	if entry.mode == modeRelative {
		if c.branchTaken {
			cycles++
			if c.branchCrossed {
				cycles++
			}
		}
		c.branchTaken = false
		c.branchCrossed = false
	}

	return cycles, nil
}

// serviceInterrupt pushes PC and P (with B set only for a software BRK)
// and loads PC from vector.
func (c *CPU) serviceInterrupt(bus Bus, vector uint16, brk bool) {
	c.push16(bus, c.PC)
	flags := c.P | FlagU
	if brk {
		flags |= FlagB
	} else {
		flags &^= FlagB
	}
	c.push(bus, flags)
	c.P |= FlagI
	lo := bus.Read(vector)
	hi := bus.Read(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(bus Bus, v uint8) {
	bus.Write(stackBase+uint16(c.S), v)
	c.S--
}

func (c *CPU) pull(bus Bus) uint8 {
	c.S++
	return bus.Read(stackBase + uint16(c.S))
}

func (c *CPU) push16(bus Bus, v uint16) {
	c.push(bus, uint8(v>>8))
	c.push(bus, uint8(v))
}

func (c *CPU) pull16(bus Bus) uint16 {
	lo := c.pull(bus)
	hi := c.pull(bus)
	return uint16(hi)<<8 | uint16(lo)
}

// ReturnFromSubroutine pops a return address and advances past it, exactly
// like the RTS opcode. It is exported for the disk HLE component, which
// intercepts a KERNAL jump-table entry before its real body ever runs and
// must return to the caller as if the call had completed normally.
func (c *CPU) ReturnFromSubroutine(bus Bus) {
	c.PC = c.pull16(bus) + 1
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool {
	return c.P&mask != 0
}

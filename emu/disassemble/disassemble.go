/*
 * go64 - 6502 disassembler.
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

// Package disassemble renders one 6502 instruction at a time as text, the
// way the debug console's "d" command needs. It reads opcode and operand
// bytes through the same Bus interface the CPU uses, so it sees memory
// exactly as the running machine does (current bank configuration
// included).
package disassemble

import (
	"fmt"

	"github.com/rcornwell/go64/emu/cpu"
)

// Bus is the subset of emu/bus.Bus the disassembler needs.
type Bus interface {
	Read(addr uint16) uint8
}

// Addressing mode order must track the iota sequence in emu/cpu/cpudefs.go;
// cpu.Mode exports the same integers for exactly this purpose.
const (
	modeImplied = iota
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

// operandLen is the number of operand bytes following the opcode for each
// addressing mode.
var operandLen = map[int]int{
	modeImplied:     0,
	modeAccumulator: 0,
	modeImmediate:   1,
	modeZeroPage:    1,
	modeZeroPageX:   1,
	modeZeroPageY:   1,
	modeAbsolute:    2,
	modeAbsoluteX:   2,
	modeAbsoluteY:   2,
	modeIndirect:    2,
	modeIndirectX:   1,
	modeIndirectY:   1,
	modeRelative:    1,
}

// Instruction is one decoded instruction: its address, raw bytes, and
// rendered text ("LDA $0400,X").
type Instruction struct {
	Addr  uint16
	Bytes []uint8
	Text  string
}

// One decodes the instruction at addr and returns it along with the
// address of the next instruction.
func One(bus Bus, addr uint16) (Instruction, uint16) {
	opcode := bus.Read(addr)
	mnemonic := cpu.Mnemonic(opcode)
	mode := cpu.Mode(opcode)

	n := operandLen[mode]
	raw := make([]uint8, 1+n)
	raw[0] = opcode
	for i := 0; i < n; i++ {
		raw[1+i] = bus.Read(addr + 1 + uint16(i))
	}

	text := mnemonic + operandText(mode, addr, raw)
	return Instruction{Addr: addr, Bytes: raw, Text: text}, addr + uint16(len(raw))
}

// Many decodes count instructions starting at addr.
func Many(bus Bus, addr uint16, count int) []Instruction {
	out := make([]Instruction, 0, count)
	for i := 0; i < count; i++ {
		var instr Instruction
		instr, addr = One(bus, addr)
		out = append(out, instr)
	}
	return out
}

func operandText(mode int, addr uint16, raw []uint8) string {
	switch mode {
	case modeImplied:
		return ""
	case modeAccumulator:
		return " A"
	case modeImmediate:
		return fmt.Sprintf(" #$%02X", raw[1])
	case modeZeroPage:
		return fmt.Sprintf(" $%02X", raw[1])
	case modeZeroPageX:
		return fmt.Sprintf(" $%02X,X", raw[1])
	case modeZeroPageY:
		return fmt.Sprintf(" $%02X,Y", raw[1])
	case modeAbsolute:
		return fmt.Sprintf(" $%02X%02X", raw[2], raw[1])
	case modeAbsoluteX:
		return fmt.Sprintf(" $%02X%02X,X", raw[2], raw[1])
	case modeAbsoluteY:
		return fmt.Sprintf(" $%02X%02X,Y", raw[2], raw[1])
	case modeIndirect:
		return fmt.Sprintf(" ($%02X%02X)", raw[2], raw[1])
	case modeIndirectX:
		return fmt.Sprintf(" ($%02X,X)", raw[1])
	case modeIndirectY:
		return fmt.Sprintf(" ($%02X),Y", raw[1])
	case modeRelative:
		target := addr + 2 + uint16(int8(raw[1]))
		return fmt.Sprintf(" $%04X", target)
	default:
		return ""
	}
}

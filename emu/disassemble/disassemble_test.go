/*
 * go64 - disassembler tests.
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

package disassemble

import "testing"

type fakeBus struct {
	mem [65536]byte
}

func (f *fakeBus) Read(addr uint16) uint8 { return f.mem[addr] }

func TestOneImmediate(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0xa9 // LDA #$42
	b.mem[0x0401] = 0x42
	instr, next := One(b, 0x0400)
	if instr.Text != "LDA #$42" {
		t.Errorf("Text = %q, want %q", instr.Text, "LDA #$42")
	}
	if next != 0x0402 {
		t.Errorf("next = %#04x, want $0402", next)
	}
}

func TestOneAbsoluteIndexed(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0x9d // STA $0400,X
	b.mem[0x0401] = 0x00
	b.mem[0x0402] = 0x04
	instr, next := One(b, 0x0400)
	if instr.Text != "STA $0400,X" {
		t.Errorf("Text = %q, want %q", instr.Text, "STA $0400,X")
	}
	if next != 0x0403 {
		t.Errorf("next = %#04x, want $0403", next)
	}
}

func TestOneZeroPageIndirectY(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0xb1 // LDA ($10),Y
	b.mem[0x0401] = 0x10
	instr, _ := One(b, 0x0400)
	if instr.Text != "LDA ($10),Y" {
		t.Errorf("Text = %q, want %q", instr.Text, "LDA ($10),Y")
	}
}

func TestOneRelativeBranchTarget(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0xd0 // BNE -2 (branches to itself)
	b.mem[0x0401] = 0xfe
	instr, _ := One(b, 0x0400)
	if instr.Text != "BNE $0400" {
		t.Errorf("Text = %q, want %q", instr.Text, "BNE $0400")
	}
}

func TestOneImplied(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0xea // NOP
	instr, next := One(b, 0x0400)
	if instr.Text != "NOP" {
		t.Errorf("Text = %q, want %q", instr.Text, "NOP")
	}
	if next != 0x0401 {
		t.Errorf("next = %#04x, want $0401", next)
	}
}

func TestOneUndefinedOpcode(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0x02 // not a documented opcode
	instr, _ := One(b, 0x0400)
	if instr.Text != "???" {
		t.Errorf("Text = %q, want %q", instr.Text, "???")
	}
}

func TestMany(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x0400] = 0xea // NOP
	b.mem[0x0401] = 0xea // NOP
	b.mem[0x0402] = 0x00 // BRK
	out := Many(b, 0x0400, 3)
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3", len(out))
	}
	if out[2].Text != "BRK" {
		t.Errorf("out[2].Text = %q, want %q", out[2].Text, "BRK")
	}
}

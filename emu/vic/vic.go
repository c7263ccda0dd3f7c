/*
 * go64 - VIC-II video chip, text mode only.
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

// Package vic implements the text-mode subset of the VIC-II video chip: the
// 47-register $D000-$D02E block, the PAL raster (312 lines of 63 cycles
// each), the raster-compare interrupt, and a framebuffer snapshot built
// straight from RAM and the character generator. Sprite and bitmap modes
// are out of scope; registers that only matter to them are still
// addressable but have no effect on the snapshot.
package vic

const (
	CyclesPerLine = 63
	TotalLines    = 312

	Columns = 40
	Rows    = 25
)

// Register offsets within $D000-$D02E, relative to $D000.
const (
	regRaster          = 0x12
	regScreenControl1  = 0x11
	regScreenControl2  = 0x16
	regMemPointers     = 0x18
	regInterrupt       = 0x19
	regInterruptEnable = 0x1a
	regBorderColor     = 0x20
	regBgColor0        = 0x21
	regBgColor3        = 0x24
)

// Bits of the $D019/$D01A interrupt latch and mask.
const (
	irqRaster  = 0x01
	irqPending = 0x80
)

// Bus is what VIC needs from the rest of the machine: the character
// generator and a RAM-only view of memory, independent of CPU bank
// switching. VIC-II always sees the same RAM regardless of what the CPU
// currently has banked in.
type Bus interface {
	ReadRAM(addr uint16) uint8
	ReadChar(offset uint16) uint8
}

// VIC holds the chip's register and raster-counter state.
type VIC struct {
	bus Bus

	raster uint16
	cycle  uint8

	ctrl1         uint8
	ctrl2         uint8
	rasterCompare uint16
	memPointers   uint8
	borderColor   uint8
	bgColor       [4]uint8

	irqLatch  uint8
	irqEnable uint8
}

// New returns a VIC wired to bus for its RAM and character-generator reads.
func New(bus Bus) *VIC {
	return &VIC{bus: bus}
}

// Tick advances the raster beam by cycles CPU cycles and latches a raster
// interrupt whenever the beam crosses the compare line.
func (v *VIC) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		v.cycle++
		if v.cycle < CyclesPerLine {
			continue
		}
		v.cycle = 0
		v.raster++
		if v.raster >= TotalLines {
			v.raster = 0
		}
		if v.raster == v.rasterCompare {
			v.irqLatch |= irqRaster
		}
	}
}

// IRQPending reports whether a latched, enabled interrupt is outstanding.
// The machine loop re-asserts cpu.Irq() every tick this is true, matching
// the level-triggered IRQ line CIA-A also drives.
func (v *VIC) IRQPending() bool {
	return v.irqLatch&v.irqEnable != 0
}

// ReadReg implements the bus.ioDevice interface for the $D000-$D3FF range.
func (v *VIC) ReadReg(offset uint8) uint8 {
	switch {
	case offset == regRaster:
		return uint8(v.raster)
	case offset == regScreenControl1:
		return (v.ctrl1 & 0x7f) | uint8((v.raster&0x100)>>1)
	case offset == regScreenControl2:
		return v.ctrl2
	case offset == regMemPointers:
		return v.memPointers
	case offset == regInterrupt:
		val := v.irqLatch & 0x0f
		if v.IRQPending() {
			val |= irqPending
		}
		return val
	case offset == regInterruptEnable:
		return v.irqEnable & 0x0f
	case offset == regBorderColor:
		return v.borderColor & 0x0f
	case offset >= regBgColor0 && offset <= regBgColor3:
		return v.bgColor[offset-regBgColor0] & 0x0f
	default:
		return 0xff
	}
}

// WriteReg implements the bus.ioDevice interface. $D019 follows the
// write-1-clears convention: a 1 bit clears the corresponding latch bit,
// never sets one.
func (v *VIC) WriteReg(offset uint8, value uint8) {
	switch {
	case offset == regRaster:
		v.rasterCompare = (v.rasterCompare & 0xff00) | uint16(value)
	case offset == regScreenControl1:
		v.ctrl1 = value
		v.rasterCompare = (v.rasterCompare & 0x00ff) | (uint16(value&0x80) << 1)
	case offset == regScreenControl2:
		v.ctrl2 = value
	case offset == regMemPointers:
		v.memPointers = value
	case offset == regInterrupt:
		v.irqLatch &^= value
	case offset == regInterruptEnable:
		v.irqEnable = value & 0x0f
	case offset == regBorderColor:
		v.borderColor = value & 0x0f
	case offset >= regBgColor0 && offset <= regBgColor3:
		v.bgColor[offset-regBgColor0] = value & 0x0f
	}
}

// Framebuffer is a snapshot of the 40x25 text screen: one screen code and
// one color-RAM nibble per cell, in row-major order.
type Framebuffer struct {
	Screen [Columns * Rows]uint8
	Color  [Columns * Rows]uint8
}

// Snapshot reads the current video matrix and color RAM and returns a
// Framebuffer. videoMatrix comes from bits 4-7 of $D018; colorBase is
// always $D800, which the bus keeps as a flat color-RAM array, so color
// cells come from the colorRAM callback while the video matrix is read
// straight from RAM.
func (v *VIC) Snapshot(colorRAM func(cell int) uint8) Framebuffer {
	videoMatrix := uint16(v.memPointers&0xf0) << 6
	var fb Framebuffer
	for cell := 0; cell < Columns*Rows; cell++ {
		fb.Screen[cell] = v.bus.ReadRAM(videoMatrix + uint16(cell))
		fb.Color[cell] = colorRAM(cell) & 0x0f
	}
	return fb
}

// Glyph returns the 8 bytes of character-generator bitmap data for screen
// code code, one byte per pixel row.
func (v *VIC) Glyph(code uint8) [8]uint8 {
	var rows [8]uint8
	for row := 0; row < 8; row++ {
		rows[row] = v.bus.ReadChar(uint16(code)*8 + uint16(row))
	}
	return rows
}

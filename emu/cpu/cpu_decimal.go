/*
   CPU: ADC/SBC, including BCD decimal mode.

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

// adc adds v and the carry flag into A. In decimal mode it performs BCD
// correction on each nibble; N, Z and V are set from the binary result per
// the NMOS/CMOS convention the 6510 follows (the flags describe the binary
// sum, not the corrected decimal one).
func (c *CPU) adc(v uint8) {
	carryIn := uint16(0)
	if c.flag(FlagC) {
		carryIn = 1
	}

	if !c.flag(FlagD) {
		sum := uint16(c.A) + uint16(v) + carryIn
		c.setFlag(FlagV, (^(uint16(c.A)^uint16(v))&(uint16(c.A)^sum))&0x80 != 0)
		c.A = uint8(sum)
		c.setFlag(FlagC, sum > 0xff)
		c.setZN(c.A)
		return
	}

	lo := (c.A & 0x0f) + (v & 0x0f) + uint8(carryIn)
	hi := (c.A >> 4) + (v >> 4)
	if lo > 9 {
		lo += 6
		hi++
	}

	binSum := uint16(c.A) + uint16(v) + carryIn
	c.setFlag(FlagV, (^(uint16(c.A)^uint16(v))&(uint16(c.A)^binSum))&0x80 != 0)
	c.setZN(uint8(binSum))

	if hi > 9 {
		hi += 6
	}
	c.setFlag(FlagC, hi > 15)
	c.A = (hi << 4) | (lo & 0x0f)
}

// sbc subtracts v and the borrow (complement of carry) from A, with the
// same decimal-mode correction and flag convention as adc.
func (c *CPU) sbc(v uint8) {
	borrowIn := uint16(0)
	if !c.flag(FlagC) {
		borrowIn = 1
	}

	diff := int16(c.A) - int16(v) - int16(borrowIn)
	binByte := uint8(diff)

	c.setFlag(FlagV, ((uint16(c.A)^uint16(v))&(uint16(c.A)^uint16(binByte)))&0x80 != 0)
	c.setFlag(FlagC, diff >= 0)
	c.setZN(binByte)

	if !c.flag(FlagD) {
		c.A = binByte
		return
	}

	lo := int16(c.A&0x0f) - int16(v&0x0f) - int16(borrowIn)
	hi := int16(c.A>>4) - int16(v>>4)
	if lo < 0 {
		lo -= 6
		hi--
	}
	if hi < 0 {
		hi -= 6
	}
	c.A = uint8(hi<<4) | (uint8(lo) & 0x0f)
}

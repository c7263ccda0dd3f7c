/*
 * go64 - 6526 CIA: timers, interrupt control, and the keyboard matrix.
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

// Package cia implements the one piece of the 6526 CIA the machine needs
// twice: two 16-bit down-counting timers and the interrupt control
// register. A single CIA is constructed for $DC00 (CIA-A, wired to IRQ and
// the keyboard matrix) and a second for $DD00 (CIA-B, wired to NMI via the
// RESTORE key). Time-of-day clock, serial port, and joystick/paddle
// handling are not modeled.
package cia

// Register offsets, relative to the chip's IO base.
const (
	PRA   = 0x00
	PRB   = 0x01
	DDRA  = 0x02
	DDRB  = 0x03
	TALo  = 0x04
	TAHi  = 0x05
	TBLo  = 0x06
	TBHi  = 0x07
	ICR   = 0x0d
	CRA   = 0x0e
	CRB   = 0x0f
)

// Control register bits shared by CRA and CRB.
const (
	crStart   uint8 = 0x01
	crPBOn    uint8 = 0x02
	crOutMode uint8 = 0x04
	crRunMode uint8 = 0x08
	crForce   uint8 = 0x10
	crInMode  uint8 = 0x20 // CRA: 0=system clock, 1=CNT; CRB uses bits 5-6 instead
)

// CRB input-mode bits occupy two bits rather than CRA's one.
const crbInModeMask uint8 = 0x60

// Interrupt Control Register bits.
const (
	IcrTA   uint8 = 0x01
	IcrTB   uint8 = 0x02
	IcrFlag uint8 = 0x10
	icrSet  uint8 = 0x80
	icrAny  uint8 = 0x80
)

// Keyboard is the column-strobe/row-readback interface the CIA-A instance
// uses to resolve PRB reads against the current PRA column selection.
type Keyboard interface {
	ScanRows(columns uint8) uint8
}

// CIA holds one chip's complete register and timer state.
type CIA struct {
	keyboard Keyboard // non-nil only for the CIA-A instance

	portA, portB uint8
	ddrA, ddrB   uint8

	timerALatch, timerA uint16
	timerBLatch, timerB uint16

	cra, crb uint8

	icrMask, icrData uint8

	timerAUnderflow bool
	timerBUnderflow bool
}

// New returns a CIA with both timers at their power-on value of $FFFF.
// Pass a non-nil Keyboard only for the instance wired to $DC00.
func New(keyboard Keyboard) *CIA {
	return &CIA{
		keyboard:    keyboard,
		timerALatch: 0xffff,
		timerA:      0xffff,
		timerBLatch: 0xffff,
		timerB:      0xffff,
	}
}

// Tick advances both timers by cycles system-clock ticks.
func (c *CIA) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		c.timerAUnderflow = false
		c.timerBUnderflow = false

		if c.cra&crStart != 0 && c.cra&crInMode == 0 {
			c.stepTimerA()
		}
		if c.crb&crStart != 0 {
			switch c.crb & crbInModeMask {
			case 0x00:
				c.stepTimerB()
			case 0x40:
				if c.timerAUnderflow {
					c.stepTimerB()
				}
			}
		}
	}
}

func (c *CIA) stepTimerA() {
	c.timerA--
	if c.timerA != 0 {
		return
	}
	c.timerAUnderflow = true
	c.icrData |= IcrTA
	if c.cra&crRunMode != 0 {
		c.cra &^= crStart
	}
	c.timerA = c.timerALatch
}

func (c *CIA) stepTimerB() {
	c.timerB--
	if c.timerB != 0 {
		return
	}
	c.timerBUnderflow = true
	c.icrData |= IcrTB
	if c.crb&crRunMode != 0 {
		c.crb &^= crStart
	}
	c.timerB = c.timerBLatch
}

// IRQPending reports whether any interrupt source currently latched in
// icrData is also enabled in icrMask: the level the machine loop must
// re-assert to the CPU every tick it stays true.
func (c *CIA) IRQPending() bool {
	return c.icrData&c.icrMask != 0
}

// SignalFlag sets the FLAG-line interrupt source (RESTORE key on CIA-B).
func (c *CIA) SignalFlag() {
	c.icrData |= IcrFlag
}

// ReadReg implements the bus.ioDevice interface.
func (c *CIA) ReadReg(offset uint8) uint8 {
	switch offset {
	case PRA:
		return c.portA
	case PRB:
		return c.readPortB()
	case DDRA:
		return c.ddrA
	case DDRB:
		return c.ddrB
	case TALo:
		return uint8(c.timerA)
	case TAHi:
		return uint8(c.timerA >> 8)
	case TBLo:
		return uint8(c.timerB)
	case TBHi:
		return uint8(c.timerB >> 8)
	case ICR:
		return c.readICR()
	case CRA:
		return c.cra
	case CRB:
		return c.crb
	default:
		return 0xff
	}
}

// WriteReg implements the bus.ioDevice interface.
func (c *CIA) WriteReg(offset uint8, value uint8) {
	switch offset {
	case PRA:
		c.portA = value
	case PRB:
		c.portB = value
	case DDRA:
		c.ddrA = value
	case DDRB:
		c.ddrB = value
	case TALo:
		c.timerALatch = (c.timerALatch & 0xff00) | uint16(value)
	case TAHi:
		c.timerALatch = (c.timerALatch & 0x00ff) | uint16(value)<<8
		c.timerA = c.timerALatch
	case TBLo:
		c.timerBLatch = (c.timerBLatch & 0xff00) | uint16(value)
	case TBHi:
		c.timerBLatch = (c.timerBLatch & 0x00ff) | uint16(value)<<8
		c.timerB = c.timerBLatch
	case ICR:
		c.writeICR(value)
	case CRA:
		c.writeCRA(value)
	case CRB:
		c.writeCRB(value)
	}
}

func (c *CIA) writeICR(value uint8) {
	if value&icrSet != 0 {
		c.icrMask |= value &^ icrSet
	} else {
		c.icrMask &^= value
	}
}

func (c *CIA) writeCRA(value uint8) {
	c.cra = value
	if value&crForce != 0 {
		c.timerA = c.timerALatch
		c.cra &^= crForce
	}
}

func (c *CIA) writeCRB(value uint8) {
	c.crb = value
	if value&crForce != 0 {
		c.timerB = c.timerBLatch
		c.crb &^= crForce
	}
}

// readICR returns the latched interrupt sources with bit 7 set if any
// enabled source is pending, then clears the latch, matching real
// hardware: reading the ICR always consumes it.
func (c *CIA) readICR() uint8 {
	value := c.icrData
	if c.icrData&c.icrMask != 0 {
		value |= icrAny
	}
	c.icrData = 0
	return value
}

// readPortB resolves keyboard row readback against the current column
// strobe on Port A, for output bits driven by ddrA; bits set in ddrB read
// back the port register, and the other bits come from the keyboard rows.
func (c *CIA) readPortB() uint8 {
	if c.keyboard == nil {
		return (c.portB & c.ddrB) | (0xff &^ c.ddrB)
	}
	columns := (c.portA & c.ddrA) | (0xff &^ c.ddrA)
	rows := c.keyboard.ScanRows(columns)
	return (c.portB & c.ddrB) | (rows &^ c.ddrB)
}

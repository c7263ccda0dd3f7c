/*
 * go64 - machine loop tests.
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

package machine

import (
	"testing"
	"time"

	"github.com/rcornwell/go64/emu/bus"
	"github.com/rcornwell/go64/emu/cia"
	"github.com/rcornwell/go64/emu/cpu"
	"github.com/rcornwell/go64/emu/keyboard"
	"github.com/rcornwell/go64/emu/vic"
)

// newTestBus returns a Bus in its power-on bank configuration (BASIC and
// KERNAL ROMs visible) with the KERNAL reset vector pointed at a
// tight JMP loop, so a frame's cycle budget keeps the CPU spinning without
// ever reaching an undefined opcode.
func newTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	roms := bus.ROMs{
		Basic:  make([]byte, 8192),
		Kernal: make([]byte, 8192),
		Char:   make([]byte, 4096),
	}
	// Reset vector $FFFC/$FFFD -> $E000, offset into the KERNAL image.
	roms.Kernal[8192-4] = 0x00
	roms.Kernal[8192-3] = 0xe0
	roms.Kernal[0x0000] = 0x4c // JMP $E000
	roms.Kernal[0x0001] = 0x00
	roms.Kernal[0x0002] = 0xe0

	b, err := bus.NewBus(roms)
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	return b
}

func TestNewResetsCPUFromVector(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)

	m := New(b, c, v, ciaA, ciaB, kbd, nil)
	if m.CPU.PC != 0xe000 {
		t.Errorf("PC = %#04x, want $E000", m.CPU.PC)
	}
}

func TestRunFrameConsumesCycleBudgetAndSnapshots(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)
	m := New(b, c, v, ciaA, ciaB, kbd, nil)

	m.runFrame()

	if m.CPU.PC != 0xe000 {
		t.Errorf("PC should return to $E000 every iteration of the JMP loop, got %#04x", m.CPU.PC)
	}
	snap := m.Snapshot()
	if len(snap.Screen) != vic.Columns*vic.Rows {
		t.Errorf("snapshot screen size = %d, want %d", len(snap.Screen), vic.Columns*vic.Rows)
	}
}

func TestRunAndStopShutsDownCleanly(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)
	m := New(b, c, v, ciaA, ciaB, kbd, nil)

	m.Run()
	time.Sleep(10 * time.Millisecond)
	m.Stop()
}

func TestBreakpointHaltsBeforeExecutingTheInstruction(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)
	m := New(b, c, v, ciaA, ciaB, kbd, nil)

	m.SetBreakpoint(0xe000)
	m.runFrame()

	if m.CPU.PC != 0xe000 {
		t.Errorf("PC = %#04x, want $E000 (halted before the breakpointed instruction)", m.CPU.PC)
	}
	if m.running {
		t.Error("hitting a breakpoint should clear running")
	}

	m.ClearBreakpoint(0xe000)
	m.running = true
	m.runFrame()
	if m.CPU.PC != 0xe000 {
		t.Errorf("PC = %#04x, want $E000 after the JMP loop runs again", m.CPU.PC)
	}
}

func TestSubmitKeyAppliesToMatrixBeforeFrame(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)
	m := New(b, c, v, ciaA, ciaB, kbd, nil)

	// "A" is matrix position (row 1, col 2): column 2 selected (bit 2
	// clear) should read back row 1 clear once pressed.
	m.SubmitKey(KeyEvent{Key: "A", Down: true})
	m.runFrame()

	if kbd.ScanRows(0xfb)&0x02 != 0 {
		t.Error("key event should have pressed A before the frame ran")
	}

	m.SubmitKey(KeyEvent{Key: "A", Down: false})
	m.runFrame()

	if kbd.ScanRows(0xfb)&0x02 == 0 {
		t.Error("key-up event should have released A before the frame ran")
	}
}

func TestRestoreKeyPulsesNMIRegardlessOfMask(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil) // icrMask starts at 0: IRQPending()/FLAG alone would never fire NMI
	m := New(b, c, v, ciaA, ciaB, kbd, nil)

	m.SubmitKey(KeyEvent{Key: keyboard.Restore, Down: true})
	m.runFrame()

	// Every other test's tight JMP loop leaves PC parked at $E000 for the
	// whole frame; taking the NMI vector is the only thing that moves it.
	if m.CPU.PC == 0xe000 {
		t.Error("RESTORE should have pulsed NMI and diverted the CPU from the JMP loop")
	}
}

func TestPauseStopsFrameExecution(t *testing.T) {
	b := newTestBus(t)
	c := &cpu.CPU{}
	v := vic.New(b)
	kbd := keyboard.New()
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)
	m := New(b, c, v, ciaA, ciaB, kbd, nil)

	m.Run()
	m.Pause(true)
	time.Sleep(10 * time.Millisecond)
	m.Stop()
}

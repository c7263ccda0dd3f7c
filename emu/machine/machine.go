/*
 * go64 - machine loop: the goroutine that owns the running system.
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

// Package machine runs the emulated C64 on its own goroutine: one CPU
// instruction at a time, ticking VIC-II and both CIAs by the cycle count
// each instruction actually took, at real-time pace. The goroutine
// lifecycle (done channel, WaitGroup, one-second shutdown timeout) follows
// the same shape used throughout this codebase's other long-running
// components.
package machine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/go64/emu/bus"
	"github.com/rcornwell/go64/emu/cia"
	"github.com/rcornwell/go64/emu/cpu"
	"github.com/rcornwell/go64/emu/diskhle"
	"github.com/rcornwell/go64/emu/keyboard"
	"github.com/rcornwell/go64/emu/vic"
)

// keyEventBuffer bounds the host-key-event channel: host input arrives far
// slower than the frame rate, so this is never expected to fill.
const keyEventBuffer = 32

// KeyEvent is a host key transition submitted to the machine loop, applied
// to the CIA-A keyboard matrix before the next frame runs.
type KeyEvent struct {
	Key  string
	Down bool
}

// PAL timing: 312 raster lines of 63 cycles, refreshed 50 times a second.
const (
	CyclesPerFrame = vic.CyclesPerLine * vic.TotalLines
	frameInterval  = 20 * time.Millisecond
)

// Disk is the subset of diskhle.Disk the machine loop drives.
type Disk interface {
	Intercept(c *cpu.CPU, bus diskhle.Bus) bool
}

// Machine owns every chip and runs the instruction loop.
type Machine struct {
	Bus      *bus.Bus
	CPU      *cpu.CPU
	VIC      *vic.VIC
	CIAA     *cia.CIA
	CIAB     *cia.CIA
	Keyboard *keyboard.Matrix
	Disk     Disk

	wg      sync.WaitGroup
	done    chan struct{}
	pauseCh chan bool
	keyCh   chan KeyEvent
	running bool

	mu          sync.Mutex
	fatal       error
	snapshot    vic.Framebuffer
	breakpoints map[uint16]bool
}

// New wires the chips together: the Bus is attached to the VIC and both
// CIAs, the CPU is reset from the Bus's reset vector, and the returned
// Machine is ready for Run. kbd is the same Matrix instance passed to
// cia.New for CIA-A, kept here so host key events can be applied to it.
func New(b *bus.Bus, c *cpu.CPU, v *vic.VIC, ciaA, ciaB *cia.CIA, kbd *keyboard.Matrix, disk Disk) *Machine {
	b.Attach(v, ciaA, ciaB)
	c.Reset(b)
	return &Machine{
		Bus:         b,
		CPU:         c,
		VIC:         v,
		CIAA:        ciaA,
		CIAB:        ciaB,
		Keyboard:    kbd,
		Disk:        disk,
		done:        make(chan struct{}),
		pauseCh:     make(chan bool, 1),
		keyCh:       make(chan KeyEvent, keyEventBuffer),
		breakpoints: make(map[uint16]bool),
	}
}

// SetBreakpoint arms a breakpoint at addr: the loop pauses just before
// executing the instruction there.
func (m *Machine) SetBreakpoint(addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakpoints[addr] = true
}

// ClearBreakpoint disarms a previously set breakpoint.
func (m *Machine) ClearBreakpoint(addr uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.breakpoints, addr)
}

func (m *Machine) atBreakpoint(pc uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.breakpoints[pc]
}

// Run starts the machine loop on a new goroutine. Call Stop to shut it
// down cleanly.
func (m *Machine) Run() {
	m.wg.Add(1)
	go m.loop()
}

// Stop signals the loop to exit and waits up to one second for it to
// acknowledge, matching the shutdown convention used elsewhere in this
// codebase.
func (m *Machine) Stop() {
	close(m.done)
	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return
	case <-time.After(time.Second):
		slog.Warn("timed out waiting for machine loop to finish")
		return
	}
}

// Pause stops (true) or resumes (false) instruction execution without
// tearing down the goroutine.
func (m *Machine) Pause(paused bool) {
	select {
	case <-m.pauseCh:
	default:
	}
	m.pauseCh <- !paused
}

// SubmitKey enqueues a host key transition to be applied to the keyboard
// matrix before the next frame runs. Non-blocking: if the buffer is ever
// full the event is dropped and logged, rather than stalling the caller.
func (m *Machine) SubmitKey(ev KeyEvent) {
	select {
	case m.keyCh <- ev:
	default:
		slog.Warn("machine: key event buffer full, dropping event", "key", ev.Key)
	}
}

// Snapshot returns the most recently captured framebuffer. Safe to call
// from any goroutine.
func (m *Machine) Snapshot() vic.Framebuffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// FatalErr returns the error that stopped the CPU, if Step ever returned
// one. Safe to call from any goroutine.
func (m *Machine) FatalErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fatal
}

func (m *Machine) loop() {
	defer m.wg.Done()
	m.running = true

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case m.running = <-m.pauseCh:
		case <-ticker.C:
			if m.running {
				m.runFrame()
			}
		}
	}
}

// applyKeyEvent drives one host key transition into the CIA-A keyboard
// matrix. RESTORE is not part of the matrix: it is wired directly to
// CIA-B's FLAG line and pulses NMI on every key-down, regardless of
// CIA-B's ICR mask.
func (m *Machine) applyKeyEvent(ev KeyEvent) {
	if ev.Key == keyboard.Restore {
		if ev.Down {
			m.CIAB.SignalFlag()
			m.CPU.Nmi()
		}
		return
	}

	if m.Keyboard == nil {
		return
	}
	pos, ok := keyboard.KeyName(ev.Key)
	if !ok {
		slog.Warn("machine: unknown key event", "key", ev.Key)
		return
	}
	if ev.Down {
		m.Keyboard.Press(pos.Row, pos.Col)
	} else {
		m.Keyboard.Release(pos.Row, pos.Col)
	}
}

// drainKeyEvents applies every host key event queued since the last
// frame, in order, before the frame's instructions run.
func (m *Machine) drainKeyEvents() {
	for {
		select {
		case ev := <-m.keyCh:
			m.applyKeyEvent(ev)
		default:
			return
		}
	}
}

// runFrame executes roughly one PAL frame's worth of cycles, ticking the
// VIC and both CIAs by the exact cycle count each instruction consumed,
// and re-asserting the IRQ line on every step a source still wants it,
// matching the level-triggered contract documented on cpu.CPU.Irq.
func (m *Machine) runFrame() {
	m.drainKeyEvents()

	budget := CyclesPerFrame
	for budget > 0 {
		if m.atBreakpoint(m.CPU.PC) {
			m.running = false
			slog.Info("machine: breakpoint hit", "pc", m.CPU.PC)
			return
		}

		if m.Disk != nil && m.Disk.Intercept(m.CPU, m.Bus) {
			continue
		}

		cycles, err := m.CPU.Step(m.Bus)
		if err != nil {
			m.mu.Lock()
			m.fatal = err
			m.mu.Unlock()
			m.running = false
			slog.Error("machine: fatal CPU error", "error", err)
			return
		}

		m.VIC.Tick(cycles)
		m.CIAA.Tick(cycles)
		m.CIAB.Tick(cycles)

		if m.CIAA.IRQPending() || m.VIC.IRQPending() {
			m.CPU.Irq()
		}
		if m.CIAB.IRQPending() {
			m.CPU.Nmi()
		}

		budget -= cycles
	}

	m.mu.Lock()
	m.snapshot = m.VIC.Snapshot(m.Bus.ColorRAM)
	m.mu.Unlock()
}

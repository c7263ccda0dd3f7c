/*
 * go64 - high-level emulation of device #8 (disk).
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

// Package diskhle high-level emulates device #8: it watches the CPU's PC
// for the KERNAL jump-table entries that matter — LOAD ($FFD5), SAVE
// ($FFD8), OPEN ($FFC0), CLOSE ($FFC3), CHRIN ($FFCF) and CHROUT ($FFD2) —
// and when it sees one, performs the transfer against a host directory
// directly instead of ever running the real KERNAL/1541 floppy protocol.
// The KERNAL image is checksummed at construction; on an unrecognized
// image the HLE disables itself rather than guess at zero-page
// conventions that might not hold.
//
// OPEN/CHRIN/CHROUT model a single sequential file per logical file
// number, keyed off the LA the KERNAL's SETLFS leaves in zero page. There
// is no CHKIN/CHKOUT interception, so the "current" channel CHRIN and
// CHROUT act on is simply the most recently opened channel for device 8 —
// enough for the common OPEN/PRINT#/INPUT#/CLOSE pattern, not for a
// program juggling several device-8 channels at once.
package diskhle

import (
	"hash/crc32"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rcornwell/go64/emu/cpu"
)

// KERNAL jump-table entries intercepted. These addresses have been stable
// across every stock KERNAL revision.
const (
	vectorLoad   = 0xffd5
	vectorSave   = 0xffd8
	vectorOpen   = 0xffc0
	vectorClose  = 0xffc3
	vectorChrIn  = 0xffcf
	vectorChrOut = 0xffd2
)

// Zero-page locations the KERNAL's SETNAM/SETLFS populate before an OPEN,
// LOAD or SAVE call.
const (
	zpFilenameLen = 0xb7
	zpSecondary   = 0xb9
	zpLogical     = 0xb8
	zpDevice      = 0xba
	zpFilenameLo  = 0xbb
	zpFilenameHi  = 0xbc
)

// KERNAL error codes surfaced in the A register on a failed call.
const (
	errFileNotFound     = 4
	errDeviceNotPresent = 5
)

// knownKernalChecksums lists the CRC-32 of KERNAL images this HLE's
// zero-page assumptions have been verified against.
var knownKernalChecksums = map[uint32]string{
	0xdbe3e7c7: "901227-03 (C64 stock KERNAL)",
}

// Bus is the subset of emu/bus.Bus the disk HLE needs.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)
	KernalImage() []byte
}

// channel is one OPEN sequential file, keyed by its logical file number.
type channel struct {
	name    string
	writing bool
	data    []byte // unread bytes remaining, for a read channel
	file    *os.File
}

// Disk is the device #8 HLE. dir is the host directory its virtual disk
// image maps to; every *.prg file in it is a program LOAD/directory entry
// can see, and every *.seq file is a sequential file OPEN/CHRIN/CHROUT can
// see.
type Disk struct {
	dir      string
	enabled  bool
	channels map[uint8]*channel
	current  uint8
}

// New validates the KERNAL image's checksum and returns a Disk backed by
// dir. If the checksum is not one of the known-good revisions, the HLE is
// constructed disabled: Intercept always reports false and every LOAD/SAVE
// falls through to whatever the real KERNAL and device #8 would have done
// (nothing is present, since this emulator models no real drive).
func New(dir string, bus Bus) *Disk {
	sum := crc32.ChecksumIEEE(bus.KernalImage())
	name, known := knownKernalChecksums[sum]
	if !known {
		slog.Warn("disk: unrecognized KERNAL image, HLE disabled", "crc32", sum)
		return &Disk{dir: dir, enabled: false}
	}
	slog.Info("disk: KERNAL image recognized", "revision", name)
	return &Disk{dir: dir, enabled: true, channels: make(map[uint8]*channel)}
}

// Intercept checks whether c.PC is one of the watched vectors and, if so,
// performs the LOAD, SAVE, OPEN, CLOSE, CHRIN or CHROUT against the host
// directory and returns to the caller as if the real KERNAL routine had run. It reports whether it
// handled the call.
func (d *Disk) Intercept(c *cpu.CPU, bus Bus) bool {
	if !d.enabled {
		return false
	}
	switch c.PC {
	case vectorLoad:
		d.handleLoad(c, bus)
	case vectorSave:
		d.handleSave(c, bus)
	case vectorOpen:
		d.handleOpen(c, bus)
	case vectorClose:
		d.handleClose(c, bus)
	case vectorChrIn:
		d.handleChrIn(c, bus)
	case vectorChrOut:
		d.handleChrOut(c, bus)
	default:
		return false
	}
	c.ReturnFromSubroutine(bus)
	return true
}

func (d *Disk) readFilename(bus Bus) string {
	length := bus.Read(zpFilenameLen)
	ptr := uint16(bus.Read(zpFilenameLo)) | uint16(bus.Read(zpFilenameHi))<<8
	name := make([]byte, length)
	for i := range name {
		name[i] = bus.Read(ptr + uint16(i))
	}
	return sanitizeFilename(petsciiToASCII(name))
}

// sanitizeFilename strips path separators and control characters so a
// guest-supplied filename can never escape dir or reach a hidden file.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == '/' || r == '\\' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimLeft(b.String(), ".")
}

// petsciiToASCII does the minimal unshifted-PETSCII-to-ASCII conversion
// needed for filenames: letters and digits are already identical to
// ASCII in this range, so only case is folded to match host filesystems.
func petsciiToASCII(p []byte) string {
	b := make([]byte, len(p))
	for i, c := range p {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}

func (d *Disk) fail(c *cpu.CPU, code uint8) {
	c.A = code
	c.P |= cpu.FlagC
}

func (d *Disk) succeed(c *cpu.CPU) {
	c.P &^= cpu.FlagC
}

func (d *Disk) handleLoad(c *cpu.CPU, bus Bus) {
	device := bus.Read(zpDevice)
	if device != 8 {
		d.fail(c, errDeviceNotPresent)
		return
	}

	name := d.readFilename(bus)
	if name == "$" {
		d.loadDirectory(c, bus)
		return
	}

	data, err := os.ReadFile(filepath.Join(d.dir, name+".prg"))
	if err != nil {
		slog.Warn("disk: LOAD failed", "name", name, "error", err)
		d.fail(c, errFileNotFound)
		return
	}
	if len(data) < 2 {
		d.fail(c, errFileNotFound)
		return
	}

	fileLoadAddr := uint16(data[0]) | uint16(data[1])<<8
	secondary := bus.Read(zpSecondary)
	loadAddr := fileLoadAddr
	if secondary == 0 {
		loadAddr = uint16(c.X) | uint16(c.Y)<<8
	}

	payload := data[2:]
	for i, b := range payload {
		bus.WriteRAM(loadAddr+uint16(i), b)
	}

	end := loadAddr + uint16(len(payload))
	c.X = uint8(end)
	c.Y = uint8(end >> 8)
	d.succeed(c)
}

func (d *Disk) handleSave(c *cpu.CPU, bus Bus) {
	device := bus.Read(zpDevice)
	if device != 8 {
		d.fail(c, errDeviceNotPresent)
		return
	}

	name := d.readFilename(bus)
	if name == "" {
		d.fail(c, errFileNotFound)
		return
	}

	zpPtr := uint16(c.A)
	startAddr := uint16(bus.Read(zpPtr)) | uint16(bus.Read(zpPtr+1))<<8
	endAddr := uint16(c.X) | uint16(c.Y)<<8

	data := make([]byte, 2, 2+int(endAddr-startAddr))
	data[0] = uint8(startAddr)
	data[1] = uint8(startAddr >> 8)
	for addr := startAddr; addr != endAddr; addr++ {
		data = append(data, bus.ReadRAM(addr))
	}

	path := filepath.Join(d.dir, name+".prg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("disk: SAVE failed", "name", name, "error", err)
		d.fail(c, errFileNotFound)
		return
	}
	d.succeed(c)
}

// loadDirectory synthesizes the BASIC program a LOAD"$",8 normally
// produces: a fake program listing one line per host *.prg file, so
// existing software that lists the disk before loading keeps working.
func (d *Disk) loadDirectory(c *cpu.CPU, bus Bus) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		d.fail(c, errFileNotFound)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".prg") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".prg"))
	}
	sort.Strings(names)

	const loadAddr = 0x0801
	addr := uint16(loadAddr)
	lineAddr := addr

	writeLine := func(text string) {
		next := lineAddr + uint16(2+2+len(text)+1)
		bus.WriteRAM(addr, uint8(next))
		bus.WriteRAM(addr+1, uint8(next>>8))
		bus.WriteRAM(addr+2, 0)
		bus.WriteRAM(addr+3, 0)
		for i := 0; i < len(text); i++ {
			bus.WriteRAM(addr+4+uint16(i), text[i])
		}
		bus.WriteRAM(addr+4+uint16(len(text)), 0)
		lineAddr = next
		addr = next
	}

	writeLine("\"DISK\"")
	for _, n := range names {
		writeLine(n)
	}
	bus.WriteRAM(addr, 0)
	bus.WriteRAM(addr+1, 0)
	end := addr + 2

	c.X = uint8(end)
	c.Y = uint8(end >> 8)
	d.succeed(c)
}

// handleOpen implements OPEN for a sequential file: a filename ending in
// ",W" (the BASIC convention for OPEN...,S,W) opens for writing and
// truncates, anything else opens for reading. The channel is remembered
// under the LA SETLFS placed in zero page and becomes the current channel
// CHRIN/CHROUT act on.
func (d *Disk) handleOpen(c *cpu.CPU, bus Bus) {
	device := bus.Read(zpDevice)
	if device != 8 {
		d.fail(c, errDeviceNotPresent)
		return
	}

	la := bus.Read(zpLogical)
	raw := d.readFilename(bus)
	writing := strings.HasSuffix(raw, ",w")
	name, _, _ := strings.Cut(raw, ",")
	if name == "" {
		d.fail(c, errFileNotFound)
		return
	}

	path := filepath.Join(d.dir, name+".seq")
	ch := &channel{name: name, writing: writing}
	if writing {
		f, err := os.Create(path)
		if err != nil {
			slog.Warn("disk: OPEN for write failed", "name", name, "error", err)
			d.fail(c, errFileNotFound)
			return
		}
		ch.file = f
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("disk: OPEN for read failed", "name", name, "error", err)
			d.fail(c, errFileNotFound)
			return
		}
		ch.data = data
	}

	d.channels[la] = ch
	d.current = la
	d.succeed(c)
}

// handleClose flushes and releases the channel named by the LA in zero
// page. Closing a channel that was never opened is a no-op, matching the
// real KERNAL's tolerance of a redundant CLOSE.
func (d *Disk) handleClose(c *cpu.CPU, bus Bus) {
	la := bus.Read(zpLogical)
	if ch, ok := d.channels[la]; ok {
		if ch.file != nil {
			ch.file.Close()
		}
		delete(d.channels, la)
	}
	d.succeed(c)
}

// handleChrIn returns the next byte of the current channel's file in A.
// At end of file it reports errFileNotFound, the closest KERNAL error
// code this HLE has to signal "no more data" through the carry/A
// convention the rest of the package uses.
func (d *Disk) handleChrIn(c *cpu.CPU, bus Bus) {
	ch, ok := d.channels[d.current]
	if !ok || ch.writing || len(ch.data) == 0 {
		d.fail(c, errFileNotFound)
		return
	}
	c.A = ch.data[0]
	ch.data = ch.data[1:]
	d.succeed(c)
}

// handleChrOut appends the byte in A to the current channel's file.
func (d *Disk) handleChrOut(c *cpu.CPU, bus Bus) {
	ch, ok := d.channels[d.current]
	if !ok || !ch.writing || ch.file == nil {
		d.fail(c, errFileNotFound)
		return
	}
	if _, err := ch.file.Write([]byte{c.A}); err != nil {
		slog.Warn("disk: CHROUT failed", "name", ch.name, "error", err)
		d.fail(c, errFileNotFound)
		return
	}
	d.succeed(c)
}

/*
 * go64 - disk HLE tests.
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

package diskhle

import (
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/go64/emu/cpu"
)

type fakeBus struct {
	ram    [65536]byte
	kernal []byte
}

func (f *fakeBus) Read(addr uint16) uint8         { return f.ram[addr] }
func (f *fakeBus) Write(addr uint16, value uint8) { f.ram[addr] = value }
func (f *fakeBus) ReadRAM(addr uint16) uint8       { return f.ram[addr] }
func (f *fakeBus) WriteRAM(addr uint16, value uint8) { f.ram[addr] = value }
func (f *fakeBus) KernalImage() []byte             { return f.kernal }

func newTestDisk(t *testing.T, dir string) (*Disk, *fakeBus) {
	t.Helper()
	kernal := make([]byte, 8192)
	kernal[0] = 0x42
	sum := crc32.ChecksumIEEE(kernal)
	knownKernalChecksums[sum] = "test fixture"
	bus := &fakeBus{kernal: kernal}
	return New(dir, bus), bus
}

func setFilename(bus *fakeBus, name string) {
	bus.ram[zpFilenameLen] = uint8(len(name))
	bus.ram[zpFilenameLo] = 0x00
	bus.ram[zpFilenameHi] = 0x10
	for i := 0; i < len(name); i++ {
		bus.ram[0x1000+i] = name[i]
	}
}

func TestUnrecognizedKernalDisablesHLE(t *testing.T) {
	bus := &fakeBus{kernal: make([]byte, 8192)}
	d := New(t.TempDir(), bus)
	c := &cpu.CPU{PC: vectorLoad}
	if d.Intercept(c, bus) {
		t.Fatal("Intercept should be a no-op when the KERNAL checksum is unrecognized")
	}
}

func TestLoadReadsHostFileIntoRAM(t *testing.T) {
	dir := t.TempDir()
	prg := []byte{0x01, 0x08, 0xaa, 0xbb, 0xcc}
	if err := os.WriteFile(filepath.Join(dir, "hello.prg"), prg, 0o644); err != nil {
		t.Fatal(err)
	}
	d, bus := newTestDisk(t, dir)

	setFilename(bus, "hello")
	bus.ram[zpDevice] = 8
	bus.ram[zpSecondary] = 1 // use the address embedded in the file

	c := &cpu.CPU{PC: vectorLoad, S: 0xfd}
	bus.ram[0x01fe] = 0x00
	bus.ram[0x01ff] = 0x10 // fake return address for ReturnFromSubroutine
	c.S = 0xfd

	if !d.Intercept(c, bus) {
		t.Fatal("Intercept should handle the LOAD vector")
	}
	if c.P&cpu.FlagC != 0 {
		t.Fatal("carry should be clear on a successful LOAD")
	}
	if bus.ram[0x0801] != 0xaa || bus.ram[0x0802] != 0xbb || bus.ram[0x0803] != 0xcc {
		t.Fatalf("payload not loaded at $0801: %#02x %#02x %#02x", bus.ram[0x0801], bus.ram[0x0802], bus.ram[0x0803])
	}
}

func TestLoadMissingFileReturnsFileNotFound(t *testing.T) {
	d, bus := newTestDisk(t, t.TempDir())
	setFilename(bus, "nope")
	bus.ram[zpDevice] = 8
	c := &cpu.CPU{PC: vectorLoad, S: 0xfd}

	d.Intercept(c, bus)
	if c.P&cpu.FlagC == 0 {
		t.Fatal("carry should be set when the file is missing")
	}
	if c.A != errFileNotFound {
		t.Errorf("A = %d, want errFileNotFound", c.A)
	}
}

func TestLoadWrongDeviceReturnsDeviceNotPresent(t *testing.T) {
	d, bus := newTestDisk(t, t.TempDir())
	setFilename(bus, "hello")
	bus.ram[zpDevice] = 9
	c := &cpu.CPU{PC: vectorLoad, S: 0xfd}

	d.Intercept(c, bus)
	if c.A != errDeviceNotPresent {
		t.Errorf("A = %d, want errDeviceNotPresent", c.A)
	}
}

func TestSaveWritesHostFile(t *testing.T) {
	dir := t.TempDir()
	d, bus := newTestDisk(t, dir)
	setFilename(bus, "out")
	bus.ram[zpDevice] = 8

	bus.ram[0x00fb] = 0x00 // start address pointer at $00FB
	bus.ram[0x00fc] = 0x20
	bus.ram[0x2000] = 0x11
	bus.ram[0x2001] = 0x22

	c := &cpu.CPU{PC: vectorSave, S: 0xfd, A: 0xfb, X: 0x02, Y: 0x20} // end = $2002
	d.Intercept(c, bus)

	if c.P&cpu.FlagC != 0 {
		t.Fatal("carry should be clear on a successful SAVE")
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.prg"))
	if err != nil {
		t.Fatalf("expected out.prg to be written: %v", err)
	}
	want := []byte{0x00, 0x20, 0x11, 0x22}
	if string(data) != string(want) {
		t.Errorf("out.prg = %v, want %v", data, want)
	}
}

func TestSanitizeFilenameStripsPathSeparators(t *testing.T) {
	if got := sanitizeFilename("../../etc/passwd"); got != "passwd" {
		t.Errorf("sanitizeFilename = %q, want %q", got, "passwd")
	}
}

func TestOpenWriteThenChrOutWritesSeqFile(t *testing.T) {
	dir := t.TempDir()
	d, bus := newTestDisk(t, dir)
	setFilename(bus, "out,s,w")
	bus.ram[zpDevice] = 8
	bus.ram[zpLogical] = 2

	c := &cpu.CPU{PC: vectorOpen, S: 0xfd}
	if !d.Intercept(c, bus) {
		t.Fatal("Intercept should handle the OPEN vector")
	}
	if c.P&cpu.FlagC != 0 {
		t.Fatal("carry should be clear on a successful OPEN")
	}

	c = &cpu.CPU{PC: vectorChrOut, S: 0xfd, A: 'h'}
	d.Intercept(c, bus)
	c = &cpu.CPU{PC: vectorChrOut, S: 0xfd, A: 'i'}
	d.Intercept(c, bus)

	c = &cpu.CPU{PC: vectorClose, S: 0xfd}
	d.Intercept(c, bus)

	data, err := os.ReadFile(filepath.Join(dir, "out.seq"))
	if err != nil {
		t.Fatalf("expected out.seq to be written: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("out.seq = %q, want %q", data, "hi")
	}
}

func TestOpenReadThenChrInReadsSeqFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "in.seq"), []byte("ab"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, bus := newTestDisk(t, dir)
	setFilename(bus, "in")
	bus.ram[zpDevice] = 8
	bus.ram[zpLogical] = 3

	c := &cpu.CPU{PC: vectorOpen, S: 0xfd}
	if !d.Intercept(c, bus) {
		t.Fatal("Intercept should handle the OPEN vector")
	}

	c = &cpu.CPU{PC: vectorChrIn, S: 0xfd}
	d.Intercept(c, bus)
	if c.A != 'a' {
		t.Errorf("first CHRIN A = %q, want 'a'", c.A)
	}

	c = &cpu.CPU{PC: vectorChrIn, S: 0xfd}
	d.Intercept(c, bus)
	if c.A != 'b' {
		t.Errorf("second CHRIN A = %q, want 'b'", c.A)
	}

	c = &cpu.CPU{PC: vectorChrIn, S: 0xfd}
	d.Intercept(c, bus)
	if c.P&cpu.FlagC == 0 {
		t.Error("CHRIN past end of file should set carry")
	}
}

func TestChrOutWithoutOpenFails(t *testing.T) {
	d, bus := newTestDisk(t, t.TempDir())
	c := &cpu.CPU{PC: vectorChrOut, S: 0xfd, A: 'x'}
	d.Intercept(c, bus)
	if c.P&cpu.FlagC == 0 {
		t.Error("CHROUT with no open channel should set carry")
	}
}

func TestDirectoryListingEnumeratesPrgFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.prg"), []byte{0, 0}, 0o644)
	os.WriteFile(filepath.Join(dir, "b.prg"), []byte{0, 0}, 0o644)
	os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte{0}, 0o644)
	d, bus := newTestDisk(t, dir)
	setFilename(bus, "$")
	bus.ram[zpDevice] = 8

	c := &cpu.CPU{PC: vectorLoad, S: 0xfd}
	d.Intercept(c, bus)
	if c.P&cpu.FlagC != 0 {
		t.Fatal("carry should be clear after directory listing")
	}
	if bus.ram[0x0801] == 0 {
		t.Fatal("expected a BASIC line to have been written at the load address")
	}
}

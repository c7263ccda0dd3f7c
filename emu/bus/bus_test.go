/*
 * go64 - Bus and bank switching tests.
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

package bus

import "testing"

func testROMs() ROMs {
	basic := make([]byte, basicROMSize)
	kernal := make([]byte, kernalROMSize)
	char := make([]byte, charROMSize)
	for i := range basic {
		basic[i] = 0xB0
	}
	for i := range kernal {
		kernal[i] = 0xE0
	}
	for i := range char {
		char[i] = 0xC0
	}
	return ROMs{Basic: basic, Kernal: kernal, Char: char}
}

func TestNewBusRejectsBadROMSizes(t *testing.T) {
	roms := testROMs()
	roms.Basic = roms.Basic[:100]
	if _, err := NewBus(roms); err == nil {
		t.Fatal("expected error for undersized BASIC ROM")
	}
}

func TestDefaultBankingShowsROM(t *testing.T) {
	b, err := NewBus(testROMs())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	if got := b.Read(basicBase); got != 0xB0 {
		t.Errorf("BASIC ROM not visible by default, got %#02x", got)
	}
	if got := b.Read(kernalBase); got != 0xE0 {
		t.Errorf("KERNAL ROM not visible by default, got %#02x", got)
	}
}

func TestWritesToROMRegionsLandInRAM(t *testing.T) {
	b, _ := NewBus(testROMs())
	b.Write(basicBase, 0x42)
	if b.ram[basicBase] != 0x42 {
		t.Fatal("write to BASIC range did not reach RAM")
	}
	if got := b.Read(basicBase); got != 0xB0 {
		t.Fatalf("ROM read after write should still see ROM, got %#02x", got)
	}

	b.Write(0x0001, 0x30) // LORAM=0 HIRAM=0: both A000 and E000 go to RAM
	if got := b.Read(basicBase); got != 0x42 {
		t.Fatalf("expected RAM visible after banking out ROM, got %#02x", got)
	}
}

func TestProcessorPortNeverReadsRAM(t *testing.T) {
	b, _ := NewBus(testROMs())
	b.ram[0] = 0xAA
	b.ram[1] = 0xBB
	if got := b.Read(0x0000); got == 0xAA {
		t.Fatal("$0000 read leaked through to RAM")
	}
	if got := b.Read(0x0001); got == 0xBB {
		t.Fatal("$0001 read leaked through to RAM")
	}
}

func TestBankingTable(t *testing.T) {
	b, _ := NewBus(testROMs())

	cases := []struct {
		name                string
		loram, hiram, charen bool
		wantBasicROM        bool
		wantKernalROM       bool
	}{
		{"all set", true, true, true, true, true},
		{"hiram clear", true, false, true, false, false},
		{"loram clear", false, true, true, false, true},
		{"both clear", false, false, true, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			direction := byte(0x07)
			data := byte(0)
			if c.loram {
				data |= 0x01
			}
			if c.hiram {
				data |= 0x02
			}
			if c.charen {
				data |= 0x04
			}
			b.direction = direction
			b.data = data

			gotBasic := b.Read(basicBase) != b.ram[basicBase]
			if gotBasic != c.wantBasicROM {
				t.Errorf("basic ROM visibility = %v, want %v", gotBasic, c.wantBasicROM)
			}
			gotKernal := b.Read(kernalBase) != b.ram[kernalBase]
			if gotKernal != c.wantKernalROM {
				t.Errorf("kernal ROM visibility = %v, want %v", gotKernal, c.wantKernalROM)
			}
		})
	}
}

type fakeReg struct {
	reads  []uint8
	writes map[uint8]uint8
}

func (f *fakeReg) ReadReg(offset uint8) uint8 {
	f.reads = append(f.reads, offset)
	return 0x55
}

func (f *fakeReg) WriteReg(offset uint8, value uint8) {
	if f.writes == nil {
		f.writes = map[uint8]uint8{}
	}
	f.writes[offset] = value
}

func TestIODispatch(t *testing.T) {
	b, _ := NewBus(testROMs())
	b.direction = 0x07
	b.data = 0x07 // LORAM=HIRAM=CHAREN=1: IO visible at $D000

	vic := &fakeReg{}
	ciaA := &fakeReg{}
	ciaB := &fakeReg{}
	b.Attach(vic, ciaA, ciaB)

	b.Write(0xD011, 0x1b)
	if vic.writes[0x11] != 0x1b {
		t.Errorf("VIC register write not dispatched: %#v", vic.writes)
	}

	b.Write(0xDC0E, 0x81)
	if ciaA.writes[0x0e] != 0x81 {
		t.Errorf("CIA-A register write not dispatched: %#v", ciaA.writes)
	}

	b.Write(0xDD0E, 0x81)
	if ciaB.writes[0x0e] != 0x81 {
		t.Errorf("CIA-B register write not dispatched: %#v", ciaB.writes)
	}

	b.Write(0xD800, 0xFF)
	if got := b.Read(0xD800); got != 0x0F {
		t.Errorf("color RAM should mask to low nibble, got %#02x", got)
	}

	if got := b.Read(0xD500); got != 0xFF {
		t.Errorf("unmapped IO should read $FF, got %#02x", got)
	}
}

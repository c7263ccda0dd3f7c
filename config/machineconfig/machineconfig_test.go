/*
 * go64 - ROM/disk configuration section tests.
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

package machineconfig

import (
	"testing"

	config "github.com/rcornwell/go64/config/configparser"
)

func TestSetROMAppliesAllThreePaths(t *testing.T) {
	err := setROM([]config.Option{
		{Name: "basic", EqualOpt: "basic.bin"},
		{Name: "kernal", EqualOpt: "kernal.bin"},
		{Name: "char", EqualOpt: "char.bin"},
	})
	if err != nil {
		t.Fatalf("setROM: %v", err)
	}
	if ROM.Basic != "basic.bin" || ROM.Kernal != "kernal.bin" || ROM.Char != "char.bin" {
		t.Errorf("ROM = %+v", ROM)
	}
}

func TestSetROMRejectsUnknownOption(t *testing.T) {
	if err := setROM([]config.Option{{Name: "bogus", EqualOpt: "x"}}); err == nil {
		t.Error("expected an error for an unknown rom option")
	}
}

func TestSetDiskAppliesDir(t *testing.T) {
	err := setDisk([]config.Option{{Name: "dir", EqualOpt: "/tmp/disk"}})
	if err != nil {
		t.Fatalf("setDisk: %v", err)
	}
	if Disk.Dir != "/tmp/disk" {
		t.Errorf("Disk.Dir = %q, want /tmp/disk", Disk.Dir)
	}
}

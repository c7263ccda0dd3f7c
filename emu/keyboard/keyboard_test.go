/*
 * go64 - keyboard matrix tests.
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

package keyboard

import "testing"

func TestPressedKeyShowsUpOnlyWhenItsColumnSelected(t *testing.T) {
	m := New()
	pos, ok := KeyName("A")
	if !ok {
		t.Fatal("expected A to be a known key")
	}
	m.Press(pos.Row, pos.Col)

	selected := uint8(0xff) &^ (1 << uint(pos.Col))
	rows := m.ScanRows(selected)
	if rows&(1<<uint(pos.Row)) != 0 {
		t.Errorf("expected row bit %d clear when column %d selected", pos.Row, pos.Col)
	}

	otherCol := (pos.Col + 1) % 8
	notSelected := uint8(0xff) &^ (1 << uint(otherCol))
	rows = m.ScanRows(notSelected)
	if rows != 0xff {
		t.Errorf("pressed key should not leak into an unrelated column scan, got %#02x", rows)
	}
}

func TestReleaseClearsKey(t *testing.T) {
	m := New()
	pos, _ := KeyName("RETURN")
	m.Press(pos.Row, pos.Col)
	m.Release(pos.Row, pos.Col)

	selected := uint8(0xff) &^ (1 << uint(pos.Col))
	if rows := m.ScanRows(selected); rows != 0xff {
		t.Errorf("released key should read as not pressed, got %#02x", rows)
	}
}

func TestUnknownKeyNameNotFound(t *testing.T) {
	if _, ok := KeyName("NOT_A_KEY"); ok {
		t.Fatal("expected unknown key name to be absent from the table")
	}
}

func TestNoColumnsSelectedReadsAllHigh(t *testing.T) {
	m := New()
	pos, _ := KeyName("SPACE")
	m.Press(pos.Row, pos.Col)
	if rows := m.ScanRows(0xff); rows != 0xff {
		t.Errorf("no column selected should read $ff regardless of pressed keys, got %#02x", rows)
	}
}

/*
 * go64 - keyboard matrix and host key translation.
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

// Package keyboard models the C64's 8x8 keyboard matrix and translates
// host key names into matrix positions. CIA-A reads it through the
// cia.Keyboard interface: Port A selects columns (active low), Port B
// reads back rows (active low).
package keyboard

// Matrix is an 8x8 grid of key states, indexed [row][col].
type Matrix struct {
	pressed [8][8]bool
}

// New returns an empty matrix with no keys pressed.
func New() *Matrix {
	return &Matrix{}
}

// Press marks the key at (row, col) down.
func (m *Matrix) Press(row, col int) {
	m.pressed[row][col] = true
}

// Release marks the key at (row, col) up.
func (m *Matrix) Release(row, col int) {
	m.pressed[row][col] = false
}

// ScanRows implements cia.Keyboard: for every column whose bit in columns
// is 0 (selected), it ORs in the pressed rows for that column, active
// low, into the returned byte.
func (m *Matrix) ScanRows(columns uint8) uint8 {
	result := uint8(0xff)
	for col := 0; col < 8; col++ {
		if columns&(1<<uint(col)) != 0 {
			continue
		}
		for row := 0; row < 8; row++ {
			if m.pressed[row][col] {
				result &^= 1 << uint(row)
			}
		}
	}
	return result
}

// Position is a (row, col) location in the matrix.
type Position struct {
	Row, Col int
}

// KeyName looks up the matrix position for a key identified by its KERNAL
// key name, e.g. "A", "RETURN", "SPACE", "F1". Names follow the
// convention the debug console and host key bindings use; case sensitive.
func KeyName(name string) (Position, bool) {
	pos, ok := keyTable[name]
	return pos, ok
}

// Restore is not part of the 8x8 matrix: it is wired directly to the
// CIA-B FLAG line and raises an NMI.
const Restore = "RESTORE"

// keyTable maps the standard C64 keyboard layout to its matrix
// coordinates, one entry per physical key.
var keyTable = map[string]Position{
	"DEL": {0, 0}, "RETURN": {0, 1}, "CRSR_RIGHT": {0, 2}, "F7": {0, 3},
	"F1": {0, 4}, "F3": {0, 5}, "F5": {0, 6}, "CRSR_DOWN": {0, 7},

	"3": {1, 0}, "W": {1, 1}, "A": {1, 2}, "4": {1, 3},
	"Z": {1, 4}, "S": {1, 5}, "E": {1, 6}, "SHIFT_LEFT": {1, 7},

	"5": {2, 0}, "R": {2, 1}, "D": {2, 2}, "6": {2, 3},
	"C": {2, 4}, "F": {2, 5}, "T": {2, 6}, "X": {2, 7},

	"7": {3, 0}, "Y": {3, 1}, "G": {3, 2}, "8": {3, 3},
	"B": {3, 4}, "H": {3, 5}, "U": {3, 6}, "V": {3, 7},

	"9": {4, 0}, "I": {4, 1}, "J": {4, 2}, "0": {4, 3},
	"M": {4, 4}, "K": {4, 5}, "O": {4, 6}, "N": {4, 7},

	"PLUS": {5, 0}, "P": {5, 1}, "L": {5, 2}, "MINUS": {5, 3},
	"PERIOD": {5, 4}, "COLON": {5, 5}, "AT": {5, 6}, "COMMA": {5, 7},

	"POUND": {6, 0}, "ASTERISK": {6, 1}, "SEMICOLON": {6, 2}, "HOME": {6, 3},
	"SHIFT_RIGHT": {6, 4}, "EQUALS": {6, 5}, "UP_ARROW": {6, 6}, "SLASH": {6, 7},

	"1": {7, 0}, "LEFT_ARROW": {7, 1}, "CTRL": {7, 2}, "2": {7, 3},
	"SPACE": {7, 4}, "COMMODORE": {7, 5}, "Q": {7, 6}, "RUN_STOP": {7, 7},
}

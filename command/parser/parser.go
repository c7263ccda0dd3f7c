/*
 * go64 - Debug console command parser.
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

// Package parser implements the debug console's command language: a
// closed set of C64-appropriate commands against a running machine.Machine,
// dispatched from a minimum-abbreviation command table the same way the
// teacher's command parser matches "co" to "continue".
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/go64/emu/cpu"
	"github.com/rcornwell/go64/emu/disassemble"
	"github.com/rcornwell/go64/emu/machine"
)

type cmd struct {
	name    string
	min     int
	process func(*cmdLine, *machine.Machine) (bool, error)
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "memory", min: 1, process: memExamine},
	{name: "disassemble", min: 1, process: disasm},
	{name: "registers", min: 3, process: registers},
	{name: "break", min: 5, process: setBreak},
	{name: "clear", min: 5, process: clearBreak},
	{name: "go", min: 2, process: goCmd},
	{name: "stop", min: 4, process: stopCmd},
	{name: "quit", min: 4, process: quit},
}

// ProcessCommand parses and executes one command line against m. It
// reports whether the console should exit.
func ProcessCommand(commandLine string, m *machine.Machine) (bool, error) {
	line := &cmdLine{line: commandLine}
	name := line.getWord()
	if name == "" {
		return false, nil
	}

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, fmt.Errorf("command not found: %s", name)
	case 1:
		return match[0].process(line, m)
	default:
		return false, fmt.Errorf("ambiguous command: %s", name)
	}
}

func matchList(name string) []cmd {
	var match []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			match = append(match, c)
		}
	}
	return match
}

// matchCommand reports whether name is a prefix of c.name at least c.min
// characters long, so "reg" matches "registers" but "re" does not.
func matchCommand(c cmd, name string) bool {
	if len(name) < c.min || len(name) > len(c.name) {
		return false
	}
	return strings.HasPrefix(c.name, name)
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

// getWord returns the next whitespace-delimited token, or "" at end of
// line.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// getAddr parses the next token as a 16-bit hex address.
func (l *cmdLine) getAddr() (uint16, error) {
	word := l.getWord()
	if word == "" {
		return 0, errors.New("expected an address")
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(word, "$"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", word, err)
	}
	return uint16(n), nil
}

// getCount parses the next token as a decimal count, defaulting to def
// when the line has run out of tokens.
func (l *cmdLine) getCount(def int) (int, error) {
	word := l.getWord()
	if word == "" {
		return def, nil
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", word, err)
	}
	return n, nil
}

func memExamine(l *cmdLine, m *machine.Machine) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	count, err := l.getCount(16)
	if err != nil {
		return false, err
	}
	var b strings.Builder
	for i := 0; i < count; i++ {
		if i%8 == 0 {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%04X:", addr+uint16(i))
		}
		fmt.Fprintf(&b, " %02X", m.Bus.Read(addr+uint16(i)))
	}
	fmt.Println(b.String())
	return false, nil
}

func disasm(l *cmdLine, m *machine.Machine) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	count, err := l.getCount(10)
	if err != nil {
		return false, err
	}
	for _, instr := range disassemble.Many(m.Bus, addr, count) {
		fmt.Printf("%04X: %s\n", instr.Addr, instr.Text)
	}
	return false, nil
}

func registers(_ *cmdLine, m *machine.Machine) (bool, error) {
	c := m.CPU
	fmt.Printf("PC=%04X A=%02X X=%02X Y=%02X S=%02X P=%02X %s\n",
		c.PC, c.A, c.X, c.Y, c.S, c.P, flagString(c.P))
	return false, nil
}

func flagString(p uint8) string {
	bits := []struct {
		mask uint8
		name byte
	}{
		{cpu.FlagN, 'N'}, {cpu.FlagV, 'V'}, {cpu.FlagU, 'U'}, {cpu.FlagB, 'B'},
		{cpu.FlagD, 'D'}, {cpu.FlagI, 'I'}, {cpu.FlagZ, 'Z'}, {cpu.FlagC, 'C'},
	}
	out := make([]byte, len(bits))
	for i, b := range bits {
		if p&b.mask != 0 {
			out[i] = b.name
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

func setBreak(l *cmdLine, m *machine.Machine) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	m.SetBreakpoint(addr)
	return false, nil
}

func clearBreak(l *cmdLine, m *machine.Machine) (bool, error) {
	addr, err := l.getAddr()
	if err != nil {
		return false, err
	}
	m.ClearBreakpoint(addr)
	return false, nil
}

func goCmd(_ *cmdLine, m *machine.Machine) (bool, error) {
	m.Pause(false)
	return false, nil
}

func stopCmd(_ *cmdLine, m *machine.Machine) (bool, error) {
	m.Pause(true)
	return false, nil
}

func quit(_ *cmdLine, _ *machine.Machine) (bool, error) {
	return true, nil
}

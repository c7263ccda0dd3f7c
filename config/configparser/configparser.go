/*
 * go64 - Configuration file parser
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

// Package configparser reads the flat go64 configuration file. Each
// subsystem that wants configuration registers a section handler from its
// own init(), the same self-registration pattern the original machine's
// configuration parser used for its devices.
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Option is a single "name" or "name=value" token parsed from a section
// line.
type Option struct {
	Name     string   // Name of option.
	EqualOpt string   // Value after '=', if any.
	Value    []string // Additional comma separated values.
}

// HasEqual reports whether the option carried an '=' value.
func (o Option) HasEqual() bool {
	return o.EqualOpt != ""
}

type optionLine struct {
	line string
	pos  int
}

/* Configuration file format:
 *
 * '#' indicates a comment, rest of line is ignored.
 * blank lines are ignored.
 * <line> := <section> *(<whitespace> <option>)
 * <section> := <string>
 * <option> := <name> ['=' <value>] *(',' <value>)
 * <value> := <string> | '"' *(<any char except '"'>) '"'
 */

var (
	sections   = map[string]func([]Option) error{}
	lineNumber int
)

// RegisterSection should be called from a package init function to claim a
// top-level section name (e.g. "rom", "disk", "debug").
func RegisterSection(name string, fn func([]Option) error) {
	sections[strings.ToUpper(name)] = fn
}

// LoadConfigFile reads and applies every section line in a configuration
// file, in order, dispatching each to its registered handler.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		text, err := reader.ReadString('\n')
		lineNumber++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if perr := parseLine(text); perr != nil {
			return perr
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	return nil
}

// ApplyOption applies a single CLI "-o section.name=value" style override
// directly to a registered section handler, bypassing the file parser.
func ApplyOption(section string, opt Option) error {
	fn, ok := sections[strings.ToUpper(section)]
	if !ok {
		return fmt.Errorf("unknown config section: %s", section)
	}
	return fn([]Option{opt})
}

func parseLine(text string) error {
	line := &optionLine{line: text}
	line.skipSpace()
	if line.isEOL() {
		return nil
	}

	name, err := line.getName()
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("invalid section name, line %d", lineNumber)
	}

	fn, ok := sections[strings.ToUpper(name)]
	if !ok {
		return fmt.Errorf("unknown config section %q, line %d", name, lineNumber)
	}

	options, err := line.parseOptions()
	if err != nil {
		return err
	}
	return fn(options)
}

func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

func (line *optionLine) getName() (string, error) {
	line.skipSpace()
	if line.isEOL() {
		return "", nil
	}
	start := line.pos
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) || by == '_' || by == '-' || by == '.' || by == '/' || by == ':' || by == '\\' {
			line.pos++
			continue
		}
		break
	}
	if line.pos == start {
		return "", fmt.Errorf("invalid token, line %d", lineNumber)
	}
	return line.line[start:line.pos], nil
}

func (line *optionLine) parseValue() (string, error) {
	line.skipSpace()
	if line.pos < len(line.line) && line.line[line.pos] == '"' {
		line.pos++
		start := line.pos
		for line.pos < len(line.line) && line.line[line.pos] != '"' {
			line.pos++
		}
		if line.pos >= len(line.line) {
			return "", fmt.Errorf("unterminated quoted string, line %d", lineNumber)
		}
		value := line.line[start:line.pos]
		line.pos++
		return value, nil
	}
	return line.getName()
}

func (line *optionLine) parseOption() (*Option, error) {
	line.skipSpace()
	if line.isEOL() {
		return nil, nil
	}

	name, err := line.getName()
	if err != nil {
		return nil, err
	}
	opt := &Option{Name: name}

	if line.pos < len(line.line) && line.line[line.pos] == '=' {
		line.pos++
		v, err := line.parseValue()
		if err != nil {
			return nil, err
		}
		opt.EqualOpt = v
	}

	line.skipSpace()
	for !line.isEOL() && line.line[line.pos] == ',' {
		line.pos++
		v, err := line.parseValue()
		if err != nil {
			return nil, err
		}
		opt.Value = append(opt.Value, v)
		line.skipSpace()
	}

	return opt, nil
}

func (line *optionLine) parseOptions() ([]Option, error) {
	options := []Option{}
	for {
		opt, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if opt == nil {
			break
		}
		options = append(options, *opt)
	}
	return options, nil
}

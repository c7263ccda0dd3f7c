/*
 * go64 - Debug options configuration.
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

// Package debugconfig wires the config file's "debug" section to the
// per subsystem levels in util/debug. Importing it for its side effect
// registers the section; see main.go's blank import.
package debugconfig

import (
	"strconv"

	config "github.com/rcornwell/go64/config/configparser"
	"github.com/rcornwell/go64/util/debug"
)

func init() {
	config.RegisterSection("debug", setDebug)
}

// setDebug applies "debug cpu vic=2 cia=1" style option lists to the
// per subsystem debug levels.
func setDebug(options []config.Option) error {
	for _, opt := range options {
		level := 1
		if opt.HasEqual() {
			n, err := strconv.Atoi(opt.EqualOpt)
			if err != nil {
				return err
			}
			level = n
		}
		debug.Set(opt.Name, level)
		for _, v := range opt.Value {
			debug.Set(v, level)
		}
	}
	return nil
}

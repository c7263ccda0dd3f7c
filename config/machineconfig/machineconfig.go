/*
 * go64 - ROM and disk HLE configuration sections.
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

// Package machineconfig registers the "rom" and "disk" configuration
// sections: ROM image paths and the disk HLE's host base directory. It
// follows the same self-registering-section convention as
// config/debugconfig, just for state main needs directly rather than a
// per-subsystem flag.
package machineconfig

import (
	"fmt"

	config "github.com/rcornwell/go64/config/configparser"
)

// ROM holds the three paths the "rom" section collected.
var ROM struct {
	Basic  string
	Kernal string
	Char   string
}

// Disk holds the base directory the "disk" section collected.
var Disk struct {
	Dir string
}

func init() {
	config.RegisterSection("rom", setROM)
	config.RegisterSection("disk", setDisk)
}

// setROM applies "rom basic=basic.901226-01.bin kernal=... char=..." style
// options.
func setROM(options []config.Option) error {
	for _, opt := range options {
		if !opt.HasEqual() {
			return fmt.Errorf("rom option %q requires a path", opt.Name)
		}
		switch opt.Name {
		case "basic":
			ROM.Basic = opt.EqualOpt
		case "kernal":
			ROM.Kernal = opt.EqualOpt
		case "char":
			ROM.Char = opt.EqualOpt
		default:
			return fmt.Errorf("unknown rom option: %s", opt.Name)
		}
	}
	return nil
}

// setDisk applies "disk dir=/path/to/disk" style options.
func setDisk(options []config.Option) error {
	for _, opt := range options {
		if opt.Name == "dir" && opt.HasEqual() {
			Disk.Dir = opt.EqualOpt
			continue
		}
		return fmt.Errorf("unknown disk option: %s", opt.Name)
	}
	return nil
}

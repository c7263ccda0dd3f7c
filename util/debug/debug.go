/*
 * go64 - Per subsystem debug levels
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

// Package debug tracks a debug level per subsystem (cpu, bus, vic, cia,
// disk, machine) and gates slog.Debug calls on it; the config file sets
// the levels with a line such as "debug cpu vic=2".
package debug

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	levels = map[string]int{}
)

// Set sets the debug level for a subsystem. Level 0 disables it.
func Set(subsystem string, level int) {
	mu.Lock()
	defer mu.Unlock()
	levels[strings.ToLower(subsystem)] = level
}

// Enabled reports whether subsystem is logging at or above level.
func Enabled(subsystem string, level int) bool {
	mu.RLock()
	defer mu.RUnlock()
	return levels[strings.ToLower(subsystem)] >= level
}

// Debugf logs a formatted message for subsystem if its level is at least
// the given level.
func Debugf(subsystem string, level int, format string, args ...any) {
	if !Enabled(subsystem, level) {
		return
	}
	slog.Debug(subsystem + ": " + fmt.Sprintf(format, args...))
}

// ParseSpec parses a comma separated "name[=level]" debug spec, e.g.
// "cpu,vic=2,cia=1", and applies it with Set. A bare name defaults to
// level 1.
func ParseSpec(spec string) error {
	if spec == "" {
		return nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, hasValue := strings.Cut(part, "=")
		level := 1
		if hasValue {
			n, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			level = n
		}
		Set(name, level)
	}
	return nil
}

/*
 * go64 - Main process.
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

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/go64/command/reader"
	config "github.com/rcornwell/go64/config/configparser"
	"github.com/rcornwell/go64/config/machineconfig"
	"github.com/rcornwell/go64/emu/bus"
	"github.com/rcornwell/go64/emu/cia"
	"github.com/rcornwell/go64/emu/cpu"
	"github.com/rcornwell/go64/emu/diskhle"
	"github.com/rcornwell/go64/emu/keyboard"
	"github.com/rcornwell/go64/emu/machine"
	"github.com/rcornwell/go64/emu/vic"
	"github.com/rcornwell/go64/util/debug"
	logger "github.com/rcornwell/go64/util/logger"

	_ "github.com/rcornwell/go64/config/debugconfig"
)

// Exit codes propagated to whatever drives this core.
const (
	exitNormal     = 0
	exitROMError   = 2
	exitFatalFault = 3
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "go64.cfg", "Configuration file")
	optROMDir := getopt.StringLong("rom-dir", 'r', "", "Override ROM search path")
	optDiskDir := getopt.StringLong("disk", 'd', "", "Override disk HLE base directory")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebugSpec := getopt.StringLong("debug", 'D', "", "Per-subsystem debug flags (e.g. cpu,vic=2)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(exitNormal)
	}

	var logFile *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("could not create log file", "error", err)
			os.Exit(exitROMError)
		}
		logFile = f
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	log := slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, *optDebugSpec != ""))
	slog.SetDefault(log)

	log.Info("go64 started")

	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		log.Error("configuration file not found", "path", *optConfig)
		os.Exit(exitROMError)
	}
	if err := config.LoadConfigFile(*optConfig); err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(exitROMError)
	}

	if *optDebugSpec != "" {
		if err := debug.ParseSpec(*optDebugSpec); err != nil {
			log.Error("parsing debug spec", "error", err)
			os.Exit(exitROMError)
		}
	}
	if *optDiskDir != "" {
		machineconfig.Disk.Dir = *optDiskDir
	}
	if *optROMDir != "" {
		machineconfig.ROM.Basic = filepath.Join(*optROMDir, filepath.Base(machineconfig.ROM.Basic))
		machineconfig.ROM.Kernal = filepath.Join(*optROMDir, filepath.Base(machineconfig.ROM.Kernal))
		machineconfig.ROM.Char = filepath.Join(*optROMDir, filepath.Base(machineconfig.ROM.Char))
	}

	roms, err := loadROMs()
	if err != nil {
		log.Error("loading ROM images", "error", err)
		os.Exit(exitROMError)
	}

	b, err := bus.NewBus(roms)
	if err != nil {
		log.Error("constructing bus", "error", err)
		os.Exit(exitROMError)
	}

	kbd := keyboard.New()
	c := &cpu.CPU{}
	v := vic.New(b)
	ciaA := cia.New(kbd)
	ciaB := cia.New(nil)

	diskDir := machineconfig.Disk.Dir
	if diskDir == "" {
		diskDir = "."
	}
	disk := diskhle.New(diskDir, b)

	m := machine.New(b, c, v, ciaA, ciaB, kbd, disk)
	m.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	consoleDone := make(chan struct{})
	go func() {
		reader.ConsoleReader(m)
		close(consoleDone)
	}()

	select {
	case <-sigChan:
		log.Info("received shutdown signal")
	case <-consoleDone:
		log.Info("console exited")
	}

	log.Info("shutting down machine")
	m.Stop()
	if fatal := m.FatalErr(); fatal != nil {
		log.Error("machine stopped on a fatal error", "error", fatal)
		os.Exit(exitFatalFault)
	}
	os.Exit(exitNormal)
}

func loadROMs() (bus.ROMs, error) {
	basic, err := os.ReadFile(machineconfig.ROM.Basic)
	if err != nil {
		return bus.ROMs{}, err
	}
	kernal, err := os.ReadFile(machineconfig.ROM.Kernal)
	if err != nil {
		return bus.ROMs{}, err
	}
	char, err := os.ReadFile(machineconfig.ROM.Char)
	if err != nil {
		return bus.ROMs{}, err
	}
	return bus.ROMs{Basic: basic, Kernal: kernal, Char: char}, nil
}

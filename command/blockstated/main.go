// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockstate/configuration"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/node"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		fmt.Printf("%s: version: %s\n", program, version)
		return
	}

	if len(options["help"]) > 0 {
		usage(program)
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile, variables(arguments))
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	setup, err := nodeOptions(theConfiguration)
	if nil != err {
		log.Criticalf("configuration error: %s", err)
		exitwithstatus.Message("configuration error: %s", err)
	}

	log.Infof("database: %q", setup.Database)
	log.Infof("cache capacity: %d  lock timeout: %s  seed on commit: %t", setup.Capacity, setup.LockTimeout, setup.SeedOnCommit)
	log.Infof("limiter: %#v", theConfiguration.Limiter)

	n, err := node.New(setup)
	if nil != err {
		log.Criticalf("node initialise error: %s", err)
		exitwithstatus.Message("node initialise error: %s", err)
	}
	n.Start()
	defer n.Stop()

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		go memstats()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

func usage(program string) {
	fmt.Printf("usage: %s [--help] [--verbose] [--quiet] [--memory-stats] --config-file=FILE [name=value...]\n", program)
	fmt.Printf("\n")
	fmt.Printf("  name=value  - set a global string variable for the configuration file\n")
}

// name=value arguments become configuration variables
func variables(arguments []string) map[string]string {
	v := make(map[string]string)
	for _, a := range arguments {
		s := strings.SplitN(a, "=", 2)
		if 2 == len(s) && "" != s[0] {
			v[s[0]] = s[1]
		}
	}
	return v
}

func nodeOptions(c *configuration.Configuration) (node.Options, error) {
	settings, err := c.LimiterSettings()
	if nil != err {
		return node.Options{}, err
	}
	timeout, err := c.LockTimeout()
	if nil != err {
		return node.Options{}, err
	}
	interval, err := c.StatisticsInterval()
	if nil != err {
		return node.Options{}, err
	}
	return node.Options{
		Database:     c.Database.Name,
		Capacity:     c.Cache.Capacity,
		LockTimeout:  timeout,
		SeedOnCommit: c.Cache.SeedOnCommit,
		Limiter:      settings,
		CommitQueue:  c.Queues.Commit,
		InboundQueue: c.Queues.Inbound,
		Statistics:   interval,
	}, nil
}

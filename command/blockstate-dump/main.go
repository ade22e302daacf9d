// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/storage"
)

// stop the dump once count items are printed
type limitReached struct{}

func (limitReached) Error() string { return "limit reached" }

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "id", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'i'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["help"]) > 0 || 1 != len(arguments) {
		exitwithstatus.Message("usage: %s [--id=N] [--count=N] database", program)
	}

	id := int64(storage.AllIDs)
	if 1 == len(options["id"]) {
		id, err = strconv.ParseInt(options["id"][0], 10, 32)
		if nil != err {
			exitwithstatus.Message("%s: invalid id: %q", program, options["id"][0])
		}
	}

	count := 0
	if 1 == len(options["count"]) {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err || count < 0 {
			exitwithstatus.Message("%s: invalid count: %q", program, options["count"][0])
		}
	}

	// the store logs, keep it out of the way
	logDirectory, err := ioutil.TempDir("", "blockstate-dump-")
	if nil != err {
		exitwithstatus.Message("%s: temporary directory error: %s", program, err)
	}
	defer os.RemoveAll(logDirectory)

	err = logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      "dump.log",
		Size:      1048576,
		Count:     1,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	if nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	store, err := storage.Open(arguments[0], storage.ReadOnly)
	if nil != err {
		exitwithstatus.Message("%s: open: %q  error: %s", program, arguments[0], err)
	}
	defer store.Close()

	number, buffer, found, err := store.Head()
	if nil != err {
		exitwithstatus.Message("%s: head error: %s", program, err)
	}
	if found {
		digest, err := block.DigestFromBytes(buffer)
		if nil != err {
			exitwithstatus.Message("%s: head digest error: %s", program, err)
		}
		fmt.Printf("head: %d  digest: %s\n", number, digest)
	} else {
		fmt.Printf("head: none\n")
	}

	n := 0
	err = store.Map(int32(id), func(key storage.Key, item storage.Item) error {
		if count > 0 && n >= count {
			return limitReached{}
		}
		fmt.Printf("%d: Key: %s\n", n, key)
		fmt.Printf("%d: Val: %x\n", n, item.Value)
		n += 1
		return nil
	})
	if _, ok := err.(limitReached); nil != err && !ok {
		exitwithstatus.Message("%s: dump error: %s", program, err)
	}
}

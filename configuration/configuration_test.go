// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/configuration"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/limiter"
)

const fullConfiguration = `
local M = {}

M.data_directory = "."
M.pidfile = "blockstated.pid"
M.statistics = "30s"

M.database = {
    directory = "db",
    name = "ledger.leveldb",
}

M.cache = {
    capacity = 1024,
    lock_timeout = "250ms",
    seed_on_commit = true,
}

M.limiter = {
    max_transactions_per_block = 10,
    max_connections = 4,
    cooldown = "20s",
    bandwidth_rate = 4096,
    bandwidth_burst = 8192,
}

M.queues = {
    commit = 16,
    inbound = 256,
}

M.logging = {
    size = 2048,
    count = 3,
    levels = {
        DEFAULT = "warn",
        cache = interface_level or "info",
    },
}

return M
`

func writeConfiguration(t *testing.T, text string) (string, string, func()) {
	dir, err := ioutil.TempDir("", "blockstate-config-")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	fileName := filepath.Join(dir, "blockstated.conf")
	err = ioutil.WriteFile(fileName, []byte(text), 0600)
	if nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
	return dir, fileName, func() { _ = os.RemoveAll(dir) }
}

func TestGetConfiguration(t *testing.T) {
	dir, fileName, remove := writeConfiguration(t, fullConfiguration)
	defer remove()

	// temporary directories may be behind a symlink
	dir, _ = filepath.Abs(dir)

	c, err := configuration.GetConfiguration(fileName, map[string]string{"interface_level": "debug"})
	assert.Nil(t, err, "GetConfiguration error")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory), "wrong data directory")
	assert.Equal(t, filepath.Join(dir, "blockstated.pid"), c.PidFile, "wrong pid file")
	assert.Equal(t, filepath.Join(dir, "db"), c.Database.Directory, "wrong database directory")
	assert.Equal(t, filepath.Join(dir, "db", "ledger.leveldb"), c.Database.Name, "wrong database name")
	assert.Equal(t, filepath.Join(dir, "log"), c.Logging.Directory, "wrong log directory")

	info, err := os.Stat(c.Database.Directory)
	assert.Nil(t, err, "database directory not created")
	assert.True(t, info.IsDir(), "database directory is not a directory")

	assert.Equal(t, 1024, c.Cache.Capacity, "wrong capacity")
	assert.True(t, c.Cache.SeedOnCommit, "seed on commit not set")
	timeout, err := c.LockTimeout()
	assert.Nil(t, err, "lock timeout error")
	assert.Equal(t, 250*time.Millisecond, timeout, "wrong lock timeout")

	interval, err := c.StatisticsInterval()
	assert.Nil(t, err, "statistics interval error")
	assert.Equal(t, 30*time.Second, interval, "wrong statistics interval")

	settings, err := c.LimiterSettings()
	assert.Nil(t, err, "limiter settings error")
	assert.Equal(t, uint64(40), settings.Threshold(), "wrong threshold")
	assert.Equal(t, 20*time.Second, settings.Cooldown, "wrong cooldown")
	assert.Equal(t, 4096, settings.BandwidthRate, "wrong bandwidth rate")
	assert.Equal(t, 8192, settings.BandwidthBurst, "wrong bandwidth burst")

	assert.Equal(t, 16, c.Queues.Commit, "wrong commit queue size")
	assert.Equal(t, 256, c.Queues.Inbound, "wrong inbound queue size")

	assert.Equal(t, 2048, c.Logging.Size, "wrong log size")
	assert.Equal(t, 3, c.Logging.Count, "wrong log count")
	assert.Equal(t, "blockstated.log", c.Logging.File, "default log file lost")
	assert.Equal(t, "debug", c.Logging.Levels["cache"], "variable not passed")
}

func TestDefaults(t *testing.T) {
	_, fileName, remove := writeConfiguration(t, `return { data_directory = "." }`)
	defer remove()

	c, err := configuration.GetConfiguration(fileName, nil)
	assert.Nil(t, err, "GetConfiguration error")

	assert.Equal(t, "", c.PidFile, "pid file by default")
	assert.Equal(t, cache.DefaultCapacity, c.Cache.Capacity, "wrong default capacity")
	assert.False(t, c.Cache.SeedOnCommit, "seeding by default")

	timeout, err := c.LockTimeout()
	assert.Nil(t, err, "lock timeout error")
	assert.Equal(t, cache.DefaultTimeout, timeout, "wrong default lock timeout")

	settings, err := c.LimiterSettings()
	assert.Nil(t, err, "limiter settings error")
	d := limiter.DefaultSettings()
	assert.Equal(t, d.Threshold(), settings.Threshold(), "wrong default threshold")
	assert.Equal(t, d.Cooldown, settings.Cooldown, "wrong default cooldown")
	assert.Equal(t, 0, settings.BandwidthRate, "bandwidth policy enabled by default")
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		text string
		err  error
	}{
		{`return { }`, fault.ErrInvalidDataDirectory},
		{`return { data_directory = "~" }`, fault.ErrInvalidDataDirectory},
		{`return { data_directory = ".", cache = { capacity = 0 } }`, fault.ErrInvalidCapacity},
		{`return { data_directory = ".", cache = { lock_timeout = "soon" } }`, fault.ErrInvalidDuration},
		{`return { data_directory = ".", limiter = { cooldown = "-1s" } }`, fault.ErrInvalidDuration},
		{`return { data_directory = ".", limiter = { max_connections = 0 } }`, fault.ErrInvalidSettings},
		{`return { data_directory = ".", database = { name = "a/b.leveldb" } }`, fault.ErrInvalidSettings},
		{`return 42`, fault.ErrInvalidConfiguration},
	}

	for i, item := range tests {
		_, fileName, remove := writeConfiguration(t, item.text)
		_, err := configuration.GetConfiguration(fileName, nil)
		assert.Equal(t, item.err, err, "%d: wrong error for: %s", i, item.text)
		remove()
	}
}

func TestMissingFile(t *testing.T) {
	_, err := configuration.GetConfiguration("/nonexistent/blockstated.conf", nil)
	assert.Equal(t, fault.ErrConfigurationFile, err, "missing file accepted")
}

func TestLuaError(t *testing.T) {
	_, fileName, remove := writeConfiguration(t, `return {`)
	defer remove()

	_, err := configuration.GetConfiguration(fileName, nil)
	assert.NotNil(t, err, "syntax error accepted")
}

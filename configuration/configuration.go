// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/limiter"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/logger"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabaseName     = "state.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "blockstated.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultStatistics = "60s"
)

// fresh map each time, the parser adds to the existing map
func defaultLogLevels() map[string]string {
	return map[string]string{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
}

// DatabaseType - location of the ledger store
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// CacheType - read cache parameters
type CacheType struct {
	Capacity     int    `gluamapper:"capacity" json:"capacity"`
	LockTimeout  string `gluamapper:"lock_timeout" json:"lock_timeout"`
	SeedOnCommit bool   `gluamapper:"seed_on_commit" json:"seed_on_commit"`
}

// LimiterType - peer admission parameters
type LimiterType struct {
	MaxTransactionsPerBlock int    `gluamapper:"max_transactions_per_block" json:"max_transactions_per_block"`
	MaxConnections          int    `gluamapper:"max_connections" json:"max_connections"`
	Cooldown                string `gluamapper:"cooldown" json:"cooldown"`
	BandwidthRate           int    `gluamapper:"bandwidth_rate" json:"bandwidth_rate"`
	BandwidthBurst          int    `gluamapper:"bandwidth_burst" json:"bandwidth_burst"`
}

// QueueType - queue sizes
type QueueType struct {
	Commit  int `gluamapper:"commit" json:"commit"`
	Inbound int `gluamapper:"inbound" json:"inbound"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Statistics    string               `gluamapper:"statistics" json:"statistics"`
	Database      DatabaseType         `gluamapper:"database" json:"database"`
	Cache         CacheType            `gluamapper:"cache" json:"cache"`
	Limiter       LimiterType          `gluamapper:"limiter" json:"limiter"`
	Queues        QueueType            `gluamapper:"queues" json:"queues"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read decode and verify the configuration
func GetConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}
	if _, err := os.Stat(configurationFileName); nil != err {
		return nil, fault.ErrConfigurationFile
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	defaultLimits := limiter.DefaultSettings()

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Statistics:    defaultStatistics,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabaseName,
		},

		Cache: CacheType{
			Capacity:    cache.DefaultCapacity,
			LockTimeout: cache.DefaultTimeout.String(),
		},

		Limiter: LimiterType{
			MaxTransactionsPerBlock: defaultLimits.MaxTransactionsPerBlock,
			MaxConnections:          defaultLimits.MaxConnections,
			Cooldown:                defaultLimits.Cooldown.String(),
		},

		Queues: QueueType{
			Commit:  messagebus.DefaultQueueSize,
			Inbound: messagebus.DefaultQueueSize,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels(),
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fault.ErrInvalidDataDirectory
	} else if "." == options.DataDirectory {
		options.DataDirectory = filepath.Clean(dataDirectory) // same directory as the configuration file
	} else {
		options.DataDirectory = ensureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fault.ErrInvalidDataDirectory
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}

	// plain file names only, placed in their directory
	if "." != filepath.Dir(options.Database.Name) || "." != filepath.Dir(options.Logging.File) {
		return nil, fault.ErrInvalidSettings
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}
	options.Database.Name = filepath.Join(options.Database.Directory, options.Database.Name)

	// check the derived values here so a bad file fails early
	if _, err := options.LimiterSettings(); nil != err {
		return nil, err
	}
	if _, err := options.LockTimeout(); nil != err {
		return nil, err
	}
	if _, err := options.StatisticsInterval(); nil != err {
		return nil, err
	}
	if options.Cache.Capacity <= 0 {
		return nil, fault.ErrInvalidCapacity
	}

	return options, nil
}

// LimiterSettings - the admission policy settings
func (c *Configuration) LimiterSettings() (limiter.Settings, error) {
	cooldown, err := parseDuration(c.Limiter.Cooldown)
	if nil != err {
		return limiter.Settings{}, err
	}
	s := limiter.Settings{
		MaxTransactionsPerBlock: c.Limiter.MaxTransactionsPerBlock,
		MaxConnections:          c.Limiter.MaxConnections,
		Cooldown:                cooldown,
		BandwidthRate:           c.Limiter.BandwidthRate,
		BandwidthBurst:          c.Limiter.BandwidthBurst,
	}
	return s, s.Validate()
}

// LockTimeout - the cache lock timeout
func (c *Configuration) LockTimeout() (time.Duration, error) {
	return parseDuration(c.Cache.LockTimeout)
}

// StatisticsInterval - period of the statistics log, zero disables
func (c *Configuration) StatisticsInterval() (time.Duration, error) {
	return parseDuration(c.Statistics)
}

func parseDuration(s string) (time.Duration, error) {
	if "" == s {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if nil != err || d < 0 {
		return 0, fault.ErrInvalidDuration
	}
	return d, nil
}

// if not absolute, prepend the directory
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

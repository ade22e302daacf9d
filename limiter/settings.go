// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limiter

import (
	"time"

	"github.com/bitmark-inc/blockstate/fault"
)

// defaults
const (
	DefaultMaxTransactionsPerBlock = 512
	DefaultMaxConnections          = 40
	DefaultCooldown                = 15 * time.Second
)

// Settings - parameters shared by all policies
type Settings struct {
	MaxTransactionsPerBlock int
	MaxConnections          int
	Cooldown                time.Duration

	// bytes per second per peer, zero disables the bandwidth policy
	BandwidthRate  int
	BandwidthBurst int

	// clock, nil selects time.Now
	Now func() time.Time
}

// DefaultSettings - protocol defaults, bandwidth policy disabled
func DefaultSettings() Settings {
	return Settings{
		MaxTransactionsPerBlock: DefaultMaxTransactionsPerBlock,
		MaxConnections:          DefaultMaxConnections,
		Cooldown:                DefaultCooldown,
	}
}

// Validate - check the settings are usable
func (s Settings) Validate() error {
	if s.MaxTransactionsPerBlock <= 0 || s.MaxConnections <= 0 {
		return fault.ErrInvalidSettings
	}
	if s.Cooldown < 0 {
		return fault.ErrInvalidDuration
	}
	if s.BandwidthRate < 0 || s.BandwidthBurst < 0 {
		return fault.ErrInvalidSettings
	}
	return nil
}

// Threshold - transaction messages a peer may send before rejection
func (s Settings) Threshold() uint64 {
	return uint64(s.MaxTransactionsPerBlock) * uint64(s.MaxConnections)
}

func (s Settings) clock() func() time.Time {
	if nil == s.Now {
		return time.Now
	}
	return s.Now
}

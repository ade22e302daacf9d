// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limiter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/fixtures"
	"github.com/bitmark-inc/blockstate/limiter"
	"github.com/bitmark-inc/blockstate/peer"
)

func newBandwidth(t *testing.T, rate int, burst int, clock *fakeClock) *limiter.Bandwidth {
	settings := limiter.DefaultSettings()
	settings.BandwidthRate = rate
	settings.BandwidthBurst = burst
	settings.Now = clock.Now

	bw, err := limiter.NewBandwidth(settings)
	if nil != err {
		t.Fatalf("NewBandwidth error: %s", err)
	}
	return bw
}

// 8 byte command + 42 byte payload
var fiftyBytes = peer.Message{Command: peer.CommandTransfer, Payload: make([]byte, 42)}

func TestBandwidth(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	clock := newFakeClock()
	bw := newBandwidth(t, 100, 100, clock)
	p := endpoint(t, "10.0.0.1:2136")
	other := endpoint(t, "10.0.0.2:2136")

	assert.True(t, bw.Evaluate(fiftyBytes, p), "first message rejected")
	assert.True(t, bw.Evaluate(fiftyBytes, p), "second message rejected")
	assert.False(t, bw.Evaluate(fiftyBytes, p), "third message accepted")
	assert.True(t, bw.Evaluate(fiftyBytes, other), "other peer rejected")

	clock.Advance(500 * time.Millisecond)
	assert.True(t, bw.Evaluate(fiftyBytes, p), "message after refill rejected")
	assert.False(t, bw.Evaluate(fiftyBytes, p), "message beyond refill accepted")

	assert.Equal(t, uint64(2), bw.Rejected(), "wrong rejected count")
}

func TestBandwidthOversized(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	bw := newBandwidth(t, 1000, 40, newFakeClock())
	p := endpoint(t, "10.0.0.1:2136")

	assert.False(t, bw.Evaluate(fiftyBytes, p), "message larger than burst accepted")
	assert.True(t, bw.Evaluate(peer.Message{Command: peer.CommandHeart}, p), "small message rejected")
}

func TestBandwidthDropsIdlePeers(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	clock := newFakeClock()
	bw := newBandwidth(t, 100, 0, clock)
	p := endpoint(t, "10.0.0.1:2136")
	other := endpoint(t, "10.0.0.2:2136")

	bw.Evaluate(fiftyBytes, p)
	clock.Advance(600 * time.Millisecond)
	bw.Evaluate(fiftyBytes, other)
	assert.Equal(t, 2, bw.Peers(), "wrong number of peers")

	// burst defaults to one second of rate
	clock.Advance(400 * time.Millisecond)
	bw.BlockCommitted(anyBlock)
	assert.Equal(t, 1, bw.Peers(), "idle peer kept or busy peer dropped")

	clock.Advance(time.Second)
	bw.BlockCommitted(anyBlock)
	assert.Equal(t, 0, bw.Peers(), "idle peer kept")

	bw.Evaluate(fiftyBytes, p)
	bw.Close()
	assert.Equal(t, 0, bw.Peers(), "peers remain after close")
}

func TestBandwidthDisabled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, err := limiter.NewBandwidth(limiter.DefaultSettings())
	assert.Equal(t, fault.ErrInvalidSettings, err, "zero rate accepted")
}

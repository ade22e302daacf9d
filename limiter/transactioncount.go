// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limiter

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/counter"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/peer"
	"github.com/bitmark-inc/logger"
)

// TransactionCount - per peer count of transaction messages
type TransactionCount struct {
	// unix nanoseconds, zero if no peer has been rejected
	lastRejection int64

	log       *logger.L
	threshold uint64
	cooldown  time.Duration
	now       func() time.Time

	// peer.Endpoint → *counter.Counter
	peers sync.Map

	rejected counter.Counter
	resets   counter.Counter
	deferred counter.Counter
}

// NewTransactionCount - create the policy, threshold is fixed here
func NewTransactionCount(settings Settings) (*TransactionCount, error) {
	err := settings.Validate()
	if nil != err {
		return nil, err
	}

	log := logger.New("limiter")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	tc := &TransactionCount{
		log:       log,
		threshold: settings.Threshold(),
		cooldown:  settings.Cooldown,
		now:       settings.clock(),
	}
	log.Infof("transaction count threshold: %d  cooldown: %s", tc.threshold, tc.cooldown)
	return tc, nil
}

// Evaluate - count transaction messages, reject beyond the threshold
//
// other messages are accepted without touching any counter; a
// rejected message is still counted
func (tc *TransactionCount) Evaluate(message peer.Message, from peer.Endpoint) bool {
	if !message.IsTransaction() {
		return true
	}

	c, ok := tc.peers.Load(from)
	if !ok {
		c, _ = tc.peers.LoadOrStore(from, new(counter.Counter))
	}

	n := c.(*counter.Counter).Increment()
	if n <= tc.threshold {
		return true
	}

	atomic.StoreInt64(&tc.lastRejection, tc.now().UnixNano())
	tc.rejected.Increment()
	tc.log.Debugf("peer: %s  transactions: %d  threshold: %d", from, n, tc.threshold)
	return false
}

// BlockCommitted - reset every peer once the cooldown has passed
func (tc *TransactionCount) BlockCommitted(b *block.Block) {
	last := atomic.LoadInt64(&tc.lastRejection)
	if 0 != last {
		elapsed := tc.now().Sub(time.Unix(0, last))
		if elapsed < tc.cooldown {
			tc.deferred.Increment()
			tc.log.Debugf("block: %d  reset deferred, last rejection: %s ago", b.Number, elapsed)
			return
		}
	}

	n := tc.clear()
	tc.resets.Increment()
	tc.log.Debugf("block: %d  reset peers: %d", b.Number, n)
}

// Close - release all counters
func (tc *TransactionCount) Close() {
	n := tc.clear()
	tc.log.Infof("closed, peers dropped: %d", n)
}

// Count - transaction messages from a peer since the last reset
func (tc *TransactionCount) Count(from peer.Endpoint) uint64 {
	c, ok := tc.peers.Load(from)
	if !ok {
		return 0
	}
	return c.(*counter.Counter).Uint64()
}

// Peers - number of peers currently counted
func (tc *TransactionCount) Peers() int {
	n := 0
	tc.peers.Range(func(key, value interface{}) bool {
		n += 1
		return true
	})
	return n
}

// TransactionStatistics - counters since creation
type TransactionStatistics struct {
	Rejected uint64
	Resets   uint64
	Deferred uint64
	Peers    int
}

// Statistics - current counter values
func (tc *TransactionCount) Statistics() TransactionStatistics {
	return TransactionStatistics{
		Rejected: tc.rejected.Uint64(),
		Resets:   tc.resets.Uint64(),
		Deferred: tc.deferred.Uint64(),
		Peers:    tc.Peers(),
	}
}

// delete every entry, concurrent increments may survive or be lost
func (tc *TransactionCount) clear() int {
	n := 0
	tc.peers.Range(func(key, value interface{}) bool {
		tc.peers.Delete(key)
		n += 1
		return true
	})
	return n
}

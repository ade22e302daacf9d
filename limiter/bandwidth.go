// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/counter"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/peer"
	"github.com/bitmark-inc/logger"
)

// Bandwidth - per peer token bucket over message bytes
type Bandwidth struct {
	sync.Mutex

	log   *logger.L
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	peers map[peer.Endpoint]*bucket

	rejected counter.Counter
	dropped  counter.Counter
}

type bucket struct {
	limiter *rate.Limiter
	used    time.Time
}

// NewBandwidth - create the policy
//
// a zero burst is taken as one second of the rate
func NewBandwidth(settings Settings) (*Bandwidth, error) {
	err := settings.Validate()
	if nil != err {
		return nil, err
	}
	if 0 == settings.BandwidthRate {
		return nil, fault.ErrInvalidSettings
	}

	log := logger.New("limiter")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	burst := settings.BandwidthBurst
	if 0 == burst {
		burst = settings.BandwidthRate
	}

	bw := &Bandwidth{
		log:   log,
		limit: rate.Limit(settings.BandwidthRate),
		burst: burst,
		idle:  time.Duration(burst) * time.Second / time.Duration(settings.BandwidthRate),
		now:   settings.clock(),
		peers: make(map[peer.Endpoint]*bucket),
	}
	log.Infof("bandwidth rate: %d bytes/s  burst: %d bytes", settings.BandwidthRate, burst)
	return bw, nil
}

// Evaluate - take the message size from the peer's bucket
//
// a message larger than the burst is always rejected
func (bw *Bandwidth) Evaluate(message peer.Message, from peer.Endpoint) bool {
	size := message.Size()
	now := bw.now()

	bw.Lock()
	b, ok := bw.peers[from]
	if !ok {
		b = &bucket{
			limiter: rate.NewLimiter(bw.limit, bw.burst),
		}
		bw.peers[from] = b
	}
	b.used = now
	allowed := b.limiter.AllowN(now, size)
	bw.Unlock()

	if !allowed {
		bw.rejected.Increment()
		bw.log.Debugf("peer: %s  command: %q  bytes: %d over budget", from, message.Command, size)
	}
	return allowed
}

// BlockCommitted - forget peers whose bucket has refilled completely
func (bw *Bandwidth) BlockCommitted(b *block.Block) {
	now := bw.now()

	bw.Lock()
	n := 0
	for e, p := range bw.peers {
		if now.Sub(p.used) >= bw.idle {
			delete(bw.peers, e)
			n += 1
		}
	}
	bw.Unlock()

	bw.dropped.Add(uint64(n))
	bw.log.Debugf("block: %d  idle peers dropped: %d", b.Number, n)
}

// Close - release all buckets
func (bw *Bandwidth) Close() {
	bw.Lock()
	n := len(bw.peers)
	bw.peers = make(map[peer.Endpoint]*bucket)
	bw.Unlock()
	bw.log.Infof("closed, peers dropped: %d", n)
}

// Peers - number of peers holding a bucket
func (bw *Bandwidth) Peers() int {
	bw.Lock()
	defer bw.Unlock()
	return len(bw.peers)
}

// Rejected - messages rejected since creation
func (bw *Bandwidth) Rejected() uint64 {
	return bw.rejected.Uint64()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/peer"
	"github.com/bitmark-inc/logger"
)

// Statistics - counters from every component
type Statistics struct {
	Height     uint64
	Committed  bool
	Dispatched uint64
	Seeded     uint64
	Cache      cache.Statistics
	Gate       peer.Counts
	Commits    int
	Inbound    int
}

// Statistics - current values
func (n *Node) Statistics() Statistics {
	height, _, committed := n.committer.Head()
	return Statistics{
		Height:     height,
		Committed:  committed,
		Dispatched: n.dispatcher.Dispatched(),
		Seeded:     n.dispatcher.Seeded(),
		Cache:      n.cache.Statistics(),
		Gate:       n.gate.Counts(),
		Commits:    n.commits.Len(),
		Inbound:    n.inbound.Len(),
	}
}

// background process writing the statistics to the log
type reporter struct {
	log      *logger.L
	node     *Node
	interval time.Duration
}

func (r *reporter) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log
	log.Info("starting…")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			s := r.node.Statistics()
			log.Infof("height: %d  dispatched: %d  seeded: %d  queued commits: %d  queued inbound: %d",
				s.Height, s.Dispatched, s.Seeded, s.Commits, s.Inbound)
			log.Infof("cache: %d/%d  hits: %d  misses: %d  unavailable: %d  rejected: %d  stale: %d  clears: %d",
				s.Cache.Count, s.Cache.Capacity, s.Cache.Hits, s.Cache.Misses, s.Cache.Unavailable, s.Cache.Rejected, s.Cache.Stale, s.Cache.Clears)
			log.Infof("peer messages accepted: %d  rejected: %d  dropped: %d",
				s.Gate.Accepted, s.Gate.Rejected, s.Gate.Dropped)
		}
	}
	log.Info("stopped")
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node - one running instance of the block state layer
//
// owns the store, the read cache and the admission policies and
// connects them through the commit and inbound queues
package node

import (
	"sync"
	"time"

	"github.com/bitmark-inc/blockstate/background"
	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/limiter"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/blockstate/peer"
	"github.com/bitmark-inc/blockstate/snapshot"
	"github.com/bitmark-inc/blockstate/storage"
	"github.com/bitmark-inc/logger"
)

// Options - everything needed to build a node
type Options struct {
	Database     string
	Capacity     int
	LockTimeout  time.Duration
	SeedOnCommit bool
	Limiter      limiter.Settings
	CommitQueue  int
	InboundQueue int

	// period of the statistics log, zero disables it
	Statistics time.Duration
}

// Node - the assembled components
type Node struct {
	sync.Mutex

	log *logger.L

	store    *storage.Store
	cache    *cache.Cache
	policies *limiter.Set

	commits *messagebus.Queue
	inbound *messagebus.Queue

	committer  *block.Committer
	dispatcher *block.Dispatcher
	gate       *peer.Gate

	statistics time.Duration
	processes  *background.T
}

// New - open the store and build every component, nothing is
// started until Start
func New(options Options) (*Node, error) {
	log := logger.New("node")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	c, err := cache.New(options.Capacity, options.LockTimeout)
	if nil != err {
		log.Errorf("cache error: %s", err)
		return nil, err
	}

	policies, err := limiter.NewSet(options.Limiter, limiter.StandardConstructors(options.Limiter)...)
	if nil != err {
		log.Errorf("limiter error: %s", err)
		return nil, err
	}

	store, err := storage.Open(options.Database, storage.ReadWrite)
	if nil != err {
		log.Errorf("storage error: %s", err)
		policies.Close()
		return nil, err
	}

	n := &Node{
		log:        log,
		store:      store,
		cache:      c,
		policies:   policies,
		commits:    messagebus.New(options.CommitQueue),
		inbound:    messagebus.New(options.InboundQueue),
		statistics: options.Statistics,
	}

	n.committer, err = block.NewCommitter(store, n.commits)
	if nil == err {
		n.dispatcher, err = block.NewDispatcher(c, n.commits, options.SeedOnCommit, policies)
	}
	if nil == err {
		n.gate, err = peer.NewGate(policies, n.inbound)
	}
	if nil != err {
		log.Errorf("setup error: %s", err)
		policies.Close()
		store.Close()
		return nil, err
	}

	return n, nil
}

// Start - start the background processes
func (n *Node) Start() {
	n.Lock()
	defer n.Unlock()

	if nil != n.processes {
		return
	}

	processes := background.Processes{n.dispatcher}
	if n.statistics > 0 {
		processes = append(processes, &reporter{
			log:      logger.New("statistics"),
			node:     n,
			interval: n.statistics,
		})
	}
	n.processes = background.Start(processes, nil)
	n.log.Infof("started processes: %d", len(processes))
}

// Stop - stop the background processes and release everything
//
// pending commit signals are delivered before the store is closed
func (n *Node) Stop() {
	n.Lock()
	defer n.Unlock()

	n.processes.Stop()
	n.processes = nil

	n.policies.Close()
	n.store.Close()
	n.log.Info("stopped")
}

// Snapshot - a new verification view over the committed state
func (n *Node) Snapshot() *snapshot.Snapshot {
	return snapshot.New(n.log, n.store, n.cache)
}

// Commit - make the changes of a snapshot the next block
//
// the snapshot is emptied whether or not the commit succeeds
func (n *Node) Commit(s *snapshot.Snapshot) (*block.Block, error) {
	b := n.committer.Next()
	b.Changes = s.Changes()
	s.Abort()

	err := n.committer.Commit(b)
	if nil != err {
		return nil, err
	}
	return b, nil
}

// Receive - admission check for one peer message
func (n *Node) Receive(from peer.Endpoint, message peer.Message) bool {
	return n.gate.Receive(from, message)
}

// Inbound - admitted peer messages, items are peer.Inbound
func (n *Node) Inbound() <-chan messagebus.Message {
	return n.inbound.Chan()
}

// Cache - the shared read cache
func (n *Node) Cache() *cache.Cache {
	return n.cache
}

// Policies - the active admission policies
func (n *Node) Policies() *limiter.Set {
	return n.policies
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"sync"

	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/blockstate/storage"
	"github.com/bitmark-inc/logger"
)

//go:generate mockgen -source=committer.go -destination=mocks/store.go -package=mocks

// CommittedCommand - queue command carrying a committed *Block
const CommittedCommand = "committed"

// Store - durable block storage
type Store interface {
	Head() (number uint64, digest []byte, found bool, err error)
	Commit(number uint64, digest []byte, changes []storage.Change) error
}

// Committer - persists blocks in sequence, then signals the commit
type Committer struct {
	sync.Mutex

	log   *logger.L
	store Store
	queue *messagebus.Queue

	empty  bool
	height uint64
	last   Digest
}

// NewCommitter - create a committer continuing from the store's head
func NewCommitter(store Store, queue *messagebus.Queue) (*Committer, error) {
	if nil == store {
		return nil, fault.ErrDatabaseIsNotSet
	}
	if nil == queue {
		return nil, fault.ErrMissingQueue
	}

	log := logger.New("committer")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	number, buffer, found, err := store.Head()
	if nil != err {
		log.Errorf("read head error: %s", err)
		return nil, err
	}

	c := &Committer{
		log:   log,
		store: store,
		queue: queue,
		empty: !found,
	}

	if found {
		digest, err := DigestFromBytes(buffer)
		if nil != err {
			log.Criticalf("head digest: %x  error: %s", buffer, err)
			return nil, err
		}
		c.height = number
		c.last = digest
		log.Infof("head block: %d  digest: %s", number, digest)
	} else {
		log.Info("empty store")
	}

	return c, nil
}

// Commit - durably write a block then put it on the commit queue
//
// the first block is number zero with a zero previous digest; each
// later block must follow the head and link to its digest.  Nothing
// is signalled if the write fails.
func (c *Committer) Commit(b *Block) error {
	c.Lock()
	defer c.Unlock()

	expected := uint64(0)
	link := Digest{}
	if !c.empty {
		expected = c.height + 1
		link = c.last
	}

	if expected != b.Number {
		c.log.Warnf("block: %d  expected: %d", b.Number, expected)
		return fault.ErrBlockNotInSequence
	}
	if link != b.Previous {
		c.log.Warnf("block: %d  previous: %s  expected: %s", b.Number, b.Previous, link)
		return fault.ErrInvalidChainLink
	}

	digest := b.Digest()
	err := c.store.Commit(b.Number, digest[:], b.Changes)
	if nil != err {
		c.log.Errorf("block: %d  store error: %s", b.Number, err)
		return err
	}

	c.empty = false
	c.height = b.Number
	c.last = digest

	c.log.Infof("committed block: %d  digest: %s  changes: %d", b.Number, digest, len(b.Changes))

	// waits if the dispatcher is behind, so no commit signal is lost
	c.queue.Send(CommittedCommand, b)
	return nil
}

// Head - number and digest of the last committed block, false if
// nothing has been committed
func (c *Committer) Head() (uint64, Digest, bool) {
	c.Lock()
	defer c.Unlock()
	return c.height, c.last, !c.empty
}

// Next - an empty block that follows the current head
func (c *Committer) Next() *Block {
	c.Lock()
	defer c.Unlock()

	if c.empty {
		return &Block{}
	}
	return &Block{
		Number:   c.height + 1,
		Previous: c.last,
	}
}

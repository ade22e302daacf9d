// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package snapshot - view of ledger state used while verifying
// transactions
//
// reads are served from the snapshot's own writes, then the shared
// read cache, then the ledger store.  Values found in the store are
// offered to the cache unless it was cleared while the store was
// being read; the snapshot's own writes never are.
package snapshot

import (
	"bytes"
	"sort"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/counter"
	"github.com/bitmark-inc/blockstate/storage"
	"github.com/bitmark-inc/logger"
)

//go:generate mockgen -source=snapshot.go -destination=mocks/reader.go -package=mocks

// Reader - the authoritative ledger store
type Reader interface {
	Get(storage.Key) (storage.Item, bool, error)
}

// Statistics - where reads were served from
type Statistics struct {
	Overlay     uint64
	CacheHit    uint64
	CacheMiss   uint64
	Unavailable uint64
	Store       uint64
}

// a pending write, deletes are kept so that they hide older values
type pending struct {
	key     storage.Key
	item    storage.Item
	deleted bool
}

// Snapshot - one verification context; not safe for concurrent use
// of Put/Delete with Changes
type Snapshot struct {
	log     *logger.L
	reader  Reader
	cache   *cache.Cache
	overlay *gocache.Cache

	overlayReads counter.Counter
	cacheHits    counter.Counter
	cacheMisses  counter.Counter
	unavailable  counter.Counter
	storeReads   counter.Counter
}

// New - create a snapshot reading through c to reader
//
// c may be nil to read the store directly
func New(log *logger.L, reader Reader, c *cache.Cache) *Snapshot {
	return &Snapshot{
		log:     log,
		reader:  reader,
		cache:   c,
		overlay: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get - read a key as seen by this snapshot
func (s *Snapshot) Get(key storage.Key) (storage.Item, bool, error) {
	k := string(key.Bytes())

	if obj, found := s.overlay.Get(k); found {
		s.overlayReads.Increment()
		p := obj.(pending)
		if p.deleted {
			return storage.Item{}, false, nil
		}
		return p.item.Clone(), true, nil
	}

	generation := uint64(0)
	if nil != s.cache {
		generation = s.cache.Generation()
		item, result := s.cache.Get(key)
		switch result {
		case cache.Hit:
			s.cacheHits.Increment()
			return item, true, nil
		case cache.Absent:
			s.cacheMisses.Increment()
		case cache.Unavailable:
			s.unavailable.Increment()
		}
	}

	item, found, err := s.reader.Get(key)
	if nil != err {
		s.log.Errorf("read: %s  error: %s", key, err)
		return storage.Item{}, false, err
	}
	s.storeReads.Increment()

	if found && nil != s.cache {
		if !s.cache.SetIf(generation, key, item) {
			s.log.Debugf("not cached: %s", key)
		}
	}
	return item, found, nil
}

// Put - record a speculative write
func (s *Snapshot) Put(key storage.Key, item storage.Item) {
	s.overlay.Set(string(key.Bytes()), pending{
		key:  storage.NewKey(key.ID, key.Key),
		item: item.Clone(),
	}, gocache.NoExpiration)
}

// Delete - record a speculative delete
func (s *Snapshot) Delete(key storage.Key) {
	s.overlay.Set(string(key.Bytes()), pending{
		key:     storage.NewKey(key.ID, key.Key),
		deleted: true,
	}, gocache.NoExpiration)
}

// Changes - the recorded writes in key order, ready for a block
func (s *Snapshot) Changes() []storage.Change {
	items := s.overlay.Items()

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare([]byte(keys[i]), []byte(keys[j])) < 0
	})

	changes := make([]storage.Change, 0, len(keys))
	for _, k := range keys {
		p := items[k].Object.(pending)
		changes = append(changes, storage.Change{
			Key:    p.key,
			Item:   p.item.Clone(),
			Delete: p.deleted,
		})
	}
	return changes
}

// Abort - discard all recorded writes
func (s *Snapshot) Abort() {
	s.overlay.Flush()
}

// Statistics - read counters for this snapshot
func (s *Snapshot) Statistics() Statistics {
	return Statistics{
		Overlay:     s.overlayReads.Uint64(),
		CacheHit:    s.cacheHits.Uint64(),
		CacheMiss:   s.cacheMisses.Uint64(),
		Unavailable: s.unavailable.Uint64(),
		Store:       s.storeReads.Uint64(),
	}
}

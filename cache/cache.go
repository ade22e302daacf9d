// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/blockstate/counter"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/storage"
	"github.com/bitmark-inc/logger"
)

// defaults
const (
	DefaultCapacity = 65536
	DefaultTimeout  = 100 * time.Millisecond
)

// Result - outcome of a cache lookup
type Result int

// possible results
//
// Unavailable means the lock could not be obtained in time, which
// says nothing about whether the key is cached
const (
	Absent Result = iota
	Hit
	Unavailable
)

func (r Result) String() string {
	switch r {
	case Absent:
		return "absent"
	case Hit:
		return "hit"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Writer - access while the exclusive lock is held by Batch
type Writer interface {
	Set(key storage.Key, item storage.Item) bool
	Remove(key storage.Key) bool
	Count() int
	IsFull() bool
}

// Statistics - counters since the cache was created
type Statistics struct {
	Hits        uint64
	Misses      uint64
	Unavailable uint64
	Rejected    uint64
	Stale       uint64
	Clears      uint64
	Count       int
	Capacity    int
}

// Cache - bounded read cache
type Cache struct {
	log      *logger.L
	lock     *timedRWLock
	timeout  time.Duration
	capacity int

	// only changed under the exclusive lock, read without any lock
	size int64

	items map[string]storage.Item

	hits        counter.Counter
	misses      counter.Counter
	unavailable counter.Counter
	rejected    counter.Counter
	stale       counter.Counter

	// also the generation, only incremented under the exclusive lock
	clears counter.Counter
}

// New - create an empty cache
//
// timeout bounds the wait for the lock in Get, Set and Lock; zero
// selects DefaultTimeout
func New(capacity int, timeout time.Duration) (*Cache, error) {
	if capacity <= 0 {
		return nil, fault.ErrInvalidCapacity
	}
	if timeout < 0 {
		return nil, fault.ErrInvalidDuration
	}
	if 0 == timeout {
		timeout = DefaultTimeout
	}

	log := logger.New("cache")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	log.Infof("capacity: %d  lock timeout: %s", capacity, timeout)

	return &Cache{
		log:      log,
		lock:     newTimedRWLock(),
		timeout:  timeout,
		capacity: capacity,
		items:    make(map[string]storage.Item),
	}, nil
}

// Get - look up a key
//
// the returned item is a copy; it is only valid when the result is Hit
func (c *Cache) Get(key storage.Key) (storage.Item, Result) {
	if !c.lock.rLock(c.timeout) {
		c.unavailable.Increment()
		c.log.Debugf("get: %s  read lock timeout", key)
		return storage.Item{}, Unavailable
	}

	item, ok := c.items[string(key.Bytes())]
	c.lock.rUnlock()

	if !ok {
		c.misses.Increment()
		return storage.Item{}, Absent
	}
	c.hits.Increment()
	return item.Clone(), Hit
}

// Set - insert or update a key
//
// false if the lock was not obtained in time, or if the cache is full
// and the key is not already present.  Both are normal outcomes; the
// caller carries on without the cache.
func (c *Cache) Set(key storage.Key, item storage.Item) bool {
	if !c.lock.lock(c.timeout) {
		c.unavailable.Increment()
		c.log.Debugf("set: %s  write lock timeout", key)
		return false
	}
	defer c.lock.unlock()

	return c.set(key, item)
}

// SetIf - Set, refused if the cache was cleared after generation
// was read
//
// a value read from the store is offered with the generation taken
// before the read, so a value superseded by a block committed during
// the read is never cached
func (c *Cache) SetIf(generation uint64, key storage.Key, item storage.Item) bool {
	if !c.lock.lock(c.timeout) {
		c.unavailable.Increment()
		c.log.Debugf("set: %s  write lock timeout", key)
		return false
	}
	defer c.lock.unlock()

	if generation != c.clears.Uint64() {
		c.stale.Increment()
		c.log.Debugf("set: %s  stale generation: %d", key, generation)
		return false
	}
	return c.set(key, item)
}

// Generation - changes every time the cache is cleared
func (c *Cache) Generation() uint64 {
	return c.clears.Uint64()
}

// Remove - delete a key, returns whether it was present
func (c *Cache) Remove(key storage.Key) bool {
	c.lock.lockWait()
	defer c.lock.unlock()

	return c.remove(key)
}

// Clear - discard every entry
//
// called once for each committed block
func (c *Cache) Clear() {
	c.lock.lockWait()
	defer c.lock.unlock()

	n := len(c.items)
	for k := range c.items {
		delete(c.items, k)
	}
	atomic.StoreInt64(&c.size, 0)
	c.clears.Increment()

	c.log.Debugf("cleared: %d entries", n)
}

// Lock - obtain the exclusive lock for a sequence of SetUnlocked and
// RemoveUnlocked calls, waits at most the cache timeout
//
// every successful Lock must be followed by Unlock
func (c *Cache) Lock() bool {
	if !c.lock.lock(c.timeout) {
		c.unavailable.Increment()
		c.log.Debug("lock: write lock timeout")
		return false
	}
	return true
}

// Unlock - release the exclusive lock obtained by Lock
func (c *Cache) Unlock() {
	c.lock.unlock()
}

// SetUnlocked - Set for a caller that already holds the exclusive lock
//
// panics if the exclusive lock is not held
func (c *Cache) SetUnlocked(key storage.Key, item storage.Item) bool {
	c.mustHoldLock("SetUnlocked")
	return c.set(key, item)
}

// RemoveUnlocked - Remove for a caller that already holds the exclusive lock
//
// panics if the exclusive lock is not held
func (c *Cache) RemoveUnlocked(key storage.Key) bool {
	c.mustHoldLock("RemoveUnlocked")
	return c.remove(key)
}

// Batch - run fn with the exclusive lock held so that all of its
// changes appear at once
//
// false if the lock was not obtained in time and fn was not called
func (c *Cache) Batch(fn func(w Writer)) bool {
	if !c.Lock() {
		return false
	}
	defer c.Unlock()

	fn(lockedWriter{c: c})
	return true
}

// Count - number of entries, without locking
func (c *Cache) Count() int {
	return int(atomic.LoadInt64(&c.size))
}

// IsFull - true once Capacity entries are held
func (c *Cache) IsFull() bool {
	return c.Count() >= c.capacity
}

// Capacity - the fixed maximum number of entries
func (c *Cache) Capacity() int {
	return c.capacity
}

// Statistics - snapshot of the counters
func (c *Cache) Statistics() Statistics {
	return Statistics{
		Hits:        c.hits.Uint64(),
		Misses:      c.misses.Uint64(),
		Unavailable: c.unavailable.Uint64(),
		Rejected:    c.rejected.Uint64(),
		Stale:       c.stale.Uint64(),
		Clears:      c.clears.Uint64(),
		Count:       c.Count(),
		Capacity:    c.capacity,
	}
}

// exclusive lock must be held
func (c *Cache) set(key storage.Key, item storage.Item) bool {
	k := string(key.Bytes())
	if _, ok := c.items[k]; !ok {
		if len(c.items) >= c.capacity {
			c.rejected.Increment()
			return false
		}
		atomic.AddInt64(&c.size, 1)
	}
	c.items[k] = item.Clone()
	return true
}

// exclusive lock must be held
func (c *Cache) remove(key storage.Key) bool {
	k := string(key.Bytes())
	if _, ok := c.items[k]; !ok {
		return false
	}
	delete(c.items, k)
	atomic.AddInt64(&c.size, -1)
	return true
}

func (c *Cache) mustHoldLock(operation string) {
	if !c.lock.held() {
		fault.Panicf("cache: %s: %s", operation, fault.ErrCacheNotLocked)
	}
}

// Writer used by Batch; the lock is already held
type lockedWriter struct {
	c *Cache
}

func (w lockedWriter) Set(key storage.Key, item storage.Item) bool {
	return w.c.SetUnlocked(key, item)
}

func (w lockedWriter) Remove(key storage.Key) bool {
	return w.c.RemoveUnlocked(key)
}

func (w lockedWriter) Count() int {
	return w.c.Count()
}

func (w lockedWriter) IsFull() bool {
	return w.c.IsFull()
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/bitmark-inc/blockstate/fault"
)

// a reader holds one unit, a writer holds all of them
const maximumReaders = 1 << 30

// reader/writer lock where acquisition can give up after a timeout
//
// the semaphore queues waiters in order, so a waiting writer holds
// back readers that arrive after it; when that writer times out the
// readers behind it are woken
type timedRWLock struct {
	sem       *semaphore.Weighted
	exclusive int32
}

func newTimedRWLock() *timedRWLock {
	return &timedRWLock{
		sem: semaphore.NewWeighted(maximumReaders),
	}
}

func (l *timedRWLock) rLock(timeout time.Duration) bool {
	return l.acquire(1, timeout)
}

func (l *timedRWLock) rUnlock() {
	l.sem.Release(1)
}

func (l *timedRWLock) lock(timeout time.Duration) bool {
	if !l.acquire(maximumReaders, timeout) {
		return false
	}
	atomic.StoreInt32(&l.exclusive, 1)
	return true
}

// wait as long as necessary
func (l *timedRWLock) lockWait() {
	// cannot fail with a background context
	_ = l.sem.Acquire(context.Background(), maximumReaders)
	atomic.StoreInt32(&l.exclusive, 1)
}

func (l *timedRWLock) unlock() {
	if !atomic.CompareAndSwapInt32(&l.exclusive, 1, 0) {
		fault.Panicf("cache: unlock of unlocked cache")
	}
	l.sem.Release(maximumReaders)
}

// true while some caller holds the exclusive lock
func (l *timedRWLock) held() bool {
	return 1 == atomic.LoadInt32(&l.exclusive)
}

func (l *timedRWLock) acquire(n int64, timeout time.Duration) bool {
	if l.sem.TryAcquire(n) {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return nil == l.sem.Acquire(ctx, n)
}

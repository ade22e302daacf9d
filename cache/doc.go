// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache - bounded read cache of committed ledger state
//
//  ***** Contents *****
//
//  Key                          Value          Lifetime
//  storage.Key (encoded)        storage.Item   until the next block commit
//
//  ***** Rules *****
//
//  only values read from the ledger store (or written by a durably
//  committed block) are cached, never speculative writes
//
//  once Capacity entries are held a new key is rejected, an existing
//  key may still be updated; nothing is ever evicted
//
//  every block commit empties the cache completely
//
//  ***** Locking *****
//
//  one reader/writer lock; Get and Set wait at most the configured
//  timeout for it.  A caller that does not get the lock must go to the
//  ledger store instead and must not retry the lock.  Clear and Remove
//  wait without a limit.
package cache

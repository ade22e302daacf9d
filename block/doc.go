// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block - committed blocks and the commit signal
//
// A Committer persists each block to the store and only then places
// it on the commit queue.  The Dispatcher is a background process
// that takes blocks from that queue in order and, for each one,
// empties the read cache and notifies every Subscriber exactly once.
//
// Packed block layout (all integers unsigned varint):
//
//   number previous-digest(32 bytes) change-count
//   { flag(0=put 1=delete) key-length key [value-length value] }...
//
// where key is the encoded storage key and value is omitted for a
// delete.  The block digest is SHA3-256 of this packed form.
package block

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package limiter - admission control for messages from peers
//
// Every policy implements Limiter.  A Set holds the active policies
// for a node, is consulted by the peer gate for each inbound message
// and is subscribed to the block dispatcher so that every policy
// sees each committed block once.
//
// TransactionCount bounds the number of transaction messages one
// peer may send between resets; the reset happens on a block commit
// but only once the cooldown since the most recent rejection has
// passed.  Bandwidth bounds the payload bytes per second from each
// peer.
package limiter

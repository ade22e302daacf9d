// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer - inbound side of peer messaging
//
// every message received from a connected peer passes through a Gate
// which asks the admission policy before queueing the message for
// processing.  What happens to a peer whose messages are refused
// (drop, throttle, disconnect) is up to the transport.
package peer

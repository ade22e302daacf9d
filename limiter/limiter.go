// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limiter

import (
	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/peer"
)

//go:generate mockgen -source=limiter.go -destination=mocks/limiter.go -package=mocks

// Limiter - an admission policy
//
// Evaluate must be safe for concurrent use, must not block and may
// run at the same time as BlockCommitted
type Limiter interface {
	Evaluate(message peer.Message, from peer.Endpoint) bool
	BlockCommitted(b *block.Block)
	Close()
}

// Constructor - create a policy from the settings
type Constructor func(settings Settings) (Limiter, error)

// StandardConstructors - the policies a node runs with these settings
func StandardConstructors(settings Settings) []Constructor {
	constructors := []Constructor{
		newTransactionCount,
	}
	if settings.BandwidthRate > 0 {
		constructors = append(constructors, newBandwidth)
	}
	return constructors
}

func newTransactionCount(settings Settings) (Limiter, error) {
	tc, err := NewTransactionCount(settings)
	if nil != err {
		return nil, err
	}
	return tc, nil
}

func newBandwidth(settings Settings) (Limiter, error) {
	bw, err := NewBandwidth(settings)
	if nil != err {
		return nil, err
	}
	return bw, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limiter

import (
	"sync"

	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/peer"
	"github.com/bitmark-inc/logger"
)

// Set - the active policies of a node
//
// a message is accepted only if every policy accepts it; every
// policy is asked so that each one counts every message
//
// once closed every message is rejected
type Set struct {
	sync.RWMutex
	log      *logger.L
	policies []Limiter
	closed   bool
}

// NewSet - construct one policy per constructor
//
// on error any policy already constructed is closed
func NewSet(settings Settings, constructors ...Constructor) (*Set, error) {
	log := logger.New("limiter")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	s := &Set{
		log:      log,
		policies: make([]Limiter, 0, len(constructors)),
	}
	for _, c := range constructors {
		l, err := c(settings)
		if nil != err {
			log.Errorf("policy construction error: %s", err)
			s.Close()
			return nil, err
		}
		s.policies = append(s.policies, l)
	}
	log.Infof("policies: %d", len(s.policies))
	return s, nil
}

// Add - register another policy, a closed set closes it at once
func (s *Set) Add(l Limiter) {
	s.Lock()
	if s.closed {
		s.Unlock()
		l.Close()
		return
	}
	s.policies = append(s.policies, l)
	s.Unlock()
}

// Evaluate - accept only if every policy accepts
//
// an empty set accepts everything
func (s *Set) Evaluate(message peer.Message, from peer.Endpoint) bool {
	s.RLock()
	defer s.RUnlock()

	if s.closed {
		return false
	}

	accepted := true
	for _, l := range s.policies {
		if !l.Evaluate(message, from) {
			accepted = false
		}
	}
	return accepted
}

// BlockCommitted - forward to every policy
func (s *Set) BlockCommitted(b *block.Block) {
	s.RLock()
	defer s.RUnlock()

	for _, l := range s.policies {
		l.BlockCommitted(b)
	}
}

// Close - close and unregister every policy
func (s *Set) Close() {
	s.Lock()
	policies := s.policies
	s.policies = nil
	s.closed = true
	s.Unlock()

	for _, l := range policies {
		l.Close()
	}
}

// Len - number of registered policies
func (s *Set) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.policies)
}

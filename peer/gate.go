// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/blockstate/counter"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/logger"
)

//go:generate mockgen -source=gate.go -destination=mocks/admission.go -package=mocks

// queue command for admitted messages
const inboundCommand = "inbound"

// a peer is reported at warning level at most once in this interval,
// repeats are logged at debug level
const reportInterval = time.Minute

// Admission - decides whether a message may be processed
//
// must be safe for concurrent use and must not block
type Admission interface {
	Evaluate(message Message, from Endpoint) bool
}

// Inbound - an admitted message and its sender, as queued
type Inbound struct {
	From    Endpoint
	Message Message
}

// Counts - gate counters
type Counts struct {
	Accepted uint64
	Rejected uint64
	Dropped  uint64
	Reported uint64
}

// Gate - admission check in front of the inbound queue
type Gate struct {
	log       *logger.L
	admission Admission
	queue     *messagebus.Queue
	reported  *gocache.Cache

	accepted counter.Counter
	rejected counter.Counter
	dropped  counter.Counter
	warnings counter.Counter
}

// NewGate - create a gate forwarding admitted messages to queue
func NewGate(admission Admission, queue *messagebus.Queue) (*Gate, error) {
	if nil == queue {
		return nil, fault.ErrMissingQueue
	}
	log := logger.New("peer")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	return &Gate{
		log:       log,
		admission: admission,
		queue:     queue,
		reported:  gocache.New(reportInterval, 2*reportInterval),
	}, nil
}

// Receive - called by the transport for every message from a peer
//
// false means the message must not be processed further, either
// because the admission policy refused it or because the inbound
// queue is full
func (g *Gate) Receive(from Endpoint, message Message) bool {
	if !g.admission.Evaluate(message, from) {
		n := g.rejected.Increment()
		if g.firstReport("rejected", from) {
			g.log.Warnf("rejected: %q from: %s  total rejected: %d", message.Command, from, n)
		} else {
			g.log.Debugf("rejected: %q from: %s  total rejected: %d", message.Command, from, n)
		}
		return false
	}

	err := g.queue.TrySend(inboundCommand, Inbound{
		From:    from,
		Message: message,
	})
	if nil != err {
		g.dropped.Increment()
		if g.firstReport("dropped", from) {
			g.log.Warnf("dropped: %q from: %s  error: %s", message.Command, from, err)
		} else {
			g.log.Debugf("dropped: %q from: %s  error: %s", message.Command, from, err)
		}
		return false
	}

	g.accepted.Increment()
	return true
}

// Counts - current counter values
func (g *Gate) Counts() Counts {
	return Counts{
		Accepted: g.accepted.Uint64(),
		Rejected: g.rejected.Uint64(),
		Dropped:  g.dropped.Uint64(),
		Reported: g.warnings.Uint64(),
	}
}

// true if this kind of event was not reported for the peer recently
func (g *Gate) firstReport(kind string, from Endpoint) bool {
	if nil != g.reported.Add(kind+" "+from.String(), struct{}{}, gocache.DefaultExpiration) {
		return false
	}
	g.warnings.Increment()
	return true
}

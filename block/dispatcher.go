// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/counter"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/logger"
)

//go:generate mockgen -source=dispatcher.go -destination=mocks/subscriber.go -package=mocks

// Subscriber - receives every committed block exactly once, in order
//
// called from the dispatcher goroutine, must not block for long
type Subscriber interface {
	BlockCommitted(b *Block)
}

// Dispatcher - background process delivering commit signals
type Dispatcher struct {
	log         *logger.L
	cache       *cache.Cache
	queue       *messagebus.Queue
	seed        bool
	subscribers []Subscriber

	dispatched counter.Counter
	seeded     counter.Counter
}

// NewDispatcher - create a dispatcher for the commit queue
//
// if seed is set the cache is refilled with the values stored by
// each block after it has been emptied
func NewDispatcher(c *cache.Cache, queue *messagebus.Queue, seed bool, subscribers ...Subscriber) (*Dispatcher, error) {
	if nil == queue {
		return nil, fault.ErrMissingQueue
	}
	log := logger.New("dispatcher")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	return &Dispatcher{
		log:         log,
		cache:       c,
		queue:       queue,
		seed:        seed,
		subscribers: subscribers,
	}, nil
}

// Run - background process loop
func (d *Dispatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := d.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-d.queue.Chan():
			d.process(item)
		}
	}

	// blocks already durable must still reach the cache and policies
drain:
	for {
		select {
		case item := <-d.queue.Chan():
			d.process(item)
		default:
			break drain
		}
	}

	log.Info("stopped")
}

// Dispatch - deliver one block synchronously
func (d *Dispatcher) Dispatch(b *Block) {
	if nil != d.cache {
		d.cache.Clear()
	}

	for _, s := range d.subscribers {
		s.BlockCommitted(b)
	}

	if d.seed && nil != d.cache {
		d.seedCache(b)
	}

	n := d.dispatched.Increment()
	d.log.Debugf("dispatched block: %d  total: %d", b.Number, n)
}

// Dispatched - number of blocks delivered
func (d *Dispatcher) Dispatched() uint64 {
	return d.dispatched.Uint64()
}

// Seeded - number of cache entries added from committed blocks
func (d *Dispatcher) Seeded() uint64 {
	return d.seeded.Uint64()
}

func (d *Dispatcher) process(item messagebus.Message) {
	if CommittedCommand != item.Command {
		d.log.Errorf("unexpected command: %q", item.Command)
		return
	}
	b, ok := item.Item.(*Block)
	if !ok || nil == b {
		fault.Panicf("dispatcher: command: %q has item type: %T", item.Command, item.Item)
	}
	d.Dispatch(b)
}

func (d *Dispatcher) seedCache(b *Block) {
	puts := b.Puts()
	if 0 == len(puts) {
		return
	}

	n := 0
	ok := d.cache.Batch(func(w cache.Writer) {
		for _, c := range puts {
			if !w.Set(c.Key, c.Item) {
				return
			}
			n += 1
		}
	})
	if !ok {
		d.log.Debugf("seed block: %d  lock timeout", b.Number)
		return
	}
	d.seeded.Add(uint64(n))
	d.log.Debugf("seed block: %d  entries: %d of %d", b.Number, n, len(puts))
}

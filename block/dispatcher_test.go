// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block_test

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockstate/background"
	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/block/mocks"
	"github.com/bitmark-inc/blockstate/cache"
	"github.com/bitmark-inc/blockstate/fixtures"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/blockstate/storage"
)

func newCache(t *testing.T, capacity int) *cache.Cache {
	c, err := cache.New(capacity, 10*time.Millisecond)
	if nil != err {
		t.Fatalf("cache.New error: %s", err)
	}
	return c
}

func TestDispatchClearsAndNotifies(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	c := newCache(t, 10)
	c.Set(storage.NewKey(1, []byte("stale")), storage.NewItem([]byte("old")))

	first := mocks.NewMockSubscriber(ctl)
	second := mocks.NewMockSubscriber(ctl)

	b := sampleBlock()
	gomock.InOrder(
		first.EXPECT().BlockCommitted(b).Do(func(*block.Block) {
			assert.Equal(t, 0, c.Count(), "cache not cleared before notification")
		}),
		second.EXPECT().BlockCommitted(b),
	)

	d, err := block.NewDispatcher(c, messagebus.New(1), false, first, second)
	assert.Nil(t, err, "NewDispatcher error")

	d.Dispatch(b)

	assert.Equal(t, 0, c.Count(), "cache seeded without seeding")
	assert.Equal(t, uint64(1), d.Dispatched(), "wrong dispatched count")
	assert.Equal(t, uint64(1), c.Statistics().Clears, "wrong clear count")
}

func TestDispatchSeedsCache(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := newCache(t, 10)
	c.Set(storage.NewKey(1, []byte("b")), storage.NewItem([]byte("deleted")))

	d, err := block.NewDispatcher(c, messagebus.New(1), true)
	assert.Nil(t, err, "NewDispatcher error")

	b := sampleBlock()
	d.Dispatch(b)

	assert.Equal(t, 2, c.Count(), "wrong seeded count")
	assert.Equal(t, uint64(2), d.Seeded(), "wrong seeded statistic")

	item, result := c.Get(storage.NewKey(1, []byte("a")))
	assert.Equal(t, cache.Hit, result, "stored value not seeded")
	assert.Equal(t, []byte("one"), item.Value, "wrong seeded value")

	_, result = c.Get(storage.NewKey(1, []byte("b")))
	assert.Equal(t, cache.Absent, result, "deleted value still cached")
}

func TestDispatchSeedStopsWhenFull(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := newCache(t, 1)
	d, err := block.NewDispatcher(c, messagebus.New(1), true)
	assert.Nil(t, err, "NewDispatcher error")

	d.Dispatch(sampleBlock())

	assert.Equal(t, 1, c.Count(), "capacity exceeded")
	assert.Equal(t, uint64(1), d.Seeded(), "wrong seeded statistic")
}

func TestDispatcherRun(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	c := newCache(t, 10)
	queue := messagebus.New(10)
	subscriber := mocks.NewMockSubscriber(ctl)

	blocks := []*block.Block{
		{Number: 0},
		{Number: 1},
		{Number: 2},
	}

	calls := make([]*gomock.Call, len(blocks))
	for i, b := range blocks {
		calls[i] = subscriber.EXPECT().BlockCommitted(b).Times(1)
	}
	gomock.InOrder(calls...)

	d, err := block.NewDispatcher(c, queue, false, subscriber)
	assert.Nil(t, err, "NewDispatcher error")

	processes := background.Start(background.Processes{d}, nil)

	queue.Send(block.CommittedCommand, blocks[0])
	queue.Send(block.CommittedCommand, blocks[1])
	queue.Send("unknown", "ignored")
	queue.Send(block.CommittedCommand, blocks[2])

	// anything still queued is delivered before Stop returns
	processes.Stop()

	assert.Equal(t, uint64(3), d.Dispatched(), "wrong dispatched count")
	assert.Equal(t, 0, queue.Len(), "queue not drained")
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/fixtures"
	"github.com/bitmark-inc/blockstate/messagebus"
	"github.com/bitmark-inc/blockstate/peer"
	"github.com/bitmark-inc/blockstate/peer/mocks"
)

func TestGate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	admission := mocks.NewMockAdmission(ctl)
	queue := messagebus.New(10)

	g, err := peer.NewGate(admission, queue)
	assert.Nil(t, err, "NewGate error")

	from, _ := peer.ParseEndpoint("10.0.0.1:2136")
	accepted := peer.Message{Command: peer.CommandTransfer, Payload: []byte{1}}
	refused := peer.Message{Command: peer.CommandIssues, Payload: []byte{2}}

	admission.EXPECT().Evaluate(accepted, from).Return(true).Times(1)
	admission.EXPECT().Evaluate(refused, from).Return(false).Times(1)

	assert.True(t, g.Receive(from, accepted), "accepted message refused")
	assert.False(t, g.Receive(from, refused), "refused message accepted")

	assert.Equal(t, 1, queue.Len(), "wrong queue length")
	received := <-queue.Chan()
	inbound, ok := received.Item.(peer.Inbound)
	assert.True(t, ok, "wrong queued type")
	assert.Equal(t, from, inbound.From, "wrong sender")
	assert.Equal(t, accepted, inbound.Message, "wrong message")

	assert.Equal(t, peer.Counts{Accepted: 1, Rejected: 1, Reported: 1}, g.Counts(), "wrong counts")
}

func TestGateQueueFull(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	admission := mocks.NewMockAdmission(ctl)
	admission.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(true).Times(2)

	g, err := peer.NewGate(admission, messagebus.New(1))
	assert.Nil(t, err, "NewGate error")

	from, _ := peer.ParseEndpoint("10.0.0.1:2136")
	m := peer.Message{Command: peer.CommandHeart}

	assert.True(t, g.Receive(from, m), "first message refused")
	assert.False(t, g.Receive(from, m), "message accepted into full queue")
	assert.Equal(t, peer.Counts{Accepted: 1, Dropped: 1, Reported: 1}, g.Counts(), "wrong counts")
}

func TestGateRepeatedRejections(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	admission := mocks.NewMockAdmission(ctl)
	admission.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(false).Times(5)

	g, err := peer.NewGate(admission, messagebus.New(10))
	assert.Nil(t, err, "NewGate error")

	flooding, _ := peer.ParseEndpoint("10.0.0.1:2136")
	other, _ := peer.ParseEndpoint("10.0.0.2:2136")
	m := peer.Message{Command: peer.CommandTransfer, Payload: []byte{1}}

	for i := 0; i < 4; i += 1 {
		assert.False(t, g.Receive(flooding, m), "rejected message accepted")
	}
	assert.False(t, g.Receive(other, m), "rejected message accepted")

	// one warning per peer, however many messages it sends
	assert.Equal(t, peer.Counts{Rejected: 5, Reported: 2}, g.Counts(), "wrong counts")
}

func TestGateNeedsQueue(t *testing.T) {
	_, err := peer.NewGate(nil, nil)
	assert.Equal(t, fault.ErrMissingQueue, err, "missing queue accepted")
}

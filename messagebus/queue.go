// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"github.com/bitmark-inc/blockstate/fault"
)

// DefaultQueueSize - used when a zero size is requested
const DefaultQueueSize = 1000

// Message - a single queued item
type Message struct {
	Command string
	Item    interface{}
}

// Queue - a bounded FIFO of messages
type Queue struct {
	c chan Message
}

// New - create a queue holding up to size messages
func New(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		c: make(chan Message, size),
	}
}

// Send - queue a message, waits while the queue is full
func (queue *Queue) Send(command string, item interface{}) {
	queue.c <- Message{
		Command: command,
		Item:    item,
	}
}

// TrySend - queue a message without waiting
func (queue *Queue) TrySend(command string, item interface{}) error {
	select {
	case queue.c <- Message{Command: command, Item: item}:
		return nil
	default:
		return fault.ErrQueueFull
	}
}

// Chan - channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Len - number of messages waiting
func (queue *Queue) Len() int {
	return len(queue.c)
}

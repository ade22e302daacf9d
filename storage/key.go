// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/blockstate/fault"
)

// number of bytes used by the contract id in an encoded key
const idLength = 4

// Key - identifies a storage slot: owning contract and key bytes
//
// two keys are equal if their encoded bytes are equal
type Key struct {
	ID  int32
	Key []byte
}

// NewKey - create a key, the key bytes are copied
func NewKey(id int32, key []byte) Key {
	k := make([]byte, len(key))
	copy(k, key)
	return Key{
		ID:  id,
		Key: k,
	}
}

// KeyFromBytes - decode an encoded key
func KeyFromBytes(buffer []byte) (Key, error) {
	if len(buffer) < idLength {
		return Key{}, fault.ErrInvalidKeyLength
	}
	id := int32(binary.BigEndian.Uint32(buffer[:idLength]))
	return NewKey(id, buffer[idLength:]), nil
}

// Bytes - encode as contract id (big endian) followed by the key bytes
func (k Key) Bytes() []byte {
	buffer := make([]byte, idLength, idLength+len(k.Key))
	binary.BigEndian.PutUint32(buffer, uint32(k.ID))
	return append(buffer, k.Key...)
}

// Equal - structural equality
func (k Key) Equal(other Key) bool {
	return k.ID == other.ID && bytes.Equal(k.Key, other.Key)
}

// String - for the fmt package (%s)
func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.ID, hex.EncodeToString(k.Key))
}

// Item - the value stored at a key
type Item struct {
	Value []byte
}

// NewItem - create an item holding a copy of value
func NewItem(value []byte) Item {
	return Item{Value: clone(value)}
}

// Clone - deep copy so the result never aliases the original
func (i Item) Clone() Item {
	return Item{Value: clone(i.Value)}
}

// Equal - structural equality
func (i Item) Equal(other Item) bool {
	return bytes.Equal(i.Value, other.Value)
}

// Change - one write produced by executing a block
type Change struct {
	Key    Key
	Item   Item
	Delete bool
}

func clone(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"

	"github.com/bitmark-inc/blockstate/storage"
)

// change flags in the packed form
const (
	putFlag    = 0
	deleteFlag = 1
)

// Block - a set of state changes confirmed together
type Block struct {
	Number   uint64
	Previous Digest
	Changes  []storage.Change
}

// Packed - canonical byte form of a block
type Packed []byte

// Pack - the canonical byte form, see the package documentation
func (b *Block) Pack() Packed {
	buffer := make([]byte, 0, 64)
	buffer = appendVarint(buffer, b.Number)
	buffer = append(buffer, b.Previous[:]...)
	buffer = appendVarint(buffer, uint64(len(b.Changes)))

	for _, c := range b.Changes {
		key := c.Key.Bytes()
		if c.Delete {
			buffer = append(buffer, deleteFlag)
			buffer = appendBytes(buffer, key)
			continue
		}
		buffer = append(buffer, putFlag)
		buffer = appendBytes(buffer, key)
		buffer = appendBytes(buffer, c.Item.Value)
	}
	return buffer
}

// Digest - digest of the packed block
func (b *Block) Digest() Digest {
	return NewDigest(b.Pack())
}

// Puts - the changes that store a value, in block order
func (b *Block) Puts() []storage.Change {
	puts := make([]storage.Change, 0, len(b.Changes))
	for _, c := range b.Changes {
		if !c.Delete {
			puts = append(puts, c)
		}
	}
	return puts
}

func appendVarint(buffer []byte, value uint64) []byte {
	var n [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(n[:], value)
	return append(buffer, n[:l]...)
}

func appendBytes(buffer []byte, data []byte) []byte {
	buffer = appendVarint(buffer, uint64(len(data)))
	return append(buffer, data...)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockstate/block"
	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/blockstate/storage"
)

func sampleBlock() *block.Block {
	return &block.Block{
		Number:   7,
		Previous: block.NewDigest([]byte("previous")),
		Changes: []storage.Change{
			{Key: storage.NewKey(1, []byte("a")), Item: storage.NewItem([]byte("one"))},
			{Key: storage.NewKey(1, []byte("b")), Delete: true},
			{Key: storage.NewKey(2, []byte("a")), Item: storage.NewItem([]byte("two"))},
		},
	}
}

func TestPack(t *testing.T) {
	b := &block.Block{
		Number: 1,
		Changes: []storage.Change{
			{Key: storage.NewKey(1, []byte{0xaa}), Item: storage.NewItem([]byte{0xbb})},
			{Key: storage.NewKey(2, []byte{0xcc}), Delete: true},
		},
	}

	expected := []byte{0x01}
	expected = append(expected, make([]byte, block.DigestLength)...)
	expected = append(expected,
		0x02,
		0x00, 0x05, 0x00, 0x00, 0x00, 0x01, 0xaa, 0x01, 0xbb,
		0x01, 0x05, 0x00, 0x00, 0x00, 0x02, 0xcc,
	)
	assert.Equal(t, block.Packed(expected), b.Pack(), "wrong packed block")
}

func TestDigest(t *testing.T) {
	b := sampleBlock()
	d := b.Digest()

	assert.Equal(t, d, sampleBlock().Digest(), "digest is not deterministic")
	assert.False(t, d.IsZero(), "digest is zero")
	assert.Equal(t, block.NewDigest(b.Pack()), d, "digest is not of the packed form")

	changed := sampleBlock()
	changed.Changes[1].Delete = false
	assert.NotEqual(t, d, changed.Digest(), "delete flag not covered by digest")

	changed = sampleBlock()
	changed.Number += 1
	assert.NotEqual(t, d, changed.Digest(), "number not covered by digest")

	changed = sampleBlock()
	changed.Changes[0].Item = storage.NewItem([]byte("One"))
	assert.NotEqual(t, d, changed.Digest(), "value not covered by digest")
}

func TestDigestText(t *testing.T) {
	d := block.NewDigest([]byte("text"))

	text, err := d.MarshalText()
	assert.Nil(t, err, "marshal error")
	assert.Equal(t, d.String(), string(text), "text differs from String")
	assert.Equal(t, 2*block.DigestLength, len(text), "wrong text length")
	assert.Equal(t, "<SHA3-256:"+d.String()+">", fmt.Sprintf("%#v", d), "wrong GoString")

	var back block.Digest
	err = back.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal error")
	assert.Equal(t, d, back, "wrong digest from text")

	err = back.UnmarshalText([]byte("0102"))
	assert.Equal(t, fault.ErrInvalidDigest, err, "short text accepted")
}

func TestDigestFromBytes(t *testing.T) {
	d := block.NewDigest([]byte("bytes"))

	back, err := block.DigestFromBytes(d[:])
	assert.Nil(t, err, "error")
	assert.Equal(t, d, back, "wrong digest")

	_, err = block.DigestFromBytes(d[1:])
	assert.Equal(t, fault.ErrInvalidDigest, err, "short buffer accepted")

	assert.True(t, block.Digest{}.IsZero(), "zero digest not zero")
}

func TestPuts(t *testing.T) {
	puts := sampleBlock().Puts()
	assert.Equal(t, 2, len(puts), "wrong number of puts")
	assert.Equal(t, []byte("one"), puts[0].Item.Value, "wrong first put")
	assert.Equal(t, []byte("two"), puts[1].Item.Value, "wrong second put")
}

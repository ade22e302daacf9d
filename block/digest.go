// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/blockstate/fault"
)

// DigestLength - number of bytes in a digest
const DigestLength = 32

// Digest - SHA3-256 of a packed block
type Digest [DigestLength]byte

// NewDigest - digest of a byte slice
func NewDigest(record []byte) Digest {
	return Digest(sha3.Sum256(record))
}

// DigestFromBytes - convert and validate a byte slice
func DigestFromBytes(buffer []byte) (Digest, error) {
	var digest Digest
	if DigestLength != len(buffer) {
		return digest, fault.ErrInvalidDigest
	}
	copy(digest[:], buffer)
	return digest, nil
}

// IsZero - the digest of nothing, used as the link of the first block
func (digest Digest) IsZero() bool {
	return Digest{} == digest
}

// String - hex text for the fmt package
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - for %#v
func (digest Digest) GoString() string {
	return "<SHA3-256:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - hex text
func (digest Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(DigestLength))
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - hex text to a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	n, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}
	d, err := DigestFromBytes(buffer[:n])
	if nil != err {
		return err
	}
	*digest = d
	return nil
}

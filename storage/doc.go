// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the authoritative ledger store
//
//  ***** Key Layout *****
//
//  Prefix   Key                                   Value
//  0x00     "VERSION"                             uint32 BE database version
//  0x00     "HEAD"                                uint64 BE block number ++ block digest
//  'S'      int32 BE contract id ++ key bytes     item bytes
//
// every block is written as one synchronous LevelDB batch so the
// state of the database always reflects the end of a whole block
package storage

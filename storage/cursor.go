// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/blockstate/fault"
)

// AllIDs - Map over the items of every id
const AllIDs = -1

// Map - run a function on stored items in key order
//
// only keys with the given id are visited unless id is AllIDs;
// iteration stops at the first error from f, which is returned
func (s *Store) Map(id int32, f func(key Key, item Item) error) error {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return fault.ErrStoreClosed
	}

	prefix := []byte{itemPrefix}
	if AllIDs != id {
		prefix = make([]byte, 1+idLength)
		prefix[0] = itemPrefix
		binary.BigEndian.PutUint32(prefix[1:], uint32(id))
	}

	iter := s.db.NewIterator(ldb_util.BytesPrefix(prefix), nil)

	var err error
iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key, e := KeyFromBytes(iter.Key()[1:])
		if nil != e {
			err = e
			break iterating
		}

		err = f(key, NewItem(iter.Value()))
		if nil != err {
			break iterating
		}
	}
	iter.Release()
	if nil == err {
		err = iter.Error()
	}
	return err
}

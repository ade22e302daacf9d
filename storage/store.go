// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/blockstate/fault"
	"github.com/bitmark-inc/logger"
)

const (
	currentDBVersion = 0x100

	metaPrefix = 0x00
	itemPrefix = 'S'

	// length of the head record: block number + digest
	numberLength = 8
)

var (
	versionKey = []byte{metaPrefix, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}
	headKey    = []byte{metaPrefix, 'H', 'E', 'A', 'D'}
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Store - LevelDB backed ledger state
type Store struct {
	sync.RWMutex
	log *logger.L
	db  *leveldb.DB
}

// Open - open (creating if necessary) the database at path
func Open(path string, readOnly bool) (*Store, error) {
	log := logger.New("storage")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		log.Errorf("open: %q  error: %s", path, err)
		return nil, err
	}

	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	switch {
	case version > currentDBVersion:
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		db.Close()
		return nil, fault.ErrDatabaseVersion

	case 0 == version && !readOnly:
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return nil, err
		}

	case 0 == version:
		log.Criticalf("read only database: %q has no version", path)
		db.Close()
		return nil, fault.ErrDatabaseVersion
	}

	log.Infof("opened: %q  read only: %t", path, readOnly)

	return &Store{
		log: log,
		db:  db,
	}, nil
}

// Close - close the database, further access returns fault.ErrStoreClosed
func (s *Store) Close() {
	s.Lock()
	defer s.Unlock()

	if nil != s.db {
		s.db.Close()
		s.db = nil
		s.log.Info("closed")
	}
}

// Get - read an item
//
// the second result is false if the key is not present
func (s *Store) Get(key Key) (Item, bool, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return Item{}, false, fault.ErrStoreClosed
	}

	value, err := s.db.Get(itemKey(key), nil)
	if leveldb.ErrNotFound == err {
		return Item{}, false, nil
	}
	if nil != err {
		s.log.Errorf("get: %s  error: %s", key, err)
		return Item{}, false, err
	}

	// LevelDB returns a fresh slice, no copy required
	return Item{Value: value}, true, nil
}

// Has - check if a key is present
func (s *Store) Has(key Key) (bool, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return false, fault.ErrStoreClosed
	}
	return s.db.Has(itemKey(key), nil)
}

// Head - number and digest of the last committed block
//
// found is false for an empty database
func (s *Store) Head() (number uint64, digest []byte, found bool, err error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return 0, nil, false, fault.ErrStoreClosed
	}

	buffer, err := s.db.Get(headKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil, false, nil
	}
	if nil != err {
		return 0, nil, false, err
	}
	if len(buffer) < numberLength {
		s.log.Criticalf("truncated head record: %x", buffer)
		return 0, nil, false, fault.ErrDatabaseVersion
	}

	return binary.BigEndian.Uint64(buffer[:numberLength]), buffer[numberLength:], true, nil
}

// Commit - write all changes of one block and the new head as a
// single synchronous batch
//
// the block is durable when this returns without error
func (s *Store) Commit(number uint64, digest []byte, changes []Change) error {
	batch := new(leveldb.Batch)
	for _, c := range changes {
		if c.Delete {
			batch.Delete(itemKey(c.Key))
		} else {
			batch.Put(itemKey(c.Key), c.Item.Value)
		}
	}

	head := make([]byte, numberLength, numberLength+len(digest))
	binary.BigEndian.PutUint64(head, number)
	batch.Put(headKey, append(head, digest...))

	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return fault.ErrStoreClosed
	}

	err := s.db.Write(batch, &ldb_opt.WriteOptions{Sync: true})
	if nil != err {
		s.log.Errorf("commit block: %d  error: %s", number, err)
		return err
	}
	s.log.Debugf("committed block: %d  changes: %d", number, len(changes))
	return nil
}

// prepend the item prefix onto the encoded key
func itemKey(key Key) []byte {
	encoded := key.Bytes()
	prefixed := make([]byte, 1, len(encoded)+1)
	prefixed[0] = itemPrefix
	return append(prefixed, encoded...)
}

func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fault.ErrDatabaseVersion
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return db.Put(versionKey, currentVersion, nil)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrBlockNotInSequence   = InvalidError("block not in sequence")
	ErrCacheNotLocked       = ProcessError("cache exclusive lock is not held")
	ErrConfigurationFile    = NotFoundError("configuration file is not found")
	ErrDatabaseIsNotSet     = ProcessError("database is not set")
	ErrDatabaseVersion      = InvalidError("incompatible database version")
	ErrInvalidCapacity      = InvalidError("invalid capacity")
	ErrInvalidChainLink     = InvalidError("previous block digest does not match")
	ErrInvalidConfiguration = InvalidError("configuration must return a table")
	ErrInvalidDataDirectory = InvalidError("invalid data directory")
	ErrInvalidDigest        = InvalidError("invalid digest")
	ErrInvalidDuration      = InvalidError("invalid duration")
	ErrInvalidEndpoint      = InvalidError("invalid endpoint")
	ErrInvalidKeyLength     = InvalidError("invalid key length")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidPort          = InvalidError("invalid port")
	ErrInvalidSettings      = InvalidError("invalid limiter settings")
	ErrMissingQueue         = InvalidError("missing queue")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrQueueFull            = ProcessError("queue is full")
	ErrStoreClosed          = ProcessError("store is closed")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Only real failures are errors: a rejected peer message, a full
// cache or a cache lock that could not be obtained in time are
// ordinary results and are returned as values by their packages.
package fault

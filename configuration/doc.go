// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.  The file must
// end by returning a single table, for example:
//
//   local M = {}
//   M.data_directory = "."
//   M.cache = { capacity = 65536, lock_timeout = "100ms" }
//   M.limiter = { max_transactions_per_block = 512, max_connections = 40 }
//   return M
package configuration

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - bounded queues for messages passed between
// components, e.g. committed blocks on their way to the dispatcher
// and admitted peer messages on their way to processing
//
// queues are created by the owner and handed to both ends; there are
// no package level queues
package messagebus

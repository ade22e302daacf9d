// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

// message commands
const (
	CommandAssets   = "assets"
	CommandBlock    = "block"
	CommandHeart    = "heart"
	CommandIssues   = "issues"
	CommandPeer     = "peer"
	CommandProof    = "proof"
	CommandRPC      = "rpc"
	CommandTransfer = "transfer"
)

// Message - one message received from a peer
type Message struct {
	Command string
	Payload []byte
}

// IsTransaction - true for commands that carry transactions
func IsTransaction(command string) bool {
	switch command {
	case CommandAssets, CommandIssues, CommandTransfer:
		return true
	default:
		return false
	}
}

// IsTransaction - true if the message carries transactions
func (m Message) IsTransaction() bool {
	return IsTransaction(m.Command)
}

// Size - bytes counted against a peer's bandwidth
func (m Message) Size() int {
	return len(m.Command) + len(m.Payload)
}

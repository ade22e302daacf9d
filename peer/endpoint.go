// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"strconv"
	"strings"

	ma "github.com/multiformats/go-multiaddr"

	"github.com/bitmark-inc/blockstate/fault"
)

// Endpoint - address and port of a connected peer
//
// comparable, so it can be used directly as a map key
type Endpoint struct {
	Address string // canonical IP text
	Port    uint16
}

// NewEndpoint - create an endpoint from an IP and port
func NewEndpoint(ip net.IP, port uint16) (Endpoint, error) {
	if nil == ip || nil == ip.To16() {
		return Endpoint{}, fault.ErrInvalidEndpoint
	}
	if 0 == port {
		return Endpoint{}, fault.ErrInvalidPort
	}
	return Endpoint{
		Address: ip.String(),
		Port:    port,
	}, nil
}

// ParseEndpoint - accepts "host:port", "[v6]:port" or a multiaddr
// such as "/ip4/127.0.0.1/tcp/2136"
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/") {
		return parseMultiaddr(s)
	}

	host, port, err := net.SplitHostPort(s)
	if nil != err {
		return Endpoint{}, fault.ErrInvalidEndpoint
	}
	return endpointFromStrings(host, port)
}

// String - host:port form
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(int(e.Port)))
}

// Multiaddr - the multiaddr form, tcp is assumed
func (e Endpoint) Multiaddr() (ma.Multiaddr, error) {
	ip := net.ParseIP(e.Address)
	if nil == ip {
		return nil, fault.ErrInvalidEndpoint
	}
	version := "ip6"
	if nil != ip.To4() {
		version = "ip4"
	}
	return ma.NewMultiaddr("/" + version + "/" + e.Address + "/tcp/" + strconv.Itoa(int(e.Port)))
}

func parseMultiaddr(s string) (Endpoint, error) {
	addr, err := ma.NewMultiaddr(s)
	if nil != err {
		return Endpoint{}, fault.ErrInvalidEndpoint
	}

	host, err := addr.ValueForProtocol(ma.P_IP4)
	if nil != err {
		host, err = addr.ValueForProtocol(ma.P_IP6)
		if nil != err {
			return Endpoint{}, fault.ErrInvalidEndpoint
		}
	}

	port, err := addr.ValueForProtocol(ma.P_TCP)
	if nil != err {
		port, err = addr.ValueForProtocol(ma.P_UDP)
		if nil != err {
			return Endpoint{}, fault.ErrInvalidPort
		}
	}
	return endpointFromStrings(host, port)
}

func endpointFromStrings(host string, port string) (Endpoint, error) {
	ip := net.ParseIP(strings.TrimSpace(host))
	if nil == ip {
		return Endpoint{}, fault.ErrInvalidEndpoint
	}
	n, err := strconv.ParseUint(strings.TrimSpace(port), 10, 16)
	if nil != err {
		return Endpoint{}, fault.ErrInvalidPort
	}
	return NewEndpoint(ip, uint16(n))
}

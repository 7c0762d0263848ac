// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import "errors"

// The error taxonomy of spec.md §7. Callers should use errors.Is against
// these sentinels; concrete errors returned by this package wrap one of them
// with context via %w.
var (
	// ErrMalformed means a BER byte stream violates encoding rules: a bad
	// length field, a truncated payload, an unknown tag, or an OID
	// subidentifier overflow.
	ErrMalformed = errors.New("snmp: malformed BER")

	// ErrGrammarViolation means the BER was well-formed but the SNMP message
	// grammar was not honored (wrong child count or type at a required
	// position).
	ErrGrammarViolation = errors.New("snmp: grammar violation")

	// ErrUnsupportedForVersion means a (version, PDU type) pair is forbidden
	// by spec.md §3.3 (e.g. GetBulkRequest under SNMPv1).
	ErrUnsupportedForVersion = errors.New("snmp: pdu type unsupported for version")

	// ErrBindFailed means the OS refused to bind the UDP socket.
	ErrBindFailed = errors.New("snmp: bind failed")

	// ErrSendFailed means send_to returned an error or wrote fewer bytes
	// than requested.
	ErrSendFailed = errors.New("snmp: send failed")

	// ErrReceiveFailed means recv_from returned a non-cancellation OS error,
	// or a datagram arrived that filled the receive buffer (oversized).
	ErrReceiveFailed = errors.New("snmp: receive failed")

	// ErrNotInitialized means an operation was attempted before Initialize.
	ErrNotInitialized = errors.New("snmp: endpoint not initialized")
)

// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ObjectIdentifier is an ordered sequence of non-negative sub-identifiers,
// per spec.md §3.2. The zero value is not a valid OID (it has no
// sub-identifiers); use ParseOID or construct a literal with at least two
// elements.
type ObjectIdentifier []uint32

// ParseOID parses a dotted-decimal string such as "1.3.6.1.2.1.1.5.0" into
// an ObjectIdentifier. A leading "." is tolerated and stripped, matching the
// convention used by SNMP tooling for "absolute" OIDs.
func ParseOID(s string) (ObjectIdentifier, error) {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty OID string", ErrMalformed)
	}
	parts := strings.Split(s, ".")
	oid := make(ObjectIdentifier, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid OID component %q: %v", ErrMalformed, p, err)
		}
		oid = append(oid, uint32(v))
	}
	if err := oid.validate(); err != nil {
		return nil, err
	}
	return oid, nil
}

// validate enforces the subidentifier-count and first-pair invariants of
// spec.md §3.2.
func (o ObjectIdentifier) validate() error {
	if len(o) < 2 {
		return fmt.Errorf("%w: OID must have at least 2 subidentifiers, got %d", ErrMalformed, len(o))
	}
	if o[0] > 2 {
		return fmt.Errorf("%w: OID first component must be 0, 1 or 2, got %d", ErrMalformed, o[0])
	}
	if o[0] < 2 && o[1] >= 40 {
		return fmt.Errorf("%w: OID second component must be < 40 when first is 0 or 1, got %d", ErrMalformed, o[1])
	}
	return nil
}

// String renders the canonical dotted-decimal form, e.g. "1.3.6.1.2.1.1.5.0".
func (o ObjectIdentifier) String() string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether o and other have identical sub-identifiers in the
// same order.
func (o ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// encode packs o into its BER payload: the first two sub-identifiers into
// one octet (40*a+b), each remaining one base-128 MSB-first, per spec.md
// §4.1's OID encoding contract.
func (o ObjectIdentifier) encode() ([]byte, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o[0] == 2 && o[1] > 0xFF-80 {
		return nil, fmt.Errorf("%w: OID first-pair overflow (40*%d+%d)", ErrMalformed, o[0], o[1])
	}
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(40*o[0] + o[1]))
	for _, sub := range o[2:] {
		marshalBase128(buf, sub)
	}
	return buf.Bytes(), nil
}

// decodeOID parses an OID payload (the bytes following tag+length) into an
// ObjectIdentifier, per spec.md §4.1's decoding enforcement: at least one
// octet consumed, continuation chain terminates within payload, no
// subidentifier overflows 32 bits.
func decodeOID(payload []byte) (ObjectIdentifier, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: zero-length OID payload", ErrMalformed)
	}
	first := payload[0]
	var a, b uint32
	if first < 80 {
		a, b = uint32(first)/40, uint32(first)%40
	} else {
		a, b = 2, uint32(first)-80
	}
	oid := ObjectIdentifier{a, b}
	offset := 1
	for offset < len(payload) {
		v, next, err := parseBase128(payload, offset)
		if err != nil {
			return nil, err
		}
		oid = append(oid, v)
		offset = next
	}
	return oid, nil
}

// encodedLen reports the encoded payload length without allocating.
func (o ObjectIdentifier) encodedLen() int {
	n := 1 // first-pair octet
	for _, sub := range o[2:] {
		n += base128Len(sub)
	}
	return n
}

func base128Len(v uint32) int {
	if v == 0 {
		return 1
	}
	n := 0
	for ; v > 0; v >>= 7 {
		n++
	}
	return n
}

// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// -- Length octets -------------------------------------------------------
//
// http://luca.ntop.org/Teaching/Appunti/asn1.html
//
// Length octets. There are two forms: short (for lengths between 0 and 127),
// and long definite (for lengths between 0 and 2^1008-1, though this package
// only ever needs to deal with values that fit in an int).
//
// * Short form. One octet. Bit 8 has value "0" and bits 7-1 give the length.
// * Long form. Two to 127 octets. Bit 8 of first octet has value "1" and
//   bits 7-1 give the number of additional length octets. Second and
//   following octets give the length, base 256, most significant digit
//   first.

// marshalLength builds the shortest valid BER length field for length.
func marshalLength(length int) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrMalformed, length)
	}
	if length <= 0x7F {
		return []byte{byte(length)}, nil
	}

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.BigEndian, uint64(length)); err != nil {
		return nil, err
	}
	raw := buf.Bytes()
	for idx, octet := range raw {
		if octet != 0 {
			raw = raw[idx:]
			break
		}
	}
	return append([]byte{0x80 | byte(len(raw))}, raw...), nil
}

// parseLength reads a BER length field at the start of data and returns the
// declared payload length and the number of bytes the tag+length field
// occupied (the cursor at which the payload begins). It rejects the
// indefinite-length long form (0x80 with zero following octets) and any
// length field that claims more octets than are present.
func parseLength(data []byte) (length int, cursor int, err error) {
	if len(data) < 2 {
		return 0, 0, fmt.Errorf("%w: truncated tag/length header", ErrMalformed)
	}
	if data[1] <= 0x7F {
		return int(data[1]), 2, nil
	}
	numOctets := int(data[1]) & 0x7F
	if numOctets == 0 {
		return 0, 0, fmt.Errorf("%w: indefinite-length BER is not supported", ErrMalformed)
	}
	if len(data) < 2+numOctets {
		return 0, 0, fmt.Errorf("%w: truncated long-form length field", ErrMalformed)
	}
	length = 0
	for i := 0; i < numOctets; i++ {
		length = (length << 8) | int(data[2+i])
	}
	if length < 0 {
		return 0, 0, fmt.Errorf("%w: length field overflow", ErrMalformed)
	}
	return length, 2 + numOctets, nil
}

// -- Signed/unsigned integer encoding -------------------------------------
//
// snmp Integer32 and INTEGER: -2^31..2^31-1 inclusive, two's-complement,
// minimal width, sign-extended on decode.
//
// snmp Counter32, Gauge32, TimeTicks, Unsigned32: non-negative, maximum
// 2^32-1, same minimal-width encoding but decoded without sign extension.

// marshalInt32 encodes a signed 32-bit value in the fewest two's-complement
// big-endian octets that preserve the sign bit.
func marshalInt32(value int32) []byte {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw, uint32(value))
	if value >= 0 {
		switch {
		case value < 0x80:
			return raw[3:]
		case value < 0x8000:
			return raw[2:]
		case value < 0x800000:
			return raw[1:]
		default:
			return raw
		}
	}
	switch {
	case value >= -0x80:
		return raw[3:]
	case value >= -0x8000:
		return raw[2:]
	case value >= -0x800000:
		return raw[1:]
	default:
		return raw
	}
}

// marshalUint32 encodes an unsigned 32-bit value in the fewest octets,
// prefixing a 0x00 when the top bit of the minimal encoding would otherwise
// be set (so the value is never misread as negative).
func marshalUint32(value uint32) []byte {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw, value)
	trimmed := bytes.TrimLeft(raw, "\x00")
	if len(trimmed) == 0 {
		trimmed = raw[3:]
	}
	if trimmed[0]&0x80 != 0 {
		trimmed = append([]byte{0x00}, trimmed...)
	}
	return trimmed
}

// marshalUint64 encodes an unsigned 64-bit value the same way as
// marshalUint32, for Counter64.
func marshalUint64(value uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, value)
	trimmed := bytes.TrimLeft(raw, "\x00")
	if len(trimmed) == 0 {
		trimmed = raw[7:]
	}
	if trimmed[0]&0x80 != 0 {
		trimmed = append([]byte{0x00}, trimmed...)
	}
	return trimmed
}

// parseInt64 sign-extends a big-endian two's-complement byte string into an
// int64.
func parseInt64(data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: zero-length Integer", ErrMalformed)
	}
	if len(data) > 8 {
		return 0, fmt.Errorf("%w: Integer too large (%d bytes)", ErrMalformed, len(data))
	}
	var ret int64
	for _, b := range data {
		ret = (ret << 8) | int64(b)
	}
	shift := uint(64 - len(data)*8)
	ret <<= shift
	ret >>= shift
	return ret, nil
}

// parseInt32 parses a signed BER Integer, rejecting anything that wouldn't
// fit in 32 bits (spec.md's testable-property range is [-2^31, 2^31-1]).
func parseInt32(data []byte) (int32, error) {
	v, err := parseInt64(data)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: Integer %d out of int32 range", ErrMalformed, v)
	}
	return int32(v), nil
}

// parseUint64 parses an unsigned big-endian byte string without sign
// extension.
func parseUint64(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: zero-length unsigned integer", ErrMalformed)
	}
	if len(data) > 9 || (len(data) == 9 && data[0] != 0x00) {
		return 0, fmt.Errorf("%w: unsigned integer too large (%d bytes)", ErrMalformed, len(data))
	}
	var ret uint64
	for _, b := range data {
		ret = (ret << 8) | uint64(b)
	}
	return ret, nil
}

// parseUint32 parses an unsigned BER integer that must fit in 32 bits.
func parseUint32(data []byte) (uint32, error) {
	v, err := parseUint64(data)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: unsigned integer %d out of uint32 range", ErrMalformed, v)
	}
	return uint32(v), nil
}

// -- Base-128 (OID sub-identifier) encoding -------------------------------

// marshalBase128 appends the base-128, MSB-first, continuation-bit encoding
// of n to buf.
func marshalBase128(buf *bytes.Buffer, n uint32) {
	if n == 0 {
		buf.WriteByte(0x00)
		return
	}
	var septets [5]byte
	count := 0
	for v := n; v > 0; v >>= 7 {
		septets[count] = byte(v & 0x7F)
		count++
	}
	for i := count - 1; i >= 0; i-- {
		b := septets[i]
		if i != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
	}
}

// parseBase128 reads one base-128 sub-identifier starting at data[offset].
// It returns the decoded value and the offset just past the consumed
// octets, rejecting chains that would overflow 32 bits or that run past the
// end of data without a terminating octet.
func parseBase128(data []byte, offset int) (uint32, int, error) {
	var ret uint64
	start := offset
	for offset < len(data) {
		if offset-start > 4 {
			return 0, 0, fmt.Errorf("%w: OID subidentifier too large", ErrMalformed)
		}
		b := data[offset]
		ret = (ret << 7) | uint64(b&0x7F)
		offset++
		if b&0x80 == 0 {
			if ret > math.MaxUint32 {
				return 0, 0, fmt.Errorf("%w: OID subidentifier overflows 32 bits", ErrMalformed)
			}
			return uint32(ret), offset, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: truncated base-128 subidentifier", ErrMalformed)
}

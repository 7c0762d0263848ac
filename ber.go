// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"bytes"
	"fmt"
	"math"
)

// Value is a BER-encodable entity: one of the tagged-union variants of
// spec.md §3.1. This is the Go equivalent of the source's class hierarchy —
// a sum type over the recognized tags, dispatched by Tag() rather than by
// downcasting.
//
// Concrete implementations live in this file. Callers outside this package
// construct them directly as typed values (snmp.Integer(5),
// snmp.OctetString("public"), ...) and pass them to EncodedLength/Encode, or
// receive them back from Decode and type-switch on the concrete type.
type Value interface {
	// Tag returns the one-byte BER type tag identifying this value's
	// concrete type.
	Tag() Tag

	// payloadLen returns the encoded length of the payload only, excluding
	// the tag byte and the length field. Must be computable without
	// allocating, per spec.md §4.1.
	payloadLen() int

	// encodePayload appends this value's payload (not its tag or length
	// field) to buf.
	encodePayload(buf *bytes.Buffer) error
}

// EncodedLength returns the total encoded byte count of v: tag + length
// field + payload, per spec.md §4.1.
func EncodedLength(v Value) int {
	payloadLen := v.payloadLen()
	lengthFieldLen := 1
	if payloadLen > 0x7F {
		lengthFieldLen = 1 + numLengthOctets(payloadLen)
	}
	return 1 + lengthFieldLen + payloadLen
}

func numLengthOctets(length int) int {
	n := 0
	for l := length; l > 0; l >>= 8 {
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// Encode serializes v to its full tag||length||payload BER representation.
func Encode(v Value) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := encodeInto(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeInto writes v's tag, length field and payload to buf in order.
func encodeInto(buf *bytes.Buffer, v Value) error {
	buf.WriteByte(byte(v.Tag()))
	lengthBytes, err := marshalLength(v.payloadLen())
	if err != nil {
		return err
	}
	buf.Write(lengthBytes)
	return v.encodePayload(buf)
}

// Decode parses exactly one BER value starting at data[0]. It returns the
// parsed Value and the number of bytes consumed (the would-be new offset if
// data were a larger buffer). Unknown tags and any bounds violation are
// reported as ErrMalformed; this package never panics on malformed input,
// per spec.md §7.
func Decode(data []byte) (Value, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty buffer", ErrMalformed)
	}
	tag := Tag(data[0])
	length, headerLen, err := parseLength(data)
	if err != nil {
		return nil, 0, err
	}
	total := headerLen + length
	if total > len(data) {
		return nil, 0, fmt.Errorf("%w: %s declares length %d but only %d bytes available",
			ErrMalformed, tag, length, len(data)-headerLen)
	}
	payload := data[headerLen:total]

	switch {
	case tag == TagBoolean:
		v, err := decodeBoolean(payload)
		return v, total, err
	case tag == TagInteger:
		v, err := decodeInteger(payload)
		return v, total, err
	case tag == TagOctetString:
		return OctetString(append([]byte{}, payload...)), total, nil
	case tag == TagNull:
		if len(payload) != 0 {
			return nil, 0, fmt.Errorf("%w: Null must have zero-length payload, got %d", ErrMalformed, len(payload))
		}
		return Null{}, total, nil
	case tag == TagObjectIdentifier:
		oid, err := decodeOID(payload)
		if err != nil {
			return nil, 0, err
		}
		return Oid{oid}, total, nil
	case tag == TagSequence:
		children, err := decodeChildren(payload)
		if err != nil {
			return nil, 0, err
		}
		return Sequence(children), total, nil
	case tag == TagIPAddress:
		v, err := decodeIPAddress(payload)
		return v, total, err
	case tag == TagCounter32:
		v, err := decodeCounter32(payload)
		return v, total, err
	case tag == TagGauge32:
		v, err := decodeGauge32(payload)
		return v, total, err
	case tag == TagTimeTicks:
		v, err := decodeTimeTicks(payload)
		return v, total, err
	case tag == TagOpaque:
		return Opaque(append([]byte(nil), payload...)), total, nil
	case tag == TagCounter64:
		v, err := decodeCounter64(payload)
		return v, total, err
	case tag == TagFloat:
		v, err := decodeFloat(payload)
		return v, total, err
	case tag == TagNoSuchObject:
		if len(payload) != 0 {
			return nil, 0, fmt.Errorf("%w: NoSuchObject must have zero-length payload", ErrMalformed)
		}
		return NoSuchObject{}, total, nil
	case tag == TagNoSuchInstance:
		if len(payload) != 0 {
			return nil, 0, fmt.Errorf("%w: NoSuchInstance must have zero-length payload", ErrMalformed)
		}
		return NoSuchInstance{}, total, nil
	case tag == TagEndOfMIBView:
		if len(payload) != 0 {
			return nil, 0, fmt.Errorf("%w: EndOfMIBView must have zero-length payload", ErrMalformed)
		}
		return EndOfMIBView{}, total, nil
	case isPDUTag(tag):
		children, err := decodeChildren(payload)
		if err != nil {
			return nil, 0, err
		}
		return PDU{PDUTag: tag, Elements: children}, total, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown tag %#x", ErrMalformed, byte(tag))
	}
}

// decodeChildren repeatedly parses BER values out of payload until it is
// exhausted, per spec.md §4.1's tag-dispatch rule for constructed types:
// "recursively parses children until the sequence's declared length is
// exhausted".
func decodeChildren(payload []byte) ([]Value, error) {
	var children []Value
	offset := 0
	for offset < len(payload) {
		child, n, err := Decode(payload[offset:])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		offset += n
	}
	return children, nil
}

// -- Boolean ---------------------------------------------------------------

// Boolean is the BER Boolean type (tag 0x01): one octet, 0x00 = false,
// non-zero = true.
type Boolean bool

func (Boolean) Tag() Tag       { return TagBoolean }
func (Boolean) payloadLen() int { return 1 }
func (b Boolean) encodePayload(buf *bytes.Buffer) error {
	if b {
		buf.WriteByte(0xFF)
	} else {
		buf.WriteByte(0x00)
	}
	return nil
}

func decodeBoolean(payload []byte) (Boolean, error) {
	if len(payload) != 1 {
		return false, fmt.Errorf("%w: Boolean must have a 1-byte payload, got %d", ErrMalformed, len(payload))
	}
	return Boolean(payload[0] != 0x00), nil
}

// -- Integer -----------------------------------------------------------------

// Integer is the BER Integer type (tag 0x02): two's-complement, minimal
// width, sign-extended on decode.
type Integer int32

func (Integer) Tag() Tag { return TagInteger }
func (i Integer) payloadLen() int {
	return len(marshalInt32(int32(i)))
}
func (i Integer) encodePayload(buf *bytes.Buffer) error {
	buf.Write(marshalInt32(int32(i)))
	return nil
}

func decodeInteger(payload []byte) (Integer, error) {
	v, err := parseInt32(payload)
	if err != nil {
		return 0, err
	}
	return Integer(v), nil
}

// -- OctetString -------------------------------------------------------------

// OctetString is the BER OctetString type (tag 0x04): a raw byte sequence
// that may contain NULs.
type OctetString []byte

func (OctetString) Tag() Tag           { return TagOctetString }
func (s OctetString) payloadLen() int { return len(s) }
func (s OctetString) encodePayload(buf *bytes.Buffer) error {
	buf.Write(s)
	return nil
}

// -- Null ----------------------------------------------------------------

// Null is the BER Null type (tag 0x05): always zero-length.
type Null struct{}

func (Null) Tag() Tag                             { return TagNull }
func (Null) payloadLen() int                      { return 0 }
func (Null) encodePayload(_ *bytes.Buffer) error { return nil }

// -- ObjectIdentifier value ------------------------------------------------

// Oid wraps an ObjectIdentifier so it can appear as a varbind value (tag
// 0x06), as distinct from its use as a VarBind's Name or a v1 Trap's
// Enterprise field, which are plain ObjectIdentifiers.
type Oid struct {
	OID ObjectIdentifier
}

func (Oid) Tag() Tag            { return TagObjectIdentifier }
func (o Oid) payloadLen() int { return o.OID.encodedLen() }
func (o Oid) encodePayload(buf *bytes.Buffer) error {
	b, err := o.OID.encode()
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// -- Sequence ----------------------------------------------------------------

// Sequence is the generic BER constructed type (tag 0x30): the
// concatenation of its children's full encodings.
type Sequence []Value

func (Sequence) Tag() Tag { return TagSequence }
func (s Sequence) payloadLen() int {
	total := 0
	for _, child := range s {
		total += EncodedLength(child)
	}
	return total
}
func (s Sequence) encodePayload(buf *bytes.Buffer) error {
	for _, child := range s {
		if err := encodeInto(buf, child); err != nil {
			return err
		}
	}
	return nil
}

// -- PDU -----------------------------------------------------------------

// PDU is a constructed value whose tag is one of the PDU discriminants of
// spec.md §3.3, carrying its body elements as children in wire order. The
// Message model (message.go) is responsible for interpreting Elements
// according to PDUTag; the BER layer treats a PDU exactly like a Sequence
// except for its tag byte.
type PDU struct {
	PDUTag   Tag
	Elements []Value
}

func (p PDU) Tag() Tag { return p.PDUTag }
func (p PDU) payloadLen() int {
	total := 0
	for _, child := range p.Elements {
		total += EncodedLength(child)
	}
	return total
}
func (p PDU) encodePayload(buf *bytes.Buffer) error {
	for _, child := range p.Elements {
		if err := encodeInto(buf, child); err != nil {
			return err
		}
	}
	return nil
}

// -- IPAddress -----------------------------------------------------------

// IPAddress is the application-tagged OctetString (tag 0x40) carrying a
// 4-octet IPv4 address.
type IPAddress [4]byte

func (IPAddress) Tag() Tag       { return TagIPAddress }
func (IPAddress) payloadLen() int { return 4 }
func (ip IPAddress) encodePayload(buf *bytes.Buffer) error {
	buf.Write(ip[:])
	return nil
}

func decodeIPAddress(payload []byte) (IPAddress, error) {
	if len(payload) != 4 {
		return IPAddress{}, fmt.Errorf("%w: IPAddress must have a 4-byte payload, got %d", ErrMalformed, len(payload))
	}
	var ip IPAddress
	copy(ip[:], payload)
	return ip, nil
}

// String renders the dotted-decimal form, e.g. "192.0.2.1".
func (ip IPAddress) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

// -- Counter32 / Gauge32 / TimeTicks / Counter64 ---------------------------

// Counter32 is an unsigned 32-bit value with minimal-length encoding,
// decoded without sign extension (tag 0x41).
type Counter32 uint32

func (Counter32) Tag() Tag { return TagCounter32 }
func (c Counter32) payloadLen() int { return len(marshalUint32(uint32(c))) }
func (c Counter32) encodePayload(buf *bytes.Buffer) error {
	buf.Write(marshalUint32(uint32(c)))
	return nil
}

func decodeCounter32(payload []byte) (Counter32, error) {
	v, err := parseUint32(payload)
	return Counter32(v), err
}

// Gauge32 is an unsigned 32-bit value, same encoding as Counter32 (tag
// 0x42).
type Gauge32 uint32

func (Gauge32) Tag() Tag { return TagGauge32 }
func (g Gauge32) payloadLen() int { return len(marshalUint32(uint32(g))) }
func (g Gauge32) encodePayload(buf *bytes.Buffer) error {
	buf.Write(marshalUint32(uint32(g)))
	return nil
}

func decodeGauge32(payload []byte) (Gauge32, error) {
	v, err := parseUint32(payload)
	return Gauge32(v), err
}

// TimeTicks is an unsigned 32-bit value counting hundredths of a second
// (tag 0x43).
type TimeTicks uint32

func (TimeTicks) Tag() Tag { return TagTimeTicks }
func (t TimeTicks) payloadLen() int { return len(marshalUint32(uint32(t))) }
func (t TimeTicks) encodePayload(buf *bytes.Buffer) error {
	buf.Write(marshalUint32(uint32(t)))
	return nil
}

func decodeTimeTicks(payload []byte) (TimeTicks, error) {
	v, err := parseUint32(payload)
	return TimeTicks(v), err
}

// Counter64 is an unsigned 64-bit value with minimal-length encoding (tag
// 0x46).
type Counter64 uint64

func (Counter64) Tag() Tag { return TagCounter64 }
func (c Counter64) payloadLen() int { return len(marshalUint64(uint64(c))) }
func (c Counter64) encodePayload(buf *bytes.Buffer) error {
	buf.Write(marshalUint64(uint64(c)))
	return nil
}

func decodeCounter64(payload []byte) (Counter64, error) {
	v, err := parseUint64(payload)
	return Counter64(v), err
}

// -- Opaque ----------------------------------------------------------------

// Opaque is an application-tagged OctetString (tag 0x44) for arbitrarily
// encoded data, conventionally re-parsed by the application.
type Opaque []byte

func (Opaque) Tag() Tag          { return TagOpaque }
func (o Opaque) payloadLen() int { return len(o) }
func (o Opaque) encodePayload(buf *bytes.Buffer) error {
	buf.Write(o)
	return nil
}

// -- Float -----------------------------------------------------------------

// Float is the application-tagged IEEE-754 32-bit float type (tag 0x78).
type Float float32

func (Float) Tag() Tag       { return TagFloat }
func (Float) payloadLen() int { return 4 }
func (f Float) encodePayload(buf *bytes.Buffer) error {
	buf.Write(marshalFloat32(float32(f)))
	return nil
}

func decodeFloat(payload []byte) (Float, error) {
	if len(payload) != 4 {
		return 0, fmt.Errorf("%w: Float must have a 4-byte payload, got %d", ErrMalformed, len(payload))
	}
	return Float(parseFloat32(payload)), nil
}

func marshalFloat32(f float32) []byte {
	bits := math.Float32bits(f)
	raw := make([]byte, 4)
	raw[0] = byte(bits >> 24)
	raw[1] = byte(bits >> 16)
	raw[2] = byte(bits >> 8)
	raw[3] = byte(bits)
	return raw
}

func parseFloat32(payload []byte) float32 {
	bits := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
	return math.Float32frombits(bits)
}

// -- Exception markers -----------------------------------------------------

// NoSuchObject is the zero-length exception marker (tag 0x80) returned when
// a requested OID names no object.
type NoSuchObject struct{}

func (NoSuchObject) Tag() Tag                             { return TagNoSuchObject }
func (NoSuchObject) payloadLen() int                      { return 0 }
func (NoSuchObject) encodePayload(_ *bytes.Buffer) error { return nil }

// NoSuchInstance is the zero-length exception marker (tag 0x81) returned
// when an object exists but the requested instance does not.
type NoSuchInstance struct{}

func (NoSuchInstance) Tag() Tag                             { return TagNoSuchInstance }
func (NoSuchInstance) payloadLen() int                      { return 0 }
func (NoSuchInstance) encodePayload(_ *bytes.Buffer) error { return nil }

// EndOfMIBView is the zero-length exception marker (tag 0x82) returned by
// GetNextRequest/GetBulkRequest when lexicographic traversal has exhausted
// the MIB view.
type EndOfMIBView struct{}

func (EndOfMIBView) Tag() Tag                             { return TagEndOfMIBView }
func (EndOfMIBView) payloadLen() int                      { return 0 }
func (EndOfMIBView) encodePayload(_ *bytes.Buffer) error { return nil }

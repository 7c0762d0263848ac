// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalLength(t *testing.T) {
	tests := []struct {
		length   int
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x80}},
		{129, []byte{0x81, 0x81}},
		{256, []byte{0x82, 0x01, 0x00}},
	}
	for _, test := range tests {
		got, err := marshalLength(test.length)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, got)
	}
}

func TestParseLengthRoundTrip(t *testing.T) {
	tests := []int{0, 1, 127, 128, 129, 256, 435, 65535}
	for _, length := range tests {
		encoded, err := marshalLength(length)
		assert.NoError(t, err)
		data := append([]byte{0x04}, append(encoded, make([]byte, length)...)...)
		gotLength, cursor, err := parseLength(data)
		assert.NoError(t, err)
		assert.Equal(t, length, gotLength)
		assert.Equal(t, 1+len(encoded), cursor)
	}
}

func TestParseLengthRejectsIndefinite(t *testing.T) {
	_, _, err := parseLength([]byte{0x30, 0x80})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseLengthRejectsTruncated(t *testing.T) {
	_, _, err := parseLength([]byte{0x30, 0x82, 0x01})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMarshalInt32(t *testing.T) {
	tests := []struct {
		value    int32
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x00, 0x80}},
		{-1, []byte{0xFF}},
		{-128, []byte{0x80}},
		{-129, []byte{0xFF, 0x7F}},
		{2147483647, []byte{0x7F, 0xFF, 0xFF, 0xFF}},
		{-2147483648, []byte{0x80, 0x00, 0x00, 0x00}},
	}
	for _, test := range tests {
		got := marshalInt32(test.value)
		assert.Equal(t, test.expected, got, "value %d", test.value)

		back, err := parseInt32(got)
		assert.NoError(t, err)
		assert.Equal(t, test.value, back)
	}
}

func TestMarshalUint32(t *testing.T) {
	tests := []struct {
		value    uint32
		expected []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x00, 0x80}},
		{255, []byte{0x00, 0xFF}},
		{4294967295, []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, test := range tests {
		got := marshalUint32(test.value)
		assert.Equal(t, test.expected, got, "value %d", test.value)

		back, err := parseUint32(got)
		assert.NoError(t, err)
		assert.Equal(t, test.value, back)
	}
}

func TestParseUint32RejectsOverflow(t *testing.T) {
	_, err := parseUint32([]byte{0x01, 0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseInt32RejectsOverflow(t *testing.T) {
	_, err := parseInt32([]byte{0x01, 0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBase128RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 268435455, 268435456}
	for _, v := range values {
		buf := new(bytes.Buffer)
		marshalBase128(buf, v)
		got, next, err := parseBase128(buf.Bytes(), 0)
		assert.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, buf.Len(), next)
	}
}

func TestParseBase128RejectsTruncated(t *testing.T) {
	_, _, err := parseBase128([]byte{0x80, 0x80}, 0)
	assert.ErrorIs(t, err, ErrMalformed)
}

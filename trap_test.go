// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrapV1RoundTrip(t *testing.T) {
	enterprise, err := ParseOID("1.3.6.1.4.1.8072.3.2.10")
	assert.NoError(t, err)
	coldStartVar, _ := ParseOID("1.3.6.1.6.3.1.1.4.1.0")

	m := NewTrapV1([]byte("public"), enterprise, IPAddress{192, 0, 2, 1}, ColdStart, 0, TimeTicks(12345))
	m.Add(coldStartVar, OctetString("agent restarted"))

	assert.True(t, m.IsTrap())

	payload, err := m.Build()
	assert.NoError(t, err)

	got, err := Parse(payload)
	assert.NoError(t, err)
	assert.Equal(t, Version1, got.Version)
	assert.Equal(t, TagTrap, got.PDUType)
	assert.True(t, enterprise.Equal(got.Enterprise))
	assert.Equal(t, IPAddress{192, 0, 2, 1}, got.AgentAddress)
	assert.Equal(t, int32(ColdStart), got.GenericTrap)
	assert.Equal(t, int32(0), got.SpecificTrap)
	assert.Equal(t, TimeTicks(12345), got.Timestamp)
	assert.Len(t, got.VarBinds, 1)
}

func TestSNMPv2TrapRoundTrip(t *testing.T) {
	sysUpTime, _ := ParseOID("1.3.6.1.2.1.1.3.0")
	snmpTrapOID, _ := ParseOID("1.3.6.1.6.3.1.1.4.1.0")
	enterpriseSpecificTrap, _ := ParseOID("1.3.6.1.4.1.8072.2.3.0.1")

	m := NewSNMPv2Trap([]byte("public"), 1)
	m.Add(sysUpTime, TimeTicks(98765))
	m.Add(snmpTrapOID, Oid{enterpriseSpecificTrap})

	assert.True(t, m.IsTrap())

	payload, err := m.Build()
	assert.NoError(t, err)

	got, err := Parse(payload)
	assert.NoError(t, err)
	assert.Equal(t, Version2c, got.Version)
	assert.Equal(t, TagSNMPv2Trap, got.PDUType)
	assert.Len(t, got.VarBinds, 2)
	assert.Equal(t, TimeTicks(98765), got.VarBinds[0].Value)
}

func TestInformRequestRoundTrip(t *testing.T) {
	sysUpTime, _ := ParseOID("1.3.6.1.2.1.1.3.0")

	m := NewInformRequest([]byte("public"), 5)
	m.Add(sysUpTime, TimeTicks(1))

	payload, err := m.Build()
	assert.NoError(t, err)

	got, err := Parse(payload)
	assert.NoError(t, err)
	assert.Equal(t, TagInformRequest, got.PDUType)
	assert.True(t, got.IsTrap())
}

func TestTrapV1RejectedUnderV2c(t *testing.T) {
	_, err := NewMessage(Version2c, []byte("public"), TagTrap)
	assert.ErrorIs(t, err, ErrUnsupportedForVersion)
}

// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

// GenericTrap enumerates the standard generic-trap codes carried by a v1
// Trap PDU's generic-trap field, per RFC 1157.
type GenericTrap int32

const (
	ColdStart             GenericTrap = 0
	WarmStart             GenericTrap = 1
	LinkDown              GenericTrap = 2
	LinkUp                GenericTrap = 3
	AuthenticationFailure GenericTrap = 4
	EgpNeighborLoss       GenericTrap = 5
	EnterpriseSpecific    GenericTrap = 6
)

// NewTrapV1 builds an SNMPv1 Trap message (tag 0xA4). specificTrap is only
// meaningful when generic == EnterpriseSpecific; callers set it to 0
// otherwise, matching the convention of most agent implementations.
func NewTrapV1(community []byte, enterprise ObjectIdentifier, agentAddr IPAddress, generic GenericTrap, specificTrap int32, timestamp TimeTicks) *Message {
	m := &Message{
		Version:   Version1,
		Community: community,
		PDUType:   TagTrap,
	}
	m.SetTrap(enterprise, agentAddr, int32(generic), specificTrap, timestamp)
	return m
}

// NewSNMPv2Trap builds an SNMPv2c SNMPv2-Trap-PDU (tag 0xA7). Per RFC 3416,
// its varbind-list must begin with sysUpTime.0 and snmpTrapOID.0; callers
// are responsible for appending those as the first two varbinds via Add
// before any trap-specific bindings.
func NewSNMPv2Trap(community []byte, requestID int32) *Message {
	return &Message{
		Version:   Version2c,
		Community: community,
		PDUType:   TagSNMPv2Trap,
		RequestID: requestID,
	}
}

// NewInformRequest builds an SNMPv2c InformRequest PDU (tag 0xA6), which
// shares its varbind-list convention with SNMPv2Trap but solicits an
// acknowledging GetResponse from the receiving manager.
func NewInformRequest(community []byte, requestID int32) *Message {
	return &Message{
		Version:   Version2c,
		Community: community,
		PDUType:   TagInformRequest,
		RequestID: requestID,
	}
}

// IsTrap reports whether m carries trap semantics (v1 Trap, or v2c
// SNMPv2Trap/InformRequest).
func (m *Message) IsTrap() bool {
	switch m.PDUType {
	case TagTrap, TagSNMPv2Trap, TagInformRequest:
		return true
	default:
		return false
	}
}

// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import "fmt"

// Message is the top-level SNMP v1/v2c object, per spec.md §3: a Sequence of
// {version, community, pdu}. The PDU body's shape depends on PDUType — the
// seven standard PDUs (GetRequest, GetNextRequest, GetResponse, SetRequest,
// GetBulkRequest, InformRequest, SNMPv2Trap) share the {request-id,
// error-status, error-index, varbind-list} shape; the v1 Trap PDU has its
// own distinct body and is represented by the Trap* fields (see trap.go).
//
// GetBulkRequest reuses the error-status and error-index wire positions as
// non-repeaters and max-repetitions respectively; NonRepeaters and
// MaxRepetitions are accessors over the same underlying fields.
type Message struct {
	Version   Version
	Community []byte
	PDUType   Tag

	RequestID   int32
	ErrorStatus ErrorStatus
	ErrorIndex  int32
	VarBinds    VarBindList

	// Trap fields, meaningful only when PDUType == TagTrap.
	Enterprise   ObjectIdentifier
	AgentAddress IPAddress
	GenericTrap  int32
	SpecificTrap int32
	Timestamp    TimeTicks
}

// permittedPDUTags enumerates, per version, which PDU tags spec.md §3.3
// allows. GetBulkRequest and InformRequest and SNMPv2Trap are v2c-only;
// Trap is v1-only.
var permittedPDUTags = map[Version]map[Tag]bool{
	Version1: {
		TagGetRequest:  true,
		TagGetNextRequest: true,
		TagGetResponse: true,
		TagSetRequest:  true,
		TagTrap:        true,
	},
	Version2c: {
		TagGetRequest:     true,
		TagGetNextRequest: true,
		TagGetResponse:    true,
		TagSetRequest:     true,
		TagGetBulkRequest: true,
		TagInformRequest:  true,
		TagSNMPv2Trap:     true,
	},
}

// NewMessage constructs an empty Message of the given version, community and
// PDU type. It returns ErrUnsupportedForVersion if pduType is not permitted
// under version, per spec.md §3.3.
func NewMessage(version Version, community []byte, pduType Tag) (*Message, error) {
	allowed, ok := permittedPDUTags[version]
	if !ok || !allowed[pduType] {
		return nil, fmt.Errorf("%w: %s is not valid under SNMPv%s", ErrUnsupportedForVersion, pduType, version)
	}
	return &Message{
		Version:   version,
		Community: community,
		PDUType:   pduType,
	}, nil
}

// SetRequestID sets the request-id field. Meaningless for Trap PDUs.
func (m *Message) SetRequestID(id int32) { m.RequestID = id }

// SetError sets the error-status/error-index pair. Meaningless for Trap
// PDUs.
func (m *Message) SetError(status ErrorStatus, index int32) {
	m.ErrorStatus = status
	m.ErrorIndex = index
}

// NonRepeaters returns the error-status field reinterpreted as
// GetBulkRequest's non-repeaters count.
func (m *Message) NonRepeaters() int32 { return int32(m.ErrorStatus) }

// MaxRepetitions returns the error-index field reinterpreted as
// GetBulkRequest's max-repetitions count.
func (m *Message) MaxRepetitions() int32 { return m.ErrorIndex }

// SetBulkParams sets non-repeaters/max-repetitions for a GetBulkRequest.
func (m *Message) SetBulkParams(nonRepeaters, maxRepetitions int32) {
	m.ErrorStatus = ErrorStatus(nonRepeaters)
	m.ErrorIndex = maxRepetitions
}

// Add appends a varbind to the message's varbind-list.
func (m *Message) Add(name ObjectIdentifier, value Value) {
	m.VarBinds = append(m.VarBinds, NewVarBind(name, value))
}

// SetTrap populates the v1 Trap-specific fields. It is the caller's
// responsibility to have constructed the Message with PDUType == TagTrap.
func (m *Message) SetTrap(enterprise ObjectIdentifier, agentAddr IPAddress, generic, specific int32, timestamp TimeTicks) {
	m.Enterprise = enterprise
	m.AgentAddress = agentAddr
	m.GenericTrap = generic
	m.SpecificTrap = specific
	m.Timestamp = timestamp
}

// EncodedSize returns the total number of bytes Build would produce.
func (m *Message) EncodedSize() int {
	return EncodedLength(m.toValue())
}

func (m *Message) toValue() Value {
	var body []Value
	if m.PDUType == TagTrap {
		body = []Value{
			Oid{m.Enterprise},
			m.AgentAddress,
			Integer(m.GenericTrap),
			Integer(m.SpecificTrap),
			m.Timestamp,
			m.VarBinds.toSequence(),
		}
	} else {
		body = []Value{
			Integer(m.RequestID),
			Integer(m.ErrorStatus),
			Integer(m.ErrorIndex),
			m.VarBinds.toSequence(),
		}
	}
	return Sequence{
		Integer(m.Version),
		OctetString(m.Community),
		PDU{PDUTag: m.PDUType, Elements: body},
	}
}

// Build serializes m to its wire representation.
func (m *Message) Build() ([]byte, error) {
	allowed, ok := permittedPDUTags[m.Version]
	if !ok || !allowed[m.PDUType] {
		return nil, fmt.Errorf("%w: %s is not valid under SNMPv%s", ErrUnsupportedForVersion, m.PDUType, m.Version)
	}
	return Encode(m.toValue())
}

// Parse decodes buffer into a Message, enforcing the full grammar of
// spec.md §4.2: a top-level Sequence of exactly {version, community, pdu},
// version in {0, 1}, community an OctetString, a PDU tag permitted for that
// version, and a body matching the shape required by the PDU tag.
func Parse(buffer []byte) (*Message, error) {
	value, consumed, err := Decode(buffer)
	if err != nil {
		return nil, err
	}
	if consumed != len(buffer) {
		return nil, fmt.Errorf("%w: %d trailing bytes after message", ErrGrammarViolation, len(buffer)-consumed)
	}
	top, ok := value.(Sequence)
	if !ok {
		return nil, fmt.Errorf("%w: message must be a top-level Sequence, got %s", ErrGrammarViolation, value.Tag())
	}
	if len(top) != 3 {
		return nil, fmt.Errorf("%w: message Sequence must have exactly 3 elements, got %d", ErrGrammarViolation, len(top))
	}

	versionVal, ok := top[0].(Integer)
	if !ok {
		return nil, fmt.Errorf("%w: version must be an Integer, got %s", ErrGrammarViolation, top[0].Tag())
	}
	version := Version(versionVal)
	if version != Version1 && version != Version2c {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrGrammarViolation, versionVal)
	}

	community, ok := top[1].(OctetString)
	if !ok {
		return nil, fmt.Errorf("%w: community must be an OctetString, got %s", ErrGrammarViolation, top[1].Tag())
	}

	pdu, ok := top[2].(PDU)
	if !ok {
		return nil, fmt.Errorf("%w: pdu must be a tagged constructed value, got %s", ErrGrammarViolation, top[2].Tag())
	}
	if allowed, ok := permittedPDUTags[version]; !ok || !allowed[pdu.PDUTag] {
		return nil, fmt.Errorf("%w: %s is not valid under SNMPv%s", ErrUnsupportedForVersion, pdu.PDUTag, version)
	}

	m := &Message{
		Version:   version,
		Community: []byte(community),
		PDUType:   pdu.PDUTag,
	}

	if pdu.PDUTag == TagTrap {
		if err := m.parseTrapBody(pdu.Elements); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err := m.parseStandardBody(pdu.Elements); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) parseStandardBody(elements []Value) error {
	if len(elements) != 4 {
		return fmt.Errorf("%w: pdu body must have exactly 4 elements, got %d", ErrGrammarViolation, len(elements))
	}
	requestID, ok := elements[0].(Integer)
	if !ok {
		return fmt.Errorf("%w: request-id must be an Integer, got %s", ErrGrammarViolation, elements[0].Tag())
	}
	errorStatus, ok := elements[1].(Integer)
	if !ok {
		return fmt.Errorf("%w: error-status must be an Integer, got %s", ErrGrammarViolation, elements[1].Tag())
	}
	if errorStatus < 0 || errorStatus > Integer(maxErrorStatus) {
		if m.PDUType != TagGetBulkRequest {
			return fmt.Errorf("%w: error-status %d out of range", ErrGrammarViolation, errorStatus)
		}
	}
	errorIndex, ok := elements[2].(Integer)
	if !ok {
		return fmt.Errorf("%w: error-index must be an Integer, got %s", ErrGrammarViolation, elements[2].Tag())
	}
	if errorIndex < 0 || errorIndex > 255 {
		if m.PDUType != TagGetBulkRequest {
			return fmt.Errorf("%w: error-index %d out of range", ErrGrammarViolation, errorIndex)
		}
	}
	varbindSeq, ok := elements[3].(Sequence)
	if !ok {
		return fmt.Errorf("%w: varbind-list must be a Sequence, got %s", ErrGrammarViolation, elements[3].Tag())
	}
	varbinds, err := varBindListFromSequence(varbindSeq)
	if err != nil {
		return err
	}
	m.RequestID = int32(requestID)
	m.ErrorStatus = ErrorStatus(errorStatus)
	m.ErrorIndex = int32(errorIndex)
	m.VarBinds = varbinds
	return nil
}

func (m *Message) parseTrapBody(elements []Value) error {
	if len(elements) != 6 {
		return fmt.Errorf("%w: trap body must have exactly 6 elements, got %d", ErrGrammarViolation, len(elements))
	}
	enterprise, ok := elements[0].(Oid)
	if !ok {
		return fmt.Errorf("%w: enterprise must be an ObjectIdentifier, got %s", ErrGrammarViolation, elements[0].Tag())
	}
	agentAddr, ok := elements[1].(IPAddress)
	if !ok {
		return fmt.Errorf("%w: agent-addr must be an IPAddress, got %s", ErrGrammarViolation, elements[1].Tag())
	}
	generic, ok := elements[2].(Integer)
	if !ok {
		return fmt.Errorf("%w: generic-trap must be an Integer, got %s", ErrGrammarViolation, elements[2].Tag())
	}
	specific, ok := elements[3].(Integer)
	if !ok {
		return fmt.Errorf("%w: specific-trap must be an Integer, got %s", ErrGrammarViolation, elements[3].Tag())
	}
	timestamp, ok := elements[4].(TimeTicks)
	if !ok {
		return fmt.Errorf("%w: time-stamp must be a TimeTicks, got %s", ErrGrammarViolation, elements[4].Tag())
	}
	varbindSeq, ok := elements[5].(Sequence)
	if !ok {
		return fmt.Errorf("%w: varbind-list must be a Sequence, got %s", ErrGrammarViolation, elements[5].Tag())
	}
	varbinds, err := varBindListFromSequence(varbindSeq)
	if err != nil {
		return err
	}
	m.Enterprise = enterprise.OID
	m.AgentAddress = agentAddr
	m.GenericTrap = int32(generic)
	m.SpecificTrap = int32(specific)
	m.Timestamp = timestamp
	m.VarBinds = varbinds
	return nil
}

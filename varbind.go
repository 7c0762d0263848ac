// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import "fmt"

// VarBind is a single (name, value) binding, per spec.md §3.4: a Sequence of
// an ObjectIdentifier and a Value of any recognized type, including the
// exception markers (NoSuchObject, NoSuchInstance, EndOfMIBView) and Null
// (conventionally used in requests, where the value is not yet known).
type VarBind struct {
	Name  ObjectIdentifier
	Value Value
}

// NewVarBind builds a VarBind, defaulting Value to Null{} when nil is
// passed, matching the convention of request PDUs that carry no value.
func NewVarBind(name ObjectIdentifier, value Value) VarBind {
	if value == nil {
		value = Null{}
	}
	return VarBind{Name: name, Value: value}
}

func (vb VarBind) encodedLen() int {
	return EncodedLength(Oid{vb.Name}) + EncodedLength(vb.Value)
}

func (vb VarBind) toSequence() Sequence {
	return Sequence{Oid{vb.Name}, vb.Value}
}

func varBindFromSequence(seq Sequence) (VarBind, error) {
	if len(seq) != 2 {
		return VarBind{}, fmt.Errorf("%w: varbind must have exactly 2 elements, got %d", ErrGrammarViolation, len(seq))
	}
	oidVal, ok := seq[0].(Oid)
	if !ok {
		return VarBind{}, fmt.Errorf("%w: varbind name must be an ObjectIdentifier, got %s", ErrGrammarViolation, seq[0].Tag())
	}
	return VarBind{Name: oidVal.OID, Value: seq[1]}, nil
}

// VarBindList is an ordered sequence of VarBinds. Duplicate names are
// permitted; this type imposes no uniqueness constraint, per spec.md §3.4.
type VarBindList []VarBind

func (l VarBindList) encodedLen() int {
	total := 0
	for _, vb := range l {
		total += vb.encodedLen()
	}
	return total
}

func (l VarBindList) toSequence() Sequence {
	seq := make(Sequence, len(l))
	for i, vb := range l {
		seq[i] = vb.toSequence()
	}
	return seq
}

func varBindListFromSequence(seq Sequence) (VarBindList, error) {
	list := make(VarBindList, 0, len(seq))
	for _, elem := range seq {
		inner, ok := elem.(Sequence)
		if !ok {
			return nil, fmt.Errorf("%w: varbind-list element must be a Sequence, got %s", ErrGrammarViolation, elem.Tag())
		}
		vb, err := varBindFromSequence(inner)
		if err != nil {
			return nil, err
		}
		list = append(list, vb)
	}
	return list, nil
}

// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package snmp implements the wire-level core of SNMP v1 and v2c: a BER
// codec, the SNMP message object model (versions, community, the eight PDU
// types, varbinds and v1 traps), and an asynchronous UDP endpoint runtime
// for building an Agent or a Manager.
//
// This package is deliberately a core, not a client: it has no MIB
// awareness, no request/response correlation, no retries, and no SNMPv3
// security model. A client or agent built on top of it supplies those
// policies using Endpoint's Send and OnMessage.
//
// # BER values
//
// Every value that can appear on the wire implements Value, a tagged union
// over the recognized BER types (Boolean, Integer, OctetString, Null,
// Oid, Sequence, IPAddress, Counter32, Gauge32, TimeTicks, Opaque,
// Counter64, Float, and the three exception markers). EncodedLength,
// Encode and Decode operate generically over Value.
//
// # Messages
//
//	m, _ := snmp.NewMessage(snmp.Version2c, []byte("public"), snmp.TagGetRequest)
//	m.SetRequestID(1)
//	m.Add(sysDescr, nil)
//	payload, _ := m.Build()
//
// # Endpoints
//
//	agent := snmp.NewAgent()
//	if err := agent.InitializeDefault(""); err != nil {
//		log.Fatal(err)
//	}
//	agent.OnMessage = func(m *snmp.Message, addr *net.UDPAddr) { ... }
//	agent.OnError = func(err error, addr *net.UDPAddr) { ... }
//	agent.Start()
//	defer agent.Stop()
package snmp

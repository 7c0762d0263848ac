// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeConn is an in-memory udpConn driven by a channel of pre-queued
// datagrams, so the receive loop's dispatch logic can be exercised without
// a real socket.
type fakeConn struct {
	mu      sync.Mutex
	closed  bool
	inbox   chan fakeDatagram
	sent    [][]byte
	sentTo  []*net.UDPAddr
	localAddrVal net.Addr
}

type fakeDatagram struct {
	payload []byte
	addr    *net.UDPAddr
	err     error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:        make(chan fakeDatagram, 16),
		localAddrVal: &net.UDPAddr{IP: net.IPv4zero, Port: 161},
	}
}

func (f *fakeConn) sendTo(payload []byte, addr *net.UDPAddr) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, append([]byte(nil), payload...))
	f.sentTo = append(f.sentTo, addr)
	return len(payload), nil
}

func (f *fakeConn) recvFrom(buf []byte) (int, *net.UDPAddr, error) {
	dg, ok := <-f.inbox
	if !ok {
		return 0, nil, errors.New("use of closed network connection")
	}
	if dg.err != nil {
		return 0, dg.addr, dg.err
	}
	n := copy(buf, dg.payload)
	return n, dg.addr, nil
}

func (f *fakeConn) localAddr() net.Addr { return f.localAddrVal }

func (f *fakeConn) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.inbox)
	}
	return nil
}

func newTestEndpoint() (*Endpoint, *fakeConn) {
	conn := newFakeConn()
	e := &Endpoint{
		conn:      conn,
		done:      make(chan struct{}),
		listening: make(chan struct{}, 1),
	}
	return e, conn
}

func TestEndpointDispatchesDecodedMessage(t *testing.T) {
	e, conn := newTestEndpoint()

	sysDescr, _ := ParseOID("1.3.6.1.2.1.1.1.0")
	m, err := NewMessage(Version2c, []byte("public"), TagGetRequest)
	assert.NoError(t, err)
	m.SetRequestID(1)
	m.Add(sysDescr, nil)
	payload, err := m.Build()
	assert.NoError(t, err)

	received := make(chan *Message, 1)
	e.OnMessage = func(msg *Message, addr *net.UDPAddr) { received <- msg }

	peer := &net.UDPAddr{IP: net.IPv4(203, 0, 113, 5), Port: 12345}
	conn.inbox <- fakeDatagram{payload: payload, addr: peer}

	assert.True(t, e.Start())
	select {
	case msg := <-received:
		assert.Equal(t, int32(1), msg.RequestID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatched message")
	}
	e.Stop()
}

func TestEndpointReportsMalformedDatagramThenContinues(t *testing.T) {
	e, conn := newTestEndpoint()

	errs := make(chan error, 1)
	msgs := make(chan *Message, 1)
	e.OnError = func(err error, addr *net.UDPAddr) { errs <- err }
	e.OnMessage = func(msg *Message, addr *net.UDPAddr) { msgs <- msg }

	peer := &net.UDPAddr{IP: net.IPv4(203, 0, 113, 5), Port: 12345}
	conn.inbox <- fakeDatagram{payload: []byte{0x30, 0x05, 0x02, 0x01, 0x00}, addr: peer}

	goodOID, _ := ParseOID("1.3.6.1.2.1.1.1.0")
	m, _ := NewMessage(Version2c, []byte("public"), TagGetRequest)
	m.SetRequestID(2)
	m.Add(goodOID, nil)
	payload, _ := m.Build()
	conn.inbox <- fakeDatagram{payload: payload, addr: peer}

	assert.True(t, e.Start())

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrMalformed)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error callback")
	}
	select {
	case msg := <-msgs:
		assert.Equal(t, int32(2), msg.RequestID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for recovery message after malformed datagram")
	}
	e.Stop()
}

func TestEndpointReportsOversizedDatagram(t *testing.T) {
	e, conn := newTestEndpoint()

	errs := make(chan error, 1)
	e.OnError = func(err error, addr *net.UDPAddr) { errs <- err }

	peer := &net.UDPAddr{IP: net.IPv4(203, 0, 113, 5), Port: 12345}
	conn.inbox <- fakeDatagram{payload: make([]byte, maxDatagramSize), addr: peer}

	assert.True(t, e.Start())
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrReceiveFailed)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for oversized-datagram error")
	}
	e.Stop()
}

func TestEndpointSend(t *testing.T) {
	e, conn := newTestEndpoint()

	m, err := NewMessage(Version2c, []byte("public"), TagGetRequest)
	assert.NoError(t, err)
	m.SetRequestID(1)

	err = e.Send(m, net.IPv4(198, 51, 100, 9), 161)
	assert.NoError(t, err)
	assert.Len(t, conn.sent, 1)
	assert.Equal(t, 161, conn.sentTo[0].Port)
}

func TestEndpointSendBeforeInitializeFails(t *testing.T) {
	e := &Endpoint{}
	m, _ := NewMessage(Version2c, []byte("public"), TagGetRequest)
	err := e.Send(m, net.IPv4(198, 51, 100, 9), 161)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEndpointStartIdempotent(t *testing.T) {
	e, _ := newTestEndpoint()
	assert.True(t, e.Start())
	assert.True(t, e.Start())
	e.Stop()
}

func TestNewAgentAndManagerDefaultPorts(t *testing.T) {
	assert.Equal(t, DefaultAgentPort, NewAgent().defaultPort)
	assert.Equal(t, DefaultManagerPort, NewManager().defaultPort)
}

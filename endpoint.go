// Copyright 2012 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmp

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
)

// MessageHandlerFunc receives a successfully decoded Message and the
// address of the peer that sent it.
type MessageHandlerFunc func(m *Message, addr *net.UDPAddr)

// ErrorHandlerFunc receives an error encountered while parsing a datagram or
// operating the transport. It is never called for errors returned directly
// from Initialize, Start, Stop or Send, only for conditions detected inside
// the asynchronous receive loop.
type ErrorHandlerFunc func(err error, addr *net.UDPAddr)

// Endpoint is an asynchronous SNMP v1/v2c UDP endpoint: it binds a local
// UDP socket, decodes every arriving datagram as a Message and dispatches
// it to OnMessage (or to OnError, if decoding or the transport failed),
// and exposes Send for fire-and-forget outbound messages. It implements
// neither request/response correlation nor retries; a Manager that needs
// those builds them on top using OnMessage and Send.
//
// Endpoint is the common base for Agent and Manager, which differ only in
// their default port (161 and 162 respectively), mirroring the
// Port::SNMP/Port::Trap distinction of the original transport.
type Endpoint struct {
	OnMessage MessageHandlerFunc
	OnError   ErrorHandlerFunc
	Logger    Logger

	mu      sync.Mutex
	conn    udpConn
	running int32 // atomic; 1 once Start has successfully launched the receive loop

	finish    int32 // atomic; set to 1 by Stop, checked by the receive loop
	done      chan struct{}
	listening chan struct{}

	defaultPort uint16
}

// NewAgent returns an Endpoint defaulting to UDP port 161, the well-known
// SNMP agent port. Use InitializeDefault to bind that port, or Initialize
// to bind an explicit one.
func NewAgent() *Endpoint {
	return &Endpoint{defaultPort: DefaultAgentPort}
}

// NewManager returns an Endpoint defaulting to UDP port 162, the
// well-known SNMP trap/notification manager port. Use InitializeDefault to
// bind that port, or Initialize to bind an explicit one.
func NewManager() *Endpoint {
	return &Endpoint{defaultPort: DefaultManagerPort}
}

// DefaultAgentPort is the well-known port an SNMP agent listens for
// requests on.
const DefaultAgentPort uint16 = 161

// DefaultManagerPort is the well-known port an SNMP manager listens for
// traps and informs on.
const DefaultManagerPort uint16 = 162

// Initialize binds the endpoint's UDP socket. An empty bindAddr binds all
// interfaces (0.0.0.0), matching the original transport's convention.
// Initialize may be called again after Stop to rebind.
func (e *Endpoint) Initialize(bindAddr string, port uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil {
		e.conn.close()
		e.conn = nil
	}

	conn, err := bindUDP(bindAddr, port)
	if err != nil {
		return err
	}
	e.conn = conn
	atomic.StoreInt32(&e.finish, 0)
	e.done = make(chan struct{})
	e.listening = make(chan struct{}, 1)
	return nil
}

// InitializeDefault binds the endpoint's UDP socket on its role's default
// port (161 for an Agent, 162 for a Manager), as created by NewAgent or
// NewManager.
func (e *Endpoint) InitializeDefault(bindAddr string) error {
	return e.Initialize(bindAddr, e.defaultPort)
}

// Start launches the asynchronous receive loop in a new goroutine. It is
// idempotent: calling Start a second time while already running is a no-op
// that returns true. Start returns false if Initialize has not succeeded.
func (e *Endpoint) Start() bool {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()

	if conn == nil {
		return false
	}
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		return true
	}
	go e.receiveLoop(conn)
	return true
}

// Stop sets the finish flag, closes the socket and waits for the receive
// loop to exit. Closing the socket makes a pending recvFrom return an
// error, which the loop does not report once the flag is set; a datagram
// whose read had already completed before the flag was set is still
// dispatched.
func (e *Endpoint) Stop() {
	if !atomic.CompareAndSwapInt32(&e.finish, 0, 1) {
		return
	}

	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()

	if conn != nil {
		conn.close()
	}

	if atomic.LoadInt32(&e.running) == 1 {
		<-e.done
	}
	atomic.StoreInt32(&e.running, 0)
}

// Send marshals m and sends it to (ip, port). It returns ErrNotInitialized
// if Initialize has not been called, and wraps any transport error with
// ErrSendFailed.
func (e *Endpoint) Send(m *Message, ip net.IP, port uint16) error {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()

	if conn == nil {
		return ErrNotInitialized
	}

	payload, err := m.Build()
	if err != nil {
		return err
	}

	addr := &net.UDPAddr{IP: ip, Port: int(port)}
	n, err := conn.sendTo(payload, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if n != len(payload) {
		return fmt.Errorf("%w: sent %d of %d bytes", ErrSendFailed, n, len(payload))
	}
	return nil
}

// receiveLoop is the asynchronous receive algorithm: read one datagram,
// decode it as a Message, and dispatch to OnMessage or OnError, looping
// until Stop is called. Every iteration is bounded by the fixed
// maxDatagramSize buffer; a datagram that exactly fills it is treated as
// oversized and reported via ErrReceiveFailed rather than silently parsed,
// since a truncated PDU cannot be told apart from one that merely fit.
func (e *Endpoint) receiveLoop(conn udpConn) {
	defer func() {
		e.done <- struct{}{}
	}()

	select {
	case e.listening <- struct{}{}:
	default:
	}

	buf := make([]byte, maxDatagramSize)
	for {
		if atomic.LoadInt32(&e.finish) == 1 {
			return
		}

		n, addr, err := conn.recvFrom(buf)
		if err != nil {
			if atomic.LoadInt32(&e.finish) == 1 {
				return
			}
			e.reportError(fmt.Errorf("%w: %v", ErrReceiveFailed, err), addr)
			continue
		}

		if n == len(buf) {
			e.reportError(fmt.Errorf("%w: datagram filled the %d-byte receive buffer", ErrReceiveFailed, maxDatagramSize), addr)
			continue
		}

		msg, err := Parse(buf[:n])
		if err != nil {
			e.reportError(err, addr)
			continue
		}

		if e.OnMessage != nil {
			e.OnMessage(msg, addr)
		}
	}
}

func (e *Endpoint) reportError(err error, addr *net.UDPAddr) {
	if e.Logger.Enabled() {
		e.Logger.Printf("snmp: receive error from %v: %s", addr, err)
	}
	if e.OnError != nil {
		e.OnError(err, addr)
	}
}

// Listening returns a channel that receives once the receive loop has
// started reading, useful for synchronizing with Start in tests.
func (e *Endpoint) Listening() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listening
}

// LocalAddr returns the address the endpoint is bound to, or nil if
// Initialize has not been called.
func (e *Endpoint) LocalAddr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == nil {
		return nil
	}
	return e.conn.localAddr()
}

// SetLogger installs l as the endpoint's debug logger.
func (e *Endpoint) SetLogger(l Logger) {
	e.Logger = l
}

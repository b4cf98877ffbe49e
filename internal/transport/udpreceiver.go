// Package transport owns the two socket concerns the session facade
// coordinates: a UDP measurement receiver and a TCP command connection,
// plus the stateful-firewall priming send.
package transport

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// ErrTimeout is returned by Receive when no datagram arrives within the
// configured timeout.
var ErrTimeout = errors.New("transport: receive timeout")

// ErrClosed is returned by Receive or Exchange once the underlying
// connection has been closed.
var ErrClosed = errors.New("transport: closed")

// UDPSocket is the subset of *net.UDPConn the receiver needs, narrowed
// to allow a deterministic fake in tests.
type UDPSocket interface {
	net.PacketConn
	SetReadBuffer(bytes int) error
}

// UDPSocketFactory creates UDPSockets, the dependency-injection seam
// tests use to substitute a deterministic fake for a real socket.
type UDPSocketFactory interface {
	ListenPacket(network, address string) (UDPSocket, error)
	ListenMulticastUDP(ifi *net.Interface, group *net.UDPAddr) (UDPSocket, error)
}

// RealUDPSocketFactory creates real OS sockets via the net package.
type RealUDPSocketFactory struct{}

// ListenPacket opens a plain UDP socket.
func (RealUDPSocketFactory) ListenPacket(network, address string) (UDPSocket, error) {
	conn, err := net.ListenPacket(network, address)
	if err != nil {
		return nil, err
	}
	sock, ok := conn.(UDPSocket)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("transport: %s socket does not support SetReadBuffer", network)
	}
	return sock, nil
}

// ListenMulticastUDP opens a UDP socket joined to a multicast group, for
// the connection-string grammar's "<multicast-ip>:<port>" form.
func (RealUDPSocketFactory) ListenMulticastUDP(ifi *net.Interface, group *net.UDPAddr) (UDPSocket, error) {
	return net.ListenMulticastUDP("udp", ifi, group)
}

// UDPReceiver owns the measurement-datagram socket: bind, receive with a
// deadline, and track the source address of the last datagram received
// (needed by the feedback emitter's "unknown controller address"
// fallback).
type UDPReceiver struct {
	mu         sync.RWMutex
	conn       UDPSocket
	timeout    time.Duration
	bufSize    int
	lastRemote net.Addr
	logger     *log.Logger
}

// NewUDPReceiver binds a plain UDP socket at address (host:port, or
// ":port" for wildcard) using factory, with the given receive buffer
// size and per-Receive timeout.
func NewUDPReceiver(factory UDPSocketFactory, address string, bufSize int, timeout time.Duration, logger *log.Logger) (*UDPReceiver, error) {
	conn, err := factory.ListenPacket("udp", address)
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp %s: %w", address, err)
	}
	return newUDPReceiver(conn, bufSize, timeout, logger)
}

// NewMulticastUDPReceiver binds a UDP socket joined to the multicast
// group described by groupAddr ("<multicast-ip>:<port>").
func NewMulticastUDPReceiver(factory UDPSocketFactory, groupAddr string, bufSize int, timeout time.Duration, logger *log.Logger) (*UDPReceiver, error) {
	addr, err := net.ResolveUDPAddr("udp", groupAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve multicast group %s: %w", groupAddr, err)
	}
	conn, err := factory.ListenMulticastUDP(nil, addr)
	if err != nil {
		return nil, fmt.Errorf("transport: join multicast group %s: %w", groupAddr, err)
	}
	return newUDPReceiver(conn, bufSize, timeout, logger)
}

func newUDPReceiver(conn UDPSocket, bufSize int, timeout time.Duration, logger *log.Logger) (*UDPReceiver, error) {
	if err := conn.SetReadBuffer(bufSize); err != nil {
		if logger != nil {
			logger.Printf("transport: warning: failed to set UDP receive buffer to %d: %v", bufSize, err)
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &UDPReceiver{conn: conn, bufSize: bufSize, timeout: timeout, logger: logger}, nil
}

// Receive blocks for up to the configured timeout and returns the next
// datagram's payload. On timeout it returns ErrTimeout; after Close it
// returns ErrClosed; any other socket failure is wrapped and returned.
func (r *UDPReceiver) Receive() ([]byte, net.Addr, error) {
	r.mu.RLock()
	conn := r.conn
	timeout := r.timeout
	bufSize := r.bufSize
	r.mu.RUnlock()
	if conn == nil {
		return nil, nil, ErrClosed
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		r.logger.Printf("transport: warning: failed to set read deadline: %v", err)
	}

	buf := make([]byte, bufSize)
	n, addr, err := conn.ReadFrom(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, nil, ErrTimeout
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, nil, ErrClosed
		}
		return nil, nil, fmt.Errorf("transport: udp read: %w", err)
	}

	r.mu.Lock()
	r.lastRemote = addr
	r.mu.Unlock()

	return buf[:n], addr, nil
}

// Interrupt resets the read deadline to now, causing a Receive blocked
// in ReadFrom to return immediately with ErrTimeout instead of waiting
// out its full timeout. Used to unblock a pending Receive when the
// measurement stream is being stopped.
func (r *UDPReceiver) Interrupt() {
	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()
	if conn == nil {
		return
	}
	if err := conn.SetReadDeadline(time.Now()); err != nil {
		r.logger.Printf("transport: warning: failed to interrupt receive: %v", err)
	}
}

// LastRemoteAddr returns the source address of the most recently
// received datagram, or nil if none has been received yet.
func (r *UDPReceiver) LastRemoteAddr() net.Addr {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRemote
}

// LocalAddr returns the socket's bound local address.
func (r *UDPReceiver) LocalAddr() net.Addr {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Send writes a datagram to addr, used by the feedback emitter to reuse
// the receiver's bound socket as its send path.
func (r *UDPReceiver) Send(b []byte, addr net.Addr) error {
	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()
	if conn == nil {
		return ErrClosed
	}
	_, err := conn.WriteTo(b, addr)
	return err
}

// Close releases the socket. Safe to call more than once.
func (r *UDPReceiver) Close() error {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

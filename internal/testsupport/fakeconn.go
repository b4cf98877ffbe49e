// Package testsupport provides deterministic fake net.Conn and
// net.PacketConn doubles for transport/session tests.
package testsupport

import (
	"bytes"
	"net"
	"sync"
	"time"
)

// FakePacket is one datagram a FakePacketConn will hand back from
// ReadFrom, or one the test recorded from a WriteTo call.
type FakePacket struct {
	Data []byte
	Addr net.Addr
}

// FakeAddr is a minimal net.Addr for use in tests.
type FakeAddr struct {
	NetworkName string
	AddrString  string
}

func (a FakeAddr) Network() string { return a.NetworkName }
func (a FakeAddr) String() string  { return a.AddrString }

// FakePacketConn implements net.PacketConn over an in-memory queue of
// inbound packets and a record of outbound writes.
type FakePacketConn struct {
	mu       sync.Mutex
	inbound  []FakePacket
	readPos  int
	writes   []FakePacket
	closed   bool
	readErr  error
	deadline time.Time
	local    net.Addr
}

// NewFakePacketConn returns a FakePacketConn that will yield inbound, in
// order, from successive ReadFrom calls.
func NewFakePacketConn(inbound ...FakePacket) *FakePacketConn {
	return &FakePacketConn{
		inbound: inbound,
		local:   FakeAddr{NetworkName: "udp", AddrString: "127.0.0.1:0"},
	}
}

// QueueRead appends a packet to the read queue, for tests that feed
// packets incrementally rather than all up front.
func (c *FakePacketConn) QueueRead(data []byte, addr net.Addr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inbound = append(c.inbound, FakePacket{Data: data, Addr: addr})
}

// SetReadError makes the next ReadFrom call return err instead of a packet.
func (c *FakePacketConn) SetReadError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

func (c *FakePacketConn) ReadFrom(b []byte) (int, net.Addr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, nil, net.ErrClosed
	}
	if c.readErr != nil {
		err := c.readErr
		c.readErr = nil
		return 0, nil, err
	}
	if c.readPos >= len(c.inbound) {
		return 0, nil, &timeoutError{}
	}
	pkt := c.inbound[c.readPos]
	c.readPos++
	n := copy(b, pkt.Data)
	return n, pkt.Addr, nil
}

// WriteTo records the write; it fails only after Close.
func (c *FakePacketConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	c.writes = append(c.writes, FakePacket{Data: cp, Addr: addr})
	return len(b), nil
}

// Writes returns every packet recorded by WriteTo, for assertions.
func (c *FakePacketConn) Writes() []FakePacket {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FakePacket, len(c.writes))
	copy(out, c.writes)
	return out
}

func (c *FakePacketConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *FakePacketConn) LocalAddr() net.Addr { return c.local }

// LastReadDeadline returns the most recent value passed to
// SetReadDeadline, for tests asserting a deadline reset happened.
func (c *FakePacketConn) LastReadDeadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline
}

func (c *FakePacketConn) SetDeadline(t time.Time) error      { return nil }
func (c *FakePacketConn) SetReadDeadline(t time.Time) error   { c.deadline = t; return nil }
func (c *FakePacketConn) SetWriteDeadline(t time.Time) error  { return nil }

// SetReadBuffer mimics *net.UDPConn's receive-buffer knob; the fake
// ignores the value but records nothing else needed for tests.
func (c *FakePacketConn) SetReadBuffer(bytes int) error { return nil }

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

// FakeConn implements net.Conn over an in-memory byte stream, standing
// in for the TCP command connection in tests.
type FakeConn struct {
	mu      sync.Mutex
	toRead  *bytes.Buffer
	written bytes.Buffer
	closed  bool
	addr    net.Addr
}

// NewFakeConn returns a FakeConn that yields seed on Read calls.
func NewFakeConn(seed []byte) *FakeConn {
	return &FakeConn{
		toRead: bytes.NewBuffer(seed),
		addr:   FakeAddr{NetworkName: "tcp", AddrString: "127.0.0.1:50105"},
	}
}

// Feed appends more bytes for subsequent Read calls to return, for tests
// that simulate the controller replying after the client has already
// started reading.
func (c *FakeConn) Feed(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toRead.Write(b)
}

func (c *FakeConn) Read(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	if c.toRead.Len() == 0 {
		return 0, &timeoutError{}
	}
	return c.toRead.Read(b)
}

func (c *FakeConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, net.ErrClosed
	}
	return c.written.Write(b)
}

// Written returns everything written to the connection so far.
func (c *FakeConn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.written.Len())
	copy(out, c.written.Bytes())
	return out
}

func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *FakeConn) LocalAddr() net.Addr  { return c.addr }
func (c *FakeConn) RemoteAddr() net.Addr { return c.addr }

func (c *FakeConn) SetDeadline(t time.Time) error      { return nil }
func (c *FakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *FakeConn) SetWriteDeadline(t time.Time) error { return nil }

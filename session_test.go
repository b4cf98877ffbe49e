package dtracksdk

import (
	"context"
	"log"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dtracksdk/internal/testsupport"
	"github.com/banshee-data/dtracksdk/internal/timeutil"
	"github.com/banshee-data/dtracksdk/internal/transport"
)

// fixedSocketFactory hands back the same fake socket regardless of how
// it's asked to listen, letting a test control a Session's UDP traffic
// without opening a real socket.
type fixedSocketFactory struct {
	sock *testsupport.FakePacketConn
}

func (f fixedSocketFactory) ListenPacket(network, address string) (transport.UDPSocket, error) {
	return f.sock, nil
}

func (f fixedSocketFactory) ListenMulticastUDP(ifi *net.Interface, group *net.UDPAddr) (transport.UDPSocket, error) {
	return f.sock, nil
}

func newTestSession(t *testing.T, connStr string, sock *testsupport.FakePacketConn, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithSocketFactory(fixedSocketFactory{sock: sock}),
		WithStatsLogInterval(0),
	}
	s, err := NewSession(connStr, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSession_Receive_ParsesAndPublishesSnapshot(t *testing.T) {
	sock := testsupport.NewFakePacketConn(testsupport.FakePacket{
		Data: []byte("fr 1\nts 2.0\n"),
		Addr: testsupport.FakeAddr{NetworkName: "udp", AddrString: "10.0.0.7:5000"},
	})
	s := newTestSession(t, "5000", sock)

	snap, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), snap.FrameCounter)
	assert.Equal(t, ErrNone, s.LastDataError())
	assert.Same(t, snap, s.Current())
	assert.Equal(t, uint64(1), s.Metrics().FramesReceived)
}

func TestSession_Receive_TimeoutReturnsLastSnapshotAndErrTimeout(t *testing.T) {
	sock := testsupport.NewFakePacketConn() // no queued packets -> read times out
	s := newTestSession(t, "5000", sock)

	snap, err := s.Receive()
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, ErrTimeout, s.LastDataError())
	assert.Equal(t, uint64(1), s.Metrics().Timeouts)
}

func TestSession_Receive_ParseErrorKeepsPreviousSnapshot(t *testing.T) {
	sock := testsupport.NewFakePacketConn(
		testsupport.FakePacket{Data: []byte("fr 1\nts 1.0\n"), Addr: testsupport.FakeAddr{NetworkName: "udp", AddrString: "10.0.0.7:5000"}},
		testsupport.FakePacket{Data: []byte("fr abc\n"), Addr: testsupport.FakeAddr{NetworkName: "udp", AddrString: "10.0.0.7:5000"}},
	)
	s := newTestSession(t, "5000", sock)

	first, err := s.Receive()
	require.NoError(t, err)

	second, err := s.Receive()
	require.Error(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, ErrParse, s.LastDataError())
	assert.Equal(t, uint64(1), s.Metrics().ParseErrors)
}

func TestSession_Close_IsIdempotent(t *testing.T) {
	sock := testsupport.NewFakePacketConn()
	s := newTestSession(t, "5000", sock)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestSession_StartStopMeasurement_NoCommandConnectionInListenOnly(t *testing.T) {
	sock := testsupport.NewFakePacketConn()
	s := newTestSession(t, "5000", sock)

	assert.Nil(t, s.Command())
	assert.Error(t, s.StartMeasurement())
	assert.Error(t, s.StopMeasurement())
}

func TestSession_StopMeasurement_InterruptsReceiverEvenWithoutCommandConnection(t *testing.T) {
	sock := testsupport.NewFakePacketConn()
	s := newTestSession(t, "5000", sock) // listen-only: no command connection

	before := time.Now()
	assert.Error(t, s.StopMeasurement()) // still errors: no command connection to stop tracking on
	assert.False(t, sock.LastReadDeadline().Before(before))
}

func TestSession_FeedbackDestination_FallsBackToLastRemoteAddr(t *testing.T) {
	remote := testsupport.FakeAddr{NetworkName: "udp", AddrString: "10.0.0.7:5000"}
	sock := testsupport.NewFakePacketConn(testsupport.FakePacket{Data: []byte("fr 1\nts 1.0\n"), Addr: remote})
	s := newTestSession(t, "5000", sock) // listen-only: spec.Host == ""

	_, err := s.RemoteAddr()
	assert.Error(t, err, "no datagram received yet and no known controller host")

	_, err = s.Receive()
	require.NoError(t, err)

	addr, err := s.RemoteAddr()
	require.NoError(t, err)
	assert.Equal(t, remote, addr)
}

func TestSession_LogStatsPeriodically_UsesInjectedClock(t *testing.T) {
	sock := testsupport.NewFakePacketConn()
	clock := timeutil.NewMockClock(time.Unix(0, 0))

	var logged strings.Builder
	s := newTestSession(t, "5000", sock,
		WithClock(clock),
		// the background goroutine NewSession starts is irrelevant here;
		// logStatsPeriodically is invoked directly below instead.
		WithStatsLogInterval(0),
		WithLogger(log.New(&logged, "", 0)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.logStatsPeriodically(ctx, time.Minute)
		close(done)
	}()

	// logStatsPeriodically registers its ticker with the clock on its
	// first scheduling step, asynchronously with this goroutine's start;
	// keep advancing until the log line lands rather than assume it's
	// registered after a single Advance.
	require.Eventually(t, func() bool {
		clock.Advance(time.Minute)
		return strings.Contains(logged.String(), s.ID.String())
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dtracksdk/internal/testsupport"
)

func TestTCPClient_Exchange_WritesNULTerminatedCommand(t *testing.T) {
	conn := testsupport.NewFakeConn(nil)
	conn.Feed([]byte("dtrack2 ok\x00"))
	client := NewTCPClient(conn, time.Second, nil)

	resp, err := client.Exchange("dtrack2 tracking start")
	require.NoError(t, err)
	assert.Equal(t, "dtrack2 ok", resp)
	assert.Equal(t, "dtrack2 tracking start\x00", string(conn.Written()))
}

func TestTCPClient_Exchange_StripsOnlyTrailingNUL(t *testing.T) {
	conn := testsupport.NewFakeConn([]byte("dtrack2 set system access full\x00"))
	client := NewTCPClient(conn, time.Second, nil)

	resp, err := client.Exchange("dtrack2 get system access")
	require.NoError(t, err)
	assert.Equal(t, "dtrack2 set system access full", resp)
}

func TestTCPClient_Exchange_TimeoutDoesNotInvalidateConnection(t *testing.T) {
	conn := testsupport.NewFakeConn(nil) // nothing queued, Read returns a timeout error
	client := NewTCPClient(conn, time.Millisecond, nil)

	_, err := client.Exchange("dtrack2 tracking start")
	assert.ErrorIs(t, err, ErrCommandTimeout)
	assert.True(t, client.Alive())
}

func TestTCPClient_Exchange_FatalErrorInvalidatesConnection(t *testing.T) {
	conn := testsupport.NewFakeConn(nil)
	conn.Close() // Write against a closed FakeConn returns a non-timeout error
	client := NewTCPClient(conn, time.Second, nil)

	_, err := client.Exchange("dtrack2 tracking start")
	require.Error(t, err)
	assert.False(t, client.Alive())

	_, err = client.Exchange("dtrack2 tracking start")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTCPClient_Close_Idempotent(t *testing.T) {
	conn := testsupport.NewFakeConn(nil)
	client := NewTCPClient(conn, time.Second, nil)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.False(t, client.Alive())
}

func TestDialTCPClient_RefusesBadAddress(t *testing.T) {
	_, err := DialTCPClient("256.256.256.256:0", 10*time.Millisecond, nil)
	assert.Error(t, err)
}

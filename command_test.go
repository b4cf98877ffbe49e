package dtracksdk

import (
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dtracksdk/internal/testsupport"
	"github.com/banshee-data/dtracksdk/internal/transport"
)

func newTestCommandClient(seed []byte) (*CommandClient, *testsupport.FakeConn) {
	conn := testsupport.NewFakeConn(seed)
	tcp := transport.NewTCPClient(conn, time.Second, log.Default())
	return newCommandClient(tcp, log.Default()), conn
}

func TestCommandClient_Set_Ok(t *testing.T) {
	c, conn := newTestCommandClient([]byte("dtrack2 ok\x00"))
	require.NoError(t, c.Set("system", "access", "full"))
	assert.Equal(t, "dtrack2 set system access full\x00", string(conn.Written()))
	assert.Equal(t, ErrNone, c.LastServerError())
}

func TestCommandClient_Get_ExtractsEchoedValue(t *testing.T) {
	c, _ := newTestCommandClient([]byte("dtrack2 set system access full\x00"))
	value, err := c.Get("system", "access")
	require.NoError(t, err)
	assert.Equal(t, "full", value)
}

func TestCommandClient_Get_MalformedReplyWithoutEchoPrefix(t *testing.T) {
	c, _ := newTestCommandClient([]byte("something unexpected\x00"))
	_, err := c.Get("system", "access")
	assert.Error(t, err)
	assert.Equal(t, ErrParse, c.LastServerError())
}

func TestCommandClient_SetAccess_DelegatesToSet(t *testing.T) {
	c, conn := newTestCommandClient([]byte("dtrack2 ok\x00"))
	require.NoError(t, c.SetAccess("monitor"))
	assert.Equal(t, "dtrack2 set system access monitor\x00", string(conn.Written()))
}

func TestCommandClient_StartStopTracking(t *testing.T) {
	c, conn := newTestCommandClient([]byte("dtrack2 ok\x00dtrack2 ok\x00"))
	require.NoError(t, c.StartTracking())
	require.NoError(t, c.StopTracking())
	assert.Equal(t, "dtrack2 tracking start\x00dtrack2 tracking stop\x00", string(conn.Written()))
}

func TestCommandClient_ControllerError_RecordsDTrackError(t *testing.T) {
	c, _ := newTestCommandClient([]byte(`dtrack2 err 13 "out of range"` + "\x00"))
	err := c.Set("system", "access", "full")
	assert.Error(t, err)
	assert.Equal(t, ErrNone, c.LastServerError())
	assert.Equal(t, DTrackError{Code: 13, Description: "out of range"}, c.LastDTrackError())
}

func TestCommandClient_GetMsg_ParsesPendingEvent(t *testing.T) {
	c, _ := newTestCommandClient([]byte(`dtrack2 msg dtrack2 info 100 0x1a "camera out of sync"` + "\x00"))
	msg, ok, err := c.GetMsg()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dtrack2", msg.Origin)
	assert.Equal(t, "info", msg.Status)
	assert.Equal(t, int64(100), msg.FrameNr)
	assert.Equal(t, int64(0x1a), msg.ErrorID)
	assert.Equal(t, "camera out of sync", msg.Text)
}

func TestCommandClient_GetMsg_NothingPendingIsNotAnError(t *testing.T) {
	c, _ := newTestCommandClient([]byte("dtrack2 ok\x00"))
	_, ok, err := c.GetMsg()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestCommandClient_Exchange_TimeoutDoesNotKillConnection(t *testing.T) {
	c, _ := newTestCommandClient(nil) // no queued reply -> read times out
	err := c.StartTracking()
	assert.Error(t, err)
	assert.Equal(t, ErrTimeout, c.LastServerError())
	assert.True(t, c.Alive())
}

func TestCommandClient_Close_Idempotent(t *testing.T) {
	c, _ := newTestCommandClient([]byte("dtrack2 ok\x00"))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.False(t, c.Alive())
}

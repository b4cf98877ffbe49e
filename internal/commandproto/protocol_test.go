package commandproto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dtracksdk/internal/transport"
)

// fakeExchanger is a scripted commandproto.Exchanger for tests that do
// not need a real socket.
type fakeExchanger struct {
	lastCmd string
	resp    string
	err     error
}

func (f *fakeExchanger) Exchange(cmd string) (string, error) {
	f.lastCmd = cmd
	return f.resp, f.err
}

func TestSend_TooLong(t *testing.T) {
	ex := &fakeExchanger{}
	result := Send(ex, strings.Repeat("a", maxCommandBytes+1))
	assert.Equal(t, ResultTooLong, result.Kind)
	assert.Equal(t, "", ex.lastCmd) // Exchange never even called
}

func TestSend_Timeout(t *testing.T) {
	ex := &fakeExchanger{err: transport.ErrCommandTimeout}
	result := Send(ex, "dtrack2 tracking start")
	assert.Equal(t, ResultTimeout, result.Kind)
}

func TestSend_TransportError(t *testing.T) {
	ex := &fakeExchanger{err: errors.New("connection reset")}
	result := Send(ex, "dtrack2 tracking start")
	assert.Equal(t, ResultTransport, result.Kind)
}

func TestSend_Ok(t *testing.T) {
	ex := &fakeExchanger{resp: "dtrack2 ok"}
	result := Send(ex, "dtrack2 tracking start")
	assert.Equal(t, ResultOk, result.Kind)
}

func TestSend_Err(t *testing.T) {
	ex := &fakeExchanger{resp: `dtrack2 err 17 "unsupported parameter"`}
	result := Send(ex, "dtrack2 set dummy param 1")
	assert.Equal(t, ResultErr, result.Kind)
	assert.EqualValues(t, 17, result.Code)
	assert.Equal(t, "unsupported parameter", result.Message)
}

func TestSend_ErrMalformedCode(t *testing.T) {
	ex := &fakeExchanger{resp: `dtrack2 err notanumber "x"`}
	result := Send(ex, "dtrack2 set dummy param 1")
	assert.Equal(t, ResultMalformed, result.Kind)
}

func TestSend_EmptyBodyIsMalformed(t *testing.T) {
	ex := &fakeExchanger{resp: ""}
	result := Send(ex, "dtrack2 tracking start")
	assert.Equal(t, ResultMalformed, result.Kind)
}

func TestSend_Payload(t *testing.T) {
	ex := &fakeExchanger{resp: "dtrack2 set system access full"}
	result := Send(ex, "dtrack2 get system access")
	assert.Equal(t, ResultPayload, result.Kind)
	assert.Equal(t, "dtrack2 set system access full", result.Payload)
}

func TestGet_ExtractsValue(t *testing.T) {
	ex := &fakeExchanger{resp: "dtrack2 set system access full"}
	value, result := Get(ex, "system", "access")
	assert.Equal(t, ResultPayload, result.Kind)
	assert.Equal(t, "full", value)
	assert.Equal(t, "dtrack2 get system access", ex.lastCmd)
}

func TestGet_MissingSetPrefixIsMalformed(t *testing.T) {
	ex := &fakeExchanger{resp: "unexpected reply"}
	_, result := Get(ex, "system", "access")
	assert.Equal(t, ResultMalformed, result.Kind)
}

func TestGet_NonEchoingPayloadIsMalformed(t *testing.T) {
	ex := &fakeExchanger{resp: "dtrack2 set other thing full"}
	_, result := Get(ex, "system", "access")
	assert.Equal(t, ResultMalformed, result.Kind)
}

func TestStartStopTracking(t *testing.T) {
	ex := &fakeExchanger{resp: "dtrack2 ok"}
	assert.Equal(t, ResultOk, StartTracking(ex).Kind)
	assert.Equal(t, "dtrack2 tracking start", ex.lastCmd)
	assert.Equal(t, ResultOk, StopTracking(ex).Kind)
	assert.Equal(t, "dtrack2 tracking stop", ex.lastCmd)
}

func TestGetMsg_Present(t *testing.T) {
	ex := &fakeExchanger{resp: `dtrack2 msg tracking info 12 0x1 "hello"`}
	msg, result, ok := GetMsg(ex)
	require.True(t, ok)
	assert.Equal(t, ResultPayload, result.Kind)
	assert.Equal(t, "hello", msg.Text)
}

func TestGetMsg_Absent(t *testing.T) {
	ex := &fakeExchanger{resp: "dtrack2 ok"}
	_, _, ok := GetMsg(ex)
	assert.False(t, ok)
}

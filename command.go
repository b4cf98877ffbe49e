package dtracksdk

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/banshee-data/dtracksdk/internal/commandproto"
	"github.com/banshee-data/dtracksdk/internal/transport"
)

// CommandClient owns the synchronous TCP command channel to the
// controller, translating the high-level verbs (set, get, tracking
// start/stop, getmsg) into commandproto exchanges and keeping the last
// server error and last controller-reported DTrack error current as two
// independent channels.
type CommandClient struct {
	mu     sync.Mutex
	tcp    *transport.TCPClient
	logger *log.Logger

	lastServerError ErrorKind
	lastDTrackError DTrackError
}

func newCommandClient(tcp *transport.TCPClient, logger *log.Logger) *CommandClient {
	return &CommandClient{tcp: tcp, logger: logger}
}

func (c *CommandClient) recordResult(result commandproto.Result) {
	switch result.Kind {
	case commandproto.ResultTimeout:
		c.lastServerError = ErrTimeout
	case commandproto.ResultTransport:
		c.lastServerError = ErrNet
	case commandproto.ResultMalformed, commandproto.ResultTooLong:
		c.lastServerError = ErrParse
	case commandproto.ResultErr:
		c.lastServerError = ErrNone
		c.lastDTrackError = DTrackError{Code: int(result.Code), Description: result.Message}
	default:
		c.lastServerError = ErrNone
	}
}

func resultError(result commandproto.Result) error {
	switch result.Kind {
	case commandproto.ResultOk, commandproto.ResultPayload:
		return nil
	case commandproto.ResultTimeout:
		return errors.New("dtracksdk: command timeout")
	case commandproto.ResultTransport:
		return errors.New("dtracksdk: command transport failure")
	case commandproto.ResultTooLong:
		return errors.New("dtracksdk: command exceeds 200 bytes")
	case commandproto.ResultMalformed:
		return errors.New("dtracksdk: malformed command response")
	case commandproto.ResultErr:
		return fmt.Errorf("dtracksdk: controller error %d: %s", result.Code, result.Message)
	default:
		return errors.New("dtracksdk: unknown command result")
	}
}

// Set sends "dtrack2 set <category> <name> <value>".
func (c *CommandClient) Set(category, name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := commandproto.Set(c.tcp, category, name, value)
	c.recordResult(result)
	return resultError(result)
}

// Get sends "dtrack2 get <category> <name>" and returns the extracted
// value, after applying the parameter-echo match rule to the reply.
func (c *CommandClient) Get(category, name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, result := commandproto.Get(c.tcp, category, name)
	c.recordResult(result)
	if result.Kind != commandproto.ResultPayload {
		return "", resultError(result)
	}
	return value, nil
}

// SetAccess requests the controller switch command-channel access mode
// (typically "full" or "monitor").
func (c *CommandClient) SetAccess(mode string) error {
	return c.Set("system", "access", mode)
}

// GetAccess returns the controller's current command-channel access
// mode ("full" when this session holds full access, commonly "monitor"
// otherwise).
func (c *CommandClient) GetAccess() (string, error) {
	return c.Get("system", "access")
}

// StartTracking sends "dtrack2 tracking start".
func (c *CommandClient) StartTracking() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := commandproto.StartTracking(c.tcp)
	c.recordResult(result)
	return resultError(result)
}

// StopTracking sends "dtrack2 tracking stop".
func (c *CommandClient) StopTracking() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := commandproto.StopTracking(c.tcp)
	c.recordResult(result)
	return resultError(result)
}

// GetMsg polls for one pending event message. ok is false when the
// controller has nothing pending; that is not an error.
func (c *CommandClient) GetMsg() (msg commandproto.EventMessage, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg, result, ok := commandproto.GetMsg(c.tcp)
	c.recordResult(result)
	if !ok {
		return commandproto.EventMessage{}, false, resultError(result)
	}
	return msg, true, nil
}

// LastServerError returns the error channel populated by the most
// recent command exchange.
func (c *CommandClient) LastServerError() ErrorKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastServerError
}

// LastDTrackError returns the most recent controller-reported
// (code, description) pair from a "dtrack2 err" reply.
func (c *CommandClient) LastDTrackError() DTrackError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDTrackError
}

// Alive reports whether the TCP command connection is still usable.
func (c *CommandClient) Alive() bool {
	return c.tcp.Alive()
}

// Close closes the underlying TCP connection. Safe to call more than once.
func (c *CommandClient) Close() error {
	return c.tcp.Close()
}

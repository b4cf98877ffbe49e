// Package metrics provides the SDK's lightweight atomic counters for
// frame, byte, error, and command activity. The SDK only counts; wiring
// these into an exporter is a collaborator concern.
package metrics

import (
	"fmt"
	"sync/atomic"
)

// Counters tallies frame/byte/error/command activity for one Session.
// All fields are safe for concurrent use.
type Counters struct {
	framesReceived  atomic.Uint64
	bytesReceived   atomic.Uint64
	parseErrors     atomic.Uint64
	timeouts        atomic.Uint64
	commandsSent    atomic.Uint64
	commandErrors   atomic.Uint64
	feedbackSent    atomic.Uint64
	feedbackDropped atomic.Uint64
}

// AddFrame records one successfully parsed measurement datagram.
func (c *Counters) AddFrame(bytes int) {
	c.framesReceived.Add(1)
	c.bytesReceived.Add(uint64(bytes))
}

// AddParseError records one datagram that failed to parse.
func (c *Counters) AddParseError() {
	c.parseErrors.Add(1)
}

// AddTimeout records one receive() call that returned with no datagram.
func (c *Counters) AddTimeout() {
	c.timeouts.Add(1)
}

// AddCommand records one command sent over the TCP session, and whether
// it resulted in an error response or transport failure.
func (c *Counters) AddCommand(failed bool) {
	c.commandsSent.Add(1)
	if failed {
		c.commandErrors.Add(1)
	}
}

// AddFeedback records one feedback datagram, or one refused send (a
// strength value out of range, never reaching the network).
func (c *Counters) AddFeedback(dropped bool) {
	if dropped {
		c.feedbackDropped.Add(1)
		return
	}
	c.feedbackSent.Add(1)
}

// Snapshot is a point-in-time copy of every counter, safe to log or export.
type Snapshot struct {
	FramesReceived  uint64
	BytesReceived   uint64
	ParseErrors     uint64
	Timeouts        uint64
	CommandsSent    uint64
	CommandErrors   uint64
	FeedbackSent    uint64
	FeedbackDropped uint64
}

// Snapshot reads every counter without blocking writers.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		FramesReceived:  c.framesReceived.Load(),
		BytesReceived:   c.bytesReceived.Load(),
		ParseErrors:     c.parseErrors.Load(),
		Timeouts:        c.timeouts.Load(),
		CommandsSent:    c.commandsSent.Load(),
		CommandErrors:   c.commandErrors.Load(),
		FeedbackSent:    c.feedbackSent.Load(),
		FeedbackDropped: c.feedbackDropped.Load(),
	}
}

// String renders a one-line human-readable summary, a single terse
// progress line suitable for periodic logging.
func (s Snapshot) String() string {
	return fmt.Sprintf("frames=%d bytes=%d parseErrors=%d timeouts=%d commands=%d commandErrors=%d feedback=%d feedbackDropped=%d",
		s.FramesReceived, s.BytesReceived, s.ParseErrors, s.Timeouts, s.CommandsSent, s.CommandErrors, s.FeedbackSent, s.FeedbackDropped)
}

package commandproto

import (
	"fmt"
	"strconv"
	"strings"
)

// EventMessage is one parsed "dtrack2 getmsg" payload:
// `dtrack2 msg <origin> <status> <frame> 0x<hex> "<text>"`.
type EventMessage struct {
	Origin  string
	Status  string
	FrameNr int64
	ErrorID int64
	Text    string
}

// ParseEventMessage parses one event-message response body (the portion
// after the leading "dtrack2 msg " verb has already been recognized by
// classify). Returns ok=false if the line does not match the grammar --
// callers should treat that as an empty/absent message, not a fatal
// error (a getmsg poll with nothing pending is a normal outcome).
func ParseEventMessage(body string) (EventMessage, bool) {
	fields := strings.Fields(body)
	// origin, status, frame, 0xhex, then a quoted text that may itself
	// contain spaces -- so split the first four fields off by hand and
	// treat the remainder as the quoted text.
	if len(fields) < 4 {
		return EventMessage{}, false
	}

	origin := fields[0]
	status := fields[1]
	frameNr, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return EventMessage{}, false
	}

	hexTok := fields[3]
	if !strings.HasPrefix(hexTok, "0x") && !strings.HasPrefix(hexTok, "0X") {
		return EventMessage{}, false
	}
	errID, err := strconv.ParseInt(hexTok[2:], 16, 64)
	if err != nil {
		return EventMessage{}, false
	}

	quoteStart := strings.IndexByte(body, '"')
	quoteEnd := strings.LastIndexByte(body, '"')
	text := ""
	if quoteStart >= 0 && quoteEnd > quoteStart {
		text = body[quoteStart+1 : quoteEnd]
	}

	return EventMessage{
		Origin:  origin,
		Status:  status,
		FrameNr: frameNr,
		ErrorID: errID,
		Text:    text,
	}, true
}

// String renders the message the way it was received, for logging.
func (m EventMessage) String() string {
	return fmt.Sprintf("dtrack2 msg %s %s %d 0x%x %q", m.Origin, m.Status, m.FrameNr, m.ErrorID, m.Text)
}

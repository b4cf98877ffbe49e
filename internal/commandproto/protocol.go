// Package commandproto implements the command/response grammar over a
// NUL-framed request/reply transport: building "dtrack2 ..." commands,
// classifying the reply into a closed result type, and applying the
// parameter-echo match rule to extract a get's value. Response
// classification is a tagged union (struct + enum), since the outcomes
// are one flat set rather than a class hierarchy.
package commandproto

import (
	"errors"
	"strconv"
	"strings"

	"github.com/banshee-data/dtracksdk/internal/transport"
)

// maxCommandBytes is the outbound command length limit; exceeding it
// fails fast with ResultTooLong before any bytes are written.
const maxCommandBytes = 200

// ResultKind enumerates the closed set of outcomes a command exchange
// can have.
type ResultKind int

const (
	ResultOk ResultKind = iota
	ResultErr
	ResultPayload
	ResultTimeout
	ResultTransport
	ResultTooLong
	ResultMalformed
)

func (k ResultKind) String() string {
	switch k {
	case ResultOk:
		return "Ok"
	case ResultErr:
		return "Err"
	case ResultPayload:
		return "Payload"
	case ResultTimeout:
		return "Timeout"
	case ResultTransport:
		return "Transport"
	case ResultTooLong:
		return "TooLong"
	case ResultMalformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// Result is the outcome of sending one command, carrying only the
// fields relevant to its Kind.
type Result struct {
	Kind    ResultKind
	Payload string // ResultPayload: the full response body
	Code    int64  // ResultErr: the controller's error code
	Message string // ResultErr: the controller's error message
}

// Exchanger is the minimal transport seam this package needs: a
// synchronous NUL-framed request/response round trip. *transport.TCPClient
// satisfies it.
type Exchanger interface {
	Exchange(cmd string) (string, error)
}

// Send issues cmd over ex and classifies the reply.
func Send(ex Exchanger, cmd string) Result {
	if len(cmd) > maxCommandBytes {
		return Result{Kind: ResultTooLong}
	}

	resp, err := ex.Exchange(cmd)
	if err != nil {
		if errors.Is(err, transport.ErrCommandTimeout) {
			return Result{Kind: ResultTimeout}
		}
		return Result{Kind: ResultTransport}
	}

	return classify(resp)
}

// classify parses one response body into a Result.
func classify(resp string) Result {
	resp = strings.TrimRight(resp, "\x00")
	switch {
	case resp == "dtrack2 ok":
		return Result{Kind: ResultOk}
	case strings.HasPrefix(resp, "dtrack2 err "):
		return classifyErr(resp)
	case resp == "":
		return Result{Kind: ResultMalformed}
	default:
		return Result{Kind: ResultPayload, Payload: resp}
	}
}

// classifyErr parses `dtrack2 err <code> "<msg>"`.
func classifyErr(resp string) Result {
	rest := strings.TrimPrefix(resp, "dtrack2 err ")
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) < 1 {
		return Result{Kind: ResultMalformed}
	}
	code, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Result{Kind: ResultMalformed}
	}
	msg := ""
	if len(fields) == 2 {
		msg = strings.Trim(strings.TrimSpace(fields[1]), `"`)
	}
	return Result{Kind: ResultErr, Code: code, Message: msg}
}

// Set builds and sends "dtrack2 set <category> <name> <value>".
func Set(ex Exchanger, category, name, value string) Result {
	return Send(ex, "dtrack2 set "+category+" "+name+" "+value)
}

// Get builds and sends "dtrack2 get <category> <name>", then applies
// the parameter-echo match rule to the reply to extract the value,
// tolerating the controller's whitespace/leading-zero canonicalization.
// If the reply does not classify as a payload, the empty string and
// that Result are returned. If it is a payload that does not echo the
// request's parameters, the empty string and a ResultMalformed Result
// are returned; the payload's own classification is not kept, so
// callers that need it should call Send directly instead.
func Get(ex Exchanger, category, name string) (string, Result) {
	param := category + " " + name
	result := Send(ex, "dtrack2 get "+param)
	if result.Kind != ResultPayload {
		return "", result
	}
	body := strings.TrimPrefix(result.Payload, "dtrack2 set ")
	if body == result.Payload {
		// Reply did not even carry the "dtrack2 set" echo prefix.
		return "", Result{Kind: ResultMalformed}
	}
	value, ok := matchEcho(body, param)
	if !ok {
		return "", Result{Kind: ResultMalformed}
	}
	return strings.TrimSpace(value), result
}

// StartTracking sends "dtrack2 tracking start".
func StartTracking(ex Exchanger) Result {
	return Send(ex, "dtrack2 tracking start")
}

// StopTracking sends "dtrack2 tracking stop".
func StopTracking(ex Exchanger) Result {
	return Send(ex, "dtrack2 tracking stop")
}

// GetMsg sends "dtrack2 getmsg" and parses the event message from the
// reply, if any. ok is false when the controller had no pending message
// or the reply was otherwise not a well-formed event message.
func GetMsg(ex Exchanger) (EventMessage, Result, bool) {
	result := Send(ex, "dtrack2 getmsg")
	if result.Kind != ResultPayload {
		return EventMessage{}, result, false
	}
	body := strings.TrimPrefix(result.Payload, "dtrack2 msg ")
	if body == result.Payload {
		return EventMessage{}, result, false
	}
	msg, ok := ParseEventMessage(body)
	return msg, result, ok
}

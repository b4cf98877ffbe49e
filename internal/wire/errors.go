package wire

import "fmt"

// MalformedError is returned by Stream parsing helpers when the token
// stream does not match the expected grammar shape.
type MalformedError struct {
	msg string
}

func (e *MalformedError) Error() string { return e.msg }

func errMalformed(format string, args ...any) error {
	return &MalformedError{msg: fmt.Sprintf(format, args...)}
}

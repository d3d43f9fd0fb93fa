// internal/api/errors.go
package api

import "fmt"

// Op names a backend operation for error reporting.
type Op string

const (
	OpConnect    Op = "connect"
	OpDisconnect Op = "disconnect"
	OpQuery      Op = "query"
	OpHistory    Op = "history"
	OpRevert     Op = "revert"
	OpHealth     Op = "health"
)

// TransportMessage is the user-facing message when the failure carries no
// structured backend error: the call never completed, or the body did not
// match the {"error": string} contract.
const TransportMessage = "Failed to reach the assistant service. Please check your connection and try again."

// Error is a failed backend operation. Message is the backend-supplied error
// string for application failures, or TransportMessage for network-level
// faults and undecodable responses.
type Error struct {
	Op        Op
	Message   string
	Transport bool  // the call failed below the application contract
	cause     error // underlying transport/decode error, if any
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func transportError(op Op, cause error) *Error {
	return &Error{Op: op, Message: TransportMessage, Transport: true, cause: cause}
}

package redkit

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/redkit/redkit/resp"
)

// CmdError is the Go analogue of the original implementation's
// ErrorStruct: a RESP-encodable error kind/message pair with an
// attached Severity that tells the dispatcher how to react. Severity
// is set at construction time (design note §9) so recovery decisions
// stay local to whichever site produced the error.
type CmdError struct {
	Prefix   string // RESP error kind, e.g. "ERR", "WRONGTYPE"
	Message  string
	Severity Severity
	cause    error // optional wrapped internal cause (I/O, etc.)
}

func (e *CmdError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Prefix, e.Message, e.cause)
	}
	return e.Prefix + " " + e.Message
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *CmdError) Unwrap() error { return e.cause }

// Encode renders the error as a RESP error reply.
func (e *CmdError) Encode() string {
	return resp.Encode(resp.Err(e.Prefix + " " + e.Message))
}

func newErr(severity Severity, prefix, message string) *CmdError {
	return &CmdError{Prefix: prefix, Message: message, Severity: severity}
}

// wrapCause attaches an underlying I/O or protocol cause via pkg/errors
// so stack context survives into log output without changing the
// error's severity-routing contract.
func wrapCause(severity Severity, prefix, message string, cause error) *CmdError {
	return &CmdError{Prefix: prefix, Message: message, Severity: severity, cause: errors.WithStack(cause)}
}

// Error kind constructors. Kind (the text) and severity are chosen
// together at each call site, per design note §9.

func errUnknownCommand(argv []string) *CmdError {
	name := "UNKNOWN"
	if len(argv) > 0 {
		name = argv[0]
	}
	msg := "unknown command '" + name + "', with args beginning with: "
	for _, a := range argv {
		msg += "'" + a + "', "
	}
	return newErr(Normal, "ERR", msg)
}

func errWrongNumberOfArgs(cmd string) *CmdError {
	return newErr(Normal, "ERR", "wrong number of arguments for '"+cmd+"' command")
}

func errWrongType() *CmdError {
	return newErr(Normal, "WRONGTYPE", "Operation against a key holding the wrong kind of value")
}

func errInvalidArguments(cmd string) *CmdError {
	return newErr(Normal, "ERR", "invalid arguments for '"+cmd+"' command")
}

func errNotPermittedInState(cmd string) *CmdError {
	return newErr(Normal, "ERR", "command '"+cmd+"' not permitted in current client state")
}

func errCommandDoesNotExist() *CmdError {
	return newErr(Normal, "ERR", "command does not exist")
}

func errClosedSocket() *CmdError {
	return newErr(CloseClient, "ERR", "closed socket")
}

func errClosedSender(severity Severity) *CmdError {
	return newErr(severity, "ERR", "closed sender")
}

func errNotInteger() *CmdError {
	return newErr(Normal, "ERR", "value is not an integer or out of range")
}

func errNoSuchKey() *CmdError {
	return newErr(Normal, "ERR", "no such key")
}

func errUnknownSubcommand(cmd, sub string) *CmdError {
	return newErr(Normal, "ERR", "unknown subcommand or wrong number of arguments for '"+sub+"'. Try "+cmd+" HELP.")
}

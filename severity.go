package redkit

// Severity classifies how far an internal failure propagates. Severity
// is orthogonal to the error's user-visible kind/message: the kind
// decides what text reaches the client, the severity decides what the
// dispatcher does next.
type Severity int

const (
	// Normal is an argument, type, or state error: encoded and
	// returned to the client, no further action.
	Normal Severity = iota
	// Communicate is a recoverable internal send failure: logged,
	// the current operation aborts.
	Communicate
	// CloseClient means the client's channel is gone (or its fields
	// already dead): tear the one handler down, server continues.
	CloseClient
	// ShutdownServer is unrecoverable at any lower level: an executor
	// inbox is closed, a critical invariant broke, or listener I/O
	// failed fatally. The dispatcher starts coordinated shutdown.
	ShutdownServer
)

func (s Severity) String() string {
	switch s {
	case Normal:
		return "normal"
	case Communicate:
		return "communicate"
	case CloseClient:
		return "close_client"
	case ShutdownServer:
		return "shutdown_server"
	default:
		return "unknown"
	}
}

package redkit

import "sync/atomic"

// LogLevel mirrors the verbosity levels ServerAttributes.Verbose can
// gate; internal/logging.Sink maps these onto logrus levels.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// LogMessage is one event sent down the Notifiers' log channel. The
// log-sink goroutine (internal/logging.Sink) is the only consumer;
// nothing else in the core touches a logging library directly.
type LogMessage struct {
	Level LogLevel
	Text  string
}

// Notifiers bundles every cross-cutting handle a component needs
// without holding a direct reference to the components that own them:
// the log sink channel, the dispatcher's inbox, the shared shutdown
// flag, and the address the server is bound to. Spec.md §2 calls this
// the "fan-out handle bundling" component.
type Notifiers struct {
	logCh      chan<- LogMessage
	dispatcher chan<- *RawCommand
	shutdown   *atomic.Bool
	listenAddr string
}

func NewNotifiers(logCh chan<- LogMessage, dispatcher chan<- *RawCommand, shutdown *atomic.Bool, listenAddr string) Notifiers {
	return Notifiers{logCh: logCh, dispatcher: dispatcher, shutdown: shutdown, listenAddr: listenAddr}
}

// Log emits a best-effort log event; a full or closed log channel is
// dropped rather than blocking the caller, since logging must never
// itself be a source of deadlock or fatal error.
func (n Notifiers) Log(level LogLevel, text string) {
	defer func() { recover() }()
	select {
	case n.logCh <- LogMessage{Level: level, Text: text}:
	default:
	}
}

// SubmitCommand hands a RawCommand to the dispatcher's single inbox.
// Returns an error with ShutdownServer severity if the inbox is
// already closed (spec.md §4.2: a closed dispatcher inbox is fatal).
func (n Notifiers) SubmitCommand(cmd *RawCommand) (err *CmdError) {
	defer func() {
		if recover() != nil {
			err = newErr(ShutdownServer, "ERR", "dispatcher inbox closed")
		}
	}()
	n.dispatcher <- cmd
	return nil
}

// IsShuttingDown reports whether the shutdown flag has been raised.
func (n Notifiers) IsShuttingDown() bool {
	return n.shutdown.Load()
}

// ForceShutdown raises the shared shutdown flag and logs the cause.
func (n Notifiers) ForceShutdown(cause string) {
	n.shutdown.Store(true)
	n.Log(LogError, "shutdown triggered: "+cause)
}

func (n Notifiers) ListenAddr() string { return n.listenAddr }

package redkit

import (
	"sync"
	"sync/atomic"
)

// ServerAttributes is the second single-owner resource alongside
// Database: configuration only the server sub-executor's goroutine
// mutates, reached through Runnable[*ServerAttributes] bodies (CONFIG
// GET/SET, SHUTDOWN, PUBLISH, the monitor-echo hook). Two of its
// sections are deliberate exceptions to the single-owner rule and
// carry the mutex the rest of the struct doesn't need: the client
// registry, touched from every accept/teardown path, and the idle
// timeout, read on every connection's read loop so a live CONFIG SET
// TIMEOUT reaches already-connected clients.
type ServerAttributes struct {
	logFileName string
	verbose     bool

	pubsub   *PubSubRegistry
	monitors *MonitorRegistry
	shutdown *atomic.Bool

	sharedMu sync.Mutex
	timeout  int // seconds, 0 means no idle timeout
	clients  map[*ClientFields]struct{}
}

func NewServerAttributes(logFileName string, verbose bool, timeout int, pubsub *PubSubRegistry, monitors *MonitorRegistry, shutdown *atomic.Bool) *ServerAttributes {
	return &ServerAttributes{
		logFileName: logFileName,
		verbose:     verbose,
		timeout:     timeout,
		pubsub:      pubsub,
		monitors:    monitors,
		shutdown:    shutdown,
		clients:     make(map[*ClientFields]struct{}),
	}
}

func (s *ServerAttributes) LogFileName() string { return s.logFileName }
func (s *ServerAttributes) Verbose() bool       { return s.verbose }

func (s *ServerAttributes) SetLogFileName(v string) { s.logFileName = v }
func (s *ServerAttributes) SetVerbose(v bool)       { s.verbose = v }

func (s *ServerAttributes) Timeout() int {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	return s.timeout
}

func (s *ServerAttributes) SetTimeout(v int) {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	s.timeout = v
}

// RegisterClient/UnregisterClient track every live connection so
// SHUTDOWN can broadcast and the clear_client server command (spec.md
// §4.4 supplement) can find a client by address. This map is touched
// from the accept-loop goroutine as well as the server executor, so —
// like PubSubRegistry — it keeps its own mutex rather than relying on
// single-owner discipline.
func (s *ServerAttributes) RegisterClient(c *ClientFields) {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *ServerAttributes) UnregisterClient(c *ClientFields) {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	delete(s.clients, c)
}

// KillAll marks every registered client Dead, used during coordinated
// shutdown to unblock any handler still waiting on a reply.
func (s *ServerAttributes) KillAll() {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	for c := range s.clients {
		c.Kill()
	}
}

func (s *ServerAttributes) ClientCount() int {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	return len(s.clients)
}

// FindClient resolves a session by peer address first, display name
// second; clear_client accepts either form.
func (s *ServerAttributes) FindClient(id string) *ClientFields {
	s.sharedMu.Lock()
	defer s.sharedMu.Unlock()
	for c := range s.clients {
		if c.Addr() == id {
			return c
		}
	}
	for c := range s.clients {
		if c.Name() != "" && c.Name() == id {
			return c
		}
	}
	return nil
}

package redkit

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Server is the top-level assembly: one listener, one dispatcher, two
// sub-executors (database, server-attributes), a pub/sub registry, a
// monitor registry, and the shutdown coordinator that ties them
// together. It plays the role the teacher repo's Server struct played,
// generalized from a generic command-handler table to this spec's
// fixed dispatcher/executor architecture.
type Server struct {
	Address string

	db       *Database
	attrs    *ServerAttributes
	pubsub   *PubSubRegistry
	monitors *MonitorRegistry

	dispatcherInbox chan *RawCommand
	dbInbox         chan *RawCommand
	srvInbox        chan *RawCommand
	shutdownFlag    atomic.Bool
	logCh           chan LogMessage

	listener   net.Listener
	closeOnce  sync.Once
	logChClose sync.Once
	wg         sync.WaitGroup
}

// NewServer builds the components wired per SPEC_FULL.md §2-§4 that
// live for the whole process: the two single-owner resources and the
// registries shared across client goroutines. The executors and the
// dispatcher are created and started by Run.
func NewServer(address, logFileName string, verbose bool, timeout int) *Server {
	s := &Server{
		Address:         address,
		db:              NewDatabase(),
		pubsub:          NewPubSubRegistry(),
		monitors:        NewMonitorRegistry(),
		dispatcherInbox: make(chan *RawCommand, 256),
		dbInbox:         make(chan *RawCommand, 256),
		srvInbox:        make(chan *RawCommand, 256),
		logCh:           make(chan LogMessage, 256),
	}
	s.attrs = NewServerAttributes(logFileName, verbose, timeout, s.pubsub, s.monitors, &s.shutdownFlag)
	return s
}

func (s *Server) notifiers() Notifiers {
	return NewNotifiers(s.logCh, s.dispatcherInbox, &s.shutdownFlag, s.Address)
}

// LogChannel exposes the read side of the log channel so
// internal/logging.Sink can consume it without the core importing a
// logging library directly.
func (s *Server) LogChannel() <-chan LogMessage { return s.logCh }

// Run starts the sub-executors and dispatcher, binds the listener, and
// accepts connections until Shutdown is called or the listener errors.
// It blocks until the accept loop exits.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return err
	}
	s.listener = ln

	dbExec := NewCommandSubExecutor[*Database](s.db, dbRunnables, s.dbInbox)
	srvExec := NewCommandSubExecutor[*ServerAttributes](s.attrs, serverRunnables, s.srvInbox)
	dispatcher := NewCommandDispatcher(s.dispatcherInbox, s.dbInbox, s.srvInbox, s.monitors, s.notifiers())

	s.wg.Add(3)
	go func() { defer s.wg.Done(); dbExec.Run() }()
	go func() { defer s.wg.Done(); srvExec.Run() }()
	go func() { defer s.wg.Done(); dispatcher.Run() }()

	go s.watchShutdownFlag()

	s.notifiers().Log(LogInfo, "listening on "+ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.shutdownFlag.Load() {
				return nil
			}
			s.notifiers().Log(LogError, "accept: "+err.Error())
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	fields := NewClientFields(conn.RemoteAddr().String(), s.monitors)
	handler := NewClientHandler(conn, fields, s.notifiers(), s.attrs)
	handler.Serve()
}

// Exec submits one command through the same dispatcher path a
// connected client's reader would use and blocks for its reply. It
// exists for in-process callers — the status surface's counters and
// the config watcher's CONFIG SET feed — so they never touch the
// single-owner resources directly.
func (s *Server) Exec(argv ...string) (string, error) {
	cmd := newRawCommand(argv, nil)
	if err := s.notifiers().SubmitCommand(cmd); err != nil {
		return "", err
	}
	reply, ok := <-cmd.Reply
	if !ok {
		return "", errClosedSender(Communicate)
	}
	return reply, nil
}

// DBSize reports the current key count for the auxiliary status/metrics
// surface. It goes through the same dispatcher/executor path a client's
// DBSIZE command would, rather than reading Database.data directly,
// since nothing outside the database executor's own goroutine may touch
// that map.
func (s *Server) DBSize() int {
	reply, err := s.Exec("dbsize")
	if err != nil {
		return 0
	}
	var n int
	fmt.Sscanf(reply, ":%d\r\n", &n)
	return n
}

// ClientCount reports the number of live connections.
func (s *Server) ClientCount() int { return s.attrs.ClientCount() }

// watchShutdownFlag polls the shared shutdown flag so a SHUTDOWN
// command (which only sets the flag from inside the server executor)
// can trigger the same coordinated teardown an external Shutdown()
// call would. 200ms keeps shutdown latency low without busy-spinning.
func (s *Server) watchShutdownFlag() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if s.shutdownFlag.Load() {
			s.Shutdown()
			return
		}
	}
}

// Shutdown runs the coordinated teardown exactly once: raise the flag,
// close the dispatcher inbox (the dispatcher then closes the executor
// inboxes), close the listener, kill every client. Every caller —
// first or concurrent second — blocks until the sub-executors,
// dispatcher, and in-flight connection goroutines have all exited.
func (s *Server) Shutdown() {
	s.closeOnce.Do(func() {
		s.shutdownFlag.Store(true)
		coord := NewShutdownCoordinator(s.dispatcherInbox, s.listener, s.attrs)
		coord.Shutdown()
	})
	s.wg.Wait()
	s.logChClose.Do(func() { close(s.logCh) })
}

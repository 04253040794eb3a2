package redkit

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redkit/redkit/resp"
)

// ClientHandler owns one accepted connection. Following
// client_handler.rs, it splits the connection into a reader goroutine
// (decodes commands, submits them, waits for replies) and a writer
// goroutine (drains both the reply path and the async pub/sub push
// channel), rather than one goroutine doing both directions.
type ClientHandler struct {
	conn   net.Conn
	fields *ClientFields
	notify Notifiers
	srv    *ServerAttributes

	writeCh chan string
	wg      sync.WaitGroup
}

func NewClientHandler(conn net.Conn, fields *ClientFields, notify Notifiers, srv *ServerAttributes) *ClientHandler {
	return &ClientHandler{
		conn:    conn,
		fields:  fields,
		notify:  notify,
		srv:     srv,
		writeCh: make(chan string, 16),
	}
}

// Serve runs both goroutines and blocks until the connection is torn
// down. The teardown order mirrors the original's Drop impl: close the
// socket for reads (unblocking the reader), join the reader, send the
// writer its poison pill, join the writer.
func (h *ClientHandler) Serve() {
	h.fields.SetKillHook(func() { h.conn.Close() })
	h.srv.RegisterClient(h.fields)
	defer h.srv.UnregisterClient(h.fields)
	defer h.srv.pubsub.UnsubscribeAll(h.fields)
	defer h.srv.monitors.Remove(h.fields)

	h.wg.Add(1)
	go h.writeLoop()

	h.readLoop()

	h.fields.Kill()
	close(h.writeCh)
	h.wg.Wait()
	h.conn.Close()
}

func (h *ClientHandler) readLoop() {
	reader := resp.NewReader(bufio.NewReader(h.conn))
	for {
		if h.fields.IsDead() || h.notify.IsShuttingDown() {
			return
		}
		// A read that exceeds the configured idle timeout closes the
		// connection cleanly (no error reply), distinct from a genuine
		// protocol or socket error (SPEC_FULL.md §6). Re-read each
		// iteration so CONFIG SET TIMEOUT reaches sessions that were
		// already connected when it ran.
		if timeout := time.Duration(h.srv.Timeout()) * time.Second; timeout > 0 {
			h.conn.SetReadDeadline(time.Now().Add(timeout))
		} else {
			h.conn.SetReadDeadline(time.Time{})
		}
		argv, err := reader.ReadCommand()
		if err != nil {
			// An idle-timeout expiry and a clean EOF both close the
			// connection without an error reply; anything else gets
			// reported to the client before the teardown (spec.md §4.1).
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				h.notify.Log(LogDebug, "client "+h.fields.Addr()+" idle timeout")
				return
			}
			if errors.Is(err, io.EOF) || h.fields.IsDead() || h.notify.IsShuttingDown() {
				return
			}
			h.send(wrapCause(CloseClient, "ERR", "reading from socket", err).Encode())
			return
		}
		if len(argv) == 0 {
			continue
		}
		if h.handleQuit(argv) {
			return
		}
		h.dispatch(argv)
	}
}

func (h *ClientHandler) handleQuit(argv []string) bool {
	if strings.ToLower(argv[0]) != "quit" {
		return false
	}
	h.send(resp.Encode(resp.SimpleStr("OK")))
	return true
}

func (h *ClientHandler) dispatch(argv []string) {
	name := strings.ToLower(argv[0])
	if !h.fields.IsAllowedTo(name) {
		h.send(errNotPermittedInState(name).Encode())
		return
	}
	cmd := newRawCommand(argv, h.fields)
	if subErr := h.notify.SubmitCommand(cmd); subErr != nil {
		h.send(subErr.Encode())
		if subErr.Severity == ShutdownServer {
			h.fields.Kill()
		}
		return
	}
	reply, ok := <-cmd.Reply
	if !ok {
		h.send(errClosedSender(CloseClient).Encode())
		h.fields.Kill()
		return
	}
	if reply != "" {
		h.send(reply)
	}
}

// Write enqueues one encoded reply for the writer goroutine; once
// teardown has closed the queue it fails with the closed-socket error.
func (h *ClientHandler) Write(line string) (err *CmdError) {
	defer func() {
		if recover() != nil {
			err = errClosedSocket()
		}
	}()
	h.writeCh <- line
	return nil
}

// IsSubscribedTo reports whether this session is subscribed to channel.
func (h *ClientHandler) IsSubscribedTo(channel string) bool {
	return h.fields.IsSubscribedTo(channel)
}

// IsMonitorNotifiable reports whether this session receives the
// monitor echo stream.
func (h *ClientHandler) IsMonitorNotifiable() bool {
	return h.fields.IsMonitorable()
}

// send is a blocking handoff to the writer goroutine: the reader never
// has more than one reply in flight at a time (it waits for cmd.Reply
// before calling this), so writeCh's capacity is just slack, not a
// backpressure boundary to defend against here.
func (h *ClientHandler) send(line string) {
	h.Write(line)
}

func (h *ClientHandler) writeLoop() {
	defer h.wg.Done()
	w := bufio.NewWriter(h.conn)
	push := h.fields.PushChannel()
	for {
		select {
		case line, ok := <-h.writeCh:
			if !ok {
				return
			}
			if _, err := w.WriteString(line); err != nil {
				return
			}
			w.Flush()
		case line, ok := <-push:
			if !ok {
				// Kill closed the push channel. Every reply the reader
				// enqueued happened before the Kill, so one non-blocking
				// drain of the queue flushes anything still owed (the
				// QUIT +OK, a final error) before the writer leaves.
				h.drainReplies(w)
				return
			}
			if _, err := w.WriteString(line); err != nil {
				return
			}
			w.Flush()
		}
	}
}

func (h *ClientHandler) drainReplies(w *bufio.Writer) {
	for {
		select {
		case line, ok := <-h.writeCh:
			if !ok {
				return
			}
			if _, err := w.WriteString(line); err != nil {
				return
			}
			w.Flush()
		default:
			return
		}
	}
}

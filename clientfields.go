package redkit

import (
	"sync"

	"github.com/redkit/redkit/resp"
)

// ClientStatus is the client session state machine from spec.md §4.3:
// every connected client is in exactly one of these states, and the
// state gates which commands are even reachable.
type ClientStatus int

const (
	StatusExecutor ClientStatus = iota
	StatusSubscriber
	StatusMonitor
	StatusDead
)

func (s ClientStatus) String() string {
	switch s {
	case StatusExecutor:
		return "executor"
	case StatusSubscriber:
		return "subscriber"
	case StatusMonitor:
		return "monitor"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// ClientFields is the per-connection state the dispatcher and the
// pub/sub registry both touch: address, current status, the set of
// channels subscribed to, and whether this client wants monitor
// notifications. It is guarded by its own mutex because, unlike
// Database/ServerAttributes, it is legitimately reached from more than
// one goroutine (the client's own reader thread and the dispatcher).
type ClientFields struct {
	mu            sync.Mutex
	addr          string
	name          string
	status        ClientStatus
	subscriptions map[string]struct{}
	monitorable   bool
	pushCh        chan string
	monitors      *MonitorRegistry
	onKill        func()
}

// NewClientFields wires pushCh as the channel the pub/sub registry and
// monitor registry deliver asynchronous messages through; the client
// handler's writer goroutine drains it alongside command replies.
// monitors is the server-wide registry the inline monitor runnable
// registers into.
func NewClientFields(addr string, monitors *MonitorRegistry) *ClientFields {
	return &ClientFields{
		addr:          addr,
		status:        StatusExecutor,
		subscriptions: make(map[string]struct{}),
		pushCh:        make(chan string, 64),
		monitors:      monitors,
	}
}

// PushChannel exposes the async delivery channel to the client
// handler's writer loop.
func (c *ClientFields) PushChannel() <-chan string {
	return c.pushCh
}

// deliver encodes a pub/sub message (or, when channel=="", a raw
// monitor line already RESP-shaped) and attempts a non-blocking send
// on pushCh. Returns false if the client is already Dead or the
// channel is full, signalling the caller to treat it as gone. The send
// happens under the fields mutex so it can never race Kill closing
// pushCh.
func (c *ClientFields) deliver(channel, message string) bool {
	var encoded string
	if channel == "" {
		encoded = message
	} else {
		encoded = resp.Encode(resp.ArrayOf(
			resp.BulkStr("message"),
			resp.BulkStr(channel),
			resp.BulkStr(message),
		))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusDead {
		return false
	}
	select {
	case c.pushCh <- encoded:
		return true
	default:
		return false
	}
}

func (c *ClientFields) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr
}

// Name is the optional display name; empty until SetName.
func (c *ClientFields) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *ClientFields) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *ClientFields) Status() ClientStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetKillHook installs the callback Kill runs exactly once on the
// Dead transition; the client handler points it at its connection's
// Close so that killing a session also unblocks a reader parked in a
// socket read.
func (c *ClientFields) SetKillHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onKill = fn
}

// Kill marks the client Dead, closes the push channel (waking a writer
// parked on it), and fires the kill hook. Idempotent: killing an
// already-dead client is a no-op, matching the "can't double-close"
// discipline the original Drop implementation relies on.
func (c *ClientFields) Kill() {
	c.mu.Lock()
	already := c.status == StatusDead
	c.status = StatusDead
	fn := c.onKill
	if !already {
		close(c.pushCh)
	}
	c.mu.Unlock()
	if !already && fn != nil {
		fn()
	}
}

func (c *ClientFields) IsDead() bool {
	return c.Status() == StatusDead
}

// IsAllowedTo is the fast reader-side check: does this command name
// belong to the set reachable from the client's current status? It
// never resolves a runnable, only membership, so it can run on the hot
// path before a RawCommand is even built (spec.md §4.3).
func (c *ClientFields) IsAllowedTo(cmdName string) bool {
	switch c.Status() {
	case StatusDead:
		return false
	case StatusMonitor:
		return cmdName == "quit"
	case StatusSubscriber:
		switch cmdName {
		case "subscribe", "unsubscribe", "quit", "ping":
			return true
		default:
			return false
		}
	default: // StatusExecutor
		return true
	}
}

// ReviewCommand is the dispatcher-side counterpart: for commands routed
// to the inline slot (ping/echo/client/subscribe/unsubscribe/monitor),
// it looks up the bound Runnable[*ClientFields] for the client's
// current status. A nil return means the command has no inline
// runnable in that status; the dispatcher then replies with
// errCommandDoesNotExist. Callers must still have checked IsAllowedTo.
func (c *ClientFields) ReviewCommand(cmdName string) Runnable[*ClientFields] {
	return clientRunnables(c.Status())[cmdName]
}

func (c *ClientFields) Subscribe(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[channel] = struct{}{}
	c.status = StatusSubscriber
}

func (c *ClientFields) Unsubscribe(channel string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, channel)
	remaining := len(c.subscriptions)
	if remaining == 0 {
		c.status = StatusExecutor
	}
	return remaining
}

func (c *ClientFields) SubscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscriptions)
}

// subscribedChannels snapshots the current subscription set, used by
// UNSUBSCRIBE with no arguments to mean "all channels".
func (c *ClientFields) subscribedChannels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.subscriptions))
	for ch := range c.subscriptions {
		out = append(out, ch)
	}
	return out
}

func (c *ClientFields) IsSubscribedTo(channel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subscriptions[channel]
	return ok
}

func (c *ClientFields) SetMonitor(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.monitorable = on
	if on {
		c.status = StatusMonitor
	}
}

func (c *ClientFields) IsMonitorable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitorable
}

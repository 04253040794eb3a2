package redkit

import "strings"

// CommandDispatcher is the Go analogue of CommandDelegator::init: the
// single consumer of the server's global inbox. It owns the routing
// table and forwards each RawCommand to every Slot the command maps
// to, in order. It never touches Database or ServerAttributes
// directly — only their inboxes — so it can never violate the
// single-owner discipline those types rely on.
type CommandDispatcher struct {
	routes   CommandsMap
	inbox    <-chan *RawCommand
	dbInbox  chan<- *RawCommand
	srvInbox chan<- *RawCommand
	monitors *MonitorRegistry
	notify   Notifiers
}

func NewCommandDispatcher(inbox <-chan *RawCommand, dbInbox, srvInbox chan<- *RawCommand, monitors *MonitorRegistry, notify Notifiers) *CommandDispatcher {
	return &CommandDispatcher{
		routes:   defaultCommandsMap(),
		inbox:    inbox,
		dbInbox:  dbInbox,
		srvInbox: srvInbox,
		monitors: monitors,
		notify:   notify,
	}
}

// Run drains the inbox until it's closed, which is the normal shutdown
// signal: on the way out the dispatcher drops the executor inboxes it
// holds the send side of, letting both sub-executors drain and exit in
// turn. A closed database or server inbox observed earlier escalates
// to ShutdownServer: per spec.md §4.2, losing either sub-executor is
// unrecoverable for the whole server, not just the one client that
// happened to trigger it.
func (d *CommandDispatcher) Run() {
	for cmd := range d.inbox {
		d.handle(cmd)
	}
	close(d.dbInbox)
	close(d.srvInbox)
}

func (d *CommandDispatcher) handle(cmd *RawCommand) {
	if len(cmd.Argv) == 0 {
		sendReply(cmd.Reply, errUnknownCommand(cmd.Argv).Encode())
		return
	}
	name := strings.ToLower(cmd.Argv[0])
	slots, ok := d.routes.Route(name)
	if !ok {
		sendReply(cmd.Reply, errUnknownCommand(cmd.Argv).Encode())
		return
	}

	d.echoToMonitors(cmd)

	for i, slot := range slots {
		forward := cmd
		if i > 0 {
			// Secondary slots are fire-and-forget: only the first slot's
			// Reply channel is the one the client is actually waiting on.
			forward = &RawCommand{Argv: cmd.Argv, Reply: make(chan string, 1), Fields: cmd.Fields}
		}
		switch slot.Kind {
		case SlotInlineClient:
			d.runInline(forward)
		case SlotDatabase:
			d.forwardTo(d.dbInbox, forward)
		case SlotServer:
			d.forwardTo(d.srvInbox, forward)
		}
	}
}

// echoToMonitors ships every successfully routed command to the
// monitor fan-out, as an internal notify_monitors command through the
// server executor so monitor output is ordered with the other server
// commands. Skipped entirely while no client is in Monitor status, and
// for notify_monitors itself so a spoofed submission can't recurse.
func (d *CommandDispatcher) echoToMonitors(cmd *RawCommand) {
	if d.monitors.Len() == 0 || strings.EqualFold(cmd.Argv[0], "notify_monitors") {
		return
	}
	echo := &RawCommand{
		Argv:   append([]string{"notify_monitors"}, cmd.Argv...),
		Reply:  make(chan string, 1),
		Fields: cmd.Fields,
	}
	d.forwardTo(d.srvInbox, echo)
}

func (d *CommandDispatcher) runInline(cmd *RawCommand) {
	if cmd.Fields == nil {
		// In-process submissions (Server.Exec) carry no session; inline
		// slots are meaningless for them.
		sendReply(cmd.Reply, errInvalidArguments(cmd.Argv[0]).Encode())
		return
	}
	name := strings.ToLower(cmd.Argv[0])
	fn := cmd.Fields.ReviewCommand(name)
	if fn == nil {
		sendReply(cmd.Reply, errCommandDoesNotExist().Encode())
		return
	}
	reply, err := fn(cmd.Argv, cmd.Fields, cmd.Fields)
	if err != nil {
		if err.Severity >= CloseClient {
			cmd.Fields.Kill()
		}
		sendReply(cmd.Reply, err.Encode())
		return
	}
	sendReply(cmd.Reply, reply)
}

func (d *CommandDispatcher) forwardTo(inbox chan<- *RawCommand, cmd *RawCommand) {
	defer func() {
		if recover() != nil {
			d.notify.ForceShutdown("sub-executor inbox closed")
			sendReply(cmd.Reply, newErr(ShutdownServer, "ERR", "server shutting down").Encode())
		}
	}()
	inbox <- cmd
}

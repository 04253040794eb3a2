package redkit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redkit/redkit/resp"
)

// serverRunnables is the RunnablesMap[*ServerAttributes] the server
// sub-executor dispatches into: commands with no per-key data, only
// server-wide configuration and coordination (spec.md §5, §4.4). The
// subscribe/unsubscribe entries are the registry side of those
// commands; the session side already ran inline on the client by the
// time these fire, because their route lists the inline slot first.
var serverRunnables = RunnablesMap[*ServerAttributes]{
	"config":          runConfig,
	"shutdown":        runShutdown,
	"publish":         runPublish,
	"clear_client":    runClearClient,
	"subscribe":       runSubscribeRegistry,
	"unsubscribe":     runUnsubscribeRegistry,
	"notify_monitors": runNotifyMonitors,
}

func runConfig(argv []string, s *ServerAttributes, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 2 {
		return "", errWrongNumberOfArgs("config")
	}
	switch strings.ToLower(argv[1]) {
	case "get":
		if len(argv) != 3 {
			return "", errUnknownSubcommand("CONFIG", "GET")
		}
		return resp.Encode(resp.ArrayOf(resp.BulkStr(argv[2]), resp.BulkStr(configGetValue(s, argv[2])))), nil
	case "set":
		if len(argv) != 4 {
			return "", errUnknownSubcommand("CONFIG", "SET")
		}
		if err := configSetValue(s, argv[2], argv[3]); err != nil {
			return "", err
		}
		return resp.Encode(resp.SimpleStr("OK")), nil
	default:
		return "", errUnknownSubcommand("CONFIG", argv[1])
	}
}

func configGetValue(s *ServerAttributes, key string) string {
	switch strings.ToLower(key) {
	case "logfile":
		return s.LogFileName()
	case "verbose":
		if s.Verbose() {
			return "yes"
		}
		return "no"
	case "timeout":
		return strconv.Itoa(s.Timeout())
	default:
		return ""
	}
}

func configSetValue(s *ServerAttributes, key, value string) *CmdError {
	switch strings.ToLower(key) {
	case "logfile":
		s.SetLogFileName(value)
	case "verbose":
		s.SetVerbose(value == "yes" || value == "1" || value == "true")
	case "timeout":
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			return errNotInteger()
		}
		s.SetTimeout(n)
	default:
		return newErr(Normal, "ERR", "Unknown option or number of arguments for CONFIG SET - '"+key+"'")
	}
	return nil
}

// runShutdown raises the shared shutdown flag and returns no reply:
// the original implementation's shutdown command never replies,
// because by the time the server executor could send one the
// coordinator has already started tearing the listener down.
func runShutdown(argv []string, s *ServerAttributes, _ *ClientFields) (string, *CmdError) {
	s.shutdown.Store(true)
	return "", nil
}

// runClearClient is the Go analogue of the original's clear_client
// server command: force one specific connection (matched by address
// or display name) into Dead status, waking its handler out of any
// blocking read/reply wait. Not part of spec.md's own command table,
// but present in original_source/ and cheap to carry (SPEC_FULL.md §4).
func runClearClient(argv []string, s *ServerAttributes, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("clear_client")
	}
	c := s.FindClient(argv[1])
	if c == nil {
		return resp.Encode(resp.Integer64(0)), nil
	}
	c.Kill()
	return resp.Encode(resp.Integer64(1)), nil
}

func runPublish(argv []string, s *ServerAttributes, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 3 {
		return "", errWrongNumberOfArgs("publish")
	}
	n := s.pubsub.Publish(argv[1], argv[2])
	return resp.Encode(resp.Integer64(int64(n))), nil
}

// runSubscribeRegistry registers the submitting client for each named
// channel. Always the second Slot on subscribe's route; the reply the
// client sees came from the inline slot, so this one's return value is
// routed to a discard channel.
func runSubscribeRegistry(argv []string, s *ServerAttributes, client *ClientFields) (string, *CmdError) {
	if client == nil {
		return "", errInvalidArguments("subscribe")
	}
	for _, channel := range argv[1:] {
		s.pubsub.Subscribe(channel, client)
	}
	return "", nil
}

// runUnsubscribeRegistry removes the registry entries. A bare
// unsubscribe means every channel; by the time this slot runs the
// inline slot has already emptied the client's own subscription set,
// so "every channel" here must come from the registry, not the client.
func runUnsubscribeRegistry(argv []string, s *ServerAttributes, client *ClientFields) (string, *CmdError) {
	if client == nil {
		return "", errInvalidArguments("unsubscribe")
	}
	if len(argv) == 1 {
		s.pubsub.UnsubscribeAll(client)
		return "", nil
	}
	for _, channel := range argv[1:] {
		s.pubsub.Unsubscribe(channel, client)
	}
	return "", nil
}

// runNotifyMonitors fans one executed command line out to every client
// in Monitor status. The dispatcher submits it internally after each
// successfully routed command; argv[1:] is the original command's own
// argv, quoted here the way redis-cli users expect monitor output.
func runNotifyMonitors(argv []string, s *ServerAttributes, client *ClientFields) (string, *CmdError) {
	addr := "internal"
	if client != nil {
		addr = client.Addr()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%.6f [0 %s]", float64(time.Now().UnixMicro())/1e6, addr)
	for _, tok := range argv[1:] {
		b.WriteString(" " + strconv.Quote(tok))
	}
	s.monitors.NotifyAll(resp.Encode(resp.SimpleStr(b.String())))
	return "", nil
}

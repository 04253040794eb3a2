package redkit

import (
	"strings"

	"github.com/redkit/redkit/resp"
)

// clientRunnables returns the RunnablesMap[*ClientFields] bound to a
// given status, mirroring the original's Status::update_map: only
// Executor and Subscriber have inline-runnable commands, Monitor and
// Dead never do (a Monitor client's only way out is QUIT, handled
// directly by the client handler's teardown, not as a runnable).
func clientRunnables(status ClientStatus) RunnablesMap[*ClientFields] {
	switch status {
	case StatusExecutor:
		return executorClientRunnables
	case StatusSubscriber:
		return subscriberClientRunnables
	default:
		return nil
	}
}

var executorClientRunnables = RunnablesMap[*ClientFields]{
	"ping":      runPing,
	"echo":      runEcho,
	"client":    runClient,
	"subscribe": runSubscribe,
	"monitor":   runMonitor,
}

var subscriberClientRunnables = RunnablesMap[*ClientFields]{
	"ping":        runPing,
	"subscribe":   runSubscribe,
	"unsubscribe": runUnsubscribe,
}

func runEcho(argv []string, c *ClientFields, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("echo")
	}
	return resp.Encode(resp.BulkStr(argv[1])), nil
}

func runPing(argv []string, c *ClientFields, _ *ClientFields) (string, *CmdError) {
	if len(argv) > 1 {
		return resp.Encode(resp.BulkStr(argv[1])), nil
	}
	return resp.Encode(resp.SimpleStr("PONG")), nil
}

// runSubscribe mutates only the session side: the subscription set and
// the Executor→Subscriber transition. The registry side runs in the
// server executor, reached through the second Slot on subscribe's
// route, so the inline reply here reflects the set as the client sees
// it at confirmation time.
func runSubscribe(argv []string, c *ClientFields, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 2 {
		return "", errWrongNumberOfArgs("subscribe")
	}
	var b strings.Builder
	for _, channel := range argv[1:] {
		c.Subscribe(channel)
		b.WriteString(resp.Encode(resp.ArrayOf(
			resp.BulkStr("subscribe"),
			resp.BulkStr(channel),
			resp.Integer64(int64(c.SubscriptionCount())),
		)))
	}
	return b.String(), nil
}

func runUnsubscribe(argv []string, c *ClientFields, _ *ClientFields) (string, *CmdError) {
	channels := argv[1:]
	if len(channels) == 0 {
		channels = c.subscribedChannels()
	}
	var b strings.Builder
	for _, channel := range channels {
		remaining := c.Unsubscribe(channel)
		b.WriteString(resp.Encode(resp.ArrayOf(
			resp.BulkStr("unsubscribe"),
			resp.BulkStr(channel),
			resp.Integer64(int64(remaining)),
		)))
	}
	return b.String(), nil
}

func runMonitor(argv []string, c *ClientFields, _ *ClientFields) (string, *CmdError) {
	c.SetMonitor(true)
	c.monitors.Add(c)
	return resp.Encode(resp.SimpleStr("OK")), nil
}

// runClient handles the session-naming subcommands; the name is what
// clear_client accepts in place of a peer address.
func runClient(argv []string, c *ClientFields, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 2 {
		return "", errWrongNumberOfArgs("client")
	}
	switch strings.ToLower(argv[1]) {
	case "setname":
		if len(argv) != 3 {
			return "", errWrongNumberOfArgs("client|setname")
		}
		c.SetName(argv[2])
		return resp.Encode(resp.SimpleStr("OK")), nil
	case "getname":
		if len(argv) != 2 {
			return "", errWrongNumberOfArgs("client|getname")
		}
		if c.Name() == "" {
			return resp.Encode(resp.NullBulk()), nil
		}
		return resp.Encode(resp.BulkStr(c.Name())), nil
	default:
		return "", errUnknownSubcommand("CLIENT", argv[1])
	}
}

package redkit

import "strings"

// SlotKind names which executor (if any) a Slot forwards a command to.
// This is the Go resolution of an Open Question in SPEC_FULL.md: the
// original routing table represents "run inline on the client" as a
// None entry in a Vec<Option<Sender<RawCommand>>>; here it's an
// explicit tag instead of a nil sentinel, so a missing route and an
// inline route can never be confused by accident.
type SlotKind int

const (
	SlotInlineClient SlotKind = iota
	SlotDatabase
	SlotServer
)

// Slot is one hop in a command's route. A command can have more than
// one Slot — SUBSCRIBE, for instance, runs inline against the client's
// own fields AND is forwarded to the server executor, which adds the
// client to the pub/sub registry (spec.md §4.4 supplement).
type Slot struct {
	Kind SlotKind
}

var (
	slotInline = Slot{Kind: SlotInlineClient}
	slotDB     = Slot{Kind: SlotDatabase}
	slotServer = Slot{Kind: SlotServer}
)

// CommandsMap is the dispatcher's routing table: command name (always
// looked up lowercased) to the ordered list of Slots it must hit.
type CommandsMap map[string][]Slot

// defaultCommandsMap builds the routing table spec.md §5 describes,
// following the literal layout of the original CommandsMap::default:
// data commands go only to the database executor, server-wide commands
// (config, shutdown, publish, clear_client, notify_monitors) go only to
// the server executor, connection commands that need no shared state
// run inline on the client, and subscribe/unsubscribe run inline and
// then reach the server executor so it can update the pub/sub registry.
func defaultCommandsMap() CommandsMap {
	m := CommandsMap{}

	dataCommands := []string{
		"set", "get", "strlen", "del", "exists", "type",
		"lpush", "rpush", "lpop", "rpop", "lset", "llen", "lrange",
		"sadd", "scard", "srem", "smembers", "sismember",
		"hset", "hget", "hdel", "hgetall", "hexists", "hlen",
		"flushdb", "dbsize",
	}
	for _, name := range dataCommands {
		m[name] = []Slot{slotDB}
	}

	serverOnlyCommands := []string{"config", "shutdown", "publish", "clear_client", "notify_monitors"}
	for _, name := range serverOnlyCommands {
		m[name] = []Slot{slotServer}
	}

	inlineOnlyCommands := []string{"ping", "echo", "quit", "client", "monitor"}
	for _, name := range inlineOnlyCommands {
		m[name] = []Slot{slotInline}
	}

	m["subscribe"] = []Slot{slotInline, slotServer}
	m["unsubscribe"] = []Slot{slotInline, slotServer}

	return m
}

// Route looks up the Slots bound to a command name, case-insensitively.
func (m CommandsMap) Route(cmdName string) ([]Slot, bool) {
	slots, ok := m[strings.ToLower(cmdName)]
	return slots, ok
}

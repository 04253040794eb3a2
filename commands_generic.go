package redkit

import (
	"strconv"

	"github.com/redkit/redkit/resp"
)

// dbRunnables is the RunnablesMap[*Database] the database sub-executor
// dispatches into. Arity is checked before any type inspection on
// every command here, matching the original commands/*.rs ordering
// (see e.g. scard.rs, flushdb.rs): a wrong-arity call never touches
// the keyspace at all.
var dbRunnables = RunnablesMap[*Database]{
	"set":       runSet,
	"get":       runGet,
	"strlen":    runStrlen,
	"del":       runDel,
	"exists":    runExists,
	"type":      runType,
	"flushdb":   runFlushdb,
	"dbsize":    runDbsize,
	"lpush":     runLpush,
	"rpush":     runRpush,
	"lpop":      runLpop,
	"rpop":      runRpop,
	"lset":      runLset,
	"llen":      runLlen,
	"lrange":    runLrange,
	"sadd":      runSadd,
	"scard":     runScard,
	"srem":      runSrem,
	"smembers":  runSmembers,
	"sismember": runSismember,
	"hset":      runHset,
	"hget":      runHget,
	"hdel":      runHdel,
	"hgetall":   runHgetall,
	"hexists":   runHexists,
	"hlen":      runHlen,
}

func runSet(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 3 {
		return "", errWrongNumberOfArgs("set")
	}
	db.Set(argv[1], newStringValue(argv[2]))
	return resp.Encode(resp.SimpleStr("OK")), nil
}

func runGet(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("get")
	}
	v, ok, err := db.GetChecked(argv[1], KindString)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.NullBulk()), nil
	}
	return resp.Encode(resp.BulkStr(v.Str)), nil
}

func runStrlen(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("strlen")
	}
	v, ok, err := db.GetChecked(argv[1], KindString)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	return resp.Encode(resp.Integer64(int64(len(v.Str)))), nil
}

func runDel(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 2 {
		return "", errWrongNumberOfArgs("del")
	}
	count := int64(0)
	for _, key := range argv[1:] {
		if db.Delete(key) {
			count++
		}
	}
	return resp.Encode(resp.Integer64(count)), nil
}

func runExists(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 2 {
		return "", errWrongNumberOfArgs("exists")
	}
	count := int64(0)
	for _, key := range argv[1:] {
		if db.Exists(key) {
			count++
		}
	}
	return resp.Encode(resp.Integer64(count)), nil
}

func runType(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("type")
	}
	v := db.Get(argv[1])
	if v == nil {
		return resp.Encode(resp.SimpleStr("none")), nil
	}
	switch v.Kind {
	case KindString:
		return resp.Encode(resp.SimpleStr("string")), nil
	case KindList:
		return resp.Encode(resp.SimpleStr("list")), nil
	case KindSet:
		return resp.Encode(resp.SimpleStr("set")), nil
	case KindHash:
		return resp.Encode(resp.SimpleStr("hash")), nil
	default:
		return resp.Encode(resp.SimpleStr("none")), nil
	}
}

// runFlushdb empties the keyspace. The original's FlushDb escalates to
// ErrorSeverity::ShutdownServer when its lock is poisoned; a Go map
// under single-owner discipline has no equivalent failure mode, so
// this call simply never fails (see SPEC_FULL.md Open Questions).
func runFlushdb(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 1 {
		return "", errWrongNumberOfArgs("flushdb")
	}
	db.Clear()
	return resp.Encode(resp.SimpleStr("OK")), nil
}

func runDbsize(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 1 {
		return "", errWrongNumberOfArgs("dbsize")
	}
	return resp.Encode(resp.Integer64(int64(db.Len()))), nil
}

func parseIndex(s string) (int, *CmdError) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotInteger()
	}
	return n, nil
}

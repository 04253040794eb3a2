package redkit

import "testing"

func TestScardMissingKeyIsZero(t *testing.T) {
	db := NewDatabase()
	reply, err := runScard([]string{"scard", "nope"}, db, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != ":0\r\n" {
		t.Errorf("reply = %q, want :0\\r\\n", reply)
	}
}

func TestScardWrongTypeAgainstString(t *testing.T) {
	db := NewDatabase()
	db.Set("k", newStringValue("hello"))
	_, err := runScard([]string{"scard", "k"}, db, nil)
	if err == nil || err.Prefix != "WRONGTYPE" {
		t.Fatalf("expected WRONGTYPE, got %v", err)
	}
}

func TestScardCountsDistinctMembers(t *testing.T) {
	db := NewDatabase()
	runSadd([]string{"sadd", "s", "a", "b", "a", "c"}, db, nil)
	reply, err := runScard([]string{"scard", "s"}, db, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != ":3\r\n" {
		t.Errorf("reply = %q, want :3\\r\\n", reply)
	}
}

func TestScardWrongArity(t *testing.T) {
	db := NewDatabase()
	_, err := runScard([]string{"scard"}, db, nil)
	if err == nil {
		t.Fatal("expected wrong-arity error")
	}
}

// TestLpushLsetLpopScenario reproduces the literal end-to-end scenario
// from the original implementation's command_delegator tests: push
// four elements, overwrite the head, pop them all back out in order.
func TestLpushLsetLpopScenario(t *testing.T) {
	db := NewDatabase()

	reply, err := runLpush([]string{"lpush", "key", "delegator", "new", "my", "testing"}, db, nil)
	if err != nil {
		t.Fatalf("lpush: %v", err)
	}
	if reply != ":4\r\n" {
		t.Fatalf("lpush reply = %q, want :4\\r\\n", reply)
	}

	reply, err = runLset([]string{"lset", "key", "0", "breaking"}, db, nil)
	if err != nil {
		t.Fatalf("lset: %v", err)
	}
	if reply != "+OK\r\n" {
		t.Fatalf("lset reply = %q, want +OK\\r\\n", reply)
	}

	reply, err = runLpop([]string{"lpop", "key", "4"}, db, nil)
	if err != nil {
		t.Fatalf("lpop: %v", err)
	}
	want := "*4\r\n$8\r\nbreaking\r\n$2\r\nmy\r\n$3\r\nnew\r\n$9\r\ndelegator\r\n"
	if reply != want {
		t.Fatalf("lpop reply = %q, want %q", reply, want)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	db := NewDatabase()
	if _, err := runSet([]string{"set", "k", "v"}, db, nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	reply, err := runGet([]string{"get", "k"}, db, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reply != "$1\r\nv\r\n" {
		t.Errorf("reply = %q, want $1\\r\\nv\\r\\n", reply)
	}
}

func TestGetWrongTypeDoesNotMutate(t *testing.T) {
	db := NewDatabase()
	runSadd([]string{"sadd", "k", "a"}, db, nil)
	_, err := runGet([]string{"get", "k"}, db, nil)
	if err == nil || err.Prefix != "WRONGTYPE" {
		t.Fatalf("expected WRONGTYPE, got %v", err)
	}
	v, ok, _ := db.GetChecked("k", KindSet)
	if !ok || len(v.Set) != 1 {
		t.Fatalf("GET on wrong type must not mutate the key")
	}
}

func TestHsetCountsNewFields(t *testing.T) {
	db := NewDatabase()
	reply, _ := runHset([]string{"hset", "h", "f1", "v1", "f2", "v2"}, db, nil)
	if reply != ":2\r\n" {
		t.Errorf("hset reply = %q, want :2\\r\\n", reply)
	}
	reply, _ = runHset([]string{"hset", "h", "f1", "v1-updated"}, db, nil)
	if reply != ":0\r\n" {
		t.Errorf("hset on existing field reply = %q, want :0\\r\\n", reply)
	}
}

func TestFlushdbEmptiesKeyspace(t *testing.T) {
	db := NewDatabase()
	db.Set("a", newStringValue("1"))
	db.Set("b", newStringValue("2"))
	if _, err := runFlushdb([]string{"flushdb"}, db, nil); err != nil {
		t.Fatalf("flushdb: %v", err)
	}
	if db.Len() != 0 {
		t.Errorf("Len() = %d, want 0", db.Len())
	}
}

func TestDbsizeReflectsKeyCount(t *testing.T) {
	db := NewDatabase()
	db.Set("a", newStringValue("1"))
	db.Set("b", newStringValue("2"))
	reply, _ := runDbsize([]string{"dbsize"}, db, nil)
	if reply != ":2\r\n" {
		t.Errorf("reply = %q, want :2\\r\\n", reply)
	}
}

func TestSaddScardSremSequence(t *testing.T) {
	db := NewDatabase()
	if reply, _ := runSadd([]string{"sadd", "s", "m1", "m2", "m3"}, db, nil); reply != ":3\r\n" {
		t.Fatalf("sadd reply = %q, want :3\\r\\n", reply)
	}
	if reply, _ := runScard([]string{"scard", "s"}, db, nil); reply != ":3\r\n" {
		t.Fatalf("scard reply = %q, want :3\\r\\n", reply)
	}
	if reply, _ := runSrem([]string{"srem", "s", "m1", "m9"}, db, nil); reply != ":1\r\n" {
		t.Fatalf("srem reply = %q, want :1\\r\\n", reply)
	}
	if reply, _ := runScard([]string{"scard", "s"}, db, nil); reply != ":2\r\n" {
		t.Fatalf("scard reply = %q, want :2\\r\\n", reply)
	}
}

package redkit

// Database is the keyspace: a plain map from key to Value, exclusively
// owned and mutated by the database sub-executor's goroutine (spec.md
// §3/§5). No mutex guards it — the message-passing discipline is the
// only synchronization, so any access from outside the executor
// goroutine is a bug, not a missing lock.
type Database struct {
	data map[string]*Value
}

func NewDatabase() *Database {
	return &Database{data: make(map[string]*Value)}
}

// Get returns the value stored at key, or nil if absent.
func (d *Database) Get(key string) *Value {
	return d.data[key]
}

// GetChecked returns the value at key, failing with WRONGTYPE if it
// exists but isn't of the expected kind. A missing key is reported via
// ok=false with no error, letting callers distinguish "absent" from
// "wrong type".
func (d *Database) GetChecked(key string, want ValueKind) (v *Value, ok bool, err *CmdError) {
	v, present := d.data[key]
	if !present {
		return nil, false, nil
	}
	if v.Kind != want {
		return nil, false, errWrongType()
	}
	return v, true, nil
}

func (d *Database) Set(key string, v *Value) {
	d.data[key] = v
}

func (d *Database) Delete(key string) bool {
	if _, ok := d.data[key]; !ok {
		return false
	}
	delete(d.data, key)
	return true
}

func (d *Database) Exists(key string) bool {
	_, ok := d.data[key]
	return ok
}

func (d *Database) Len() int {
	return len(d.data)
}

// Clear empties the keyspace. Used by FLUSHDB; never fails.
func (d *Database) Clear() {
	d.data = make(map[string]*Value)
}

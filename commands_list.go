package redkit

import "github.com/redkit/redkit/resp"

// getOrCreateList fetches the list at key, creating an empty one if
// absent, and fails WRONGTYPE if the key holds something else —
// the same arity-then-type order every original commands/*.rs file
// uses before mutating anything.
func getOrCreateList(db *Database, key string) (*Value, *CmdError) {
	v, ok, err := db.GetChecked(key, KindList)
	if err != nil {
		return nil, err
	}
	if !ok {
		v = newListValue(nil)
		db.Set(key, v)
	}
	return v, nil
}

func runLpush(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 3 {
		return "", errWrongNumberOfArgs("lpush")
	}
	v, err := getOrCreateList(db, argv[1])
	if err != nil {
		return "", err
	}
	for _, elem := range argv[2:] {
		v.List = append([]string{elem}, v.List...)
	}
	return resp.Encode(resp.Integer64(int64(len(v.List)))), nil
}

func runRpush(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 3 {
		return "", errWrongNumberOfArgs("rpush")
	}
	v, err := getOrCreateList(db, argv[1])
	if err != nil {
		return "", err
	}
	v.List = append(v.List, argv[2:]...)
	return resp.Encode(resp.Integer64(int64(len(v.List)))), nil
}

func runLpop(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 && len(argv) != 3 {
		return "", errWrongNumberOfArgs("lpop")
	}
	v, ok, err := db.GetChecked(argv[1], KindList)
	if err != nil {
		return "", err
	}
	if !ok || len(v.List) == 0 {
		if len(argv) == 3 {
			return resp.Encode(resp.NullArray()), nil
		}
		return resp.Encode(resp.NullBulk()), nil
	}
	if len(argv) == 2 {
		elem := v.List[0]
		v.List = v.List[1:]
		return resp.Encode(resp.BulkStr(elem)), nil
	}
	count, cerr := parseIndex(argv[2])
	if cerr != nil {
		return "", cerr
	}
	if count < 0 {
		return "", errInvalidArguments("lpop")
	}
	if count > len(v.List) {
		count = len(v.List)
	}
	popped := v.List[:count]
	v.List = v.List[count:]
	elems := make([]resp.Value, len(popped))
	for i, e := range popped {
		elems[i] = resp.BulkStr(e)
	}
	return resp.Encode(resp.ArrayOf(elems...)), nil
}

func runRpop(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 && len(argv) != 3 {
		return "", errWrongNumberOfArgs("rpop")
	}
	v, ok, err := db.GetChecked(argv[1], KindList)
	if err != nil {
		return "", err
	}
	if !ok || len(v.List) == 0 {
		if len(argv) == 3 {
			return resp.Encode(resp.NullArray()), nil
		}
		return resp.Encode(resp.NullBulk()), nil
	}
	if len(argv) == 2 {
		last := len(v.List) - 1
		elem := v.List[last]
		v.List = v.List[:last]
		return resp.Encode(resp.BulkStr(elem)), nil
	}
	count, cerr := parseIndex(argv[2])
	if cerr != nil {
		return "", cerr
	}
	if count < 0 {
		return "", errInvalidArguments("rpop")
	}
	if count > len(v.List) {
		count = len(v.List)
	}
	start := len(v.List) - count
	popped := v.List[start:]
	v.List = v.List[:start]
	elems := make([]resp.Value, len(popped))
	for i := range popped {
		elems[i] = resp.BulkStr(popped[len(popped)-1-i])
	}
	return resp.Encode(resp.ArrayOf(elems...)), nil
}

func runLset(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 4 {
		return "", errWrongNumberOfArgs("lset")
	}
	v, ok, err := db.GetChecked(argv[1], KindList)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errNoSuchKey()
	}
	idx, cerr := parseIndex(argv[2])
	if cerr != nil {
		return "", cerr
	}
	if idx < 0 {
		idx += len(v.List)
	}
	if idx < 0 || idx >= len(v.List) {
		return "", newErr(Normal, "ERR", "index out of range")
	}
	v.List[idx] = argv[3]
	return resp.Encode(resp.SimpleStr("OK")), nil
}

func runLlen(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("llen")
	}
	v, ok, err := db.GetChecked(argv[1], KindList)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	return resp.Encode(resp.Integer64(int64(len(v.List)))), nil
}

func runLrange(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 4 {
		return "", errWrongNumberOfArgs("lrange")
	}
	v, ok, err := db.GetChecked(argv[1], KindList)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.ArrayOf()), nil
	}
	start, cerr := parseIndex(argv[2])
	if cerr != nil {
		return "", cerr
	}
	stop, cerr := parseIndex(argv[3])
	if cerr != nil {
		return "", cerr
	}
	n := len(v.List)
	start = normalizeRangeIndex(start, n)
	stop = normalizeRangeIndex(stop, n)
	if start > stop || start >= n {
		return resp.Encode(resp.ArrayOf()), nil
	}
	if stop >= n {
		stop = n - 1
	}
	slice := v.List[start : stop+1]
	elems := make([]resp.Value, len(slice))
	for i, e := range slice {
		elems[i] = resp.BulkStr(e)
	}
	return resp.Encode(resp.ArrayOf(elems...)), nil
}

func normalizeRangeIndex(idx, n int) int {
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

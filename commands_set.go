package redkit

import "github.com/redkit/redkit/resp"

func getOrCreateSet(db *Database, key string) (*Value, *CmdError) {
	v, ok, err := db.GetChecked(key, KindSet)
	if err != nil {
		return nil, err
	}
	if !ok {
		v = newSetValue()
		db.Set(key, v)
	}
	return v, nil
}

func runSadd(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 3 {
		return "", errWrongNumberOfArgs("sadd")
	}
	v, err := getOrCreateSet(db, argv[1])
	if err != nil {
		return "", err
	}
	added := int64(0)
	for _, member := range argv[2:] {
		if _, exists := v.Set[member]; !exists {
			v.Set[member] = struct{}{}
			added++
		}
	}
	return resp.Encode(resp.Integer64(added)), nil
}

// runScard mirrors scard.rs exactly: a missing key is 0 members, a
// wrong-kind key is WRONGTYPE, never an error for an empty set.
func runScard(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("scard")
	}
	v, ok, err := db.GetChecked(argv[1], KindSet)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	return resp.Encode(resp.Integer64(int64(len(v.Set)))), nil
}

func runSrem(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 3 {
		return "", errWrongNumberOfArgs("srem")
	}
	v, ok, err := db.GetChecked(argv[1], KindSet)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	removed := int64(0)
	for _, member := range argv[2:] {
		if _, exists := v.Set[member]; exists {
			delete(v.Set, member)
			removed++
		}
	}
	return resp.Encode(resp.Integer64(removed)), nil
}

func runSmembers(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("smembers")
	}
	v, ok, err := db.GetChecked(argv[1], KindSet)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.ArrayOf()), nil
	}
	elems := make([]resp.Value, 0, len(v.Set))
	for member := range v.Set {
		elems = append(elems, resp.BulkStr(member))
	}
	return resp.Encode(resp.ArrayOf(elems...)), nil
}

func runSismember(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 3 {
		return "", errWrongNumberOfArgs("sismember")
	}
	v, ok, err := db.GetChecked(argv[1], KindSet)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	if _, exists := v.Set[argv[2]]; exists {
		return resp.Encode(resp.Integer64(1)), nil
	}
	return resp.Encode(resp.Integer64(0)), nil
}

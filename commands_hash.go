package redkit

import "github.com/redkit/redkit/resp"

func getOrCreateHash(db *Database, key string) (*Value, *CmdError) {
	v, ok, err := db.GetChecked(key, KindHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		v = newHashValue()
		db.Set(key, v)
	}
	return v, nil
}

func runHset(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 4 || len(argv)%2 != 0 {
		return "", errWrongNumberOfArgs("hset")
	}
	v, err := getOrCreateHash(db, argv[1])
	if err != nil {
		return "", err
	}
	added := int64(0)
	for i := 2; i+1 < len(argv); i += 2 {
		field, val := argv[i], argv[i+1]
		if _, exists := v.Hash[field]; !exists {
			added++
		}
		v.Hash[field] = val
	}
	return resp.Encode(resp.Integer64(added)), nil
}

func runHget(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 3 {
		return "", errWrongNumberOfArgs("hget")
	}
	v, ok, err := db.GetChecked(argv[1], KindHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.NullBulk()), nil
	}
	val, exists := v.Hash[argv[2]]
	if !exists {
		return resp.Encode(resp.NullBulk()), nil
	}
	return resp.Encode(resp.BulkStr(val)), nil
}

func runHdel(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) < 3 {
		return "", errWrongNumberOfArgs("hdel")
	}
	v, ok, err := db.GetChecked(argv[1], KindHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	removed := int64(0)
	for _, field := range argv[2:] {
		if _, exists := v.Hash[field]; exists {
			delete(v.Hash, field)
			removed++
		}
	}
	return resp.Encode(resp.Integer64(removed)), nil
}

func runHgetall(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("hgetall")
	}
	v, ok, err := db.GetChecked(argv[1], KindHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.ArrayOf()), nil
	}
	elems := make([]resp.Value, 0, len(v.Hash)*2)
	for field, val := range v.Hash {
		elems = append(elems, resp.BulkStr(field), resp.BulkStr(val))
	}
	return resp.Encode(resp.ArrayOf(elems...)), nil
}

func runHexists(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 3 {
		return "", errWrongNumberOfArgs("hexists")
	}
	v, ok, err := db.GetChecked(argv[1], KindHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	if _, exists := v.Hash[argv[2]]; exists {
		return resp.Encode(resp.Integer64(1)), nil
	}
	return resp.Encode(resp.Integer64(0)), nil
}

func runHlen(argv []string, db *Database, _ *ClientFields) (string, *CmdError) {
	if len(argv) != 2 {
		return "", errWrongNumberOfArgs("hlen")
	}
	v, ok, err := db.GetChecked(argv[1], KindHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return resp.Encode(resp.Integer64(0)), nil
	}
	return resp.Encode(resp.Integer64(int64(len(v.Hash)))), nil
}

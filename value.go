package redkit

// ValueKind tags which Redis data type a Value holds.
type ValueKind int

const (
	KindString ValueKind = iota
	KindList
	KindSet
	KindHash
)

// Value is the tagged union spec.md §3 describes: exactly one of the
// fields below is meaningful, selected by Kind. Cross-kind commands
// (e.g. SCARD against a string key) return WRONGTYPE without mutating
// the key; callers must check Kind before touching the payload field.
type Value struct {
	Kind ValueKind
	Str  string
	List []string
	Set  map[string]struct{}
	Hash map[string]string
}

func newStringValue(s string) *Value { return &Value{Kind: KindString, Str: s} }
func newListValue(l []string) *Value { return &Value{Kind: KindList, List: l} }
func newSetValue() *Value            { return &Value{Kind: KindSet, Set: make(map[string]struct{})} }
func newHashValue() *Value           { return &Value{Kind: KindHash, Hash: make(map[string]string)} }

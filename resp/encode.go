package resp

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Encode serializes a Value to its RESP wire form. Arrays borrow a
// pooled buffer for the recursive write-out rather than allocating a
// fresh bytes.Buffer per reply; scalar types are small enough that the
// pool would cost more than it saves.
func Encode(v Value) string {
	switch v.Type {
	case SimpleString:
		return "+" + v.Str + "\r\n"
	case Error:
		return "-" + v.Str + "\r\n"
	case Integer:
		return ":" + strconv.FormatInt(v.Int, 10) + "\r\n"
	case BulkString:
		if v.Bulk == nil {
			return "$-1\r\n"
		}
		return "$" + strconv.Itoa(len(v.Bulk)) + "\r\n" + string(v.Bulk) + "\r\n"
	case Array:
		if v.Elems == nil {
			return "*-1\r\n"
		}
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		writeArray(buf, v)
		return string(buf.B)
	default:
		return "-ERR internal: unsupported reply type\r\n"
	}
}

func writeArray(buf *bytebufferpool.ByteBuffer, v Value) {
	buf.WriteString("*")
	buf.WriteString(strconv.Itoa(len(v.Elems)))
	buf.WriteString("\r\n")
	for _, e := range v.Elems {
		switch e.Type {
		case Array:
			writeArray(buf, e)
		default:
			buf.WriteString(Encode(e))
		}
	}
}

package serialize

import (
	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a keyed structure that keeps the field order of its source
// document. It encodes to a JSON object.
type Object []Field

func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, f := range o {
		keys = append(keys, f.Key)
	}
	return keys
}

// Map drops ordering and returns the fields as a map.
func (o Object) Map() map[string]any {
	out := make(map[string]any, len(o))
	for _, f := range o {
		out[f.Key] = f.Value
	}
	return out
}

func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		key, err := sonic.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(key)
		_ = buf.WriteByte(':')

		value, err := sonic.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(value)
	}
	_ = buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

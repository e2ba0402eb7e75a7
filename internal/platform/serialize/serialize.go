// Package serialize turns stored documents into plain values that can cross a
// rendering boundary: dates become ISO 8601 strings, identifiers become hex
// strings, and containers are rebuilt with the same shape.
package serialize

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDKey is the top-level identifier field of a stored document.
const IDKey = "_id"

// TimeLayout is the textual form of every serialized date-time.
const TimeLayout = time.RFC3339Nano

// Identifier is implemented by document identifiers such as primitive.ObjectID.
// Only values of such types are converted; plain strings are never inspected.
type Identifier interface {
	Hex() string
}

var timeType = reflect.TypeOf(time.Time{})

// ForTransport returns a deep copy of value that is safe to hand to a client.
// It never fails; values it does not recognise are returned unchanged.
func ForTransport(value any) any {
	return withStringID(normalize(value))
}

func normalize(value any) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case string, bool, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case time.Time:
		return FormatTime(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return FormatTime(*v)
	case primitive.DateTime:
		return FormatTime(v.Time())
	case Identifier:
		if isNilPointer(value) {
			return nil
		}
		return v.Hex()
	case Object:
		if v == nil {
			return nil
		}
		return normalizeFields(v)
	case primitive.D:
		if v == nil {
			return nil
		}
		out := make(Object, 0, len(v))
		for _, e := range v {
			out = append(out, Field{Key: e.Key, Value: normalize(e.Value)})
		}
		return out
	case primitive.M:
		return normalizeMap(v)
	case map[string]any:
		return normalizeMap(v)
	case primitive.A:
		return normalizeSlice(v)
	case []any:
		return normalizeSlice(v)
	}

	return normalizeReflect(reflect.ValueOf(value))
}

func normalizeFields(fields Object) Object {
	out := make(Object, 0, len(fields))
	for _, f := range fields {
		out = append(out, Field{Key: f.Key, Value: normalize(f.Value)})
	}
	return out
}

func normalizeMap(m map[string]any) any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(items []any) any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = normalize(v)
	}
	return out
}

func normalizeReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		return reflectSlice(rv)
	case reflect.Array:
		return reflectSlice(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return FormatTime(rv.Convert(timeType).Interface().(time.Time))
		}
		return structDocument(rv)
	default:
		return rv.Interface()
	}
}

func reflectSlice(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = normalize(rv.Index(i).Interface())
	}
	return out
}

// structDocument walks a struct through its bson tags in declaration order.
// Field values go through normalize directly, so dates keep full precision.
func structDocument(rv reflect.Value) Object {
	out := make(Object, 0, rv.NumField())
	appendStructFields(&out, rv)
	return out
}

func appendStructFields(out *Object, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, ok := parseBSONTag(sf)
		if !ok {
			continue
		}

		fv := rv.Field(i)
		if tag.omitEmpty && fv.IsZero() {
			continue
		}
		if tag.inline && appendInline(out, fv) {
			continue
		}
		*out = append(*out, Field{Key: tag.name, Value: normalize(fv.Interface())})
	}
}

type bsonTag struct {
	name      string
	omitEmpty bool
	inline    bool
}

// parseBSONTag follows the driver's defaults: "-" skips the field and an
// empty name is the lowercased Go field name.
func parseBSONTag(sf reflect.StructField) (bsonTag, bool) {
	raw := sf.Tag.Get("bson")
	if raw == "-" {
		return bsonTag{}, false
	}

	name, opts, _ := strings.Cut(raw, ",")
	tag := bsonTag{name: name}
	if tag.name == "" {
		tag.name = strings.ToLower(sf.Name)
	}
	for _, opt := range strings.Split(opts, ",") {
		switch opt {
		case "omitempty":
			tag.omitEmpty = true
		case "inline":
			tag.inline = true
		}
	}
	return tag, true
}

// appendInline flattens an inline struct or string-keyed map into out. It
// reports false for kinds that cannot be inlined.
func appendInline(out *Object, fv reflect.Value) bool {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return true
		}
		fv = fv.Elem()
	}

	switch {
	case fv.Kind() == reflect.Struct:
		appendStructFields(out, fv)
		return true
	case fv.Kind() == reflect.Map && fv.Type().Key().Kind() == reflect.String:
		keys := fv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			*out = append(*out, Field{Key: k.String(), Value: normalize(fv.MapIndex(k).Interface())})
		}
		return true
	}
	return false
}

func withStringID(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := v[IDKey]; ok {
			v[IDKey] = idString(id)
		}
	case Object:
		for i := range v {
			if v[i].Key == IDKey {
				v[i].Value = idString(v[i].Value)
			}
		}
	}
	return value
}

func idString(id any) any {
	switch v := id.(type) {
	case nil:
		return nil
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

package financial

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// ToPortable converts v into JSON-portable primitives: bool, int64, float64,
// string, []any, map[string]any and nil. Non-finite floats become nil.
// Applying it to its own output returns an equal value.
func ToPortable(v any) any {
	if v == nil {
		return nil
	}

	switch x := v.(type) {
	case MonthSeries:
		m := make(map[string]any, len(x))
		for _, p := range x {
			m[p.Month] = portableFloat(p.Value)
		}
		return m
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return x.String()
	}

	return portableValue(reflect.ValueOf(v))
}

func portableValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return portableFloat(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = ToPortable(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(ToPortable(iter.Key().Interface()))] = ToPortable(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return ToPortable(rv.Elem().Interface())
	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := jsonName(f)
			if name == "-" {
				continue
			}
			out[name] = ToPortable(rv.Field(i).Interface())
		}
		return out
	case reflect.Invalid:
		return nil
	default:
		return fmt.Sprint(rv.Interface())
	}
}

func portableFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

// Package binding resolves ${path.to.value} placeholders in text
// payloads against a caller-supplied context object.
package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces each ${path} in text with the value found in
// data. Unresolvable paths keep the original placeholder, so a missing
// binding is visible on the label instead of silently vanishing.
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Lookup walks a dotted path with optional [i] indexes through maps,
// structs, slices and arrays. Pointers and interfaces are followed.
func Lookup(data any, path string) (any, bool) {
	current := reflect.ValueOf(data)
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			current, ok = field(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			current, ok = index(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	if !current.IsValid() {
		return nil, false
	}
	return current.Interface(), true
}

// splitSegment separates "items[0][1]" into "items" and {0, 1}.
func splitSegment(segment string) (string, []int, bool) {
	name := segment
	var indexes []int
	if i := strings.IndexByte(segment, '['); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for strings.HasPrefix(rest, "[") {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return "", nil, false
			}
			indexes = append(indexes, idx)
			rest = rest[end+1:]
		}
	}
	return name, indexes, true
}

func field(v reflect.Value, name string) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !val.IsValid() {
			return reflect.Value{}, false
		}
		return val, true
	case reflect.Struct:
		val := v.FieldByName(name)
		if !val.IsValid() || !val.CanInterface() {
			return reflect.Value{}, false
		}
		return val, true
	default:
		return reflect.Value{}, false
	}
}

func index(v reflect.Value, idx int) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(idx), true
	default:
		return reflect.Value{}, false
	}
}

// indirect unwraps pointers and interfaces down to a concrete value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExValues is a generic container for HTTP request parameters.
//
// Design notes:
//
//   - order keeps the first-seen order of keys.
//   - values stores one or more values per key.
//   - Set / Add accept any value; slices expand into multiple values.
//   - EncodeQuery preserves key order and value order.
//   - EncodeJSON / EncodeMap share the same semantic model.
type ExValues struct {
	order  []string
	values map[string][]string
}

// NewExValues creates a new ExValues instance.
func NewExValues() *ExValues {
	return &ExValues{
		order:  make([]string, 0),
		values: make(map[string][]string),
	}
}

// Set replaces the values for the given key.
// If the key appears for the first time, its position is recorded in order.
func (v *ExValues) Set(key string, value any) {
	if _, exists := v.values[key]; !exists {
		v.order = append(v.order, key)
	}
	v.values[key] = formatValues(value)
}

// Add appends a value for the given key.
// The key's order is preserved based on its first appearance.
func (v *ExValues) Add(key string, value any) {
	if _, exists := v.values[key]; !exists {
		v.order = append(v.order, key)
	}
	v.values[key] = append(v.values[key], formatValues(value)...)
}

// Merge sets every entry of params, visiting keys in sorted order.
// Existing keys are overwritten in place.
func (v *ExValues) Merge(params map[string]interface{}) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, params[k])
	}
}

// Del removes the given key.
func (v *ExValues) Del(key string) {
	if _, ok := v.values[key]; !ok {
		return
	}
	delete(v.values, key)
	for i, k := range v.order {
		if k == key {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (v *ExValues) Keys() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Len returns the number of keys.
func (v *ExValues) Len() int {
	return len(v.order)
}

// EncodeQuery encodes parameters as a URL query string.
// The output preserves the original insertion order of keys.
func (v *ExValues) EncodeQuery() string {
	if len(v.order) == 0 {
		return ""
	}

	var buf strings.Builder

	for _, key := range v.order {
		vs, ok := v.values[key]
		if !ok {
			continue
		}

		keyEscaped := url.QueryEscape(key)

		for _, value := range vs {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(keyEscaped)
			buf.WriteByte('=')
			buf.WriteString(url.QueryEscape(value))
		}
	}

	return buf.String()
}

// EncodeMap encodes parameters into a map representation.
//
//   - single value  -> string
//   - multiple values -> []string
//
// This representation is useful for JSON, logging, or custom encoders.
func (v *ExValues) EncodeMap() map[string]any {
	m := make(map[string]any, len(v.values))

	for _, key := range v.order {
		vs := v.values[key]
		if len(vs) == 1 {
			m[key] = vs[0]
		} else if len(vs) > 1 {
			m[key] = vs
		}
	}

	return m
}

// EncodeJSON encodes parameters into a JSON byte slice.
func (v *ExValues) EncodeJSON() ([]byte, error) {
	return json.Marshal(v.EncodeMap())
}

// JoinPath joins the encoded query string to the given path.
func (v *ExValues) JoinPath(path string) string {
	query := v.EncodeQuery()
	if query == "" {
		return path
	}

	if strings.Contains(path, "?") {
		return path + "&" + query
	}

	return path + "?" + query
}

// Has reports whether the given key exists.
func (v *ExValues) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

// Get returns the first value associated with the given key.
func (v *ExValues) Get(key string) string {
	if vs := v.values[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Reset clears all stored parameters.
func (v *ExValues) Reset() {
	v.order = v.order[:0]
	v.values = make(map[string][]string)
}

func formatValues(value any) []string {
	switch x := value.(type) {
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	case json.RawMessage:
		return []string{string(x)}
	case []byte:
		return []string{string(x)}
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, FormatValue(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{FormatValue(value)}
}

// FormatValue converts a scalar parameter value into its wire string.
func FormatValue(value any) string {
	switch x := value.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case decimal.Decimal:
		return x.String()
	case ExDecimal:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case json.RawMessage:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

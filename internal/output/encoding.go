// Package output provides deterministic JSON encoding for golden-file
// comparison. Every encode of the same value yields identical bytes:
// map keys are sorted, struct field order is fixed by declaration, and
// HTML escaping is disabled.
package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
)

// DeterministicEncode produces byte-identical JSON output
// - Stable key ordering (sorted alphabetically)
// - Null/undefined fields omitted entirely
func DeterministicEncode(v interface{}) ([]byte, error) {
	normalized := normalizeValue(v)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}

	// Remove the trailing newline added by Encode
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	return result, nil
}

// DeterministicEncodeIndented produces indented byte-identical JSON output
func DeterministicEncodeIndented(v interface{}, indent string) ([]byte, error) {
	compact, err := DeterministicEncode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// normalizeValue recursively normalizes a value for deterministic encoding
func normalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)

	// Dereference pointers
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return normalizeValue(val.Interface())
	default:
		return val.Interface()
	}
}

// normalizeMap converts a map to a DeterministicMap so keys serialize sorted
func normalizeMap(val reflect.Value) interface{} {
	if val.IsNil() {
		return nil
	}

	result := make(DeterministicMap)
	iter := val.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		value := normalizeValue(iter.Value().Interface())
		if value != nil {
			result[key] = value
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// normalizeSlice normalizes a slice or array. Empty slices stay empty
// rather than becoming null: candidate and reason lists are ordered
// sequences and an empty plan must still render a valid array.
func normalizeSlice(val reflect.Value) interface{} {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return []interface{}{}
	}

	length := val.Len()
	result := make([]interface{}, length)
	for i := 0; i < length; i++ {
		result[i] = normalizeValue(val.Index(i).Interface())
	}

	return result
}

// normalizeStruct converts a struct to a DeterministicMap honoring json tags
func normalizeStruct(val reflect.Value) interface{} {
	result := make(DeterministicMap)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		tagName, omitEmpty := parseJSONTag(jsonTag)
		if tagName == "" {
			tagName = field.Name
		}

		normalized := normalizeValue(fieldVal.Interface())

		if omitEmpty && isZeroValue(normalized) {
			continue
		}

		if normalized != nil {
			result[tagName] = normalized
		}
	}

	return result
}

// parseJSONTag parses a JSON struct tag into its name and omitempty flag
func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}

	first := true
	current := ""
	for _, ch := range tag {
		if ch == ',' {
			if first {
				name = current
				first = false
			} else if current == "omitempty" {
				omitEmpty = true
			}
			current = ""
			continue
		}
		current += string(ch)
	}
	if first {
		name = current
	} else if current == "omitempty" {
		omitEmpty = true
	}

	return name, omitEmpty
}

// isZeroValue checks if a value is zero/empty
func isZeroValue(v interface{}) bool {
	if v == nil {
		return true
	}

	switch val := v.(type) {
	case bool:
		return !val
	case int, int8, int16, int32, int64:
		return val == 0
	case uint, uint8, uint16, uint32, uint64:
		return val == 0
	case float32, float64:
		return val == 0
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	case DeterministicMap:
		return len(val) == 0
	default:
		return false
	}
}

// DeterministicMap is a map that serializes with sorted keys
type DeterministicMap map[string]interface{}

// MarshalJSON implements json.Marshaler
func (m DeterministicMap) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Build JSON manually to ensure key order
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for _, k := range keys {
		v := m[k]
		if v == nil {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}
		first = false

		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		valJSON, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(normalizeValue(v)); err != nil {
		return nil, err
	}
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

package simpleexcel

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// DynamicField is a struct field promoted from a map entry.
type DynamicField struct {
	FieldName string // Exported Go field name
	Key       string // Original map key
}

var interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()

// ConvertStructsToDynamic takes a slice of structs and the name of a
// map[string]T field. It returns a new slice of dynamic structs where the map
// entries are promoted to top-level fields, placed where the map field was,
// plus the promoted fields in key order.
func ConvertStructsToDynamic(data interface{}, mapFieldName string) (interface{}, []DynamicField, error) {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, nil, fmt.Errorf("data must be a slice, got %T", data)
	}

	elemType := val.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("slice element must be a struct, got %s", elemType.Kind())
	}
	mapStructField, ok := elemType.FieldByName(mapFieldName)
	if !ok {
		return nil, nil, fmt.Errorf("field %s not found in struct", mapFieldName)
	}
	if mapStructField.Type.Kind() != reflect.Map || mapStructField.Type.Key().Kind() != reflect.String {
		return nil, nil, fmt.Errorf("field %s is not a string-keyed map", mapFieldName)
	}
	if val.Len() == 0 {
		return data, nil, nil
	}

	// Collect every key used by any row, sorted for deterministic order.
	keySet := make(map[string]struct{})
	for i := 0; i < val.Len(); i++ {
		iter := val.Index(i).FieldByIndex(mapStructField.Index).MapRange()
		for iter.Next() {
			keySet[iter.Key().String()] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	taken := make(map[string]bool)
	for i := 0; i < elemType.NumField(); i++ {
		if f := elemType.Field(i); f.Name != mapFieldName {
			taken[f.Name] = true
		}
	}

	var structFields []reflect.StructField
	var dynamic []DynamicField
	for i := 0; i < elemType.NumField(); i++ {
		f := elemType.Field(i)
		if f.Name != mapFieldName {
			if f.PkgPath == "" {
				structFields = append(structFields, f)
			}
			continue
		}
		for _, key := range keys {
			name := uniqueFieldName(sanitizeAndCapitalize(key), taken)
			structFields = append(structFields, reflect.StructField{Name: name, Type: interfaceType})
			dynamic = append(dynamic, DynamicField{FieldName: name, Key: key})
		}
	}

	dynamicType := reflect.StructOf(structFields)
	out := reflect.MakeSlice(reflect.SliceOf(dynamicType), val.Len(), val.Len())

	for i := 0; i < val.Len(); i++ {
		src := val.Index(i)
		dst := out.Index(i)

		for j := 0; j < elemType.NumField(); j++ {
			f := elemType.Field(j)
			if f.Name == mapFieldName || f.PkgPath != "" {
				continue
			}
			dst.FieldByName(f.Name).Set(src.Field(j))
		}

		m := src.FieldByIndex(mapStructField.Index)
		if m.IsNil() {
			continue
		}
		for _, df := range dynamic {
			if v := m.MapIndex(reflect.ValueOf(df.Key).Convert(m.Type().Key())); v.IsValid() {
				dst.FieldByName(df.FieldName).Set(v)
			}
		}
	}

	return out.Interface(), dynamic, nil
}

// ExpandColumnConfigs replaces the leaf bound to mapFieldName with a group of
// the same header holding one leaf per promoted field, labelled by map key.
// The leaf keeps its width, lock and formatter for the new leaves.
func ExpandColumnConfigs(cols []ColumnConfig, mapFieldName string, fields []DynamicField) []ColumnConfig {
	out := make([]ColumnConfig, 0, len(cols))
	for _, col := range cols {
		if col.IsGroup() {
			col.Columns = ExpandColumnConfigs(col.Columns, mapFieldName, fields)
			out = append(out, col)
			continue
		}
		if col.FieldName != mapFieldName {
			out = append(out, col)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		group := ColumnConfig{Header: col.headerText(), Locked: col.Locked}
		for _, f := range fields {
			leaf := col
			leaf.FieldName = f.FieldName
			leaf.Header = f.Key
			leaf.Locked = nil
			group.Columns = append(group.Columns, leaf)
		}
		out = append(out, group)
	}
	return out
}

func uniqueFieldName(name string, taken map[string]bool) string {
	candidate := name
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	taken[candidate] = true
	return candidate
}

func sanitizeAndCapitalize(s string) string {
	if s == "" {
		return "Empty"
	}

	// Replace invalid chars with _
	var sb strings.Builder
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) {
			sb.WriteRune('F') // Field names must start with a letter
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	r := []rune(sb.String())
	r[0] = unicode.ToUpper(r[0])
	if !unicode.IsUpper(r[0]) {
		// Letters without case cannot start an exported name.
		return "F" + string(r)
	}
	return string(r)
}

package simpleexcel

import (
	"reflect"
	"sort"
)

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func (e *ExcelDataExporter) extractValue(item reflect.Value, fieldName string) interface{} {
	item = indirect(item)
	if item.Kind() == reflect.Struct {
		t := item.Type()
		key := fieldCacheKey{Type: t, FieldName: fieldName}
		index, ok := e.fieldCache[key]
		if !ok {
			if f, found := t.FieldByName(fieldName); found && f.IsExported() {
				index = f.Index
			}
			e.fieldCache[key] = index
		}
		return fieldValue(item, index)
	}
	return extractValue(item, fieldName)
}

// fieldValue returns the field at index, or "" when it cannot be read: a
// promoted field behind a nil embedded pointer or an unexported embedding.
func fieldValue(item reflect.Value, index []int) interface{} {
	if index == nil {
		return ""
	}
	f, err := item.FieldByIndexErr(index)
	if err != nil || !f.CanInterface() {
		return ""
	}
	return f.Interface()
}

// extractValue reads a field of a struct or a key of a string-keyed map.
func extractValue(item reflect.Value, fieldName string) interface{} {
	item = indirect(item)
	switch item.Kind() {
	case reflect.Struct:
		if f, ok := item.Type().FieldByName(fieldName); ok && f.IsExported() {
			return fieldValue(item, f.Index)
		}
	case reflect.Map:
		if item.Type().Key().Kind() != reflect.String {
			return ""
		}
		val := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key()))
		if val.IsValid() {
			return val.Interface()
		}
	}
	return ""
}

// mergeColumns merges user-defined columns with detected fields from data.
// It keeps user-defined columns (and their groups) first, then appends
// detected fields that no leaf covers yet.
func mergeColumns(data interface{}, userConfigs []ColumnConfig) []ColumnConfig {
	if data == nil {
		return userConfigs
	}

	seen := make(map[string]bool)
	for _, col := range LeafColumns(userConfigs) {
		seen[col.FieldName] = true
	}

	finalCols := append([]ColumnConfig{}, userConfigs...)
	for _, field := range getFields(data) {
		if !seen[field] {
			finalCols = append(finalCols, ColumnConfig{
				FieldName: field,
				Header:    field, // Default header is field name
				Width:     DefaultColumnWidth,
			})
			seen[field] = true
		}
	}

	return finalCols
}

func getFields(data interface{}) []string {
	v := indirect(reflect.ValueOf(data))

	if v.Kind() != reflect.Slice {
		if v.Kind() == reflect.Struct {
			return getStructFields(v.Type())
		}
		return nil
	}

	if v.Len() == 0 {
		return nil
	}

	elem := indirect(v.Index(0))
	switch elem.Kind() {
	case reflect.Struct:
		return getStructFields(elem.Type())
	case reflect.Map:
		// Map rows may vary, so scan a bounded prefix and keep keys sorted.
		keysMap := make(map[string]bool)
		var keys []string

		limit := v.Len()
		if limit > 50 {
			limit = 50
		}

		for i := 0; i < limit; i++ {
			row := indirect(v.Index(i))
			if row.Kind() != reflect.Map || row.Type().Key().Kind() != reflect.String {
				continue
			}
			for _, key := range row.MapKeys() {
				k := key.String()
				if !keysMap[k] {
					keysMap[k] = true
					keys = append(keys, k)
				}
			}
		}
		sort.Strings(keys)
		return keys
	}

	return nil
}

func getStructFields(t reflect.Type) []string {
	var fields []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		// Skip unexported
		if field.PkgPath != "" {
			continue
		}
		fields = append(fields, field.Name)
	}
	return fields
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package reflect maps Go structs to and from database rows using the
// `db` struct tag, with per-type caching of the field layout.
package reflect

import (
	"database/sql"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/YahyaDar/querybuilder/errors"
)

// TagKey is the struct tag read for column mappings.
//
//	type User struct {
//		ID        int64     `db:"id;readonly"`
//		Name      string    `db:"name"`
//		Nickname  string    `db:"nick;omitempty"`
//		CreatedAt time.Time // created_at
//		Secret    string    `db:"-"`
//	}
const TagKey = "db"

// fieldCache stores the ordered field layout per struct type
var (
	fieldCache     = make(map[reflect.Type][]*FieldInfo)
	fieldCacheLock sync.RWMutex
)

// FieldInfo describes one mapped struct field
type FieldInfo struct {
	// Name is the field name in the struct
	Name string

	// Column is the column name in the database
	Column string

	// Type is the Go type of the field
	Type reflect.Type

	// Index is the index path of the field, through embedded structs
	Index []int

	// TagSettings contains parsed tag settings
	TagSettings map[string]string

	// IsReadOnly fields are scanned but never written
	IsReadOnly bool

	// OmitEmpty fields are skipped on write when they hold the zero value
	OmitEmpty bool
}

// Fields returns the mapped fields of a struct type in declaration order.
// Fields of embedded structs are promoted unless shadowed.
func Fields(t reflect.Type) ([]*FieldInfo, error) {
	t = IndirectType(t)
	if t.Kind() != reflect.Struct {
		return nil, errors.NewModelError("model must be a struct", nil).
			WithModel(t.String())
	}

	fieldCacheLock.RLock()
	cached, ok := fieldCache[t]
	fieldCacheLock.RUnlock()
	if ok {
		return cached, nil
	}

	fields := extractFields(t, nil, make(map[string]bool))

	fieldCacheLock.Lock()
	fieldCache[t] = fields
	fieldCacheLock.Unlock()

	return fields, nil
}

func extractFields(t reflect.Type, index []int, seen map[string]bool) []*FieldInfo {
	var out []*FieldInfo
	var embedded []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagKey)

		if sf.Anonymous && !hasTag {
			if ft := IndirectType(sf.Type); ft.Kind() == reflect.Struct && !isScanner(ft) {
				embedded = append(embedded, sf)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		fi := &FieldInfo{
			Name:        sf.Name,
			Column:      ToSnakeCase(sf.Name),
			Type:        sf.Type,
			Index:       append(append([]int{}, index...), i),
			TagSettings: make(map[string]string),
		}

		if hasTag {
			if tag == "-" {
				continue
			}
			fi.TagSettings = ParseTagSettings(tag)
			if name := columnFromTag(tag, fi.TagSettings); name != "" {
				fi.Column = name
			}
			fi.IsReadOnly = HasTagOption(tag, "readonly") || HasTagOption(tag, "readOnly")
			fi.OmitEmpty = HasTagOption(tag, "omitempty")
		}

		if seen[fi.Column] {
			continue
		}
		seen[fi.Column] = true
		out = append(out, fi)
	}

	for _, sf := range embedded {
		idx := append(append([]int{}, index...), sf.Index...)
		out = append(out, extractFields(IndirectType(sf.Type), idx, seen)...)
	}

	return out
}

// isScanner reports whether *t implements sql.Scanner, as sql.NullString
// does; such embedded structs map to one column.
func isScanner(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(scannerType)
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// columnFromTag returns "name" for `db:"name;..."` or `db:"column:name"`.
func columnFromTag(tag string, settings map[string]string) string {
	if c, ok := settings["column"]; ok && c != "" {
		return c
	}
	first := strings.TrimSpace(strings.SplitN(tag, ";", 2)[0])
	if first == "" || strings.Contains(first, ":") || knownOptions[first] {
		return ""
	}
	return first
}

var knownOptions = map[string]bool{"readonly": true, "readOnly": true, "omitempty": true}

// ParseTagSettings parses tag string into a map of settings
func ParseTagSettings(tag string) map[string]string {
	settings := make(map[string]string)
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.SplitN(part, ":", 2)
		key := strings.TrimSpace(keyValue[0])
		if key == "" {
			continue
		}

		var value string
		if len(keyValue) > 1 {
			value = strings.TrimSpace(keyValue[1])
		}
		settings[key] = value
	}
	return settings
}

// HasTagOption checks if a tag contains a specific option flag
func HasTagOption(tag, option string) bool {
	for _, part := range strings.Split(tag, ";") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}

// IndirectType dereferences pointer types to get the underlying type
func IndirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IndirectValue dereferences pointer values to get the underlying value
func IndirectValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// ToRow extracts the writable columns of a struct into a map.
func ToRow(model interface{}) (map[string]interface{}, error) {
	if model == nil {
		return nil, errors.NewModelError("nil model", nil)
	}
	v := IndirectValue(reflect.ValueOf(model))
	if v.Kind() != reflect.Struct {
		return nil, errors.NewModelError("model must be a struct", nil).
			WithModel(fmt.Sprintf("%T", model))
	}

	fields, err := Fields(v.Type())
	if err != nil {
		return nil, err
	}

	row := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if f.IsReadOnly {
			continue
		}
		fv, ok := fieldByIndex(v, f.Index, false)
		if !ok {
			continue
		}
		if f.OmitEmpty && fv.IsZero() {
			continue
		}
		row[f.Column] = fv.Interface()
	}

	if len(row) == 0 {
		return nil, errors.NewModelError("model has no writable columns", nil).
			WithModel(v.Type().Name())
	}
	return row, nil
}

// ScanTargets returns one pointer per column for sql.Rows.Scan. Columns
// without a matching field are scanned into a discard value.
func ScanTargets(dest reflect.Value, columns []string) ([]interface{}, error) {
	dest = IndirectValue(dest)
	if dest.Kind() != reflect.Struct || !dest.CanAddr() {
		return nil, errors.NewModelError("scan destination must be an addressable struct", nil).
			WithModel(dest.Type().String())
	}

	fields, err := Fields(dest.Type())
	if err != nil {
		return nil, err
	}
	byColumn := make(map[string]*FieldInfo, len(fields))
	for _, f := range fields {
		byColumn[f.Column] = f
	}

	targets := make([]interface{}, len(columns))
	for i, col := range columns {
		f, ok := byColumn[col]
		if !ok {
			targets[i] = new(interface{})
			continue
		}
		fv, _ := fieldByIndex(dest, f.Index, true)
		targets[i] = fv.Addr().Interface()
	}
	return targets, nil
}

// SetFieldValues assigns row values to the matching fields of model,
// which must be a pointer to a struct. Unknown columns are ignored.
func SetFieldValues(model interface{}, values map[string]interface{}) error {
	v := reflect.ValueOf(model)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.NewModelError("model must be a non-nil pointer", nil).
			WithModel(fmt.Sprintf("%T", model))
	}
	v = IndirectValue(v)
	if v.Kind() != reflect.Struct {
		return errors.NewModelError("model must point to a struct", nil).
			WithModel(fmt.Sprintf("%T", model))
	}

	fields, err := Fields(v.Type())
	if err != nil {
		return err
	}

	for _, f := range fields {
		value, ok := values[f.Column]
		if !ok {
			continue
		}
		fv, _ := fieldByIndex(v, f.Index, true)
		if err := assign(fv, value); err != nil {
			return errors.NewModelError("cannot set field value", err).
				WithModel(v.Type().Name()).
				WithField(f.Name).
				WithValue(value)
		}
	}
	return nil
}

// assign stores value into field, converting when the types differ.
func assign(field reflect.Value, value interface{}) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.CanAddr() {
		if scanner, ok := field.Addr().Interface().(sql.Scanner); ok {
			return scanner.Scan(value)
		}
	}

	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	src := reflect.ValueOf(value)
	if b, ok := value.([]byte); ok && field.Kind() == reflect.String {
		field.SetString(string(b))
		return nil
	}
	if src.Type().AssignableTo(field.Type()) {
		field.Set(src)
		return nil
	}
	if src.Type().ConvertibleTo(field.Type()) && (field.Kind() != reflect.String || src.Kind() == reflect.String) {
		field.Set(src.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("incompatible types %s and %s", src.Type(), field.Type())
}

// fieldByIndex walks index, allocating nil embedded pointers when alloc is set.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// ClearCache clears the reflection cache
func ClearCache() {
	fieldCacheLock.Lock()
	defer fieldCacheLock.Unlock()

	fieldCache = make(map[reflect.Type][]*FieldInfo)
}

var (
	matchFirstCapRe = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCapRe   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// ToSnakeCase converts a CamelCase field name to snake_case.
func ToSnakeCase(str string) string {
	snake := matchFirstCapRe.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCapRe.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// IsStructOrStructPtr checks if a value is a struct or pointer to struct
func IsStructOrStructPtr(value interface{}) bool {
	t := reflect.TypeOf(value)
	if t == nil {
		return false
	}
	return IndirectType(t).Kind() == reflect.Struct
}

// ToSlice flattens a slice or array into []interface{}. Any other value
// becomes a one-element slice; nil becomes an empty slice.
func ToSlice(values interface{}) []interface{} {
	if values == nil {
		return nil
	}
	if s, ok := values.([]interface{}); ok {
		return s
	}
	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return []interface{}{values}
	}
	if _, isBytes := values.([]byte); isBytes {
		return []interface{}{values}
	}
	out := make([]interface{}, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// IsList reports whether value is a slice, array or map other than []byte.
func IsList(value interface{}) bool {
	if _, ok := value.([]byte); ok || value == nil {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

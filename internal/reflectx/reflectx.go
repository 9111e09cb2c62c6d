// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// reflectx.go — struct introspection for the codec: field harvesting with
// embedded flattening and json tag handling, generic field dump, map→struct
// population with coercing assignment, and subtype queries over interfaces
// and embedded bases.

// Package reflectx provides the reflection helpers shared by the encoder
// and decoder.
package reflectx

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldDef describes one exported struct field reachable for encoding,
// including fields promoted from embedded structs.
type FieldDef struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Fields derives the encodable field set of a struct type. Embedded
// non-pointer structs are flattened, unexported fields are skipped, and
// json tags rename or (with "-") exclude fields.
func Fields(t reflect.Type) []FieldDef {
	var defs []FieldDef
	flattenFields(t, nil, &defs)
	return defs
}

func flattenFields(t reflect.Type, prefix []int, defs *[]FieldDef) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Tag.Get("json") == "" {
			flattenFields(f.Type, index, defs)
			continue
		}
		if f.PkgPath != "" { // unexported
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		*defs = append(*defs, FieldDef{Name: name, Index: index, Type: f.Type})
	}
}

// Dump returns the plain field mapping of a struct value: field name to
// raw field value. Values are not transformed; the caller encodes them.
func Dump(v reflect.Value) map[string]any {
	out := make(map[string]any)
	for _, def := range Fields(v.Type()) {
		out[def.Name] = v.FieldByIndex(def.Index).Interface()
	}
	return out
}

// Populate fills the fields of dst (an addressable struct value) from the
// content mapping. Keys with no matching field are ignored; fields absent
// from the mapping keep their zero value.
func Populate(dst reflect.Value, content map[string]any) error {
	byName := make(map[string]FieldDef)
	for _, def := range Fields(dst.Type()) {
		byName[def.Name] = def
	}
	for key, val := range content {
		def, ok := byName[key]
		if !ok {
			continue
		}
		if err := Assign(dst.FieldByIndex(def.Index), val); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

// Assign sets fv to val, coercing where JSON decoding lost type fidelity:
// float64 into integer fields, maps into struct fields, []any into typed
// slices, and concrete values into interface fields (taking a pointer when
// only the pointer type satisfies the interface).
func Assign(fv reflect.Value, val any) error {
	if val == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}

	switch fv.Kind() {
	case reflect.Interface:
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if ptr.Type().AssignableTo(fv.Type()) {
			fv.Set(ptr)
			return nil
		}
		return fmt.Errorf("%s does not satisfy %s", rv.Type(), fv.Type())
	case reflect.Ptr:
		elem := reflect.New(fv.Type().Elem())
		if err := Assign(elem.Elem(), val); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	case reflect.Struct:
		m, ok := val.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot build %s from %T", fv.Type(), val)
		}
		return Populate(fv, m)
	case reflect.Slice:
		items, ok := val.([]any)
		if !ok {
			return fmt.Errorf("cannot build %s from %T", fv.Type(), val)
		}
		slice := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, item := range items {
			if err := Assign(slice.Index(i), item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		fv.Set(slice)
		return nil
	case reflect.Map:
		m, ok := val.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot build %s from %T", fv.Type(), val)
		}
		if fv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("cannot build %s: non-string key type", fv.Type())
		}
		out := reflect.MakeMapWithSize(fv.Type(), len(m))
		for k, item := range m {
			ev := reflect.New(fv.Type().Elem()).Elem()
			if err := Assign(ev, item); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(fv.Type().Key()), ev)
		}
		fv.Set(out)
		return nil
	}

	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", val, fv.Type())
}

// Indirect strips pointer layers from a type.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IsSubtype reports whether t counts as a subtype of base. A type is a
// subtype of itself, of any interface it (or its pointer) implements, and
// of any struct it embeds, at any depth.
func IsSubtype(t, base reflect.Type) bool {
	if t == nil || base == nil {
		return false
	}
	t = Indirect(t)
	base = Indirect(base)
	if t == base {
		return true
	}
	switch base.Kind() {
	case reflect.Interface:
		return t.Implements(base) || reflect.PtrTo(t).Implements(base)
	case reflect.Struct:
		if t.Kind() != reflect.Struct {
			return false
		}
		_, ok := EmbedDepth(t, base)
		return ok
	}
	return false
}

// EmbedDepth returns how many embedding hops separate t from base
// (0 when t == base), and whether base is reachable at all.
func EmbedDepth(t, base reflect.Type) (int, bool) {
	if t == base {
		return 0, true
	}
	if t.Kind() != reflect.Struct {
		return 0, false
	}
	best := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := Indirect(f.Type)
		if d, ok := EmbedDepth(ft, base); ok {
			if best == -1 || d+1 < best {
				best = d + 1
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// Specificity scores how closely base matches t for most-specific-match
// resolution; lower is more specific. Embedded-struct bases rank by
// embedding distance and always beat interface bases, which rank by
// method count (a larger method set is a tighter contract).
func Specificity(t, base reflect.Type) int {
	t = Indirect(t)
	base = Indirect(base)
	if t == base {
		return 0
	}
	if base.Kind() == reflect.Struct {
		if d, ok := EmbedDepth(t, base); ok {
			return d
		}
		return 1 << 20
	}
	return 1000 - base.NumMethod()
}

// HasValidationRules reports whether a struct type declares any
// validator constraints through "validate" tags, directly or on
// embedded structs.
func HasValidationRules(t reflect.Type) bool {
	t = Indirect(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag := f.Tag.Get("validate"); tag != "" && tag != "-" {
			return true
		}
		if f.Anonymous && Indirect(f.Type).Kind() == reflect.Struct {
			if HasValidationRules(f.Type) {
				return true
			}
		}
	}
	return false
}

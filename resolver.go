// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// resolver.go — decode-time type resolution: the process-wide namespace
// index of reachable types, the Importer seam for loading namespaces that
// are not reachable yet, and the reserved wire tag keys.

package kajson

import (
	"fmt"
	"reflect"
	"sync"
)

// Reserved tag keys carried by every tagged node. They are part of the
// on-wire contract and match the original kajson wire format, so documents
// produced by either implementation interoperate.
const (
	TagClass  = "__class__"
	TagModule = "__module__"
)

// Enum content keys (see Enum).
const (
	enumNameKey  = "_name_"
	enumValueKey = "_value_"
)

// Importer loads a namespace (a package import path) that type resolution
// could not find among reachable types or in the class registry, and
// returns the harvested name→type table. An Importer failure is surfaced
// as ErrDecodeImport, never swallowed.
type Importer interface {
	Import(namespace string) (map[string]reflect.Type, error)
}

// TypeIndex is the table of types reachable in the running process,
// keyed by package import path and type name. The encoder records every
// type it tags; codec registrations record their types too, so anything
// this process has encoded or registered resolves without the registry.
type TypeIndex struct {
	mu   sync.RWMutex
	pkgs map[string]map[string]reflect.Type
}

// NewTypeIndex returns an empty index.
func NewTypeIndex() *TypeIndex {
	return &TypeIndex{pkgs: make(map[string]map[string]reflect.Type)}
}

// Add records a named type under its own package path and name.
// Unnamed types are ignored.
func (ix *TypeIndex) Add(t reflect.Type) {
	if t == nil {
		return
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return
	}
	ix.AddNamed(t.PkgPath(), t.Name(), t)
}

// AddNamed records a type under an explicit namespace and name.
func (ix *TypeIndex) AddNamed(namespace, name string, t reflect.Type) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	pkg, ok := ix.pkgs[namespace]
	if !ok {
		pkg = make(map[string]reflect.Type)
		ix.pkgs[namespace] = pkg
	}
	pkg[name] = t
}

// AddAll records a whole harvested namespace table.
func (ix *TypeIndex) AddAll(namespace string, types map[string]reflect.Type) {
	for name, t := range types {
		ix.AddNamed(namespace, name, t)
	}
}

// Lookup resolves namespace+name to a type, if known.
func (ix *TypeIndex) Lookup(namespace, name string) (reflect.Type, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	pkg, ok := ix.pkgs[namespace]
	if !ok {
		return nil, false
	}
	t, ok := pkg[name]
	return t, ok
}

// defaultTypeIndex is the process-wide index shared by the default
// encoder and decoder, so that anything encoded in-process decodes
// without further registration.
var defaultTypeIndex = NewTypeIndex()

// typeOf normalizes a registration prototype to its base type: accepts a
// reflect.Type directly, otherwise takes the dynamic type of the value
// with pointer layers stripped.
func typeOf(prototype any) reflect.Type {
	if t, ok := prototype.(reflect.Type); ok {
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		return t
	}
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// resolveType maps a tagged node's name/namespace pair to a constructible
// type: reachable types first, class registry second, namespace import
// last. Registry lookup is a fallback, never an override.
func (d *Decoder) resolveType(name, namespace string) (reflect.Type, error) {
	if t, ok := d.types.Lookup(namespace, name); ok {
		return t, nil
	}
	if reg := d.classRegistry(); reg != nil {
		if t := reg.Get(name); t != nil {
			d.logger.Debug("found class in registry", "class", name)
			return t, nil
		}
	}
	d.logger.Debug("namespace not found among reachable types or registry, importing",
		"namespace", namespace)
	harvested, err := d.importer.Import(namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: importing %q: %v", ErrDecodeImport, namespace, err)
	}
	d.types.AddAll(namespace, harvested)
	if t, ok := harvested[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: namespace %q has no type %q", ErrDecodeImport, namespace, name)
}

// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// discover.go — dynamic-loading utilities layered on the class registry:
// harvest type definitions from compiled Go plugins and register them,
// and the decoder's default Importer, which maps a namespace to a plugin
// file. Utility glue over the core lookup table, not core codec logic.

package kajson

import (
	"fmt"
	"path/filepath"
	"plugin"
	"reflect"

	"github.com/Pipelex/kajson/internal/reflectx"
)

// PluginTypesSymbol is the exported symbol a plugin provides to be
// harvestable: a func() []any returning exemplar values (one per type).
const PluginTypesSymbol = "KajsonTypes"

// DiscoverOptions filters plugin type harvesting.
type DiscoverOptions struct {
	// Base restricts harvesting to subtypes of this base (an interface
	// or embedded struct). Nil harvests everything.
	Base any
	// LocalOnly excludes types not declared in the loaded unit's own
	// package (judged against the first exemplar's package path).
	LocalOnly bool
}

// RegisterPluginTypes opens a compiled plugin, harvests the types its
// KajsonTypes symbol exposes, and registers each in reg under its own
// short name. Returns the number of types registered.
func RegisterPluginTypes(reg Registry, path string, opts DiscoverOptions) (int, error) {
	types, err := harvestPlugin(path, opts)
	if err != nil {
		return 0, err
	}
	for _, t := range types {
		reg.Register(t, "", false)
	}
	return len(types), nil
}

// RegisterPluginDir harvests every *.so file in dir. Returns the total
// number of types registered.
func RegisterPluginDir(reg Registry, dir string, opts DiscoverOptions) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.so"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range paths {
		n, err := RegisterPluginTypes(reg, path, opts)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func harvestPlugin(path string, opts DiscoverOptions) ([]reflect.Type, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kajson: opening plugin %s: %w", path, err)
	}
	sym, err := p.Lookup(PluginTypesSymbol)
	if err != nil {
		return nil, fmt.Errorf("kajson: plugin %s: %w", path, err)
	}
	exemplars, ok := sym.(func() []any)
	if !ok {
		return nil, fmt.Errorf("kajson: plugin %s: %s is %T, want func() []any", path, PluginTypesSymbol, sym)
	}

	var baseType reflect.Type
	if opts.Base != nil {
		baseType = typeOf(opts.Base)
	}
	var localPkg string
	var types []reflect.Type
	for _, exemplar := range exemplars() {
		t := typeOf(exemplar)
		if t == nil || t.Name() == "" {
			continue
		}
		if localPkg == "" {
			localPkg = t.PkgPath()
		}
		if opts.LocalOnly && t.PkgPath() != localPkg {
			continue
		}
		if baseType != nil && !reflectx.IsSubtype(t, baseType) {
			continue
		}
		types = append(types, t)
	}
	return types, nil
}

// PluginImporter is the default decoder Importer: it maps a namespace to
// a compiled plugin file (<Dir>/<last path element>.so) and harvests its
// exposed types. A namespace with no plugin fails to import, which the
// decoder surfaces as ErrDecodeImport.
type PluginImporter struct {
	// Dir is where plugin files live; working directory when empty.
	Dir string
}

// Import loads the plugin backing the namespace and returns its types
// keyed by short name.
func (pi PluginImporter) Import(namespace string) (map[string]reflect.Type, error) {
	path := filepath.Join(pi.Dir, filepath.Base(namespace)+".so")
	types, err := harvestPlugin(path, DiscoverOptions{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]reflect.Type, len(types))
	for _, t := range types {
		out[t.Name()] = t
	}
	return out, nil
}

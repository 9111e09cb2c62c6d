// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// decoder.go — the universal decoder: a single JSON parse followed by a
// bottom-up transform of every object node, so nested tagged nodes
// resolve before their containers. Tagged nodes go through an ordered
// reconstruction pipeline: registered function, decode hook, enum member
// lookup, record populate+validate, named-map build, and a last-resort
// degradation returning the raw content mapping.

package kajson

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/Pipelex/kajson/internal/jsonx"
	"github.com/Pipelex/kajson/internal/reflectx"
)

// DecoderFunc reconstructs a value from a tagged node's field content.
type DecoderFunc func(content map[string]any) (any, error)

// DecoderConfig carries the decoder's injectable state. The zero value
// is usable: noop logger, standard JSON engine, shared type index, the
// manager's class registry, the plugin importer.
type DecoderConfig struct {
	Logger   Logger
	Engine   jsonx.Engine
	Types    *TypeIndex
	Registry Registry
	Importer Importer

	// Fallback downgrades a failing reconstruction strategy to a logged
	// warning and tries the next one. Off by default for the same reason
	// as EncoderConfig.Fallback.
	Fallback bool
}

func (c *DecoderConfig) defaults() {
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.Engine == nil {
		c.Engine = jsonx.Default
	}
	if c.Types == nil {
		c.Types = defaultTypeIndex
	}
	if c.Importer == nil {
		c.Importer = PluginImporter{}
	}
}

type decoderEntry struct {
	typ reflect.Type
	fn  DecoderFunc
}

// Decoder converts tagged JSON text and trees back into typed values.
type Decoder struct {
	mu        sync.RWMutex
	exact     map[reflect.Type]DecoderFunc
	inclusive []decoderEntry

	logger   Logger
	engine   jsonx.Engine
	types    *TypeIndex
	registry Registry
	importer Importer
	fallback bool
}

// NewDecoder builds a Decoder with the builtin codecs registered.
func NewDecoder(cfg DecoderConfig) *Decoder {
	cfg.defaults()
	d := &Decoder{
		exact:    make(map[reflect.Type]DecoderFunc),
		logger:   cfg.Logger,
		engine:   cfg.Engine,
		types:    cfg.Types,
		registry: cfg.Registry,
		importer: cfg.Importer,
		fallback: cfg.Fallback,
	}
	registerBuiltinDecoders(d)
	return d
}

// classRegistry returns the injected registry, falling back to the
// manager's (constructing the default manager on first use).
func (d *Decoder) classRegistry() Registry {
	if d.registry != nil {
		return d.registry
	}
	return GetClassRegistry()
}

// Register stores fn as the decoder for the prototype's exact type.
// Re-registration overwrites silently unless KeepExisting is given.
func (d *Decoder) Register(prototype any, fn DecoderFunc, opts ...RegisterOption) {
	t := typeOf(prototype)
	o := applyRegisterOptions(opts)
	d.mu.Lock()
	defer d.mu.Unlock()
	if o.includeSubtypes {
		for i := range d.inclusive {
			if d.inclusive[i].typ == t {
				if o.keepExisting {
					d.logger.Debug("decoder already registered, keeping existing", "type", t.String())
					return
				}
				d.inclusive[i].fn = fn
				d.types.Add(t)
				return
			}
		}
		d.inclusive = append(d.inclusive, decoderEntry{typ: t, fn: fn})
	} else {
		if _, exists := d.exact[t]; exists && o.keepExisting {
			d.logger.Debug("decoder already registered, keeping existing", "type", t.String())
			return
		}
		d.exact[t] = fn
	}
	d.types.Add(t)
}

// Unregister removes any registration for the prototype's exact type,
// both plain and subtype-inclusive.
func (d *Decoder) Unregister(prototype any) {
	t := typeOf(prototype)
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.exact, t)
	for i := range d.inclusive {
		if d.inclusive[i].typ == t {
			d.inclusive = append(d.inclusive[:i], d.inclusive[i+1:]...)
			break
		}
	}
}

func (d *Decoder) lookupFunc(t reflect.Type) (DecoderFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if fn, ok := d.exact[t]; ok {
		return fn, true
	}
	var best DecoderFunc
	bestScore := -1
	for _, ent := range d.inclusive {
		if !reflectx.IsSubtype(t, ent.typ) {
			continue
		}
		score := reflectx.Specificity(t, ent.typ)
		if bestScore == -1 || score < bestScore {
			best, bestScore = ent.fn, score
		}
	}
	return best, best != nil
}

// Unmarshal parses JSON text and resolves every tagged node into a typed
// value.
func (d *Decoder) Unmarshal(data []byte) (any, error) {
	var raw any
	if err := d.engine.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return d.Resolve(raw)
}

// UnmarshalString is Unmarshal for string input.
func (d *Decoder) UnmarshalString(s string) (any, error) {
	return d.Unmarshal([]byte(s))
}

// Decode reads all of r and unmarshals it.
func (d *Decoder) Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return d.Unmarshal(data)
}

// Resolve applies the bottom-up transform to an already-parsed JSON
// tree. Object nodes without tag keys pass through as generic mappings.
func (d *Decoder) Resolve(v any) (any, error) {
	switch node := v.(type) {
	case []any:
		for i, item := range node {
			resolved, err := d.Resolve(item)
			if err != nil {
				return nil, err
			}
			node[i] = resolved
		}
		return node, nil
	case map[string]any:
		resolved := make(map[string]any, len(node))
		for k, child := range node {
			rc, err := d.Resolve(child)
			if err != nil {
				return nil, err
			}
			resolved[k] = rc
		}
		if _, tagged := resolved[TagClass]; !tagged {
			if _, half := resolved[TagModule]; half {
				return nil, fmt.Errorf("%w: %s without %s", ErrMalformedNode, TagModule, TagClass)
			}
			return resolved, nil
		}
		return d.resolveNode(resolved)
	default:
		return v, nil
	}
}

func (d *Decoder) resolveNode(node map[string]any) (any, error) {
	name, ok := node[TagClass].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a string", ErrMalformedNode, TagClass)
	}
	moduleRaw, present := node[TagModule]
	if !present {
		return nil, fmt.Errorf("%w: %s without %s", ErrMalformedNode, TagClass, TagModule)
	}
	namespace, ok := moduleRaw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a string", ErrMalformedNode, TagModule)
	}

	content := make(map[string]any, len(node)-2)
	for k, v := range node {
		if k == TagClass || k == TagModule {
			continue
		}
		content[k] = v
	}

	t, err := d.resolveType(name, namespace)
	if err != nil {
		return nil, err
	}
	return d.reconstruct(t, content)
}

func (d *Decoder) reconstruct(t reflect.Type, content map[string]any) (any, error) {
	// a. Registered decoder function, exact type first, then the most
	//    specific subtype-inclusive ancestor.
	if fn, ok := d.lookupFunc(t); ok {
		out, err := fn(content)
		if err == nil {
			return out, nil
		}
		ferr := fmt.Errorf("%w: function %q for type %s: %v", ErrDecodeFunc, funcName(fn), t, err)
		if !d.fallback {
			return nil, ferr
		}
		d.logger.Warn("decoder function failed, trying something else", "error", ferr.Error())
	}

	// b. Self-describing decode hook on a fresh instance.
	inst := reflect.New(t)
	if hook, ok := inst.Interface().(Decodable); ok {
		err := hook.DecodeJSON(content)
		if err == nil {
			return inst.Elem().Interface(), nil
		}
		herr := fmt.Errorf("%w: DecodeJSON on type %s: %v", ErrDecodeHook, t, err)
		if !d.fallback {
			return nil, herr
		}
		d.logger.Warn("decode hook failed, trying something else", "error", herr.Error())
		inst = reflect.New(t) // discard partial state
	}

	// c. Enum member lookup by name. Never downgraded: defaulting to an
	//    arbitrary member would corrupt data silently.
	if en, ok := capability[Enum](inst.Elem()); ok {
		return d.decodeEnum(en, t, content)
	}

	// d. Structured record / generic struct: populate a fresh instance
	//    from the mapping, then re-validate it.
	if t.Kind() == reflect.Struct {
		if err := reflectx.Populate(inst.Elem(), content); err != nil {
			perr := fmt.Errorf("%w: cannot populate %s: %v", ErrDecode, t, err)
			if !d.fallback {
				return nil, perr
			}
			d.logger.Warn("populate failed, trying something else", "error", perr.Error())
		} else if err := validateRecord(inst.Interface()); err != nil {
			if !d.fallback {
				return nil, fmt.Errorf("decoding %s: %w", t, err)
			}
			d.logger.Warn("validation failed, trying something else", "error", err.Error())
		} else {
			return inst.Elem().Interface(), nil
		}
	}

	// e. Named string-keyed maps built from the mapping directly.
	if t.Kind() == reflect.Map && t.Key().Kind() == reflect.String {
		mv := reflect.New(t).Elem()
		if err := reflectx.Assign(mv, any(content)); err == nil {
			return mv.Interface(), nil
		}
	}

	// f. Last-resort degradation: the raw content mapping with tag keys
	//    stripped. Deliberately not an error.
	d.logger.Debug("no reconstruction strategy applied, returning raw mapping", "type", t.String())
	return content, nil
}

func (d *Decoder) decodeEnum(en Enum, t reflect.Type, content map[string]any) (any, error) {
	nameRaw, ok := content[enumNameKey]
	if !ok {
		return nil, fmt.Errorf("%w: enum node for %s missing %q", ErrMalformedNode, t, enumNameKey)
	}
	memberName, ok := nameRaw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: enum node for %s: %q is not a string", ErrMalformedNode, t, enumNameKey)
	}
	member, ok := en.EnumMembers()[memberName]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a member of enum %s", ErrMalformedNode, memberName, t)
	}
	return member, nil
}

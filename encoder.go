// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// encoder.go — the universal encoder: converts an arbitrary Go value into
// a JSON-compatible tree, attaching __class__/__module__ tags to every
// value whose type is not natively representable in JSON. Strategy order:
// registered function, encode hook, enum members, native structural pass,
// generic field dump.

package kajson

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/Pipelex/kajson/internal/jsonx"
	"github.com/Pipelex/kajson/internal/reflectx"
)

// EncoderFunc converts a value into the field content of its tagged node.
// The reserved tag keys are injected afterwards unless the function
// already supplied its own (a deliberate override, preserved as-is).
type EncoderFunc func(v any) (map[string]any, error)

// RegisterOption tunes a codec function registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	includeSubtypes bool
	keepExisting    bool
}

// IncludeSubtypes extends a registration to every subtype of the
// registered type that has no more specific registration of its own.
func IncludeSubtypes() RegisterOption {
	return func(o *registerOptions) { o.includeSubtypes = true }
}

// KeepExisting makes a registration a no-op when the type already has
// one, instead of the default silent overwrite.
func KeepExisting() RegisterOption {
	return func(o *registerOptions) { o.keepExisting = true }
}

func applyRegisterOptions(opts []RegisterOption) registerOptions {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// EncoderConfig carries the encoder's injectable state. The zero value
// is usable: noop logger, standard JSON engine, shared type index.
type EncoderConfig struct {
	Logger Logger
	Engine jsonx.Engine
	Types  *TypeIndex

	// Fallback downgrades a failing registered function or hook to a
	// logged warning and tries the next strategy. Off by default; silent
	// fallback can mask data corruption, so this is a debugging escape
	// hatch only.
	Fallback bool
}

func (c *EncoderConfig) defaults() {
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	if c.Engine == nil {
		c.Engine = jsonx.Default
	}
	if c.Types == nil {
		c.Types = defaultTypeIndex
	}
}

type encoderEntry struct {
	typ reflect.Type
	fn  EncoderFunc
}

// Encoder converts values into tagged JSON trees and text.
type Encoder struct {
	mu        sync.RWMutex
	exact     map[reflect.Type]EncoderFunc
	inclusive []encoderEntry

	logger   Logger
	engine   jsonx.Engine
	types    *TypeIndex
	fallback bool
}

// NewEncoder builds an Encoder with the builtin codecs registered.
func NewEncoder(cfg EncoderConfig) *Encoder {
	cfg.defaults()
	e := &Encoder{
		exact:    make(map[reflect.Type]EncoderFunc),
		logger:   cfg.Logger,
		engine:   cfg.Engine,
		types:    cfg.Types,
		fallback: cfg.Fallback,
	}
	registerBuiltinEncoders(e)
	return e
}

// Register stores fn as the encoder for the prototype's exact type.
// Re-registration overwrites silently unless KeepExisting is given.
func (e *Encoder) Register(prototype any, fn EncoderFunc, opts ...RegisterOption) {
	t := typeOf(prototype)
	o := applyRegisterOptions(opts)
	e.mu.Lock()
	defer e.mu.Unlock()
	if o.includeSubtypes {
		for i := range e.inclusive {
			if e.inclusive[i].typ == t {
				if o.keepExisting {
					e.logger.Debug("encoder already registered, keeping existing", "type", t.String())
					return
				}
				e.inclusive[i].fn = fn
				e.types.Add(t)
				return
			}
		}
		e.inclusive = append(e.inclusive, encoderEntry{typ: t, fn: fn})
	} else {
		if _, exists := e.exact[t]; exists && o.keepExisting {
			e.logger.Debug("encoder already registered, keeping existing", "type", t.String())
			return
		}
		e.exact[t] = fn
	}
	e.types.Add(t)
}

// Unregister removes any registration for the prototype's exact type,
// both plain and subtype-inclusive.
func (e *Encoder) Unregister(prototype any) {
	t := typeOf(prototype)
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.exact, t)
	for i := range e.inclusive {
		if e.inclusive[i].typ == t {
			e.inclusive = append(e.inclusive[:i], e.inclusive[i+1:]...)
			break
		}
	}
}

// lookupFunc resolves the registered function applying to t: exact match
// first, then the most specific subtype-inclusive ancestor.
func (e *Encoder) lookupFunc(t reflect.Type) (EncoderFunc, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if fn, ok := e.exact[t]; ok {
		return fn, true
	}
	var best EncoderFunc
	bestScore := -1
	for _, ent := range e.inclusive {
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

// Marshal serializes v into JSON text.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	tree, err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return e.engine.Marshal(tree)
}

// MarshalIndent serializes v into indented JSON text.
func (e *Encoder) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	tree, err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return e.engine.MarshalIndent(tree, prefix, indent)
}

// Encode converts v into a JSON-compatible tree without serializing it.
func (e *Encoder) Encode(v any) (any, error) {
	return e.encodeValue(v)
}

func (e *Encoder) encodeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, nil
	}
	elem := reflect.Indirect(rv)
	t := elem.Type()

	// 1. Registered encoder function, exact type first, then the most
	//    specific subtype-inclusive ancestor.
	if fn, ok := e.lookupFunc(t); ok {
		content, err := fn(elem.Interface())
		if err == nil {
			return e.finishTagged(content, t)
		}
		ferr := fmt.Errorf("%w: function %q for type %s: %v", ErrEncodeFunc, funcName(fn), t, err)
		if !e.fallback {
			return nil, ferr
		}
		e.logger.Warn("encoder function failed, trying something else", "error", ferr.Error())
	}

	// 2. Self-describing encode hook.
	if hook, ok := capability[Encodable](rv); ok {
		content, err := hook.EncodeJSON()
		if err == nil {
			return e.finishTagged(content, t)
		}
		herr := fmt.Errorf("%w: EncodeJSON on type %s: %v", ErrEncodeHook, t, err)
		if !e.fallback {
			return nil, herr
		}
		e.logger.Warn("encode hook failed, trying something else", "error", herr.Error())
	}

	// 3. Enum members round-trip by name.
	if en, ok := capability[Enum](rv); ok {
		return e.encodeEnum(en, elem, t)
	}

	// 4. Native shapes pass through structurally; structs fall back to
	//    the generic field dump.
	switch t.Kind() {
	case reflect.Bool:
		return elem.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return elem.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return elem.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return elem.Float(), nil
	case reflect.String:
		return elem.String(), nil
	case reflect.Slice, reflect.Array:
		return e.encodeSequence(elem)
	case reflect.Map:
		return e.encodeMapping(elem)
	case reflect.Struct:
		return e.finishTagged(reflectx.Dump(elem), t)
	}

	return nil, fmt.Errorf("%w: %s", ErrNotSerializable, t)
}

func (e *Encoder) encodeSequence(elem reflect.Value) (any, error) {
	if elem.Kind() == reflect.Slice {
		if elem.IsNil() {
			return nil, nil
		}
		if elem.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte(nil), elem.Bytes()...), nil
		}
	}
	out := make([]any, elem.Len())
	for i := 0; i < elem.Len(); i++ {
		ev, err := e.encodeValue(elem.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

func (e *Encoder) encodeMapping(elem reflect.Value) (any, error) {
	if elem.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: %s (non-string map keys)", ErrNotSerializable, elem.Type())
	}
	if elem.IsNil() {
		return nil, nil
	}
	out := make(map[string]any, elem.Len())
	iter := elem.MapRange()
	for iter.Next() {
		ev, err := e.encodeValue(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[iter.Key().String()] = ev
	}
	return out, nil
}

func (e *Encoder) encodeEnum(en Enum, elem reflect.Value, t reflect.Type) (any, error) {
	value := elem.Interface()
	for name, member := range en.EnumMembers() {
		if !reflect.DeepEqual(member, value) {
			continue
		}
		node := map[string]any{
			TagClass:     t.Name(),
			TagModule:    t.PkgPath(),
			enumNameKey:  name,
			enumValueKey: underlyingValue(elem),
		}
		e.types.Add(t)
		return node, nil
	}
	return nil, fmt.Errorf("%w: %v is not a member of enum %s", ErrNotSerializable, value, t)
}

// finishTagged recursively encodes the content mapping's values and
// injects the reserved tag keys, preserving any the content already
// carries. Unnamed types stay untagged.
func (e *Encoder) finishTagged(content map[string]any, t reflect.Type) (any, error) {
	node := make(map[string]any, len(content)+2)
	for k, v := range content {
		ev, err := e.encodeValue(v)
		if err != nil {
			return nil, err
		}
		node[k] = ev
	}
	if t.Name() != "" {
		if _, ok := node[TagClass]; !ok {
			node[TagClass] = t.Name()
		}
		if _, ok := node[TagModule]; !ok {
			node[TagModule] = t.PkgPath()
		}
		e.types.Add(t)
	}
	return node, nil
}

// underlyingValue strips the named type from an enum member, yielding the
// raw primitive carried under "_value_".
func underlyingValue(elem reflect.Value) any {
	switch elem.Kind() {
	case reflect.Bool:
		return elem.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return elem.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return elem.Uint()
	case reflect.Float32, reflect.Float64:
		return elem.Float()
	case reflect.String:
		return elem.String()
	default:
		return nil
	}
}

// capability discovers an optional interface on a value, checking the
// value itself and, for non-pointers, its pointer.
func capability[T any](rv reflect.Value) (T, bool) {
	if c, ok := rv.Interface().(T); ok {
		return c, true
	}
	if rv.Kind() != reflect.Ptr {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if c, ok := ptr.Interface().(T); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}

func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return "unknown"
}

// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// registry.go — the class registry: a name→type lookup table independent
// of encoding and decoding, used by the decoder as a fallback when a
// tagged node's namespace cannot be resolved (dynamically loaded types,
// types declared in package main).

package kajson

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/Pipelex/kajson/internal/reflectx"
)

// Registry is the class-registry contract. ClassRegistry is the default
// implementation; hosts may supply their own to the Manager.
type Registry interface {
	// Setup prepares the registry; idempotent.
	Setup()
	// Teardown clears all entries; idempotent.
	Teardown()
	// Register stores a type under name (the type's own short name when
	// name is empty). On a name collision the entry is either kept
	// (overwrite false, logged) or replaced (overwrite true).
	Register(prototype any, name string, overwrite bool)
	// RegisterTypes registers each type under its own short name,
	// skipping names already present. An empty input is a no-op.
	RegisterTypes(prototypes []any)
	// RegisterNamed registers a name→type mapping, skipping names
	// already present. An empty input is a no-op.
	RegisterNamed(classes map[string]any)
	// Unregister removes the entry registered under the type's short
	// name; ErrRegistryNotFound when absent.
	Unregister(prototype any) error
	// UnregisterByName removes the named entry; ErrRegistryNotFound
	// when absent.
	UnregisterByName(name string) error
	// Get returns the type registered under name, or nil.
	Get(name string) reflect.Type
	// GetRequired returns the type registered under name;
	// ErrRegistryNotFound when absent.
	GetRequired(name string) (reflect.Type, error)
	// GetRequiredSubtype additionally requires the resolved type to be
	// a subtype of base (an interface or embedded struct);
	// ErrRegistryInheritance otherwise.
	GetRequiredSubtype(name string, base any) (reflect.Type, error)
	// GetRequiredRecord additionally requires the resolved type to
	// satisfy the structured-record capability;
	// ErrRegistryInheritance otherwise.
	GetRequiredRecord(name string) (reflect.Type, error)
	// Has reports whether name is registered.
	Has(name string) bool
	// HasSubtype reports whether name resolves to a subtype of base;
	// false (not an error) on a missing name.
	HasSubtype(name string, base any) bool
}

// ClassRegistry is the default Registry: a mutex-guarded flat name table.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]reflect.Type
	logger  Logger
}

// NewClassRegistry returns an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{
		classes: make(map[string]reflect.Type),
		logger:  noopLogger{},
	}
}

// SetLogger routes the registry's debug channel.
func (r *ClassRegistry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Setup prepares the registry for use. Idempotent.
func (r *ClassRegistry) Setup() {}

// Teardown clears all entries. Idempotent.
func (r *ClassRegistry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = make(map[string]reflect.Type)
}

// Len returns the number of registered entries.
func (r *ClassRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

func (r *ClassRegistry) Register(prototype any, name string, overwrite bool) {
	t := typeOf(prototype)
	if name == "" {
		name = t.Name()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[name]; exists && !overwrite {
		r.logger.Debug("class already exists in registry, skipping", "class", name)
		return
	}
	r.classes[name] = t
}

func (r *ClassRegistry) RegisterTypes(prototypes []any) {
	if len(prototypes) == 0 {
		r.logger.Debug("RegisterTypes called with empty list of classes to register")
		return
	}
	for _, p := range prototypes {
		r.Register(p, "", false)
	}
	r.logger.Debug("registered classes in registry", "count", len(prototypes))
}

func (r *ClassRegistry) RegisterNamed(classes map[string]any) {
	if len(classes) == 0 {
		r.logger.Debug("RegisterNamed called with empty mapping of classes to register")
		return
	}
	for name, p := range classes {
		r.Register(p, name, false)
	}
	r.logger.Debug("registered classes in registry", "count", len(classes))
}

func (r *ClassRegistry) Unregister(prototype any) error {
	t := typeOf(prototype)
	return r.UnregisterByName(t.Name())
}

func (r *ClassRegistry) UnregisterByName(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[name]; !exists {
		return fmt.Errorf("%w: %q", ErrRegistryNotFound, name)
	}
	delete(r.classes, name)
	return nil
}

func (r *ClassRegistry) Get(name string) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[name]
}

func (r *ClassRegistry) GetRequired(name string) (reflect.Type, error) {
	if t := r.Get(name); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrRegistryNotFound, name)
}

func (r *ClassRegistry) GetRequiredSubtype(name string, base any) (reflect.Type, error) {
	t, err := r.GetRequired(name)
	if err != nil {
		return nil, err
	}
	baseType := typeOf(base)
	if !reflectx.IsSubtype(t, baseType) {
		return nil, fmt.Errorf("%w: %q resolved to %s, not a subtype of %s",
			ErrRegistryInheritance, name, t, baseType)
	}
	return t, nil
}

func (r *ClassRegistry) GetRequiredRecord(name string) (reflect.Type, error) {
	t, err := r.GetRequired(name)
	if err != nil {
		return nil, err
	}
	if !isRecordType(t) {
		return nil, fmt.Errorf("%w: %q resolved to %s, not a structured record type",
			ErrRegistryInheritance, name, t)
	}
	return t, nil
}

func (r *ClassRegistry) Has(name string) bool {
	return r.Get(name) != nil
}

func (r *ClassRegistry) HasSubtype(name string, base any) bool {
	t := r.Get(name)
	if t == nil {
		return false
	}
	return reflectx.IsSubtype(t, typeOf(base))
}

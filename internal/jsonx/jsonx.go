// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// jsonx.go — the text-serializer seam between the tagged-tree codec and a
// standard JSON engine; the codec never touches JSON text directly.

// Package jsonx provides the pluggable engine converting between JSON text
// and JSON-compatible value trees.
package jsonx

import "encoding/json"

// Engine converts between JSON text and JSON-compatible trees
// (nil, bool, float64, string, []any, map[string]any).
type Engine interface {
	// Marshal serializes a tree into JSON text.
	Marshal(v any) ([]byte, error)
	// MarshalIndent serializes a tree into indented JSON text.
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	// Unmarshal parses JSON text into a tree (v must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the engine identifier used for diagnostics.
	Name() string
}

// Std is the default engine wrapping encoding/json. Object keys are
// emitted in sorted order, which keeps codec output deterministic.
type Std struct{}

// Marshal serializes v to JSON bytes.
func (Std) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent serializes v to indented JSON bytes.
func (Std) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON bytes into v.
func (Std) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name returns "json".
func (Std) Name() string { return "json" }

// Default is the default engine instance.
var Default Engine = Std{}

// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// hooks.go — optional capability interfaces a type may implement to take
// part in encoding and decoding. The codec discovers them through type
// assertions; none of them is required.

package kajson

// Encodable is implemented by types that produce their own field content
// during encoding. The returned mapping becomes the tagged node's content;
// the reserved tag keys are injected afterwards unless the mapping already
// carries them.
type Encodable interface {
	EncodeJSON() (map[string]any, error)
}

// Decodable is implemented by types that reconstruct themselves from a
// tagged node's field content. The decoder allocates a fresh instance and
// calls DecodeJSON on its pointer.
type Decodable interface {
	DecodeJSON(content map[string]any) error
}

// Validator is implemented by structured record types that check their
// own invariants. The decoder runs Validate on every reconstructed
// instance of such a type and surfaces a failure as ErrValidation.
type Validator interface {
	Validate() error
}

// Enum is implemented by enumeration types whose members round-trip by
// name. EnumMembers returns the member table: member name to member value
// (each value being an instance of the enum type itself).
//
// Enum nodes carry the member name under "_name_" and the underlying
// member value under "_value_"; decoding resolves the member by name and
// fails on an unknown name rather than defaulting.
type Enum interface {
	EnumMembers() map[string]any
}

// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// kajson.go — the thin caller-facing surface: serialize/deserialize entry
// points mirroring a standard JSON API, plus registration conveniences,
// all routed through process-default Encoder/Decoder instances.

package kajson

import "io"

// Default process-wide codec instances backing the package-level API.
// Applications needing isolated registration state construct their own
// Encoder/Decoder instead.
var (
	DefaultEncoder = NewEncoder(EncoderConfig{})
	DefaultDecoder = NewDecoder(DecoderConfig{})
)

// Marshal serializes v into JSON text, tagging every value whose type is
// not natively representable in JSON.
func Marshal(v any) ([]byte, error) {
	return DefaultEncoder.Marshal(v)
}

// MarshalIndent is Marshal with indented output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return DefaultEncoder.MarshalIndent(v, prefix, indent)
}

// Encode serializes v and writes the JSON text to w.
func Encode(w io.Writer, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal parses JSON text and reconstructs every tagged node into a
// typed value.
func Unmarshal(data []byte) (any, error) {
	return DefaultDecoder.Unmarshal(data)
}

// UnmarshalString is Unmarshal for string input.
func UnmarshalString(s string) (any, error) {
	return DefaultDecoder.UnmarshalString(s)
}

// Decode reads all of r and unmarshals it.
func Decode(r io.Reader) (any, error) {
	return DefaultDecoder.Decode(r)
}

// RegisterEncoder registers fn as the encoder function for the
// prototype's exact type on the default encoder.
func RegisterEncoder(prototype any, fn EncoderFunc, opts ...RegisterOption) {
	DefaultEncoder.Register(prototype, fn, opts...)
}

// RegisterDecoder registers fn as the decoder function for the
// prototype's exact type on the default decoder.
func RegisterDecoder(prototype any, fn DecoderFunc, opts ...RegisterOption) {
	DefaultDecoder.Register(prototype, fn, opts...)
}

// RegisterClass registers the prototype's type in the manager's class
// registry under its own short name, so tagged nodes naming it decode
// even when their namespace cannot be resolved.
func RegisterClass(prototype any) {
	GetClassRegistry().Register(prototype, "", false)
}

// RegisterTypes records types in the shared namespace index, making them
// resolvable by namespace+name without touching the class registry.
func RegisterTypes(prototypes ...any) {
	for _, p := range prototypes {
		defaultTypeIndex.Add(typeOf(p))
	}
}

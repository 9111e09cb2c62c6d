// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// errors.go — sentinel error variables returned by the public kajson API,
// covering encode strategy failures, decode-time type resolution and
// reconstruction failures, and class-registry lookups.

// Package kajson is a universal JSON codec: it serializes arbitrary Go
// values to JSON text with type tags and reconstructs equivalent typed
// values on decode, using per-type codec registrations, opt-in hook
// interfaces, and a class registry as a decode-time fallback.
package kajson

import "errors"

// Encoding errors
var (
	ErrNotSerializable = errors.New("kajson: type not serializable")
	ErrEncodeFunc      = errors.New("kajson: encoder function failed")
	ErrEncodeHook      = errors.New("kajson: encode hook failed")
)

// Decoding errors
var (
	ErrDecode        = errors.New("kajson: decode failed")
	ErrDecodeImport  = errors.New("kajson: namespace import failed")
	ErrDecodeFunc    = errors.New("kajson: decoder function failed")
	ErrDecodeHook    = errors.New("kajson: decode hook failed")
	ErrValidation    = errors.New("kajson: structural validation failed")
	ErrMalformedNode = errors.New("kajson: malformed tagged node")
)

// Registry errors
var (
	ErrRegistryNotFound    = errors.New("kajson: class not found in registry")
	ErrRegistryInheritance = errors.New("kajson: registered class has wrong kind")
)

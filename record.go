// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// record.go — the structured-record validation channel. A struct type is
// a structured record when it declares "validate" tag constraints, or
// implements Validator, or both. The decoder re-validates every
// reconstructed record and surfaces violations as ErrValidation wrapping
// the validator's own field/constraint/value detail.

package kajson

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/Pipelex/kajson/internal/reflectx"
)

// structValidator evaluates "validate" struct tags. It is stateless and
// safe for concurrent use.
var structValidator = validator.New(validator.WithRequiredStructEnabled())

// isRecordType reports whether t satisfies the structured-record
// capability.
func isRecordType(t reflect.Type) bool {
	t = reflectx.Indirect(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	if reflectx.HasValidationRules(t) {
		return true
	}
	validatorType := reflect.TypeOf((*Validator)(nil)).Elem()
	return t.Implements(validatorType) || reflect.PtrTo(t).Implements(validatorType)
}

// validateRecord runs tag-declared constraints and the type's own
// Validate method over a reconstructed instance. v must be a pointer to
// a struct. Violations come back as ErrValidation wrapping the
// underlying detail, so callers can errors.As into
// validator.ValidationErrors for the constraint, field and value.
func validateRecord(v any) error {
	if err := structValidator.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0

package kajson_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pipelex/kajson"
)

func TestClassRegistry_RegisterAndGet(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(Dog{}, "", false)
	require.True(t, reg.Has("Dog"))
	assert.Equal(t, reflect.TypeOf(Dog{}), reg.Get("Dog"))

	got, err := reg.GetRequired("Dog")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(Dog{}), got)
}

func TestClassRegistry_RegisterWithExplicitName(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(Cat{}, "HouseCat", false)
	assert.True(t, reg.Has("HouseCat"))
	assert.False(t, reg.Has("Cat"))
}

func TestClassRegistry_PointerPrototypeNormalized(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(&Dog{}, "", false)
	assert.Equal(t, reflect.TypeOf(Dog{}), reg.Get("Dog"))
}

func TestClassRegistry_ReflectTypePrototype(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(reflect.TypeOf(Cat{}), "", false)
	assert.Equal(t, reflect.TypeOf(Cat{}), reg.Get("Cat"))
}

func TestClassRegistry_DuplicateKeptWithoutOverwrite(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(Dog{}, "Pet", false)
	reg.Register(Cat{}, "Pet", false)
	assert.Equal(t, reflect.TypeOf(Dog{}), reg.Get("Pet"))

	reg.Register(Cat{}, "Pet", true)
	assert.Equal(t, reflect.TypeOf(Cat{}), reg.Get("Pet"))
}

func TestClassRegistry_RegisterTypes(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.RegisterTypes([]any{Dog{}, Cat{}, Bird{}})
	assert.Equal(t, 3, reg.Len())
	assert.True(t, reg.Has("Dog"))
	assert.True(t, reg.Has("Cat"))
	assert.True(t, reg.Has("Bird"))

	// Empty input is a no-op, not an error.
	reg.RegisterTypes(nil)
	assert.Equal(t, 3, reg.Len())
}

func TestClassRegistry_RegisterNamed(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.RegisterNamed(map[string]any{
		"GoodBoy": Dog{},
		"Feline":  Cat{},
	})
	assert.Equal(t, reflect.TypeOf(Dog{}), reg.Get("GoodBoy"))
	assert.Equal(t, reflect.TypeOf(Cat{}), reg.Get("Feline"))
}

func TestClassRegistry_Unregister(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(Dog{}, "", false)
	require.NoError(t, reg.Unregister(Dog{}))
	assert.False(t, reg.Has("Dog"))

	err := reg.Unregister(Dog{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kajson.ErrRegistryNotFound)
}

func TestClassRegistry_UnregisterByName(t *testing.T) {
	reg := kajson.NewClassRegistry()

	reg.Register(Cat{}, "Feline", false)
	require.NoError(t, reg.UnregisterByName("Feline"))

	err := reg.UnregisterByName("Feline")
	assert.ErrorIs(t, err, kajson.ErrRegistryNotFound)
}

func TestClassRegistry_GetMissing(t *testing.T) {
	reg := kajson.NewClassRegistry()

	assert.Nil(t, reg.Get("Nothing"))
	assert.False(t, reg.Has("Nothing"))

	_, err := reg.GetRequired("Nothing")
	assert.ErrorIs(t, err, kajson.ErrRegistryNotFound)
}

func TestClassRegistry_GetRequiredSubtype(t *testing.T) {
	reg := kajson.NewClassRegistry()
	reg.RegisterTypes([]any{Dog{}, Puppy{}, Account{}})

	// Interface base.
	got, err := reg.GetRequiredSubtype("Dog", (*Animal)(nil))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(Dog{}), got)

	// Embedded-struct base, two levels deep.
	got, err = reg.GetRequiredSubtype("Puppy", AnimalBase{})
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(Puppy{}), got)

	// Wrong base.
	_, err = reg.GetRequiredSubtype("Account", (*Animal)(nil))
	assert.ErrorIs(t, err, kajson.ErrRegistryInheritance)

	// Missing name keeps the not-found error.
	_, err = reg.GetRequiredSubtype("Nothing", (*Animal)(nil))
	assert.ErrorIs(t, err, kajson.ErrRegistryNotFound)
}

func TestClassRegistry_GetRequiredRecord(t *testing.T) {
	reg := kajson.NewClassRegistry()
	reg.RegisterTypes([]any{Account{}, TimeRange{}, Dog{}})

	// Tag-constrained struct qualifies.
	_, err := reg.GetRequiredRecord("Account")
	require.NoError(t, err)

	// Validate-method struct qualifies.
	_, err = reg.GetRequiredRecord("TimeRange")
	require.NoError(t, err)

	// Plain struct does not.
	_, err = reg.GetRequiredRecord("Dog")
	assert.ErrorIs(t, err, kajson.ErrRegistryInheritance)
}

func TestClassRegistry_HasSubtype(t *testing.T) {
	reg := kajson.NewClassRegistry()
	reg.RegisterTypes([]any{Cat{}, Account{}})

	assert.True(t, reg.HasSubtype("Cat", (*Animal)(nil)))
	assert.True(t, reg.HasSubtype("Cat", AnimalBase{}))
	assert.False(t, reg.HasSubtype("Account", (*Animal)(nil)))
	assert.False(t, reg.HasSubtype("Nothing", (*Animal)(nil)))
}

func TestClassRegistry_Teardown(t *testing.T) {
	reg := kajson.NewClassRegistry()
	reg.RegisterTypes([]any{Dog{}, Cat{}})
	require.Equal(t, 2, reg.Len())

	reg.Teardown()
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Has("Dog"))

	// Usable again after teardown.
	reg.Register(Dog{}, "", false)
	assert.True(t, reg.Has("Dog"))
}

// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// fixtures_test.go — model types shared across the black-box test suite:
// an animal hierarchy with two embedding levels, hook-bearing types, an
// enum, and validated records.

package kajson_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/Pipelex/kajson"
)

// ── Animal hierarchy ─────────────────────────────────────────────────────────

// Animal is the base contract; fields declared as Animal can hold any
// concrete species.
type Animal interface {
	Sound() string
}

// AnimalBase carries the fields common to every species.
type AnimalBase struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Dog struct {
	AnimalBase
	Breed     string `json:"breed"`
	IsGoodBoy bool   `json:"is_good_boy"`
}

func (Dog) Sound() string { return "woof" }

type Cat struct {
	AnimalBase
	LivesRemaining int  `json:"lives_remaining"`
	Indoor         bool `json:"indoor"`
}

func (Cat) Sound() string { return "meow" }

// Puppy is two embedding levels below AnimalBase.
type Puppy struct {
	Dog
	FavoriteToy string `json:"favorite_toy"`
}

type Bird struct {
	AnimalBase
	WingspanCm float64 `json:"wingspan_cm" validate:"gt=0"`
	CanFly     bool    `json:"can_fly"`
}

func (Bird) Sound() string { return "tweet" }

// Pet holds a base-typed field carrying a concrete species.
type Pet struct {
	OwnerName string `json:"owner_name"`
	Animal    Animal `json:"animal"`
}

// Zoo holds an ordered sequence of mixed species.
type Zoo struct {
	City    string   `json:"city"`
	Animals []Animal `json:"animals"`
}

// ── Hook-bearing types ───────────────────────────────────────────────────────

type Temperature struct {
	Celsius float64 `json:"celsius"`
}

func (t Temperature) EncodeJSON() (map[string]any, error) {
	return map[string]any{"celsius": t.Celsius}, nil
}

func (t *Temperature) DecodeJSON(content map[string]any) error {
	c, ok := content["celsius"].(float64)
	if !ok {
		return fmt.Errorf("missing celsius")
	}
	t.Celsius = c
	return nil
}

// BrokenHook always fails its hooks; exercised by the fallback-flag
// tests.
type BrokenHook struct {
	Data string `json:"data"`
}

func (BrokenHook) EncodeJSON() (map[string]any, error) {
	return nil, errors.New("intentional encode failure")
}

func (*BrokenHook) DecodeJSON(_ map[string]any) error {
	return errors.New("intentional decode failure")
}

// ── Enum ─────────────────────────────────────────────────────────────────────

type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
)

func (Color) EnumMembers() map[string]any {
	return map[string]any{
		"RED":   ColorRed,
		"GREEN": ColorGreen,
		"BLUE":  ColorBlue,
	}
}

// ── Named non-struct types ───────────────────────────────────────────────────

// Attrs reconstructs through the named-map strategy.
type Attrs map[string]any

// Opaque has no reconstruction strategy at all; decoding degrades to the
// raw content mapping.
type Opaque chan int

// ── Validated records ────────────────────────────────────────────────────────

type Account struct {
	ID      string  `json:"id" validate:"required"`
	Balance float64 `json:"balance" validate:"gte=0"`
}

// TimeRange validates through its own Validate method.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r TimeRange) Validate() error {
	if r.End.Before(r.Start) {
		return errors.New("end precedes start")
	}
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// testCodec bundles an encoder/decoder pair with isolated registration
// state: a private type index and a private class registry, so tests do
// not leak into the process-wide defaults.
type testCodec struct {
	enc      *kajson.Encoder
	dec      *kajson.Decoder
	registry *kajson.ClassRegistry
	types    *kajson.TypeIndex
}

func newTestCodec() testCodec {
	types := kajson.NewTypeIndex()
	registry := kajson.NewClassRegistry()
	return testCodec{
		enc:      kajson.NewEncoder(kajson.EncoderConfig{Types: types}),
		dec:      kajson.NewDecoder(kajson.DecoderConfig{Types: types, Registry: registry}),
		registry: registry,
		types:    types,
	}
}

// roundTrip marshals v and unmarshals the text back through the same
// codec pair.
func (c testCodec) roundTrip(v any) (any, error) {
	data, err := c.enc.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.dec.Unmarshal(data)
}

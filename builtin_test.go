// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0

package kajson_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_CivilDate(t *testing.T) {
	c := newTestCodec()
	original := civil.Date{Year: 2025, Month: time.June, Day: 14}

	got, err := c.roundTrip(original)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestBuiltin_CivilTime(t *testing.T) {
	c := newTestCodec()
	original := civil.Time{Hour: 8, Minute: 15, Second: 30, Nanosecond: 916000000}

	got, err := c.roundTrip(original)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestBuiltin_DatetimeWithNamedZone(t *testing.T) {
	c := newTestCodec()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	original := time.Date(2025, 6, 14, 8, 15, 30, 123456000, paris)

	got, err := c.roundTrip(original)
	require.NoError(t, err)

	decoded, ok := got.(time.Time)
	require.True(t, ok, "expected time.Time, got %T", got)
	assert.True(t, original.Equal(decoded))
	assert.Equal(t, "Europe/Paris", decoded.Location().String())
	assert.Equal(t, 123456000, decoded.Nanosecond())
}

func TestBuiltin_DatetimeUTC(t *testing.T) {
	c := newTestCodec()
	original := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := c.roundTrip(original)
	require.NoError(t, err)
	assert.True(t, original.Equal(got.(time.Time)))
}

func TestBuiltin_DatetimeUnknownZoneFallsBackToUTC(t *testing.T) {
	c := newTestCodec()

	got, err := c.dec.UnmarshalString(
		`{"__class__": "Time", "__module__": "time",
		  "datetime": "2025-06-14 08:15:30.000000", "tzinfo": "Mars/Olympus"}`)
	require.NoError(t, err)

	decoded := got.(time.Time)
	assert.Equal(t, time.UTC, decoded.Location())
	assert.Equal(t, 8, decoded.Hour())
}

func TestBuiltin_Duration(t *testing.T) {
	c := newTestCodec()

	for _, original := range []time.Duration{
		90 * time.Minute,
		1500 * time.Millisecond,
		0,
		-3 * time.Second,
	} {
		got, err := c.roundTrip(original)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	}
}

func TestBuiltin_Location(t *testing.T) {
	c := newTestCodec()
	original, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	got, err := c.roundTrip(original)
	require.NoError(t, err)

	loc, ok := got.(*time.Location)
	require.True(t, ok, "expected *time.Location, got %T", got)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestBuiltin_UUID(t *testing.T) {
	c := newTestCodec()
	original := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got, err := c.roundTrip(original)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestBuiltin_Decimal(t *testing.T) {
	c := newTestCodec()
	original := decimal.RequireFromString("123456.789012345678901234567890")

	got, err := c.roundTrip(original)
	require.NoError(t, err)

	decoded, ok := got.(decimal.Decimal)
	require.True(t, ok, "expected decimal.Decimal, got %T", got)
	assert.True(t, original.Equal(decoded))
}

func TestBuiltin_InsideStruct(t *testing.T) {
	c := newTestCodec()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	type Invoice struct {
		ID       uuid.UUID       `json:"id"`
		Amount   decimal.Decimal `json:"amount"`
		IssuedAt time.Time       `json:"issued_at"`
		Due      civil.Date      `json:"due"`
		Grace    time.Duration   `json:"grace"`
	}
	original := Invoice{
		ID:       uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Amount:   decimal.RequireFromString("99.95"),
		IssuedAt: time.Date(2025, 6, 14, 8, 15, 30, 0, paris),
		Due:      civil.Date{Year: 2025, Month: time.July, Day: 1},
		Grace:    72 * time.Hour,
	}

	got, err := c.roundTrip(original)
	require.NoError(t, err)

	inv, ok := got.(Invoice)
	require.True(t, ok, "expected Invoice, got %T", got)
	assert.Equal(t, original.ID, inv.ID)
	assert.True(t, original.Amount.Equal(inv.Amount))
	assert.True(t, original.IssuedAt.Equal(inv.IssuedAt))
	assert.Equal(t, original.Due, inv.Due)
	assert.Equal(t, original.Grace, inv.Grace)
}

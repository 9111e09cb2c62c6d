// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0
//
// builtin.go — the registered codecs every Encoder/Decoder starts with:
// calendar dates, wall-clock times, datetimes with named zones, durations,
// timezone references, UUIDs and decimals. Each is a plain registration,
// the same mechanism host applications use to extend coverage.

package kajson

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const datetimeLayout = "2006-01-02 15:04:05.000000"

func stringField(content map[string]any, key string) (string, error) {
	raw, ok := content[key]
	if !ok {
		return "", fmt.Errorf("missing %q field", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q field is not a string", key)
	}
	return s, nil
}

func registerBuiltinEncoders(e *Encoder) {
	e.Register(civil.Date{}, func(v any) (map[string]any, error) {
		d, ok := v.(civil.Date)
		if !ok {
			return nil, fmt.Errorf("expected civil.Date, got %T", v)
		}
		return map[string]any{"date": d.String()}, nil
	})

	e.Register(civil.Time{}, func(v any) (map[string]any, error) {
		t, ok := v.(civil.Time)
		if !ok {
			return nil, fmt.Errorf("expected civil.Time, got %T", v)
		}
		return map[string]any{
			"time": fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Second, t.Nanosecond/1000),
		}, nil
	})

	e.Register(time.Time{}, func(v any) (map[string]any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		return map[string]any{
			"datetime": t.Format(datetimeLayout),
			"tzinfo":   t.Location().String(),
		}, nil
	})

	e.Register(time.Duration(0), func(v any) (map[string]any, error) {
		d, ok := v.(time.Duration)
		if !ok {
			return nil, fmt.Errorf("expected time.Duration, got %T", v)
		}
		return map[string]any{"seconds": d.Seconds()}, nil
	})

	e.Register(time.Location{}, func(v any) (map[string]any, error) {
		loc, ok := v.(time.Location)
		if !ok {
			return nil, fmt.Errorf("expected time.Location, got %T", v)
		}
		return map[string]any{"zone": (&loc).String()}, nil
	})

	e.Register(uuid.UUID{}, func(v any) (map[string]any, error) {
		u, ok := v.(uuid.UUID)
		if !ok {
			return nil, fmt.Errorf("expected uuid.UUID, got %T", v)
		}
		return map[string]any{"uuid": u.String()}, nil
	})

	e.Register(decimal.Decimal{}, func(v any) (map[string]any, error) {
		d, ok := v.(decimal.Decimal)
		if !ok {
			return nil, fmt.Errorf("expected decimal.Decimal, got %T", v)
		}
		return map[string]any{"decimal": d.String()}, nil
	})
}

func registerBuiltinDecoders(d *Decoder) {
	d.Register(civil.Date{}, func(content map[string]any) (any, error) {
		s, err := stringField(content, "date")
		if err != nil {
			return nil, err
		}
		return civil.ParseDate(s)
	})

	d.Register(civil.Time{}, func(content map[string]any) (any, error) {
		s, err := stringField(content, "time")
		if err != nil {
			return nil, err
		}
		return civil.ParseTime(s)
	})

	d.Register(time.Time{}, func(content map[string]any) (any, error) {
		s, err := stringField(content, "datetime")
		if err != nil {
			return nil, err
		}
		loc := time.UTC
		if zone, zerr := stringField(content, "tzinfo"); zerr == nil {
			// An unknown zone name leaves the parsed time in UTC, the
			// same degradation the original applied to naive datetimes.
			if l, lerr := time.LoadLocation(zone); lerr == nil {
				loc = l
			}
		}
		return time.ParseInLocation(datetimeLayout, s, loc)
	})

	d.Register(time.Duration(0), func(content map[string]any) (any, error) {
		raw, ok := content["seconds"]
		if !ok {
			return nil, fmt.Errorf("missing %q field", "seconds")
		}
		seconds, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("%q field is not a number", "seconds")
		}
		return time.Duration(seconds * float64(time.Second)), nil
	})

	d.Register(time.Location{}, func(content map[string]any) (any, error) {
		zone, err := stringField(content, "zone")
		if err != nil {
			return nil, err
		}
		return time.LoadLocation(zone)
	})

	d.Register(uuid.UUID{}, func(content map[string]any) (any, error) {
		s, err := stringField(content, "uuid")
		if err != nil {
			return nil, err
		}
		return uuid.Parse(s)
	})

	d.Register(decimal.Decimal{}, func(content map[string]any) (any, error) {
		s, err := stringField(content, "decimal")
		if err != nil {
			return nil, err
		}
		return decimal.NewFromString(s)
	})
}

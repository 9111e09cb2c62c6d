// Copyright (c) 2025 Evotis S.A.S. (https://pipelex.com)
// SPDX-License-Identifier: Apache-2.0

package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStd_RoundTrip(t *testing.T) {
	tree := map[string]any{"b": float64(2), "a": "x", "list": []any{true, nil}}

	data, err := Std{}.Marshal(tree)
	require.NoError(t, err)

	var back any
	require.NoError(t, Std{}.Unmarshal(data, &back))
	assert.Equal(t, tree, back)
}

func TestStd_DeterministicKeyOrder(t *testing.T) {
	data, err := Std{}.Marshal(map[string]any{"z": 1, "a": 2, "m": 3})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"m":3,"z":1}`, string(data))
}

func TestStd_Name(t *testing.T) {
	assert.Equal(t, "json", Std{}.Name())
	assert.Equal(t, "json", Default.Name())
}

package ingestion

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, NewMissingValue()},
		{"int", 3, NewNumericValue(3)},
		{"uint8", uint8(7), NewNumericValue(7)},
		{"float", 2.5, NewNumericValue(2.5)},
		{"nan", math.NaN(), NewMissingValue()},
		{"bool", true, NewBooleanValue(true)},
		{"string", "x", NewStringValue("x")},
		{"empty string", "", NewStringValue("")},
		{"json number", json.Number("12"), NewNumericValue(12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAny(tt.in))
		})
	}
}

func TestMissingness(t *testing.T) {
	assert.True(t, NewMissingValue().IsMissing())
	assert.True(t, NewStringValue("").IsMissing())
	assert.False(t, NewStringValue("").IsNull())
	assert.False(t, NewStringValue(" a").IsMissing())
	assert.False(t, NewNumericValue(0).IsMissing())
	assert.False(t, NewBooleanValue(false).IsMissing())
}

func TestInferCell(t *testing.T) {
	assert.Equal(t, NewMissingValue(), InferCell("   "))
	assert.Equal(t, NewNumericValue(1.5), InferCell(" 1.5 "))
	assert.Equal(t, NewStringValue("NaN"), InferCell("NaN"))
	assert.Equal(t, NewStringValue("2024-01-02"), InferCell("2024-01-02"))
}

func TestJSONRoundTripScalar(t *testing.T) {
	row := []Value{NewNumericValue(1), NewStringValue("a"), NewBooleanValue(false), NewMissingValue()}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,"a",false,null]`, string(data))

	var back []Value
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, row, back)
}

func TestString(t *testing.T) {
	assert.Equal(t, "1", NewNumericValue(1).String())
	assert.Equal(t, "0.25", NewNumericValue(0.25).String())
	assert.Equal(t, "true", NewBooleanValue(true).String())
	assert.Equal(t, "", NewMissingValue().String())
}

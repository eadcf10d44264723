package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuantityString(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0000"},
		{10, "10.0000"},
		{2.5, "2.5000"},
		{-1.25, "-1.2500"},
		{0.0001, "0.0001"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewQuantityFromFloat64(tt.in).String())
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(12.345)

	data, err := json.Marshal(q)
	assert.NoError(t, err)
	assert.Equal(t, "12.3450", string(data))

	var back Quantity
	assert.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Quantity
		wantErr bool
	}{
		{"number", "2.5", NewQuantityFromFloat64(2.5), false},
		{"quoted string", `"2.5"`, NewQuantityFromFloat64(2.5), false},
		{"integer", "7", NewQuantityFromFloat64(7), false},
		{"negative", "-1.25", NewQuantityFromFloat64(-1.25), false},
		{"extra digits truncated", "1.99999", NewQuantityFromInt64Scaled(19999), false},
		{"null", "null", 0, false},
		{"garbage", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tt.in), &q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantityDecimal(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	assert.True(t, q.Decimal().Equal(decimal.NewFromFloat(2.5)))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(0, 0).IsZero(), "zero total must not divide")
	assert.True(t, Percent(2, 8).Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "33.3", Percent(1, 3).String())
	assert.True(t, Percent(3, 3).Equal(decimal.NewFromInt(100)))
}

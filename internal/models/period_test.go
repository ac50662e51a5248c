package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		raw  string
		want Period
	}{
		{"0", 0},
		{"1", 10},
		{"7", 70},
		{"4.5", 45},
		{"7.8", 78},
		{"12", 120},
		{" 2 ", 20},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParsePeriod(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePeriodRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "abc", "4.", "4.55", ".5", "-1", "1.x"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParsePeriod(raw)
			assert.Error(t, err)
		})
	}
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "1", Period(10).String())
	assert.Equal(t, "4.5", Period(45).String())
	assert.Equal(t, "7.8", Period(78).String())
	assert.Equal(t, "12", Period(120).String())
	assert.Equal(t, "0", Period(0).String())
}

func TestPeriodJSONRoundTrip(t *testing.T) {
	type doc struct {
		Period Period `json:"Period"`
	}

	data, err := json.Marshal(doc{Period: 45})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Period":"4.5"}`, string(data))

	var decoded doc
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Period(45), decoded.Period)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityKey_SynthesizedFromFields(t *testing.T) {
	ev := QuakeEvent{
		Date: "2024-06-17",
		Time: "14:32:10",
		Lat:  38.42,
		Lon:  27.14,
	}

	key := IdentityKey(ev)
	assert.Equal(t, "2024061714321038422714", key)
}

func TestIdentityKey_Deterministic(t *testing.T) {
	freezeClock(t)

	row := textRow("2024.06.17 14:32:10 38.42 27.14 7.2 ML 4.1 IZMIR (SEFERIHISAR)")
	ev1, err := Normalize(row, VariantKOERITagged)
	require.NoError(t, err)
	ev2, err := Normalize(row, VariantKOERITagged)
	require.NoError(t, err)

	assert.Equal(t, IdentityKey(ev1), IdentityKey(ev2))
}

func TestIdentityKey_MissingTimeOmitted(t *testing.T) {
	ev := QuakeEvent{Date: "2024-06-17", Lat: 38.42, Lon: 27.14}
	assert.Equal(t, "2024061738422714", IdentityKey(ev))
}

func TestIdentityKey_SignStrippedCollision(t *testing.T) {
	// Symmetric-opposite coordinates collapse to the same key because
	// signs are not digits.
	north := QuakeEvent{Date: "2024-06-17", Time: "14:32:10", Lat: 38.42, Lon: 27.14}
	south := QuakeEvent{Date: "2024-06-17", Time: "14:32:10", Lat: -38.42, Lon: -27.14}
	assert.Equal(t, IdentityKey(north), IdentityKey(south))
}

func TestIdentityKey_NativeIdentifierWins(t *testing.T) {
	ev := QuakeEvent{
		SourceID: "624812",
		Date:     "2024-06-17",
		Time:     "14:32:10",
		Lat:      38.42,
		Lon:      27.14,
	}
	assert.Equal(t, "624812", IdentityKey(ev))
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{38.42, "38.42"},
		{38.4210, "38.421"},
		{-27.14, "-27.14"},
		{36, "36"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCoord(tt.in))
	}
}

func TestVariantByName(t *testing.T) {
	v, err := VariantByName("koeri-list")
	require.NoError(t, err)
	assert.Equal(t, KindPlainText, v.Kind)

	_, err = VariantByName("lst6-v2")
	assert.Error(t, err)
	assert.Contains(t, VariantNames(), "afad-api")
}

package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestNormalizeBathrooms(t *testing.T) {
	t.Run("full and half win over total", func(t *testing.T) {
		out := NormalizeBathrooms(Bathrooms{Full: intPtr(2), Half: intPtr(1), Total: floatPtr(9)})
		require.NotNil(t, out.Total)
		assert.Equal(t, 2, *out.Full)
		assert.Equal(t, 1, *out.Half)
		assert.Equal(t, 2.5, *out.Total)
	})

	t.Run("zero counts as present", func(t *testing.T) {
		out := NormalizeBathrooms(Bathrooms{Full: intPtr(0)})
		require.NotNil(t, out.Total)
		assert.Equal(t, 0, *out.Full)
		assert.Equal(t, 0, *out.Half)
		assert.Equal(t, 0.0, *out.Total)
	})

	t.Run("total decomposes", func(t *testing.T) {
		out := NormalizeBathrooms(Bathrooms{Total: floatPtr(2.5)})
		require.NotNil(t, out.Full)
		assert.Equal(t, 2, *out.Full)
		assert.Equal(t, 1, *out.Half)
		assert.Equal(t, 2.5, *out.Total)
	})

	t.Run("nothing supplied stays untouched", func(t *testing.T) {
		out := NormalizeBathrooms(Bathrooms{})
		assert.Nil(t, out.Full)
		assert.Nil(t, out.Half)
		assert.Nil(t, out.Total)
	})

	t.Run("round trip", func(t *testing.T) {
		// full=2, half=1 -> 2.5 -> decompose -> full=2, half=1
		composed := NormalizeBathrooms(Bathrooms{Full: intPtr(2), Half: intPtr(1)})
		decomposed := NormalizeBathrooms(Bathrooms{Total: composed.Total})
		assert.Equal(t, 2, *decomposed.Full)
		assert.Equal(t, 1, *decomposed.Half)
	})
}

func TestNormalizeLotSize(t *testing.T) {
	t.Run("sqft wins", func(t *testing.T) {
		out := NormalizeLotSize(LotSize{SquareFeet: floatPtr(43560)})
		require.NotNil(t, out.Acres)
		assert.Equal(t, 1.0, *out.Acres)
	})

	t.Run("acres derives sqft", func(t *testing.T) {
		out := NormalizeLotSize(LotSize{Acres: floatPtr(0.25)})
		require.NotNil(t, out.SquareFeet)
		assert.Equal(t, 10890.0, *out.SquareFeet)
	})

	t.Run("zero values stay untouched", func(t *testing.T) {
		out := NormalizeLotSize(LotSize{Acres: floatPtr(0)})
		assert.Nil(t, out.SquareFeet)
	})
}

func TestPricePerSquareFoot(t *testing.T) {
	assert.Nil(t, PricePerSquareFoot(450000, nil))
	assert.Nil(t, PricePerSquareFoot(450000, floatPtr(0)))

	v := PricePerSquareFoot(450000, floatPtr(1500))
	require.NotNil(t, v)
	assert.Equal(t, 300.0, *v)

	v = PricePerSquareFoot(500000, floatPtr(1700))
	require.NotNil(t, v)
	assert.Equal(t, 294.12, *v)
}

func TestDaysOnMarket(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, DaysOnMarket(nil, nil, now))

	contract := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	dom := DaysOnMarket(timePtr(contract), nil, now)
	require.NotNil(t, dom)
	assert.Equal(t, 14, *dom)

	// Off-market date wins over now once terminal.
	off := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)
	dom = DaysOnMarket(timePtr(contract), timePtr(off), now)
	require.NotNil(t, dom)
	assert.Equal(t, 7, *dom)

	// Future contract date clamps to zero.
	future := now.Add(48 * time.Hour)
	dom = DaysOnMarket(timePtr(future), nil, now)
	require.NotNil(t, dom)
	assert.Equal(t, 0, *dom)
}

func TestUnparsedAddress(t *testing.T) {
	assert.Equal(t,
		"10 Elm St, Reading, MA 01867",
		UnparsedAddress("10", "Elm St", "", "Reading", "MA", "01867"))
	assert.Equal(t,
		"10 Elm St Unit 2B, Reading, MA 01867",
		UnparsedAddress("10", "Elm St", "2B", "Reading", "MA", "01867"))
	assert.Equal(t, "Reading, MA", UnparsedAddress("", "", "", "Reading", "MA", ""))
	assert.Equal(t, "", UnparsedAddress("", "", "", "", "", ""))
}

func TestExternalSubType(t *testing.T) {
	assert.Equal(t, "Condominium", ExternalSubType("Condo"))
	assert.Equal(t, "Condominium", ExternalSubType("Apartment"))
	assert.Equal(t, "Single Family Residence", ExternalSubType("Single Family"))
	assert.Equal(t, "Single Family Residence", ExternalSubType(""))
	// Unmapped values pass through unchanged.
	assert.Equal(t, "Houseboat", ExternalSubType("Houseboat"))
}

func TestNormalizeIdempotence(t *testing.T) {
	// Applying the normalizer twice must match applying it once.
	once := NormalizeBathrooms(Bathrooms{Total: floatPtr(3.5)})
	twice := NormalizeBathrooms(once)
	assert.Equal(t, *once.Full, *twice.Full)
	assert.Equal(t, *once.Half, *twice.Half)
	assert.Equal(t, *once.Total, *twice.Total)

	lotOnce := NormalizeLotSize(LotSize{Acres: floatPtr(1.37)})
	lotTwice := NormalizeLotSize(lotOnce)
	assert.InDelta(t, *lotOnce.Acres, *lotTwice.Acres, 0.0001)
	assert.InDelta(t, *lotOnce.SquareFeet, *lotTwice.SquareFeet, 1.0)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.2346, roundTo(1.23456, 4))
	assert.Equal(t, 294.12, roundTo(294.1176, 2))
	assert.True(t, math.Abs(roundTo(0.1+0.2, 4)-0.3) < 1e-9)
}

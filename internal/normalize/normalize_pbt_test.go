package normalize

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBathroomInvariants(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total always equals full + 0.5*half", prop.ForAll(
		func(full, half int) bool {
			out := NormalizeBathrooms(Bathrooms{Full: &full, Half: &half})
			return *out.Total == float64(full)+float64(half)*0.5
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.Property("normalization is idempotent", prop.ForAll(
		func(full, half int) bool {
			once := NormalizeBathrooms(Bathrooms{Full: &full, Half: &half})
			twice := NormalizeBathrooms(once)
			return *once.Full == *twice.Full &&
				*once.Half == *twice.Half &&
				*once.Total == *twice.Total
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.Property("decomposing a half-step total round-trips", prop.ForAll(
		func(full int, hasHalf bool) bool {
			total := float64(full)
			if hasHalf {
				total += 0.5
			}
			out := NormalizeBathrooms(Bathrooms{Total: &total})
			wantHalf := 0
			if hasHalf {
				wantHalf = 1
			}
			return *out.Full == full && *out.Half == wantHalf
		},
		gen.IntRange(0, 20),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestLotSizeInvariants(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sqft to acres stays within rounding tolerance", prop.ForAll(
		func(sqft float64) bool {
			out := NormalizeLotSize(LotSize{SquareFeet: &sqft})
			// 4-decimal acre rounding can move the value by up to
			// 0.00005 acres, i.e. ~2.2 sqft.
			return math.Abs(math.Round(*out.Acres*SquareFeetPerAcre)-sqft) <= 3
		},
		gen.Float64Range(1, 5_000_000).Map(func(v float64) float64 { return math.Round(v) }),
	))

	properties.Property("acres to sqft round-trips within 0.0001 acres", prop.ForAll(
		func(acres float64) bool {
			out := NormalizeLotSize(LotSize{Acres: &acres})
			back := NormalizeLotSize(LotSize{SquareFeet: out.SquareFeet})
			return math.Abs(*back.Acres-acres) <= 0.0001
		},
		gen.Float64Range(0.001, 500).Map(func(v float64) float64 { return roundTo(v, 4) }),
	))

	properties.Property("normalization is idempotent", prop.ForAll(
		func(sqft float64) bool {
			once := NormalizeLotSize(LotSize{SquareFeet: &sqft})
			twice := NormalizeLotSize(once)
			return *once.Acres == *twice.Acres && *once.SquareFeet == *twice.SquareFeet
		},
		gen.Float64Range(1, 5_000_000).Map(func(v float64) float64 { return math.Round(v) }),
	))

	properties.TestingRun(t)
}

// Package normalize provides pure functions that reconcile redundant or
// derivable listing fields before any write. Each function returns new values
// instead of mutating its input, keeping the sync engine's transaction
// boundary free of hidden side effects. All functions are idempotent:
// re-running them on already-normalized data produces the same values,
// bounded only by rounding.
package normalize

import "math"

// SquareFeetPerAcre is the conversion constant between the two redundant lot
// size representations.
const SquareFeetPerAcre = 43560.0

// Bathrooms holds the three mutually derivable bathroom counts. Nil means
// the field was not supplied.
type Bathrooms struct {
	Full  *int
	Half  *int
	Total *float64
}

// NormalizeBathrooms reconciles full/half counts with the fractional total.
// If either full or half is present (zero counts as present) the pair wins
// and total is recomputed as full + half*0.5. If only the total is present
// it is decomposed: full = floor(total), half = floor((total mod 1) * 2).
// If nothing was supplied the input is returned untouched.
func NormalizeBathrooms(b Bathrooms) Bathrooms {
	if b.Full != nil || b.Half != nil {
		full := 0
		if b.Full != nil {
			full = *b.Full
		}
		half := 0
		if b.Half != nil {
			half = *b.Half
		}
		total := float64(full) + float64(half)*0.5
		return Bathrooms{Full: &full, Half: &half, Total: &total}
	}

	if b.Total != nil {
		total := *b.Total
		full := int(math.Floor(total))
		half := int(math.Floor(math.Mod(total, 1) * 2))
		return Bathrooms{Full: &full, Half: &half, Total: &total}
	}

	return b
}

// LotSize holds the two mutually derivable lot size representations. Nil
// means the field was not supplied.
type LotSize struct {
	Acres      *float64
	SquareFeet *float64
}

// NormalizeLotSize reconciles the acre and square-foot representations.
// A positive square footage wins and acres is derived from it (4 decimal
// places); otherwise a positive acreage wins and square feet is derived
// (rounded to the nearest whole foot).
func NormalizeLotSize(l LotSize) LotSize {
	if l.SquareFeet != nil && *l.SquareFeet > 0 {
		sqft := *l.SquareFeet
		acres := roundTo(sqft/SquareFeetPerAcre, 4)
		return LotSize{Acres: &acres, SquareFeet: &sqft}
	}

	if l.Acres != nil && *l.Acres > 0 {
		acres := *l.Acres
		sqft := math.Round(acres * SquareFeetPerAcre)
		return LotSize{Acres: &acres, SquareFeet: &sqft}
	}

	return l
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

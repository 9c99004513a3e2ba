package normalize

import (
	"strings"
	"time"
)

// PricePerSquareFoot computes round(listPrice/buildingArea, 2). Returns nil
// when the building area is absent or not positive.
func PricePerSquareFoot(listPrice float64, buildingArea *float64) *float64 {
	if buildingArea == nil || *buildingArea <= 0 {
		return nil
	}
	v := roundTo(listPrice / *buildingArea, 2)
	return &v
}

// DaysOnMarket computes the integer day difference from the contract date to
// now, or to the off-market date once the listing reached a terminal status.
// Returns nil when no contract date is known; negative spans clamp to zero.
func DaysOnMarket(contractDate, offMarketDate *time.Time, now time.Time) *int {
	if contractDate == nil {
		return nil
	}
	end := now
	if offMarketDate != nil {
		end = *offMarketDate
	}
	days := int(end.Sub(*contractDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

// UnparsedAddress assembles the free-text address line from its parts.
// Shape: "10 Elm St Unit 2, Reading, MA 01867". Empty parts are skipped.
func UnparsedAddress(streetNumber, streetName, unitNumber, city, state, zip string) string {
	street := strings.TrimSpace(streetNumber + " " + streetName)
	if unitNumber != "" {
		street = strings.TrimSpace(street + " Unit " + unitNumber)
	}

	var parts []string
	if street != "" {
		parts = append(parts, street)
	}
	if city != "" {
		parts = append(parts, city)
	}
	tail := strings.TrimSpace(state + " " + zip)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

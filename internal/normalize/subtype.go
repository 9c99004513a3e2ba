package normalize

// DefaultExternalSubType is written when no sub-type was supplied at all.
const DefaultExternalSubType = "Single Family Residence"

// externalSubTypes maps the free-form property sub-type vocabulary onto the
// external-compatible vocabulary used by cross-system search filters.
// Unmapped values pass through unchanged.
var externalSubTypes = map[string]string{
	"Single Family":    "Single Family Residence",
	"Single-Family":    "Single Family Residence",
	"Condo":            "Condominium",
	"Apartment":        "Condominium",
	"Townhouse":        "Townhouse",
	"Town House":       "Townhouse",
	"Multi Family":     "Multi Family",
	"2 Family":         "Duplex",
	"Two Family":       "Duplex",
	"3 Family":         "Triplex",
	"Mobile Home":      "Mobile Home",
	"Manufactured":     "Manufactured Home",
	"Land":             "Unimproved Land",
	"Lot":              "Unimproved Land",
	"Farm":             "Farm",
	"Office":           "Office",
	"Retail":           "Retail",
	"Warehouse":        "Warehouse",
	"Mixed Use":        "Mixed Use",
	"Co-op":            "Stock Cooperative",
	"Ux Condo":         "Condominium",
	"Garden Apartment": "Condominium",
}

// ExternalSubType maps a property sub-type to the external-compatible
// vocabulary. Empty input maps to the safe default so search consumers never
// see a blank sub-type.
func ExternalSubType(subType string) string {
	if subType == "" {
		return DefaultExternalSubType
	}
	if mapped, ok := externalSubTypes[subType]; ok {
		return mapped
	}
	return subType
}

// Package types provides common type definitions shared across the listing
// synchronization service.
package types

import "fmt"

// PropertyType classifies a listing at the top level.
type PropertyType string

const (
	// PropertyTypeResidential represents single-unit residential properties
	PropertyTypeResidential PropertyType = "Residential"
	// PropertyTypeCommercial represents commercial properties
	PropertyTypeCommercial PropertyType = "Commercial"
	// PropertyTypeLand represents undeveloped land
	PropertyTypeLand PropertyType = "Land"
	// PropertyTypeMultiFamily represents multi-unit residential properties
	PropertyTypeMultiFamily PropertyType = "Multi-Family"
	// PropertyTypeRental represents rental listings
	PropertyTypeRental PropertyType = "Rental"
)

// ValidPropertyTypes enumerates every accepted property type value.
var ValidPropertyTypes = []PropertyType{
	PropertyTypeResidential,
	PropertyTypeCommercial,
	PropertyTypeLand,
	PropertyTypeMultiFamily,
	PropertyTypeRental,
}

// IsValidPropertyType checks enum membership for a raw property type value.
func IsValidPropertyType(v string) bool {
	for _, t := range ValidPropertyTypes {
		if string(t) == v {
			return true
		}
	}
	return false
}

// StandardStatus represents the lifecycle status of a listing.
type StandardStatus string

const (
	// StatusActive represents a listing currently on market
	StatusActive StandardStatus = "Active"
	// StatusPending represents a listing under agreement
	StatusPending StandardStatus = "Pending"
	// StatusClosed represents a sold listing; this is the terminal status that
	// moves the listing into the archive table set
	StatusClosed StandardStatus = "Closed"
	// StatusWithdrawn represents a listing pulled from market
	StatusWithdrawn StandardStatus = "Withdrawn"
	// StatusExpired represents a listing whose agreement lapsed
	StatusExpired StandardStatus = "Expired"
	// StatusCanceled represents a canceled listing agreement
	StatusCanceled StandardStatus = "Canceled"
)

// ValidStatuses enumerates every accepted standard status value.
var ValidStatuses = []StandardStatus{
	StatusActive,
	StatusPending,
	StatusClosed,
	StatusWithdrawn,
	StatusExpired,
	StatusCanceled,
}

// IsValidStatus checks enum membership for a raw status value.
func IsValidStatus(v string) bool {
	for _, s := range ValidStatuses {
		if string(s) == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status triggers archival.
func (s StandardStatus) IsTerminal() bool {
	return s == StatusClosed
}

// PhotoSource labels which table set a photo row belongs to.
type PhotoSource string

const (
	// PhotoSourceActive tags photos of listings in the active table set
	PhotoSourceActive PhotoSource = "active"
	// PhotoSourceArchive tags photos of archived listings
	PhotoSourceArchive PhotoSource = "archive"
)

// ServiceError represents a structured error with a machine-readable code,
// a human message, and optional details for the caller.
type ServiceError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

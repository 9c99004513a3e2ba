// Package errors defines the categorized error taxonomy for the listing
// synchronization service. Per-table store errors are translated into these
// structured errors at the sync/archive engine boundary and never leaked raw
// beyond it.
package errors

import (
	"fmt"
	"net/http"

	"github.com/stevenovak55/bmnboston-sub015/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents caller-correctable input errors
	CategoryValidation ErrorCategory = "validation"
	// CategoryGeocoding represents geocoding provider failures (never fatal)
	CategoryGeocoding ErrorCategory = "geocoding"
	// CategorySync represents multi-table sync failures (transaction rolled back)
	CategorySync ErrorCategory = "sync"
	// CategoryArchive represents archival failures (transaction rolled back)
	CategoryArchive ErrorCategory = "archive"
	// CategoryAllocation represents id allocation failures
	CategoryAllocation ErrorCategory = "allocation"
	// CategoryNotFound represents missing listings
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryStorage represents other store-level failures
	CategoryStorage ErrorCategory = "storage"
	// CategoryCache represents cache failures (always best-effort)
	CategoryCache ErrorCategory = "cache"
)

// debugMode controls whether raw underlying error text is exposed in details.
var debugMode bool

// SetDebugMode toggles inclusion of raw store error text in error details.
// Raw detail is only ever exposed when running in a debug/development mode.
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// CategorizedError represents an error with category, HTTP status code and a
// machine-readable code.
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to the wire-facing ServiceError. The raw cause text
// is attached only in debug mode.
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	details := e.Details
	if debugMode && e.Cause != nil {
		details = make(map[string]any, len(e.Details)+1)
		for k, v := range e.Details {
			details[k] = v
		}
		details["debug"] = e.Cause.Error()
	}
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// NewValidationError creates a caller-correctable field-level error.
func NewValidationError(field, reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_FAILED",
		Message:    fmt.Sprintf("invalid field %q: %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewGeocodingFailedError records a geocoding failure. Geocoding failures are
// never fatal for a write; callers degrade to the default coordinate.
func NewGeocodingFailedError(address string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryGeocoding,
		StatusCode: http.StatusBadGateway,
		Code:       "GEOCODING_FAILED",
		Message:    "unable to resolve address to coordinates",
		Cause:      cause,
		Details: map[string]any{
			"address": address,
		},
	}
}

// NewSyncFailedError reports a failed multi-table sync, naming the table and
// stage that failed. The whole transaction has been rolled back.
func NewSyncFailedError(table string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySync,
		StatusCode: http.StatusInternalServerError,
		Code:       "SYNC_FAILED",
		Message:    fmt.Sprintf("listing sync failed writing table %s", table),
		Cause:      cause,
		Details: map[string]any{
			"table": table,
		},
	}
}

// NewArchiveFailedError reports a failed archival; the listing remains fully
// in the active table set.
func NewArchiveFailedError(table string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryArchive,
		StatusCode: http.StatusInternalServerError,
		Code:       "ARCHIVE_FAILED",
		Message:    fmt.Sprintf("listing archival failed on table %s", table),
		Cause:      cause,
		Details: map[string]any{
			"table": table,
		},
	}
}

// NewAllocationFailedError reports a store-level failure allocating an id.
// No listing has been created.
func NewAllocationFailedError(cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryAllocation,
		StatusCode: http.StatusInternalServerError,
		Code:       "ALLOCATION_FAILED",
		Message:    "failed to allocate a listing id",
		Cause:      cause,
	}
}

// NewNotFoundError reports a missing listing id.
func NewNotFoundError(resource string, id int64) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found: %d", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

// NewStorageError wraps an uncategorized store-level failure.
func NewStorageError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryStorage,
		StatusCode: http.StatusInternalServerError,
		Code:       "STORAGE_ERROR",
		Message:    fmt.Sprintf("storage error during %s", operation),
		Cause:      cause,
		Details: map[string]any{
			"operation": operation,
		},
	}
}

// NewCacheError wraps a cache failure. Cache operations are best-effort and
// this error must never fail a sync call; it exists for logging.
func NewCacheError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryCache,
		StatusCode: http.StatusInternalServerError,
		Code:       "CACHE_ERROR",
		Message:    fmt.Sprintf("cache error during %s", operation),
		Cause:      cause,
		Details: map[string]any{
			"operation": operation,
		},
	}
}

// Categorize categorizes an existing error
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	if catErr, ok := err.(*CategorizedError); ok {
		return catErr
	}

	if svcErr, ok := err.(*types.ServiceError); ok {
		return categorizeServiceError(svcErr)
	}

	return &CategorizedError{
		Category:   CategoryStorage,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "unexpected error",
		Cause:      err,
	}
}

// categorizeServiceError maps a ServiceError code onto a category.
func categorizeServiceError(err *types.ServiceError) *CategorizedError {
	cat := CategorizedError{
		Code:    err.Code,
		Message: err.Message,
		Details: err.Details,
	}
	switch err.Code {
	case "VALIDATION_FAILED":
		cat.Category = CategoryValidation
		cat.StatusCode = http.StatusBadRequest
	case "NOT_FOUND", "LISTING_NOT_FOUND", "PHOTO_NOT_FOUND":
		cat.Category = CategoryNotFound
		cat.StatusCode = http.StatusNotFound
	case "GEOCODING_FAILED":
		cat.Category = CategoryGeocoding
		cat.StatusCode = http.StatusBadGateway
	case "SYNC_FAILED":
		cat.Category = CategorySync
		cat.StatusCode = http.StatusInternalServerError
	case "ARCHIVE_FAILED":
		cat.Category = CategoryArchive
		cat.StatusCode = http.StatusInternalServerError
	case "ALLOCATION_FAILED":
		cat.Category = CategoryAllocation
		cat.StatusCode = http.StatusInternalServerError
	default:
		cat.Category = CategoryStorage
		cat.StatusCode = http.StatusInternalServerError
	}
	return &cat
}

// GetHTTPStatusCode returns the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether the error represents a missing resource.
func IsNotFound(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == CategoryNotFound
}

// IsUserError determines if an error is a user error (4xx)
func IsUserError(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}
	return catErr.StatusCode >= 400 && catErr.StatusCode < 500
}

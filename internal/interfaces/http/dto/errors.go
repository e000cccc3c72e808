package dto

import "net/http"

// Error code constants. Domain errors carry these codes verbatim, so the
// handler layer can map them straight to HTTP statuses.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used for request or domain validation failures
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeSlotTaken is used when an appointment slot is already booked
	ErrCodeSlotTaken = "SLOT_TAKEN"
	// ErrCodeOptimisticLock is used when a concurrent write wins the version race
	ErrCodeOptimisticLock = "OPTIMISTIC_LOCK_ERROR"
)

// Business rule error codes
const (
	// ErrCodeAlreadyPaid is used when paying an installment that is already settled
	ErrCodeAlreadyPaid = "ALREADY_PAID"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeDataIntegrity is used when stored data violates an invariant
	ErrCodeDataIntegrity = "DATA_INTEGRITY"
)

// Persistence error codes
const (
	// ErrCodeCreationFailed is used when persisting a new aggregate fails
	ErrCodeCreationFailed = "CREATION_FAILED"
	// ErrCodePersistence is used when saving aggregate changes fails
	ErrCodePersistence = "PERSISTENCE_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeSlotTaken:      http.StatusConflict,
	ErrCodeOptimisticLock: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeAlreadyPaid:  http.StatusUnprocessableEntity,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Persistence errors
	ErrCodeDataIntegrity:  http.StatusInternalServerError,
	ErrCodeCreationFailed: http.StatusInternalServerError,
	ErrCodePersistence:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package errors provides structured error handling for SakayDB.

The errors package implements a structured error system with:
  - Error categories (Validation, NotFound, Query, Storage)
  - Error codes for programmatic handling
  - User-friendly error messages
  - Contextual information for debugging
  - Error wrapping for root cause analysis

Error Categories:
  - ValidationError: Malformed trip input and duplicate-trip rejection
  - NotFoundError: Operating on a trip id that does not exist
  - QueryError: Bad search criteria, statistics kinds, or date ranges
  - StorageError: Table file read/write failures

Two kinds matter to callers: usage errors (validation and query
categories) and not-found errors. IsUsage and IsNotFound distinguish
them without exposing individual codes.
*/
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier.
type ErrorCode int

const (
	// Validation errors (1000-1999)
	ErrCodeValidation    ErrorCode = 1000
	ErrCodeInvalidInput  ErrorCode = 1001
	ErrCodeMalformedName ErrorCode = 1002
	ErrCodeDuplicateTrip ErrorCode = 1003

	// Not-found errors (2000-2999)
	ErrCodeNotFound      ErrorCode = 2000
	ErrCodeTripNotFound  ErrorCode = 2001
	ErrCodeLedgerMissing ErrorCode = 2002

	// Query errors (3000-3999)
	ErrCodeQuery         ErrorCode = 3000
	ErrCodeUnknownField  ErrorCode = 3001
	ErrCodeEmptyCriteria ErrorCode = 3002
	ErrCodeBadCriterion  ErrorCode = 3003
	ErrCodeBadRange      ErrorCode = 3004
	ErrCodeUnknownStat   ErrorCode = 3005

	// Storage errors (5000-5999)
	ErrCodeStorage       ErrorCode = 5000
	ErrCodeIOError       ErrorCode = 5001
	ErrCodeTableCorrupt  ErrorCode = 5002
	ErrCodeUnknownTable  ErrorCode = 5003
)

// Category represents the error category.
type Category string

const (
	CategoryValidation Category = "VALIDATION"
	CategoryNotFound   Category = "NOT_FOUND"
	CategoryQuery      Category = "QUERY"
	CategoryStorage    Category = "STORAGE"
)

// SakayError represents a structured error in SakayDB.
type SakayError struct {
	Code     ErrorCode
	Category Category
	Message  string
	Detail   string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *SakayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ERROR %d (%s): %s - %s", e.Code, e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SakayError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly error message.
func (e *SakayError) UserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHINT: %s", e.Hint)
	}
	return msg
}

// WithDetail adds detail to the error.
func (e *SakayError) WithDetail(detail string) *SakayError {
	e.Detail = detail
	return e
}

// WithHint adds a hint to the error.
func (e *SakayError) WithHint(hint string) *SakayError {
	e.Hint = hint
	return e
}

// WithCause adds a cause to the error.
func (e *SakayError) WithCause(cause error) *SakayError {
	e.Cause = cause
	return e
}

// ============================================================================
// Validation Error Constructors
// ============================================================================

// InvalidTripInput creates the uniform error for any trip field that fails
// to parse. The failing field is deliberately not distinguished; callers
// depend on the single message family.
func InvalidTripInput() *SakayError {
	return &SakayError{
		Code:     ErrCodeInvalidInput,
		Category: CategoryValidation,
		Message:  "trip has invalid or incomplete information",
		Hint:     "Timestamps use the format HH:MM:SS,DD-MM-YYYY",
	}
}

// DuplicateTrip creates an error for a trip that already exists.
func DuplicateTrip() *SakayError {
	return &SakayError{
		Code:     ErrCodeDuplicateTrip,
		Category: CategoryValidation,
		Message:  "trip is already in the database",
	}
}

// ============================================================================
// Not-Found Error Constructors
// ============================================================================

// TripNotFound creates an error for deleting an unknown trip id.
func TripNotFound(id int) *SakayError {
	return &SakayError{
		Code:     ErrCodeTripNotFound,
		Category: CategoryNotFound,
		Message:  fmt.Sprintf("trip %d not found", id),
	}
}

// LedgerMissing creates an error for mutating a ledger that was never created.
func LedgerMissing() *SakayError {
	return &SakayError{
		Code:     ErrCodeLedgerMissing,
		Category: CategoryNotFound,
		Message:  "trip ledger is empty or has not been created",
	}
}

// ============================================================================
// Query Error Constructors
// ============================================================================

// UnknownSearchField creates an error for an unrecognized criterion field.
func UnknownSearchField(field string) *SakayError {
	return &SakayError{
		Code:     ErrCodeUnknownField,
		Category: CategoryQuery,
		Message:  fmt.Sprintf("unknown search field: %s", field),
		Hint: "Valid fields: driver_id, pickup_datetime, dropoff_datetime, " +
			"passenger_count, trip_distance, fare_amount",
	}
}

// EmptyCriteria creates an error for a search with no criteria.
func EmptyCriteria() *SakayError {
	return &SakayError{
		Code:     ErrCodeEmptyCriteria,
		Category: CategoryQuery,
		Message:  "search requires at least one criterion",
	}
}

// BadCriterion creates an error for a criterion value that fails to coerce.
func BadCriterion(field, value string) *SakayError {
	return &SakayError{
		Code:     ErrCodeBadCriterion,
		Category: CategoryQuery,
		Message:  fmt.Sprintf("invalid value for %s: %q", field, value),
	}
}

// BadRange creates an error for a malformed range.
func BadRange(detail string) *SakayError {
	return &SakayError{
		Code:     ErrCodeBadRange,
		Category: CategoryQuery,
		Message:  "invalid range",
		Detail:   detail,
	}
}

// UnknownStatKind creates an error for an unrecognized statistics kind.
func UnknownStatKind(kind string) *SakayError {
	return &SakayError{
		Code:     ErrCodeUnknownStat,
		Category: CategoryQuery,
		Message:  fmt.Sprintf("unknown statistics kind: %s", kind),
		Hint:     "Valid kinds: trip, passenger, driver, all",
	}
}

// ============================================================================
// Storage Error Constructors
// ============================================================================

// IOError wraps a table file read/write failure.
func IOError(table string, cause error) *SakayError {
	return &SakayError{
		Code:     ErrCodeIOError,
		Category: CategoryStorage,
		Message:  fmt.Sprintf("i/o failure on table %s", table),
		Cause:    cause,
	}
}

// TableCorrupt creates an error for a table row that cannot be decoded.
func TableCorrupt(table string, row int, cause error) *SakayError {
	return &SakayError{
		Code:     ErrCodeTableCorrupt,
		Category: CategoryStorage,
		Message:  fmt.Sprintf("table %s has an undecodable row", table),
		Detail:   fmt.Sprintf("row %d", row),
		Cause:    cause,
	}
}

// UnknownTable creates an error for a table name outside the fixed schema.
func UnknownTable(table string) *SakayError {
	return &SakayError{
		Code:     ErrCodeUnknownTable,
		Category: CategoryStorage,
		Message:  fmt.Sprintf("unknown table: %s", table),
		Hint:     "Known tables: trips, drivers, locations",
	}
}

// ============================================================================
// Classification Helpers
// ============================================================================

// IsUsage reports whether err is a malformed-caller-input error
// (validation or query category).
func IsUsage(err error) bool {
	var se *SakayError
	if !errors.As(err, &se) {
		return false
	}
	return se.Category == CategoryValidation || se.Category == CategoryQuery
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var se *SakayError
	if !errors.As(err, &se) {
		return false
	}
	return se.Category == CategoryNotFound
}

// IsDuplicate reports whether err is the duplicate-trip rejection.
func IsDuplicate(err error) bool {
	var se *SakayError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == ErrCodeDuplicateTrip
}

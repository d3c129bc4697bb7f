package database

import (
	"github.com/lib/pq"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
//
// The allowance tables are provisioned and written by the upload pipeline, so
// the failures seen here are environmental rather than constraint violations.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Undefined table (42P01): reporting started before the upload pipeline
	// provisioned the schema
	case "42P01":
		return errors.Internal("allowance tables not provisioned: " + pqErr.Message)

	// Invalid text representation (22P02): shifts_amount.payroll_year holds a
	// value that does not cast to an integer
	case "22P02":
		return errors.Internal("invalid payroll_year value: " + pqErr.Message)

	// Query canceled (57014): statement timeout
	case "57014":
		return errors.Internal("query canceled: " + pqErr.Message)

	default:
		return nil
	}
}

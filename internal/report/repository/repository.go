// Package repository implements data access for the reporting service on
// top of the shift allowance tables populated by the upload pipeline.
package repository

import (
	"context"
	"database/sql"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/pkg/database"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

// ReportRepository reads allowance facts, shift mappings, and rates.
type ReportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// LatestMonth returns the most recent duration month in YYYY-MM form, or
// an empty string when no allowance rows exist.
func (r *ReportRepository) LatestMonth(ctx context.Context) (string, error) {
	query := `SELECT to_char(MAX(duration_month), 'YYYY-MM') FROM shift_allowances`

	var month sql.NullString
	if err := r.db.GetContext(ctx, &month, query); err != nil {
		return "", mapDBError(err)
	}
	return month.String, nil
}

// LatestMonthBetween returns the most recent duration month within an
// inclusive YYYY-MM window, or an empty string when the window is empty.
func (r *ReportRepository) LatestMonthBetween(ctx context.Context, from, to string) (string, error) {
	query := `
		SELECT to_char(MAX(duration_month), 'YYYY-MM')
		FROM shift_allowances
		WHERE to_char(duration_month, 'YYYY-MM') BETWEEN $1 AND $2`

	var month sql.NullString
	if err := r.db.GetContext(ctx, &month, query, from, to); err != nil {
		return "", mapDBError(err)
	}
	return month.String, nil
}

// Rates returns the full shift rate table. Amounts default to zero so a
// partially filled table never fails a report.
func (r *ReportRepository) Rates(ctx context.Context) ([]domain.RateEntry, error) {
	query := `
		SELECT
			COALESCE(shift_type, '') AS shift_type,
			COALESCE(payroll_year, '') AS payroll_year,
			COALESCE(amount, 0) AS amount
		FROM shifts_amount`

	var entries []domain.RateEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, mapDBError(err)
	}
	return entries, nil
}

func mapDBError(err error) error {
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return errors.InternalFrom(err)
}

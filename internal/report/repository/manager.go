package repository

import (
	"context"
	"database/sql"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// ManagerExists reports whether any allowance row carries the exact
// account manager name.
func (r *ReportRepository) ManagerExists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM shift_allowances WHERE account_manager = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		return false, mapDBError(err)
	}
	return exists, nil
}

// NearestMonth returns the latest duration month on or before the given
// YYYY-MM month, optionally scoped to an exact account manager. Returns
// an empty string when no row qualifies.
func (r *ReportRepository) NearestMonth(ctx context.Context, month, manager string) (string, error) {
	query := `
		SELECT to_char(MAX(duration_month), 'YYYY-MM')
		FROM shift_allowances
		WHERE to_char(duration_month, 'YYYY-MM') <= $1`
	args := []interface{}{month}

	if manager != "" {
		query += " AND account_manager = $2"
		args = append(args, manager)
	}

	var nearest sql.NullString
	if err := r.db.GetContext(ctx, &nearest, query, args...); err != nil {
		return "", mapDBError(err)
	}
	return nearest.String, nil
}

// MonthManagerFacts returns one row per allowance-mapping pair for a
// single calendar month, optionally scoped to an exact account manager.
// The left join keeps allowances without mappings so their employees
// still count.
func (r *ReportRepository) MonthManagerFacts(ctx context.Context, year, month int, manager string) ([]domain.ManagerFact, error) {
	query := `
		SELECT
			COALESCE(sa.account_manager, '') AS account_manager,
			COALESCE(sa.client, '') AS client,
			sa.emp_id,
			COALESCE(sm.shift_type, '') AS shift_type,
			COALESCE(sm.days, 0) AS days
		FROM shift_allowances sa
		LEFT JOIN shift_mappings sm ON sm.shiftallowance_id = sa.id
		WHERE EXTRACT(YEAR FROM sa.duration_month) = $1
		  AND EXTRACT(MONTH FROM sa.duration_month) = $2`
	args := []interface{}{year, month}

	if manager != "" {
		query += " AND sa.account_manager = $3"
		args = append(args, manager)
	}

	query += " ORDER BY sa.id, sm.id"

	var facts []domain.ManagerFact
	if err := r.db.SelectContext(ctx, &facts, query, args...); err != nil {
		return nil, mapDBError(err)
	}
	return facts, nil
}

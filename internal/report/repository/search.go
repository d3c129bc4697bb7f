package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// SearchRowsFilter scopes the employee search. When Months is set the
// year/month pair filter applies, otherwise the StartMonth..EndMonth
// window does. Text filters are case-insensitive substring matches.
type SearchRowsFilter struct {
	Year       int
	Months     []int
	StartMonth string
	EndMonth   string
	EmpID      string
	Manager    string
	Client     string
	Department string
}

// SearchRows returns allowance records matching the search filter,
// ordered chronologically.
func (r *ReportRepository) SearchRows(ctx context.Context, filter SearchRowsFilter) ([]domain.SearchRow, error) {
	query := `
		SELECT
			sa.id,
			sa.emp_id,
			COALESCE(sa.emp_name, '') AS emp_name,
			COALESCE(sa.department, '') AS department,
			COALESCE(sa.client, '') AS client,
			COALESCE(sa.project, '') AS project,
			COALESCE(sa.account_manager, '') AS account_manager,
			to_char(sa.duration_month, 'YYYY-MM') AS duration_month,
			COALESCE(to_char(sa.payroll_month, 'YYYY-MM'), '') AS payroll_month
		FROM shift_allowances sa`

	var conds []string
	var args []interface{}

	if len(filter.Months) > 0 {
		args = append(args, filter.Year)
		yearArg := len(args)
		args = append(args, pq.Array(filter.Months))
		conds = append(conds, fmt.Sprintf("EXTRACT(YEAR FROM sa.duration_month) = $%d AND EXTRACT(MONTH FROM sa.duration_month) = ANY($%d)", yearArg, len(args)))
	} else {
		args = append(args, filter.StartMonth, filter.EndMonth)
		conds = append(conds, fmt.Sprintf("to_char(sa.duration_month, 'YYYY-MM') BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}

	if filter.EmpID != "" {
		args = append(args, "%"+strings.ToUpper(filter.EmpID)+"%")
		conds = append(conds, fmt.Sprintf("UPPER(sa.emp_id) LIKE $%d", len(args)))
	}
	if filter.Manager != "" {
		args = append(args, "%"+strings.ToUpper(filter.Manager)+"%")
		conds = append(conds, fmt.Sprintf("UPPER(sa.account_manager) LIKE $%d", len(args)))
	}
	if filter.Client != "" {
		args = append(args, "%"+strings.ToUpper(filter.Client)+"%")
		conds = append(conds, fmt.Sprintf("UPPER(sa.client) LIKE $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, "%"+strings.ToUpper(filter.Department)+"%")
		conds = append(conds, fmt.Sprintf("UPPER(sa.department) LIKE $%d", len(args)))
	}

	query += " WHERE " + strings.Join(conds, " AND ")
	query += " ORDER BY EXTRACT(YEAR FROM sa.duration_month), EXTRACT(MONTH FROM sa.duration_month), sa.id"

	var rows []domain.SearchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapDBError(err)
	}
	return rows, nil
}

// MappingsFor returns the shift mappings of the given allowance records,
// grouped by allowance id.
func (r *ReportRepository) MappingsFor(ctx context.Context, allowanceIDs []int64) (map[int64][]domain.MappingDays, error) {
	grouped := make(map[int64][]domain.MappingDays)
	if len(allowanceIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT
			shiftallowance_id,
			COALESCE(shift_type, '') AS shift_type,
			COALESCE(days, 0) AS days
		FROM shift_mappings
		WHERE shiftallowance_id = ANY($1)
		ORDER BY shiftallowance_id, id`

	var mappings []domain.MappingDays
	if err := r.db.SelectContext(ctx, &mappings, query, pq.Array(allowanceIDs)); err != nil {
		return nil, mapDBError(err)
	}
	for _, m := range mappings {
		grouped[m.AllowanceID] = append(grouped[m.AllowanceID], m)
	}
	return grouped, nil
}

// MonthRangeRows returns allowance records whose duration month falls in
// the inclusive YYYY-MM window. Callers pass the same month for both
// bounds to query a single month.
func (r *ReportRepository) MonthRangeRows(ctx context.Context, startMonth, endMonth string) ([]domain.MonthRangeRow, error) {
	query := `
		SELECT
			sa.id,
			sa.emp_id,
			COALESCE(sa.emp_name, '') AS emp_name,
			COALESCE(sa.grade, '') AS grade,
			COALESCE(sa.department, '') AS department,
			COALESCE(sa.client, '') AS client,
			COALESCE(sa.project, '') AS project,
			COALESCE(sa.account_manager, '') AS account_manager,
			to_char(sa.duration_month, 'YYYY-MM') AS duration_month,
			COALESCE(to_char(sa.payroll_month, 'YYYY-MM'), '') AS payroll_month
		FROM shift_allowances sa
		WHERE to_char(sa.duration_month, 'YYYY-MM') BETWEEN $1 AND $2
		ORDER BY sa.duration_month, sa.emp_id, sa.id`

	var rows []domain.MonthRangeRow
	if err := r.db.SelectContext(ctx, &rows, query, startMonth, endMonth); err != nil {
		return nil, mapDBError(err)
	}
	return rows, nil
}

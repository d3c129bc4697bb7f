package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// flatConds builds the shared WHERE fragment of the flat export queries.
// All filters are exact matches after trimming; employee ids keep their
// case, names compare case-insensitively.
func flatConds(filter domain.FlatExportFilter) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.EmpID != "" {
		args = append(args, strings.TrimSpace(filter.EmpID))
		conds = append(conds, fmt.Sprintf("TRIM(sa.emp_id) = $%d", len(args)))
	}
	if filter.AccountManager != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(filter.AccountManager)))
		conds = append(conds, fmt.Sprintf("LOWER(TRIM(sa.account_manager)) = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Department)))
		conds = append(conds, fmt.Sprintf("LOWER(TRIM(sa.department)) = $%d", len(args)))
	}
	if filter.Client != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Client)))
		conds = append(conds, fmt.Sprintf("LOWER(TRIM(sa.client)) = $%d", len(args)))
	}
	return conds, args
}

// FlatRows returns the full allowance column set for the flat Excel
// export, scoped by the filter and an inclusive YYYY-MM window.
func (r *ReportRepository) FlatRows(ctx context.Context, filter domain.FlatExportFilter, startMonth, endMonth string) ([]domain.FlatRow, error) {
	query := `
		SELECT
			sa.id,
			sa.emp_id,
			COALESCE(sa.emp_name, '') AS emp_name,
			COALESCE(sa.grade, '') AS grade,
			COALESCE(sa.department, '') AS department,
			COALESCE(sa.client, '') AS client,
			COALESCE(sa.project, '') AS project,
			COALESCE(sa.project_code, '') AS project_code,
			COALESCE(sa.account_manager, '') AS account_manager,
			COALESCE(sa.delivery_manager, '') AS delivery_manager,
			COALESCE(sa.practice_lead, '') AS practice_lead,
			COALESCE(sa.billability_status, '') AS billability_status,
			COALESCE(sa.practice_remarks, '') AS practice_remarks,
			COALESCE(sa.rmg_comments, '') AS rmg_comments,
			to_char(sa.duration_month, 'YYYY-MM') AS duration_month,
			COALESCE(to_char(sa.payroll_month, 'YYYY-MM'), '') AS payroll_month
		FROM shift_allowances sa`

	conds, args := flatConds(filter)
	args = append(args, startMonth, endMonth)
	conds = append(conds, fmt.Sprintf("to_char(sa.duration_month, 'YYYY-MM') BETWEEN $%d AND $%d", len(args)-1, len(args)))

	query += " WHERE " + strings.Join(conds, " AND ")
	query += " ORDER BY sa.duration_month, sa.id"

	var rows []domain.FlatRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapDBError(err)
	}
	return rows, nil
}

// FlatLatestMonth returns the most recent duration month matching the
// filter within an inclusive YYYY-MM window, or an empty string when
// nothing matches.
func (r *ReportRepository) FlatLatestMonth(ctx context.Context, filter domain.FlatExportFilter, from, to string) (string, error) {
	query := `
		SELECT to_char(MAX(sa.duration_month), 'YYYY-MM')
		FROM shift_allowances sa`

	conds, args := flatConds(filter)
	args = append(args, from, to)
	conds = append(conds, fmt.Sprintf("to_char(sa.duration_month, 'YYYY-MM') BETWEEN $%d AND $%d", len(args)-1, len(args)))

	query += " WHERE " + strings.Join(conds, " AND ")

	var month sql.NullString
	if err := r.db.GetContext(ctx, &month, query, args...); err != nil {
		return "", mapDBError(err)
	}
	return month.String, nil
}

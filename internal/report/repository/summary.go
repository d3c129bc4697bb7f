package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// SummaryFactsFilter scopes the fact query behind the client summary.
// Client and department names arrive lowercased, manager terms lowercased
// for substring matching.
type SummaryFactsFilter struct {
	Months   []string
	Clients  map[string][]string
	EmpID    string
	Managers []string
}

// SummaryFacts returns one row per shift mapping for the given months,
// joined with its parent allowance record. Rows come back in a stable
// order so repeated requests fold into identical summaries.
func (r *ReportRepository) SummaryFacts(ctx context.Context, filter SummaryFactsFilter) ([]domain.ShiftFact, error) {
	query := `
		SELECT
			sa.emp_id,
			COALESCE(sa.emp_name, '') AS emp_name,
			COALESCE(sa.client, '') AS client,
			COALESCE(sa.department, '') AS department,
			COALESCE(sa.account_manager, '') AS account_manager,
			to_char(sa.duration_month, 'YYYY-MM') AS month,
			COALESCE(sm.shift_type, '') AS shift_type,
			COALESCE(sm.days, 0) AS days
		FROM shift_allowances sa
		JOIN shift_mappings sm ON sm.shiftallowance_id = sa.id
		WHERE to_char(sa.duration_month, 'YYYY-MM') = ANY($1)`
	args := []interface{}{pq.Array(filter.Months)}

	if len(filter.Clients) > 0 {
		clients := make([]string, 0, len(filter.Clients))
		for client := range filter.Clients {
			clients = append(clients, client)
		}
		sort.Strings(clients)

		var conds []string
		for _, client := range clients {
			departments := filter.Clients[client]
			args = append(args, client)
			clientArg := len(args)
			if len(departments) > 0 {
				args = append(args, pq.Array(departments))
				conds = append(conds, fmt.Sprintf("(LOWER(sa.client) = $%d AND LOWER(sa.department) = ANY($%d))", clientArg, len(args)))
			} else {
				conds = append(conds, fmt.Sprintf("LOWER(sa.client) = $%d", clientArg))
			}
		}
		query += " AND (" + strings.Join(conds, " OR ") + ")"
	}

	if filter.EmpID != "" {
		args = append(args, strings.ToLower(filter.EmpID))
		query += fmt.Sprintf(" AND LOWER(sa.emp_id) = $%d", len(args))
	}

	if len(filter.Managers) > 0 {
		var conds []string
		for _, manager := range filter.Managers {
			args = append(args, "%"+manager+"%")
			conds = append(conds, fmt.Sprintf("LOWER(sa.account_manager) LIKE $%d", len(args)))
		}
		query += " AND (" + strings.Join(conds, " OR ") + ")"
	}

	query += " ORDER BY sa.duration_month, sa.id, sm.id"

	var facts []domain.ShiftFact
	if err := r.db.SelectContext(ctx, &facts, query, args...); err != nil {
		return nil, mapDBError(err)
	}
	return facts, nil
}

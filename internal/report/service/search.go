package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/catalog"
	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/period"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/internal/report/rollup"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// SearchService answers the employee shift detail search.
type SearchService struct {
	repo   *repository.ReportRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewSearchService creates a new search service
func NewSearchService(repo *repository.ReportRepository, log *logger.Logger) *SearchService {
	return &SearchService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Search returns overall shift totals plus one page of employee rows for
// the resolved window. Without any period selection the latest month with
// data in the last twelve months is used.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	if req == nil {
		req = &domain.SearchRequest{}
	}

	plan, err := period.BuildSearchPlan(req, s.now())
	if err != nil {
		return nil, err
	}

	if plan.NeedsDefault() {
		latest, err := s.latestWithinYear(ctx)
		if err != nil {
			return nil, err
		}
		plan.ApplyDefault(latest)
	}

	if err := plan.ValidateWindow(s.now()); err != nil {
		return nil, err
	}

	rows, err := s.repo.SearchRows(ctx, repository.SearchRowsFilter{
		Year:       plan.Year,
		Months:     plan.Months,
		StartMonth: plan.StartMonth,
		EndMonth:   plan.EndMonth,
		EmpID:      req.EmpID,
		Manager:    req.AccountManager,
		Client:     clientTerm(req.Client),
		Department: strings.TrimSpace(req.Department),
	})
	if err != nil {
		return nil, err
	}

	if plan.QuartersSelected {
		if !coversExpectedMonths(rows, plan.ExpectedMonths) {
			return nil, errors.NotFound("No data found for the selected quarter period")
		}
	}
	if len(rows) == 0 {
		return nil, errors.NotFound("No data found for the selected period")
	}

	allowanceIDs := make([]int64, 0, len(rows))
	distinctEmps := make(map[string]bool)
	for _, r := range rows {
		allowanceIDs = append(allowanceIDs, r.ID)
		distinctEmps[r.EmpID] = true
	}

	mappings, err := s.repo.MappingsFor(ctx, allowanceIDs)
	if err != nil {
		return nil, err
	}

	rateRows, err := s.repo.Rates(ctx)
	if err != nil {
		return nil, err
	}
	rates := rollup.NewRateTable(rateRows)

	overall, overallTotal := overallShiftTotals(rows, mappings, rates)

	details := make(map[string]interface{}, len(overall)+2)
	for label, amount := range overall {
		if amount > 0 {
			details[label] = amount
		}
	}
	details["headcount"] = len(distinctEmps)
	details["total_allowance"] = round2(overallTotal)

	page := paginate(rows, req.Start, req.PageLimit())

	return &domain.SearchResponse{
		TotalRecords: len(rows),
		ShiftDetails: details,
		Data:         domain.SearchData{Employees: buildEmployees(page, mappings, rates)},
	}, nil
}

// latestWithinYear finds the most recent month with data inside the last
// twelve calendar months.
func (s *SearchService) latestWithinYear(ctx context.Context) (string, error) {
	current := period.FirstOfMonth(s.now())
	from := period.Format(current.AddDate(0, -11, 0))
	to := period.Format(current)

	month, err := s.repo.LatestMonthBetween(ctx, from, to)
	if err != nil {
		return "", err
	}
	if month == "" {
		return "", errors.NotFound("No data found in the last 12 months")
	}
	return month, nil
}

// clientTerm resolves the client filter term: catalog keys expand to the
// canonical client name, ALL and blank mean no filter.
func clientTerm(client string) string {
	trimmed := strings.TrimSpace(client)
	if trimmed == "" || strings.ToUpper(trimmed) == "ALL" {
		return ""
	}
	return strings.TrimSpace(catalog.CanonicalName(client))
}

// coversExpectedMonths checks that the result months cover exactly the
// months a quarter selection expects.
func coversExpectedMonths(rows []domain.SearchRow, expected []string) bool {
	available := make(map[string]bool, len(rows))
	for _, r := range rows {
		available[r.DurationMonth] = true
	}
	if len(available) != len(expected) {
		return false
	}
	for _, m := range expected {
		if !available[m] {
			return false
		}
	}
	return true
}

func overallShiftTotals(
	rows []domain.SearchRow,
	mappings map[int64][]domain.MappingDays,
	rates *rollup.RateTable,
) (map[string]float64, float64) {
	overall := make(map[string]float64, len(domain.ShiftLabels))
	for _, label := range domain.ShiftLabels {
		overall[label] = 0
	}

	var total float64
	for _, row := range rows {
		for _, m := range mappings[row.ID] {
			days := m.Days.InexactFloat64()
			if days <= 0 {
				continue
			}
			key := domain.NormalizeShiftType(m.ShiftType)
			label, known := domain.ShiftLabels[key]
			if !known {
				continue
			}
			amount := rates.AmountForMonth(key, row.DurationMonth).Mul(m.Days).InexactFloat64()
			overall[label] += amount
			total += amount
		}
	}
	return overall, total
}

func buildEmployees(
	rows []domain.SearchRow,
	mappings map[int64][]domain.MappingDays,
	rates *rollup.RateTable,
) []domain.SearchEmployee {
	employees := make([]domain.SearchEmployee, 0, len(rows))

	for _, row := range rows {
		shiftDays := make(map[string]float64)
		var total float64

		for _, m := range mappings[row.ID] {
			days := m.Days.InexactFloat64()
			if days <= 0 {
				continue
			}
			key := domain.NormalizeShiftType(m.ShiftType)
			total += rates.AmountForMonth(key, row.DurationMonth).Mul(m.Days).InexactFloat64()

			label, known := domain.ShiftLabels[key]
			if !known {
				label = m.ShiftType
			}
			shiftDays[label] += days
		}

		details := make(map[string]int, len(shiftDays))
		for label, days := range shiftDays {
			details[label] = int(days)
		}

		employees = append(employees, domain.SearchEmployee{
			EmpID:          row.EmpID,
			EmpName:        row.EmpName,
			Department:     row.Department,
			Client:         row.Client,
			Project:        row.Project,
			AccountManager: row.AccountManager,
			DurationMonth:  row.DurationMonth,
			PayrollMonth:   row.PayrollMonth,
			ShiftDetails:   details,
			TotalAllowance: round2(total),
		})
	}
	return employees
}

func paginate(rows []domain.SearchRow, start, limit int) []domain.SearchRow {
	if start < 0 {
		start = 0
	}
	if start >= len(rows) || limit <= 0 {
		return nil
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

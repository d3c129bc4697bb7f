package service

import (
	"context"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/period"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// MonthSearchService answers the month-range shift record search.
type MonthSearchService struct {
	repo   *repository.ReportRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewMonthSearchService creates a new month search service
func NewMonthSearchService(repo *repository.ReportRepository, log *logger.Logger) *MonthSearchService {
	return &MonthSearchService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// SearchByMonthRange returns shift records for a single month or an
// inclusive month range, each carrying labeled day counts per shift.
func (s *MonthSearchService) SearchByMonthRange(ctx context.Context, startMonth, endMonth string) ([]map[string]interface{}, error) {
	if startMonth == "" && endMonth == "" {
		return nil, errors.BadRequest("Provide at least one month.")
	}

	if startMonth != "" {
		if _, err := period.Parse(startMonth); err != nil {
			return nil, errors.BadRequest("Invalid month format. Use YYYY-MM")
		}
	}
	if endMonth != "" {
		end, err := period.Parse(endMonth)
		if err != nil {
			return nil, errors.BadRequest("Invalid month format. Use YYYY-MM")
		}
		today := s.now()
		if end.After(period.FirstOfMonth(today)) {
			return nil, errors.BadRequest("end_month cannot be greater than " + period.Format(today))
		}
	}

	// a single bound selects exactly that month
	from, to := startMonth, endMonth
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}

	rows, err := s.repo.MonthRangeRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NotFound("No records found for given month range")
	}

	records := make([]map[string]interface{}, 0, len(rows))
	allowanceIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		allowanceIDs = append(allowanceIDs, r.ID)
	}

	mappings, err := s.repo.MappingsFor(ctx, allowanceIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := map[string]interface{}{
			"emp_id":          row.EmpID,
			"emp_name":        row.EmpName,
			"grade":           row.Grade,
			"department":      row.Department,
			"client":          row.Client,
			"project":         row.Project,
			"account_manager": row.AccountManager,
			"duration_month":  row.DurationMonth,
			"payroll_month":   row.PayrollMonth,
		}

		for _, m := range mappings[row.ID] {
			days := m.Days.InexactFloat64()
			if days <= 0 {
				continue
			}
			label, known := domain.ShiftLabels[m.ShiftType]
			if !known {
				label = m.ShiftType
			}
			record[label] = days
		}

		records = append(records, record)
	}

	return records, nil
}

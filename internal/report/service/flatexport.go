package service

import (
	"context"
	"strings"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/excel"
	"github.com/shiftpay/shiftpay-backend/internal/report/period"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/internal/report/rollup"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// FlatExportService builds the flat per-row Excel export of allowance
// records with their shift breakdown strings.
type FlatExportService struct {
	repo   *repository.ReportRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewFlatExportService creates a new flat export service
func NewFlatExportService(repo *repository.ReportRepository, log *logger.Logger) *FlatExportService {
	return &FlatExportService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Export returns the filtered allowance rows as an xlsx workbook. Without
// a month window it serves the latest month with matching data in the
// last twelve months.
func (s *FlatExportService) Export(ctx context.Context, filter domain.FlatExportFilter) ([]byte, error) {
	startMonth, endMonth, err := s.resolveWindow(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FlatRows(ctx, filter, startMonth, endMonth)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NotFound("No records found for given filters")
	}

	rateRows, err := s.repo.Rates(ctx)
	if err != nil {
		return nil, err
	}
	rates := rollup.NewRateTable(rateRows)

	allowanceIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		allowanceIDs = append(allowanceIDs, row.ID)
	}
	mappings, err := s.repo.MappingsFor(ctx, allowanceIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]excel.FlatLine, 0, len(rows))
	for _, row := range rows {
		details, total := shiftDetailEntries(mappings[row.ID], rates, row.DurationMonth)
		lines = append(lines, excel.FlatLine{
			EmpID:             row.EmpID,
			EmpName:           row.EmpName,
			Department:        row.Department,
			Client:            row.Client,
			Project:           row.Project,
			ProjectCode:       row.ProjectCode,
			ClientPartner:     row.AccountManager,
			ShiftDetails:      details,
			DeliveryManager:   row.DeliveryManager,
			PracticeLead:      row.PracticeLead,
			BillabilityStatus: row.BillabilityStatus,
			PracticeRemarks:   row.PracticeRemarks,
			RMGComments:       row.RMGComments,
			DurationMonth:     row.DurationMonth,
			PayrollMonth:      row.PayrollMonth,
			TotalAllowance:    total,
		})
	}

	s.logger.Info().
		Int("rows", len(lines)).
		Str("start_month", startMonth).
		Str("end_month", endMonth).
		Msg("flat shift export built")

	return excel.WriteFlat(lines)
}

// resolveWindow turns the optional start and end months into the concrete
// query window.
func (s *FlatExportService) resolveWindow(ctx context.Context, filter domain.FlatExportFilter) (string, string, error) {
	if filter.StartMonth == "" && filter.EndMonth == "" {
		current := period.FirstOfMonth(s.now())
		from := current.AddDate(0, -11, 0)
		latest, err := s.repo.FlatLatestMonth(ctx, filter, period.Format(from), period.Format(current))
		if err != nil {
			return "", "", err
		}
		if latest == "" {
			return "", "", errors.NotFound("No data found in last 12 months")
		}
		return latest, latest, nil
	}

	if filter.StartMonth == "" {
		return "", "", errors.BadRequest("start_month is required when end_month is provided")
	}
	start, err := period.Parse(filter.StartMonth)
	if err != nil {
		return "", "", errors.BadRequest("start_month must be YYYY-MM")
	}
	if filter.EndMonth == "" {
		return filter.StartMonth, filter.StartMonth, nil
	}
	end, err := period.Parse(filter.EndMonth)
	if err != nil {
		return "", "", errors.BadRequest("end_month must be YYYY-MM")
	}
	if start.After(end) {
		return "", "", errors.BadRequest("start_month cannot be after end_month")
	}
	return filter.StartMonth, filter.EndMonth, nil
}

// shiftDetailEntries renders the "A-10*500=₹5,000" breakdown of one row
// and its total allowance. Mappings without positive days are skipped;
// the raw uppercased type stands in for shifts without a configured rate.
func shiftDetailEntries(mappings []domain.MappingDays, rates *rollup.RateTable, month string) (string, float64) {
	var entries []string
	var total float64
	for _, m := range mappings {
		days := m.Days.InexactFloat64()
		if days <= 0 {
			continue
		}
		label := strings.ToUpper(m.ShiftType)
		rate := rates.AmountForMonth(label, month)
		amount := rate.Mul(m.Days).InexactFloat64()
		total += amount
		entries = append(entries, excel.ShiftEntry(label, int64(days), rate.IntPart(), int64(amount)))
	}
	return strings.Join(entries, ", "), total
}

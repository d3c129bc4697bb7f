package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/period"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/internal/report/rollup"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// monthPattern matches the strict YYYY-MM month argument. Out-of-range
// month numbers pass the format check and simply match no records.
var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ShiftSummaryService aggregates one month of allowances per account
// manager and client.
type ShiftSummaryService struct {
	repo   *repository.ReportRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewShiftSummaryService creates a new shift summary service
func NewShiftSummaryService(repo *repository.ReportRepository, log *logger.Logger) *ShiftSummaryService {
	return &ShiftSummaryService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// MonthlySummary groups one month's allowance facts by account manager
// and client, counting distinct employees and totaling days per shift.
// Without a duration_month it falls back to the nearest month with data
// on or before the current one.
func (s *ShiftSummaryService) MonthlySummary(ctx context.Context, durationMonth, accountManager string) (map[string][]domain.ShiftSummaryRow, error) {
	if accountManager != "" {
		if accountManager != strings.TrimSpace(accountManager) {
			return nil, errors.BadRequest("Spaces are not allowed at start/end of account_manager")
		}
		if !lettersAndSpaces(accountManager) {
			return nil, errors.BadRequest("Account manager must contain only letters and spaces")
		}
		exists, err := s.repo.ManagerExists(ctx, accountManager)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.NotFound("Account manager '" + accountManager + "' not found")
		}
	}

	monthStr := durationMonth
	if monthStr != "" {
		if strings.Contains(monthStr, " ") {
			return nil, errors.BadRequest("Spaces are not allowed in duration_month")
		}
		if !monthPattern.MatchString(monthStr) {
			return nil, errors.BadRequest("Invalid duration_month format. Use YYYY-MM")
		}
	} else {
		nearest, err := s.repo.NearestMonth(ctx, period.Format(s.now()), accountManager)
		if err != nil {
			return nil, err
		}
		if nearest == "" {
			return nil, errors.NotFound("No records found for current or previous months")
		}
		monthStr = nearest
	}

	year, _ := strconv.Atoi(monthStr[:4])
	month, _ := strconv.Atoi(monthStr[5:7])

	facts, err := s.repo.MonthManagerFacts(ctx, year, month, accountManager)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		msg := "No records found for duration_month '" + monthStr + "'"
		if accountManager != "" {
			msg += " for manager " + accountManager
		}
		return nil, errors.NotFound(msg)
	}

	rateRows, err := s.repo.Rates(ctx)
	if err != nil {
		return nil, err
	}
	rates := rollup.NewRateTable(rateRows)

	rows := foldManagerFacts(facts, rates, monthStr)

	s.logger.Debug().
		Str("duration_month", monthStr).
		Int("rows", len(rows)).
		Msg("monthly shift summary built")

	return map[string][]domain.ShiftSummaryRow{monthStr: rows}, nil
}

// foldManagerFacts accumulates facts into manager and client buckets,
// preserving first-seen order of managers and of clients within each
// manager.
func foldManagerFacts(facts []domain.ManagerFact, rates *rollup.RateTable, month string) []domain.ShiftSummaryRow {
	type bucket struct {
		employees      map[string]struct{}
		a, b, c, prime decimal.Decimal
		allowance      decimal.Decimal
	}

	buckets := make(map[string]map[string]*bucket)
	var managerOrder []string
	clientOrder := make(map[string][]string)

	for _, f := range facts {
		manager := f.AccountManager
		if manager == "" {
			manager = "Unknown"
		}
		client := f.Client
		if client == "" {
			client = "Unknown"
		}

		clients, ok := buckets[manager]
		if !ok {
			clients = make(map[string]*bucket)
			buckets[manager] = clients
			managerOrder = append(managerOrder, manager)
		}
		b, ok := clients[client]
		if !ok {
			b = &bucket{employees: make(map[string]struct{})}
			clients[client] = b
			clientOrder[manager] = append(clientOrder[manager], client)
		}

		b.employees[f.EmpID] = struct{}{}

		// allowances without mappings still count their employee
		if f.ShiftType == "" && f.Days.IsZero() {
			continue
		}

		shiftType := domain.NormalizeShiftType(f.ShiftType)
		switch shiftType {
		case "A":
			b.a = b.a.Add(f.Days)
		case "B":
			b.b = b.b.Add(f.Days)
		case "C":
			b.c = b.c.Add(f.Days)
		case "PRIME":
			b.prime = b.prime.Add(f.Days)
		}
		b.allowance = b.allowance.Add(f.Days.Mul(rates.AmountForMonth(shiftType, month)))
	}

	var rows []domain.ShiftSummaryRow
	for _, manager := range managerOrder {
		for _, client := range clientOrder[manager] {
			b := buckets[manager][client]
			totalDays := b.a.Add(b.b).Add(b.c).Add(b.prime)
			rows = append(rows, domain.ShiftSummaryRow{
				AccountManager:  manager,
				Client:          client,
				TotalEmployees:  len(b.employees),
				ShiftADays:      b.a.InexactFloat64(),
				ShiftBDays:      b.b.InexactFloat64(),
				ShiftCDays:      b.c.InexactFloat64(),
				PrimeDays:       b.prime.InexactFloat64(),
				TotalDays:       totalDays.InexactFloat64(),
				TotalAllowances: b.allowance.InexactFloat64(),
				DurationMonth:   month,
			})
		}
	}
	return rows
}

// lettersAndSpaces reports whether s contains only letters and spaces.
func lettersAndSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

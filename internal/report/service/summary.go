// Package service implements the report business logic on top of the
// repository, rollup, and cache layers.
package service

import (
	"context"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/cache"
	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/period"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/internal/report/rollup"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// SummaryService builds the client-wise shift allowance summary.
type SummaryService struct {
	repo   *repository.ReportRepository
	store  cache.Store
	logger *logger.Logger
	now    func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(repo *repository.ReportRepository, store cache.Store, log *logger.Logger) *SummaryService {
	return &SummaryService{
		repo:   repo,
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Summary returns the period, client, department, and employee rollup for
// the requested window. The unfiltered latest-month request is served from
// and refills the latest-period cache.
func (s *SummaryService) Summary(ctx context.Context, req *domain.SummaryRequest) (domain.Summary, error) {
	if req == nil {
		req = &domain.SummaryRequest{}
	}

	if req.IsDefaultShape() {
		if entry, ok := s.store.Get(cache.KeyLatestSummary); ok {
			if cached, ok := entry.(*domain.CachedSummary); ok {
				s.logger.Debug().Str("cached_month", cached.CachedMonth).Msg("serving client summary from cache")
				return cached.Data, nil
			}
		}
	}

	filter, err := rollup.NormalizeClients(req.Clients)
	if err != nil {
		return nil, err
	}

	res, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	facts, err := s.repo.SummaryFacts(ctx, repository.SummaryFactsFilter{
		Months:   res.Months,
		Clients:  filter.Departments,
		EmpID:    req.EmpID,
		Managers: req.ManagerFilters(),
	})
	if err != nil {
		return nil, err
	}

	if err := checkQuarterCoverage(res, facts); err != nil {
		return nil, err
	}

	rateRows, err := s.repo.Rates(ctx)
	if err != nil {
		return nil, err
	}
	rates := rollup.NewRateTable(rateRows)

	summary := rollup.BuildSummary(res, facts, rates, filter)

	if req.IsDefaultShape() {
		s.store.Set(cache.KeyLatestSummary, &domain.CachedSummary{
			CachedMonth: res.Months[0],
			Data:        summary,
		})
		s.logger.Debug().Str("cached_month", res.Months[0]).Msg("refreshed latest summary cache")
	}

	return summary, nil
}

// resolve picks the summary window, fetching the latest month only when
// the request names no period of its own.
func (s *SummaryService) resolve(ctx context.Context, req *domain.SummaryRequest) (*period.Resolution, error) {
	latest := ""
	if needsLatest(req) {
		month, err := s.repo.LatestMonth(ctx)
		if err != nil {
			return nil, err
		}
		if month == "" {
			return nil, errors.NotFound("No data available in database")
		}
		latest = month
	}
	return period.ResolveSummary(req, latest, s.now())
}

func needsLatest(req *domain.SummaryRequest) bool {
	if req.StartMonth != "" && req.EndMonth != "" {
		return false
	}
	if req.SelectedYear != 0 && len(req.SelectedMonths) > 0 {
		return false
	}
	if req.SelectedYear != 0 && len(req.SelectedQuarters) > 0 {
		return false
	}
	return true
}

// checkQuarterCoverage rejects quarter selections where only part of a
// quarter's months have data. Quarters with no data at all keep their
// empty-period message instead.
func checkQuarterCoverage(res *period.Resolution, facts []domain.ShiftFact) error {
	if len(res.Quarters) == 0 {
		return nil
	}

	present := rollup.MonthsWithData(facts)
	for _, months := range res.Quarters {
		var have int
		for _, m := range months {
			if present[m] {
				have++
			}
		}
		if have > 0 && have < len(months) {
			return errors.NotFound("No data found for the selected quarter period")
		}
	}
	return nil
}

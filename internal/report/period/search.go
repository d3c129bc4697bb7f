package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

// ValidateSearchYear checks a search-endpoint year selection, which is
// carried as a string.
func ValidateSearchYear(year string, today time.Time) (int, error) {
	if !allDigits(year) || len(year) != 4 {
		return 0, errors.BadRequest("selected_year must be a 4-digit year (YYYY)")
	}
	value, err := strconv.Atoi(year)
	if err != nil {
		return 0, errors.BadRequest("selected_year must be a 4-digit year (YYYY)")
	}
	if value > today.Year() {
		return 0, errors.BadRequest("Future year cannot be selected")
	}
	return value, nil
}

// ValidateSearchMonth checks a search-endpoint month selection.
func ValidateSearchMonth(month string) (int, error) {
	if !allDigits(month) {
		return 0, errors.BadRequest("selected_months must be between 01 and 12")
	}
	value, err := strconv.Atoi(month)
	if err != nil || value < 1 || value > 12 {
		return 0, errors.BadRequest("selected_months must be between 01 and 12")
	}
	return value, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SearchPlan is the resolved window of an employee search: either a year
// with an explicit month set, or a start and end month range. ExpectedMonths
// carries the months a quarter selection must fully cover.
type SearchPlan struct {
	Year             int
	Months           []int
	StartMonth       string
	EndMonth         string
	QuartersSelected bool
	ExpectedMonths   []string
}

// HasMonthSet reports whether the plan filters by an explicit month set
// instead of a range.
func (p *SearchPlan) HasMonthSet() bool {
	return len(p.Months) > 0
}

// NeedsDefault reports whether the window is still missing a bound and
// must fall back to the latest month with data.
func (p *SearchPlan) NeedsDefault() bool {
	return p.StartMonth == "" || p.EndMonth == ""
}

// ApplyDefault fills missing bounds with the latest available month.
func (p *SearchPlan) ApplyDefault(latest string) {
	if p.StartMonth == "" {
		p.StartMonth = latest
	}
	if p.EndMonth == "" {
		p.EndMonth = latest
	}
}

// ValidateWindow checks the final month bounds and rejects ranges that
// reach into the future.
func (p *SearchPlan) ValidateWindow(today time.Time) error {
	if _, err := Parse(p.StartMonth); err != nil {
		return errors.BadRequest("start_month must be in YYYY-MM format")
	}
	end, err := Parse(p.EndMonth)
	if err != nil {
		return errors.BadRequest("end_month must be in YYYY-MM format")
	}
	if end.After(FirstOfMonth(today)) {
		return errors.BadRequest("Future months are not allowed in date range")
	}
	return nil
}

// BuildSearchPlan resolves the year, month, and quarter selections of a
// search request into a queryable window. Quarters must have started;
// months of a running quarter that lie in the future are trimmed away.
func BuildSearchPlan(req *domain.SearchRequest, today time.Time) (*SearchPlan, error) {
	plan := &SearchPlan{
		StartMonth:       req.StartMonth,
		EndMonth:         req.EndMonth,
		QuartersSelected: len(req.SelectedQuarters) > 0,
	}

	if req.SelectedYear == "" {
		return plan, nil
	}

	year, err := ValidateSearchYear(req.SelectedYear, today)
	if err != nil {
		return nil, err
	}

	allowed := make(map[int]bool)

	for _, m := range req.SelectedMonths {
		number, err := ValidateSearchMonth(m)
		if err != nil {
			return nil, err
		}
		if year == today.Year() && number > int(today.Month()) {
			return nil, errors.BadRequest(fmt.Sprintf("Future month %02d is not allowed", number))
		}
		allowed[number] = true
	}

	if len(req.SelectedQuarters) > 0 {
		for _, q := range req.SelectedQuarters {
			if _, ok := quarterNumbers[strings.ToUpper(q)]; !ok {
				return nil, errors.BadRequest("selected_quarters must be one of Q1, Q2, Q3, Q4")
			}
		}
		for _, q := range req.SelectedQuarters {
			numbers := quarterNumbers[strings.ToUpper(q)]
			started := false
			for _, n := range numbers {
				if monthStarted(year, n, today) {
					started = true
					break
				}
			}
			if !started {
				return nil, errors.BadRequest(strings.ToUpper(q) + " has not started yet and cannot be selected")
			}
			for _, n := range numbers {
				if monthStarted(year, n, today) {
					allowed[n] = true
				}
			}
		}
	}

	if len(allowed) > 0 {
		plan.Year = year
		plan.Months = sortedMonths(allowed)
		plan.StartMonth = MonthKey(year, plan.Months[0])
		plan.EndMonth = MonthKey(year, plan.Months[len(plan.Months)-1])
		if plan.QuartersSelected {
			for _, n := range plan.Months {
				plan.ExpectedMonths = append(plan.ExpectedMonths, MonthKey(year, n))
			}
		}
	}

	return plan, nil
}

func monthStarted(year, month int, today time.Time) bool {
	return year < today.Year() || (year == today.Year() && month <= int(today.Month()))
}

func sortedMonths(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

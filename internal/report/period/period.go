// Package period resolves the reporting windows of the shift allowance
// endpoints: explicit month ranges, year plus month or quarter selections,
// and the latest-month default.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

// Layout is the month format used across the reporting surface.
const Layout = "2006-01"

var quarterNumbers = map[string][]int{
	"Q1": {1, 2, 3},
	"Q2": {4, 5, 6},
	"Q3": {7, 8, 9},
	"Q4": {10, 11, 12},
}

// Parse converts a YYYY-MM value into the first day of that month in UTC.
func Parse(value string) (time.Time, error) {
	return time.Parse(Layout, value)
}

// Format renders the month of t in YYYY-MM form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// MonthKey renders a year and calendar month in YYYY-MM form.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// FirstOfMonth truncates t to the first day of its month in UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ValidateYear checks a summary-endpoint year selection.
func ValidateYear(year int, today time.Time) error {
	if year <= 0 {
		return errors.BadRequest("selected_year must be greater than 0")
	}
	if year > today.Year() {
		return errors.BadRequest("selected_year cannot be in the future")
	}
	return nil
}

// ParseSummaryMonth parses a YYYY-MM value with the summary-endpoint
// error message.
func ParseSummaryMonth(value string) (time.Time, error) {
	t, err := Parse(value)
	if err != nil {
		return time.Time{}, errors.BadRequest("Invalid month format. Expected YYYY-MM")
	}
	return t, nil
}

// QuarterMonths resolves a quarter name (Q1-Q4, any case) into its
// calendar month numbers.
func QuarterMonths(quarter string) ([]int, error) {
	key := strings.ToUpper(strings.TrimSpace(quarter))
	months, ok := quarterNumbers[key]
	if !ok {
		return nil, errors.BadRequest("Invalid quarter (expected Q1–Q4)")
	}
	return months, nil
}

// MonthsBetween expands an inclusive month range into its month-start
// dates.
func MonthsBetween(start, end time.Time) ([]time.Time, error) {
	if start.After(end) {
		return nil, errors.BadRequest("start_month cannot be after end_month")
	}
	var months []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 1, 0) {
		months = append(months, current)
	}
	return months, nil
}

// Resolution is the outcome of summary window resolution: the response
// period labels, the months to query, and the month-to-period mapping that
// folds facts into periods.
type Resolution struct {
	Periods  []string
	Months   []string
	Quarters map[string][]string
	periodOf map[string]string
}

// PeriodFor returns the period label a duration month folds into.
func (r *Resolution) PeriodFor(month string) (string, bool) {
	label, ok := r.periodOf[month]
	return label, ok
}

func fromMonths(months []string) *Resolution {
	res := &Resolution{periodOf: make(map[string]string, len(months))}
	for _, m := range months {
		if _, seen := res.periodOf[m]; seen {
			continue
		}
		res.periodOf[m] = m
		res.Periods = append(res.Periods, m)
		res.Months = append(res.Months, m)
	}
	return res
}

func formatMonths(months []time.Time) []string {
	out := make([]string, 0, len(months))
	for _, m := range months {
		out = append(out, Format(m))
	}
	return out
}

// ResolveSummary picks the summary window for a request. Strategies are
// tried in priority order: explicit start and end months, a year with
// selected months, a year with selected quarters, then the latest month
// with data.
func ResolveSummary(req *domain.SummaryRequest, latest string, today time.Time) (*Resolution, error) {
	if req == nil {
		req = &domain.SummaryRequest{}
	}

	switch {
	case req.StartMonth != "" && req.EndMonth != "":
		start, err := ParseSummaryMonth(req.StartMonth)
		if err != nil {
			return nil, err
		}
		end, err := ParseSummaryMonth(req.EndMonth)
		if err != nil {
			return nil, err
		}
		months, err := MonthsBetween(start, end)
		if err != nil {
			return nil, err
		}
		return fromMonths(formatMonths(months)), nil

	case req.SelectedYear != 0 && len(req.SelectedMonths) > 0:
		if err := ValidateYear(req.SelectedYear, today); err != nil {
			return nil, err
		}
		months := make([]string, 0, len(req.SelectedMonths))
		for _, m := range req.SelectedMonths {
			if m < 1 || m > 12 {
				return nil, errors.BadRequest("selected_months must be between 01 and 12")
			}
			months = append(months, MonthKey(req.SelectedYear, m))
		}
		return fromMonths(months), nil

	case req.SelectedYear != 0 && len(req.SelectedQuarters) > 0:
		if err := ValidateYear(req.SelectedYear, today); err != nil {
			return nil, err
		}
		res := &Resolution{
			Quarters: make(map[string][]string, len(req.SelectedQuarters)),
			periodOf: make(map[string]string),
		}
		for _, q := range req.SelectedQuarters {
			numbers, err := QuarterMonths(q)
			if err != nil {
				return nil, err
			}
			first := MonthKey(req.SelectedYear, numbers[0])
			last := MonthKey(req.SelectedYear, numbers[len(numbers)-1])
			label := first + " - " + last
			if _, seen := res.Quarters[label]; seen {
				continue
			}
			months := make([]string, 0, len(numbers))
			for _, n := range numbers {
				month := MonthKey(req.SelectedYear, n)
				months = append(months, month)
				res.periodOf[month] = label
				res.Months = append(res.Months, month)
			}
			res.Quarters[label] = months
			res.Periods = append(res.Periods, label)
		}
		return res, nil

	default:
		return fromMonths([]string{latest}), nil
	}
}

package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

var testToday = time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)

func requireBadRequest(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	assert.Equal(t, message, appErr.Message)
}

func TestMonthsBetween_Lengths(t *testing.T) {
	tests := []struct {
		start string
		end   string
	}{
		{"2024-01", "2024-01"},
		{"2024-01", "2024-06"},
		{"2023-11", "2024-02"},
		{"2020-01", "2024-12"},
	}

	for _, tt := range tests {
		t.Run(tt.start+".."+tt.end, func(t *testing.T) {
			start, err := Parse(tt.start)
			require.NoError(t, err)
			end, err := Parse(tt.end)
			require.NoError(t, err)

			months, err := MonthsBetween(start, end)
			require.NoError(t, err)

			wantLen := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
			assert.Len(t, months, wantLen)
			assert.Equal(t, start, months[0])
			assert.Equal(t, end, months[len(months)-1])
		})
	}
}

func TestMonthsBetween_StartAfterEnd(t *testing.T) {
	start, _ := Parse("2024-02")
	end, _ := Parse("2024-01")
	_, err := MonthsBetween(start, end)
	requireBadRequest(t, err, "start_month cannot be after end_month")
}

func TestQuarterMonths(t *testing.T) {
	months, err := QuarterMonths(" q2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, months)

	_, err = QuarterMonths("Q5")
	requireBadRequest(t, err, "Invalid quarter (expected Q1–Q4)")
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, ValidateYear(2024, testToday))
	requireBadRequest(t, ValidateYear(0, testToday), "selected_year must be greater than 0")
	requireBadRequest(t, ValidateYear(-3, testToday), "selected_year must be greater than 0")
	requireBadRequest(t, ValidateYear(2025, testToday), "selected_year cannot be in the future")
}

func TestResolveSummary_RangeStrategy(t *testing.T) {
	req := &domain.SummaryRequest{StartMonth: "2024-01", EndMonth: "2024-03"}

	res, err := ResolveSummary(req, "2024-06", testToday)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, res.Periods)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, res.Months)

	label, ok := res.PeriodFor("2024-02")
	require.True(t, ok)
	assert.Equal(t, "2024-02", label)
}

func TestResolveSummary_RangeBadFormat(t *testing.T) {
	req := &domain.SummaryRequest{StartMonth: "01-2024", EndMonth: "2024-03"}
	_, err := ResolveSummary(req, "2024-06", testToday)
	requireBadRequest(t, err, "Invalid month format. Expected YYYY-MM")
}

func TestResolveSummary_RangeInverted(t *testing.T) {
	req := &domain.SummaryRequest{StartMonth: "2024-02", EndMonth: "2024-01"}
	_, err := ResolveSummary(req, "2024-06", testToday)
	requireBadRequest(t, err, "start_month cannot be after end_month")
}

func TestResolveSummary_MonthStrategy(t *testing.T) {
	req := &domain.SummaryRequest{SelectedYear: 2024, SelectedMonths: []int{3, 1}}

	res, err := ResolveSummary(req, "2024-06", testToday)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03", "2024-01"}, res.Periods)
	assert.Equal(t, []string{"2024-03", "2024-01"}, res.Months)
}

func TestResolveSummary_MonthStrategyRejectsBadMonth(t *testing.T) {
	req := &domain.SummaryRequest{SelectedYear: 2024, SelectedMonths: []int{13}}
	_, err := ResolveSummary(req, "2024-06", testToday)
	requireBadRequest(t, err, "selected_months must be between 01 and 12")
}

func TestResolveSummary_MonthStrategyRejectsFutureYear(t *testing.T) {
	req := &domain.SummaryRequest{SelectedYear: 2025, SelectedMonths: []int{1}}
	_, err := ResolveSummary(req, "2024-06", testToday)
	requireBadRequest(t, err, "selected_year cannot be in the future")
}

func TestResolveSummary_QuarterStrategy(t *testing.T) {
	req := &domain.SummaryRequest{SelectedYear: 2024, SelectedQuarters: []string{"Q2", "q2", "Q1"}}

	res, err := ResolveSummary(req, "2024-06", testToday)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-04 - 2024-06", "2024-01 - 2024-03"}, res.Periods)
	assert.Equal(t, []string{"2024-04", "2024-05", "2024-06", "2024-01", "2024-02", "2024-03"}, res.Months)
	assert.Equal(t, []string{"2024-04", "2024-05", "2024-06"}, res.Quarters["2024-04 - 2024-06"])

	label, ok := res.PeriodFor("2024-05")
	require.True(t, ok)
	assert.Equal(t, "2024-04 - 2024-06", label)
}

func TestResolveSummary_QuarterStrategyRejectsBadQuarter(t *testing.T) {
	req := &domain.SummaryRequest{SelectedYear: 2024, SelectedQuarters: []string{"Q7"}}
	_, err := ResolveSummary(req, "2024-06", testToday)
	requireBadRequest(t, err, "Invalid quarter (expected Q1–Q4)")
}

func TestResolveSummary_DefaultStrategy(t *testing.T) {
	res, err := ResolveSummary(nil, "2024-06", testToday)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06"}, res.Periods)
	assert.Equal(t, []string{"2024-06"}, res.Months)
}

func TestResolveSummary_StrategyPriority(t *testing.T) {
	// An explicit range wins over month selections.
	req := &domain.SummaryRequest{
		StartMonth:     "2024-01",
		EndMonth:       "2024-01",
		SelectedYear:   2024,
		SelectedMonths: []int{5},
	}
	res, err := ResolveSummary(req, "2024-06", testToday)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01"}, res.Periods)

	// Months without a year fall back to the latest month.
	res, err = ResolveSummary(&domain.SummaryRequest{SelectedMonths: []int{5}}, "2024-06", testToday)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06"}, res.Periods)
}

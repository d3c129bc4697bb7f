package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/pkg/testutil"
)

func newShiftSummaryService() *ShiftSummaryService {
	svc := NewShiftSummaryService(repository.NewReportRepository(suite.DB), suite.Logger)
	svc.now = fixedClock()
	return svc
}

func TestShiftSummaryService_ManagerValidation(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	factory := testutil.NewFixtureFactory()
	a := factory.Allowance(testutil.WithManager("Ravi Nair"), testutil.WithDurationMonth("2024-03"))
	suite.Seed(t, ctx, []testutil.AllowanceFixture{a}, nil, nil)

	svc := newShiftSummaryService()

	t.Run("surrounding spaces are rejected", func(t *testing.T) {
		_, err := svc.MonthlySummary(ctx, "", " Ravi Nair")
		requireAppError(t, err, 400, "Spaces are not allowed at start/end of account_manager")
	})

	t.Run("only letters and spaces are allowed", func(t *testing.T) {
		_, err := svc.MonthlySummary(ctx, "", "Ravi2")
		requireAppError(t, err, 400, "Account manager must contain only letters and spaces")
	})

	t.Run("unknown manager", func(t *testing.T) {
		_, err := svc.MonthlySummary(ctx, "", "Ghost")
		requireAppError(t, err, 404, "Account manager 'Ghost' not found")
	})
}

func TestShiftSummaryService_MonthValidation(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	svc := newShiftSummaryService()

	t.Run("spaces in the month", func(t *testing.T) {
		_, err := svc.MonthlySummary(ctx, "2024 03", "")
		requireAppError(t, err, 400, "Spaces are not allowed in duration_month")
	})

	t.Run("malformed month", func(t *testing.T) {
		for _, month := range []string{"2024/03", "2024-3", "03-2024"} {
			_, err := svc.MonthlySummary(ctx, month, "")
			requireAppError(t, err, 400, "Invalid duration_month format. Use YYYY-MM")
		}
	})

	t.Run("well-formed month without records", func(t *testing.T) {
		_, err := svc.MonthlySummary(ctx, "2024-13", "")
		requireAppError(t, err, 404, "No records found for duration_month '2024-13'")
	})
}

func TestShiftSummaryService_DefaultNearestMonth(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	factory := testutil.NewFixtureFactory()
	a1 := factory.Allowance(
		testutil.WithEmp("E100", "Asha Verma"),
		testutil.WithManager("Ravi Nair"),
		testutil.WithDurationMonth("2024-03"),
	)
	a2 := factory.Allowance(
		testutil.WithEmp("E200", "Meera Shah"),
		testutil.WithManager("Dev Iyer"),
		testutil.WithDurationMonth("2024-05"),
	)
	a3 := factory.Allowance(
		testutil.WithEmp("E300", "Kiran Rao"),
		testutil.WithManager("Dev Iyer"),
		testutil.WithDurationMonth("2024-08"),
	)
	suite.Seed(t, ctx,
		[]testutil.AllowanceFixture{a1, a2, a3},
		[]testutil.MappingFixture{
			factory.Mapping(a1.ID, "A", 10),
			factory.Mapping(a2.ID, "B", 2),
			factory.Mapping(a3.ID, "C", 1),
		},
		testutil.DefaultRates(factory, "2024"),
	)

	svc := newShiftSummaryService()

	t.Run("nearest month on or before the current one", func(t *testing.T) {
		res, err := svc.MonthlySummary(ctx, "", "")
		require.NoError(t, err)

		rows, ok := res["2024-05"]
		require.True(t, ok, "future months must not win the default, got %v", res)
		require.Len(t, rows, 1)
		assert.Equal(t, "Dev Iyer", rows[0].AccountManager)
		assert.Equal(t, 2.0, rows[0].ShiftBDays)
		assert.Equal(t, 700.0, rows[0].TotalAllowances)
	})

	t.Run("nearest month is manager scoped", func(t *testing.T) {
		res, err := svc.MonthlySummary(ctx, "", "Ravi Nair")
		require.NoError(t, err)

		rows, ok := res["2024-03"]
		require.True(t, ok, "expected the manager's own latest month, got %v", res)
		require.Len(t, rows, 1)
		assert.Equal(t, 10.0, rows[0].ShiftADays)
		assert.Equal(t, 5000.0, rows[0].TotalAllowances)
	})
}

func TestShiftSummaryService_EmptyDatabase(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	svc := newShiftSummaryService()

	_, err := svc.MonthlySummary(ctx, "", "")
	requireAppError(t, err, 404, "No records found for current or previous months")
}

func TestShiftSummaryService_GroupsByManagerAndClient(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	factory := testutil.NewFixtureFactory()
	a1 := factory.Allowance(testutil.WithEmp("E100", "Asha Verma"), testutil.WithManager("Ravi Nair"), testutil.WithDurationMonth("2024-03"))
	a2 := factory.Allowance(testutil.WithEmp("E101", "Rohan Das"), testutil.WithManager("Ravi Nair"), testutil.WithDurationMonth("2024-03"))
	a3 := factory.Allowance(testutil.WithEmp("E100", "Asha Verma"), testutil.WithManager("Ravi Nair"), testutil.WithDurationMonth("2024-03"))
	a4 := factory.Allowance(
		testutil.WithEmp("E200", "Meera Shah"),
		testutil.WithClient("Globex", "Support"),
		testutil.WithManager("Ravi Nair"),
		testutil.WithDurationMonth("2024-03"),
	)
	a5 := factory.Allowance(
		testutil.WithEmp("E300", "Kiran Rao"),
		testutil.WithClient("", ""),
		testutil.WithManager(""),
		testutil.WithDurationMonth("2024-03"),
	)
	a6 := factory.Allowance(testutil.WithEmp("E400", "Tarun Bose"), testutil.WithManager("Meera Shah"), testutil.WithDurationMonth("2024-03"))

	suite.Seed(t, ctx,
		[]testutil.AllowanceFixture{a1, a2, a3, a4, a5, a6},
		[]testutil.MappingFixture{
			factory.Mapping(a1.ID, "A", 10),
			factory.Mapping(a1.ID, "B", 2),
			factory.Mapping(a2.ID, "A", 5),
			factory.Mapping(a3.ID, "C", 1),
			factory.Mapping(a4.ID, "PRIME", 3),
			factory.Mapping(a6.ID, "B", 4),
		},
		testutil.DefaultRates(factory, "2024"),
	)

	svc := newShiftSummaryService()

	res, err := svc.MonthlySummary(ctx, "2024-03", "")
	require.NoError(t, err)

	rows, ok := res["2024-03"]
	require.True(t, ok)
	require.Len(t, rows, 4)

	// first-seen manager order, then first-seen client within each manager
	assert.Equal(t, domain.ShiftSummaryRow{
		AccountManager:  "Ravi Nair",
		Client:          "Acme",
		TotalEmployees:  2,
		ShiftADays:      15,
		ShiftBDays:      2,
		ShiftCDays:      1,
		PrimeDays:       0,
		TotalDays:       18,
		TotalAllowances: 8450,
		DurationMonth:   "2024-03",
	}, rows[0])

	assert.Equal(t, "Globex", rows[1].Client)
	assert.Equal(t, 1, rows[1].TotalEmployees)
	assert.Equal(t, 3.0, rows[1].PrimeDays)
	assert.Equal(t, 2100.0, rows[1].TotalAllowances)

	// blank manager and client fold into Unknown, employee still counted
	assert.Equal(t, "Unknown", rows[2].AccountManager)
	assert.Equal(t, "Unknown", rows[2].Client)
	assert.Equal(t, 1, rows[2].TotalEmployees)
	assert.Equal(t, 0.0, rows[2].TotalDays)
	assert.Equal(t, 0.0, rows[2].TotalAllowances)

	assert.Equal(t, "Meera Shah", rows[3].AccountManager)
	assert.Equal(t, 1400.0, rows[3].TotalAllowances)
}

func TestShiftSummaryService_ManagerScope(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	factory := testutil.NewFixtureFactory()
	a1 := factory.Allowance(testutil.WithEmp("E100", "Asha Verma"), testutil.WithManager("Ravi Nair"), testutil.WithDurationMonth("2024-03"))
	a2 := factory.Allowance(testutil.WithEmp("E200", "Meera Shah"), testutil.WithManager("Dev Iyer"), testutil.WithDurationMonth("2024-03"))
	suite.Seed(t, ctx,
		[]testutil.AllowanceFixture{a1, a2},
		[]testutil.MappingFixture{
			factory.Mapping(a1.ID, "A", 10),
			factory.Mapping(a2.ID, "B", 5),
		},
		testutil.DefaultRates(factory, "2024"),
	)

	svc := newShiftSummaryService()

	t.Run("filter keeps only the manager's rows", func(t *testing.T) {
		res, err := svc.MonthlySummary(ctx, "2024-03", "Ravi Nair")
		require.NoError(t, err)

		rows := res["2024-03"]
		require.Len(t, rows, 1)
		assert.Equal(t, "Ravi Nair", rows[0].AccountManager)
	})

	t.Run("empty month names the manager in the error", func(t *testing.T) {
		_, err := svc.MonthlySummary(ctx, "2024-01", "Ravi Nair")
		requireAppError(t, err, 404, "No records found for duration_month '2024-01' for manager Ravi Nair")
	})
}

func TestShiftSummaryService_RatesAreYearScoped(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	factory := testutil.NewFixtureFactory()
	a := factory.Allowance(testutil.WithEmp("E100", "Asha Verma"), testutil.WithDurationMonth("2023-12"))
	suite.Seed(t, ctx,
		[]testutil.AllowanceFixture{a},
		[]testutil.MappingFixture{factory.Mapping(a.ID, "A", 2)},
		testutil.DefaultRates(factory, "2024"),
	)

	svc := newShiftSummaryService()

	res, err := svc.MonthlySummary(ctx, "2023-12", "")
	require.NoError(t, err)

	rows := res["2023-12"]
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].ShiftADays)
	assert.Equal(t, 0.0, rows[0].TotalAllowances, "a 2023 month must not pick up 2024 rates")
}

package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error

	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		panic("failed to create integration suite: " + err.Error())
	}
	defer suite.Cleanup(ctx)

	code := m.Run()
	os.Exit(code)
}

func TestReportRepository_LatestMonth(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	repo := repository.NewReportRepository(suite.DB)

	t.Run("returns empty string on empty table", func(t *testing.T) {
		month, err := repo.LatestMonth(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", month)
	})

	t.Run("returns the most recent duration month", func(t *testing.T) {
		factory := testutil.NewFixtureFactory()
		suite.Seed(t, ctx,
			[]testutil.AllowanceFixture{
				factory.Allowance(testutil.WithDurationMonth("2024-01")),
				factory.Allowance(testutil.WithDurationMonth("2024-03")),
				factory.Allowance(testutil.WithDurationMonth("2023-12")),
			},
			nil, nil,
		)

		month, err := repo.LatestMonth(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2024-03", month)
	})
}

func TestReportRepository_LatestMonthBetween(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	repo := repository.NewReportRepository(suite.DB)
	factory := testutil.NewFixtureFactory()
	suite.Seed(t, ctx,
		[]testutil.AllowanceFixture{
			factory.Allowance(testutil.WithDurationMonth("2023-01")),
			factory.Allowance(testutil.WithDurationMonth("2024-03")),
		},
		nil, nil,
	)

	t.Run("picks the latest month inside the window", func(t *testing.T) {
		month, err := repo.LatestMonthBetween(ctx, "2023-04", "2024-03")
		require.NoError(t, err)
		assert.Equal(t, "2024-03", month)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		month, err := repo.LatestMonthBetween(ctx, "2023-01", "2023-01")
		require.NoError(t, err)
		assert.Equal(t, "2023-01", month)
	})

	t.Run("returns empty string when the window has no rows", func(t *testing.T) {
		month, err := repo.LatestMonthBetween(ctx, "2022-01", "2022-12")
		require.NoError(t, err)
		assert.Equal(t, "", month)
	})
}

func TestReportRepository_Rates(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	repo := repository.NewReportRepository(suite.DB)
	factory := testutil.NewFixtureFactory()
	suite.Seed(t, ctx, nil, nil, append(
		testutil.DefaultRates(factory, "2024"),
		factory.Rate("A", "2023", 450),
	))

	entries, err := repo.Rates(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	byKey := make(map[string]decimal.Decimal)
	for _, e := range entries {
		byKey[e.ShiftType+"|"+e.PayrollYear] = e.Amount
	}
	assert.True(t, byKey["A|2024"].Equal(decimal.NewFromInt(500)))
	assert.True(t, byKey["PRIME|2024"].Equal(decimal.NewFromInt(700)))
	assert.True(t, byKey["A|2023"].Equal(decimal.NewFromInt(450)))
}

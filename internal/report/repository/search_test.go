package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/pkg/testutil"
)

func seedSearchData(t *testing.T, ctx context.Context) []testutil.AllowanceFixture {
	factory := testutil.NewFixtureFactory()

	rows := []testutil.AllowanceFixture{
		factory.Allowance(
			testutil.WithEmp("EMP001", "Asha Verma"),
			testutil.WithClient("Acme Corp", "Operations"),
			testutil.WithManager("Ravi Nair"),
			testutil.WithDurationMonth("2024-01"),
		),
		factory.Allowance(
			testutil.WithEmp("EMP002", "Dev Pillai"),
			testutil.WithClient("Globex", "Night Desk"),
			testutil.WithManager("Meera Shah"),
			testutil.WithDurationMonth("2024-03"),
		),
		factory.Allowance(
			testutil.WithEmp("EMP003", "Kiran Rao"),
			testutil.WithClient("Acme Corp", "Support"),
			testutil.WithManager("Ravi Nair"),
			testutil.WithDurationMonth("2023-11"),
		),
	}

	suite.Seed(t, ctx, rows,
		[]testutil.MappingFixture{
			factory.Mapping(rows[0].ID, "A", 12),
			factory.Mapping(rows[0].ID, "C", 3),
			factory.Mapping(rows[1].ID, "PRIME", 7),
		},
		nil,
	)
	return rows
}

func TestReportRepository_SearchRows_YearAndMonths(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSearchData(t, ctx)

	repo := repository.NewReportRepository(suite.DB)

	rows, err := repo.SearchRows(ctx, repository.SearchRowsFilter{
		Year:   2024,
		Months: []int{1, 3},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01", rows[0].DurationMonth, "chronological order")
	assert.Equal(t, "2024-03", rows[1].DurationMonth)
	assert.Equal(t, "EMP001", rows[0].EmpID)
	assert.Equal(t, "Asha Verma", rows[0].EmpName)
	assert.Equal(t, "2024-02", rows[0].PayrollMonth)
}

func TestReportRepository_SearchRows_MonthWindow(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSearchData(t, ctx)

	repo := repository.NewReportRepository(suite.DB)

	rows, err := repo.SearchRows(ctx, repository.SearchRowsFilter{
		StartMonth: "2023-11",
		EndMonth:   "2024-01",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "EMP003", rows[0].EmpID)
	assert.Equal(t, "EMP001", rows[1].EmpID)
}

func TestReportRepository_SearchRows_TextFilters(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSearchData(t, ctx)

	repo := repository.NewReportRepository(suite.DB)
	window := repository.SearchRowsFilter{StartMonth: "2023-01", EndMonth: "2024-12"}

	t.Run("employee id matches as substring ignoring case", func(t *testing.T) {
		f := window
		f.EmpID = "emp00"
		rows, err := repo.SearchRows(ctx, f)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("account manager narrows results", func(t *testing.T) {
		f := window
		f.Manager = "meera"
		rows, err := repo.SearchRows(ctx, f)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "EMP002", rows[0].EmpID)
	})

	t.Run("client and department combine", func(t *testing.T) {
		f := window
		f.Client = "acme"
		f.Department = "support"
		rows, err := repo.SearchRows(ctx, f)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "EMP003", rows[0].EmpID)
	})

	t.Run("no match yields no rows", func(t *testing.T) {
		f := window
		f.Client = "initech"
		rows, err := repo.SearchRows(ctx, f)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestReportRepository_SearchRows_NullColumns(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	_, err := suite.RawDB.ExecContext(ctx, `
		INSERT INTO shift_allowances (id, emp_id, duration_month)
		VALUES (9001, 'EMP900', '2024-05-01')`)
	require.NoError(t, err)

	repo := repository.NewReportRepository(suite.DB)

	rows, err := repo.SearchRows(ctx, repository.SearchRowsFilter{
		StartMonth: "2024-05",
		EndMonth:   "2024-05",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].EmpName)
	assert.Equal(t, "", rows[0].Client)
	assert.Equal(t, "", rows[0].PayrollMonth)
}

func TestReportRepository_MappingsFor(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	rows := seedSearchData(t, ctx)

	repo := repository.NewReportRepository(suite.DB)

	t.Run("groups mappings by allowance id", func(t *testing.T) {
		grouped, err := repo.MappingsFor(ctx, []int64{rows[0].ID, rows[1].ID, rows[2].ID})
		require.NoError(t, err)

		require.Len(t, grouped[rows[0].ID], 2)
		assert.Equal(t, "A", grouped[rows[0].ID][0].ShiftType)
		assert.True(t, grouped[rows[0].ID][0].Days.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, "C", grouped[rows[0].ID][1].ShiftType)

		require.Len(t, grouped[rows[1].ID], 1)
		assert.Equal(t, "PRIME", grouped[rows[1].ID][0].ShiftType)

		_, ok := grouped[rows[2].ID]
		assert.False(t, ok, "allowances without mappings have no entry")
	})

	t.Run("empty id list short-circuits", func(t *testing.T) {
		grouped, err := repo.MappingsFor(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, grouped)
	})
}

func TestReportRepository_MonthRangeRows(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSearchData(t, ctx)

	repo := repository.NewReportRepository(suite.DB)

	t.Run("window is inclusive on both bounds", func(t *testing.T) {
		rows, err := repo.MonthRangeRows(ctx, "2023-11", "2024-01")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "EMP003", rows[0].EmpID)
		assert.Equal(t, "G1", rows[0].Grade)
		assert.Equal(t, "2023-11", rows[0].DurationMonth)
	})

	t.Run("same month on both bounds selects one month", func(t *testing.T) {
		rows, err := repo.MonthRangeRows(ctx, "2024-03", "2024-03")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "EMP002", rows[0].EmpID)
	})

	t.Run("empty window yields no rows", func(t *testing.T) {
		rows, err := repo.MonthRangeRows(ctx, "2022-01", "2022-12")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

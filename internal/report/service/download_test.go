package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shiftpay/shiftpay-backend/internal/report/cache"
	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/events"
	"github.com/shiftpay/shiftpay-backend/internal/report/excel"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/pkg/testutil"
)

func newExportService(t *testing.T) (*ExportService, *cache.MemoryStore, string) {
	store := cache.NewMemoryStore(time.Hour)
	repo := repository.NewReportRepository(suite.DB)
	summaries := NewSummaryService(repo, store, suite.Logger)
	summaries.now = fixedClock()

	dir := t.TempDir()
	svc := NewExportService(summaries, store, events.NopPublisher{}, dir, suite.Logger)
	svc.now = fixedClock()
	return svc, store, dir
}

func TestExportService_WritesDefaultWorkbook(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSummaryWorld(t, ctx)

	svc, store, dir := newExportService(t)

	path, err := svc.Export(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultExportFile), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), excel.SummarySheet)

	header, err := f.GetCellValue(excel.SummarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Period", header)

	// rows sort by period, client, department, employee
	empID, err := f.GetCellValue(excel.SummarySheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "E100", empID)

	total, err := f.GetCellValue(excel.SummarySheet, "K2")
	require.NoError(t, err)
	assert.Equal(t, "₹6,400", total)

	entry, ok := store.Get(cache.KeyLatestExport)
	require.True(t, ok, "default export should refill the cache")
	cached, ok := entry.(*domain.CachedExport)
	require.True(t, ok)
	assert.Equal(t, "2024-03", cached.CachedMonth)
	assert.Equal(t, path, cached.FilePath)
}

func TestExportService_ReusesCachedWorkbook(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSummaryWorld(t, ctx)

	svc, _, _ := newExportService(t)

	first, err := svc.Export(ctx, nil)
	require.NoError(t, err)

	// wipe the tables; the cached file path must keep serving
	suite.Reset(t, ctx)

	second, err := svc.Export(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportService_RebuildsWhenFileMissing(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSummaryWorld(t, ctx)

	svc, _, _ := newExportService(t)

	path, err := svc.Export(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	rebuilt, err := svc.Export(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, path, rebuilt)

	_, err = os.Stat(rebuilt)
	assert.NoError(t, err, "a removed workbook must be rebuilt on the next call")
}

func TestExportService_FilteredRequestsGetTimestampedFiles(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)
	seedSummaryWorld(t, ctx)

	svc, store, _ := newExportService(t)

	path, err := svc.Export(ctx, &domain.SummaryRequest{EmpID: "E100"})
	require.NoError(t, err)
	assert.Equal(t, "client_summary_20240715_100000.xlsx", filepath.Base(path))

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, ok := store.Get(cache.KeyLatestExport)
	assert.False(t, ok, "filtered exports must not refill the cache")
}

func TestExportService_EmptyDatabase(t *testing.T) {
	ctx := context.Background()
	suite.Reset(t, ctx)

	svc, _, _ := newExportService(t)

	_, err := svc.Export(ctx, nil)
	requireAppError(t, err, 404, "No data available in database")
}

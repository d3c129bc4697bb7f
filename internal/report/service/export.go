package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/shiftpay/shiftpay-backend/internal/report/cache"
	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/events"
	"github.com/shiftpay/shiftpay-backend/internal/report/excel"
	"github.com/shiftpay/shiftpay-backend/internal/report/rollup"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// DefaultExportFile is the workbook name reused by every unfiltered
// latest-month download.
const DefaultExportFile = "client_summary_latest.xlsx"

// ExportService writes the client summary workbook to the export
// directory.
type ExportService struct {
	summaries *SummaryService
	store     cache.Store
	publisher events.Publisher
	exportDir string
	logger    *logger.Logger
	now       func() time.Time
}

// NewExportService creates a new export service
func NewExportService(
	summaries *SummaryService,
	store cache.Store,
	publisher events.Publisher,
	exportDir string,
	log *logger.Logger,
) *ExportService {
	return &ExportService{
		summaries: summaries,
		store:     store,
		publisher: publisher,
		exportDir: exportDir,
		logger:    log,
		now:       time.Now,
	}
}

// Export builds the summary workbook for the request and returns its file
// path. The unfiltered latest-month request reuses the cached workbook as
// long as the file still exists on disk.
func (s *ExportService) Export(ctx context.Context, req *domain.SummaryRequest) (string, error) {
	if req == nil {
		req = &domain.SummaryRequest{}
	}

	if req.IsDefaultShape() {
		if entry, ok := s.store.Get(cache.KeyLatestExport); ok {
			if cached, ok := entry.(*domain.CachedExport); ok {
				if _, err := os.Stat(cached.FilePath); err == nil {
					s.logger.Debug().Str("file_path", cached.FilePath).Msg("serving summary export from cache")
					return cached.FilePath, nil
				}
			}
		}
	}

	summary, err := s.summaries.Summary(ctx, req)
	if err != nil {
		return "", err
	}
	if len(summary) == 0 {
		return "", errors.NotFound("No data available")
	}

	rows := rollup.FlattenSummary(summary, req)
	if len(rows) == 0 {
		return "", errors.NotFound("No data available for export")
	}

	path := s.exportPath(req)
	if err := excel.WriteSummary(rows, path); err != nil {
		return "", errors.InternalFrom(err)
	}

	s.logger.Info().Str("file_path", path).Int("rows", len(rows)).Msg("client summary export written")

	if req.IsDefaultShape() {
		s.store.Set(cache.KeyLatestExport, &domain.CachedExport{
			CachedMonth: rows[0].Period,
			FilePath:    path,
		})
	}

	s.publisher.PublishExportCreated(ctx, path, rows[0].Period, len(rows))

	return path, nil
}

func (s *ExportService) exportPath(req *domain.SummaryRequest) string {
	if req.IsDefaultShape() {
		return filepath.Join(s.exportDir, DefaultExportFile)
	}
	stamp := s.now().Format("20060102_150405")
	return filepath.Join(s.exportDir, "client_summary_"+stamp+".xlsx")
}

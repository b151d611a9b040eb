package services

import (
	"context"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/nimasrn/finance-ledger/internal/report"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/prom"
)

// TransactionSource is the read side the reports are computed from.
type TransactionSource interface {
	All(ctx context.Context) ([]*model.Transaction, error)
}

// ReportService recomputes every report from the current transactions on
// each call. Nothing is cached.
type ReportService struct {
	source TransactionSource
}

func NewReportService(source TransactionSource) *ReportService {
	return &ReportService{source: source}
}

func (s *ReportService) Weekly(ctx context.Context) ([]model.WeekBucket, error) {
	defer observe("weekly", time.Now())
	txs, err := s.load(ctx, "weekly")
	if err != nil {
		return nil, err
	}
	return report.Weekly(txs), nil
}

func (s *ReportService) Breakdown(ctx context.Context) ([]model.CategoryTotal, error) {
	defer observe("breakdown", time.Now())
	txs, err := s.load(ctx, "breakdown")
	if err != nil {
		return nil, err
	}
	return report.Breakdown(txs), nil
}

// Export returns an XLSX workbook with the transactions and both reports.
func (s *ReportService) Export(ctx context.Context) ([]byte, error) {
	defer observe("export", time.Now())
	txs, err := s.load(ctx, "export")
	if err != nil {
		return nil, err
	}
	data, err := report.ExportXLSX(txs)
	if err != nil {
		logger.Error("[report] export failed", "error", err)
		return nil, err
	}
	logger.Info("[report] export ok", "rows", len(txs), "bytes", len(data))
	return data, nil
}

func (s *ReportService) load(ctx context.Context, name string) ([]*model.Transaction, error) {
	txs, err := s.source.All(ctx)
	if err != nil {
		logger.Error("[report] load transactions failed", "report", name, "error", err)
		return nil, err
	}
	return txs, nil
}

func observe(name string, start time.Time) {
	prom.ObserveReportDuration(name, time.Since(start).Seconds())
}

package handlers

import (
	"context"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportService interface {
	Weekly(ctx context.Context) ([]model.WeekBucket, error)
	Breakdown(ctx context.Context) ([]model.CategoryTotal, error)
	Export(ctx context.Context) ([]byte, error)
}

type ReportHandler struct {
	svc ReportService
	now func() time.Time
}

func RegisterReportRoutes(r Routes, h *ReportHandler) {
	r.GET("/report/weekly", h.GetWeekly)
	r.GET("/report/breakdown", h.GetBreakdown)
	r.GET("/report/export", h.GetExport)
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{
		svc: reportService,
		now: time.Now,
	}
}

func (h *ReportHandler) GetWeekly(ctx *xhttp.RequestCtx) {
	weeks, err := h.svc.Weekly(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if weeks == nil {
		weeks = []model.WeekBucket{}
	}
	writeJSON(ctx, xhttp.StatusOK, weeks)
}

func (h *ReportHandler) GetBreakdown(ctx *xhttp.RequestCtx) {
	totals, err := h.svc.Breakdown(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if totals == nil {
		totals = []model.CategoryTotal{}
	}
	writeJSON(ctx, xhttp.StatusOK, totals)
}

func (h *ReportHandler) GetExport(ctx *xhttp.RequestCtx) {
	data, err := h.svc.Export(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	name := "ledger-" + h.now().UTC().Format("20060102") + ".xlsx"
	ctx.Response.Header.Set("Content-Type", xlsxContentType)
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+name+`"`)
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyRaw(data)
}

package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/nimasrn/finance-ledger/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReportHandler_GetWeekly(t *testing.T) {
	t.Run("buckets", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("Weekly", mock.Anything).Return([]model.WeekBucket{{
			WeekStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			Credit:    model.MustMoney("1000"),
			Debit:     model.MustMoney("50"),
			Balance:   model.MustMoney("950"),
		}}, nil)

		ctx := setupTestContext("GET", "/report/weekly", nil)
		handler.GetWeekly(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.JSONEq(t, `[{"week":"2024-01-08","credit":"1000.00","debit":"50.00","balance":"950.00"}]`, string(ctx.Response.Body()))
	})

	t.Run("empty is an empty list", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("Weekly", mock.Anything).Return(nil, nil)

		ctx := setupTestContext("GET", "/report/weekly", nil)
		handler.GetWeekly(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Equal(t, "[]", string(ctx.Response.Body()))
	})

	t.Run("store unavailable is not an empty report", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("Weekly", mock.Anything).Return(nil, services.ErrStoreUnavailable)

		ctx := setupTestContext("GET", "/report/weekly", nil)
		handler.GetWeekly(ctx)

		assert.Equal(t, 503, ctx.Response.StatusCode())
	})
}

func TestReportHandler_GetBreakdown(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	svc.On("Breakdown", mock.Anything).Return([]model.CategoryTotal{
		{Category: "Groceries", Type: model.TransactionTypeDebit, Amount: model.MustMoney("50")},
	}, nil)

	ctx := setupTestContext("GET", "/report/breakdown", nil)
	handler.GetBreakdown(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	assert.JSONEq(t, `[{"category":"Groceries","type":"debit","amount":"50.00"}]`, string(ctx.Response.Body()))
}

func TestReportHandler_GetExport(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		handler.now = func() time.Time { return time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC) }
		svc.On("Export", mock.Anything).Return([]byte("PK-xlsx"), nil)

		ctx := setupTestContext("GET", "/report/export", nil)
		handler.GetExport(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Equal(t, xlsxContentType, string(ctx.Response.Header.ContentType()))
		assert.Equal(t, `attachment; filename="ledger-20240109.xlsx"`, string(ctx.Response.Header.Peek("Content-Disposition")))
		assert.Equal(t, "PK-xlsx", string(ctx.Response.Body()))
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)
		svc.On("Export", mock.Anything).Return(nil, errors.New("xlsx write"))

		ctx := setupTestContext("GET", "/report/export", nil)
		handler.GetExport(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}

func TestHealthHandler_GetHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockHealthService)
		svc.On("Check", mock.Anything).Return(nil)

		ctx := setupTestContext("GET", "/health", nil)
		NewHealthHandler(svc).GetHealth(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Equal(t, "ok", string(ctx.Response.Body()))
	})

	t.Run("store down", func(t *testing.T) {
		svc := new(MockHealthService)
		svc.On("Check", mock.Anything).Return(errors.New("dial tcp: refused"))

		ctx := setupTestContext("GET", "/health", nil)
		NewHealthHandler(svc).GetHealth(ctx)

		assert.Equal(t, 503, ctx.Response.StatusCode())
	})
}

package handlers

import (
	"context"
	"strconv"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/nimasrn/finance-ledger/internal/schema"
	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	Create(ctx context.Context, p model.CreateTransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) (model.DeleteOutcome, error)
	BulkDelete(ctx context.Context, ids []int64) ([]model.DeleteResult, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Transaction, error)
}

type TransactionHandler struct {
	svc LedgerService
}

// RegisterTransactionRoutes mounts the ledger endpoints. createMiddleware
// wraps only the create endpoint (idempotency).
func RegisterTransactionRoutes(r Routes, h *TransactionHandler, createMiddleware ...xhttp.MiddlewareFunc) {
	create := xhttp.RequestHandler(h.CreateTransaction)
	for i := len(createMiddleware) - 1; i >= 0; i-- {
		create = createMiddleware[i](create)
	}

	r.POST("/transactions", create)
	r.POST("/transactions/", create)
	r.GET("/transactions", h.ListTransactions)
	r.GET("/transactions/", h.ListTransactions)
	r.DELETE("/transactions/{id}", h.DeleteTransaction)
	r.POST("/transactions/bulk-delete", h.BulkDeleteTransactions)
}

func NewTransactionHandler(ledgerService LedgerService) *TransactionHandler {
	return &TransactionHandler{
		svc: ledgerService,
	}
}

type createTransactionRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    *string         `json:"category"`
	Date        *string         `json:"date"`
}

type deleteResponse struct {
	ID      int64               `json:"id"`
	Outcome model.DeleteOutcome `json:"outcome"`
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type bulkDeleteResponse struct {
	Results []model.DeleteResult `json:"results"`
}

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	if err := schema.ValidateCreateTransaction(ctx.PostBody()); err != nil {
		writeServiceError(ctx, err)
		return
	}
	var req createTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFieldError(ctx, "body", "malformed request")
		return
	}

	p := model.CreateTransactionRequest{
		Type:        model.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Date != nil && *req.Date != "" {
		t, err := parseTime(*req.Date)
		if err != nil {
			writeFieldError(ctx, "date", "must be RFC3339 or YYYY-MM-DD")
			return
		}
		p.Date = &t
	}

	txn, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, txn)
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	limit := 0
	if v := query(ctx, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeFieldError(ctx, "limit", "must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.svc.ListRecent(ctx, limit)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

// DeleteTransaction answers 200 for unknown ids too; the outcome field says
// whether anything was removed.
func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeFieldError(ctx, "id", "must be an integer")
		return
	}

	outcome, err := h.svc.Delete(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, deleteResponse{ID: id, Outcome: outcome})
}

func (h *TransactionHandler) BulkDeleteTransactions(ctx *xhttp.RequestCtx) {
	if err := schema.ValidateBulkDelete(ctx.PostBody()); err != nil {
		writeServiceError(ctx, err)
		return
	}
	var req bulkDeleteRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFieldError(ctx, "body", "malformed request")
		return
	}

	results, err := h.svc.BulkDelete(ctx, req.IDs)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, bulkDeleteResponse{Results: results})
}

package handlers

import (
	"context"

	"github.com/nimasrn/finance-ledger/internal/model"
	xhttp "github.com/nimasrn/finance-ledger/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/valyala/fasthttp"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Create(ctx context.Context, p model.CreateTransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) Delete(ctx context.Context, id int64) (model.DeleteOutcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DeleteOutcome), args.Error(1)
}

func (m *MockLedgerService) BulkDelete(ctx context.Context, ids []int64) ([]model.DeleteResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeleteResult), args.Error(1)
}

func (m *MockLedgerService) ListRecent(ctx context.Context, limit int) ([]*model.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Weekly(ctx context.Context) ([]model.WeekBucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WeekBucket), args.Error(1)
}

func (m *MockReportService) Breakdown(ctx context.Context) ([]model.CategoryTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryTotal), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

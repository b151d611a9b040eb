package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/prom"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultListLimit       = 100
	DefaultListMaxLimit    = 1000
	DefaultBulkMaxIDs      = 500
	DefaultBulkConcurrency = 4
)

type TransactionRepository interface {
	Insert(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error)
}

type LedgerOptions struct {
	DefaultLimit    int
	MaxLimit        int
	BulkMaxIDs      int
	BulkConcurrency int
	// Now stamps transactions created without a date. Defaults to time.Now.
	Now func() time.Time
}

func (o LedgerOptions) withDefaults() LedgerOptions {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultListLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = DefaultListMaxLimit
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	if o.BulkMaxIDs <= 0 {
		o.BulkMaxIDs = DefaultBulkMaxIDs
	}
	if o.BulkConcurrency <= 0 {
		o.BulkConcurrency = DefaultBulkConcurrency
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type LedgerService struct {
	repo TransactionRepository
	opts LedgerOptions
}

func NewLedgerService(repo TransactionRepository, opts LedgerOptions) *LedgerService {
	return &LedgerService{
		repo: repo,
		opts: opts.withDefaults(),
	}
}

func (s *LedgerService) Create(ctx context.Context, p model.CreateTransactionRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	date := s.opts.Now()
	if p.Date != nil {
		date = *p.Date
	}

	txn := &model.Transaction{
		Type:        p.Type,
		Amount:      model.NewMoney(p.Amount),
		Description: strings.TrimSpace(p.Description),
		Category:    model.NormalizeCategory(p.Category),
		Date:        date.UTC(),
	}

	created, err := s.repo.Insert(ctx, txn)
	if err != nil {
		logger.Error("[ledger] create transaction failed", "type", txn.Type, "error", err)
		return nil, err
	}

	prom.IncTransactionCreated(string(created.Type))
	logger.Info("[ledger] transaction created", "id", created.ID, "type", created.Type, "category", created.Category)
	return created, nil
}

func (s *LedgerService) Delete(ctx context.Context, id int64) (model.DeleteOutcome, error) {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		prom.IncTransactionDeleted(string(model.DeleteOutcomeError))
		logger.Error("[ledger] delete transaction failed", "id", id, "error", err)
		return model.DeleteOutcomeError, err
	}

	outcome := model.DeleteOutcomeNotFound
	if existed {
		outcome = model.DeleteOutcomeDeleted
	}
	prom.IncTransactionDeleted(string(outcome))
	logger.Info("[ledger] delete transaction", "id", id, "outcome", outcome)
	return outcome, nil
}

// BulkDelete deletes every id independently; there is no rollback when some
// deletes fail. Results follow the order of ids. A repeated id is deleted
// once and its later occurrences report not_found, or the same error.
func (s *LedgerService) BulkDelete(ctx context.Context, ids []int64) ([]model.DeleteResult, error) {
	if len(ids) == 0 {
		return nil, model.NewValidationError("ids", "must not be empty")
	}
	if len(ids) > s.opts.BulkMaxIDs {
		return nil, model.NewValidationError("ids", "at most "+strconv.Itoa(s.opts.BulkMaxIDs)+" ids per request")
	}

	first := make(map[int64]int, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := first[id]; !ok {
			first[id] = len(unique)
			unique = append(unique, id)
		}
	}

	done := make([]model.DeleteResult, len(unique))
	g := new(errgroup.Group)
	g.SetLimit(s.opts.BulkConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			res := model.DeleteResult{ID: id}
			outcome, err := s.Delete(ctx, id)
			res.Outcome = outcome
			if err != nil {
				res.Error = err.Error()
			}
			done[i] = res
			return nil
		})
	}
	_ = g.Wait()

	results := make([]model.DeleteResult, len(ids))
	seen := make(map[int64]bool, len(unique))
	for i, id := range ids {
		res := done[first[id]]
		if seen[id] && res.Outcome == model.DeleteOutcomeDeleted {
			res.Outcome = model.DeleteOutcomeNotFound
		}
		seen[id] = true
		results[i] = res
	}
	return results, nil
}

// ListRecent returns up to limit transactions, most recent first with ties in
// insertion order. limit <= 0 selects the default; larger than the maximum is
// clamped.
func (s *LedgerService) ListRecent(ctx context.Context, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	items, err := s.repo.List(ctx, model.TransactionFilter{Limit: limit, Order: model.OrderDateDesc})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Transaction{}
	}
	return items, nil
}

package repository

import (
	"context"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/nimasrn/finance-ledger/pkg/pg"
	"github.com/nimasrn/finance-ledger/pkg/prom"
	"gorm.io/gorm/clause"
)

// DefaultOperationTimeout bounds a single store call when none is configured.
const DefaultOperationTimeout = 3 * time.Second

type TransactionRepository struct {
	*pg.DB
	timeout time.Duration
}

func NewTransactionRepository(db *pg.DB, timeout time.Duration) *TransactionRepository {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	return &TransactionRepository{
		DB:      db,
		timeout: timeout,
	}
}

// Insert stores txn and returns the persisted record with its assigned id.
// A zero Date is replaced with the current time.
func (r *TransactionRepository) Insert(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	defer prom.ObserveStoreDuration("insert", time.Now())
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	entity := toTransactionEntity(txn)
	entity.ID = 0
	if entity.Date.IsZero() {
		entity.Date = time.Now().UTC()
	}
	if entity.Category == "" {
		entity.Category = model.UncategorizedCategory
	}

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		prom.IncStoreError("insert")
		return nil, storeError("insert transaction", err)
	}

	return toTransactionModel(entity), nil
}

// Delete removes the transaction with the given id and reports whether it existed.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	defer prom.ObserveStoreDuration("delete", time.Now())
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.Write(ctx).Where("id = ?", id).Delete(&TransactionEntity{})
	if res.Error != nil {
		prom.IncStoreError("delete")
		return false, storeError("delete transaction", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, error) {
	defer prom.ObserveStoreDuration("list", time.Now())
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := r.Read(ctx).Model(&TransactionEntity{})

	if f.Order == model.OrderDateDesc {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var entities []*TransactionEntity
	if err := q.Find(&entities).Error; err != nil {
		prom.IncStoreError("list")
		return nil, storeError("list transactions", err)
	}

	return toTransactionModels(entities), nil
}

// All returns every stored transaction in a single query, so the result is a
// consistent snapshot.
func (r *TransactionRepository) All(ctx context.Context) ([]*model.Transaction, error) {
	return r.List(ctx, model.TransactionFilter{})
}

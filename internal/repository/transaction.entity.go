package repository

import (
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
)

// TransactionEntity keeps the amount as integer cents. sqlite gives numeric
// columns REAL affinity, which would round large amounts through a float64.
type TransactionEntity struct {
	ID          int64     `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	Type        string    `db:"type"         gorm:"column:type;size:16;not null"`
	AmountCents int64     `db:"amount_cents" gorm:"column:amount_cents;not null;check:chk_transactions_amount_cents,amount_cents > 0"`
	Description string    `db:"description"  gorm:"column:description;size:200;not null"`
	Category    string    `db:"category"     gorm:"column:category;size:64;not null;default:Uncategorized"`
	Date        time.Time `db:"date"         gorm:"column:date;not null;index:idx_transactions_date"`
	CreatedAt   time.Time `db:"created_at"   gorm:"column:created_at;not null;autoCreateTime"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:          m.ID,
		Type:        string(m.Type),
		AmountCents: m.Amount.Cents(),
		Description: m.Description,
		Category:    m.Category,
		Date:        m.Date.UTC(),
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:          e.ID,
		Type:        model.TransactionType(e.Type),
		Amount:      model.MoneyFromCents(e.AmountCents),
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date.UTC(),
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}

// Entities lists every table this package persists, for AutoMigrate callers.
func Entities() []interface{} {
	return []interface{}{&TransactionEntity{}}
}

// Package report derives the weekly and per-category views of the ledger.
// Every function here is pure: callers load the transactions and pass them in.
package report

import (
	"sort"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
)

// Weekly groups txs by ISO week and returns one bucket per week that has at
// least one transaction, oldest first. Sums are exact; rounding to cents only
// happens when a bucket is rendered.
func Weekly(txs []*model.Transaction) []model.WeekBucket {
	byWeek := make(map[time.Time]*model.WeekBucket)
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		start := WeekStart(tx.Date)
		b, ok := byWeek[start]
		if !ok {
			b = &model.WeekBucket{WeekStart: start}
			byWeek[start] = b
		}
		switch tx.Type {
		case model.TransactionTypeCredit:
			b.Credit = b.Credit.Add(tx.Amount)
		case model.TransactionTypeDebit:
			b.Debit = b.Debit.Add(tx.Amount)
		}
	}

	out := make([]model.WeekBucket, 0, len(byWeek))
	for _, b := range byWeek {
		b.Balance = b.Credit.Sub(b.Debit)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

type breakdownKey struct {
	category string
	typ      model.TransactionType
}

// Breakdown sums amounts per (category, type). Credits and debits sharing a
// category stay separate entries. Transactions without a category are
// counted under model.UncategorizedCategory. The result is sorted by type
// then category so responses are stable.
func Breakdown(txs []*model.Transaction) []model.CategoryTotal {
	sums := make(map[breakdownKey]model.Money)
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		category := tx.Category
		if category == "" {
			category = model.UncategorizedCategory
		}
		k := breakdownKey{category: category, typ: tx.Type}
		sums[k] = sums[k].Add(tx.Amount)
	}

	out := make([]model.CategoryTotal, 0, len(sums))
	for k, amount := range sums {
		out = append(out, model.CategoryTotal{Category: k.category, Type: k.typ, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Category < out[j].Category
	})
	return out
}

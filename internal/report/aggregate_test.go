package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id int64, typ model.TransactionType, amount, category string, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:          id,
		Type:        typ,
		Amount:      model.MustMoney(amount),
		Description: "test",
		Category:    category,
		Date:        date,
	}
}

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	monday := utc(2024, 1, 8, 0)
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday midnight", monday, monday},
		{"tuesday", utc(2024, 1, 9, 15), monday},
		{"sunday late", time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC), monday},
		{"next monday", utc(2024, 1, 15, 0), utc(2024, 1, 15, 0)},
		{"across year boundary", utc(2025, 1, 1, 10), utc(2024, 12, 30, 0)},
		{"offset zone converted to utc", time.Date(2024, 1, 14, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)), utc(2024, 1, 15, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekStart(tc.in)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestWeekly_SingleWeekScenario(t *testing.T) {
	txs := []*model.Transaction{
		txn(1, model.TransactionTypeCredit, "1000.00", "Salary", utc(2024, 1, 8, 0)),
		txn(2, model.TransactionTypeDebit, "50.00", "Groceries", utc(2024, 1, 9, 0)),
	}

	got := Weekly(txs)
	require.Len(t, got, 1)
	assert.True(t, got[0].WeekStart.Equal(utc(2024, 1, 8, 0)))
	assert.Equal(t, "1000.00", got[0].Credit.String())
	assert.Equal(t, "50.00", got[0].Debit.String())
	assert.Equal(t, "950.00", got[0].Balance.String())
}

func TestWeekly_OrderAndGaps(t *testing.T) {
	txs := []*model.Transaction{
		txn(1, model.TransactionTypeDebit, "10", "", utc(2024, 3, 6, 0)),
		txn(2, model.TransactionTypeCredit, "5", "", utc(2024, 1, 2, 0)),
		txn(3, model.TransactionTypeCredit, "7", "", utc(2024, 2, 1, 0)),
	}

	got := Weekly(txs)
	require.Len(t, got, 3, "weeks without transactions are not synthesized")
	assert.True(t, got[0].WeekStart.Equal(utc(2024, 1, 1, 0)))
	assert.True(t, got[1].WeekStart.Equal(utc(2024, 1, 29, 0)))
	assert.True(t, got[2].WeekStart.Equal(utc(2024, 3, 4, 0)))
	assert.Equal(t, "-10.00", got[2].Balance.String())
	assert.Equal(t, "0.00", got[2].Credit.String())
}

func TestWeekly_ExactDecimalSums(t *testing.T) {
	var txs []*model.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, txn(int64(i), model.TransactionTypeCredit, "0.10", "", utc(2024, 1, 8, i)))
	}
	got := Weekly(txs)
	require.Len(t, got, 1)
	assert.True(t, got[0].Credit.Equal(model.MustMoney("1")))
}

func TestBreakdown_GroupsByCategoryAndType(t *testing.T) {
	txs := []*model.Transaction{
		txn(1, model.TransactionTypeDebit, "20.00", "Groceries", utc(2024, 1, 8, 0)),
		txn(2, model.TransactionTypeDebit, "30.00", "Groceries", utc(2024, 1, 20, 0)),
		txn(3, model.TransactionTypeCredit, "15.00", "Groceries", utc(2024, 1, 9, 0)),
		txn(4, model.TransactionTypeDebit, "4.50", "", utc(2024, 1, 9, 0)),
	}

	got := Breakdown(txs)
	require.Len(t, got, 3)

	find := func(category string, typ model.TransactionType) *model.CategoryTotal {
		for i := range got {
			if got[i].Category == category && got[i].Type == typ {
				return &got[i]
			}
		}
		return nil
	}

	groceries := find("Groceries", model.TransactionTypeDebit)
	require.NotNil(t, groceries)
	assert.Equal(t, "50.00", groceries.Amount.String())

	credit := find("Groceries", model.TransactionTypeCredit)
	require.NotNil(t, credit, "credit and debit in the same category are never merged")
	assert.Equal(t, "15.00", credit.Amount.String())

	uncategorized := find(model.UncategorizedCategory, model.TransactionTypeDebit)
	require.NotNil(t, uncategorized)
	assert.Equal(t, "4.50", uncategorized.Amount.String())
}

func TestBreakdown_SortedByTypeThenCategory(t *testing.T) {
	txs := []*model.Transaction{
		txn(1, model.TransactionTypeDebit, "1", "Rent", utc(2024, 1, 8, 0)),
		txn(2, model.TransactionTypeCredit, "1", "Salary", utc(2024, 1, 8, 0)),
		txn(3, model.TransactionTypeDebit, "1", "Food", utc(2024, 1, 8, 0)),
	}
	got := Breakdown(txs)
	require.Len(t, got, 3)
	assert.Equal(t, "Salary", got[0].Category)
	assert.Equal(t, "Food", got[1].Category)
	assert.Equal(t, "Rent", got[2].Category)
}

func TestReports_EmptyInput(t *testing.T) {
	for _, in := range [][]*model.Transaction{nil, {}} {
		weekly := Weekly(in)
		require.NotNil(t, weekly)
		assert.Empty(t, weekly)

		breakdown := Breakdown(in)
		require.NotNil(t, breakdown)
		assert.Empty(t, breakdown)
	}
}

// Sum of weekly balances equals credits minus debits over all input, and the
// breakdown totals per type equal the per-type sums.
func TestReports_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{"Food", "Rent", "", "Salary", "Fun"}

	var txs []*model.Transaction
	credits, debits := model.Money{}, model.Money{}
	for i := 0; i < 500; i++ {
		cents := rng.Int63n(1_000_000) + 1
		amount := model.NewMoney(decimal.New(cents, -2))
		typ := model.TransactionTypeDebit
		if rng.Intn(2) == 0 {
			typ = model.TransactionTypeCredit
			credits = credits.Add(amount)
		} else {
			debits = debits.Add(amount)
		}
		date := utc(2023, 1, 1, 0).Add(time.Duration(rng.Int63n(int64(700 * 24 * time.Hour))))
		txs = append(txs, &model.Transaction{
			ID: int64(i), Type: typ, Amount: amount, Description: "x",
			Category: categories[rng.Intn(len(categories))], Date: date,
		})
	}

	balance := model.Money{}
	for _, b := range Weekly(txs) {
		assert.True(t, b.Credit.Sub(b.Debit).Equal(b.Balance))
		balance = balance.Add(b.Balance)
	}
	assert.True(t, balance.Equal(credits.Sub(debits)), "got %s want %s", balance, credits.Sub(debits))

	creditTotal, debitTotal := model.Money{}, model.Money{}
	for _, c := range Breakdown(txs) {
		if c.Type == model.TransactionTypeCredit {
			creditTotal = creditTotal.Add(c.Amount)
		} else {
			debitTotal = debitTotal.Add(c.Amount)
		}
	}
	assert.True(t, creditTotal.Equal(credits))
	assert.True(t, debitTotal.Equal(debits))
}

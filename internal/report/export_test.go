package report

import (
	"bytes"
	"testing"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	txs := []*model.Transaction{
		txn(1, model.TransactionTypeCredit, "1000.00", "Salary", utc(2024, 1, 8, 0)),
		txn(2, model.TransactionTypeDebit, "50.00", "Groceries", utc(2024, 1, 9, 0)),
	}

	data, err := ExportXLSX(txs)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTransactions, SheetWeekly, SheetBreakdown}, f.GetSheetList())

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Date", "Type", "Category", "Description", "Amount"}, rows[0])
	assert.Equal(t, "2024-01-08", rows[1][1])
	assert.Equal(t, "credit", rows[1][2])

	weekly, err := f.GetRows(SheetWeekly, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "2024-01-08", weekly[1][0])
	assert.Equal(t, "950", weekly[1][3])

	breakdown, err := f.GetRows(SheetBreakdown)
	require.NoError(t, err)
	assert.Len(t, breakdown, 3)
}

func TestExportXLSX_Empty(t *testing.T) {
	data, err := ExportXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetWeekly)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

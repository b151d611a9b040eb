package report

import (
	"strconv"

	"github.com/nimasrn/finance-ledger/internal/model"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	SheetTransactions = "Transactions"
	SheetWeekly       = "Weekly"
	SheetBreakdown    = "Breakdown"

	xlsxDateLayout = "2006-01-02"
)

// ExportXLSX renders the transactions and both reports derived from them into
// a workbook with one sheet each.
func ExportXLSX(txs []*model.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, errors.Wrap(err, "xlsx style")
	}

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return nil, errors.Wrap(err, "xlsx rename sheet")
	}
	for _, name := range []string{SheetWeekly, SheetBreakdown} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, errors.Wrapf(err, "xlsx new sheet %s", name)
		}
	}

	// Spreadsheet cells are IEEE doubles, so amounts go in as float64 here.
	// Sums are computed in decimal before conversion; JSON output keeps
	// Money's fixed-point string instead.
	rows := make([][]interface{}, 0, len(txs))
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		rows = append(rows, []interface{}{
			tx.ID, tx.Date.UTC().Format(xlsxDateLayout), string(tx.Type),
			tx.Category, tx.Description, tx.Amount.InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetTransactions,
		[]string{"ID", "Date", "Type", "Category", "Description", "Amount"}, rows, "F", money); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, b := range Weekly(txs) {
		rows = append(rows, []interface{}{
			b.WeekStart.Format(xlsxDateLayout),
			b.Credit.InexactFloat64(), b.Debit.InexactFloat64(), b.Balance.InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetWeekly,
		[]string{"Week", "Credit", "Debit", "Balance"}, rows, "B", money); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, c := range Breakdown(txs) {
		rows = append(rows, []interface{}{c.Category, string(c.Type), c.Amount.InexactFloat64()})
	}
	if err := writeSheet(f, SheetBreakdown,
		[]string{"Category", "Type", "Amount"}, rows, "C", money); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(SheetTransactions, "B", "B", 12)
	_ = f.SetColWidth(SheetTransactions, "D", "D", 20)
	_ = f.SetColWidth(SheetTransactions, "E", "E", 48)
	_ = f.SetColWidth(SheetWeekly, "A", "D", 14)
	_ = f.SetColWidth(SheetBreakdown, "A", "A", 22)

	idx, _ := f.GetSheetIndex(SheetTransactions)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "xlsx write")
	}
	return buf.Bytes(), nil
}

// writeSheet writes a header row and data rows, applying moneyStyle from
// moneyCol to the last column of every data row.
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, moneyCol string, moneyStyle int) error {
	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return errors.Wrapf(err, "xlsx %s header", sheet)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return errors.Wrapf(err, "xlsx %s row %d", sheet, i+2)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	from := moneyCol + "2"
	to := lastCol + strconv.Itoa(len(rows)+1)
	return f.SetCellStyle(sheet, from, to, moneyStyle)
}

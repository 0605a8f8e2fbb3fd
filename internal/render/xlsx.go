package render

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/resumia/extracto-converter/internal/models"
)

// Renderer turns a reconciled Statement into a styled Excel workbook: one
// sheet per account, credits and debits in side-by-side columns with sum
// totals, and a CONTROL cell that must evaluate to zero when the ledger
// explains the whole opening-to-closing movement.
type Renderer struct{}

const (
	titleFill  = "DB0011"
	creditHead = "00B050"
	debitHead  = "C00000"
	creditCols = "EBF1DE"
	debitCols  = "F2DCDB"
	creditRow  = "F2F9F1"
	debitRow   = "FDE9D9"
	borderGray = "A6A6A6"
)

// illegalCellChars are control characters the xlsx format rejects.
var illegalCellChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

func cleanCell(s string) string {
	return strings.TrimSpace(illegalCellChars.ReplaceAllString(s, ""))
}

// Render builds the workbook. Accounts with no movements and matching
// opening/closing balances are omitted; an empty ledger with a balance
// mismatch still gets a sheet so the discrepancy shows up in CONTROL.
func (r *Renderer) Render(st *models.Statement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := 0
	for _, acct := range st.Accounts {
		if len(acct.Transactions) == 0 && acct.OpeningBalance.Equal(acct.ClosingBalance) {
			continue
		}
		name := sheetName(f, acct)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := r.renderAccount(f, name, acct, st); err != nil {
			return nil, fmt.Errorf("failed to render account %s: %w", acct.Key, err)
		}
		sheets++
	}

	if sheets > 0 {
		f.DeleteSheet("Sheet1")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the statement and writes the workbook to path.
func (r *Renderer) WriteFile(path string, st *models.Statement) error {
	data, err := r.Render(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// sheetName derives a unique tab name from the account label and currency.
func sheetName(f *excelize.File, acct *models.Account) string {
	label := acct.Label
	if len(label) > 10 {
		label = label[:10]
	}
	base := strings.TrimSpace(strings.ReplaceAll(label+" "+string(acct.Currency), "/", ""))
	name := base
	for n := 1; sheetExists(f, name); n++ {
		name = fmt.Sprintf("%s %d", base, n)
	}
	return name
}

func sheetExists(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

func (r *Renderer) renderAccount(f *excelize.File, sheet string, acct *models.Account, st *models.Statement) error {
	gridOff := false
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &gridOff}); err != nil {
		return err
	}

	numFmt := `"$ "#,##0.00`
	if acct.Currency == models.CurrencyDollar {
		numFmt = `"U$S "#,##0.00`
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{titleFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	redStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	creditBand, err := bandStyle(f, creditHead)
	if err != nil {
		return err
	}
	debitBand, err := bandStyle(f, debitHead)
	if err != nil {
		return err
	}
	creditHeader, err := headerStyle(f, creditCols)
	if err != nil {
		return err
	}
	debitHeader, err := headerStyle(f, debitCols)
	if err != nil {
		return err
	}
	creditCell, err := rowStyle(f, creditRow, nil)
	if err != nil {
		return err
	}
	debitCell, err := rowStyle(f, debitRow, nil)
	if err != nil {
		return err
	}
	creditMoney, err := rowStyle(f, creditRow, &numFmt)
	if err != nil {
		return err
	}
	debitMoney, err := rowStyle(f, debitRow, &numFmt)
	if err != nil {
		return err
	}

	// Title band and balance header.
	if err := f.MergeCell(sheet, "A1", "G1"); err != nil {
		return err
	}
	title := fmt.Sprintf("REPORTE %s - %s - %s", strings.ToUpper(string(st.Bank)), acct.Label, st.Metadata.Holder)
	f.SetCellValue(sheet, "A1", cleanCell(title))
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	f.SetCellValue(sheet, "A3", "SALDO INICIAL")
	f.SetCellValue(sheet, "B3", acct.OpeningBalance.InexactFloat64())
	f.SetCellStyle(sheet, "B3", "B3", moneyStyle)
	f.SetCellValue(sheet, "A4", "SALDO FINAL")
	f.SetCellValue(sheet, "B4", acct.ClosingBalance.InexactFloat64())
	f.SetCellStyle(sheet, "B4", "B4", moneyStyle)
	f.SetCellValue(sheet, "D3", "TITULAR")
	f.SetCellValue(sheet, "E3", cleanCell(st.Metadata.Holder))
	f.SetCellValue(sheet, "D4", "PERIODO")
	f.SetCellValue(sheet, "E4", cleanCell(st.Metadata.Period))

	// Column bands.
	f.MergeCell(sheet, "A10", "C10")
	f.SetCellValue(sheet, "A10", "CRÉDITOS")
	f.SetCellStyle(sheet, "A10", "A10", creditBand)
	f.MergeCell(sheet, "E10", "G10")
	f.SetCellValue(sheet, "E10", "DÉBITOS")
	f.SetCellStyle(sheet, "E10", "E10", debitBand)

	for _, col := range []string{"A", "B", "C"} {
		f.SetCellStyle(sheet, col+"11", col+"11", creditHeader)
	}
	for _, col := range []string{"E", "F", "G"} {
		f.SetCellStyle(sheet, col+"11", col+"11", debitHeader)
	}
	f.SetCellValue(sheet, "A11", "Fecha")
	f.SetCellValue(sheet, "B11", "Descripcion")
	f.SetCellValue(sheet, "C11", "Importe")
	f.SetCellValue(sheet, "E11", "Fecha")
	f.SetCellValue(sheet, "F11", "Descripcion")
	f.SetCellValue(sheet, "G11", "Importe")

	// Line items: credits in A..C, debits (absolute value) in E..G.
	creditRowN, debitRowN := 12, 12
	for _, txn := range acct.Transactions {
		if txn.Amount.Sign() > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", creditRowN), cleanCell(txn.Date))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", creditRowN), cleanCell(txn.Description))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", creditRowN), txn.Amount.InexactFloat64())
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", creditRowN), fmt.Sprintf("B%d", creditRowN), creditCell)
			f.SetCellStyle(sheet, fmt.Sprintf("C%d", creditRowN), fmt.Sprintf("C%d", creditRowN), creditMoney)
			creditRowN++
		} else if txn.Amount.Sign() < 0 {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", debitRowN), cleanCell(txn.Date))
			f.SetCellValue(sheet, fmt.Sprintf("F%d", debitRowN), cleanCell(txn.Description))
			f.SetCellValue(sheet, fmt.Sprintf("G%d", debitRowN), txn.Amount.Abs().InexactFloat64())
			f.SetCellStyle(sheet, fmt.Sprintf("E%d", debitRowN), fmt.Sprintf("F%d", debitRowN), debitCell)
			f.SetCellStyle(sheet, fmt.Sprintf("G%d", debitRowN), fmt.Sprintf("G%d", debitRowN), debitMoney)
			debitRowN++
		}
	}

	// Running sum totals under each column.
	f.SetCellFormula(sheet, fmt.Sprintf("C%d", creditRowN), fmt.Sprintf("SUM(C12:C%d)", creditRowN-1))
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", creditRowN), fmt.Sprintf("C%d", creditRowN), moneyStyle)
	f.SetCellFormula(sheet, fmt.Sprintf("G%d", debitRowN), fmt.Sprintf("SUM(G12:G%d)", debitRowN-1))
	f.SetCellStyle(sheet, fmt.Sprintf("G%d", debitRowN), fmt.Sprintf("G%d", debitRowN), moneyStyle)

	// CONTROL: zero when opening + credits - debits - closing balances out.
	f.SetCellValue(sheet, "D6", "CONTROL")
	f.SetCellFormula(sheet, "D7", fmt.Sprintf("ROUND(B3+C%d-G%d-B4, 2)", creditRowN, debitRowN))
	f.SetCellStyle(sheet, "D7", "D7", boldStyle)
	if err := f.SetConditionalFormat(sheet, "D7", []excelize.ConditionalFormatOptions{
		{Type: "cell", Criteria: "!=", Value: "0", Format: &redStyle},
	}); err != nil {
		return err
	}

	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "F", "F", 40)
	f.SetColWidth(sheet, "C", "C", 18)
	f.SetColWidth(sheet, "G", "G", 18)
	return nil
}

// ControlValue computes the CONTROL figure from the ledger itself, for
// callers that want the reconciliation verdict without opening the file.
func ControlValue(acct *models.Account) decimal.Decimal {
	credits, debits := decimal.Zero, decimal.Zero
	for _, txn := range acct.Transactions {
		if txn.Amount.Sign() > 0 {
			credits = credits.Add(txn.Amount)
		} else {
			debits = debits.Add(txn.Amount.Abs())
		}
	}
	return acct.OpeningBalance.Add(credits).Sub(debits).Sub(acct.ClosingBalance).Round(2)
}

func bandStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: thinBorder(),
	})
}

func rowStyle(f *excelize.File, color string, numFmt *string) (int, error) {
	style := &excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: thinBorder(),
	}
	if numFmt != nil {
		style.CustomNumFmt = numFmt
	}
	return f.NewStyle(style)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: borderGray, Style: 1},
		{Type: "right", Color: borderGray, Style: 1},
		{Type: "top", Color: borderGray, Style: 1},
		{Type: "bottom", Color: borderGray, Style: 1},
	}
}

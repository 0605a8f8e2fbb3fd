package render

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/resumia/extracto-converter/internal/models"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleStatement() *models.Statement {
	st := &models.Statement{
		Bank: models.BankHSBC,
		Metadata: models.Metadata{
			Holder:        "PEREZ JUAN",
			Period:        "Del 01/01/2024 al 31/01/2024",
			ReferenceYear: "2024",
		},
	}
	st.Register(&models.Account{
		Key:            "191-1-12345-6",
		Label:          "CUENTA CORRIENTE",
		Currency:       models.CurrencyPeso,
		OpeningBalance: dec("500.00"),
		ClosingBalance: dec("450.00"),
		Transactions: []models.Transaction{
			{Date: "02/01/2024", Description: "DEPOSITO EFECTIVO", Amount: dec("100.00")},
			{Date: "03/01/2024", Description: "PAGO SERVICIOS", Amount: dec("-150.00")},
		},
	})
	return st
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRender(t *testing.T) {
	r := &Renderer{}
	data, err := r.Render(sampleStatement())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	f := openWorkbook(t, data)

	sheets := f.GetSheetList()
	if len(sheets) != 1 {
		t.Fatalf("got sheets %v, want exactly one", sheets)
	}
	sheet := sheets[0]
	if sheet != "CUENTA COR $" {
		t.Errorf("sheet name: got %q", sheet)
	}

	raw := excelize.Options{RawCellValue: true}

	if got, _ := f.GetCellValue(sheet, "B3", raw); got != "500" {
		t.Errorf("B3 opening balance: got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "B4", raw); got != "450" {
		t.Errorf("B4 closing balance: got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "E3", raw); got != "PEREZ JUAN" {
		t.Errorf("E3 holder: got %q", got)
	}

	// One credit and one debit: both ledgers start at row 12 and total at 13.
	if got, _ := f.GetCellValue(sheet, "B12", raw); got != "DEPOSITO EFECTIVO" {
		t.Errorf("credit description: got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "C12", raw); got != "100" {
		t.Errorf("credit amount: got %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "F12", raw); got != "PAGO SERVICIOS" {
		t.Errorf("debit description: got %q", got)
	}
	// Debits are rendered as absolute values.
	if got, _ := f.GetCellValue(sheet, "G12", raw); got != "150" {
		t.Errorf("debit amount: got %q", got)
	}

	if got, _ := f.GetCellFormula(sheet, "C13"); got != "SUM(C12:C12)" {
		t.Errorf("credit total formula: got %q", got)
	}
	if got, _ := f.GetCellFormula(sheet, "D7"); got != "ROUND(B3+C13-G13-B4, 2)" {
		t.Errorf("control formula: got %q", got)
	}
}

func TestRenderSkipsSettledEmptyAccounts(t *testing.T) {
	st := sampleStatement()
	st.Register(&models.Account{
		Key:            "402-3-54321-8",
		Label:          "CAJA DE AHORRO",
		Currency:       models.CurrencyDollar,
		OpeningBalance: dec("1000.00"),
		ClosingBalance: dec("1000.00"),
	})

	r := &Renderer{}
	data, err := r.Render(st)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	f := openWorkbook(t, data)
	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("settled empty account got a sheet: %v", sheets)
	}
}

func TestRenderKeepsUnexplainedEmptyAccounts(t *testing.T) {
	// No movements but a balance mismatch: the sheet must exist so the
	// CONTROL cell exposes the discrepancy.
	st := &models.Statement{Bank: models.BankHSBC}
	st.Register(&models.Account{
		Key:            "402-3-54321-8",
		Label:          "CAJA DE AHORRO",
		Currency:       models.CurrencyDollar,
		OpeningBalance: dec("1000.00"),
		ClosingBalance: dec("900.00"),
	})

	r := &Renderer{}
	data, err := r.Render(st)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	f := openWorkbook(t, data)
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "CAJA DE AH U$S" {
		t.Fatalf("got sheets %v", sheets)
	}
	if got, _ := f.GetCellFormula(sheets[0], "D7"); got != "ROUND(B3+C12-G12-B4, 2)" {
		t.Errorf("control formula: got %q", got)
	}
}

func TestRenderDuplicateLabels(t *testing.T) {
	st := sampleStatement()
	st.Register(&models.Account{
		Key:            "191-1-99999-9",
		Label:          "CUENTA CORRIENTE",
		Currency:       models.CurrencyPeso,
		OpeningBalance: dec("0.00"),
		ClosingBalance: dec("10.00"),
	})

	r := &Renderer{}
	data, err := r.Render(st)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	f := openWorkbook(t, data)
	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("got sheets %v, want 2", sheets)
	}
	if sheets[0] == sheets[1] {
		t.Errorf("duplicate sheet names: %v", sheets)
	}
}

func TestControlValue(t *testing.T) {
	tests := []struct {
		name string
		acct *models.Account
		want string
	}{
		{
			name: "fully explained",
			acct: &models.Account{
				OpeningBalance: dec("500.00"),
				ClosingBalance: dec("450.00"),
				Transactions: []models.Transaction{
					{Amount: dec("100.00")},
					{Amount: dec("-150.00")},
				},
			},
			want: "0.00",
		},
		{
			name: "missing movement",
			acct: &models.Account{
				OpeningBalance: dec("500.00"),
				ClosingBalance: dec("450.00"),
				Transactions: []models.Transaction{
					{Amount: dec("-20.00")},
				},
			},
			want: "30.00",
		},
		{
			name: "empty ledger mismatch",
			acct: &models.Account{
				OpeningBalance: dec("1000.00"),
				ClosingBalance: dec("900.00"),
			},
			want: "100.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ControlValue(tt.acct).StringFixed(2); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"PAGO SERVICIOS", "PAGO SERVICIOS"},
		{"PAGO\x00SERVICIOS", "PAGOSERVICIOS"},
		{"  con espacios  ", "con espacios"},
		{"acentuación ñ", "acentuación ñ"},
	}
	for _, tt := range tests {
		if got := cleanCell(tt.input); got != tt.want {
			t.Errorf("cleanCell(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

package writer

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/resumia/extracto-converter/internal/models"
)

func sampleStatement() *models.Statement {
	st := &models.Statement{
		Bank: models.BankHSBC,
		Metadata: models.Metadata{
			Holder: "PEREZ JUAN",
			Period: "Del 01/01/2024 al 31/01/2024",
		},
	}
	st.Register(&models.Account{
		Key:      "191-1-12345-6",
		Label:    "CUENTA CORRIENTE",
		Currency: models.CurrencyPeso,
		Transactions: []models.Transaction{
			{Date: "02/01/2024", Description: "DEPOSITO", Amount: decimal.NewFromInt(100)},
			{Date: "03/01/2024", Description: "PAGO, SERVICIOS", Amount: decimal.NewFromInt(-150)},
		},
	})
	return st
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, sampleStatement()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}
	if records[0][0] != "Cuenta" || records[0][4] != "Importe" {
		t.Errorf("header: got %v", records[0])
	}

	first := records[1]
	if first[0] != "191-1-12345-6" || first[1] != "$" || first[4] != "100.00" {
		t.Errorf("first row: got %v", first)
	}
	second := records[2]
	if second[3] != "PAGO, SERVICIOS" {
		t.Errorf("comma not preserved through quoting: %v", second)
	}
	if second[4] != "-150.00" {
		t.Errorf("debit amount: got %q", second[4])
	}
}

func TestWriteWithHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleStatement()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := csv.NewReader(&buf)
	// Metadata rows are shorter than ledger rows.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("got %d records, want 3 metadata rows plus header plus 2 rows", len(records))
	}
	if records[0][0] != "# Banco" || records[0][1] != "hsbc" {
		t.Errorf("bank row: got %v", records[0])
	}
	if records[1][1] != "PEREZ JUAN" {
		t.Errorf("holder row: got %v", records[1])
	}
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	w := &CSVWriter{}
	if err := w.WriteToFile(path, sampleStatement()); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("file is empty")
	}
}

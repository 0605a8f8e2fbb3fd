package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/resumia/extracto-converter/internal/models"
)

// CSVWriter exports a reconciled statement as flat CSV, one row per
// transaction across all accounts. Useful for feeding the ledger into
// tooling that cannot read the styled workbook.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the statement ledger to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, st)
}

// Write writes the statement ledger in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, st *models.Statement) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Banco", string(st.Bank)})
		writer.Write([]string{"# Titular", st.Metadata.Holder})
		writer.Write([]string{"# Periodo", st.Metadata.Period})
	}

	header := []string{"Cuenta", "Moneda", "Fecha", "Descripcion", "Importe"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, acct := range st.Accounts {
		for _, txn := range acct.Transactions {
			row := []string{
				acct.Key,
				string(acct.Currency),
				txn.Date,
				txn.Description,
				txn.Amount.StringFixed(2),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	return nil
}

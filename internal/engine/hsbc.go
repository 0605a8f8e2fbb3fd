package engine

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/resumia/extracto-converter/internal/models"
)

// HSBC Argentina statements. Multi-account documents: a summary table near
// the top lists every product with its previous and final balance, then a
// "DETALLE DE OPERACIONES" block per account carries the movements, one
// running-balance column at the far right.
//
// Layout of a movement line:
//
//	02-ENE - PAGO SERVICIOS AFIP 1,250.00 48,750.00
//
// The date token only appears on the first movement of each day.
var (
	hsbcAccountPattern = regexp.MustCompile(`\d{3,4}-\d-\d{5}-\d`)
	hsbcPeriodPattern  = regexp.MustCompile(`EXTRACTO DEL\s*(\d{2}/\d{2}/\d{4})\s*AL\s*(\d{2}/\d{2}/\d{4})`)
	hsbcLabelSplit     = regexp.MustCompile(`(?i)(SUCURSAL|SUC|MRNEZ|SLEIL|CENTRO|MICROCENTRO)`)
	hsbcDateToken      = regexp.MustCompile(`^(\d{2})-([A-Z]{3})`)
	hsbcAmountPattern  = regexp.MustCompile(`(?:\d{1,3}(?:,\d{3})*)?\.\d{2}`)
)

func hsbcProfile() Profile {
	return Profile{
		Bank:          models.BankHSBC,
		Name:          "HSBC",
		DetectMarkers: []string{"HSBC", "EXTRACTO DEL"},

		HolderMarker:    "SUCURSAL",
		HolderScanLines: 15,
		PeriodPattern:   hsbcPeriodPattern,
		PeriodScanLines: 35,
		DefaultYear:     "2024",

		SummaryStartMarkers: []string{"PRODUCTO", "SALDO ANTERIOR"},
		SummaryEndMarker:    "DETALLE DE OPERACIONES",
		AccountPattern:      hsbcAccountPattern,
		ForeignMarker:       "u$s",
		LabelSplitPattern:   hsbcLabelSplit,
		DefaultLabel:        "Cuenta",

		SectionKeywords:   []string{"CUENTA", "CAJA", "WPB"},
		SectionEndMarkers: []string{"DETALLE DE TITULARIDAD", "CALCULO DE INTERESES"},
		SkipMarkers: [][]string{
			{"- SALDO ANTERIOR"},
			{"- SALDO FINAL"},
			{"FECHA", "SALDO"},
			{"HOJA", "DE"},
		},

		DateTokenPattern: hsbcDateToken,
		Months: map[string]string{
			"ENE": "01", "FEB": "02", "MAR": "03", "ABR": "04",
			"MAY": "05", "JUN": "06", "JUL": "07", "AGO": "08",
			"SEP": "09", "OCT": "10", "NOV": "11", "DIC": "12",
		},
		AmountPattern: hsbcAmountPattern,
		Tolerance:     decimal.NewFromInt(1),

		Sentinel:           "Sin Especificar",
		DefaultDescription: "Movimiento",
	}
}

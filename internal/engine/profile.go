package engine

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resumia/extracto-converter/internal/models"
)

// Profile carries every per-bank literal the engine needs: section markers,
// token patterns, the month table and the reconciliation tolerance. One
// generic engine consumes a Profile; supporting another institution means
// writing another Profile, not another parser.
type Profile struct {
	Bank models.BankType
	Name string

	// DetectMarkers identify the bank in raw statement text for AutoDetect.
	DetectMarkers []string

	// Metadata extraction. Scans are bounded to the first N lines so that
	// transaction-body text cannot be mistaken for metadata.
	HolderMarker    string
	HolderScanLines int
	PeriodPattern   *regexp.Regexp // two dd/mm/yyyy capture groups
	PeriodScanLines int
	DefaultYear     string

	// Summary region holding one row per account.
	SummaryStartMarkers []string // all must appear on the region's header line
	SummaryEndMarker    string
	AccountPattern      *regexp.Regexp
	ForeignMarker       string // case-insensitive, e.g. "u$s"
	LabelSplitPattern   *regexp.Regexp
	DefaultLabel        string

	// Movement section boundaries and noise.
	SectionKeywords   []string   // one must accompany an account number to open a section
	SectionEndMarkers []string   // any one closes the active section
	SkipMarkers       [][]string // a line matching every marker of a group is consumed silently

	// Transaction line tokens.
	DateTokenPattern *regexp.Regexp // leading dd-MMM token
	Months           map[string]string
	AmountPattern    *regexp.Regexp
	Tolerance        decimal.Decimal

	Sentinel           string // value for absent metadata fields
	DefaultDescription string
}

// containsAll reports whether every marker appears in the line.
func containsAll(line string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(line, m) {
			return false
		}
	}
	return true
}

// containsAny reports whether at least one marker appears in the line.
func containsAny(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

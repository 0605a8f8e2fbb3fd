package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/resumia/extracto-converter/internal/models"
)

// Engine reconciles one bank's statement text into a Statement. It is
// stateless across calls: every Parse builds its own registry and
// accumulators, so concurrent parses of different documents are safe.
type Engine struct {
	profile Profile
	logger  *log.Logger
}

// profiles lists every registered bank, in dispatch order.
var profiles = []Profile{
	hsbcProfile(),
}

// Banks returns the registered bank profiles.
func Banks() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// New returns the engine for the given bank type.
func New(bank models.BankType, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	for _, p := range profiles {
		if p.Bank == bank {
			return &Engine{profile: p, logger: logger}, nil
		}
	}
	return nil, fmt.Errorf("unsupported bank type: %q", bank)
}

// BankName returns the human-readable bank name.
func (e *Engine) BankName() string {
	return e.profile.Name
}

// AutoDetect tries to identify the bank from the statement text content.
func AutoDetect(pages []string) (models.BankType, error) {
	combined := strings.ToUpper(strings.Join(pages, "\n"))
	for _, p := range profiles {
		for _, marker := range p.DetectMarkers {
			if strings.Contains(combined, strings.ToUpper(marker)) {
				return p.Bank, nil
			}
		}
	}
	return "", fmt.Errorf("could not identify the bank from statement content; specify it explicitly")
}

// Parse runs the whole extraction over the page texts: metadata, account
// registry, then the streaming line classification. The result is either a
// complete reconciled Statement or a ParseError — a half-reconciled ledger
// is worse than none, so any panic during the scan voids the whole parse.
func (e *Engine) Parse(pages []string) (st *models.Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("statement scan failed", "bank", e.profile.Bank, "panic", r)
			st = nil
			err = &ParseError{Bank: e.profile.Name, Msg: fmt.Sprintf("%v", r)}
		}
	}()

	var lines []string
	for _, page := range pages {
		lines = append(lines, strings.Split(page, "\n")...)
	}

	st = &models.Statement{Bank: e.profile.Bank}
	st.Metadata = e.extractMetadata(lines)
	e.buildRegistry(lines, st)
	e.classifyLines(lines, st)

	total := 0
	for _, a := range st.Accounts {
		total += len(a.Transactions)
	}
	e.logger.Info("statement parsed",
		"bank", e.profile.Bank,
		"accounts", len(st.Accounts),
		"transactions", total,
		"holder", st.Metadata.Holder,
	)
	return st, nil
}

package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/resumia/extracto-converter/internal/models"
)

// section is the classifier's active-account state. A nil *section means no
// account block is open and lines are ignored until the next header.
// runningBalance starts at the account's opening balance every time its
// header reappears and is advanced by each accepted transaction.
type section struct {
	account        *models.Account
	runningBalance decimal.Decimal
	lastDate       string
}

var (
	leadingDashPattern    = regexp.MustCompile(`^\s*-\s*`)
	trailingDigitsPattern = regexp.MustCompile(`\d+$`)
	trailingAmountPattern = regexp.MustCompile(`\.\d{2}$`)
)

// classifyLines walks the document once, opening and closing account
// sections and dispatching each line to the reconciler or the continuation
// merger. Boilerplate (balance labels, column headers, page footers) is
// consumed with no effect.
func (e *Engine) classifyLines(lines []string, st *models.Statement) {
	var cur *section

	for _, line := range lines {
		if key, ok := e.matchSectionHeader(line); ok {
			if acct, known := st.Account(key); known {
				cur = &section{account: acct, runningBalance: acct.OpeningBalance}
				e.logger.Debug("opened account section", "key", key)
			}
			continue
		}
		if cur == nil {
			continue
		}
		if containsAny(line, e.profile.SectionEndMarkers) {
			cur = nil
			continue
		}
		if e.isBoilerplate(line) {
			continue
		}
		if e.tryTransaction(line, cur, st.Metadata) {
			continue
		}
		e.mergeContinuation(line, cur)
	}
}

// matchSectionHeader reports whether the line opens an account section:
// an account number accompanied by one of the section keywords. The
// returned key may be unregistered; such headers are still consumed.
func (e *Engine) matchSectionHeader(line string) (string, bool) {
	key := e.profile.AccountPattern.FindString(line)
	if key == "" || !containsAny(line, e.profile.SectionKeywords) {
		return "", false
	}
	return key, true
}

func (e *Engine) isBoilerplate(line string) bool {
	for _, group := range e.profile.SkipMarkers {
		if containsAll(line, group) {
			return true
		}
	}
	return false
}

// mergeContinuation appends a wrapped description line onto the section's
// last transaction. Short fragments and lines that end in an amount token
// (another numeric row, not prose) are discarded. The substring guard keeps
// a re-visited line from being appended twice.
func (e *Engine) mergeContinuation(line string, cur *section) {
	clean := strings.TrimSpace(line)
	if clean == "" || utf8.RuneCountInString(clean) <= 3 {
		return
	}
	if trailingAmountPattern.MatchString(clean) {
		return
	}
	txns := cur.account.Transactions
	if len(txns) == 0 {
		return
	}
	text := strings.TrimSpace(leadingDashPattern.ReplaceAllString(clean, ""))
	last := &txns[len(txns)-1]
	if text != "" && !strings.Contains(last.Description, text) {
		last.Description += " " + text
	}
}

package engine

import (
	"strings"

	"github.com/resumia/extracto-converter/internal/models"
)

// tryTransaction attempts to read the line as a movement of the active
// account. A line qualifies when it carries at least two amount tokens —
// the printed amount and the printed running balance — and the balance
// delta agrees with the printed amount within the profile tolerance. The
// delta is the only reliable discriminator once the text is linearized:
// column positions are gone and debit/credit glyphs are often missing.
//
// Returns false when the line is not a transaction; the caller then treats
// it as a continuation candidate.
func (e *Engine) tryTransaction(line string, cur *section, md models.Metadata) bool {
	trimmed := strings.TrimSpace(line)

	// A leading dd-MMM token updates the remembered date even when the
	// line turns out not to be a transaction.
	var dateToken string
	if m := e.profile.DateTokenPattern.FindStringSubmatch(trimmed); m != nil {
		dateToken = m[0]
		month, ok := e.profile.Months[m[2]]
		if !ok {
			month = "01"
		}
		cur.lastDate = m[1] + "/" + month + "/" + md.ReferenceYear
	}

	tokens := e.findAmountTokens(trimmed)
	if len(tokens) < 2 {
		return false
	}

	printedBalance := ParseAmount(tokens[len(tokens)-1].text)
	amountToken := tokens[len(tokens)-2]
	printedAmount := ParseAmount(amountToken.text)

	delta := printedBalance.Sub(cur.runningBalance)
	if delta.Abs().Sub(printedAmount).Abs().Cmp(e.profile.Tolerance) >= 0 {
		return false
	}

	cur.runningBalance = printedBalance

	desc := e.profile.DefaultDescription
	raw := trimmed[:amountToken.start]
	if dateToken != "" {
		raw = strings.TrimPrefix(raw, dateToken)
	}
	raw = leadingDashPattern.ReplaceAllString(raw, "")
	// Stray page or line numbers abut the description after extraction.
	raw = trailingDigitsPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned := strings.TrimSpace(raw); cleaned != "" {
		desc = cleaned
	}

	date := cur.lastDate
	if date == "" {
		date = md.Period
	}

	cur.account.Transactions = append(cur.account.Transactions, models.Transaction{
		Date:        date,
		Description: desc,
		Amount:      delta,
	})
	return true
}

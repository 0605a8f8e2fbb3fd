package engine

import (
	"strings"

	"github.com/resumia/extracto-converter/internal/models"
)

// buildRegistry discovers every account listed in the statement's summary
// region. The region starts after the line carrying all the summary header
// markers and ends at the movement-detail marker or at the first blank line
// once account rows have been seen.
//
// Opening and closing balances are taken by position — second-to-last and
// last amount token on the row — because the column labels are printed on a
// separate line and do not survive linear text extraction.
func (e *Engine) buildRegistry(lines []string, st *models.Statement) {
	start := -1
	for i, l := range lines {
		if containsAll(l, e.profile.SummaryStartMarkers) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return
	}

	seenAccount := false
	for _, l := range lines[start:] {
		if strings.Contains(l, e.profile.SummaryEndMarker) {
			break
		}
		if strings.TrimSpace(l) == "" {
			if seenAccount {
				break
			}
			continue
		}

		loc := e.profile.AccountPattern.FindStringIndex(l)
		if loc == nil {
			// Not every summary line is an account row.
			continue
		}
		seenAccount = true
		key := l[loc[0]:loc[1]]

		currency := models.CurrencyPeso
		if strings.Contains(strings.ToLower(l), e.profile.ForeignMarker) {
			currency = models.CurrencyDollar
		}

		label := e.profile.LabelSplitPattern.Split(l[:loc[0]], 2)[0]
		label = strings.TrimSpace(label)
		if label == "" {
			label = e.profile.DefaultLabel
		}

		acct := &models.Account{
			Key:      key,
			Label:    label,
			Currency: currency,
		}
		if nums := e.findAmounts(l); len(nums) >= 2 {
			acct.OpeningBalance = ParseAmount(nums[len(nums)-2])
			acct.ClosingBalance = ParseAmount(nums[len(nums)-1])
		}
		st.Register(acct)
		e.logger.Debug("registered account",
			"key", key, "label", label, "currency", currency,
			"opening", acct.OpeningBalance, "closing", acct.ClosingBalance,
		)
	}
}

// amountToken is one decimal-amount match with its position on the line.
type amountToken struct {
	text  string
	start int
}

// findAmountTokens returns the decimal-amount tokens on a line in order of
// appearance, dropping any degenerate bare "." match.
func (e *Engine) findAmountTokens(line string) []amountToken {
	locs := e.profile.AmountPattern.FindAllStringIndex(line, -1)
	var out []amountToken
	for _, loc := range locs {
		text := line[loc[0]:loc[1]]
		if strings.TrimSpace(text) == "" || text == "." {
			continue
		}
		out = append(out, amountToken{text: text, start: loc[0]})
	}
	return out
}

// findAmounts returns just the token texts, for callers that only need the
// values.
func (e *Engine) findAmounts(line string) []string {
	tokens := e.findAmountTokens(line)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.text
	}
	return out
}

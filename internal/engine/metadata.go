package engine

import (
	"regexp"
	"strings"

	"github.com/resumia/extracto-converter/internal/models"
)

// branchCodePattern strips a parenthesized branch number from the holder
// line, e.g. "PEREZ JUAN (0042) SUCURSAL CENTRO".
var branchCodePattern = regexp.MustCompile(`\(\d+\)`)

// extractMetadata scans a bounded prefix of the document for the holder
// name, the statement period and the reference year. Missing fields keep
// their sentinel default; that is a normal outcome, not an error.
func (e *Engine) extractMetadata(lines []string) models.Metadata {
	md := models.Metadata{
		Holder:        e.profile.Sentinel,
		Period:        e.profile.Sentinel,
		ReferenceYear: e.profile.DefaultYear,
	}

	for _, l := range prefix(lines, e.profile.HolderScanLines) {
		if strings.Contains(l, e.profile.HolderMarker) &&
			strings.Contains(l, "(") && strings.Contains(l, ")") {
			holder := l[:strings.Index(l, e.profile.HolderMarker)]
			holder = branchCodePattern.ReplaceAllString(holder, "")
			md.Holder = strings.TrimSpace(holder)
			break
		}
	}

	for _, l := range prefix(lines, e.profile.PeriodScanLines) {
		if m := e.profile.PeriodPattern.FindStringSubmatch(l); m != nil {
			md.Period = "Del " + m[1] + " al " + m[2]
			if parts := strings.Split(m[1], "/"); len(parts) == 3 {
				md.ReferenceYear = parts[2]
			}
			break
		}
	}

	return md
}

func prefix(lines []string, n int) []string {
	if len(lines) < n {
		return lines
	}
	return lines[:n]
}

package extract

import (
	"regexp"
	"strconv"
	"time"
)

// French civil documents rarely carry a machine-readable date; the signature
// line is the usual place to find one.
var datePatterns = []*regexp.Regexp{
	// "Fait à Paris, le 15 janvier 2020"
	regexp.MustCompile(`[Ff]ait\s+à\s+[\p{L}-]+,?\s+le\s+(\d{1,2})(?:er)?\s+(janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre)\s+(\d{4})`),
	// "Date de signature : 15/01/2020"
	regexp.MustCompile(`[Dd]ate\s+de\s+signature\s*:\s*(\d{1,2})[/-](\d{1,2})[/-](\d{4})`),
	// "Signé le 15/01/2020"
	regexp.MustCompile(`[Ss]igné\s+le\s+(\d{1,2})[/-](\d{1,2})[/-](\d{4})`),
}

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
}

// DocumentDate looks for a signature or drafting date in the document text.
// Returns nil when no recognizable date is present.
func DocumentDate(text string) *time.Time {
	for i, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var day, year int
		var month time.Month

		if i == 0 {
			// Long form: day, month name, year
			day, _ = strconv.Atoi(m[1])
			month = frenchMonths[m[2]]
			year, _ = strconv.Atoi(m[3])
		} else {
			// Numeric form: dd/mm/yyyy
			day, _ = strconv.Atoi(m[1])
			mon, _ := strconv.Atoi(m[2])
			if mon < 1 || mon > 12 {
				continue
			}
			month = time.Month(mon)
			year, _ = strconv.Atoi(m[3])
		}

		if month == 0 || day < 1 || day > 31 {
			continue
		}

		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	return nil
}

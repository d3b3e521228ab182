package analyzer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|` +
	`January|February|March|April|May|June|July|August|September|October|November|December`

var (
	dateRangeRe = regexp.MustCompile(
		`(?i)(\b(?:` + monthNames + `)?\.?\s?\d{4})` +
			`\s?[-–to]+\s?` +
			`(\b(?:` + monthNames + `)?\.?\s?\d{4}|Present|Current)`,
	)
	datePartRe   = regexp.MustCompile(`(?i)^([a-z]+)?\.?\s?(\d{4})$`)
	yearsRe      = regexp.MustCompile(`(?i)(\d+)\s+(?:years?|yrs?)`)
	ongoingRe    = regexp.MustCompile(`(?i)present|current`)
	monthNumbers = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
		"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
		"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
	}
)

// yearMonth is a calendar month; day precision is irrelevant to experience totals.
type yearMonth struct {
	year  int
	month time.Month
}

func (ym yearMonth) index() int {
	return ym.year*12 + int(ym.month) - 1
}

// ExperienceYears sums the month spans of every valid date range in the text.
// When no range contributes, "<N> years" mentions are summed instead.
func (a *Analyzer) ExperienceYears(text string) float64 {
	totalMonths := 0
	for _, m := range dateRangeRe.FindAllStringSubmatch(text, -1) {
		if months, ok := a.rangeMonths(m[1], m[2]); ok {
			totalMonths += months
		}
	}

	if totalMonths == 0 {
		for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			totalMonths += n * 12
		}
	}

	return math.Round(float64(totalMonths)/12*10) / 10
}

// rangeMonths returns the length of start..end in months. A date without a month
// is January. An explicit end month counts itself; a bare end year or
// Present/Current does not.
func (a *Analyzer) rangeMonths(startStr, endStr string) (int, bool) {
	start, _, ok := parseYearMonth(startStr)
	if !ok {
		return 0, false
	}

	var endIdx int
	if ongoingRe.MatchString(endStr) {
		now := a.now()
		endIdx = yearMonth{year: now.Year(), month: now.Month()}.index()
	} else {
		end, hasMonth, ok := parseYearMonth(endStr)
		if !ok {
			return 0, false
		}
		endIdx = end.index()
		if hasMonth {
			endIdx++
		}
	}

	if endIdx < start.index() {
		return 0, false
	}
	return endIdx - start.index(), true
}

// parseYearMonth reads "[Month] YYYY". hasMonth reports whether the month was
// written out.
func parseYearMonth(s string) (ym yearMonth, hasMonth bool, ok bool) {
	m := datePartRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return yearMonth{}, false, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil || year == 0 {
		return yearMonth{}, false, false
	}
	month := time.January
	if m[1] != "" {
		word := strings.ToLower(m[1])
		if len(word) < 3 {
			return yearMonth{}, false, false
		}
		mm, ok := monthNumbers[word[:3]]
		if !ok {
			return yearMonth{}, false, false
		}
		month = mm
	}
	return yearMonth{year: year, month: month}, m[1] != "", true
}

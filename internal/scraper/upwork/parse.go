package upwork

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Each parser walks an ordered pattern list and takes the first match.
// The order matters: the range form must be tried before the single form or
// "$500 - $1,000" would resolve to its upper bound only.
var (
	budgetRangeRe  = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)\s*-\s*\$([\d,]+(?:\.\d+)?)`)
	budgetFixedRe  = regexp.MustCompile(`(?i)fixed[^$]*\$([\d,]+(?:\.\d+)?)`)
	budgetSingleRe = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)`)

	hourlyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\$([\d,]+(?:\.\d+)?)\s*/\s*hr`),
		regexp.MustCompile(`(?i)\$([\d,]+(?:\.\d+)?)\s*/\s*hour`),
	}

	proposalsRangeRe  = regexp.MustCompile(`(?i)(\d+)\s*-\s*(\d+)\s+proposals`)
	proposalsSingleRe = regexp.MustCompile(`(?i)(\d+)\+?\s+proposals`)
)

// ParseBudget converts a budget label to a whole amount in the listing's
// currency. Ranges resolve to the rounded mean of the bounds. Returns nil
// when nothing in the text looks like money.
func ParseBudget(text string) *int {
	if m := budgetRangeRe.FindStringSubmatch(text); m != nil {
		lo := parseAmount(m[1])
		hi := parseAmount(m[2])
		v := int(math.Round((lo + hi) / 2))
		return &v
	}
	if m := budgetFixedRe.FindStringSubmatch(text); m != nil {
		v := int(math.Round(parseAmount(m[1])))
		return &v
	}
	if m := budgetSingleRe.FindStringSubmatch(text); m != nil {
		v := int(math.Round(parseAmount(m[1])))
		return &v
	}
	return nil
}

// ParseHourlyRate reads "$35/hr" or "$35.50/hour" style labels as a decimal.
// Returns nil when no pattern matches.
func ParseHourlyRate(text string) *float64 {
	for _, re := range hourlyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			v := parseAmount(m[1])
			return &v
		}
	}
	return nil
}

// ParseProposals reads "15 proposals" or "5-10 proposals" (range resolves to
// the rounded mean). Returns 0 when nothing matches; 0 therefore doubles as
// "unknown".
func ParseProposals(text string) int {
	if m := proposalsRangeRe.FindStringSubmatch(text); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return int(math.Round(float64(lo+hi) / 2))
	}
	if m := proposalsSingleRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v
}

// Known job URL shapes, most specific first. The capture stops at the next
// path separator or query-string boundary.
var jobIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/jobs/([^/?]+)`),
	regexp.MustCompile(`/nx/jobs/([^/?]+)`),
	regexp.MustCompile(`job/([^/?]+)`),
	regexp.MustCompile(`~([^/?]+)`),
}

// JobIDFromURL derives the dedup identity for a job from its URL.
// Returns "" when the URL is empty or matches no known shape; such records
// cannot be addressed later and are dropped by the store.
func JobIDFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	for _, re := range jobIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

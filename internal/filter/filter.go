package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-upwork-automation/internal/scraper"
)

// Criteria mirrors the search filter input: type/level gates plus a budget
// window. Zero values mean "no constraint".
type Criteria struct {
	JobType         string // "all", "fixed" or "hourly"
	ExperienceLevel string // "all", "entry", "intermediate", "expert"
	BudgetMin       int
	BudgetMax       int
	Keywords        []string
	ExcludeKeywords []string
}

// assumed weekly hours when comparing an hourly rate to a budget window
const hoursForBudget = 40

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// ShouldIncludeJob applies the caller's criteria to an extracted record.
// Records missing the data a gate needs pass that gate: filters only cut
// what they can positively reject.
func ShouldIncludeJob(job scraper.JobRecord, c Criteria) bool {
	if c.JobType != "" && c.JobType != "all" && job.JobType != "" && job.JobType != c.JobType {
		return false
	}
	if c.ExperienceLevel != "" && c.ExperienceLevel != "all" && job.ExperienceLevel != "" &&
		!strings.Contains(strings.ToLower(job.ExperienceLevel), strings.ToLower(c.ExperienceLevel)) {
		return false
	}

	// budget window for fixed-price jobs
	if job.JobType == "fixed" && job.Budget != nil {
		if (c.BudgetMin > 0 && *job.Budget < c.BudgetMin) || (c.BudgetMax > 0 && *job.Budget > c.BudgetMax) {
			return false
		}
	}

	// hourly jobs compare against the window through an assumed week
	if job.JobType == "hourly" && job.HourlyRate != nil {
		weekly := *job.HourlyRate * hoursForBudget
		if (c.BudgetMin > 0 && weekly < float64(c.BudgetMin)) || (c.BudgetMax > 0 && weekly > float64(c.BudgetMax)) {
			return false
		}
	}

	text := normalizeText(job.Title + " " + job.Description + " " + strings.Join(job.Skills, " "))

	for _, excluded := range c.ExcludeKeywords {
		if excluded == "" {
			continue
		}
		if strings.Contains(text, normalizeText(excluded)) {
			return false
		}
	}

	if len(c.Keywords) > 0 {
		matched := false
		for _, kw := range c.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(text, normalizeText(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Field extraction from rendered Upwork markup
// Selector lists are ordered: the head tracks the current data-test
// attributes, the tail keeps looser class-based fallbacks alive for older
// renderings. First selector with non-empty trimmed text wins.

package upwork

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-upwork-automation/internal/scraper"
)

// Origin is the canonical site origin relative hrefs resolve against.
const Origin = "https://www.upwork.com"

var (
	jobTileSelectors = []string{
		`[data-test="job-tile-list"] [data-test="job-tile"]`,
		`[data-test="JobTile"]`,
		`article[data-test="job-tile"]`,
		`section.job-tile, article.job-tile`,
	}

	titleSelectors = []string{
		`a[data-test="job-title-link"]`,
		`[data-test="JobTileTitle"]`,
		`h3 a`,
		`h2.job-title a`,
	}
	urlSelectors = []string{
		`a[data-test="job-title-link"]`,
		`[data-test="JobTileTitle"] a`,
		`h3 a`,
		`a[href*="/jobs/"]`,
		`a`,
	}
	descriptionSelectors = []string{
		`[data-test="job-description-text"]`,
		`[data-test="JobTileDescription"]`,
		`.job-description`,
	}
	budgetSelectors = []string{
		`[data-test="budget"]`,
		`[data-test="JobTileBudget"]`,
		`.budget`,
	}
	hourlySelectors = []string{
		`[data-test="job-type"] strong`,
		`[data-test="JobTileHourlyRate"]`,
		`.hourly-rate`,
	}
	jobTypeSelectors = []string{
		`[data-test="job-type"]`,
		`[data-test="JobTileType"]`,
		`.job-type`,
	}
	experienceSelectors = []string{
		`[data-test="contractor-tier"]`,
		`[data-test="JobTileExperienceLevel"]`,
		`.experience-level`,
	}
	postedSelectors = []string{
		`[data-test="posted-on"]`,
		`[data-test="JobTilePostedTime"]`,
		`.posted-time`,
	}
	countrySelectors = []string{
		`[data-test="client-country"]`,
		`[data-test="location"]`,
		`.client-location`,
	}
	proposalsSelectors = []string{
		`[data-test="proposals"]`,
		`[data-test="JobTileProposals"]`,
		`.proposals`,
	}
	verifiedSelectors = []string{
		`[data-test="payment-verified"]`,
		`[data-test="payment-verification-status"] .air3-icon-check`,
		`.payment-verified`,
	}
	skillSelectors = []string{
		`[data-test="attr-item"]`,
		`[data-test="JobTileSkills"] .skill-tag`,
		`.skills .tag`,
	}
	clientNameSelectors = []string{
		`[data-test="client-name"]`,
		`[data-test="JobTileClientName"]`,
		`.client-name`,
	}
	clientRatingSelectors = []string{
		`[data-test="client-rating"] .air3-rating-value-text`,
		`[data-test="JobTileClientRating"]`,
		`.client-rating`,
	}
	clientSpentSelectors = []string{
		`[data-test="client-spendings"]`,
		`[data-test="JobTileClientSpent"]`,
		`.client-spent`,
	}
)

// firstText returns the trimmed text of the first selector that yields any,
// or "" when every candidate misses.
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr works like firstText but reads an attribute.
func firstAttr(s *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		if val, ok := s.Find(sel).First().Attr(attr); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// anyPresent reports whether any candidate selector matches at all.
// Used for flags whose presence is the signal (payment verified badge).
func anyPresent(s *goquery.Selection, selectors []string) bool {
	for _, sel := range selectors {
		if s.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// collectText gathers the trimmed text of every match of the first selector
// that yields at least one non-empty entry, preserving document order.
func collectText(s *goquery.Selection, selectors []string) []string {
	for _, sel := range selectors {
		var out []string
		s.Find(sel).Each(func(_ int, el *goquery.Selection) {
			if text := strings.TrimSpace(el.Text()); text != "" {
				out = append(out, text)
			}
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// AbsoluteURL resolves a possibly-relative href against the site origin.
func AbsoluteURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return Origin + href
	default:
		return Origin + "/" + href
	}
}

// ExtractJob pulls a best-effort record out of one job tile. It is a pure
// function of the fragment: a field with no matching markup degrades to its
// empty value and never disturbs sibling fields.
func ExtractJob(tile *goquery.Selection) scraper.JobRecord {
	rec := scraper.JobRecord{
		Title:           firstText(tile, titleSelectors),
		Description:     firstText(tile, descriptionSelectors),
		JobURL:          AbsoluteURL(firstAttr(tile, urlSelectors, "href")),
		JobType:         normalizeJobType(firstText(tile, jobTypeSelectors)),
		ExperienceLevel: firstText(tile, experienceSelectors),
		Posted:          firstText(tile, postedSelectors),
		Country:         firstText(tile, countrySelectors),
		PaymentVerified: anyPresent(tile, verifiedSelectors),
		Skills:          collectText(tile, skillSelectors),
		Client: scraper.ClientInfo{
			Name:       firstText(tile, clientNameSelectors),
			Rating:     firstText(tile, clientRatingSelectors),
			TotalSpent: firstText(tile, clientSpentSelectors),
		},
	}
	rec.JobID = JobIDFromURL(rec.JobURL)
	rec.Budget = ParseBudget(firstText(tile, budgetSelectors))
	rec.HourlyRate = ParseHourlyRate(firstText(tile, hourlySelectors))
	rec.Proposals = ParseProposals(firstText(tile, proposalsSelectors))
	return rec
}

func normalizeJobType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "hourly"):
		return "hourly"
	case strings.Contains(lower, "fixed"):
		return "fixed"
	case text == "":
		return ""
	default:
		return text
	}
}

// Detail pages carry richer markup than tiles; the lists below target the
// job detail rendering and feed the store's detail-merge path.
var (
	detailDescriptionSelectors = []string{
		`[data-test="Description"]`,
		`[data-test="JobDetails"] [data-test="description"]`,
		`section.job-description`,
		`.description`,
	}
	detailSkillSelectors = []string{
		`[data-test="Skill"]`,
		`.skills-list [data-test="attr-item"]`,
		`.skills .air3-token`,
	}
	detailClientNameSelectors = []string{
		`[data-test="AboutClientVisitor"] [data-test="client-name"]`,
		`.client-info .client-name`,
	}
	detailClientRatingSelectors = []string{
		`[data-test="AboutClientVisitor"] .air3-rating-value-text`,
		`.client-info .client-rating`,
	}
	detailClientSpentSelectors = []string{
		`[data-test="AboutClientVisitor"] [data-test="total-spent"]`,
		`.client-info .client-spent`,
	}
	detailBudgetSelectors = []string{
		`[data-test="BudgetAmount"]`,
		`ul[data-test="job-features"] li strong`,
		`.budget`,
	}
	detailExperienceSelectors = []string{
		`[data-test="Features"] [data-test="contractor-tier"]`,
		`.expertise-level`,
	}
	detailProposalsSelectors = []string{
		`[data-test="ClientActivity"] .ca-item .value`,
		`.client-activity .proposals`,
	}
)

// ExtractDetail pulls the enrichment fields from a job detail page.
// Only populated fields will overwrite listing data during the merge.
func ExtractDetail(doc *goquery.Document, jobURL string) scraper.JobRecord {
	root := doc.Selection
	rec := scraper.JobRecord{
		JobID:           JobIDFromURL(jobURL),
		JobURL:          jobURL,
		Description:     firstText(root, detailDescriptionSelectors),
		ExperienceLevel: firstText(root, detailExperienceSelectors),
		Skills:          collectText(root, detailSkillSelectors),
		Client: scraper.ClientInfo{
			Name:       firstText(root, detailClientNameSelectors),
			Rating:     firstText(root, detailClientRatingSelectors),
			TotalSpent: firstText(root, detailClientSpentSelectors),
		},
	}
	budgetText := firstText(root, detailBudgetSelectors)
	rec.HourlyRate = ParseHourlyRate(budgetText)
	if rec.HourlyRate == nil {
		rec.Budget = ParseBudget(budgetText)
	}
	rec.Proposals = ParseProposals(firstText(root, detailProposalsSelectors))
	return rec
}

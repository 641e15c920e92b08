// Proposal submission: a scripted UI sequence over a logged-in session.
// Every UI target is located through an ordered selector list, the same
// first-match-wins policy the extractor uses, because the apply flow's
// markup drifts as often as the listing pages do.

package submit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-upwork-automation/internal/scraper/upwork"
	"go-upwork-automation/utils"
)

var (
	applySelectors = []string{
		`[data-test="SubmitProposalButton"]`,
		`button:has-text("Submit a Proposal")`,
		`button:has-text("Apply")`,
		`a:has-text("Submit a Proposal")`,
		`a:has-text("Apply")`,
		`.submit-proposal-button`,
		`.apply-button`,
	}
	coverLetterSelectors = []string{
		`[data-test="CoverLetterTextarea"]`,
		`textarea[name="coverLetter"]`,
		`textarea[placeholder*="cover letter"]`,
		`textarea[placeholder*="proposal"]`,
		`.cover-letter textarea`,
		`.proposal-text textarea`,
	}
	rateSelectors = []string{
		`[data-test="HourlyRateInput"]`,
		`input[name="hourlyRate"]`,
		`input[placeholder*="hourly rate"]`,
		`input[placeholder*="rate"]`,
		`.hourly-rate input`,
		`.rate-input input`,
	}
	submitSelectors = []string{
		`[data-test="SubmitProposalButton"]`,
		`button:has-text("Submit Proposal")`,
		`button:has-text("Continue")`,
		`button:has-text("Submit")`,
		`.submit-proposal-button`,
		`.continue-button`,
	}
	connectsSelectors = []string{
		`button:has-text("Confirm")`,
		`button:has-text("Use Connects")`,
		`button:has-text("Continue")`,
		`.confirm-connects-button`,
		`.use-connects-button`,
	}
	jobDetailsSelectors = []string{
		`[data-test="JobDetails"]`,
		`main .job-details`,
	}
)

// Options drives one submission attempt.
type Options struct {
	JobURL          string
	ProposalText    string
	HourlyRate      float64 // 0 skips the rate field (fixed-price jobs)
	ConnectsConfirm bool
	ActionDelay     time.Duration
	TakeScreenshot  bool
}

// Result reports how a submission attempt ended.
type Result struct {
	Status         string    `json:"status"` // "success" or "failed"
	FinalURL       string    `json:"finalUrl"`
	ScreenshotPath string    `json:"screenshotPath,omitempty"`
	Error          string    `json:"error,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type Submitter struct {
	page  playwright.Page
	delay time.Duration
	shots *utils.ScreenShotDebugger
}

func NewSubmitter(page playwright.Page, actionDelay time.Duration) *Submitter {
	if actionDelay <= 0 {
		actionDelay = 2 * time.Second
	}
	return &Submitter{
		page:  page,
		delay: actionDelay,
		shots: utils.NewScreenShotDebugger(),
	}
}

// Submit runs the whole apply flow against an authenticated page. It never
// panics; any step failure produces a failed Result with the error recorded
// and, when requested, a screenshot of where things stood.
func (s *Submitter) Submit(ctx context.Context, opts Options) Result {
	result := Result{Status: "failed", SubmittedAt: time.Now()}

	err := s.run(ctx, opts)
	result.FinalURL = s.page.URL()
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Status = "success"
	}

	if opts.TakeScreenshot {
		name := "proposal-submitted"
		if err != nil {
			name = "proposal-failed"
		}
		if path, shotErr := s.shots.CaptureAndLog(s.page, name, "Capturing submission result"); shotErr == nil {
			result.ScreenshotPath = path
		}
	}
	return result
}

func (s *Submitter) run(ctx context.Context, opts Options) error {
	steps := []struct {
		name string
		fn   func(Options) error
	}{
		{"navigate to job page", s.navigateToJob},
		{"click apply button", s.clickApply},
		{"fill cover letter", s.fillCoverLetter},
		{"set hourly rate", s.setHourlyRate},
		{"submit proposal", s.submitProposal},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.fn(opts); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// firstVisible walks the selector list and returns the first visible match.
func (s *Submitter) firstVisible(selectors []string, timeoutMs float64) playwright.Locator {
	for _, sel := range selectors {
		loc := s.page.Locator(sel).First()
		if visible, _ := loc.IsVisible(playwright.LocatorIsVisibleOptions{
			Timeout: playwright.Float(timeoutMs),
		}); visible {
			return loc
		}
	}
	return nil
}

func (s *Submitter) navigateToJob(opts Options) error {
	if _, err := s.page.Goto(opts.JobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return err
	}

	if details := s.firstVisible(jobDetailsSelectors, 10000); details == nil {
		return fmt.Errorf("job details did not load")
	}

	if unavailable, _ := s.page.Locator(`text=This job is no longer available`).IsVisible(); unavailable {
		return fmt.Errorf("job is no longer available")
	}
	if applied, _ := s.page.Locator(`text=You have already submitted a proposal`).IsVisible(); applied {
		return fmt.Errorf("already applied to this job")
	}
	return nil
}

func (s *Submitter) clickApply(Options) error {
	button := s.firstVisible(applySelectors, 2000)
	if button == nil {
		return fmt.Errorf("apply button not found")
	}
	if err := button.Click(); err != nil {
		return err
	}
	time.Sleep(s.delay)
	return nil
}

func (s *Submitter) fillCoverLetter(opts Options) error {
	field := s.firstVisible(coverLetterSelectors, 5000)
	if field == nil {
		return fmt.Errorf("cover letter field not found")
	}
	if err := field.Clear(); err != nil {
		return err
	}
	if err := field.Fill(opts.ProposalText); err != nil {
		return err
	}
	time.Sleep(s.delay)
	return nil
}

// setHourlyRate is best-effort: fixed-price jobs have no rate field and that
// is not an error.
func (s *Submitter) setHourlyRate(opts Options) error {
	if opts.HourlyRate <= 0 {
		return nil
	}
	field := s.firstVisible(rateSelectors, 2000)
	if field == nil {
		return nil
	}
	if err := field.Clear(); err != nil {
		return nil
	}
	if err := field.Fill(strconv.FormatFloat(opts.HourlyRate, 'f', -1, 64)); err != nil {
		return nil
	}
	time.Sleep(s.delay)
	return nil
}

func (s *Submitter) submitProposal(opts Options) error {
	button := s.firstVisible(submitSelectors, 2000)
	if button == nil {
		return fmt.Errorf("submit button not found")
	}
	if err := button.Click(); err != nil {
		return err
	}
	time.Sleep(s.delay)

	if opts.ConnectsConfirm {
		// the connects dialog doesn't always appear; absence is fine
		if confirm := s.firstVisible(connectsSelectors, 3000); confirm != nil {
			confirm.Click()
			time.Sleep(s.delay)
		}
	}

	// give the submission time to land before the caller reads the URL
	time.Sleep(2 * s.delay)
	return nil
}

// JobID re-derives the job identity from the submission target so results
// can be joined back to scraped records.
func JobID(jobURL string) string {
	return upwork.JobIDFromURL(jobURL)
}

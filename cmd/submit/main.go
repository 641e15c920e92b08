package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"go-upwork-automation/internal/browser"
	"go-upwork-automation/internal/submit"
)

func main() {
	_ = godotenv.Load()

	jobURL := flag.String("job", os.Getenv("JOB_URL"), "job page URL to apply to")
	proposal := flag.String("proposal", os.Getenv("PROPOSAL_TEXT"), "proposal cover letter text")
	rate := flag.Float64("rate", envFloat("HOURLY_RATE", 0), "hourly rate to bid, 0 for fixed-price")
	headless := flag.Bool("headless", true, "run the browser headless")
	screenshot := flag.Bool("screenshot", true, "capture a screenshot of the result")
	flag.Parse()

	sessionCookie := os.Getenv("UPWORK_SESSION_COOKIE")

	// pre-flight validation, fatal before any browser work starts
	if sessionCookie == "" {
		log.Fatal("UPWORK_SESSION_COOKIE is required for authentication")
	}
	if *jobURL == "" {
		log.Fatal("job URL is required (-job or JOB_URL)")
	}
	if *proposal == "" {
		log.Fatal("proposal text is required (-proposal or PROPOSAL_TEXT)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pwManager, err := browser.NewManager(*headless)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	cookies := browser.ParseCookieHeader(sessionCookie, ".upwork.com")
	log.Printf("🍪 Set %d cookies for authentication", len(cookies))

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		log.Fatalf("❌ Failed to create browser context: %v", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("❌ Failed to create page: %v", err)
	}

	log.Printf("📝 Submitting proposal to %s (job %s)", *jobURL, submit.JobID(*jobURL))

	submitter := submit.NewSubmitter(page, 2*time.Second)
	result := submitter.Submit(ctx, submit.Options{
		JobURL:          *jobURL,
		ProposalText:    *proposal,
		HourlyRate:      *rate,
		ConnectsConfirm: true,
		TakeScreenshot:  *screenshot,
	})

	out, _ := json.MarshalIndent(result, "", "  ")
	os.Stdout.Write(append(out, '\n'))

	if result.Status != "success" {
		log.Fatalf("❌ Submission failed: %s", result.Error)
	}
	log.Println("✅ Proposal submitted successfully!")
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-upwork-automation/internal/scraper"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestShouldIncludeJob(t *testing.T) {
	tests := []struct {
		name string
		job  scraper.JobRecord
		c    Criteria
		want bool
	}{
		{
			name: "empty criteria passes everything",
			job:  scraper.JobRecord{Title: "Anything at all"},
			c:    Criteria{},
			want: true,
		},
		{
			name: "job type mismatch",
			job:  scraper.JobRecord{JobType: "fixed"},
			c:    Criteria{JobType: "hourly"},
			want: false,
		},
		{
			name: "job type all matches anything",
			job:  scraper.JobRecord{JobType: "fixed"},
			c:    Criteria{JobType: "all"},
			want: true,
		},
		{
			name: "unknown job type passes the type gate",
			job:  scraper.JobRecord{},
			c:    Criteria{JobType: "hourly"},
			want: true,
		},
		{
			name: "experience level mismatch",
			job:  scraper.JobRecord{ExperienceLevel: "Entry Level"},
			c:    Criteria{ExperienceLevel: "expert"},
			want: false,
		},
		{
			name: "experience level substring match",
			job:  scraper.JobRecord{ExperienceLevel: "Expert"},
			c:    Criteria{ExperienceLevel: "expert"},
			want: true,
		},
		{
			name: "fixed budget below window",
			job:  scraper.JobRecord{JobType: "fixed", Budget: intPtr(200)},
			c:    Criteria{BudgetMin: 500},
			want: false,
		},
		{
			name: "fixed budget inside window",
			job:  scraper.JobRecord{JobType: "fixed", Budget: intPtr(1500)},
			c:    Criteria{BudgetMin: 500, BudgetMax: 5000},
			want: true,
		},
		{
			name: "fixed budget above window",
			job:  scraper.JobRecord{JobType: "fixed", Budget: intPtr(9000)},
			c:    Criteria{BudgetMax: 5000},
			want: false,
		},
		{
			name: "fixed job without budget passes the window",
			job:  scraper.JobRecord{JobType: "fixed"},
			c:    Criteria{BudgetMin: 500, BudgetMax: 5000},
			want: true,
		},
		{
			name: "hourly rate scaled to a week inside window",
			job:  scraper.JobRecord{JobType: "hourly", HourlyRate: floatPtr(30)},
			c:    Criteria{BudgetMin: 1000, BudgetMax: 2000},
			want: true, // 30 * 40 = 1200
		},
		{
			name: "hourly rate scaled to a week below window",
			job:  scraper.JobRecord{JobType: "hourly", HourlyRate: floatPtr(10)},
			c:    Criteria{BudgetMin: 1000},
			want: false, // 10 * 40 = 400
		},
		{
			name: "include keyword in title",
			job:  scraper.JobRecord{Title: "Golang scraper wanted"},
			c:    Criteria{Keywords: []string{"golang"}},
			want: true,
		},
		{
			name: "include keyword in skills",
			job:  scraper.JobRecord{Title: "Backend work", Skills: []string{"Go", "PostgreSQL"}},
			c:    Criteria{Keywords: []string{"postgresql"}},
			want: true,
		},
		{
			name: "no include keyword matches",
			job:  scraper.JobRecord{Title: "WordPress tweaks", Description: "small theme fixes"},
			c:    Criteria{Keywords: []string{"golang", "rust"}},
			want: false,
		},
		{
			name: "exclude keyword wins over include",
			job:  scraper.JobRecord{Title: "Golang wordpress plugin"},
			c:    Criteria{Keywords: []string{"golang"}, ExcludeKeywords: []string{"wordpress"}},
			want: false,
		},
		{
			name: "diacritics are ignored when matching",
			job:  scraper.JobRecord{Title: "Développeur Go recherché"},
			c:    Criteria{Keywords: []string{"developpeur"}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldIncludeJob(tt.job, tt.c))
		})
	}
}

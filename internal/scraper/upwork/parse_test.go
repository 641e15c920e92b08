package upwork

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{"range averages and rounds", "$500 - $1,000", intPtr(750)},
		{"fixed price", "Fixed: $2,000", intPtr(2000)},
		{"fixed lowercase", "Fixed-price - $350", intPtr(350)},
		{"single amount", "$5,000", intPtr(5000)},
		{"empty", "", nil},
		{"no money at all", "Negotiable", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBudget(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestParseHourlyRate(t *testing.T) {
	tests := []struct {
		text string
		want *float64
	}{
		{"$35.00/hr", floatPtr(35)},
		{"$12.50 / hr", floatPtr(12.5)},
		{"$40/hour", floatPtr(40)},
		{"Hourly: $1,200/hour", floatPtr(1200)},
		{"", nil},
		{"$500", nil},
	}

	for _, tt := range tests {
		got := ParseHourlyRate(tt.text)
		if tt.want == nil {
			assert.Nil(t, got, "text %q", tt.text)
			continue
		}
		if assert.NotNil(t, got, "text %q", tt.text) {
			assert.InDelta(t, *tt.want, *got, 0.001)
		}
	}
}

func TestParseProposals(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"15 proposals", 15},
		{"5-10 proposals", 8}, // mean 7.5 rounds up
		{"Proposals: 20-50 proposals", 35},
		{"50+ proposals", 50},
		{"no proposals info", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseProposals(tt.text), "text %q", tt.text)
	}
}

func TestJobIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"jobs path", "https://www.upwork.com/jobs/~0123abc456", "~0123abc456"},
		{"nx jobs path", "https://www.upwork.com/nx/jobs/~0999fff", "~0999fff"},
		{"query string stops capture", "https://www.upwork.com/jobs/~0123abc?source=search", "~0123abc"},
		{"trailing path stops capture", "https://www.upwork.com/jobs/~0123abc/apply", "~0123abc"},
		{"bare tilde", "https://www.upwork.com/o/profiles/~01fedcba", "01fedcba"},
		{"empty url", "", ""},
		{"no pattern", "https://example.com/about", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JobIDFromURL(tt.url))
			// stable across repeated calls
			assert.Equal(t, JobIDFromURL(tt.url), JobIDFromURL(tt.url))
		})
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

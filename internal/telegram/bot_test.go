package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-upwork-automation/internal/scraper"
)

func TestEscapeMarkdown(t *testing.T) {
	b := &Bot{}
	assert.Equal(t, "Build a Go scraper", b.escapeMarkdown("Build a Go scraper"))
	assert.Equal(t, "C\\+\\+ \\(senior\\)", b.escapeMarkdown("C++ (senior)"))
	assert.Equal(t, "rate: \\~$35\\.00/hr\\!", b.escapeMarkdown("rate: ~$35.00/hr!"))
}

func TestFormatPay(t *testing.T) {
	rate := 35.5
	budget := 2000

	tests := []struct {
		name string
		job  scraper.JobRecord
		want string
	}{
		{"hourly", scraper.JobRecord{HourlyRate: &rate}, "$35.50/hr"},
		{"fixed", scraper.JobRecord{Budget: &budget}, "$2000 fixed"},
		{"hourly wins when both are set", scraper.JobRecord{HourlyRate: &rate, Budget: &budget}, "$35.50/hr"},
		{"neither", scraper.JobRecord{}, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPay(tt.job))
		})
	}
}

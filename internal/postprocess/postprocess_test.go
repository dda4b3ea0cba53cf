package postprocess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/record"
)

// 2026-01-10 21:00 UTC is already 2026-01-11 in Kabul (UTC+4:30)
var lateUTC = time.Date(2026, 1, 10, 21, 0, 0, 0, time.UTC)

func TestKabulToday(t *testing.T) {
	assert.Equal(t, "2026-01-11", KabulToday(lateUTC))
	assert.Equal(t, "2026-01-10", KabulToday(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)))
}

func TestProcessExpiry(t *testing.T) {
	records := []record.JobRecord{
		{URL: "https://jobs.af/jobs/expired-1", ClosingDate: "2026-01-10"},
		{URL: "https://jobs.af/jobs/open-1", ClosingDate: "2026-01-11"},
		{URL: "https://jobs.af/jobs/open-later", ClosingDate: "2026-03-01"},
		{URL: "https://jobs.af/jobs/no-date"},
	}

	res := Process(records, nil, lateUTC)

	assert.Equal(t, 4, res.Summary.TotalScraped)
	assert.Equal(t, 1, res.Summary.TotalExpired)
	assert.Equal(t, 3, res.Summary.TotalOpen)
	assert.Equal(t, "2026-01-11", res.Summary.Today)

	urls := make([]string, 0, len(res.Jobs))
	for _, j := range res.Jobs {
		urls = append(urls, j.URL)
	}
	assert.Equal(t, []string{
		"https://jobs.af/jobs/open-1",
		"https://jobs.af/jobs/open-later",
		"https://jobs.af/jobs/no-date",
	}, urls, "kept postings sort by closing date, soonest first, undated last")
	assert.NotContains(t, urls, "https://jobs.af/jobs/expired-1")
	assert.Contains(t, urls, "https://jobs.af/jobs/open-1", "closing today in Kabul is still open")
}

func TestProcessCohorts(t *testing.T) {
	records := []record.JobRecord{
		{URL: "https://jobs.af/jobs/seen-before", ClosingDate: "2026-02-20"},
		{URL: "https://jobs.af/jobs/last-day", ClosingDate: "2026-01-11"},
		{URL: "https://jobs.af/jobs/brand-new", ClosingDate: "2026-01-14"},
		{URL: "https://jobs.af/jobs/just-out-of-window", ClosingDate: "2026-01-15"},
		{URL: "https://jobs.af/jobs/far-out", ClosingDate: "2026-03-01"},
	}
	prev := map[string]bool{"https://jobs.af/jobs/seen-before": true}

	res := Process(records, prev, lateUTC)

	assert.Equal(t, []string{
		"https://jobs.af/jobs/brand-new",
		"https://jobs.af/jobs/far-out",
		"https://jobs.af/jobs/just-out-of-window",
		"https://jobs.af/jobs/last-day",
	}, res.Summary.NewURLs)
	assert.Equal(t, []string{"https://jobs.af/jobs/last-day"}, res.Summary.ExpiringToday,
		"closing on the Kabul day goes to the expiring-today cohort")
	assert.Equal(t, []string{"https://jobs.af/jobs/brand-new"}, res.Summary.ExpiringSoon,
		"expiring soon is the 3-day window after today, today excluded")
}

func TestExtractEmails(t *testing.T) {
	desc := `Send your CV to Recruitment@Acme-Analytics.com and cc
	hr.kabul@acme-analytics.com. Do not contact info@jobs.af.
	Duplicate: recruitment@acme-analytics.com`

	emails := ExtractEmails(desc)
	assert.Equal(t, []string{
		"recruitment@acme-analytics.com",
		"hr.kabul@acme-analytics.com",
	}, emails)
}

func TestExtractEmailsCap(t *testing.T) {
	text := "a1@x.com b2@x.com c3@x.com d4@x.com e5@x.com f6@x.com g7@x.com"
	assert.Len(t, ExtractEmails(text), 5)
}

func TestClassifyApplyMethod(t *testing.T) {
	assert.Equal(t, ApplyBoth, ClassifyApplyMethod("https://jobs.af/apply", []string{"hr@x.com"}))
	assert.Equal(t, ApplyByLink, ClassifyApplyMethod("https://jobs.af/apply", nil))
	assert.Equal(t, ApplyByEmail, ClassifyApplyMethod("", []string{"hr@x.com"}))
	assert.Equal(t, ApplyUnknown, ClassifyApplyMethod("", nil))
}

func TestEmailsFromDetails(t *testing.T) {
	rec := record.JobRecord{
		URL: "https://jobs.af/jobs/d-1",
		Details: map[string]string{
			"Submission Email": "apply@ngo-example.org",
		},
	}
	res := Process([]record.JobRecord{rec}, nil, lateUTC)
	assert.Len(t, res.Jobs, 1)
	assert.Equal(t, []string{"apply@ngo-example.org"}, res.Jobs[0].ApplyEmails)
	assert.Equal(t, ApplyByEmail, res.Jobs[0].ApplyMethod)
}

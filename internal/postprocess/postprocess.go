// Package postprocess consumes the raw record set: it drops expired
// postings, mines contact emails, classifies the apply method, and diffs
// against the previous run's URL set to build the new, expiring-today and
// expiring-soon cohorts.
package postprocess

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/record"
)

// Kabul is UTC+4:30; "today" for expiry is the Kabul calendar day.
var kabulOffset = 4*time.Hour + 30*time.Minute

const (
	maxEmailsPerJob  = 5
	expiringSoonDays = 3
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// junkEmails are site-plumbing addresses that appear on every page.
var junkEmails = map[string]bool{
	"info@jobs.af":        true,
	"support@jobs.af":     true,
	"admin@jobs.af":       true,
	"noreply@jobs.af":     true,
	"no-reply@jobs.af":    true,
	"example@example.com": true,
	"test@test.com":       true,
}

// ApplyMethod classifies how a posting can be applied to.
type ApplyMethod string

const (
	ApplyBoth    ApplyMethod = "both"
	ApplyByLink  ApplyMethod = "apply_link"
	ApplyByEmail ApplyMethod = "email"
	ApplyUnknown ApplyMethod = "unknown"
)

// Processed is one kept record with its derived post-processing fields.
type Processed struct {
	record.JobRecord
	ApplyEmails []string    `json:"apply_emails,omitempty"`
	ApplyMethod ApplyMethod `json:"apply_method"`
}

// Summary is the run digest handed to the notifier.
type Summary struct {
	GeneratedAt   string   `json:"generated_at"`
	Today         string   `json:"today"`
	TotalScraped  int      `json:"total_scraped"`
	TotalOpen     int      `json:"total_open"`
	TotalExpired  int      `json:"total_expired"`
	NewURLs       []string `json:"new_urls"`
	ExpiringToday []string `json:"expiring_today"`
	ExpiringSoon  []string `json:"expiring_soon"`
}

// Result carries the kept records plus the summary.
type Result struct {
	Jobs    []Processed
	Summary Summary
}

// KabulToday returns the current Kabul calendar day for a UTC instant.
func KabulToday(now time.Time) string {
	return now.UTC().Add(kabulOffset).Format("2006-01-02")
}

// Process filters expired records, derives emails and apply method, and
// computes cohorts against the previous run's URL set. Records without a
// parseable closing date are kept: absence of evidence is not expiry.
// Kept records are sorted by closing date, soonest first, undated last.
func Process(records []record.JobRecord, prevURLs map[string]bool, now time.Time) Result {
	today := KabulToday(now)
	soonCutoff := now.UTC().Add(kabulOffset).AddDate(0, 0, expiringSoonDays).Format("2006-01-02")

	res := Result{
		Summary: Summary{
			GeneratedAt:  record.Timestamp(now),
			Today:        today,
			TotalScraped: len(records),
		},
	}

	for _, r := range records {
		if r.ClosingDate != "" && r.ClosingDate < today {
			res.Summary.TotalExpired++
			logger.Log.Debug().Str("url", r.URL).Str("closing", r.ClosingDate).Msg("dropping expired posting")
			continue
		}

		p := Processed{
			JobRecord:   r,
			ApplyEmails: ExtractEmails(emailSources(r)...),
		}
		p.ApplyMethod = ClassifyApplyMethod(p.ApplyURL, p.ApplyEmails)
		res.Jobs = append(res.Jobs, p)

		if prevURLs != nil && !prevURLs[r.URL] {
			res.Summary.NewURLs = append(res.Summary.NewURLs, r.URL)
		}
		switch {
		case r.ClosingDate == today:
			res.Summary.ExpiringToday = append(res.Summary.ExpiringToday, r.URL)
		case r.ClosingDate != "" && r.ClosingDate > today && r.ClosingDate <= soonCutoff:
			res.Summary.ExpiringSoon = append(res.Summary.ExpiringSoon, r.URL)
		}
	}

	res.Summary.TotalOpen = len(res.Jobs)
	sort.SliceStable(res.Jobs, func(i, j int) bool {
		ci, cj := res.Jobs[i].ClosingDate, res.Jobs[j].ClosingDate
		if ci == "" || cj == "" {
			return ci != "" && cj == ""
		}
		return ci < cj
	})
	sort.Strings(res.Summary.NewURLs)
	sort.Strings(res.Summary.ExpiringToday)
	sort.Strings(res.Summary.ExpiringSoon)
	return res
}

// ExtractEmails mines unique, lower-cased contact emails from the given
// texts, excluding the junk list, capped at maxEmailsPerJob.
func ExtractEmails(texts ...string) []string {
	var unique []string
	seen := map[string]bool{}

	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, email := range emailPattern.FindAllString(strings.ToLower(text), -1) {
			email = strings.TrimSpace(email)
			if seen[email] || junkEmails[email] {
				continue
			}
			if len(email) <= 5 || !strings.Contains(email[strings.Index(email, "@"):], ".") {
				continue
			}
			seen[email] = true
			unique = append(unique, email)
			if len(unique) == maxEmailsPerJob {
				return unique
			}
		}
	}
	return unique
}

// ClassifyApplyMethod tags how a posting accepts applications: an apply link
// plus mined emails is "both", then link-only, email-only, unknown.
func ClassifyApplyMethod(applyURL string, emails []string) ApplyMethod {
	hasURL := applyURL != ""
	hasEmails := len(emails) > 0

	switch {
	case hasURL && hasEmails:
		return ApplyBoth
	case hasURL:
		return ApplyByLink
	case hasEmails:
		return ApplyByEmail
	default:
		return ApplyUnknown
	}
}

// Save writes the kept records and the summary as separate JSON documents.
func (res Result) Save(jobsPath, summaryPath string) error {
	if err := writeJSON(jobsPath, res.Jobs); err != nil {
		return err
	}
	return writeJSON(summaryPath, res.Summary)
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func emailSources(r record.JobRecord) []string {
	sources := []string{r.Description}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sources = append(sources, r.Details[k])
	}
	return sources
}

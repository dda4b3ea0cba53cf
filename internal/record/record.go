// Package record defines the scraped posting and its two output encodings.
// JSON and CSV carry identical field values; they differ only in how the
// details map is embedded.
package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JobRecord is one scraped posting. URL is the unique key and always
// absolute; every other field is best-effort.
type JobRecord struct {
	URL            string            `json:"url"`
	Title          string            `json:"title,omitempty"`
	Company        string            `json:"company,omitempty"`
	Location       string            `json:"location,omitempty"`
	ClosingDate    string            `json:"closing_date,omitempty"`
	ClosingDateRaw string            `json:"closing_date_raw,omitempty"`
	ApplyURL       string            `json:"apply_url,omitempty"`
	Description    string            `json:"description,omitempty"`
	Details        map[string]string `json:"details"`
	ScrapedAt      string            `json:"scraped_at"`
}

// Timestamp is the capture-time format shared by all records of a run.
func Timestamp(now time.Time) string {
	return now.UTC().Format("2006-01-02T15:04:05") + "Z"
}

var csvHeader = []string{
	"url", "title", "company", "location",
	"closing_date", "closing_date_raw",
	"apply_url", "scraped_at", "details_json", "description",
}

// SaveJSON writes the records as a single JSON array with the details map
// inlined per record.
func SaveJSON(path string, records []JobRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SaveCSV writes the records as one flat table; the details map becomes a
// single embedded JSON string column.
func SaveCSV(path string, records []JobRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		details := r.Details
		if details == nil {
			details = map[string]string{}
		}
		detailsJSON, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal details for %s: %w", r.URL, err)
		}
		row := []string{
			r.URL, r.Title, r.Company, r.Location,
			r.ClosingDate, r.ClosingDateRaw,
			r.ApplyURL, r.ScrapedAt, string(detailsJSON), r.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

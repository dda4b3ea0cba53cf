package record

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []JobRecord {
	return []JobRecord{
		{
			URL:            "https://jobs.af/jobs/senior-go-developer",
			Title:          "Senior Go Developer",
			Company:        "Acme Corp",
			Location:       "Kabul, Afghanistan",
			ClosingDate:    "2026-02-01",
			ClosingDateRaw: "Feb 1, 2026",
			ApplyURL:       "https://jobs.af/jobs/senior-go-developer/apply",
			Description:    "Build and run backend services.",
			Details:        map[string]string{"Contract Type": "Permanent", "Salary Range": "As per company scale"},
			ScrapedAt:      Timestamp(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)),
		},
		{
			URL:       "https://jobs.af/jobs/data-entry-clerk",
			Title:     "Data Entry Clerk",
			ScrapedAt: Timestamp(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)),
		},
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp(time.Date(2026, 1, 10, 21, 5, 9, 123456, time.FixedZone("AFT", 4*3600+1800)))
	assert.Equal(t, "2026-01-10T16:35:09Z", ts, "timestamp must be UTC with a trailing Z and no sub-second part")
}

func TestSaveJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "jobs_raw.json")
	records := sampleRecords()

	require.NoError(t, SaveJSON(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []JobRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, records, got)
}

func TestSaveCSVCarriesSameValuesAsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs_raw.csv")
	records := sampleRecords()

	require.NoError(t, SaveCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, []string{
		"url", "title", "company", "location",
		"closing_date", "closing_date_raw",
		"apply_url", "scraped_at", "details_json", "description",
	}, rows[0])

	first := rows[1]
	r := records[0]
	assert.Equal(t, r.URL, first[0])
	assert.Equal(t, r.Title, first[1])
	assert.Equal(t, r.Company, first[2])
	assert.Equal(t, r.Location, first[3])
	assert.Equal(t, r.ClosingDate, first[4])
	assert.Equal(t, r.ClosingDateRaw, first[5])
	assert.Equal(t, r.ApplyURL, first[6])
	assert.Equal(t, r.ScrapedAt, first[7])
	assert.Equal(t, r.Description, first[9])

	var details map[string]string
	require.NoError(t, json.Unmarshal([]byte(first[8]), &details))
	assert.Equal(t, r.Details, details)
}

func TestSaveCSVNilDetailsBecomesEmptyObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_raw.csv")

	require.NoError(t, SaveCSV(path, sampleRecords()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "{}", rows[2][8])
}

func TestSaveJSONEmptySetWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs_raw.json")

	require.NoError(t, SaveJSON(path, []JobRecord{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

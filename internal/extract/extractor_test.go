package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

const detailFixture = `
<html>
<head><title>Senior Data Engineer | jobs.af</title></head>
<body>
<main>
  <h1>Senior Data Engineer</h1>
  <div class="meta">
    <div>Company</div><div>Acme Analytics</div>
    <div>Location</div><div>Kabul</div>
    <div>Closing Date</div><div>Jan 24, 2026</div>
    <div>Post Date</div><div>Dec 20, 2025</div>
    <div>Contract Type</div><div>Full-time</div>
  </div>
  <table>
    <tr><td>Salary Range</td><td>As per company scale</td></tr>
    <tr><td>Years of Experience</td><td>5 years</td></tr>
  </table>
  <div class="job-description">
    We are hiring a senior data engineer to build and operate batch and
    streaming pipelines. You will own ingestion, warehousing, and data
    quality across the organization, and mentor junior engineers. The role
    requires strong SQL, Python, and orchestration experience.
  </div>
  <a href="/jobs/senior-data-engineer-42/apply">Apply Now</a>
</main>
</body>
</html>`

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestExtractFullFixture(t *testing.T) {
	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract(detailFixture, "/jobs/senior-data-engineer-42", testNow)
	require.NoError(t, err)

	assert.Equal(t, "https://jobs.af/jobs/senior-data-engineer-42", rec.URL)
	assert.Equal(t, "Senior Data Engineer", rec.Title)
	assert.Equal(t, "Acme Analytics", rec.Company)
	assert.Equal(t, "Kabul", rec.Location)
	assert.Equal(t, "Jan 24, 2026", rec.ClosingDateRaw)
	assert.Equal(t, "2026-01-24", rec.ClosingDate)
	assert.Equal(t, "https://jobs.af/jobs/senior-data-engineer-42/apply", rec.ApplyURL)
	assert.Contains(t, rec.Description, "senior data engineer")
	assert.Equal(t, "Full-time", rec.Details["Contract Type"])
	assert.Equal(t, "As per company scale", rec.Details["Salary Range"])
	assert.Equal(t, "2026-01-10T12:00:00Z", rec.ScrapedAt)
}

func TestExtractURLAlwaysAbsolute(t *testing.T) {
	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract("<html><body></body></html>", "/jobs/x-1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.af/jobs/x-1", rec.URL)
	assert.Empty(t, rec.Title)
	assert.Empty(t, rec.ClosingDate)
}

func TestDetailsMergeFirstPassWins(t *testing.T) {
	// the labelled-element pass sees Company=Alpha; the table pass would
	// set Company=Beta but must not overwrite
	html := `
	<html><body>
	  <div>Company</div><div>Alpha</div>
	  <table><tr><td>Company</td><td>Beta</td></tr></table>
	</body></html>`

	details := ExtractDetails(doc(t, html))
	assert.Equal(t, "Alpha", details["Company"])
}

func TestDefinitionListPass(t *testing.T) {
	html := `
	<html><body><dl>
	  <dt>Reference</dt><dd>VA-2026-017</dd>
	  <dt>Probation Period</dt><dd>3 months</dd>
	</dl></body></html>`

	details := ExtractDetails(doc(t, html))
	assert.Equal(t, "VA-2026-017", details["Reference"])
	assert.Equal(t, "3 months", details["Probation Period"])
}

func TestFlattenedLinePass(t *testing.T) {
	html := `
	<html><body><div>
	  <p>Number of Vacancies</p>
	  <p>2</p>
	  <p>Grade: NTA C</p>
	</div></body></html>`

	details := ExtractDetails(doc(t, html))
	assert.Equal(t, "2", details["Number Of Vacancies"])
	assert.Equal(t, "NTA C", details["Grade"])
}

func TestClosingDateFallbackLinePair(t *testing.T) {
	html := `
	<html><body>
	  <h1>Database Administrator</h1>
	  <div><span>Closing Date</span><p>Jan 24, 2026</p></div>
	</body></html>`

	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract(html, "/jobs/dba-9", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Jan 24, 2026", rec.ClosingDateRaw)
	assert.Equal(t, "2026-01-24", rec.ClosingDate)
}

func TestClosingDateFallbackInline(t *testing.T) {
	html := `<html><body><p>Submit before Closing Date: Feb 2, 2026 please.</p></body></html>`

	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract(html, "/jobs/a-1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Feb 2, 2026", rec.ClosingDateRaw)

	html = `<html><body><p>Deadline: Mar 15, 2026</p></body></html>`
	rec, err = e.Extract(html, "/jobs/a-2", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Mar 15, 2026", rec.ClosingDateRaw)
}

func TestClosingDateNeverFromPostDate(t *testing.T) {
	html := `
	<html><body>
	  <div>Post Date</div><div>Jan 2, 2026</div>
	</body></html>`

	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract(html, "/jobs/p-1", testNow)
	require.NoError(t, err)
	assert.Empty(t, rec.ClosingDateRaw)
	assert.Empty(t, rec.ClosingDate)
}

func TestUnparsableClosingDateKeepsRaw(t *testing.T) {
	html := `
	<html><body>
	  <div>Closing Date</div><div>Open until filled</div>
	</body></html>`

	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract(html, "/jobs/u-1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Open until filled", rec.ClosingDateRaw)
	assert.Empty(t, rec.ClosingDate)
}

func TestApplyURLPrecedence(t *testing.T) {
	html := `
	<html><body>
	  <a href="/jobs/x/share">Share</a>
	  <a href="/external/form">Apply Now</a>
	  <a href="/jobs/x/apply">Link without apply text</a>
	</body></html>`

	e := NewExtractor("https://jobs.af")
	rec, err := e.Extract(html, "/jobs/x", testNow)
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.af/external/form", rec.ApplyURL, "anchor text match precedes href match")

	html = `<html><body><a href="/jobs/x/apply">Submit here</a></body></html>`
	rec, err = e.Extract(html, "/jobs/x", testNow)
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.af/jobs/x/apply", rec.ApplyURL, "href match is the fallback")
}

func TestIsSentinelTitle(t *testing.T) {
	assert.True(t, IsSentinelTitle("jobs.af"))
	assert.True(t, IsSentinelTitle("  Jobs.af  "))
	assert.False(t, IsSentinelTitle("Senior Data Engineer"))
	assert.False(t, IsSentinelTitle(""))
}

package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://jobs.af"

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://jobs.af/jobs/abc-123", NormalizeURL(base, "/jobs/abc-123"))
	assert.Equal(t, "https://jobs.af/jobs/abc-123", NormalizeURL(base, "jobs/abc-123"))
	assert.Equal(t, "https://example.com/jobs/x", NormalizeURL(base, "https://example.com/jobs/x"))
	assert.Equal(t, "https://jobs.af/jobs/x", NormalizeURL("https://jobs.af/", "/jobs/x"))
}

func TestBuildListingURL(t *testing.T) {
	url := BuildListingURL(base, []string{"Data Science", "IT - Software"}, 2)
	assert.Equal(t, "https://jobs.af/jobs/?category=Data+Science&category=IT+-+Software&page=2", url)
}

func TestMineLinksFromText(t *testing.T) {
	text := `
		{"href":"/jobs/senior-data-engineer-42"}
		<script>var next = "https://jobs.af/jobs/ml-analyst-7";</script>
		see /jobs?category=Data for more
		plain mention of /jobs/data-entry-clerk_99 inline
	`
	links := MineLinksFromText(base, text)
	assert.ElementsMatch(t, []string{
		"https://jobs.af/jobs/senior-data-engineer-42",
		"https://jobs.af/jobs/ml-analyst-7",
		"https://jobs.af/jobs/data-entry-clerk_99",
	}, links)
}

func TestExtractLinksFromHTML(t *testing.T) {
	html := `
	<html><body>
		<a href="/jobs/backend-developer-11">Backend Developer</a>
		<a href="https://jobs.af/jobs/dba-22">DBA</a>
		<a href="/jobs?category=IT&page=2">Next page</a>
		<a href="/jobs/?category=IT">Filtered listing</a>
		<a href="/about">About</a>
		<div data-x="/jobs/hidden-in-attribute-33"></div>
	</body></html>`

	links, err := ExtractLinksFromHTML(base, html)
	require.NoError(t, err)
	assert.Contains(t, links, "https://jobs.af/jobs/backend-developer-11")
	assert.Contains(t, links, "https://jobs.af/jobs/dba-22")
	assert.Contains(t, links, "https://jobs.af/jobs/hidden-in-attribute-33", "text pattern must catch non-anchor markup")
	assert.NotContains(t, links, "https://jobs.af/jobs?category=IT&page=2")
	assert.NotContains(t, links, "https://jobs.af/jobs/?category=IT")
}

func TestExtractLinksIdempotent(t *testing.T) {
	html := `<a href="/jobs/one-1">a</a><a href="/jobs/two-2">b</a><a href="/jobs/one-1">dup</a>`

	first, err := ExtractLinksFromHTML(base, html)
	require.NoError(t, err)
	second, err := ExtractLinksFromHTML(base, html)
	require.NoError(t, err)

	set := map[string]bool{}
	for _, l := range append(first, second...) {
		set[l] = true
	}
	assert.Len(t, set, 2, "re-running extraction must yield the same link set")
}

func TestParseCount(t *testing.T) {
	n, ok := ParseCount("23 Available Jobs")
	assert.True(t, ok)
	assert.Equal(t, 23, n)

	n, ok = ParseCount("Header\n140 Available Jobs\nfooter")
	assert.True(t, ok)
	assert.Equal(t, 140, n)

	_, ok = ParseCount("Verifying you are human")
	assert.False(t, ok)

	n, ok = ParseCount("0 Available Jobs")
	assert.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		pagerMax int
		want     int
	}{
		{"ceiling division", 23, 10, 1, 3},
		{"exact division", 30, 10, 1, 3},
		{"pager wins when larger", 23, 10, 5, 5},
		{"count wins when larger", 95, 10, 4, 10},
		{"minimum one page", 1, 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.total, tt.pageSize, tt.pagerMax))
		})
	}
}

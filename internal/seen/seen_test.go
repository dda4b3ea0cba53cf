package seen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	assert.Empty(t, s.URLs())

	s.Add([]string{"https://jobs.af/jobs/a-1", "https://jobs.af/jobs/b-2"})

	reloaded := NewStore(dir)
	urls := reloaded.URLs()
	assert.True(t, urls["https://jobs.af/jobs/a-1"])
	assert.True(t, urls["https://jobs.af/jobs/b-2"])
	assert.Len(t, urls, 2)
}

func TestStoreExpiresOldEntries(t *testing.T) {
	dir := t.TempDir()

	old := time.Now().Add(-31 * 24 * time.Hour).UnixMilli()
	fresh := time.Now().UnixMilli()
	entries := []entry{
		{URL: "https://jobs.af/jobs/stale", Timestamp: old},
		{URL: "https://jobs.af/jobs/fresh", Timestamp: fresh},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_urls.json"), data, 0644))

	s := NewStore(dir)
	urls := s.URLs()
	assert.False(t, urls["https://jobs.af/jobs/stale"])
	assert.True(t, urls["https://jobs.af/jobs/fresh"])
}

func TestAddIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.Add([]string{"https://jobs.af/jobs/a-1"})
	s.Add([]string{"https://jobs.af/jobs/a-1"})

	assert.Len(t, s.URLs(), 1)
}

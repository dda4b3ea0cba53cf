package seen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nasirkhansayyad132/jobsaf-tracker/internal/logger"
)

type entry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

const retention = 30 * 24 * time.Hour

// Store remembers detail URLs across runs so the post-processing pass can
// compute the "new" cohort. Backed by a JSON file; entries expire after 30
// days on load.
type Store struct {
	mu       sync.Mutex
	filePath string
	urls     map[string]int64
}

func NewStore(dir string) *Store {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to create seen-store directory")
	}
	s := &Store{
		filePath: filepath.Join(dir, "seen_urls.json"),
		urls:     make(map[string]int64),
	}
	s.load()
	return s
}

// URLs returns the previously seen URL set for run-over-run diffing.
func (s *Store) URLs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]bool, len(s.urls))
	for u := range s.urls {
		out[u] = true
	}
	return out
}

// Add records this run's URLs and persists when anything changed.
func (s *Store) Add(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, u := range urls {
		if _, exists := s.urls[u]; !exists {
			s.urls[u] = now
			changed = true
		}
	}
	if changed {
		s.save()
	}
}

func (s *Store) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn().Err(err).Msg("failed to read seen_urls.json")
		}
		return
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to parse seen_urls.json")
		return
	}

	cutoff := time.Now().Add(-retention).UnixMilli()
	for _, e := range entries {
		if e.Timestamp > cutoff {
			s.urls[e.URL] = e.Timestamp
		}
	}
	logger.Log.Info().Int("loaded", len(s.urls)).Int("expired", len(entries)-len(s.urls)).Msg("loaded previously seen URLs")
}

func (s *Store) save() {
	entries := make([]entry, 0, len(s.urls))
	for u, ts := range s.urls {
		entries = append(entries, entry{URL: u, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		logger.Log.Warn().Err(err).Msg("failed to marshal seen URLs")
		return
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to write seen_urls.json")
	}
}

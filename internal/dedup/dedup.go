// Cross-run dedup cache so a job is only announced once.
// The run-scoped store dedups within a run; this cache remembers job ids
// across runs, persisted as JSON next to the other run artifacts.

package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type seenEntry struct {
	JobID     string `json:"jobId"`
	Timestamp int64  `json:"timestamp"`
}

type JobCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewJobCache creates or loads the seen-job cache under cacheDir.
func NewJobCache(cacheDir string) *JobCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &JobCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSeen reports whether a job id was already announced in a previous run.
func (jc *JobCache) IsSeen(jobID string) bool {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	_, exists := jc.seen[jobID]
	return exists
}

// MarkSeen records the given job ids and persists the cache when anything
// actually changed.
func (jc *JobCache) MarkSeen(jobIDs []string) {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, id := range jobIDs {
		if id == "" {
			continue
		}
		if _, exists := jc.seen[id]; !exists {
			jc.seen[id] = now
			changed = true
		}
	}

	if changed {
		jc.save()
	}
}

// load reads the cache from disk, dropping entries older than 30 days.
func (jc *JobCache) load() {
	data, err := os.ReadFile(jc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	for _, e := range entries {
		if e.Timestamp > cutoff {
			jc.seen[e.JobID] = e.Timestamp
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired)", len(jc.seen), len(entries)-len(jc.seen))
}

func (jc *JobCache) save() {
	entries := make([]seenEntry, 0, len(jc.seen))
	for id, ts := range jc.seen {
		entries = append(entries, seenEntry{JobID: id, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(jc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}

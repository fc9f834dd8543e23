// Package history records post-hoc extraction summaries. It sits outside
// the extraction path: recording failures are logged and swallowed, and
// the engine never depends on it.
package history

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/booksbridge/books-bridge/internal/db/models"
)

// MaxMemoryEntries limits the in-memory cache of recent runs.
const MaxMemoryEntries = 100

// Recorder manages extraction run logging and statistics.
type Recorder struct {
	db *gorm.DB

	recent []models.ExtractionLog
	mu     sync.RWMutex

	totalRuns    atomic.Int64
	successCount atomic.Int64
	errorCount   atomic.Int64
}

// NewRecorder creates a Recorder and loads initial stats from the DB.
func NewRecorder(database *gorm.DB) *Recorder {
	r := &Recorder{
		db:     database,
		recent: make([]models.ExtractionLog, 0, MaxMemoryEntries),
	}
	r.loadStats()
	return r
}

func (r *Recorder) loadStats() {
	if r.db == nil {
		return
	}
	var total, success int64
	if err := r.db.Model(&models.ExtractionLog{}).Count(&total).Error; err != nil {
		log.Printf("⚠️ History: failed to load stats: %v", err)
		return
	}
	r.db.Model(&models.ExtractionLog{}).Where("success = ?", true).Count(&success)
	r.totalRuns.Store(total)
	r.successCount.Store(success)
	r.errorCount.Store(total - success)
}

// Record stores one extraction summary. Never blocks the caller on the
// database write and never returns an error.
func (r *Recorder) Record(entry models.ExtractionLog) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	r.totalRuns.Add(1)
	if entry.Success {
		r.successCount.Add(1)
	} else {
		r.errorCount.Add(1)
	}

	r.mu.Lock()
	r.recent = append([]models.ExtractionLog{entry}, r.recent...)
	if len(r.recent) > MaxMemoryEntries {
		r.recent = r.recent[:MaxMemoryEntries]
	}
	r.mu.Unlock()

	if r.db == nil {
		return
	}
	go func(e models.ExtractionLog) {
		if err := r.db.Create(&e).Error; err != nil {
			log.Printf("⚠️ History: failed to save entry: %v", err)
		}
	}(entry)
}

// Recent returns up to limit most-recent entries, newest first.
func (r *Recorder) Recent(limit int) []models.ExtractionLog {
	if limit <= 0 || limit > MaxMemoryEntries {
		limit = MaxMemoryEntries
	}

	r.mu.RLock()
	cached := len(r.recent)
	if cached > limit {
		cached = limit
	}
	out := make([]models.ExtractionLog, cached)
	copy(out, r.recent[:cached])
	r.mu.RUnlock()

	if len(out) > 0 || r.db == nil {
		return out
	}

	// Cold cache (fresh process): fall back to the DB.
	var stored []models.ExtractionLog
	if err := r.db.Order("timestamp desc").Limit(limit).Find(&stored).Error; err != nil {
		log.Printf("⚠️ History: failed to query entries: %v", err)
		return out
	}
	return stored
}

// Stats returns aggregate run counts.
func (r *Recorder) Stats() models.ExtractionStats {
	return models.ExtractionStats{
		TotalRuns:    r.totalRuns.Load(),
		SuccessCount: r.successCount.Load(),
		ErrorCount:   r.errorCount.Load(),
	}
}

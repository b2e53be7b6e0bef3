package ingest

import (
	"sync"
	"time"

	"github.com/texforge/backend/internal/models"
)

// Batch is one ingested set of files.
type Batch struct {
	ID        string                `json:"documentId"`
	Files     []models.FileMetadata `json:"fileMetadata"`
	CreatedAt time.Time             `json:"createdAt"`
}

// Registry keeps ingested batches in memory for correlation. Batches are
// never handed to the convert step; they expire after a retention window.
type Registry struct {
	batches map[string]*Batch
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		batches: make(map[string]*Batch),
	}
}

// Add records a batch.
func (r *Registry) Add(b *Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[b.ID] = b
}

// Get retrieves a batch by document ID.
func (r *Registry) Get(id string) (*Batch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.batches[id]
	return b, ok
}

// Len returns the number of retained batches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.batches)
}

// CleanupOldBatches removes batches older than maxAge and returns how many
// were dropped.
func (r *Registry) CleanupOldBatches(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, b := range r.batches {
		if b.CreatedAt.Before(cutoff) {
			delete(r.batches, id)
			removed++
		}
	}
	return removed
}

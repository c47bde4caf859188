package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fintechbuddy/insights-api/models"
)

// ErrNoDataset is returned by Current before the first successful upload.
var ErrNoDataset = errors.New("no processed transactions found, upload first")

// DatasetStore keeps the most recently uploaded dataset. Exactly one slot:
// Replace swaps the whole dataset under the lock, so readers never observe
// a partially written upload. A failed upload never reaches Replace and
// leaves the previous dataset intact.
type DatasetStore struct {
	mu      sync.RWMutex
	current *models.Dataset
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Replace stores a new dataset, stamping it with an id and upload time,
// and returns the stored value.
func (s *DatasetStore) Replace(filename string, txs []models.Transaction, summary models.Summary) *models.Dataset {
	ds := &models.Dataset{
		ID:           uuid.NewString(),
		Filename:     filename,
		UploadedAt:   time.Now(),
		Transactions: txs,
		Summary:      summary,
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	return ds
}

// Current returns the latest completed upload, or ErrNoDataset.
func (s *DatasetStore) Current() (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/shared"
)

// memoryResultStore keeps result documents in a TTL-checked map. It backs
// local development and tests; semantics match the Postgres store, including
// expired documents reading as not-found while still physically present.
type memoryResultStore struct {
	documents map[string]*models.ResultDocument
	mutex     sync.RWMutex
	retention time.Duration
	now       func() time.Time
}

// NewMemoryResultStore creates an in-memory store with the given retention
// window.
func NewMemoryResultStore(retention time.Duration) ResultStore {
	return &memoryResultStore{
		documents: make(map[string]*models.ResultDocument),
		retention: retention,
		now:       time.Now,
	}
}

func (s *memoryResultStore) Create(_ context.Context, doc *models.ResultDocument) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stampNewDocumentAt(doc, s.now().UTC(), s.retention)
	stored := *doc
	s.documents[doc.RequestID] = &stored
	return nil
}

func (s *memoryResultStore) Update(_ context.Context, update *models.NegotiationUpdate) (*models.ResultDocument, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now().UTC()
	doc, exists := s.documents[update.RequestID]
	if !exists || !doc.ExpiresAt.After(now) {
		return nil, shared.ErrNotFound
	}

	applyUpdate(doc, update)
	doc.UpdatedAt = now

	result := *doc
	return &result, nil
}

func (s *memoryResultStore) Get(_ context.Context, requestID string) (*models.ResultDocument, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	doc, exists := s.documents[requestID]
	if !exists || !doc.ExpiresAt.After(s.now().UTC()) {
		return nil, shared.ErrNotFound
	}

	result := *doc
	return &result, nil
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/shared"
	"github.com/sirupsen/logrus"
)

// ResultStore owns the lifecycle of result documents: id assignment,
// creation, shallow merge updates, and expiry enforcement. The orchestrator
// never mutates a document directly.
//
// Create assigns request_id, received_at, updated_at, and expires_at on the
// given document and persists it. Update merges only the supplied
// negotiation fields into the existing non-expired document and bumps
// updated_at. Get returns the document when present and not expired. Both
// Update and Get return shared.ErrNotFound for a missing or expired id, and
// shared.ErrStorageUnavailable when the persistence medium itself is
// unreachable.
type ResultStore interface {
	Create(ctx context.Context, doc *models.ResultDocument) error
	Update(ctx context.Context, update *models.NegotiationUpdate) (*models.ResultDocument, error)
	Get(ctx context.Context, requestID string) (*models.ResultDocument, error)
}

// noopResultStore is the disconnected development mode used when no storage
// location is configured: create succeeds without durable effect, update and
// get behave as not-found.
type noopResultStore struct{}

// NewNoopResultStore creates the no-op store variant
func NewNoopResultStore() ResultStore {
	logrus.Warn("Result store not configured, running in no-op mode")
	return &noopResultStore{}
}

func (s *noopResultStore) Create(_ context.Context, doc *models.ResultDocument) error {
	stampNewDocument(doc, 0)
	return nil
}

func (s *noopResultStore) Update(_ context.Context, _ *models.NegotiationUpdate) (*models.ResultDocument, error) {
	return nil, shared.ErrNotFound
}

func (s *noopResultStore) Get(_ context.Context, _ string) (*models.ResultDocument, error) {
	return nil, shared.ErrNotFound
}

// stampNewDocument assigns the generated request id and the create-time
// timestamps. The id is set exactly once; a document that already carries
// one keeps it.
func stampNewDocument(doc *models.ResultDocument, retention time.Duration) {
	stampNewDocumentAt(doc, time.Now().UTC(), retention)
}

func stampNewDocumentAt(doc *models.ResultDocument, now time.Time, retention time.Duration) {
	if doc.RequestID == "" {
		doc.RequestID = uuid.NewString()
	}
	doc.ReceivedAt = now
	doc.UpdatedAt = now
	doc.ExpiresAt = now.Add(retention)
}

// applyUpdate shallow-merges the supplied negotiation fields into doc.
// Unsupplied fields are left untouched, never nulled.
func applyUpdate(doc *models.ResultDocument, update *models.NegotiationUpdate) {
	if update.DeliveryDatetime != nil {
		doc.DeliveryDatetime = update.DeliveryDatetime
	}
	if update.CarrierName != nil {
		doc.CarrierName = update.CarrierName
	}
	if update.RateOffer != nil {
		doc.RateOffer = update.RateOffer
	}
	if update.CounterOffer != nil {
		doc.CounterOffer = update.CounterOffer
	}
	if update.Outcome != nil {
		doc.Outcome = update.Outcome
	}
	if update.Sentiment != nil {
		doc.Sentiment = update.Sentiment
	}
}

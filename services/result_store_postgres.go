package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/shared"
	"github.com/sirupsen/logrus"
)

const resultColumns = `request_id, received_at, updated_at, expires_at,
	mc_number, origin, destination, pickup_datetime, equipment_type,
	mc_valid, verification, matches, status,
	delivery_datetime, carrier_name, rate_offer, counter_offer, outcome, sentiment`

// postgresResultStore persists result documents in the intake_results table.
// Expiry is enforced with an expires_at predicate on every read and update,
// so a document behaves as not-found the moment its retention window lapses
// even if the cleanup job has not deleted the row yet.
type postgresResultStore struct {
	db        *sql.DB
	retention time.Duration
}

// NewPostgresResultStore creates a Postgres-backed store with the given
// retention window.
func NewPostgresResultStore(db *sql.DB, retention time.Duration) ResultStore {
	return &postgresResultStore{db: db, retention: retention}
}

func (s *postgresResultStore) Create(ctx context.Context, doc *models.ResultDocument) error {
	stampNewDocument(doc, s.retention)

	var verification []byte
	if doc.Verification != nil {
		encoded, err := json.Marshal(doc.Verification)
		if err != nil {
			return fmt.Errorf("failed to encode verification verdict: %w", err)
		}
		verification = encoded
	}

	matches, err := json.Marshal(doc.Matches.Matches)
	if err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}

	query := `
		INSERT INTO intake_results (
			request_id, received_at, updated_at, expires_at,
			mc_number, origin, destination, pickup_datetime, equipment_type,
			mc_valid, verification, matches, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.RequestID, doc.ReceivedAt, doc.UpdatedAt, doc.ExpiresAt,
		doc.Intake.MCNumber, doc.Intake.Origin, doc.Intake.Destination,
		doc.Intake.PickupDatetime, doc.Intake.EquipmentType,
		doc.MCValid, verification, matches, doc.Status,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to persist result document")
		return fmt.Errorf("create %s: %v: %w", doc.RequestID, err, shared.ErrStorageUnavailable)
	}

	return nil
}

func (s *postgresResultStore) Update(ctx context.Context, update *models.NegotiationUpdate) (*models.ResultDocument, error) {
	if _, err := uuid.Parse(update.RequestID); err != nil {
		return nil, shared.ErrNotFound
	}

	// Single atomic read-modify-write: COALESCE keeps unsupplied fields
	// untouched, the expires_at predicate excludes expired documents.
	query := fmt.Sprintf(`
		UPDATE intake_results SET
			delivery_datetime = COALESCE($2, delivery_datetime),
			carrier_name      = COALESCE($3, carrier_name),
			rate_offer        = COALESCE($4, rate_offer),
			counter_offer     = COALESCE($5, counter_offer),
			outcome           = COALESCE($6, outcome),
			sentiment         = COALESCE($7, sentiment),
			updated_at        = NOW()
		WHERE request_id = $1 AND expires_at > NOW()
		RETURNING %s
	`, resultColumns)

	row := s.db.QueryRowContext(ctx, query,
		update.RequestID,
		update.DeliveryDatetime, update.CarrierName,
		update.RateOffer, update.CounterOffer,
		update.Outcome, update.Sentiment,
	)

	doc, err := scanResultDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		logrus.WithError(err).Error("Failed to update result document")
		return nil, fmt.Errorf("update %s: %v: %w", update.RequestID, err, shared.ErrStorageUnavailable)
	}

	return doc, nil
}

func (s *postgresResultStore) Get(ctx context.Context, requestID string) (*models.ResultDocument, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, shared.ErrNotFound
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM intake_results
		WHERE request_id = $1 AND expires_at > NOW()
	`, resultColumns)

	doc, err := scanResultDocument(s.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		logrus.WithError(err).Error("Failed to read result document")
		return nil, fmt.Errorf("get %s: %v: %w", requestID, err, shared.ErrStorageUnavailable)
	}

	return doc, nil
}

func scanResultDocument(row *sql.Row) (*models.ResultDocument, error) {
	var doc models.ResultDocument
	var verification, matches []byte

	err := row.Scan(
		&doc.RequestID, &doc.ReceivedAt, &doc.UpdatedAt, &doc.ExpiresAt,
		&doc.Intake.MCNumber, &doc.Intake.Origin, &doc.Intake.Destination,
		&doc.Intake.PickupDatetime, &doc.Intake.EquipmentType,
		&doc.MCValid, &verification, &matches, &doc.Status,
		&doc.DeliveryDatetime, &doc.CarrierName, &doc.RateOffer,
		&doc.CounterOffer, &doc.Outcome, &doc.Sentiment,
	)
	if err != nil {
		return nil, err
	}

	if len(verification) > 0 {
		var verdict models.VerificationVerdict
		if err := json.Unmarshal(verification, &verdict); err != nil {
			return nil, fmt.Errorf("failed to decode verification verdict: %w", err)
		}
		doc.Verification = &verdict
	}

	doc.Matches.Matches = []models.CandidateLoad{}
	if len(matches) > 0 {
		if err := json.Unmarshal(matches, &doc.Matches.Matches); err != nil {
			return nil, fmt.Errorf("failed to decode matches: %w", err)
		}
	}
	doc.Matches.Count = len(doc.Matches.Matches)
	doc.Matches.Status = doc.Status

	return &doc, nil
}

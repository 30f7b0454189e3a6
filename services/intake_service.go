package services

import (
	"context"
	"strings"

	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/shared"
	"github.com/sirupsen/logrus"
)

// CarrierVerifier is the registry-lookup collaborator of the intake
// pipeline. FMCSAClient is the production implementation.
type CarrierVerifier interface {
	Verify(ctx context.Context, mcNumber string) *models.VerificationVerdict
}

// IntakeService orchestrates the request-processing pipeline: normalization,
// carrier verification, load matching, and persistence. Each invocation is
// stateless; the catalog is the only shared state and it is read-only.
type IntakeService struct {
	normalizer *Normalizer
	verifier   CarrierVerifier
	matcher    *LoadMatcher
	store      ResultStore
}

// NewIntakeService wires the pipeline components together
func NewIntakeService(verifier CarrierVerifier, matcher *LoadMatcher, store ResultStore) *IntakeService {
	return &IntakeService{
		normalizer: NewNormalizer(),
		verifier:   verifier,
		matcher:    matcher,
		store:      store,
	}
}

// CreateRequest runs the create path: normalize, verify, match, persist.
// Validation failure short-circuits before any network or storage access.
// Verification failure is advisory and never aborts the pipeline.
func (s *IntakeService) CreateRequest(ctx context.Context, sub *models.IntakeSubmission) (*models.CreateResponse, error) {
	intake, verr := s.normalizer.NormalizeIntake(sub)
	if verr != nil {
		logrus.WithField("fields", verr.Fields).Info("Rejected intake submission")
		return nil, verr
	}

	verdict := s.verifier.Verify(ctx, intake.MCNumber)
	match := s.matcher.Match(intake)

	doc := &models.ResultDocument{
		Intake:       *intake,
		MCValid:      verdict.Valid,
		Verification: verdict,
		Matches:      match,
		Status:       match.Status,
	}

	if err := s.store.Create(ctx, doc); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id":    doc.RequestID,
		"mc_valid":      doc.MCValid,
		"matches_count": match.Count,
		"status":        match.Status,
	}).Info("Created intake result")

	return &models.CreateResponse{
		OK:         true,
		RequestID:  doc.RequestID,
		ReceivedAt: doc.ReceivedAt,
		Summary: models.CreateSummary{
			MCValid:      doc.MCValid,
			MatchesCount: match.Count,
			Status:       match.Status,
		},
	}, nil
}

// UpdateRequest runs the update path: the supplied negotiation fields are
// merged into the existing document. Intake fields are never re-validated
// and neither verification nor matching is re-run.
func (s *IntakeService) UpdateRequest(ctx context.Context, update *models.NegotiationUpdate) (*models.UpdateResponse, error) {
	update.RequestID = strings.TrimSpace(update.RequestID)
	if update.RequestID == "" {
		return nil, shared.NewServiceError(shared.ErrorCategoryValidation,
			"INVALID_REQUEST_ID", "Invalid request_id",
			"intake-service", "update", false, nil)
	}
	if !update.HasUpdates() {
		return nil, shared.NewServiceError(shared.ErrorCategoryValidation,
			"NO_UPDATABLE_FIELDS", "No updatable fields provided",
			"intake-service", "update", false, nil)
	}

	doc, err := s.store.Update(ctx, update)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id": doc.RequestID,
		"updated_at": doc.UpdatedAt,
	}).Info("Updated intake result")

	return &models.UpdateResponse{
		OK:        true,
		RequestID: doc.RequestID,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// GetRequest returns the full stored document for an id, or
// shared.ErrNotFound when it is absent or expired.
func (s *IntakeService) GetRequest(ctx context.Context, requestID string) (*models.ResultDocument, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, shared.NewServiceError(shared.ErrorCategoryValidation,
			"MISSING_REQUEST_ID", "Missing request_id",
			"intake-service", "get", false, nil)
	}
	return s.store.Get(ctx, requestID)
}

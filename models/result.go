package models

import (
	"encoding/json"
	"time"
)

// VerificationVerdict is the outcome of checking an MC number against the
// FMCSA registry. Unavailable distinguishes "registry said no" from
// "registry could not be consulted"; the external summary collapses both
// into mc_valid=false, but the distinction is kept here for diagnostics.
type VerificationVerdict struct {
	Valid            bool            `json:"valid"`
	Unavailable      bool            `json:"verification_unavailable,omitempty"`
	AllowedToOperate *string         `json:"allowed_to_operate,omitempty"`
	DOTNumber        *string         `json:"dot_number,omitempty"`
	CarrierName      *string         `json:"carrier_name,omitempty"`
	Endpoint         string          `json:"endpoint,omitempty"`
	CheckedAt        time.Time       `json:"checked_at"`
	Raw              json.RawMessage `json:"raw,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// ResultDocument is the persisted unit: one intake inquiry, its verification
// and matching outcome, and any negotiation fields merged in later.
// RequestID is assigned exactly once at create time and is the sole key for
// updates and reads.
type ResultDocument struct {
	RequestID    string               `json:"request_id"`
	ReceivedAt   time.Time            `json:"received_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	ExpiresAt    time.Time            `json:"expires_at"`
	Intake       IntakeRequest        `json:"intake"`
	MCValid      bool                 `json:"mc_valid"`
	Verification *VerificationVerdict `json:"verification,omitempty"`
	Matches      MatchResult          `json:"matches"`
	Status       MatchStatus          `json:"status"`

	// Negotiation fields, absent until supplied by an update.
	DeliveryDatetime *time.Time `json:"delivery_datetime,omitempty"`
	CarrierName      *string    `json:"carrier_name,omitempty"`
	RateOffer        *float64   `json:"rate_offer,omitempty"`
	CounterOffer     *float64   `json:"counter_offer,omitempty"`
	Outcome          *string    `json:"outcome,omitempty"`
	Sentiment        *string    `json:"sentiment,omitempty"`
}

// CreateSummary is the condensed view returned by the create path.
type CreateSummary struct {
	MCValid      bool        `json:"mc_valid"`
	MatchesCount int         `json:"matches_count"`
	Status       MatchStatus `json:"status"`
}

// CreateResponse is the create-path response body.
type CreateResponse struct {
	OK         bool          `json:"ok"`
	RequestID  string        `json:"request_id"`
	ReceivedAt time.Time     `json:"received_at"`
	Summary    CreateSummary `json:"summary"`
}

// UpdateResponse is the update-path response body.
type UpdateResponse struct {
	OK        bool      `json:"ok"`
	RequestID string    `json:"request_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

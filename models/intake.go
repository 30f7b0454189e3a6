package models

import (
	"time"
)

// IntakeSubmission is the raw create-path request body as posted by the
// caller. Nothing here is trusted until the normalizer has run.
type IntakeSubmission struct {
	MCNumber       string `json:"mc_number"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	PickupDatetime string `json:"pickup_datetime"`
	EquipmentType  string `json:"equipment_type"`
}

// IntakeRequest is a normalized, validated intake. MCNumber holds only the
// digit string (prefix and punctuation stripped); the remaining fields are
// the submitted values with surrounding whitespace trimmed.
type IntakeRequest struct {
	MCNumber       string    `json:"mc_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	PickupDatetime time.Time `json:"pickup_datetime"`
	EquipmentType  string    `json:"equipment_type"`
}

// NegotiationUpdate carries the optional fields an update-path request may
// supply after the inbound call. Nil means "not provided, leave untouched".
type NegotiationUpdate struct {
	RequestID        string     `json:"request_id"`
	DeliveryDatetime *time.Time `json:"delivery_datetime,omitempty"`
	CarrierName      *string    `json:"carrier_name,omitempty"`
	RateOffer        *float64   `json:"rate_offer,omitempty"`
	CounterOffer     *float64   `json:"counter_offer,omitempty"`
	Outcome          *string    `json:"outcome,omitempty"`
	Sentiment        *string    `json:"sentiment,omitempty"`
}

// HasUpdates reports whether at least one negotiation field was supplied.
func (u *NegotiationUpdate) HasUpdates() bool {
	return u.DeliveryDatetime != nil || u.CarrierName != nil || u.RateOffer != nil ||
		u.CounterOffer != nil || u.Outcome != nil || u.Sentiment != nil
}

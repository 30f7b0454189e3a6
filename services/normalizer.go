package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/loadlink/intake-backend/models"
	"github.com/loadlink/intake-backend/shared"
)

var (
	mcPrefixRegex   = regexp.MustCompile(`(?i)^mc[\s#:.-]*`)
	nonDigitRegex   = regexp.MustCompile(`[^0-9]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Accepted pickup_datetime layouts, longest first. A bare calendar date is
// valid; anything else must carry a full timestamp.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer sanitizes and validates raw intake fields. It is purely
// deterministic: no network or storage access happens here.
type Normalizer struct{}

// NewNormalizer creates a new normalizer instance
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// SanitizeMCNumber normalizes an MC number: surrounding whitespace and a
// leading "MC" prefix are stripped and only digits are retained. The result
// of sanitizing twice equals sanitizing once.
func (n *Normalizer) SanitizeMCNumber(mc string) string {
	cleaned := strings.TrimSpace(mc)
	cleaned = mcPrefixRegex.ReplaceAllString(cleaned, "")
	return nonDigitRegex.ReplaceAllString(cleaned, "")
}

// NormalizeText trims and collapses internal whitespace runs to single
// spaces. Used for the comparison key in load matching as well.
func (n *Normalizer) NormalizeText(text string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " ")
}

// ParseDatetime parses a pickup or delivery value into a calendar date or
// date-time.
func (n *Normalizer) ParseDatetime(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeIntake validates a raw submission and produces a normalized
// IntakeRequest. Every missing or malformed field is reported, not just the
// first one found.
func (n *Normalizer) NormalizeIntake(sub *models.IntakeSubmission) (*models.IntakeRequest, *shared.ValidationError) {
	verr := shared.NewValidationError()

	mcNumber := n.SanitizeMCNumber(sub.MCNumber)
	if strings.TrimSpace(sub.MCNumber) == "" {
		verr.Add("mc_number", "is required")
	} else if mcNumber == "" {
		verr.Add("mc_number", "must contain digits")
	}

	origin := strings.TrimSpace(sub.Origin)
	if origin == "" {
		verr.Add("origin", "is required")
	}

	destination := strings.TrimSpace(sub.Destination)
	if destination == "" {
		verr.Add("destination", "is required")
	}

	equipment := strings.TrimSpace(sub.EquipmentType)
	if equipment == "" {
		verr.Add("equipment_type", "is required")
	}

	var pickup time.Time
	if strings.TrimSpace(sub.PickupDatetime) == "" {
		verr.Add("pickup_datetime", "is required")
	} else {
		parsed, ok := n.ParseDatetime(sub.PickupDatetime)
		if !ok {
			verr.Add("pickup_datetime", "must be a date or date-time")
		} else {
			pickup = parsed
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &models.IntakeRequest{
		MCNumber:       mcNumber,
		Origin:         origin,
		Destination:    destination,
		PickupDatetime: pickup,
		EquipmentType:  equipment,
	}, nil
}

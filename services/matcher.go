package services

import (
	"strings"

	"github.com/loadlink/intake-backend/models"
	"github.com/sirupsen/logrus"
)

// LoadMatcher evaluates a normalized intake against the candidate catalog.
// A load matches when origin, destination, and equipment type are equal
// under a case-insensitive, whitespace-normalized comparison. Pickup date is
// informational and deliberately not part of the predicate.
type LoadMatcher struct {
	catalog    *LoadCatalog
	normalizer *Normalizer
}

// NewLoadMatcher creates a matcher over the given catalog
func NewLoadMatcher(catalog *LoadCatalog) *LoadMatcher {
	return &LoadMatcher{
		catalog:    catalog,
		normalizer: NewNormalizer(),
	}
}

// Match returns the loads satisfying the match predicate, in catalog order,
// plus the derived coarse status. Deterministic and side-effect-free.
func (m *LoadMatcher) Match(intake *models.IntakeRequest) models.MatchResult {
	origin := m.matchKey(intake.Origin)
	destination := m.matchKey(intake.Destination)
	equipment := m.matchKey(intake.EquipmentType)

	matches := []models.CandidateLoad{}
	for _, load := range m.catalog.Loads() {
		if m.matchKey(load.Origin) != origin {
			continue
		}
		if m.matchKey(load.Destination) != destination {
			continue
		}
		if m.matchKey(load.EquipmentType) != equipment {
			continue
		}
		matches = append(matches, load)
	}

	status := models.MatchStatusNoMatch
	if len(matches) >= 1 {
		status = models.MatchStatusMatched
	}

	logrus.WithFields(logrus.Fields{
		"origin":      intake.Origin,
		"destination": intake.Destination,
		"equipment":   intake.EquipmentType,
		"matches":     len(matches),
		"status":      status,
	}).Debug("Evaluated intake against load catalog")

	return models.MatchResult{
		Matches: matches,
		Count:   len(matches),
		Status:  status,
	}
}

func (m *LoadMatcher) matchKey(s string) string {
	return strings.ToLower(m.normalizer.NormalizeText(s))
}

package services

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loadlink/intake-backend/models"
	"github.com/sirupsen/logrus"
)

// LoadCatalog is the static list of candidate loads, read once at process
// start and immutable afterwards. Matching iterates it in file order, which
// keeps match ordering stable.
type LoadCatalog struct {
	loads []models.CandidateLoad
}

// NewLoadCatalog wraps an in-memory list of candidate loads
func NewLoadCatalog(loads []models.CandidateLoad) *LoadCatalog {
	return &LoadCatalog{loads: loads}
}

// NewLoadCatalogFromFile reads the candidate-load catalog from a JSON file
func NewLoadCatalogFromFile(path string) (*LoadCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read load catalog %s: %w", path, err)
	}

	var loads []models.CandidateLoad
	if err := json.Unmarshal(data, &loads); err != nil {
		return nil, fmt.Errorf("failed to parse load catalog %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"catalog": path,
		"loads":   len(loads),
	}).Info("Loaded candidate-load catalog")

	return &LoadCatalog{loads: loads}, nil
}

// Loads returns the catalog contents in stable catalog order. Callers must
// treat the slice as read-only.
func (c *LoadCatalog) Loads() []models.CandidateLoad {
	return c.loads
}

// Size returns the number of loads in the catalog
func (c *LoadCatalog) Size() int {
	return len(c.loads)
}

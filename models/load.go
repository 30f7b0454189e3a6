package models

// MatchStatus is the coarse outcome of running the match predicate over the
// candidate catalog.
type MatchStatus string

const (
	MatchStatusMatched MatchStatus = "matched"
	MatchStatusNoMatch MatchStatus = "no_match"
)

// CandidateLoad is one posting from the static demo catalog. The catalog is
// loaded once at process start and never mutated.
type CandidateLoad struct {
	LoadID        string  `json:"load_id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	PickupDate    string  `json:"pickup_date"`
	EquipmentType string  `json:"equipment_type"`
	Rate          float64 `json:"rate"`
	Commodity     string  `json:"commodity,omitempty"`
	Miles         int     `json:"miles,omitempty"`
}

// MatchResult is the outcome of evaluating one intake against the catalog.
// Matches preserve catalog order.
type MatchResult struct {
	Matches []CandidateLoad `json:"matches"`
	Count   int             `json:"count"`
	Status  MatchStatus     `json:"status"`
}

/*
Package factory provides JSON to Go score-profile conversion.

PURPOSE:
  Converts JSON score-profile definitions into engine.ScoreProfile values.
  This lets a deployment retune the behavioral scorer - sub-metric weights
  and the discretionary category set - without code changes: product can
  define profiles in JSON, store them, and load them at startup.

JSON SCHEMA:
  {
    "id": "default",
    "name": "Default weighting",
    "weights": {
      "consistency": 400,
      "savings_rate": 300,
      "balance_trend": 200,
      "spending_control": 100
    },
    "discretionary_categories": ["lazer", "delivery", "streaming"]
  }

KEY FEATURES:
  - Validates weights sum to exactly 1000 (engine invariant)
  - Missing weights or categories fall back to engine defaults
  - Round-trips back to JSON for storage

USAGE:
  f := factory.NewProfileFactory()
  profile, err := f.Parse(jsonString)
  score := engine.ScoreBehaviorWithProfile(records, profile)

SEE ALSO:
  - engine/score.go: ScoreProfile definition and validation
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/orbit/projection-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProfileJSON is the JSON representation of a score profile.
type ProfileJSON struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Weights map[string]int `json:"weights,omitempty"`

	// DiscretionaryCategories overrides the engine default when non-empty.
	DiscretionaryCategories []string `json:"discretionary_categories,omitempty"`
}

// =============================================================================
// PROFILE FACTORY
// =============================================================================

type ProfileFactory struct{}

func NewProfileFactory() *ProfileFactory { return &ProfileFactory{} }

// Parse converts a JSON document into a validated ScoreProfile.
func (f *ProfileFactory) Parse(raw string) (engine.ScoreProfile, error) {
	var doc ProfileJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return engine.ScoreProfile{}, fmt.Errorf("invalid profile JSON: %w", err)
	}
	return f.Build(doc)
}

// Build converts an already-decoded document, applying defaults.
func (f *ProfileFactory) Build(doc ProfileJSON) (engine.ScoreProfile, error) {
	profile := engine.DefaultScoreProfile()

	if len(doc.Weights) > 0 {
		// Partial overrides keep the default for the rest.
		for metric, weight := range doc.Weights {
			if _, known := profile.Weights[metric]; !known {
				return engine.ScoreProfile{}, fmt.Errorf("profile %q: unknown metric %q", doc.ID, metric)
			}
			profile.Weights[metric] = weight
		}
	}

	if len(doc.DiscretionaryCategories) > 0 {
		set := make(map[engine.Category]bool, len(doc.DiscretionaryCategories))
		for _, c := range doc.DiscretionaryCategories {
			set[engine.Category(c)] = true
		}
		profile.Discretionary = set
	}

	if err := profile.Validate(); err != nil {
		return engine.ScoreProfile{}, fmt.Errorf("profile %q: %w", doc.ID, err)
	}
	return profile, nil
}

// DefaultJSON returns the canonical JSON for the built-in profile, handy
// for seeding config storage and for the admin UI.
func DefaultJSON(id, name string) string {
	doc := ProfileJSON{
		ID:   id,
		Name: name,
		Weights: map[string]int{
			engine.MetricConsistency:     400,
			engine.MetricSavingsRate:     300,
			engine.MetricBalanceTrend:    200,
			engine.MetricSpendingControl: 100,
		},
		DiscretionaryCategories: []string{
			string(engine.CategoryLeisure),
			string(engine.CategoryDelivery),
			string(engine.CategoryStreaming),
			string(engine.CategoryGames),
			string(engine.CategoryLuxury),
		},
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return string(out)
}

package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Canonical aspect names. The research engine keys its prompt templates and
// its aggregation step on exact matches against these four names; an aspect
// set that omits one simply yields an empty section in the aggregate.
const (
	AspectDirectCompetitors  = "Direct Competitors Analysis"
	AspectFeatureComparison  = "Feature Comparison Matrix"
	AspectMarketSegmentation = "Market Segmentation Mapping"
	AspectMarketGaps         = "Market Gaps and Opportunities"
)

// Aspect is one named research dimension of a competitive analysis,
// produced by the aspect-generation stage.
type Aspect struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Importance    int      `json:"importance"`
	ResearchFocus []string `json:"researchFocus"`
}

// SortAspectsByImportance sorts aspects descending by importance in place.
// The sort is stable: equally important aspects keep the order they were
// returned in by the generative API.
func SortAspectsByImportance(aspects []Aspect) {
	sort.SliceStable(aspects, func(i, j int) bool {
		return aspects[i].Importance > aspects[j].Importance
	})
}

// AspectResult holds the unmodified research output for one aspect, kept on
// the final analysis for auditability. Findings is the raw JSON returned by
// the generative API, or the fallback finding when research for the aspect
// failed.
type AspectResult struct {
	Aspect     string          `json:"name"`
	Importance int             `json:"importance"`
	Findings   json.RawMessage `json:"findings"`
	Timestamp  time.Time       `json:"timestamp"`
}

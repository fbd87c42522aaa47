package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Relevancy score bounds for competitors. Scores outside this range coming
// back from the generative API are clamped at the persistence boundary.
const (
	MinRelevancy     = 1
	MaxRelevancy     = 10
	DefaultRelevancy = 5
)

// CompetitorFact is one competitor as reported by the direct-competitor
// research aspect.
type CompetitorFact struct {
	Name           string `json:"name"`
	YearFounded    string `json:"yearFounded,omitempty"`
	TotalFunding   string `json:"totalFunding,omitempty"`
	LatestRound    string `json:"latestRound,omitempty"`
	TargetMarket   string `json:"targetMarket,omitempty"`
	ARR            string `json:"arr,omitempty"`
	EmployeeCount  string `json:"employeeCount,omitempty"`
	Headquarters   string `json:"headquarters,omitempty"`
	KeyProduct     string `json:"keyProduct,omitempty"`
	RelevancyScore int    `json:"relevancyScore"`
}

// Threat names a competitor considered a top threat and why.
type Threat struct {
	Company      string `json:"company"`
	ThreatReason string `json:"threatReason"`
}

// Feature is one row of the feature matrix: a feature name mapped to which
// companies support it.
type Feature struct {
	Name      string          `json:"name"`
	Companies map[string]bool `json:"companies"`
}

// FeatureCategory groups features under a category heading.
type FeatureCategory struct {
	Category string    `json:"category"`
	Features []Feature `json:"features"`
}

// FeatureMatrix is the structured output of the feature-comparison aspect.
type FeatureMatrix struct {
	Competitors []string          `json:"competitors"`
	Features    []FeatureCategory `json:"features"`
	KeyInsights []string          `json:"keyInsights"`
}

// MapPoint positions one company on a 2x2 segmentation map.
type MapPoint struct {
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rationale string  `json:"rationale"`
}

// Quadrant is one labeled quadrant of a segmentation map.
type Quadrant struct {
	Label     string     `json:"label"`
	Companies []MapPoint `json:"companies"`
}

// SegmentationMap is one 2x2 market positioning map.
type SegmentationMap struct {
	Title       string              `json:"title"`
	XAxis       string              `json:"xAxis"`
	YAxis       string              `json:"yAxis"`
	Description string              `json:"description"`
	Quadrants   map[string]Quadrant `json:"quadrants"`
}

// MarketGap describes one unmet need or white space in the market.
type MarketGap struct {
	GapTitle             string   `json:"gapTitle"`
	Description          string   `json:"description"`
	MarketSize           string   `json:"marketSize"`
	CurrentSolutions     string   `json:"currentSolutions"`
	OpportunityScore     int      `json:"opportunityScore"`
	TimeToMarket         string   `json:"timeToMarket"`
	RequiredCapabilities []string `json:"requiredCapabilities"`
}

// Recommendation is one strategic recommendation from the gap analysis.
type Recommendation struct {
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
	Priority       string `json:"priority"`
}

// AnalysisResult is the in-memory aggregate of one full research run.
// Every aspect-sourced field may be empty when that aspect's research
// failed or was absent from the generated aspect set.
type AnalysisResult struct {
	SolutionDescription string    `json:"solutionDescription"`
	AnalysisDate        time.Time `json:"analysisDate"`

	Competitors []CompetitorFact `json:"competitors"`
	TopThreats  []Threat         `json:"topThreats"`

	FeatureMatrix FeatureMatrix `json:"featureMatrix"`

	MarketSegmentationMaps []SegmentationMap `json:"marketSegmentationMaps"`
	MarketInsights         []string          `json:"marketInsights"`

	MarketGaps               []MarketGap      `json:"marketGaps"`
	StrategicRecommendations []Recommendation `json:"strategicRecommendations"`
	EmergingTrends           []string         `json:"emergingTrends"`

	Summary string `json:"summary"`

	RawAspects []AspectResult `json:"rawAspects"`
}

// Analysis is the persisted output of one full research pipeline run.
// It is created exactly once by the research engine and immutable thereafter.
type Analysis struct {
	ID                  uuid.UUID      `json:"id"`
	IndustryID          string         `json:"industryId,omitempty"`
	SolutionDescription string         `json:"solutionDescription"`
	Results             AnalysisResult `json:"results"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// AnalysisSummary is the listing shape of an analysis: identifying fields
// plus the executive summary, without the full aggregate.
type AnalysisSummary struct {
	ID                  uuid.UUID `json:"id"`
	IndustryID          string    `json:"industryId,omitempty"`
	SolutionDescription string    `json:"solutionDescription"`
	AnalysisDate        time.Time `json:"analysisDate"`
	Summary             string    `json:"summary"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Competitor is the normalized, persisted projection of one competitor fact.
// Details holds the full CompetitorFact as JSON.
type Competitor struct {
	ID            int64           `json:"id"`
	AnalysisID    uuid.UUID       `json:"analysisId"`
	Name          string          `json:"name"`
	Relevancy     int             `json:"relevancy"`
	Details       json.RawMessage `json:"details"`
	StrategicNote string          `json:"strategicNote"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ClampRelevancy forces a relevancy score into [MinRelevancy, MaxRelevancy].
// A zero score (absent in the research output) maps to DefaultRelevancy.
func ClampRelevancy(score int) int {
	if score == 0 {
		return DefaultRelevancy
	}
	if score < MinRelevancy {
		return MinRelevancy
	}
	if score > MaxRelevancy {
		return MaxRelevancy
	}
	return score
}

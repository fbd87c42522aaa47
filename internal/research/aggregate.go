package research

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoutiq/landscape-api/internal/domain"
)

// maxKeyFindings caps the number of findings fed to the summary call.
const maxKeyFindings = 5

// Per-aspect decode shapes. These mirror the output schemas the research
// prompts demand; fields missing from a degraded or fallback result simply
// decode to their zero values.
type competitorFindings struct {
	Competitors []domain.CompetitorFact `json:"competitors"`
	TopThreats  []domain.Threat         `json:"topThreats"`
}

type segmentationFindings struct {
	SegmentationMaps []domain.SegmentationMap `json:"segmentationMaps"`
	KeyInsights      []string                 `json:"keyInsights"`
}

type gapFindings struct {
	MarketGaps               []domain.MarketGap      `json:"marketGaps"`
	StrategicRecommendations []domain.Recommendation `json:"strategicRecommendations"`
	EmergingTrends           []string                `json:"emergingTrends"`
}

// buildResult folds the per-aspect findings into a single AnalysisResult,
// keyed on the canonical aspect names. A result whose findings do not decode
// into the expected shape (including the fallback finding) contributes
// nothing to the typed fields but stays available under RawAspects.
func buildResult(solutionDescription string, results []domain.AspectResult) domain.AnalysisResult {
	out := domain.AnalysisResult{
		SolutionDescription: solutionDescription,
		AnalysisDate:        time.Now().UTC(),
		RawAspects:          results,
	}

	for _, r := range results {
		switch r.Aspect {
		case domain.AspectDirectCompetitors:
			var f competitorFindings
			if err := json.Unmarshal(r.Findings, &f); err == nil {
				out.Competitors = f.Competitors
				out.TopThreats = f.TopThreats
			}
		case domain.AspectFeatureComparison:
			var f domain.FeatureMatrix
			if err := json.Unmarshal(r.Findings, &f); err == nil {
				out.FeatureMatrix = f
			}
		case domain.AspectMarketSegmentation:
			var f segmentationFindings
			if err := json.Unmarshal(r.Findings, &f); err == nil {
				out.MarketSegmentationMaps = f.SegmentationMaps
				out.MarketInsights = f.KeyInsights
			}
		case domain.AspectMarketGaps:
			var f gapFindings
			if err := json.Unmarshal(r.Findings, &f); err == nil {
				out.MarketGaps = f.MarketGaps
				out.StrategicRecommendations = f.StrategicRecommendations
				out.EmergingTrends = f.EmergingTrends
			}
		}
	}
	return out
}

// keyFindings extracts up to maxKeyFindings headline facts from the aspect
// results for the executive summary call. Aspects that failed or returned
// unexpected shapes are skipped.
func keyFindings(results []domain.AspectResult) []string {
	var findings []string
	for _, r := range results {
		var f struct {
			TopThreats               []domain.Threat         `json:"topThreats"`
			KeyInsights              []string                `json:"keyInsights"`
			StrategicRecommendations []domain.Recommendation `json:"strategicRecommendations"`
		}
		if err := json.Unmarshal(r.Findings, &f); err != nil {
			continue
		}
		if len(f.TopThreats) > 0 {
			names := make([]string, 0, len(f.TopThreats))
			for _, t := range f.TopThreats {
				names = append(names, t.Company)
			}
			findings = append(findings, "Top competitive threats: "+strings.Join(names, ", "))
		}
		findings = append(findings, f.KeyInsights...)
		for _, rec := range f.StrategicRecommendations {
			findings = append(findings, rec.Recommendation)
		}
	}
	if len(findings) > maxKeyFindings {
		findings = findings[:maxKeyFindings]
	}
	return findings
}

// StrategicNote classifies one competitor fact into a watch-level note.
// Billion-scale funding (any "B" in the funding string) or a relevancy of 8+
// marks a direct competitor; 6-7 an adjacent player; anything else indirect.
func StrategicNote(fact domain.CompetitorFact) string {
	relevancy := domain.ClampRelevancy(fact.RelevancyScore)
	switch {
	case strings.Contains(fact.TotalFunding, "B") || relevancy >= 8:
		return "Direct competitor - monitor closely for strategic moves"
	case relevancy >= 6:
		return "Adjacent player - potential partner or acquisition target"
	default:
		return "Indirect competitor - watch for market pivot"
	}
}

// competitorRows projects the aggregated competitor facts into persistable
// rows for the given analysis. Names default to "Unknown" and relevancy
// scores are clamped into the valid range.
func competitorRows(analysisID uuid.UUID, facts []domain.CompetitorFact) ([]*domain.Competitor, error) {
	rows := make([]*domain.Competitor, 0, len(facts))
	for _, fact := range facts {
		details, err := json.Marshal(fact)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal competitor details: %w", err)
		}
		name := fact.Name
		if name == "" {
			name = "Unknown"
		}
		rows = append(rows, &domain.Competitor{
			AnalysisID:    analysisID,
			Name:          name,
			Relevancy:     domain.ClampRelevancy(fact.RelevancyScore),
			Details:       details,
			StrategicNote: StrategicNote(fact),
		})
	}
	return rows, nil
}

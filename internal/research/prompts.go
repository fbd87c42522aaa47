package research

import (
	"fmt"
	"strings"

	"github.com/scoutiq/landscape-api/internal/domain"
)

// aspectSystemPrompt asks the model for the research aspect plan. The four
// canonical aspect names must match domain.Aspect* exactly: aggregation and
// template selection key on them.
const aspectSystemPrompt = `You are an elite market research strategist analyzing a competitive landscape.

REQUIRED ANALYSIS ASPECTS (must include ALL):
1. "Direct Competitors Analysis" - Companies with similar solutions, their metrics and positioning
2. "Feature Comparison Matrix" - Detailed feature sets across competitors
3. "Market Segmentation Mapping" - Position competitors on innovation vs market share axes
4. "Market Gaps and Opportunities" - Unmet needs and white spaces

For each aspect provide:
- name: Exact name from above list
- description: Brief description (max 30 words)
- importance: Score 1-10 (competitors=10, features=9, mapping=8, gaps=9)
- researchFocus: Specific data points to gather

Return ONLY a JSON object:
{
  "aspects": [{
    "name": "Direct Competitors Analysis",
    "description": "Identify and analyze direct and adjacent competitors",
    "importance": 10,
    "researchFocus": ["company names", "year founded", "total funding", "ARR/revenue", "target market", "employee count"]
  }]
}`

// aspectUserPrompt is the user turn of the aspect-generation call.
func aspectUserPrompt(solutionDescription string) string {
	return "Analyze this solution for competitive landscape: " + solutionDescription
}

// researchUserPrompt is the shared user turn of every aspect research call.
func researchUserPrompt(solutionDescription string) string {
	return fmt.Sprintf(`Research and analyze: %s

CRITICAL: Provide detailed, data-driven analysis with specific examples.
Focus on real companies and actual market data where possible.`, solutionDescription)
}

// researchPrompt returns the system prompt for one aspect's research call.
// The four canonical aspects get purpose-built templates whose output schema
// matches the aggregation step; anything else gets a generic template built
// from the aspect's own description and focus fields.
func researchPrompt(aspect domain.Aspect, solutionDescription string) string {
	switch aspect.Name {
	case domain.AspectDirectCompetitors:
		return directCompetitorsPrompt(solutionDescription)
	case domain.AspectFeatureComparison:
		return featureComparisonPrompt(solutionDescription)
	case domain.AspectMarketSegmentation:
		return marketSegmentationPrompt(solutionDescription)
	case domain.AspectMarketGaps:
		return marketGapsPrompt(solutionDescription)
	default:
		return customResearchPrompt(aspect, solutionDescription)
	}
}

func directCompetitorsPrompt(solutionDescription string) string {
	return fmt.Sprintf(`You are an elite market research assistant.

TASK: Find and analyze competitors for: %s

REQUIRED DATA POINTS FOR EACH COMPETITOR:
1. Company Name
2. Year Founded (YYYY format)
3. Total Funding Raised (format: "$XXM" or "$X.XB" or "Bootstrapped")
4. Latest Funding Round (format: "Series X" or "Seed" or "IPO")
5. Target Market (specific segment, max 20 words)
6. ARR/Revenue (format: "$XXM ARR" or "$XXM revenue" or "Not disclosed")
7. Employee Count (format: "50-100" or exact number)
8. Headquarters Location
9. Key Product/Service (max 30 words)
10. Relevancy Score (1-10, based on similarity to solution)

OUTPUT FORMAT - STRICT JSON:
{
  "competitors": [
    {
      "name": "Company Name",
      "yearFounded": "YYYY",
      "totalFunding": "$XXM",
      "latestRound": "Series X",
      "targetMarket": "specific segment",
      "arr": "$XXM ARR",
      "employeeCount": "X-Y",
      "headquarters": "City, State",
      "keyProduct": "specific product description",
      "relevancyScore": 7
    }
  ],
  "topThreats": [
    {
      "company": "Company Name",
      "threatReason": "Specific reason why they are a threat"
    }
  ]
}

Find 8-12 competitors. Be precise with data formatting.`, solutionDescription)
}

func featureComparisonPrompt(solutionDescription string) string {
	return fmt.Sprintf(`You are a product analyst.

TASK: Create a feature comparison matrix for: %s

FEATURE CATEGORIES TO ANALYZE:
- Core Functionality
- Scalability & Performance
- Integration Capabilities
- Security & Compliance
- Deployment Options
- Support & Service Level
- Pricing Model
- Unique Differentiators

OUTPUT FORMAT - STRICT JSON:
{
  "competitors": ["Company1", "Company2", "Company3"],
  "features": [
    {
      "category": "Core Functionality",
      "features": [
        {
          "name": "Feature name",
          "companies": {"Company1": true, "Company2": false, "Company3": true}
        }
      ]
    }
  ],
  "keyInsights": [
    "Key insight about competitive advantages",
    "Key insight about market gaps"
  ]
}`, solutionDescription)
}

func marketSegmentationPrompt(solutionDescription string) string {
	return fmt.Sprintf(`You are a market positioning analyst.

TASK: Create MULTIPLE market segmentation perspectives for: %s

Create THREE different 2x2 market maps:
1. Innovation vs Market Share
2. Price vs Features/Quality
3. Customer Size vs Specialization

For each map, position 5-8 companies with x,y coordinates (1-10 scale).

OUTPUT FORMAT - STRICT JSON:
{
  "segmentationMaps": [
    {
      "title": "Innovation vs Market Share",
      "xAxis": "Market Share",
      "yAxis": "Innovation Level",
      "description": "Traditional market position analysis",
      "quadrants": {
        "topRight": {
          "label": "Market Leaders",
          "companies": [{"name": "Company", "x": 8.5, "y": 9.0, "rationale": "Leader in AI, 40%% market share"}]
        },
        "topLeft": {"label": "Emerging Innovators", "companies": []},
        "bottomRight": {"label": "Established Players", "companies": []},
        "bottomLeft": {"label": "Niche Players", "companies": []}
      }
    }
  ],
  "keyInsights": [
    "Most competitors cluster in enterprise segment"
  ]
}`, solutionDescription)
}

func marketGapsPrompt(solutionDescription string) string {
	return fmt.Sprintf(`You are a market opportunity analyst.

TASK: Identify market gaps and opportunities for: %s

ANALYSIS FRAMEWORK:
- Customer pain points not addressed
- Regulatory requirements creating demand
- Technology limitations of existing solutions
- Geographic or vertical market white spaces
- Emerging use cases not yet served

OUTPUT FORMAT - STRICT JSON:
{
  "marketGaps": [
    {
      "gapTitle": "Brief title",
      "description": "Detailed description",
      "marketSize": "$X.XB or 'Not quantified'",
      "currentSolutions": "Brief description",
      "opportunityScore": 8,
      "timeToMarket": "X-Y months/years",
      "requiredCapabilities": ["Capability 1", "Capability 2"]
    }
  ],
  "strategicRecommendations": [
    {
      "recommendation": "Clear action",
      "rationale": "Why this matters",
      "priority": "High/Medium/Low"
    }
  ],
  "emergingTrends": ["Trend 1", "Trend 2"]
}`, solutionDescription)
}

// customResearchPrompt covers aspects outside the canonical four.
func customResearchPrompt(aspect domain.Aspect, solutionDescription string) string {
	return fmt.Sprintf(`I'm researching %q for: %s

You are an expert analyst focused on %s

TASK:
1. Research key factors related to %s
2. Focus areas: %s
3. Provide data-driven insights
4. Structure findings clearly

Return findings as clean JSON format.`,
		aspect.Name,
		solutionDescription,
		aspect.Description,
		aspect.Name,
		strings.Join(aspect.ResearchFocus, ", "))
}

// summarySystemPrompt drives the executive summary call.
const summarySystemPrompt = `Generate a concise 3-paragraph executive summary (max 200 words) covering:
1. Key competitive threats
2. Market opportunities
3. Recommended strategic actions

Keep it action-oriented and specific.`

// summaryUserPrompt feeds the summary call the extracted key findings.
func summaryUserPrompt(findings []string) string {
	return "Key findings:\n" + strings.Join(findings, "\n")
}

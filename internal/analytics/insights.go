package analytics

import "fmt"

type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightWarning  InsightType = "warning"
	InsightInfo     InsightType = "info"
)

// Thresholds for the rule-based insight checks.
const (
	momentumInsightThreshold = 2.0
	pkConversionWarningBelow = 50.0
	possessionDominantAbove  = 60.0
	possessionPassiveBelow   = 40.0
)

type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// GenerateInsights runs the threshold checks over a stat bundle in a fixed
// order. Presentational heuristics, nothing statistical.
func GenerateInsights(stats GameStats) []Insight {
	insights := []Insight{}

	diff := stats.Basic.My.Goals - stats.Basic.Their.Goals
	switch {
	case diff > 0:
		insights = append(insights, Insight{
			Type:        InsightPositive,
			Title:       "In front",
			Description: fmt.Sprintf("Leading by %d, keep the shape that got you here.", diff),
		})
	case diff < 0:
		insights = append(insights, Insight{
			Type:        InsightWarning,
			Title:       "Chasing the game",
			Description: fmt.Sprintf("Trailing by %d, look for a change to force the issue.", -diff),
		})
	}

	if stats.Momentum.Differential > momentumInsightThreshold {
		insights = append(insights, Insight{
			Type:        InsightPositive,
			Title:       "Momentum swinging your way",
			Description: "Recent events favour your side, press while it lasts.",
		})
	} else if stats.Momentum.Differential < -momentumInsightThreshold {
		insights = append(insights, Insight{
			Type:        InsightWarning,
			Title:       "Opponent building momentum",
			Description: "The last few minutes have gone against you, slow the game down.",
		})
	}

	if stats.Efficiency.My.PenaltyAttempts >= 1 &&
		stats.Efficiency.My.PKConversion < pkConversionWarningBelow {
		insights = append(insights, Insight{
			Type:        InsightWarning,
			Title:       "Penalties going begging",
			Description: fmt.Sprintf("Converting %.0f%% from the spot, worth a different taker.", stats.Efficiency.My.PKConversion),
		})
	}

	if stats.Possession.My > possessionDominantAbove {
		insights = append(insights, Insight{
			Type:        InsightPositive,
			Title:       "Controlling the game",
			Description: fmt.Sprintf("Driving %.0f%% of the action.", stats.Possession.My),
		})
	} else if stats.Possession.My < possessionPassiveBelow {
		insights = append(insights, Insight{
			Type:        InsightInfo,
			Title:       "Soaking up pressure",
			Description: fmt.Sprintf("Only %.0f%% of the action is yours, stay compact.", stats.Possession.My),
		})
	}

	return insights
}

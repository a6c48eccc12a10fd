package domain

// Recommendations is the AI recommendation set rendered on the dashboard.
// The backend's payload is decoded into this shape when possible; when the
// call fails or returns unsuccessfully the locally defined default set is
// used instead, so the interface is always populated.
type Recommendations struct {
	// FocusAreas are the suggested areas to concentrate on.
	FocusAreas []string `json:"focus_areas"`

	// QuickWins are low-effort high-value suggestions.
	QuickWins []string `json:"quick_wins"`

	// RiskAlerts flag tasks or patterns likely to slip.
	RiskAlerts []string `json:"risk_alerts"`

	// OptimizationTips are workflow improvement suggestions.
	OptimizationTips []string `json:"optimization_tips"`

	// EfficiencyScore is a 0-100 productivity score.
	EfficiencyScore int `json:"efficiency_score"`
}

// DefaultRecommendations returns the locally defined fallback recommendation
// set used when the backend's AI endpoints fail or return unsuccessfully.
func DefaultRecommendations() Recommendations {
	return Recommendations{
		FocusAreas: []string{
			"Complete high-priority tasks first",
			"Break down complex tasks into smaller steps",
			"Review overdue items daily",
		},
		QuickWins: []string{
			"Close out tasks that are over 90% complete",
			"Update progress on in-progress tasks",
		},
		RiskAlerts: []string{
			"Tasks past their due date need attention",
		},
		OptimizationTips: []string{
			"Batch similar tasks by category",
			"Schedule demanding work for your peak hours",
		},
		EfficiencyScore: 85,
	}
}

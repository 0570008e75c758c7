package coach

import (
	"github.com/okian/focusfork/internal/adapters/llm"
	"github.com/okian/focusfork/internal/domain/plan"
)

// PlanSchema describes a FocusPlan for structured generation.
func PlanSchema() *llm.Schema {
	minCriteria := int64(plan.MinSuccessCriteria)
	maxCriteria := int64(plan.MaxSuccessCriteria)
	minSteps := int64(1)
	minMinutes := float64(plan.MinMinutes)
	maxMinutes := float64(plan.MaxMinutes)

	return &llm.Schema{
		Type:     llm.TypeObject,
		Required: []string{"summary", "success_criteria", "step_by_step_plan", "estimated_time_minutes"},
		Properties: map[string]*llm.Schema{
			"summary": {
				Type:        llm.TypeString,
				Description: "A concise 2-sentence summary of the issue.",
			},
			"success_criteria": {
				Type:        llm.TypeArray,
				Description: "3-5 clear bullet points defining what done looks like.",
				Items:       &llm.Schema{Type: llm.TypeString},
				MinItems:    &minCriteria,
				MaxItems:    &maxCriteria,
			},
			"step_by_step_plan": {
				Type:        llm.TypeArray,
				Description: "A logical, non-technical, step-by-step plan focused on process.",
				Items:       &llm.Schema{Type: llm.TypeString},
				MinItems:    &minSteps,
			},
			"estimated_time_minutes": {
				Type:        llm.TypeInteger,
				Description: "Estimated time in minutes (30-120).",
				Minimum:     &minMinutes,
				Maximum:     &maxMinutes,
			},
		},
	}
}

package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/callbridge/audit"
)

// NewCheckCurrentOfferTool serves the terms of the offer currently on the
// table for the named role and company.
func NewCheckCurrentOfferTool() Tool {
	return NewFunctionTool(
		"checkCurrentOffer",
		"Checks the details of the current offer",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"role":    map[string]any{"type": "string"},
				"company": map[string]any{"type": "string"},
			},
			"required": []string{"role", "company"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{
				"role":        args["role"],
				"company":     args["company"],
				"baseSalary":  120000,
				"bonus":       "15%",
				"equity":      "10000 RSUs",
				"signOnBonus": 10000,
				"benefits":    []string{"health", "dental", "401k match 6%"},
			}, nil
		},
	)
}

// NewCheckIndustrySalaryTool answers market-rate questions during negotiation.
func NewCheckIndustrySalaryTool() Tool {
	return NewFunctionTool(
		"checkIndustrySalary",
		"Checks the industry salary range for the given role in the given location for the given years of experience",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"role":              map[string]any{"type": "string"},
				"location":          map[string]any{"type": "string"},
				"yearsOfExperience": map[string]any{"type": "number"},
			},
			"required": []string{"role", "location", "yearsOfExperience"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			role, _ := args["role"].(string)
			location, _ := args["location"].(string)
			years, _ := args["yearsOfExperience"].(float64)

			return fmt.Sprintf(
				"The industry salary range for %s in %s with %.0f years of experience is $300,000 - $500,000",
				role, location, years,
			), nil
		},
	)
}

// NewLogFinalOfferTool records the final negotiated terms to the audit log.
func NewLogFinalOfferTool(w *audit.Writer) Tool {
	offerSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"baseSalary":  map[string]any{"type": "number"},
			"equity":      map[string]any{"type": "string"},
			"signOnBonus": map[string]any{"type": "number"},
			"title":       map[string]any{"type": "string"},
		},
	}

	return NewFunctionTool(
		"logFinalOffer",
		"Records the final negotiated terms and outcomes",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"originalOffer": offerSchema,
				"finalOffer":    offerSchema,
				"nextSteps":     map[string]any{"type": "string"},
			},
			"required": []string{"originalOffer", "finalOffer", "nextSteps"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			entry := map[string]any{
				"original_offer": args["originalOffer"],
				"final_offer":    args["finalOffer"],
				"next_steps":     args["nextSteps"],
			}

			original, _ := args["originalOffer"].(map[string]any)
			final, _ := args["finalOffer"].(map[string]any)
			if original != nil && final != nil {
				origBase, _ := original["baseSalary"].(float64)
				finalBase, _ := final["baseSalary"].(float64)
				entry["improvements"] = map[string]any{
					"base_salary_increase": finalBase - origBase,
					"title_change":         original["title"] != final["title"],
				}
			}

			if err := w.Append("negotiation_outcome", entry); err != nil {
				return nil, err
			}

			return map[string]any{"logged": true}, nil
		},
	)
}

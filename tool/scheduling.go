package tool

import (
	"context"
	"fmt"
	"time"
)

// NewReturnAvailableDateTimeTool serves candidate availability for the next
// two weeks. Suggested dates from the recruiter are echoed back when they fit;
// otherwise a default slot list is offered.
func NewReturnAvailableDateTimeTool() Tool {
	return NewFunctionTool(
		"returnAvailableDateTime",
		"Returns available dates/times for the next two weeks.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suggestedDates": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "description": "Date and time in ISO format"},
					"description": "Optional list of interview dates/times suggested",
				},
				"duration": map[string]any{
					"type":        "number",
					"description": "Meeting duration in minutes",
				},
				"timeZone": map[string]any{
					"type":        "string",
					"description": "Meeting time zone",
				},
			},
			"required": []string{"duration", "timeZone"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			if suggested, _ := args["suggestedDates"].([]any); len(suggested) > 0 {
				return suggested, nil
			}

			// Default availability: weekday mornings over the next two weeks.
			now := time.Now()
			var slots []string
			for day := 1; day <= 14 && len(slots) < 5; day++ {
				d := now.AddDate(0, 0, day)
				if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
					continue
				}
				slot := time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, d.Location())
				slots = append(slots, slot.Format(time.RFC3339))
			}

			return slots, nil
		},
	)
}

// NewScheduleMeetingTool creates the calendar invite stub for a confirmed
// interview slot.
func NewScheduleMeetingTool() Tool {
	return NewFunctionTool(
		"scheduleMeeting",
		"Creates a calendar invite for the meeting",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"dateTime": map[string]any{
					"type":        "string",
					"description": "Meeting start time in ISO format",
				},
				"duration": map[string]any{
					"type":        "number",
					"description": "Meeting duration in minutes",
				},
				"format": map[string]any{
					"type":        "string",
					"enum":        []any{"video", "phone"},
					"description": "Meeting format",
				},
				"participantName": map[string]any{
					"type":        "string",
					"description": "Meeting participant's name",
				},
				"participantOrg": map[string]any{
					"type":        "string",
					"description": "Meeting participant's organization (if applicable)",
				},
				"participantEmail": map[string]any{
					"type":        "string",
					"description": "Meeting participant's email",
				},
				"meetingType": map[string]any{
					"type": "string",
					"enum": []any{
						"general_meeting",
						"initial_screening",
						"technical_discussion",
						"team_interview",
						"final_round",
						"follow_up",
					},
					"description": "Type of meeting",
				},
				"notes": map[string]any{
					"type":        "string",
					"description": "Additional meeting notes or agenda",
				},
			},
			"required": []string{
				"dateTime", "duration", "format",
				"participantName", "participantOrg", "participantEmail", "meetingType",
			},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			dateTime, _ := args["dateTime"].(string)
			if _, err := time.Parse(time.RFC3339, dateTime); err != nil {
				return nil, fmt.Errorf("dateTime must be ISO format: %w", err)
			}

			return map[string]any{
				"scheduled": true,
				"dateTime":  dateTime,
				"format":    args["format"],
				"attendee":  args["participantName"],
			}, nil
		},
	)
}

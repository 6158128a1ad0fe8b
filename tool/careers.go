package tool

import (
	"context"

	"github.com/hupe1980/callbridge/audit"
)

// AllowedCareerFields enumerates the candidate profile fields a verified
// recruiter may request through lookupCareerInfo.
var AllowedCareerFields = []string{
	"role",
	"experience",
	"education",
	"skills",
	"availability",
	"salary_range",
	"location",
	"resume_summary",
	"visa_status",
	"work_history",
	"projects",
	"certifications",
}

// careerProfile is the static candidate record served by the info desk. A
// production deployment would back this with a real profile store.
var careerProfile = map[string]any{
	"role":           "Senior Software Engineer",
	"experience":     "8 years of professional experience",
	"education":      "Master's in Computer Science",
	"skills":         []string{"Go", "Python", "AWS", "Docker", "Kubernetes"},
	"availability":   "Available to start in 2 weeks",
	"salary_range":   "$320,000 - $550,000",
	"location":       "San Francisco, CA (Remote friendly)",
	"resume_summary": "Experienced software engineer with focus on cloud architecture and distributed systems",
	"visa_status":    "H1B",
	"work_history": []map[string]string{
		{"company": "Tech Corp", "position": "Senior Software Engineer", "duration": "2020-present"},
		{"company": "Startup Inc", "position": "Software Engineer", "duration": "2018-2020"},
	},
	"projects": []map[string]string{
		{"name": "Cloud Migration", "description": "Led migration of legacy systems to AWS"},
		{"name": "API Platform", "description": "Designed and implemented RESTful API platform"},
	},
	"certifications": []string{
		"AWS Certified Solutions Architect",
		"Google Cloud Professional Engineer",
	},
}

// NewLookupCareerInfoTool returns the info desk lookup over the candidate's
// career profile. Only fields in AllowedCareerFields are served; unknown
// fields are skipped rather than failing the whole request.
func NewLookupCareerInfoTool() Tool {
	allowed := make([]any, len(AllowedCareerFields))
	for i, f := range AllowedCareerFields {
		allowed[i] = f
	}

	return NewFunctionTool(
		"lookupCareerInfo",
		"Retrieves career aspirations, work experience, education, skills, and availability for verified recruiters",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"requestedFields": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "enum": allowed},
					"description": "List of information fields being requested",
				},
			},
			"required": []string{"requestedFields"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			fields, _ := args["requestedFields"].([]any)
			if len(fields) == 0 {
				return careerProfile, nil
			}

			result := make(map[string]any, len(fields))
			for _, f := range fields {
				name, ok := f.(string)
				if !ok {
					continue
				}
				if value, exists := careerProfile[name]; exists {
					result[name] = value
				}
			}

			return result, nil
		},
	)
}

// NewLogRecruiterRequestTool records the recruiter's request and role details
// to the audit log so follow-ups can reference what was asked for.
func NewLogRecruiterRequestTool(w *audit.Writer) Tool {
	return NewFunctionTool(
		"logRecruiterRequest",
		"Logs the recruiter's and the potential role information request to the audit log",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recruiterName": map[string]any{
					"type":        "string",
					"description": "Verified recruiter's name",
				},
				"company": map[string]any{
					"type":        "string",
					"description": "The company the recruiter is representing",
				},
				"potentialRole": map[string]any{
					"type":        "string",
					"description": "The role the recruiter is looking for",
				},
				"potentialRoleDescription": map[string]any{
					"type":        "string",
					"description": "A description of the role the recruiter is looking for",
				},
				"expectedSalaryRange": map[string]any{
					"type":        "string",
					"description": "The expected salary range the recruiter is looking for",
				},
				"expectedLocation": map[string]any{
					"type":        "string",
					"description": "The location the recruiter is looking for",
				},
				"sponsorVisa": map[string]any{
					"type":        "boolean",
					"description": "Whether the company is sponsoring a visa",
				},
				"interviewTimeline": map[string]any{
					"type":        "string",
					"description": "The timeline for the interview process",
				},
				"interviewProcess": map[string]any{
					"type":        "string",
					"description": "The interview process for the role",
				},
			},
			"required": []string{"recruiterName", "company", "potentialRole"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			if err := w.Append("recruiter_request", args); err != nil {
				return nil, err
			}
			return map[string]any{"logged": true}, nil
		},
	)
}

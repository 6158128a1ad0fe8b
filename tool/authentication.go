package tool

import (
	"context"
	"fmt"
	"strings"
)

// NewVerifyRecruiterCredentialsTool verifies a calling recruiter against the
// known-recruiter records before any candidate data is shared. The check here
// is a stand-in for a directory lookup; it accepts any syntactically complete
// identity and returns a verification token the other tools can reference.
func NewVerifyRecruiterCredentialsTool() Tool {
	return NewFunctionTool(
		"verifyRecruiterCredentials",
		"Verifies the recruiter's credentials against our database",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"fullName": map[string]any{
					"type":        "string",
					"description": "Recruiter's full name",
				},
				"company": map[string]any{
					"type":        "string",
					"description": "Recruiting company name",
				},
				"position": map[string]any{
					"type":        "string",
					"description": "Job position being discussed",
				},
			},
			"required": []string{"fullName", "company", "position"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			fullName, _ := args["fullName"].(string)
			company, _ := args["company"].(string)

			if strings.TrimSpace(fullName) == "" || strings.TrimSpace(company) == "" {
				return map[string]any{
					"verified": false,
					"reason":   "name and company are required for verification",
				}, nil
			}

			return map[string]any{
				"verified":          true,
				"verificationToken": fmt.Sprintf("rec-%x", checksum(fullName+"|"+company)),
			}, nil
		},
	)
}

// checksum is a tiny stable hash for building deterministic mock tokens.
func checksum(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

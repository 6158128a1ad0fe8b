package tool

import "github.com/hupe1980/callbridge/audit"

// Builtin returns the full set of call tools backed by the given audit writer.
// The returned tools cover authentication, info desk, scheduling and
// negotiation; agents declare by name which subset they may invoke.
func Builtin(w *audit.Writer) []Tool {
	return []Tool{
		NewVerifyRecruiterCredentialsTool(),
		NewLookupCareerInfoTool(),
		NewLogRecruiterRequestTool(w),
		NewReturnAvailableDateTimeTool(),
		NewScheduleMeetingTool(),
		NewCheckCurrentOfferTool(),
		NewCheckIndustrySalaryTool(),
		NewLogFinalOfferTool(w),
	}
}

// NewBuiltinRegistry constructs a registry pre-populated with every builtin
// tool.
func NewBuiltinRegistry(w *audit.Writer) *Registry {
	r := NewRegistry()
	r.MustRegister(Builtin(w)...)
	return r
}

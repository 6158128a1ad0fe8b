package agent

// Default realtime session settings shared by the stock agents. Telephony
// audio arrives as 8kHz mu-law, so both directions use g711_ulaw.
const (
	DefaultModel       = "gpt-4o-realtime-preview-2024-10-01"
	DefaultVoice       = "alloy"
	DefaultAudioFormat = "g711_ulaw"
)

func defaultSpec(name, publicDescription, instructions string) Spec {
	return Spec{
		Name:                    name,
		PublicDescription:       publicDescription,
		Model:                   DefaultModel,
		Instructions:            instructions,
		Voice:                   DefaultVoice,
		Modalities:              []string{"text", "audio"},
		InputAudioFormat:        DefaultAudioFormat,
		OutputAudioFormat:       DefaultAudioFormat,
		TurnDetection:           map[string]any{"type": "server_vad"},
		InputAudioTranscription: map[string]any{"model": "whisper-1"},
	}
}

// DefaultSpecs returns the stock agent set for the candidate-representation
// deployment: a routing agent plus specialists for authentication, candidate
// information, scheduling, negotiation and offline reasoning. Instruction
// text is configuration data; deployments normally load their own.
func DefaultSpecs() []Spec {
	main := defaultSpec(
		"main_agent",
		"The initial agent that greets the caller and routes them to the correct downstream agent.",
		`You are the initial routing agent representing a job candidate on this call.
Greet the caller, find out who they are and what they need, then route them to the
appropriate specialized agent. Recruiters must be authenticated before any candidate
information is shared. Let the caller know you're about to transfer them before doing so.`,
	)
	main.DownstreamAgents = []string{
		"authentication_agent",
		"info_desk_agent",
		"scheduling_agent",
		"negotiation_agent",
		"reasoning_agent",
	}

	authentication := defaultSpec(
		"authentication_agent",
		"Verifies a recruiter's identity and credentials before any candidate data is shared.",
		`You authenticate recruiters. Collect the caller's full name, company and the position
they are recruiting for, then verify their credentials with the verifyRecruiterCredentials
tool. Once verified, route them onward; never share candidate details yourself.`,
	)
	authentication.ToolNames = []string{"verifyRecruiterCredentials"}
	authentication.DownstreamAgents = []string{
		"main_agent",
		"info_desk_agent",
		"scheduling_agent",
	}

	infoDesk := defaultSpec(
		"info_desk_agent",
		"Answers verified recruiters' questions about the candidate's background and availability.",
		`You are the candidate information desk for verified recruiters. Use lookupCareerInfo
to answer questions about the candidate's experience, skills and availability, and record
the recruiter's request with logRecruiterRequest. Share only the fields that were asked for.`,
	)
	infoDesk.ToolNames = []string{"lookupCareerInfo", "logRecruiterRequest"}
	infoDesk.DownstreamAgents = []string{"main_agent", "scheduling_agent"}

	scheduling := defaultSpec(
		"scheduling_agent",
		"Books interviews and follow-up calls against the candidate's availability.",
		`You schedule interviews on the candidate's behalf. Offer availability with
returnAvailableDateTime and confirm bookings with scheduleMeeting. Always confirm the
participant's name, organization and email before booking.`,
	)
	scheduling.ToolNames = []string{"returnAvailableDateTime", "scheduleMeeting"}

	negotiation := defaultSpec(
		"negotiation_agent",
		"Negotiates offer terms on the candidate's behalf using offer and market data.",
		`You negotiate compensation on the candidate's behalf. Check the current offer with
checkCurrentOffer and market rates with checkIndustrySalary before countering. Record the
final terms with logFinalOffer. Stay professional and anchored to the market data.`,
	)
	negotiation.ToolNames = []string{
		"checkCurrentOffer",
		"checkIndustrySalary",
		"logFinalOffer",
		"returnAvailableDateTime",
		"scheduleMeeting",
	}
	negotiation.DownstreamAgents = []string{"reasoning_agent", "scheduling_agent"}

	reasoning := defaultSpec(
		"reasoning_agent",
		"Thinks through complex trade-offs out loud when a decision needs careful analysis.",
		`You handle questions that need careful multi-step reasoning about the candidate's
situation, such as comparing competing offers. Reason step by step and summarize your
conclusion clearly for the caller.`,
	)

	return []Spec{main, authentication, infoDesk, scheduling, negotiation, reasoning}
}

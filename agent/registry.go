package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/callbridge/tool"
)

// TransferToolName is the reserved function name the backend uses to request a
// handoff. The session relay intercepts calls to this name instead of routing
// them through the tool dispatch bridge.
const TransferToolName = "transferAgents"

// Registry holds the immutable agent table plus the per-agent synthesized
// transfer capability. Built once at process start; all methods are pure reads
// and safe for unsynchronized concurrent use.
type Registry struct {
	specs         map[string]Spec
	transferTools map[string]tool.Schema
}

// NewRegistry builds a registry from the given specs. For every spec with a
// non-empty downstream set it synthesizes a transfer tool whose destination
// enum is exactly that downstream set and whose description lists each
// destination's public description. Construction fails on duplicate names or
// a downstream reference to an unknown agent.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{
		specs:         make(map[string]Spec, len(specs)),
		transferTools: make(map[string]tool.Schema),
	}

	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.specs[s.Name]; exists {
			return nil, fmt.Errorf("duplicate agent name %q", s.Name)
		}
		r.specs[s.Name] = s.clone()
	}

	for name, s := range r.specs {
		for _, downstream := range s.DownstreamAgents {
			if _, ok := r.specs[downstream]; !ok {
				return nil, fmt.Errorf("agent %q lists unknown downstream agent %q", name, downstream)
			}
		}
		if len(s.DownstreamAgents) > 0 {
			r.transferTools[name] = r.buildTransferTool(s)
		}
	}

	return r, nil
}

// Get returns the spec for the named agent.
func (r *Registry) Get(name string) (Spec, bool) {
	s, ok := r.specs[name]
	if !ok {
		return Spec{}, false
	}
	return s.clone(), true
}

// Names returns all registered agent names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateTransfer reports whether the current agent may hand the call off to
// the destination. True iff the destination is in the current agent's
// downstream set and is not the current agent itself. Pure function, no side
// effects.
func (r *Registry) ValidateTransfer(currentAgent, destination string) bool {
	if destination == currentAgent {
		return false
	}

	current, ok := r.specs[currentAgent]
	if !ok {
		return false
	}

	for _, downstream := range current.DownstreamAgents {
		if downstream == destination {
			return true
		}
	}

	return false
}

// TransferTool returns the synthesized transfer capability for the named
// agent, if it has any downstream agents.
func (r *Registry) TransferTool(name string) (tool.Schema, bool) {
	t, ok := r.transferTools[name]
	return t, ok
}

// SessionTools joins the agent's declared tool schemas from the runtime
// capability table with its synthesized transfer tool. This is the full tool
// list advertised in the backend session.update.
func (r *Registry) SessionTools(name string, tools *tool.Registry) ([]tool.Schema, error) {
	s, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("agent %q not found", name)
	}

	schemas, err := tools.Schemas(s.ToolNames...)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", name, err)
	}

	if transfer, ok := r.transferTools[name]; ok {
		schemas = append(schemas, transfer)
	}

	return schemas, nil
}

// ValidateTools checks at startup that every declared tool of every agent is
// present in the capability table. Misconfigured deployments fail fast rather
// than dropping function calls mid-conversation.
func (r *Registry) ValidateTools(tools *tool.Registry) error {
	for name, s := range r.specs {
		for _, toolName := range s.ToolNames {
			if _, ok := tools.Get(toolName); !ok {
				return fmt.Errorf("agent %q declares unregistered tool %q", name, toolName)
			}
		}
	}
	return nil
}

// buildTransferTool synthesizes the transferAgents capability for one spec.
func (r *Registry) buildTransferTool(s Spec) tool.Schema {
	var descriptions strings.Builder
	for _, name := range s.DownstreamAgents {
		desc := r.specs[name].PublicDescription
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(&descriptions, "- %s: %s\n", name, desc)
	}

	destinations := make([]any, len(s.DownstreamAgents))
	for i, name := range s.DownstreamAgents {
		destinations[i] = name
	}

	description := fmt.Sprintf(`Triggers a transfer of the user to a more specialized agent.
Calls escalate to a more specialized LLM agent or to a human agent, with additional context.
Only call this function if one of the available agents is appropriate.
Don't transfer to your own agent type.

Let the user know you're thinking and need a minute before doing so.

Available Agents:
%s`, descriptions.String())

	return tool.Schema{
		Type:        "function",
		Name:        TransferToolName,
		Description: description,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"rationale_for_transfer": map[string]any{
					"type":        "string",
					"description": "The reasoning why this transfer is needed.",
				},
				"conversation_context": map[string]any{
					"type":        "string",
					"description": "Relevant context from the conversation that will help the recipient perform the correct action.",
				},
				"destination_agent": map[string]any{
					"type":        "string",
					"description": "The more specialized destination_agent that should handle the user's intended request.",
					"enum":        destinations,
				},
			},
			"required": []string{
				"rationale_for_transfer",
				"conversation_context",
				"destination_agent",
			},
		},
	}
}

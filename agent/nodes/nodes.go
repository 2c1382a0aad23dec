// Package nodes implements the workflow stages the orchestrator graph wires
// together: query validation, classification, data fetching, and response
// synthesis. Every node takes the shared request context, enriches it in
// place, and hands it to the next stage.
package nodes

import (
	"strings"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

// Trace participant names.
const (
	participantOrchestrator = "orchestrator"
	participantClassifier   = "classifier"
	participantDataAgent    = "data_agent"
	participantSupport      = "support_agent"
)

type GraphInput struct {
	Query string
}

type GraphOutput struct {
	FinalResponse string
	Intents       []string
	TraceLog      []statex.TraceEntry
}

// ValidateQuery rejects unusable input before the pipeline starts.
func ValidateQuery(in GraphInput) (*statex.Context, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, contractx.ErrEmptyQuery
	}
	return statex.NewContext(query), nil
}

// Finalize projects the completed context onto the caller-visible result.
func Finalize(c *statex.Context) (GraphOutput, error) {
	if c == nil || !c.Completed {
		return GraphOutput{}, contractx.ErrValidation
	}
	return GraphOutput{
		FinalResponse: c.FinalResponse,
		Intents:       c.Intents,
		TraceLog:      c.TraceLog,
	}, nil
}

package nodes

import (
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

type Stage string

const (
	StageClassifier Stage = "classifier"
	StageDataPlan   Stage = "data_plan"
	StageSynthesis  Stage = "synthesis"
	StageDone       Stage = "done"
)

// Next is the workflow transition function. It is total over its inputs; the
// default transition is the data-planning stage.
func Next(stage Stage, c *statex.Context) Stage {
	switch stage {
	case StageClassifier:
		// A negotiation case without an identifier has nothing to fetch:
		// synthesis must ask for the missing customer ID.
		if c != nil && c.NegotiationRequired && c.CustomerID == nil {
			return StageSynthesis
		}
		return StageDataPlan
	case StageDataPlan:
		return StageSynthesis
	case StageSynthesis, StageDone:
		return StageDone
	default:
		return StageDataPlan
	}
}

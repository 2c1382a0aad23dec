package nodes

import (
	"testing"

	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

func TestNextRoutesNegotiationWithoutIDToSynthesis(t *testing.T) {
	t.Parallel()

	c := statex.NewContext("cancel and billing")
	c.NegotiationRequired = true

	if got := Next(StageClassifier, c); got != StageSynthesis {
		t.Fatalf("Next() = %s, want %s", got, StageSynthesis)
	}

	c.SetCustomerID(4)
	if got := Next(StageClassifier, c); got != StageDataPlan {
		t.Fatalf("with id resolved, Next() = %s, want %s", got, StageDataPlan)
	}
}

func TestNextIsTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stage Stage
		want  Stage
	}{
		{StageClassifier, StageDataPlan},
		{StageDataPlan, StageSynthesis},
		{StageSynthesis, StageDone},
		{StageDone, StageDone},
		{Stage("bogus"), StageDataPlan},
	}
	for _, tt := range tests {
		if got := Next(tt.stage, statex.NewContext("q")); got != tt.want {
			t.Fatalf("Next(%s) = %s, want %s", tt.stage, got, tt.want)
		}
	}

	// A nil context must not panic.
	if got := Next(StageClassifier, nil); got != StageDataPlan {
		t.Fatalf("Next(classifier, nil) = %s, want %s", got, StageDataPlan)
	}
}

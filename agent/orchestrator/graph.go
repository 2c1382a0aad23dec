package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/nodes"
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

func (o *Orchestrator) compileWorkflowGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_query",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*statex.Context, error) {
			return nodex.ValidateQuery(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_query: %w", err)
	}

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, in *statex.Context) (*statex.Context, error) {
			return nodex.Classify(ctx, in, o.reasoner)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode("fetch_data",
		compose.InvokableLambda(func(ctx context.Context, in *statex.Context) (*statex.Context, error) {
			return nodex.FetchData(ctx, in, o.reasoner, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node fetch_data: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize",
		compose.InvokableLambda(func(ctx context.Context, in *statex.Context) (*statex.Context, error) {
			return nodex.Synthesize(ctx, in, o.reasoner, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *statex.Context) (nodex.GraphOutput, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *statex.Context) (string, error) {
			if nodex.Next(nodex.StageClassifier, in) == nodex.StageSynthesis {
				return "synthesize", nil
			}
			return "fetch_data", nil
		},
		map[string]bool{
			"fetch_data": true,
			"synthesize": true,
		},
	)

	if err := graph.AddEdge(compose.START, "validate_query"); err != nil {
		return nil, fmt.Errorf("add edge start->validate_query: %w", err)
	}
	if err := graph.AddEdge("validate_query", "classify"); err != nil {
		return nil, fmt.Errorf("add edge validate_query->classify: %w", err)
	}
	if err := graph.AddBranch("classify", branch); err != nil {
		return nil, fmt.Errorf("add branch after classify: %w", err)
	}
	if err := graph.AddEdge("fetch_data", "synthesize"); err != nil {
		return nil, fmt.Errorf("add edge fetch_data->synthesize: %w", err)
	}
	if err := graph.AddEdge("synthesize", "finalize"); err != nil {
		return nil, fmt.Errorf("add edge synthesize->finalize: %w", err)
	}
	if err := graph.AddEdge("finalize", compose.END); err != nil {
		return nil, fmt.Errorf("add edge finalize->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("workflow.run_query"))
	if err != nil {
		return nil, fmt.Errorf("compile workflow graph: %w", err)
	}
	return runner, nil
}

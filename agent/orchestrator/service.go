// Package orchestrator exposes the workflow engine's sole public operation:
// run one raw support query through classification, data planning, and
// response synthesis.
package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
	nodex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/nodes"
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

// Result carries the observable fields of a finished request context.
type Result struct {
	FinalResponse string
	Intents       []string
	TraceLog      []statex.TraceEntry
}

type Orchestrator struct {
	store    contractx.RecordStore
	reasoner contractx.Reasoner

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(store contractx.RecordStore, reasoner contractx.Reasoner) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}
	if reasoner == nil {
		return nil, errors.New("reasoner is required")
	}

	o := &Orchestrator{
		store:    store,
		reasoner: reasoner,
	}

	graphRunner, err := o.compileWorkflowGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Run executes one request end to end. A fresh context is created per call;
// the engine keeps no state between requests.
func (o *Orchestrator) Run(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, contractx.ErrEmptyQuery
	}

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{Query: query})
	if err != nil {
		return Result{}, err
	}
	return Result{
		FinalResponse: out.FinalResponse,
		Intents:       out.Intents,
		TraceLog:      out.TraceLog,
	}, nil
}

package reasoner

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// compileStructuredGraph builds the structured-output attempt for one adapter
// operation: prompt -> model -> JSON parse into T.
func compileStructuredGraph[T any](
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, T], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add structured prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add structured model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add structured parser node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add structured edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add structured edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add structured edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add structured edge parse->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile structured graph: %w", err)
	}
	return runner, nil
}

// compileTextGraph builds the raw text channel used for synthesis output and
// for the one lenient recovery attempt after a malformed structured response.
func compileTextGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add text prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add text model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add text edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add text edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add text edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile text graph: %w", err)
	}
	return runner, nil
}

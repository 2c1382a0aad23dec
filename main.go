package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/orchestrator"
	"github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/reasoner"
	configx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/pkg/config"
	_ "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/pkg/logger/autoload"
	"github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/store"
)

type scenario struct {
	name  string
	query string
}

var scenarios = []scenario{
	{"Task allocation", "I need help with my account, customer ID 1"},
	{"Negotiation / escalation", "I want to cancel my subscription but I'm having billing issues"},
	{"Multi-step coordination", "What's the status of all high-priority tickets for premium customers?"},
	{"Simple query", "Get customer information for ID 5"},
	{"Coordinated query", "I'm customer 12345 and need help upgrading my account"},
	{"Urgent billing", "I'm customer 2 and was charged twice, I need a refund immediately!"},
}

func main() {
	ctx := context.Background()

	storeCfg := configx.MustNew[store.Config]("STORE")
	recordStore := store.Open(*storeCfg)
	defer recordStore.Close()

	if err := recordStore.CreateTables(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	if err := recordStore.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	engine, err := orchestrator.New(recordStore, reasoner.Default(ctx))
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}

	for _, sc := range scenarios {
		runScenario(ctx, engine, sc)
	}
}

func runScenario(ctx context.Context, engine *orchestrator.Orchestrator, sc scenario) {
	fmt.Printf("\n=== %s ===\nQUERY: %s\n", sc.name, sc.query)

	result, err := engine.Run(ctx, sc.query)
	if err != nil {
		log.Error().Err(err).Str("scenario", sc.name).Msg("run failed")
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}

	fmt.Printf("INTENTS: %v\n\n--- trace ---\n", result.Intents)
	for _, entry := range result.TraceLog {
		fmt.Printf("  [%s -> %s] %s\n", entry.Sender, entry.Receiver, entry.Content)
	}
	fmt.Printf("\n--- response ---\n%s\n", result.FinalResponse)
}

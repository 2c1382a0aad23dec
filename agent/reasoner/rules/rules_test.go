package rules

import (
	"strings"
	"testing"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
)

func TestClassifyKeywordTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		intents []string
		urgency contractx.Urgency
	}{
		{
			name:    "cancel plus billing",
			query:   "I want to cancel my subscription but I'm having billing issues",
			intents: []string{contractx.IntentCancelSubscription, contractx.IntentBillingIssue},
			urgency: contractx.UrgencyHigh,
		},
		{
			name:    "charged twice",
			query:   "I was charged twice, I need a refund immediately!",
			intents: []string{contractx.IntentBillingIssue},
			urgency: contractx.UrgencyHigh,
		},
		{
			name:    "account help",
			query:   "I need help with my account",
			intents: []string{contractx.IntentAccountHelp},
			urgency: contractx.UrgencyNormal,
		},
		{
			name:    "customer info",
			query:   "Get customer information for ID 5",
			intents: []string{contractx.IntentSimpleCustomerInfo},
			urgency: contractx.UrgencyNormal,
		},
		{
			name:    "high priority report",
			query:   "What's the status of all high-priority tickets for premium customers?",
			intents: []string{contractx.IntentHighPriorityReport, contractx.IntentPremiumCustomers},
			urgency: contractx.UrgencyNormal,
		},
		{
			name:    "upgrade",
			query:   "I'm customer 12345 and need help upgrading my account",
			intents: []string{contractx.IntentUpgradeAccount},
			urgency: contractx.UrgencyNormal,
		},
		{
			name:    "unrecognized",
			query:   "hello there",
			intents: []string{contractx.IntentGeneralSupport},
			urgency: contractx.UrgencyNormal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cls := Classify(tt.query)
			if len(cls.Intents) != len(tt.intents) {
				t.Fatalf("intents = %v, want %v", cls.Intents, tt.intents)
			}
			for i, want := range tt.intents {
				if cls.Intents[i] != want {
					t.Fatalf("intents = %v, want %v", cls.Intents, tt.intents)
				}
			}
			if cls.Urgency != tt.urgency {
				t.Fatalf("urgency = %s, want %s", cls.Urgency, tt.urgency)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	query := "cancel my subscription, billing problem, update my email"
	first := Classify(query)
	for i := 0; i < 10; i++ {
		if got := Classify(query); strings.Join(got.Intents, ",") != strings.Join(first.Intents, ",") {
			t.Fatalf("intent order changed: %v vs %v", got.Intents, first.Intents)
		}
	}
}

func TestPlan(t *testing.T) {
	t.Parallel()

	if plan := Plan(nil); len(plan.Operations) != 0 {
		t.Fatalf("plan without id must be empty, got %+v", plan)
	}

	id := 5
	plan := Plan(&id)
	if len(plan.Operations) != 1 {
		t.Fatalf("expected one operation, got %d", len(plan.Operations))
	}
	op := plan.Operations[0]
	if op.Action != contractx.ActionGetCustomer || op.CustomerID == nil || *op.CustomerID != 5 {
		t.Fatalf("unexpected operation: %+v", op)
	}
}

func TestSynthesizeNegotiationAsksForID(t *testing.T) {
	t.Parallel()

	out := Synthesize(contractx.ContextSummary{NegotiationRequired: true})
	if !strings.Contains(strings.ToLower(out), "customer id") {
		t.Fatalf("negotiation template must ask for the id: %q", out)
	}
}

func TestSynthesizeEmbedsIdentifiers(t *testing.T) {
	t.Parallel()

	id := 5
	out := Synthesize(contractx.ContextSummary{
		CustomerID: &id,
		Customer: &contractx.CustomerSummary{
			ID: 5, Name: "Emma Wilson", Email: "emma@example.com", Status: "active",
		},
		Tickets: []contractx.TicketSummary{
			{TicketID: 51, CustomerID: 5, CustomerName: "Emma Wilson", Description: "slow dashboard", Status: "open", Priority: "medium"},
		},
		CreatedTicketID: 99,
	})

	for _, needle := range []string{"5", "Emma Wilson", "51", "99"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("output missing %q: %q", needle, out)
		}
	}
}

func TestSynthesizeNotFound(t *testing.T) {
	t.Parallel()

	id := 12345
	out := Synthesize(contractx.ContextSummary{CustomerID: &id, CustomerNotFound: true})
	if !strings.Contains(out, "12345") {
		t.Fatalf("not-found message must echo the id: %q", out)
	}
}

func TestSynthesizeEmptyHistory(t *testing.T) {
	t.Parallel()

	out := Synthesize(contractx.ContextSummary{TicketsFetched: true})
	if !strings.Contains(strings.ToLower(out), "no matching tickets") {
		t.Fatalf("expected the empty-history message, got %q", out)
	}
}

func TestSynthesizeNeverEmpty(t *testing.T) {
	t.Parallel()

	if out := Synthesize(contractx.ContextSummary{}); strings.TrimSpace(out) == "" {
		t.Fatal("template output must never be empty")
	}
}

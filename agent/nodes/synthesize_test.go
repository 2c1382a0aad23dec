package nodes

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

func TestSynthesizeNegotiationWithoutIDAsksForIt(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := statex.NewContext("cancel and billing")
	c.Intents = []string{contractx.IntentCancelSubscription, contractx.IntentBillingIssue}
	c.NegotiationRequired = true

	c, err := Synthesize(context.Background(), c, &fakeReasoner{synth: "should not be used"}, store)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !c.Completed {
		t.Fatal("context not completed")
	}
	if len(store.created) != 0 {
		t.Fatal("no ticket may be opened while the identifier is missing")
	}
	if !strings.Contains(strings.ToLower(c.FinalResponse), "customer id") {
		t.Fatalf("response must ask for the id: %q", c.FinalResponse)
	}
}

func TestSynthesizeOpensEscalationTicket(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := statex.NewContext("charged twice, cancel everything")
	c.SetCustomerID(2)
	c.Intents = []string{contractx.IntentCancelSubscription, contractx.IntentBillingIssue}
	c.Urgency = contractx.UrgencyHigh
	c.CustomerRecord = &contractx.CustomerRecord{Found: true, ID: 2, Name: "Bob Smith", Status: "active"}

	c, err := Synthesize(context.Background(), c, &fakeReasoner{down: true}, store)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one ticket, got %d", len(store.created))
	}
	if store.created[0].priority != "high" {
		t.Fatalf("priority = %q, want high", store.created[0].priority)
	}
	if !strings.Contains(c.FinalResponse, "42") {
		t.Fatalf("response must carry the ticket id: %q", c.FinalResponse)
	}
}

func TestSynthesizeNoTicketForNormalUrgency(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := statex.NewContext("question about my bill")
	c.SetCustomerID(2)
	c.Intents = []string{contractx.IntentBillingIssue}
	c.Urgency = contractx.UrgencyNormal
	c.CustomerRecord = &contractx.CustomerRecord{Found: true, ID: 2, Name: "Bob Smith", Status: "active"}

	c, err := Synthesize(context.Background(), c, &fakeReasoner{down: true}, store)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("normal-urgency billing question must not open a ticket, got %d", len(store.created))
	}
}

func TestSynthesizeRetriesOnceWhenIdentifiersMissing(t *testing.T) {
	t.Parallel()

	c := statex.NewContext("info for id 5")
	c.SetCustomerID(5)
	c.CustomerRecord = &contractx.CustomerRecord{Found: true, ID: 5, Name: "Emma Wilson", Status: "active"}

	reasoner := &fakeReasoner{
		synthOutputs: []string{
			"Here is some vague text without any identifiers.",
			"Customer 5, Emma Wilson, is active.",
		},
	}

	c, err := Synthesize(context.Background(), c, reasoner, &fakeStore{})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if reasoner.synthCalls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", reasoner.synthCalls)
	}
	if !strings.Contains(c.FinalResponse, "5") {
		t.Fatalf("retried response missing id: %q", c.FinalResponse)
	}
}

func TestSynthesizeAcceptsSecondAttemptAsIs(t *testing.T) {
	t.Parallel()

	c := statex.NewContext("info for id 5")
	c.SetCustomerID(5)
	c.CustomerRecord = &contractx.CustomerRecord{Found: true, ID: 5, Name: "Emma Wilson", Status: "active"}

	reasoner := &fakeReasoner{
		synthOutputs: []string{
			"Vague text, attempt one.",
			"Still vague, attempt two.",
		},
	}

	c, err := Synthesize(context.Background(), c, reasoner, &fakeStore{})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if reasoner.synthCalls != 2 {
		t.Fatalf("retry must be bounded to one, got %d calls", reasoner.synthCalls)
	}
	if c.FinalResponse != "Still vague, attempt two." {
		t.Fatalf("second attempt not accepted as-is: %q", c.FinalResponse)
	}
}

func TestSynthesizeTicketFailureDegrades(t *testing.T) {
	t.Parallel()

	store := &fakeStore{createErr: contractx.ErrStoreUnavailable}
	c := statex.NewContext("charged twice, refund now")
	c.SetCustomerID(2)
	c.Intents = []string{contractx.IntentBillingIssue}
	c.Urgency = contractx.UrgencyHigh
	c.CustomerRecord = &contractx.CustomerRecord{Found: true, ID: 2, Name: "Bob Smith", Status: "active"}

	c, err := Synthesize(context.Background(), c, &fakeReasoner{down: true}, store)
	if err != nil {
		t.Fatalf("ticket failure must not abort synthesis: %v", err)
	}
	if c.CreatedTicketID != 0 {
		t.Fatalf("no ticket id should be recorded, got %d", c.CreatedTicketID)
	}
	if !c.Completed || c.FinalResponse == "" {
		t.Fatal("a response must still be produced")
	}
}

func TestSynthesizeAppendsCreatedTicketID(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := statex.NewContext("charged twice")
	c.SetCustomerID(2)
	c.Intents = []string{contractx.IntentBillingIssue}
	c.Urgency = contractx.UrgencyHigh
	c.CustomerRecord = &contractx.CustomerRecord{Found: true, ID: 2, Name: "Bob Smith", Status: "active"}

	// The reasoner mentions the customer but forgets the ticket it opened.
	reasoner := &fakeReasoner{synth: "Bob Smith (customer 2), our billing team will reach out."}

	c, err := Synthesize(context.Background(), c, reasoner, store)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !strings.Contains(c.FinalResponse, "Your ticket ID is 42") {
		t.Fatalf("ticket id not appended: %q", c.FinalResponse)
	}
}

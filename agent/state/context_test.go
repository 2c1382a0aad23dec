package state

import (
	"errors"
	"testing"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
)

func TestSetCustomerIDFirstWriteWins(t *testing.T) {
	t.Parallel()

	c := NewContext("q")
	c.SetCustomerID(5)
	c.SetCustomerID(9)

	if c.CustomerID == nil || *c.CustomerID != 5 {
		t.Fatalf("customer id = %v, want 5", c.CustomerID)
	}
}

func TestCompleteTwiceFails(t *testing.T) {
	t.Parallel()

	c := NewContext("q")
	if err := c.Complete("first"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := c.Complete("second"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation on double completion, got %v", err)
	}
	if c.FinalResponse != "first" {
		t.Fatalf("second completion overwrote response: %q", c.FinalResponse)
	}
}

func TestAppendTracePreservesOrder(t *testing.T) {
	t.Parallel()

	c := NewContext("q")
	c.AppendTrace("a", "b", "one")
	c.AppendTrace("b", "c", "two")

	if len(c.TraceLog) != 2 {
		t.Fatalf("trace length = %d", len(c.TraceLog))
	}
	if c.TraceLog[0].Content != "one" || c.TraceLog[1].Content != "two" {
		t.Fatalf("trace out of order: %+v", c.TraceLog)
	}
}

func TestTier(t *testing.T) {
	t.Parallel()

	c := NewContext("q")
	if got := c.Tier(); got != "unknown" {
		t.Fatalf("tier without record = %q", got)
	}

	c.CustomerRecord = &contractx.CustomerRecord{Found: true, Status: "active"}
	if got := c.Tier(); got != "premium" {
		t.Fatalf("tier for active = %q", got)
	}

	c.CustomerRecord = &contractx.CustomerRecord{Found: true, Status: "disabled"}
	if got := c.Tier(); got != "standard" {
		t.Fatalf("tier for disabled = %q", got)
	}
}

func TestSummarizeProjectsPopulatedFields(t *testing.T) {
	t.Parallel()

	c := NewContext("what is going on")
	c.SetCustomerID(3)
	c.Intents = []string{contractx.IntentBillingIssue}
	c.Urgency = contractx.UrgencyHigh
	c.CustomerRecord = &contractx.CustomerRecord{
		Found: true, ID: 3, Name: "Carol Diaz", Email: "carol@example.com", Status: "active",
	}
	c.TicketHistory = []contractx.Ticket{
		{TicketID: 31, CustomerID: 3, Description: "broken login", Status: "open", Priority: "high"},
	}
	c.TicketsFetched = true

	sum := c.Summarize()
	if sum.Query != "what is going on" {
		t.Fatalf("query = %q", sum.Query)
	}
	if sum.Customer == nil || sum.Customer.ID != 3 || sum.Customer.Tier != "premium" {
		t.Fatalf("customer summary = %+v", sum.Customer)
	}
	if len(sum.Tickets) != 1 || sum.Tickets[0].TicketID != 31 {
		t.Fatalf("ticket summary = %+v", sum.Tickets)
	}
	if !sum.TicketsFetched {
		t.Fatal("TicketsFetched not projected")
	}
}

func TestSummarizeNotFoundRecord(t *testing.T) {
	t.Parallel()

	c := NewContext("q")
	c.SetCustomerID(12345)
	c.CustomerRecord = &contractx.CustomerRecord{Found: false}

	sum := c.Summarize()
	if sum.Customer != nil {
		t.Fatalf("not-found record must not produce a summary: %+v", sum.Customer)
	}
	if !sum.CustomerNotFound {
		t.Fatal("CustomerNotFound not set")
	}
}

func TestSummarizeIntentsAreCopied(t *testing.T) {
	t.Parallel()

	c := NewContext("q")
	c.Intents = []string{contractx.IntentBillingIssue}

	sum := c.Summarize()
	sum.Intents[0] = "mutated"
	if c.Intents[0] != contractx.IntentBillingIssue {
		t.Fatal("summary shares the intents slice with the context")
	}
}

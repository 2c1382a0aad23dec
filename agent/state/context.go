package state

import (
	"fmt"
	"slices"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
)

// TraceEntry is one inter-stage decision in the audit trail. Entries are
// immutable once appended and never reordered.
type TraceEntry struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

// Context is the per-request record that flows through the pipeline. It is
// created fresh for every incoming query, mutated in place by each stage, and
// discarded once the response is returned. Field absence is expressed through
// explicit optionality (nil pointer / nil slice), never through map lookups.
type Context struct {
	// Query is the raw input text. Immutable once set.
	Query string

	// Extracted once by classification; authoritative for the rest of the
	// request. Stages must not override a non-nil CustomerID.
	CustomerID     *int
	RequestedEmail string

	Intents []string
	Urgency contractx.Urgency

	// NegotiationRequired is set when intents indicate both cancellation and a
	// billing complaint: synthesis must not answer until an identifier exists.
	NegotiationRequired bool

	CustomerRecord *contractx.CustomerRecord
	CustomerList   []contractx.CustomerRecord
	TicketHistory  []contractx.Ticket
	// TicketsFetched distinguishes "history fetched, zero rows" from "history
	// never requested".
	TicketsFetched bool

	// CreatedTicketID holds the identifier of a ticket opened by synthesis.
	CreatedTicketID int64

	FinalResponse string
	Completed     bool

	TraceLog []TraceEntry
}

func NewContext(query string) *Context {
	return &Context{Query: query}
}

// AppendTrace records one inter-stage decision.
func (c *Context) AppendTrace(sender, receiver, content string) {
	c.TraceLog = append(c.TraceLog, TraceEntry{
		Sender:   sender,
		Receiver: receiver,
		Content:  content,
	})
}

// SetCustomerID records the extracted identifier. A second call with a
// different value is ignored: the first extraction is authoritative.
func (c *Context) SetCustomerID(id int) {
	if c.CustomerID != nil {
		return
	}
	c.CustomerID = &id
}

// Complete sets the final response and the completed flag together. Calling it
// twice is a contract violation.
func (c *Context) Complete(response string) error {
	if c.Completed {
		return fmt.Errorf("%w: context already completed", contractx.ErrValidation)
	}
	c.FinalResponse = response
	c.Completed = true
	return nil
}

func (c *Context) HasIntent(tag string) bool {
	return slices.Contains(c.Intents, tag)
}

// Tier derives the non-authoritative customer tier label used in trace text.
func (c *Context) Tier() string {
	switch {
	case c.CustomerRecord == nil || !c.CustomerRecord.Found:
		return "unknown"
	case c.CustomerRecord.Status == "active":
		return "premium"
	default:
		return "standard"
	}
}

// Scenario derives a descriptive label from the classified intents. It exists
// for trace and log text only; routing decisions are made from the negotiation
// flag and urgency, not from this label.
func (c *Context) Scenario() string {
	switch {
	case c.HasIntent(contractx.IntentHighPriorityReport) || c.HasIntent(contractx.IntentOpenTicketReport):
		return "multi_step"
	case c.HasIntent(contractx.IntentCancelSubscription) && c.HasIntent(contractx.IntentBillingIssue):
		return "escalation"
	case c.HasIntent(contractx.IntentSimpleCustomerInfo) || c.HasIntent(contractx.IntentAccountHelp):
		return "task_allocation"
	case c.HasIntent(contractx.IntentUpdateEmail) && c.HasIntent(contractx.IntentTicketHistory):
		return "multi_intent"
	default:
		return "coordinated"
	}
}

// Summarize projects the populated fields into the reduced form handed to the
// reasoner. Raw records never cross the adapter boundary.
func (c *Context) Summarize() contractx.ContextSummary {
	sum := contractx.ContextSummary{
		Query:               c.Query,
		Intents:             slices.Clone(c.Intents),
		Urgency:             c.Urgency,
		CustomerID:          c.CustomerID,
		RequestedEmail:      c.RequestedEmail,
		NegotiationRequired: c.NegotiationRequired,
		TicketsFetched:      c.TicketsFetched,
		CreatedTicketID:     c.CreatedTicketID,
	}

	if c.CustomerRecord != nil {
		if c.CustomerRecord.Found {
			sum.Customer = &contractx.CustomerSummary{
				ID:     c.CustomerRecord.ID,
				Name:   c.CustomerRecord.Name,
				Email:  c.CustomerRecord.Email,
				Status: c.CustomerRecord.Status,
				Tier:   c.Tier(),
			}
		} else {
			sum.CustomerNotFound = true
		}
	}

	for _, rec := range c.CustomerList {
		sum.Customers = append(sum.Customers, contractx.CustomerSummary{
			ID:     rec.ID,
			Name:   rec.Name,
			Email:  rec.Email,
			Status: rec.Status,
		})
	}

	for _, t := range c.TicketHistory {
		sum.Tickets = append(sum.Tickets, contractx.TicketSummary{
			TicketID:     t.TicketID,
			CustomerID:   t.CustomerID,
			CustomerName: t.CustomerName,
			Description:  t.Description,
			Status:       t.Status,
			Priority:     t.Priority,
		})
	}

	return sum
}

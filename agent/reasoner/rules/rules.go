// Package rules holds the deterministic procedures the reasoning adapter
// degrades to when the reasoning service is unavailable or returns malformed
// output. They are pure functions over text and context summaries, so the
// business rules stay testable without any reasoning backend.
package rules

import (
	"fmt"
	"strings"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
)

// intentPhrases maps recognized phrasings to intent tags. Order matters: tags
// are appended in table order so classification output is reproducible.
var intentPhrases = []struct {
	tag     string
	phrases []string
}{
	{contractx.IntentUpgradeAccount, []string{"upgrade"}},
	{contractx.IntentCancelSubscription, []string{"cancel"}},
	{contractx.IntentBillingIssue, []string{"billing", "charged twice", "refund"}},
	{contractx.IntentUpdateEmail, []string{"update my email", "change my email", "new email"}},
	{contractx.IntentTicketHistory, []string{"ticket history"}},
	{contractx.IntentHighPriorityReport, []string{"high-priority tickets", "high priority tickets"}},
	{contractx.IntentOpenTicketReport, []string{"open tickets"}},
	{contractx.IntentPremiumCustomers, []string{"premium customers"}},
	{contractx.IntentSimpleCustomerInfo, []string{"get customer information", "get customer info"}},
	{contractx.IntentAccountHelp, []string{"help with my account"}},
}

var urgencyPhrases = []string{"charged twice", "refund", "immediately", "urgent", "billing"}

// Classify is the rule-based classification table. The result always carries
// at least one intent; general_support is the default tag.
func Classify(text string) contractx.Classification {
	q := strings.ToLower(text)

	var intents []string
	for _, row := range intentPhrases {
		for _, phrase := range row.phrases {
			if strings.Contains(q, phrase) {
				intents = append(intents, row.tag)
				break
			}
		}
	}
	if len(intents) == 0 {
		intents = append(intents, contractx.IntentGeneralSupport)
	}

	urgency := contractx.UrgencyNormal
	for _, phrase := range urgencyPhrases {
		if strings.Contains(q, phrase) {
			urgency = contractx.UrgencyHigh
			break
		}
	}

	return contractx.Classification{
		Intents:   intents,
		Urgency:   urgency,
		Rationale: "keyword match",
	}
}

// Plan is the conservative planning fallback: fetch the one identified record,
// or nothing at all.
func Plan(customerID *int) contractx.DataPlan {
	if customerID == nil {
		return contractx.DataPlan{}
	}
	return contractx.DataPlan{
		Operations: []contractx.DataOperation{
			{Action: contractx.ActionGetCustomer, CustomerID: customerID},
		},
	}
}

// Synthesize renders a templated response keyed by which summary fields are
// populated. The output is never empty and always embeds the identifiers the
// summary carries, so it survives the synthesis sanity check.
func Synthesize(sum contractx.ContextSummary) string {
	var parts []string

	if sum.NegotiationRequired && sum.CustomerID == nil {
		return "I can help with your cancellation and billing issue, but I first need your customer ID to locate your account. Could you share it?"
	}

	if sum.Customer != nil {
		parts = append(parts, fmt.Sprintf(
			"Here is the information we have on file for customer #%d:\n- Name: %s\n- Email: %s\n- Status: %s",
			sum.Customer.ID, sum.Customer.Name, sum.Customer.Email, sum.Customer.Status))
	} else if sum.CustomerNotFound && sum.CustomerID != nil {
		parts = append(parts, fmt.Sprintf(
			"I could not find a customer record for ID %d. Please double-check the identifier.", *sum.CustomerID))
	}

	switch {
	case len(sum.Tickets) > 0:
		lines := []string{fmt.Sprintf("Found %d matching tickets:", len(sum.Tickets))}
		for _, t := range sum.Tickets {
			owner := t.CustomerName
			if owner == "" {
				owner = fmt.Sprintf("Customer %d", t.CustomerID)
			}
			lines = append(lines, fmt.Sprintf(
				"- Ticket %d | %s (ID: %d) | %s | priority=%s | %s",
				t.TicketID, owner, t.CustomerID, t.Status, t.Priority, t.Description))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	case sum.TicketsFetched:
		parts = append(parts, "No matching tickets were found.")
	}

	if len(sum.Customers) > 0 && len(sum.Tickets) == 0 {
		lines := []string{fmt.Sprintf("Retrieved %d customers:", len(sum.Customers))}
		for _, c := range sum.Customers {
			lines = append(lines, fmt.Sprintf("- %s (ID: %d, status: %s)", c.Name, c.ID, c.Status))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if sum.RequestedEmail != "" && containsIntent(sum.Intents, contractx.IntentUpdateEmail) {
		parts = append(parts, fmt.Sprintf("I have updated your email address to %s.", sum.RequestedEmail))
	}

	if sum.CreatedTicketID != 0 {
		parts = append(parts, fmt.Sprintf(
			"A high-priority ticket has been created for our billing team. Your ticket ID is %d.", sum.CreatedTicketID))
	}

	if len(parts) == 0 {
		return "I am here to help. Could you please provide more details about your issue?"
	}
	return strings.Join(parts, "\n\n")
}

func containsIntent(intents []string, tag string) bool {
	for _, it := range intents {
		if it == tag {
			return true
		}
	}
	return false
}

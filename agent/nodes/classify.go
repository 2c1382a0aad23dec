package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
	"github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/reasoner/rules"
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

// Classify extracts structured signals from the raw query: customer id and
// email deterministically, intents and urgency through the reasoner. The node
// is idempotent; a context that already carries intents passes through
// untouched.
func Classify(ctx context.Context, c *statex.Context, reasoner contractx.Reasoner) (*statex.Context, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: context is nil", contractx.ErrValidation)
	}
	if len(c.Intents) > 0 {
		return c, nil
	}

	if id := ExtractCustomerID(c.Query); id != nil {
		c.SetCustomerID(*id)
	}
	c.RequestedEmail = ExtractEmail(c.Query)

	cls, err := reasoner.Classify(ctx, c.Query)
	if err != nil || len(cls.Intents) == 0 {
		log.Warn().Err(err).Msg("classification degraded to keyword rules")
		cls = rules.Classify(c.Query)
	}
	c.Intents = cls.Intents
	c.Urgency = cls.Urgency
	if c.Urgency == "" {
		c.Urgency = contractx.UrgencyNormal
	}

	// Explicit urgency phrasings override whatever the reasoner decided.
	q := strings.ToLower(c.Query)
	if strings.Contains(q, "refund immediately") || strings.Contains(q, "charged twice") {
		c.Urgency = contractx.UrgencyHigh
	}

	c.AppendTrace(participantClassifier, participantOrchestrator, fmt.Sprintf(
		"Parsed query. scenario=%s intents=%v customer_id=%s email=%q urgency=%s",
		c.Scenario(), c.Intents, formatID(c.CustomerID), c.RequestedEmail, c.Urgency))

	if c.HasIntent(contractx.IntentCancelSubscription) && c.HasIntent(contractx.IntentBillingIssue) {
		c.NegotiationRequired = true
		c.AppendTrace(participantClassifier, participantSupport,
			"Detected cancellation combined with a billing complaint; customer context must be resolved before answering.")
	}

	return c, nil
}

func formatID(id *int) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

package nodes

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/contract"
	"github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/reasoner/rules"
	statex "github.com/yuhsuanko/Multi-Agent-Customer-Service-System-with-A2A-and-MCP/agent/state"
)

const defaultListLimit = 200

// FetchData asks the reasoner which record-store operations the request needs
// and executes them sequentially, merging every result into the context.
// Item-level failures (one customer's history in a list) are logged and
// skipped; a store failure on a primary fetch aborts the pipeline, because no
// honest response can be produced without the data.
func FetchData(
	ctx context.Context,
	c *statex.Context,
	reasoner contractx.Reasoner,
	store contractx.RecordStore,
) (*statex.Context, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: context is nil", contractx.ErrValidation)
	}

	plan, err := reasoner.PlanDataNeeds(ctx, c.Query, c.Summarize())
	if err != nil {
		log.Warn().Err(err).Msg("data planning degraded to conservative rules")
		plan = rules.Plan(c.CustomerID)
	}

	historyFetched := false
	for _, op := range plan.Operations {
		switch op.Action {
		case contractx.ActionGetCustomer:
			if err := fetchCustomer(ctx, c, store, op); err != nil {
				return nil, err
			}
		case contractx.ActionListCustomers:
			if err := listCustomers(ctx, c, store, op); err != nil {
				return nil, err
			}
		case contractx.ActionGetHistory:
			if err := fetchHistory(ctx, c, store, op); err != nil {
				return nil, err
			}
			historyFetched = true
		case contractx.ActionUpdateFields:
			updateCustomer(ctx, c, store, op)
		default:
			log.Warn().Str("action", string(op.Action)).Msg("plan contains unknown action, skipped")
		}
	}

	// A plan may request history as a flag on top of a list instead of an
	// explicit operation.
	if plan.NeedHistory && !historyFetched && len(c.CustomerList) > 0 {
		if err := fetchHistory(ctx, c, store, contractx.DataOperation{Action: contractx.ActionGetHistory}); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func fetchCustomer(ctx context.Context, c *statex.Context, store contractx.RecordStore, op contractx.DataOperation) error {
	id := op.CustomerID
	if id == nil {
		id = c.CustomerID
	}
	if id == nil {
		c.AppendTrace(participantDataAgent, participantOrchestrator,
			"Skipped customer fetch: no identifier available.")
		return nil
	}

	rec, err := store.GetCustomer(ctx, *id)
	if err != nil {
		return fmt.Errorf("%w: get customer %d: %v", contractx.ErrStoreUnavailable, *id, err)
	}
	c.CustomerRecord = &rec
	c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
		"Fetched customer info for id=%d, found=%t, status=%s, tier=%s.",
		*id, rec.Found, rec.Status, c.Tier()))
	return nil
}

func listCustomers(ctx context.Context, c *statex.Context, store contractx.RecordStore, op contractx.DataOperation) error {
	limit := op.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	recs, err := store.ListCustomers(ctx, op.StatusFilter, limit)
	if err != nil {
		return fmt.Errorf("%w: list customers: %v", contractx.ErrStoreUnavailable, err)
	}
	c.CustomerList = recs
	c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
		"Fetched %d customers (status=%q).", len(recs), op.StatusFilter))
	return nil
}

// fetchHistory loads ticket history: for a single identified customer when no
// list is present, otherwise once per listed customer. Filters are applied
// after retrieval; the store only supports coarse lookups.
func fetchHistory(ctx context.Context, c *statex.Context, store contractx.RecordStore, op contractx.DataOperation) error {
	priorityFilter, statusFilter := historyFilters(c, op)

	if len(c.CustomerList) == 0 {
		id := op.CustomerID
		if id == nil {
			id = c.CustomerID
		}
		if id == nil {
			c.AppendTrace(participantDataAgent, participantOrchestrator,
				"Skipped history fetch: no identifier available.")
			return nil
		}
		history, err := store.GetHistory(ctx, *id)
		if err != nil {
			return fmt.Errorf("%w: history for customer %d: %v", contractx.ErrStoreUnavailable, *id, err)
		}
		c.TicketHistory = filterTickets(history, priorityFilter, statusFilter)
		c.TicketsFetched = true
		c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
			"Fetched %d tickets for customer id=%d.", len(c.TicketHistory), *id))
		return nil
	}

	tickets := collectListHistory(ctx, c, store, priorityFilter, statusFilter)
	c.TicketHistory = tickets
	c.TicketsFetched = true
	c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
		"Fetched %d matching tickets across %d customers (priority=%q status=%q).",
		len(tickets), len(c.CustomerList), priorityFilter, statusFilter))
	return nil
}

// collectListHistory fetches history for every listed customer, one
// outstanding call per record, and merges the results in stable list order so
// the output is reproducible regardless of completion order.
func collectListHistory(
	ctx context.Context,
	c *statex.Context,
	store contractx.RecordStore,
	priorityFilter, statusFilter string,
) []contractx.Ticket {
	type fetchResult struct {
		tickets []contractx.Ticket
		err     error
	}
	results := make([]fetchResult, len(c.CustomerList))

	var wg sync.WaitGroup
	for i, rec := range c.CustomerList {
		wg.Add(1)
		go func(i int, customerID int) {
			defer wg.Done()
			history, err := store.GetHistory(ctx, customerID)
			results[i] = fetchResult{tickets: history, err: err}
		}(i, rec.ID)
	}
	wg.Wait()

	var merged []contractx.Ticket
	for i, rec := range c.CustomerList {
		if results[i].err != nil {
			// Item-level failure: skip this customer, keep the rest.
			log.Warn().Err(results[i].err).Int("customer_id", rec.ID).Msg("history fetch failed, skipped")
			c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
				"History fetch failed for customer id=%d; skipped.", rec.ID))
			continue
		}
		for _, t := range filterTickets(results[i].tickets, priorityFilter, statusFilter) {
			t.CustomerID = rec.ID
			t.CustomerName = rec.Name
			merged = append(merged, t)
		}
	}
	return merged
}

func updateCustomer(ctx context.Context, c *statex.Context, store contractx.RecordStore, op contractx.DataOperation) {
	id := op.CustomerID
	if id == nil {
		id = c.CustomerID
	}

	fields := op.Fields
	if len(fields) == 0 && c.RequestedEmail != "" && c.HasIntent(contractx.IntentUpdateEmail) {
		fields = map[string]string{"email": c.RequestedEmail}
	}

	// Missing target or empty field data means nothing was requested.
	if id == nil || len(fields) == 0 {
		c.AppendTrace(participantDataAgent, participantOrchestrator,
			"Skipped update: no target identifier or no field data.")
		return
	}

	updated, err := store.UpdateCustomer(ctx, *id, fields)
	if err != nil {
		log.Warn().Err(err).Int("customer_id", *id).Msg("customer update failed, skipped")
		c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
			"Update failed for customer id=%d; skipped.", *id))
		return
	}
	c.AppendTrace(participantDataAgent, participantOrchestrator, fmt.Sprintf(
		"Updated customer id=%d, fields=%v, applied=%t.", *id, fieldNames(fields), updated))
}

// historyFilters resolves the post-retrieval ticket filters, falling back to
// the classified report intents when the plan did not specify any.
func historyFilters(c *statex.Context, op contractx.DataOperation) (priority, status string) {
	priority = op.PriorityFilter
	status = op.StatusFilter
	if priority == "" && status == "" {
		if c.HasIntent(contractx.IntentHighPriorityReport) {
			priority = "high"
		}
		if c.HasIntent(contractx.IntentOpenTicketReport) {
			status = "open"
		}
	}
	return priority, status
}

func filterTickets(tickets []contractx.Ticket, priority, status string) []contractx.Ticket {
	if priority == "" && status == "" {
		return tickets
	}
	var kept []contractx.Ticket
	for _, t := range tickets {
		if priority != "" && t.Priority != priority {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

func fieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

package contract

import "context"

// Reasoner is the adapter boundary over the external reasoning service.
// Implementations are expected to degrade internally (recovery attempt, then
// deterministic rules) rather than fail; a non-nil error means the caller
// should fall back to the rule tables itself.
type Reasoner interface {
	Classify(ctx context.Context, text string) (Classification, error)
	PlanDataNeeds(ctx context.Context, text string, summary ContextSummary) (DataPlan, error)
	Synthesize(ctx context.Context, summary ContextSummary) (string, error)
}

// RecordStore is the persistence boundary for customer and ticket records.
type RecordStore interface {
	GetCustomer(ctx context.Context, customerID int) (CustomerRecord, error)
	ListCustomers(ctx context.Context, status string, limit int) ([]CustomerRecord, error)
	UpdateCustomer(ctx context.Context, customerID int, fields map[string]string) (bool, error)
	CreateTicket(ctx context.Context, customerID int, description string, priority string) (int64, error)
	GetHistory(ctx context.Context, customerID int) ([]Ticket, error)
}

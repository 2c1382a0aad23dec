package contract

import "time"

type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Intent tags produced by classification. The set is open-ended; these are the
// tags the deterministic rule tables know about.
const (
	IntentUpgradeAccount     = "upgrade_account"
	IntentCancelSubscription = "cancel_subscription"
	IntentBillingIssue       = "billing_issue"
	IntentUpdateEmail        = "update_email"
	IntentTicketHistory      = "ticket_history"
	IntentHighPriorityReport = "high_priority_report"
	IntentOpenTicketReport   = "open_ticket_report"
	IntentPremiumCustomers   = "premium_customers"
	IntentSimpleCustomerInfo = "simple_customer_info"
	IntentAccountHelp        = "account_help"
	IntentGeneralSupport     = "general_support"
)

// Classification is the result of analyzing a raw query.
type Classification struct {
	Intents   []string `json:"intents"`
	Urgency   Urgency  `json:"urgency"`
	Rationale string   `json:"rationale,omitempty"`
}

type Action string

const (
	ActionGetCustomer   Action = "get_customer"
	ActionListCustomers Action = "list_customers"
	ActionGetHistory    Action = "get_customer_history"
	ActionUpdateFields  Action = "update_customer"
)

// DataOperation is one record-store operation a plan asks for.
type DataOperation struct {
	Action         Action            `json:"action"`
	CustomerID     *int              `json:"customer_id,omitempty"`
	StatusFilter   string            `json:"status_filter,omitempty"`
	PriorityFilter string            `json:"priority_filter,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// DataPlan is the ordered set of store operations to run before synthesis.
// NeedHistory marks plans that want per-customer ticket history on top of a
// customer list.
type DataPlan struct {
	Operations  []DataOperation `json:"operations"`
	NeedHistory bool            `json:"need_history,omitempty"`
}

// CustomerRecord mirrors one row of the customers table. Found is false when
// the lookup missed; the remaining fields are then zero.
type CustomerRecord struct {
	Found     bool      `json:"found"`
	ID        int       `json:"id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Ticket is one support ticket. CustomerName is attached when the ticket was
// collected through a customer list, so report output can name the owner.
type Ticket struct {
	TicketID     int64     `json:"ticket_id"`
	CustomerID   int       `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerSummary is the reduced view of a record handed to the reasoner.
type CustomerSummary struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status"`
	Tier   string `json:"tier,omitempty"`
}

// TicketSummary is the reduced view of a ticket handed to the reasoner.
type TicketSummary struct {
	TicketID     int64  `json:"ticket_id"`
	CustomerID   int    `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
}

// ContextSummary is the serialized projection of the populated Context fields.
// It is the only shape the reasoner ever sees; the engine's internal
// representations never cross this boundary.
type ContextSummary struct {
	Query               string            `json:"query"`
	Intents             []string          `json:"intents,omitempty"`
	Urgency             Urgency           `json:"urgency,omitempty"`
	CustomerID          *int              `json:"customer_id,omitempty"`
	RequestedEmail      string            `json:"requested_email,omitempty"`
	Customer            *CustomerSummary  `json:"customer,omitempty"`
	CustomerNotFound    bool              `json:"customer_not_found,omitempty"`
	Customers           []CustomerSummary `json:"customers,omitempty"`
	Tickets             []TicketSummary   `json:"tickets,omitempty"`
	TicketsFetched      bool              `json:"tickets_fetched,omitempty"`
	NegotiationRequired bool              `json:"negotiation_required,omitempty"`
	CreatedTicketID     int64             `json:"created_ticket_id,omitempty"`
}

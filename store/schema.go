package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateTables creates the customers and tickets tables when absent.
func (s *Store) CreateTables(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if _, err := s.db.NewCreateTable().
		Model((*Customer)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}

	if _, err := s.db.NewCreateTable().
		Model((*Ticket)(nil)).
		IfNotExists().
		ForeignKey(`("customer_id") REFERENCES "customers" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}

	return nil
}

// Seed inserts demo customers and tickets. It is a no-op when the customers
// table already has rows, so repeated startups stay idempotent.
func (s *Store) Seed(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	count, err := s.db.NewSelect().Model((*Customer)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if count > 0 {
		return nil
	}

	customers := []Customer{
		{Name: "Alice Johnson", Email: "alice.johnson@example.com", Phone: "+1-555-0101", Status: "active"},
		{Name: "Bob Smith", Email: "bob.smith@example.com", Phone: "+1-555-0102", Status: "active"},
		{Name: "Carol Diaz", Email: "carol.diaz@example.com", Phone: "+1-555-0103", Status: "disabled"},
		{Name: "David Lee", Email: "david.lee@example.com", Phone: "+1-555-0104", Status: "active"},
		{Name: "Emma Wilson", Email: "emma.wilson@example.com", Phone: "+1-555-0105", Status: "active"},
	}
	tickets := []Ticket{
		{CustomerID: 1, Issue: "Cannot log in after password reset", Status: "open", Priority: "high"},
		{CustomerID: 1, Issue: "Question about invoice line items", Status: "closed", Priority: "low"},
		{CustomerID: 2, Issue: "Double charge on monthly subscription", Status: "open", Priority: "high"},
		{CustomerID: 4, Issue: "Feature request: export to CSV", Status: "open", Priority: "medium"},
		{CustomerID: 5, Issue: "Slow dashboard loading", Status: "in_progress", Priority: "medium"},
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&customers).Exec(ctx); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
		if _, err := tx.NewInsert().Model(&tickets).Exec(ctx); err != nil {
			return fmt.Errorf("seed tickets: %w", err)
		}
		return nil
	})
	return err
}

package store

import (
	"context"
	"strings"
	"testing"
	"time"
)

// newDisconnectedStore builds a store whose connection is never dialed; only
// code paths that fail before reaching the database may run against it.
func newDisconnectedStore() *Store {
	return Open(Config{DSN: "postgres://user:pw@localhost:1/unused?sslmode=disable", Timeout: time.Second})
}

func TestUpdateCustomerRejectsEmptyFields(t *testing.T) {
	t.Parallel()

	s := newDisconnectedStore()
	_, err := s.UpdateCustomer(context.Background(), 1, nil)
	if err == nil {
		t.Fatal("expected error for empty field set")
	}
}

func TestUpdateCustomerRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	s := newDisconnectedStore()
	_, err := s.UpdateCustomer(context.Background(), 1, map[string]string{"password": "hunter2"})
	if err == nil {
		t.Fatal("expected error when no field survives the allow-list")
	}
	if !strings.Contains(err.Error(), "allowed") {
		t.Fatalf("error should name the allow-list: %v", err)
	}
}

func TestUpdateCustomerRejectsInvalidStatus(t *testing.T) {
	t.Parallel()

	s := newDisconnectedStore()
	_, err := s.UpdateCustomer(context.Background(), 1, map[string]string{"status": "banned"})
	if err == nil {
		t.Fatal("expected error for invalid status value")
	}
}

func TestCreateTicketRejectsInvalidPriority(t *testing.T) {
	t.Parallel()

	s := newDisconnectedStore()
	_, err := s.CreateTicket(context.Background(), 1, "broken", "critical")
	if err == nil {
		t.Fatal("expected error for invalid priority")
	}
	if !strings.Contains(err.Error(), "priority") {
		t.Fatalf("error should name the priority: %v", err)
	}
}

func TestToRecordMapsAllFields(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	rec := toRecord(Customer{
		ID:        5,
		Name:      "Emma Wilson",
		Email:     "emma.wilson@example.com",
		Phone:     "+1-555-0105",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	})

	if !rec.Found {
		t.Fatal("mapped record must be marked found")
	}
	if rec.ID != 5 || rec.Name != "Emma Wilson" || rec.Status != "active" {
		t.Fatalf("unexpected mapping: %+v", rec)
	}
	if !rec.CreatedAt.Equal(now) || !rec.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not carried over: %+v", rec)
	}
}

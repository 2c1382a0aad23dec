package nodes

import "testing"

func TestExtractCustomerID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
		none  bool
	}{
		{name: "explicit customer id", query: "I need help with my account, customer ID 1", want: 1},
		{name: "customer then number", query: "I'm customer 12345 and need help upgrading", want: 12345},
		{name: "id prefix", query: "Get customer information for ID 5", want: 5},
		{name: "id with colon", query: "my id: 77 please", want: 77},
		{name: "bare number with disambiguator", query: "customer 9 was charged twice", want: 9},
		{name: "bare number without disambiguator", query: "I was charged 200 dollars", none: true},
		{name: "no number at all", query: "I want to cancel my subscription", none: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractCustomerID(tt.query)
			if tt.none {
				if got != nil {
					t.Fatalf("expected no id, got %d", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected an id, got none")
			}
			if *got != tt.want {
				t.Fatalf("id = %d, want %d", *got, tt.want)
			}
		})
	}
}

func TestExtractEmail(t *testing.T) {
	t.Parallel()

	if got := ExtractEmail("update my email to jane.doe@example.com thanks"); got != "jane.doe@example.com" {
		t.Fatalf("email = %q", got)
	}
	if got := ExtractEmail("no address here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

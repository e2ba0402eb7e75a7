package interest

import (
	"strings"
	"testing"
)

func TestInterestValidate(t *testing.T) {
	t.Parallel()

	base := Interest{ID: "i1", LeagueID: "l1", Name: "Sam Rivera", Email: "sam@example.com"}
	tests := []struct {
		name    string
		mutate  func(*Interest)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Interest) {}},
		{name: "missing league", mutate: func(i *Interest) { i.LeagueID = " " }, wantErr: true},
		{name: "missing name", mutate: func(i *Interest) { i.Name = "" }, wantErr: true},
		{name: "bad email", mutate: func(i *Interest) { i.Email = "not-an-email" }, wantErr: true},
		{name: "phone at limit", mutate: func(i *Interest) { i.Phone = strings.Repeat("1", MaxPhoneLength) }},
		{name: "phone too long", mutate: func(i *Interest) { i.Phone = strings.Repeat("1", MaxPhoneLength+1) }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item := base
			tt.mutate(&item)
			err := item.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Sam@Example.COM "); got != "sam@example.com" {
		t.Fatalf("NormalizeEmail()=%q", got)
	}
}

// internal/application/filter_test.go

package application

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func sampleApps() []Application {
	day := 24 * time.Hour
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Application{
		{FullName: "Asha Rao", CompanyName: "Rao Textiles", Email: "asha@rao.ae", Status: StatusApproved, MembershipType: MembershipFounding, CreatedAt: base.Add(3 * day)},
		{FullName: "Vikram Shah", CompanyName: "Shah Logistics", Email: "vik@shah.ae", Status: StatusPending, MembershipType: MembershipAnnual, CreatedAt: base.Add(2 * day)},
		{FullName: "Meera Nair", CompanyName: "Nair Foods", Email: "meera@nair.ae", Status: StatusApproved, MembershipType: MembershipAnnual, CreatedAt: base.Add(1 * day)},
		{FullName: "Dev Patel", CompanyName: "Patel Ventures", Email: "dev@patel.ae", Status: StatusRejected, MembershipType: MembershipFounding, CreatedAt: base},
	}
}

func TestFilterAllPredicatesAnd(t *testing.T) {
	got := Filter{Status: "approved", Membership: "founding"}.Apply(sampleApps())
	if len(got) != 1 || got[0].FullName != "Asha Rao" {
		t.Fatalf("expected only Asha Rao, got %+v", got)
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	apps := sampleApps()

	// Matches against name, company, or email.
	for _, q := range []string{"MEERA", "nair foods", "meera@nair.ae"} {
		got := Filter{Query: q}.Apply(apps)
		if len(got) != 1 || got[0].FullName != "Meera Nair" {
			t.Fatalf("query %q: expected Meera Nair, got %+v", q, got)
		}
	}
}

func TestFilterAllKeywordMatchesEverything(t *testing.T) {
	apps := sampleApps()
	if got := (Filter{Status: "all", Membership: "all"}).Apply(apps); len(got) != len(apps) {
		t.Fatalf("expected %d records, got %d", len(apps), len(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	got := Filter{Membership: "annual"}.Apply(sampleApps())
	if len(got) != 2 || got[0].FullName != "Vikram Shah" || got[1].FullName != "Meera Nair" {
		t.Fatalf("expected newest-first order preserved, got %+v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	apps := []Application{{
		FullName:        `Asha "AR" Rao`,
		CompanyName:     "Rao, Textiles",
		Role:            "Founder",
		Industry:        "Retail",
		YearsInBusiness: 7,
		Email:           "asha@rao.ae",
		Mobile:          "+971501234567",
		BusinessStage:   "growing",
		MembershipType:  "annual",
		Status:          StatusPending,
		CreatedAt:       time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, apps); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != `"Full Name","Company","Role","Industry","Years in Business","Email","Mobile","Business Stage","Membership Type","Status","Applied Date"` {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	want := `"Asha ""AR"" Rao","Rao, Textiles","Founder","Retail","7","asha@rao.ae","+971501234567","growing","annual","pending","2026-03-04"`
	if lines[1] != want {
		t.Fatalf("row mismatch:\n got %s\nwant %s", lines[1], want)
	}
}

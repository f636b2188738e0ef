// internal/application/schema_test.go
//
// Schema rules: first-failure ordering, trimming, years parsing, and the
// fixed message wording.

package application

import (
	"strings"
	"testing"
)

// wellFormed returns a submission that passes every rule.
func wellFormed() *Submission {
	return &Submission{
		FullName:             "Asha Rao",
		CompanyName:          "Rao Textiles",
		Role:                 "Founder",
		Industry:             "Retail",
		YearsInBusiness:      7,
		Mobile:               "+971501234567",
		Email:                "asha@raotextiles.com",
		BusinessDescription:  "B2B textile sourcing.",
		BusinessStage:        "growing",
		WhyJoin:              "Network",
		WhatToGain:           "Mentorship",
		HowContribute:        "Supplier connections",
		MembershipType:       "annual",
		WillingToParticipate: true,
		UnderstandsCurated:   true,
		ConfirmAccurate:      true,
	}
}

func TestValidateWellFormed(t *testing.T) {
	if fe := wellFormed().Validate(false); fe != nil {
		t.Fatalf("expected valid submission, got %v", fe)
	}
	if fe := wellFormed().Validate(true); fe != nil {
		t.Fatalf("expected valid inquiry submission, got %v", fe)
	}
}

func TestValidateFirstFailureOnly(t *testing.T) {
	sub := wellFormed()
	sub.FullName = ""
	sub.CompanyName = "" // also invalid, but fullName is declared first

	fe := sub.Validate(false)
	if fe == nil {
		t.Fatal("expected a validation error")
	}
	if fe.Field != "fullName" || fe.Message != "Full name is required" {
		t.Fatalf("unexpected first failure: %+v", fe)
	}
}

func TestValidateMessages(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Submission)
		field   string
		message string
	}{
		{"company required", func(s *Submission) { s.CompanyName = "" }, "companyName", "Company name is required"},
		{"role required", func(s *Submission) { s.Role = "" }, "role", "Role is required"},
		{"mobile required", func(s *Submission) { s.Mobile = "" }, "mobile", "Mobile number is required"},
		{"description long", func(s *Submission) { s.BusinessDescription = strings.Repeat("x", 501) }, "businessDescription", "Business description must be 500 characters or less"},
		{"stage invalid", func(s *Submission) { s.BusinessStage = "mature" }, "businessStage", "Invalid business stage"},
		{"why-join required", func(s *Submission) { s.WhyJoin = "" }, "whyJoin", "This field is required"},
		{"why-join long", func(s *Submission) { s.WhyJoin = strings.Repeat("x", 1001) }, "whyJoin", "Must be 1000 characters or less"},
		{"membership invalid", func(s *Submission) { s.MembershipType = "lifetime" }, "membershipType", "Invalid membership type"},
		{"participate false", func(s *Submission) { s.WillingToParticipate = false }, "willingToParticipate", "You must agree to participate"},
		{"curated false", func(s *Submission) { s.UnderstandsCurated = false }, "understandsCurated", "You must acknowledge this"},
		{"declaration false", func(s *Submission) { s.ConfirmAccurate = false }, "confirmAccurate", "You must confirm the declaration"},
		{"stories invalid", func(s *Submission) { s.StoriesInterest = "never" }, "storiesInterest", "Invalid selection"},
		{"email invalid", func(s *Submission) { s.Email = "not-an-address" }, "email", "Valid email is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := wellFormed()
			tc.mutate(sub)
			fe := sub.Validate(false)
			if fe == nil {
				t.Fatal("expected a validation error")
			}
			if fe.Field != tc.field || fe.Message != tc.message {
				t.Fatalf("got %+v, want field %q message %q", fe, tc.field, tc.message)
			}
		})
	}
}

func TestValidateEmailRequiredForInquiry(t *testing.T) {
	sub := wellFormed()
	sub.Email = ""

	if fe := sub.Validate(false); fe != nil {
		t.Fatalf("member variant must not require email, got %v", fe)
	}

	fe := sub.Validate(true)
	if fe == nil || fe.Field != "email" || fe.Message != "Valid email is required" {
		t.Fatalf("inquiry variant must require email, got %v", fe)
	}
}

func TestNormalizeTrims(t *testing.T) {
	sub := wellFormed()
	sub.FullName = "  Asha Rao  "
	sub.WhyJoin = "\tNetwork\n"

	sub.Normalize()

	if sub.FullName != "Asha Rao" || sub.WhyJoin != "Network" {
		t.Fatalf("expected trimmed fields, got %q and %q", sub.FullName, sub.WhyJoin)
	}
}

func TestNormalizeWhitespaceOnlyFails(t *testing.T) {
	sub := wellFormed()
	sub.Industry = "   "
	sub.Normalize()

	fe := sub.Validate(false)
	if fe == nil || fe.Field != "industry" {
		t.Fatalf("whitespace-only industry must fail required, got %v", fe)
	}
}

func TestParseYears(t *testing.T) {
	if n, fe := ParseYears(" 7 "); fe != nil || n != 7 {
		t.Fatalf("ParseYears(7): got %d, %v", n, fe)
	}
	if n, fe := ParseYears("0"); fe != nil || n != 0 {
		t.Fatalf("ParseYears(0): got %d, %v", n, fe)
	}

	// Bad input is rejected, never coerced to 0.
	for _, raw := range []string{"", "abc", "-3", "7.5"} {
		n, fe := ParseYears(raw)
		if fe == nil {
			t.Fatalf("ParseYears(%q): expected rejection, got %d", raw, n)
		}
		if fe.Field != "yearsInBusiness" {
			t.Fatalf("ParseYears(%q): wrong field %q", raw, fe.Field)
		}
	}
}

// internal/notify/mailer_test.go
//
// Mailer tests against an httptest provider stub.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ibcgulf/circle/internal/application"
	"github.com/ibcgulf/circle/internal/config"
)

func testSubmission() *application.Submission {
	return &application.Submission{
		FullName:             "Asha Rao",
		CompanyName:          "Rao Textiles",
		Role:                 "Founder",
		Industry:             "Retail",
		YearsInBusiness:      7,
		Email:                "asha@raotextiles.com",
		Mobile:               "+971501234567",
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

func newTestMailer(endpoint string) *Mailer {
	return New(config.Mail{
		Endpoint:    endpoint,
		APIKey:      "test-key",
		From:        "IBC Membership <onboarding@ibcgulf.com>",
		To:          []string{"applications@ibcgulf.com"},
		ReplyTo:     "applications@ibcgulf.com",
		RatePerHour: 5,
	}, zap.NewNop())
}

func TestApplicationReceived(t *testing.T) {
	var got sendRequest
	var auth, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMailer(srv.URL)
	if err := m.ApplicationReceived(context.Background(), "203.0.113.7", testSubmission()); err != nil {
		t.Fatalf("ApplicationReceived: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("wrong Authorization header: %q", auth)
	}
	if path != "/emails" {
		t.Errorf("wrong path: %q", path)
	}
	if got.Subject != "New Application Received – IBC Gulf" {
		t.Errorf("wrong subject: %q", got.Subject)
	}
	if len(got.To) != 1 || got.To[0] != "applications@ibcgulf.com" {
		t.Errorf("wrong recipients: %v", got.To)
	}
	for _, want := range []string{"Asha Rao", "Rao Textiles", "Years in Business:</b> 7", "Website / LinkedIn:</b> N/A"} {
		if !strings.Contains(got.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestApplicationReceivedEscapesHTML(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sub := testSubmission()
	sub.FullName = `<script>alert("x")</script>`

	m := newTestMailer(srv.URL)
	if err := m.ApplicationReceived(context.Background(), "203.0.113.7", sub); err != nil {
		t.Fatalf("ApplicationReceived: %v", err)
	}

	if strings.Contains(got.HTML, "<script>") {
		t.Fatal("user input must be escaped in the mail body")
	}
	if !strings.Contains(got.HTML, "&lt;script&gt;") {
		t.Fatal("expected escaped markup in the mail body")
	}
}

func TestApplicationReceivedProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := newTestMailer(srv.URL)
	err := m.ApplicationReceived(context.Background(), "203.0.113.7", testSubmission())
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected provider status error, got %v", err)
	}
}

func TestApplicationReceivedRateLimited(t *testing.T) {
	var sent int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sent++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newTestMailer(srv.URL)
	for i := 0; i < 5; i++ {
		if err := m.ApplicationReceived(context.Background(), "203.0.113.7", testSubmission()); err != nil {
			t.Fatalf("dispatch %d: %v", i+1, err)
		}
	}

	err := m.ApplicationReceived(context.Background(), "203.0.113.7", testSubmission())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if sent != 5 {
		t.Fatalf("provider must not be called past the ceiling, got %d calls", sent)
	}
}

// internal/notify/mailer.go
//
// Outbound application-received email.
//
// Context
//   Every successful submission triggers one best-effort email to the
//   membership team through a Resend-compatible HTTP API.  The mailer is
//   fully decoupled from the pipeline: it receives a normalized
//   Submission, renders a fixed HTML summary with every user-supplied
//   value escaped, and POSTs it.  Failures are returned to the caller for
//   logging and metrics; nothing here retries.
//
// Workflow
//   •  New(cfg, log) builds the mailer with a pooled HTTP client and the
//      per-origin limiter.
//   •  ApplicationReceived checks the limiter, renders, and sends.
//
//------------------------------------------------------------------------------

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ibcgulf/circle/internal/application"
	"github.com/ibcgulf/circle/internal/config"
	"github.com/ibcgulf/circle/internal/metrics"
)

// ErrRateLimited signals the per-origin dispatch ceiling was hit.
var ErrRateLimited = errors.New("notify: rate limit exceeded")

const sendTimeout = 15 * time.Second

// Mailer sends application-received notifications.  It satisfies
// application.Notifier.
type Mailer struct {
	cfg     config.Mail
	client  *http.Client
	limiter *limiter
	log     *zap.Logger
}

func New(cfg config.Mail, log *zap.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		client:  &http.Client{Timeout: sendTimeout},
		limiter: newLimiter(cfg.RatePerHour),
		log:     log,
	}
}

// sendRequest is the provider wire format.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ApplicationReceived renders and sends one notification for sub.  origin
// is the submitting client's address; dispatches beyond the per-origin
// ceiling return ErrRateLimited without touching the provider.
func (m *Mailer) ApplicationReceived(ctx context.Context, origin string, sub *application.Submission) error {
	if !m.limiter.allow(origin) {
		metrics.NotifyRateLimitedTotal.Inc()
		m.log.Warn("notification rate limited", zap.String("origin", origin))
		return ErrRateLimited
	}

	body, err := json.Marshal(sendRequest{
		From:    m.cfg.From,
		To:      m.cfg.To,
		ReplyTo: m.cfg.ReplyTo,
		Subject: "New Application Received – IBC Gulf",
		HTML:    renderHTML(sub),
	})
	if err != nil {
		return fmt.Errorf("notify: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(m.cfg.Endpoint, "/")+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read keeps provider error text in the log without
		// trusting the response size.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notify: provider status %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// renderHTML builds the fixed summary body.  Every user-supplied value
// passes through html.EscapeString.
func renderHTML(sub *application.Submission) string {
	esc := html.EscapeString
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	website := sub.Website
	if website == "" {
		website = "N/A"
	}

	var sb strings.Builder
	sb.WriteString("<h1>New IBC Membership Inquiry</h1>\n")

	sb.WriteString("<h3>Applicant Details</h3>\n<ul>\n")
	fmt.Fprintf(&sb, "<li><b>Name:</b> %s</li>\n", esc(sub.FullName))
	fmt.Fprintf(&sb, "<li><b>Email:</b> %s</li>\n", esc(sub.Email))
	fmt.Fprintf(&sb, "<li><b>Mobile:</b> %s</li>\n", esc(sub.Mobile))
	fmt.Fprintf(&sb, "<li><b>Company:</b> %s</li>\n", esc(sub.CompanyName))
	fmt.Fprintf(&sb, "<li><b>Role:</b> %s</li>\n", esc(sub.Role))
	fmt.Fprintf(&sb, "<li><b>Industry:</b> %s</li>\n", esc(sub.Industry))
	fmt.Fprintf(&sb, "<li><b>Years in Business:</b> %d</li>\n", sub.YearsInBusiness)
	fmt.Fprintf(&sb, "<li><b>Website / LinkedIn:</b> %s</li>\n", esc(website))
	sb.WriteString("</ul>\n")

	sb.WriteString("<h3>Business Overview</h3>\n")
	fmt.Fprintf(&sb, "<p>%s</p>\n", esc(sub.BusinessDescription))

	sb.WriteString("<h3>Why IBC</h3>\n")
	fmt.Fprintf(&sb, "<p><b>Reason:</b> %s</p>\n", esc(sub.WhyJoin))
	fmt.Fprintf(&sb, "<p><b>Expected Gain:</b> %s</p>\n", esc(sub.WhatToGain))
	fmt.Fprintf(&sb, "<p><b>Contribution:</b> %s</p>\n", esc(sub.HowContribute))

	sb.WriteString("<h3>Engagement</h3>\n")
	fmt.Fprintf(&sb, "<p>Participate in Events: %s</p>\n", yesNo(sub.WillingToParticipate))
	fmt.Fprintf(&sb, "<p>Understands Curation: %s</p>\n", yesNo(sub.UnderstandsCurated))

	return sb.String()
}

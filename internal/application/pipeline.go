// internal/application/pipeline.go
//
// Submission pipeline: confirm gate → schema validation → insert →
// fire-and-forget notification.
//
// Context
//   The pipeline converts a completed wizard answer set into exactly one
//   persisted record.  Validation failures and duplicates are expected,
//   user-recoverable conditions; only the insert itself can produce a
//   transient storage error.  The notification attempt happens after the
//   insert commits, on its own goroutine with a detached context, and its
//   failure is logged but never rolls back the record or reaches the user.
//
// Workflow
//   •  SubmitApplication – authenticated flow, one record per member.
//   •  SubmitInquiry     – public flow, email collected in-form.
//
//------------------------------------------------------------------------------

package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ibcgulf/circle/internal/metrics"
)

// Notifier is the outbound mail side channel.  origin is the submitting
// client's network address, used for rate limiting.
type Notifier interface {
	ApplicationReceived(ctx context.Context, origin string, sub *Submission) error
}

// Pipeline wires the repository to the notifier.
type Pipeline struct {
	repo     *Repository
	notifier Notifier
	log      *zap.Logger
}

func NewPipeline(repo *Repository, notifier Notifier, log *zap.Logger) *Pipeline {
	return &Pipeline{repo: repo, notifier: notifier, log: log}
}

// notifyTimeout bounds the detached mail attempt.
const notifyTimeout = 30 * time.Second

// SubmitApplication validates sub and persists it for userID.
//
// Error contract: a *FieldError is user-recoverable and names the failing
// field, ErrAlreadyApplied redirects the caller to the status view, and
// anything else is a transient storage failure the user may retry.
func (p *Pipeline) SubmitApplication(ctx context.Context, userID int64, origin string, sub *Submission) (*Application, error) {
	if !sub.ConfirmAccurate {
		metrics.SubmissionRejectsTotal.Inc()
		return nil, &FieldError{
			Field:   "confirmAccurate",
			Message: "Please confirm that the information provided is accurate.",
		}
	}

	sub.Normalize()
	if fe := sub.Validate(false); fe != nil {
		metrics.SubmissionRejectsTotal.Inc()
		return nil, fe
	}

	app, err := p.repo.InsertApplication(ctx, userID, sub)
	if err != nil {
		if err == ErrAlreadyApplied {
			metrics.SubmissionDuplicatesTotal.Inc()
		}
		return nil, err
	}
	metrics.SubmissionsTotal.WithLabelValues("member").Inc()

	p.notifyAsync(origin, sub)
	return app, nil
}

// SubmitInquiry validates sub and persists it as a public inquiry.  Same
// contract as SubmitApplication minus the duplicate path.
func (p *Pipeline) SubmitInquiry(ctx context.Context, origin string, sub *Submission) (*Inquiry, error) {
	if !sub.ConfirmAccurate {
		metrics.SubmissionRejectsTotal.Inc()
		return nil, &FieldError{
			Field:   "confirmAccurate",
			Message: "Please confirm that the information provided is accurate.",
		}
	}

	sub.Normalize()
	if fe := sub.Validate(true); fe != nil {
		metrics.SubmissionRejectsTotal.Inc()
		return nil, fe
	}

	inq, err := p.repo.InsertInquiry(ctx, sub)
	if err != nil {
		return nil, err
	}
	metrics.SubmissionsTotal.WithLabelValues("inquiry").Inc()

	p.notifyAsync(origin, sub)
	return inq, nil
}

// notifyAsync dispatches the mail attempt on its own goroutine.  The
// request context is not used: the record is already committed, and the
// attempt must outlive the HTTP response.
func (p *Pipeline) notifyAsync(origin string, sub *Submission) {
	if p.notifier == nil {
		return
	}
	// Copy so the handler can reuse its Submission freely.
	s := *sub
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := p.notifier.ApplicationReceived(ctx, origin, &s); err != nil {
			metrics.NotifyErrorsTotal.Inc()
			p.log.Warn("notification dispatch failed",
				zap.String("applicant", s.Email),
				zap.Error(err))
			return
		}
		metrics.NotifySendTotal.Inc()
	}()
}

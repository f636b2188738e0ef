// internal/application/pipeline_test.go
//
// End-to-end pipeline behavior: confirm gate, exactly-once insert,
// duplicate handling, and the fire-and-forget notification.

package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// recordingNotifier captures dispatch calls on a channel so tests can wait
// for the detached goroutine.
type recordingNotifier struct {
	calls chan string // origin per call
	err   error
}

func (n *recordingNotifier) ApplicationReceived(_ context.Context, origin string, _ *Submission) error {
	n.calls <- origin
	return n.err
}

func newMockPipeline(t *testing.T) (*Pipeline, sqlmock.Sqlmock, *recordingNotifier) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	notifier := &recordingNotifier{calls: make(chan string, 1)}
	p := NewPipeline(NewRepository(sqlx.NewDb(db, "mysql")), notifier, zap.NewNop())
	return p, mock, notifier
}

// waitNotify blocks until the notifier fires or the test times out.
func waitNotify(t *testing.T, n *recordingNotifier) string {
	t.Helper()
	select {
	case origin := <-n.calls:
		return origin
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
		return ""
	}
}

func TestSubmitApplication(t *testing.T) {
	p, mock, notifier := newMockPipeline(t)

	mock.ExpectExec("INSERT INTO membership_application").
		WillReturnResult(sqlmock.NewResult(0, 1))

	app, err := p.SubmitApplication(context.Background(), 42, "203.0.113.7", wellFormed())
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}
	if app.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", app.Status)
	}

	if origin := waitNotify(t, notifier); origin != "203.0.113.7" {
		t.Fatalf("notification keyed by wrong origin: %s", origin)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSubmitApplicationTrimsBeforeInsert(t *testing.T) {
	p, mock, notifier := newMockPipeline(t)

	mock.ExpectExec("INSERT INTO membership_application").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sub := wellFormed()
	sub.FullName = "  Asha Rao  "

	app, err := p.SubmitApplication(context.Background(), 42, "203.0.113.7", sub)
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}
	if app.FullName != "Asha Rao" {
		t.Fatalf("expected trimmed name in record, got %q", app.FullName)
	}
	waitNotify(t, notifier)
}

func TestSubmitApplicationConfirmGate(t *testing.T) {
	p, mock, notifier := newMockPipeline(t)

	sub := wellFormed()
	sub.ConfirmAccurate = false

	_, err := p.SubmitApplication(context.Background(), 42, "203.0.113.7", sub)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "confirmAccurate" {
		t.Fatalf("expected confirm-gate FieldError, got %v", err)
	}
	if fe.Message != "Please confirm that the information provided is accurate." {
		t.Fatalf("unexpected message: %q", fe.Message)
	}

	// No insert, no notification.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL activity: %v", err)
	}
	select {
	case <-notifier.calls:
		t.Fatal("notification must not fire on a rejected submission")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmitApplicationValidationShortCircuits(t *testing.T) {
	p, mock, _ := newMockPipeline(t)

	sub := wellFormed()
	sub.Industry = ""

	_, err := p.SubmitApplication(context.Background(), 42, "203.0.113.7", sub)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "industry" {
		t.Fatalf("expected industry FieldError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL activity: %v", err)
	}
}

func TestSubmitApplicationDuplicate(t *testing.T) {
	p, mock, notifier := newMockPipeline(t)

	mock.ExpectExec("INSERT INTO membership_application").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := p.SubmitApplication(context.Background(), 42, "203.0.113.7", wellFormed())
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	select {
	case <-notifier.calls:
		t.Fatal("notification must not fire on a duplicate submission")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmitApplicationNotifyFailureAbsorbed(t *testing.T) {
	p, mock, notifier := newMockPipeline(t)
	notifier.err = errors.New("mail provider down")

	mock.ExpectExec("INSERT INTO membership_application").
		WillReturnResult(sqlmock.NewResult(0, 1))

	app, err := p.SubmitApplication(context.Background(), 42, "203.0.113.7", wellFormed())
	if err != nil {
		t.Fatalf("notify failure must not surface, got %v", err)
	}
	if app == nil {
		t.Fatal("record must persist despite notify failure")
	}
	waitNotify(t, notifier)
}

func TestSubmitInquiry(t *testing.T) {
	p, mock, notifier := newMockPipeline(t)

	mock.ExpectExec("INSERT INTO membership_inquiry").
		WillReturnResult(sqlmock.NewResult(0, 1))

	inq, err := p.SubmitInquiry(context.Background(), "203.0.113.7", wellFormed())
	if err != nil {
		t.Fatalf("SubmitInquiry: %v", err)
	}
	if inq.ID == "" {
		t.Fatal("expected a generated id")
	}
	waitNotify(t, notifier)
}

func TestSubmitInquiryRequiresEmail(t *testing.T) {
	p, mock, _ := newMockPipeline(t)

	sub := wellFormed()
	sub.Email = ""

	_, err := p.SubmitInquiry(context.Background(), "203.0.113.7", sub)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "email" {
		t.Fatalf("expected email FieldError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected SQL activity: %v", err)
	}
}

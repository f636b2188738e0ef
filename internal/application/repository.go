// internal/application/repository.go
//
// Storage access for applications and inquiries.
//
// Context
//   One-application-per-member is enforced by the UNIQUE KEY on
//   membership_application.user_id, not by a pre-check: concurrent
//   submissions race at the database, exactly one insert wins, and the
//   loser surfaces ErrAlreadyApplied (MySQL error 1062).  Status is the
//   only mutable column after insert.
//
// Notes
//   •  Queries use named parameters so the column list stays next to the
//      struct tags it mirrors.
//   •  All methods take context so HTTP timeouts propagate to the driver.
//
//------------------------------------------------------------------------------

package application

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrAlreadyApplied signals the owner already holds a record.
	ErrAlreadyApplied = errors.New("application already submitted")

	// ErrNotFound signals a status update against an unknown id.
	ErrNotFound = errors.New("application not found")
)

// Repository wraps the shared sqlx handle.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const insertApplicationSQL = `
INSERT INTO membership_application (
    id, user_id, full_name, company_name, role_designation, industry,
    years_in_business, website_or_linkedin, email, mobile_number,
    business_description, business_stage, reason_to_join, expected_gain,
    contribution_to_community, membership_type, participate_in_events,
    understands_curation, stories_interest, declaration_confirmed, status
) VALUES (
    :id, :user_id, :full_name, :company_name, :role_designation, :industry,
    :years_in_business, :website_or_linkedin, :email, :mobile_number,
    :business_description, :business_stage, :reason_to_join, :expected_gain,
    :contribution_to_community, :membership_type, :participate_in_events,
    :understands_curation, :stories_interest, :declaration_confirmed, :status
)`

// InsertApplication persists a new record for userID.  The returned
// Application carries the generated id and pending status.
func (r *Repository) InsertApplication(ctx context.Context, userID int64, sub *Submission) (*Application, error) {
	app := &Application{
		ID:                   uuid.NewString(),
		UserID:               userID,
		FullName:             sub.FullName,
		CompanyName:          sub.CompanyName,
		Role:                 sub.Role,
		Industry:             sub.Industry,
		YearsInBusiness:      sub.YearsInBusiness,
		Website:              nullable(sub.Website),
		Email:                sub.Email,
		Mobile:               sub.Mobile,
		BusinessDescription:  sub.BusinessDescription,
		BusinessStage:        sub.BusinessStage,
		WhyJoin:              sub.WhyJoin,
		WhatToGain:           sub.WhatToGain,
		HowContribute:        sub.HowContribute,
		MembershipType:       sub.MembershipType,
		WillingToParticipate: sub.WillingToParticipate,
		UnderstandsCurated:   sub.UnderstandsCurated,
		StoriesInterest:      nullable(sub.StoriesInterest),
		ConfirmAccurate:      sub.ConfirmAccurate,
		Status:               StatusPending,
		CreatedAt:            time.Now().UTC(),
	}

	if _, err := r.db.NamedExecContext(ctx, insertApplicationSQL, app); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	return app, nil
}

const insertInquirySQL = `
INSERT INTO membership_inquiry (
    id, full_name, company_name, role_designation, industry,
    years_in_business, website_or_linkedin, email, mobile_number,
    business_description, business_stage, reason_to_join, expected_gain,
    contribution_to_community, membership_type, participate_in_events,
    understands_curation, stories_interest, declaration_confirmed
) VALUES (
    :id, :full_name, :company_name, :role_designation, :industry,
    :years_in_business, :website_or_linkedin, :email, :mobile_number,
    :business_description, :business_stage, :reason_to_join, :expected_gain,
    :contribution_to_community, :membership_type, :participate_in_events,
    :understands_curation, :stories_interest, :declaration_confirmed
)`

// InsertInquiry persists a public inquiry.  Inquiries have no owner and no
// uniqueness constraint, so there is no duplicate path here.
func (r *Repository) InsertInquiry(ctx context.Context, sub *Submission) (*Inquiry, error) {
	inq := &Inquiry{
		ID:                   uuid.NewString(),
		FullName:             sub.FullName,
		CompanyName:          sub.CompanyName,
		Role:                 sub.Role,
		Industry:             sub.Industry,
		YearsInBusiness:      sub.YearsInBusiness,
		Website:              nullable(sub.Website),
		Email:                sub.Email,
		Mobile:               sub.Mobile,
		BusinessDescription:  sub.BusinessDescription,
		BusinessStage:        sub.BusinessStage,
		WhyJoin:              sub.WhyJoin,
		WhatToGain:           sub.WhatToGain,
		HowContribute:        sub.HowContribute,
		MembershipType:       sub.MembershipType,
		WillingToParticipate: sub.WillingToParticipate,
		UnderstandsCurated:   sub.UnderstandsCurated,
		StoriesInterest:      nullable(sub.StoriesInterest),
		ConfirmAccurate:      sub.ConfirmAccurate,
		CreatedAt:            time.Now().UTC(),
	}

	if _, err := r.db.NamedExecContext(ctx, insertInquirySQL, inq); err != nil {
		return nil, err
	}
	return inq, nil
}

// ByUser returns the record owned by userID, or (nil, nil) when the member
// has not applied yet.  This drives the duplicate guard on GET /apply.
func (r *Repository) ByUser(ctx context.Context, userID int64) (*Application, error) {
	var app Application
	err := r.db.GetContext(ctx, &app,
		`SELECT * FROM membership_application WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// All returns every application, newest first.
func (r *Repository) All(ctx context.Context) ([]Application, error) {
	var apps []Application
	err := r.db.SelectContext(ctx, &apps,
		`SELECT * FROM membership_application ORDER BY created_at DESC`)
	return apps, err
}

// UpdateStatus transitions one record.  Last write wins; there is no
// conflict detection between concurrent operators.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE membership_application SET status = ?, updated_at = NOW() WHERE id = ?`,
		status, id)
	if err != nil {
		return err
	}
	// The driver reports 0 affected rows both for a missing id and for a
	// no-op write (same status twice in one second), so confirm existence
	// before reporting ErrNotFound.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		err := r.db.GetContext(ctx, &exists,
			`SELECT 1 FROM membership_application WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// isDuplicateKey reports whether err is MySQL 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

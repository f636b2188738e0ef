// internal/application/model.go
//
// Domain entities for the membership pipeline.
//
// Context
//   An Application is the persisted record of one member's request to join
//   the circle.  It is created exactly once per user, holds a review status
//   that only operators may change, and is otherwise immutable.  An Inquiry
//   is the public-facing sibling: same field set, no owning user, no status
//   workflow.
//
//   Column names mirror docs/schema.sql so sqlx struct scanning needs no
//   aliases.
//
//------------------------------------------------------------------------------

package application

import (
	"database/sql"
	"time"
)

// Status is the operator-controlled review state of an Application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Business stages accepted by the schema.
const (
	StageEarly       = "early"
	StageGrowing     = "growing"
	StageEstablished = "established"
)

// Membership tiers accepted by the schema.
const (
	MembershipFounding = "founding"
	MembershipAnnual   = "annual"
)

// Application is the central persisted entity.  All fields except Status
// and UpdatedAt are write-once.
type Application struct {
	ID     string `db:"id"`      // UUID, generated at insert
	UserID int64  `db:"user_id"` // owning identity, unique

	FullName        string         `db:"full_name"`
	CompanyName     string         `db:"company_name"`
	Role            string         `db:"role_designation"`
	Industry        string         `db:"industry"`
	YearsInBusiness int            `db:"years_in_business"`
	Website         sql.NullString `db:"website_or_linkedin"`
	Email           string         `db:"email"`
	Mobile          string         `db:"mobile_number"`

	BusinessDescription string `db:"business_description"`
	BusinessStage       string `db:"business_stage"`

	WhyJoin       string `db:"reason_to_join"`
	WhatToGain    string `db:"expected_gain"`
	HowContribute string `db:"contribution_to_community"`

	MembershipType       string         `db:"membership_type"`
	WillingToParticipate bool           `db:"participate_in_events"`
	UnderstandsCurated   bool           `db:"understands_curation"`
	StoriesInterest      sql.NullString `db:"stories_interest"` // "yes", "maybe", or NULL
	ConfirmAccurate      bool           `db:"declaration_confirmed"`

	Status    Status       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"` // NULL until the first status change
}

// Inquiry mirrors Application for the unauthenticated flow.  Write-once,
// no owner, no status.
type Inquiry struct {
	ID string `db:"id"`

	FullName        string         `db:"full_name"`
	CompanyName     string         `db:"company_name"`
	Role            string         `db:"role_designation"`
	Industry        string         `db:"industry"`
	YearsInBusiness int            `db:"years_in_business"`
	Website         sql.NullString `db:"website_or_linkedin"`
	Email           string         `db:"email"`
	Mobile          string         `db:"mobile_number"`

	BusinessDescription string `db:"business_description"`
	BusinessStage       string `db:"business_stage"`

	WhyJoin       string `db:"reason_to_join"`
	WhatToGain    string `db:"expected_gain"`
	HowContribute string `db:"contribution_to_community"`

	MembershipType       string         `db:"membership_type"`
	WillingToParticipate bool           `db:"participate_in_events"`
	UnderstandsCurated   bool           `db:"understands_curation"`
	StoriesInterest      sql.NullString `db:"stories_interest"`
	ConfirmAccurate      bool           `db:"declaration_confirmed"`

	CreatedAt time.Time `db:"created_at"`
}

// nullable wraps an optional free-text value for storage.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

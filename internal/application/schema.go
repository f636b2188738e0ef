// internal/application/schema.go
//
// Authoritative validation schema for a complete submission.
//
// Context
//   Wizard steps enforce only per-step presence; this file is the single
//   place that decides whether an accumulated answer set is a valid
//   application.  Rules live as validator/v10 struct tags, and every rule
//   has a fixed user-facing message.  Validation short-circuits: callers
//   surface the FIRST violated rule only, so message wording here is load
//   bearing.
//
// Workflow
//   •  Submission mirrors the wizard answer set in typed form.
//   •  Normalize() trims every free-text field in place.
//   •  ParseYears converts the posted years string, rejecting non-numeric
//      or negative input outright (never coerced to 0).
//   •  Validate(requireEmail) runs the schema and maps the first failure
//      to a FieldError.
//
//------------------------------------------------------------------------------

package application

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError names the first violated rule so the form can re-render with
// an inline message.
type FieldError struct {
	Field   string // submission key, e.g. "fullName"
	Message string // user-facing message
}

func (fe *FieldError) Error() string { return fe.Field + ": " + fe.Message }

// Submission is the typed, complete answer set handed to the pipeline.
// Field order matters: validation reports the first failing field in
// declaration order.
type Submission struct {
	FullName        string `validate:"required,max=100"`
	CompanyName     string `validate:"required,max=200"`
	Role            string `validate:"required,max=100"`
	Industry        string `validate:"required,max=100"`
	YearsInBusiness int    `validate:"min=0"`
	Website         string `validate:"omitempty,max=255"`
	Email           string `validate:"omitempty,email,max=255"`
	Mobile          string `validate:"required,max=20"`

	BusinessDescription string `validate:"required,max=500"`
	BusinessStage       string `validate:"required,oneof=early growing established"`

	WhyJoin       string `validate:"required,max=1000"`
	WhatToGain    string `validate:"required,max=1000"`
	HowContribute string `validate:"required,max=1000"`

	MembershipType       string `validate:"required,oneof=founding annual"`
	WillingToParticipate bool   `validate:"eq=true"`
	UnderstandsCurated   bool   `validate:"eq=true"`
	StoriesInterest      string `validate:"omitempty,oneof=yes maybe"`
	ConfirmAccurate      bool   `validate:"eq=true"`
}

// schemaValidator is shared; validator instances cache struct metadata.
var schemaValidator = validator.New()

// fieldKeys maps struct fields to the submission keys templates use.
var fieldKeys = map[string]string{
	"FullName":             "fullName",
	"CompanyName":          "companyName",
	"Role":                 "role",
	"Industry":             "industry",
	"YearsInBusiness":      "yearsInBusiness",
	"Website":              "website",
	"Email":                "email",
	"Mobile":               "mobile",
	"BusinessDescription":  "businessDescription",
	"BusinessStage":        "businessStage",
	"WhyJoin":              "whyJoin",
	"WhatToGain":           "whatToGain",
	"HowContribute":        "howContribute",
	"MembershipType":       "membershipType",
	"WillingToParticipate": "willingToParticipate",
	"UnderstandsCurated":   "understandsCurated",
	"StoriesInterest":      "storiesInterest",
	"ConfirmAccurate":      "confirmAccurate",
}

// messages maps struct field → tag → user-facing message.  Wording is
// fixed; tests assert against these strings.
var messages = map[string]map[string]string{
	"FullName":             {"required": "Full name is required", "max": "Full name must be 100 characters or less"},
	"CompanyName":          {"required": "Company name is required", "max": "Company name must be 200 characters or less"},
	"Role":                 {"required": "Role is required", "max": "Role must be 100 characters or less"},
	"Industry":             {"required": "Industry is required", "max": "Industry must be 100 characters or less"},
	"YearsInBusiness":      {"min": "Years must be 0 or greater"},
	"Website":              {"max": "Website must be 255 characters or less"},
	"Email":                {"required": "Valid email is required", "email": "Valid email is required", "max": "Valid email is required"},
	"Mobile":               {"required": "Mobile number is required", "max": "Mobile number must be 20 characters or less"},
	"BusinessDescription":  {"required": "Business description is required", "max": "Business description must be 500 characters or less"},
	"BusinessStage":        {"required": "Business stage is required", "oneof": "Invalid business stage"},
	"WhyJoin":              {"required": "This field is required", "max": "Must be 1000 characters or less"},
	"WhatToGain":           {"required": "This field is required", "max": "Must be 1000 characters or less"},
	"HowContribute":        {"required": "This field is required", "max": "Must be 1000 characters or less"},
	"MembershipType":       {"required": "Membership type is required", "oneof": "Invalid membership type"},
	"WillingToParticipate": {"eq": "You must agree to participate"},
	"UnderstandsCurated":   {"eq": "You must acknowledge this"},
	"StoriesInterest":      {"oneof": "Invalid selection"},
	"ConfirmAccurate":      {"eq": "You must confirm the declaration"},
}

// Normalize trims every free-text field in place.  Call before Validate so
// whitespace-only input fails the required rules.
func (s *Submission) Normalize() {
	s.FullName = strings.TrimSpace(s.FullName)
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.Role = strings.TrimSpace(s.Role)
	s.Industry = strings.TrimSpace(s.Industry)
	s.Website = strings.TrimSpace(s.Website)
	s.Email = strings.TrimSpace(s.Email)
	s.Mobile = strings.TrimSpace(s.Mobile)
	s.BusinessDescription = strings.TrimSpace(s.BusinessDescription)
	s.WhyJoin = strings.TrimSpace(s.WhyJoin)
	s.WhatToGain = strings.TrimSpace(s.WhatToGain)
	s.HowContribute = strings.TrimSpace(s.HowContribute)
}

// ParseYears converts the posted years-in-business string.  Non-numeric or
// negative input is rejected; we never coerce bad input to 0.
func ParseYears(raw string) (int, *FieldError) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, &FieldError{
			Field:   "yearsInBusiness",
			Message: "Years in business must be a valid number (0 or greater).",
		}
	}
	return n, nil
}

// Validate runs the full schema over s and returns the first violated
// rule, or nil when the submission conforms.  requireEmail is true for the
// public inquiry variant, where email is collected in-form rather than
// taken from the session.
func (s *Submission) Validate(requireEmail bool) *FieldError {
	if requireEmail && s.Email == "" {
		return &FieldError{Field: "email", Message: messages["Email"]["required"]}
	}

	err := schemaValidator.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &FieldError{Field: "", Message: "Invalid submission"}
	}

	first := verrs[0]
	msg := messages[first.StructField()][first.Tag()]
	if msg == "" {
		msg = "Invalid value"
	}
	return &FieldError{Field: fieldKeys[first.StructField()], Message: msg}
}

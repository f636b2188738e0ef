// internal/wizard/state_test.go
//
// State machine gating across the six application steps.

package wizard

import (
	"testing"
)

// testDef mirrors the application wizard structure.
func testDef() *WizardDef {
	return &WizardDef{
		ID: "apply/application",
		Steps: []StepDef{
			{
				ID: "personal", Title: "Personal Details",
				ErrorMsg: "Please fill in all required fields.",
				Fields: []FieldDef{
					{Name: "fullName", Label: "Full Name", Type: "text", Required: true},
					{Name: "companyName", Label: "Company Name", Type: "text", Required: true},
					{Name: "role", Label: "Role", Type: "text", Required: true},
					{Name: "industry", Label: "Industry", Type: "text", Required: true},
					{Name: "yearsInBusiness", Label: "Years in Business", Type: "number", Required: true,
						ErrorMsg: "Years in business must be a valid number (0 or greater)."},
					{Name: "website", Label: "Website or LinkedIn", Type: "text"},
					{Name: "mobile", Label: "Mobile Number", Type: "text", Required: true},
				},
			},
			{
				ID: "business", Title: "Business Overview",
				ErrorMsg: "Please fill in all required fields.",
				Fields: []FieldDef{
					{Name: "businessDescription", Label: "Business Description", Type: "textarea", Required: true},
					{Name: "businessStage", Label: "Business Stage", Type: "select", Required: true,
						Options: []string{"early", "growing", "established"}},
				},
			},
			{
				ID: "fit", Title: "Community Fit",
				ErrorMsg: "Please fill in all required fields.",
				Fields: []FieldDef{
					{Name: "whyJoin", Label: "Why do you want to join?", Type: "textarea", Required: true},
					{Name: "whatToGain", Label: "What do you hope to gain?", Type: "textarea", Required: true},
					{Name: "howContribute", Label: "How will you contribute?", Type: "textarea", Required: true},
				},
			},
			{
				ID: "membership", Title: "Membership",
				ErrorMsg: "Please select a membership type.",
				Fields: []FieldDef{
					{Name: "membershipType", Label: "Membership Type", Type: "radio", Required: true,
						Options: []string{"founding", "annual"}},
				},
			},
			{
				ID: "commitment", Title: "Commitment",
				ErrorMsg: "Please confirm both commitments to continue.",
				Fields: []FieldDef{
					{Name: "willingToParticipate", Label: "Willing to participate", Type: "checkbox", Required: true},
					{Name: "understandsCurated", Label: "Understands curation", Type: "checkbox", Required: true},
					{Name: "storiesInterest", Label: "Open to sharing your story?", Type: "select",
						Options: []string{"yes", "maybe"}},
				},
			},
			{
				ID: "declaration", Title: "Declaration",
				ErrorMsg: "Please confirm that the information provided is accurate.",
				Fields: []FieldDef{
					{Name: "confirmAccurate", Label: "I confirm the information is accurate", Type: "checkbox", Required: true},
				},
			},
		},
	}
}

// fillStep0 populates the personal-details answers.
func fillStep0(s *State) {
	s.Set("fullName", "Asha Rao")
	s.Set("companyName", "Rao Textiles")
	s.Set("role", "Founder")
	s.Set("industry", "Retail")
	s.Set("yearsInBusiness", "7")
	s.Set("mobile", "+971501234567")
}

func TestAdvanceBlockedOnMissingFields(t *testing.T) {
	def := testDef()
	s := NewState()

	se := s.Advance(def)
	if se == nil {
		t.Fatal("expected empty step 0 to block")
	}
	if se.Message != "Please fill in all required fields." {
		t.Fatalf("unexpected message: %q", se.Message)
	}
	if s.StepIndex() != 0 {
		t.Fatalf("failed advance must not move the index, at %d", s.StepIndex())
	}
}

func TestAdvanceRejectsBadYears(t *testing.T) {
	def := testDef()
	s := NewState()
	fillStep0(s)

	for _, bad := range []string{"abc", "-3"} {
		s.Set("yearsInBusiness", bad)
		se := s.Advance(def)
		if se == nil {
			t.Fatalf("years %q must block advance", bad)
		}
		if se.Message != "Years in business must be a valid number (0 or greater)." {
			t.Fatalf("unexpected message: %q", se.Message)
		}
	}

	s.Set("yearsInBusiness", "0")
	if se := s.Advance(def); se != nil {
		t.Fatalf("years 0 must be accepted, got %v", se)
	}
}

func TestAdvanceStepMessages(t *testing.T) {
	def := testDef()
	s := NewState()
	fillStep0(s)

	if se := s.Advance(def); se != nil {
		t.Fatalf("step 0: %v", se)
	}

	// Step 1 empty.
	if se := s.Advance(def); se == nil || se.Message != "Please fill in all required fields." {
		t.Fatalf("step 1 message: %v", se)
	}
	s.Set("businessDescription", "B2B textile sourcing.")
	s.Set("businessStage", "growing")
	if se := s.Advance(def); se != nil {
		t.Fatalf("step 1: %v", se)
	}

	// Step 2 empty.
	s.Set("whyJoin", "Network")
	s.Set("whatToGain", "Mentorship")
	if se := s.Advance(def); se == nil || se.Field != "howContribute" {
		t.Fatalf("step 2 should block on howContribute, got %v", se)
	}
	s.Set("howContribute", "Supplier connections")
	if se := s.Advance(def); se != nil {
		t.Fatalf("step 2: %v", se)
	}

	// Step 3: membership.
	if se := s.Advance(def); se == nil || se.Message != "Please select a membership type." {
		t.Fatalf("step 3 message: %v", se)
	}
	s.Set("membershipType", "annual")
	if se := s.Advance(def); se != nil {
		t.Fatalf("step 3: %v", se)
	}

	// Step 4: both checkboxes.
	s.Set("willingToParticipate", "true")
	if se := s.Advance(def); se == nil || se.Message != "Please confirm both commitments to continue." {
		t.Fatalf("step 4 message: %v", se)
	}
	s.Set("understandsCurated", "true")
	if se := s.Advance(def); se != nil {
		t.Fatalf("step 4: %v", se)
	}

	if s.StepIndex() != 5 {
		t.Fatalf("expected final step index 5, at %d", s.StepIndex())
	}

	// Advancing from the last step stays there.
	s.Set("confirmAccurate", "true")
	if se := s.Advance(def); se != nil {
		t.Fatalf("final advance: %v", se)
	}
	if s.StepIndex() != 5 {
		t.Fatalf("index must cap at 5, at %d", s.StepIndex())
	}
}

func TestRetreat(t *testing.T) {
	def := testDef()
	s := NewState()
	fillStep0(s)

	if se := s.Advance(def); se != nil {
		t.Fatalf("advance: %v", se)
	}

	s.Retreat()
	if s.StepIndex() != 0 {
		t.Fatalf("expected step 0 after retreat, at %d", s.StepIndex())
	}
	if s.Get("fullName") != "Asha Rao" {
		t.Fatal("retreat must not clear answers")
	}

	// Floored at 0.
	s.Retreat()
	if s.StepIndex() != 0 {
		t.Fatalf("retreat must floor at 0, at %d", s.StepIndex())
	}
}

func TestSubmissionFromAnswers(t *testing.T) {
	s := NewState()
	fillStep0(s)
	s.Set("businessDescription", "B2B textile sourcing.")
	s.Set("businessStage", "growing")
	s.Set("whyJoin", "Network")
	s.Set("whatToGain", "Mentorship")
	s.Set("howContribute", "Supplier connections")
	s.Set("membershipType", "annual")
	s.Set("willingToParticipate", "true")
	s.Set("understandsCurated", "true")
	s.Set("storiesInterest", "maybe")
	s.Set("confirmAccurate", "true")

	sub, fe := s.Submission()
	if fe != nil {
		t.Fatalf("Submission: %v", fe)
	}
	if sub.FullName != "Asha Rao" || sub.YearsInBusiness != 7 {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if !sub.WillingToParticipate || !sub.UnderstandsCurated || !sub.ConfirmAccurate {
		t.Fatal("checkbox answers must map to true")
	}
	if sub.StoriesInterest != "maybe" {
		t.Fatalf("storiesInterest: %q", sub.StoriesInterest)
	}
	if fe := sub.Validate(false); fe != nil {
		t.Fatalf("built submission should pass the schema, got %v", fe)
	}
}

func TestSubmissionRejectsBadYears(t *testing.T) {
	s := NewState()
	s.Set("yearsInBusiness", "lots")

	_, fe := s.Submission()
	if fe == nil || fe.Field != "yearsInBusiness" {
		t.Fatalf("expected years rejection, got %v", fe)
	}
}

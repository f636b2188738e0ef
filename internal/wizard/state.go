// internal/wizard/state.go
//
// Wizard state machine.
//
// Context
//   A State accumulates answers across the fixed ordered steps of one
//   WizardDef.  Step gating is deliberately shallow: advancing checks only
//   that the current step's required fields are present (plus a numeric
//   sanity check on number fields), while full schema validation is
//   deferred to the submission pipeline.  Retreating never loses answers,
//   and setting a field is never rejected at this layer.
//
//   One State is shared by every request carrying the same wizard cookie
//   (two open tabs, a double-clicked Next), so every accessor takes the
//   state's lock.
//
// Transitions
//   •  Set(name, value)  – store an answer, any step, any time.
//   •  Advance(def)      – gate on the current step's required fields,
//                          then increment the index, capped at the last step.
//   •  Retreat()         – decrement the index, floored at 0.
//
//------------------------------------------------------------------------------

package wizard

import (
	"strings"
	"sync"

	"github.com/ibcgulf/circle/internal/application"
)

// StepError reports why a step cannot advance.  Message wording comes
// from the step (or field) definition so it matches the original copy.
type StepError struct {
	Field   string // offending field, may be empty for step-level errors
	Message string
}

func (se *StepError) Error() string { return se.Message }

// State holds one visitor's progress through a wizard.  Fields are
// unexported so all access funnels through the locked accessors.
type State struct {
	mu      sync.Mutex
	step    int               // current index, 0-based
	answers map[string]string // accumulated answers, checkboxes store "true"
}

// NewState returns an empty state positioned at the first step.
func NewState() *State {
	return &State{answers: make(map[string]string)}
}

// Set stores a value into the accumulated answer set.  Never rejected;
// detailed validation is deferred to submission.
func (s *State) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[name] = value
}

// Get returns the stored answer for name, or "".
func (s *State) Get(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[name]
}

// Checked reports whether a checkbox field is set.
func (s *State) Checked(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[name] == "true"
}

// StepIndex returns the current 0-based step index.
func (s *State) StepIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SetStep moves the index without gating.  Callers validate the range
// against their WizardDef first.
func (s *State) SetStep(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = n
}

// Advance gates on the current step's required fields and, on success,
// increments the step index (capped at the last step).  On failure the
// state is unchanged and the unmet requirement is returned.
func (s *State) Advance(def *WizardDef) *StepError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if se := s.checkStep(def, s.step); se != nil {
		return se
	}
	if s.step < len(def.Steps)-1 {
		s.step++
	}
	return nil
}

// Retreat decrements the step index, floored at 0.  Always allowed; does
// not clear answers.
func (s *State) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > 0 {
		s.step--
	}
}

// CheckStep verifies the required fields of step idx without moving the
// index.  The final step's declaration checkbox is checked here too, so
// submission handlers gate on the same rules.
func (s *State) CheckStep(def *WizardDef, idx int) *StepError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkStep(def, idx)
}

// checkStep is CheckStep without the lock, for callers already holding it.
func (s *State) checkStep(def *WizardDef, idx int) *StepError {
	if idx < 0 || idx >= len(def.Steps) {
		return &StepError{Message: "Unknown step."}
	}
	step := def.Steps[idx]

	for _, f := range step.Fields {
		if !f.Required {
			continue
		}
		v := s.answers[f.Name]
		missing := false
		if f.Type == "checkbox" {
			missing = v != "true"
		} else {
			missing = strings.TrimSpace(v) == ""
		}
		if missing {
			return &StepError{Field: f.Name, Message: stepMsg(&step, &f)}
		}
	}

	// Number fields must parse once present.
	for _, f := range step.Fields {
		if f.Type != "number" || strings.TrimSpace(s.answers[f.Name]) == "" {
			continue
		}
		if _, fe := application.ParseYears(s.answers[f.Name]); fe != nil {
			msg := f.ErrorMsg
			if msg == "" {
				msg = fe.Message
			}
			return &StepError{Field: f.Name, Message: msg}
		}
	}
	return nil
}

// Submission converts the accumulated answers into a typed Submission.
// Years-in-business is parsed strictly; bad input is reported, never
// coerced to 0.
func (s *State) Submission() (*application.Submission, *application.FieldError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	years, fe := application.ParseYears(s.answers["yearsInBusiness"])
	if fe != nil {
		return nil, fe
	}

	return &application.Submission{
		FullName:             s.answers["fullName"],
		CompanyName:          s.answers["companyName"],
		Role:                 s.answers["role"],
		Industry:             s.answers["industry"],
		YearsInBusiness:      years,
		Website:              s.answers["website"],
		Email:                s.answers["email"],
		Mobile:               s.answers["mobile"],
		BusinessDescription:  s.answers["businessDescription"],
		BusinessStage:        s.answers["businessStage"],
		WhyJoin:              s.answers["whyJoin"],
		WhatToGain:           s.answers["whatToGain"],
		HowContribute:        s.answers["howContribute"],
		MembershipType:       s.answers["membershipType"],
		WillingToParticipate: s.answers["willingToParticipate"] == "true",
		UnderstandsCurated:   s.answers["understandsCurated"] == "true",
		StoriesInterest:      s.answers["storiesInterest"],
		ConfirmAccurate:      s.answers["confirmAccurate"] == "true",
	}, nil
}

// stepMsg picks the message for a missing required field: the field's own
// message wins, then the step's, then a generic fallback.
func stepMsg(step *StepDef, f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	if step.ErrorMsg != "" {
		return step.ErrorMsg
	}
	return "Please fill in all required fields."
}

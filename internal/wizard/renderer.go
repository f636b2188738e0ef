// internal/wizard/renderer.go
//
// HTML renderer for one wizard step.
//
// Context
//   Given a WizardDef and a State, this file emits the markup for the
//   current step: progress header, each field with HTML5 validation
//   attributes and the previously entered value, a CSRF token, and the
//   step index as hidden inputs.  The surrounding component template wraps
//   the result in a <form> with Back / Next / Submit controls.
//
// Style
//   Output HTML is deliberately plain – no framework classes – so pages
//   can style via element selectors or class hooks.  Each input gets
//   id="fld-{name}" and is wrapped in <div class="form-field">.
//
//------------------------------------------------------------------------------

package wizard

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"time"
)

// RenderStep returns the markup for the state's current step.
func RenderStep(def *WizardDef, s *State) (template.HTML, error) {
	idx := s.StepIndex()
	if idx < 0 || idx >= len(def.Steps) {
		return "", fmt.Errorf("RenderStep: step %d out of range in wizard %q", idx, def.ID)
	}
	step := def.Steps[idx]

	var buf bytes.Buffer
	buf.WriteString(`<div class="wizard-step">` + "\n")

	// Progress header.
	fmt.Fprintf(&buf, `<div class="wizard-progress">Step %d of %d</div>`+"\n", idx+1, len(def.Steps))
	buf.WriteString(`<h2>` + html.EscapeString(step.Title) + `</h2>` + "\n")
	if step.Description != "" {
		buf.WriteString(`<p class="step-description">` + html.EscapeString(step.Description) + `</p>` + "\n")
	}

	// Iterate fields in definition order.
	for _, f := range step.Fields {
		if err := writeField(&buf, &f, s); err != nil {
			return "", err
		}
	}

	// Hidden meta inputs.
	buf.WriteString(fmt.Sprintf(`<input type="hidden" name="csrf_token" value="%s">`+"\n", generateToken()))
	buf.WriteString(fmt.Sprintf(`<input type="hidden" name="step" value="%d">`+"\n", idx))

	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf, applying the
// stored answer and validation attributes.
func writeField(buf *bytes.Buffer, f *FieldDef, s *State) error {
	val := s.Get(f.Name)

	// Container
	buf.WriteString(`<div class="form-field">` + "\n")

	// Shared attributes
	idAttr := `id="fld-` + html.EscapeString(f.Name) + `"`
	nameAttr := `name="` + html.EscapeString(f.Name) + `"`

	// Label first (for accessibility)
	buf.WriteString(`<label for="fld-` + html.EscapeString(f.Name) + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	switch f.Type {
	case "text", "email", "number":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="` + f.Type + `"`)
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		if f.Required {
			buf.WriteString(` required`)
		}
		if f.Type == "number" {
			buf.WriteString(` min="0"`)
		}
		if f.MaxLength > 0 {
			buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
		}
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(`>` + "\n")

	case "textarea":
		buf.WriteString(`<textarea ` + idAttr + ` ` + nameAttr)
		if f.Required {
			buf.WriteString(` required`)
		}
		if f.MaxLength > 0 {
			buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
		}
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		buf.WriteString(`>`)
		if val != "" {
			buf.WriteString(html.EscapeString(val))
		}
		buf.WriteString(`</textarea>` + "\n")

	case "select":
		buf.WriteString(`<select ` + idAttr + ` ` + nameAttr)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")
		buf.WriteString(`<option value=""></option>` + "\n")
		for _, opt := range f.Options {
			sel := ""
			if val == opt {
				sel = ` selected`
			}
			buf.WriteString(`<option value="` + html.EscapeString(opt) + `"` + sel + `>` + html.EscapeString(opt) + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	case "checkbox":
		checked := ""
		if s.Checked(f.Name) {
			checked = ` checked`
		}
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="checkbox" value="true"` + checked)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")

	case "radio":
		// Render each option as a separate radio input.
		for i, opt := range f.Options {
			radioID := fmt.Sprintf("fld-%s-%d", f.Name, i)
			checked := ""
			if val == opt {
				checked = ` checked`
			}
			buf.WriteString(`<div class="radio-option">` + "\n")
			buf.WriteString(`<input id="` + radioID + `" name="` + html.EscapeString(f.Name) + `" type="radio" value="` + html.EscapeString(opt) + `"` + checked)
			if f.Required {
				buf.WriteString(` required`)
			}
			buf.WriteString(`>` + "\n")
			buf.WriteString(`<label for="` + radioID + `">` + html.EscapeString(opt) + `</label>` + "\n")
			buf.WriteString(`</div>` + "\n")
		}

	default:
		return fmt.Errorf("writeField: unsupported field type %q in wizard field %s", f.Type, f.Name)
	}

	// Placeholder span for error messages (populated on server re-render).
	buf.WriteString(`<span class="error" aria-live="polite"></span>` + "\n")

	buf.WriteString(`</div>` + "\n")
	return nil
}

// generateToken is a thin wrapper so the renderer degrades instead of
// failing when token generation hits an entropy error (extremely rare).
func generateToken() string {
	token, err := GenerateToken()
	if err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return token
}

// components/apply/apply.go
//
// Membership application component.
//
// Context
//   Drives the multi-step application wizard for signed-in members and the
//   public inquiry variant.  Step definitions live in forms/*.yaml and are
//   loaded into the wizard registry at start-up; this component only wires
//   HTTP traffic to wizard state, the submission pipeline, and the status
//   projection.
//
// Workflow
//   GET  /apply    – signed-out visitors see a sign-in prompt.  Members with
//                    a persisted application see its status; everyone else
//                    sees their current wizard step.
//   POST /apply    – records the posted step's answers, then navigates
//                    (back / next / submit).  Submit runs the pipeline and
//                    renders the confirmation page on success.
//   GET  /inquiry  – public variant, email collected on the first step.
//   POST /inquiry  – same navigation contract, no account required.
//
// Notes
//   Submission is exactly-once per member.  The pipeline surfaces a
//   duplicate insert as ErrAlreadyApplied and we fall back to the status
//   view rather than erroring.
//
//------------------------------------------------------------------------------

package apply

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ibcgulf/circle/internal/application"
	"github.com/ibcgulf/circle/internal/auth"
	"github.com/ibcgulf/circle/internal/component"
	"github.com/ibcgulf/circle/internal/notify"
	"github.com/ibcgulf/circle/internal/requestinfo"
	"github.com/ibcgulf/circle/internal/view"
	"github.com/ibcgulf/circle/internal/wizard"
)

const (
	applicationWizard = "apply/application"
	inquiryWizard     = "apply/inquiry"

	// Live wizard sessions kept in memory before falling off the LRU.
	sessionCapacity = 4096
)

var _ component.Component = (*Component)(nil)

// Component wires the application and inquiry wizards.
type Component struct {
	repo  *application.Repository
	pipe  *application.Pipeline
	store *wizard.Store
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string { return "apply" }

func (c *Component) Migrations() []string { return nil }

// Init builds the repository, mailer, and pipeline from shared resources.
func (c *Component) Init(info component.SiteInfo) error {
	cfg := info.GetConfig()
	c.repo = application.NewRepository(info.GetDB())
	mailer := notify.New(cfg.Mail, zap.L())
	c.pipe = application.NewPipeline(c.repo, mailer, zap.L())
	c.store = wizard.NewStore(sessionCapacity)
	return nil
}

// Routes attaches the wizard endpoints onto the shared router.
func (c *Component) Routes(r chi.Router) {
	r.Get("/apply", c.handleApplyGET)
	r.Post("/apply", c.handleApplyPOST)
	r.Get("/inquiry", c.handleInquiryGET)
	r.Post("/inquiry", c.handleInquiryPOST)
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── /apply ───────────────────────────────────────*/

func (c *Component) handleApplyGET(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.Current(r)
	if !ok {
		c.render(w, "signin", nil)
		return
	}

	app, err := c.repo.ByUser(r.Context(), id.UserID)
	if err != nil {
		zap.L().Error("application lookup", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if app != nil {
		c.renderStatus(w, app)
		return
	}

	c.renderWizard(w, r, applicationWizard, "apply", "")
}

func (c *Component) handleApplyPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.Current(r)
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	def, s, msg := c.step(w, r, applicationWizard)
	if def == nil {
		return
	}
	if msg != "" {
		c.renderWizard(w, r, applicationWizard, "apply", msg)
		return
	}

	switch r.PostFormValue("nav") {
	case "back":
		s.Retreat()
	case "submit":
		sub, ferr := s.Submission()
		if ferr != nil {
			c.renderWizard(w, r, applicationWizard, "apply", ferr.Message)
			return
		}
		// The application wizard never asks for an email; the record carries
		// the signed-in account's address.
		sub.Email = id.Email
		_, err := c.pipe.SubmitApplication(r.Context(), id.UserID, origin(r), sub)
		if err != nil {
			c.handleSubmitErr(w, r, id.UserID, err)
			return
		}
		c.store.Drop(r, applicationWizard)
		c.render(w, "submitted", map[string]any{"Inquiry": false})
		return
	default: // "next"
		if serr := s.Advance(def); serr != nil {
			c.renderWizard(w, r, applicationWizard, "apply", serr.Message)
			return
		}
	}

	c.renderWizard(w, r, applicationWizard, "apply", "")
}

// handleSubmitErr maps pipeline failures to the right page.  Duplicate
// inserts become the status view; field errors re-render the form.
func (c *Component) handleSubmitErr(w http.ResponseWriter, r *http.Request, userID int64, err error) {
	if errors.Is(err, application.ErrAlreadyApplied) {
		c.store.Drop(r, applicationWizard)
		app, lerr := c.repo.ByUser(r.Context(), userID)
		if lerr != nil || app == nil {
			zap.L().Error("status lookup after duplicate", zap.Error(lerr))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		c.renderStatus(w, app)
		return
	}

	var ferr *application.FieldError
	if errors.As(err, &ferr) {
		c.renderWizard(w, r, applicationWizard, "apply", ferr.Message)
		return
	}

	zap.L().Error("application submit", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

/*──────────────────────────── /inquiry ─────────────────────────────────────*/

func (c *Component) handleInquiryGET(w http.ResponseWriter, r *http.Request) {
	c.renderWizard(w, r, inquiryWizard, "inquiry", "")
}

func (c *Component) handleInquiryPOST(w http.ResponseWriter, r *http.Request) {
	def, s, msg := c.step(w, r, inquiryWizard)
	if def == nil {
		return
	}
	if msg != "" {
		c.renderWizard(w, r, inquiryWizard, "inquiry", msg)
		return
	}

	switch r.PostFormValue("nav") {
	case "back":
		s.Retreat()
	case "submit":
		sub, ferr := s.Submission()
		if ferr != nil {
			c.renderWizard(w, r, inquiryWizard, "inquiry", ferr.Message)
			return
		}
		if _, err := c.pipe.SubmitInquiry(r.Context(), origin(r), sub); err != nil {
			var fe *application.FieldError
			if errors.As(err, &fe) {
				c.renderWizard(w, r, inquiryWizard, "inquiry", fe.Message)
				return
			}
			zap.L().Error("inquiry submit", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		c.store.Drop(r, inquiryWizard)
		c.render(w, "submitted", map[string]any{"Inquiry": true})
		return
	default:
		if serr := s.Advance(def); serr != nil {
			c.renderWizard(w, r, inquiryWizard, "inquiry", serr.Message)
			return
		}
	}

	c.renderWizard(w, r, inquiryWizard, "inquiry", "")
}

/*──────────────────────────── Shared plumbing ──────────────────────────────*/

// step parses the POST, checks the CSRF token, and folds the posted values
// for the current step back into wizard state.  A nil def means a response
// was already written; a non-empty msg is a user-facing toast.
func (c *Component) step(w http.ResponseWriter, r *http.Request, wizardID string) (*wizard.WizardDef, *wizard.State, string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, nil, ""
	}

	def, ok := wizard.GetWizardDef(wizardID)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return nil, nil, ""
	}

	s := c.store.Session(w, r, wizardID)

	if !wizard.VerifyToken(r.PostFormValue("csrf_token")) {
		return def, s, "Your session expired. Please try again."
	}

	// Browsers can fall out of sync with the cached state (double submit,
	// back button).  Trust the posted step index when it is valid.
	if n, err := strconv.Atoi(r.PostFormValue("step")); err == nil && n >= 0 && n < len(def.Steps) {
		s.SetStep(n)
	}

	// Fold in only the fields that belong to the posted step.  Unchecked
	// checkboxes are absent from the form body and must clear the answer.
	idx := s.StepIndex()
	for i := range def.Steps[idx].Fields {
		f := &def.Steps[idx].Fields[i]
		if f.Type == "checkbox" {
			if r.PostFormValue(f.Name) == "true" {
				s.Set(f.Name, "true")
			} else {
				s.Set(f.Name, "")
			}
			continue
		}
		if _, present := r.PostForm[f.Name]; present {
			s.Set(f.Name, r.PostFormValue(f.Name))
		}
	}
	return def, s, ""
}

func (c *Component) renderWizard(w http.ResponseWriter, r *http.Request, wizardID, page, toast string) {
	def, ok := wizard.GetWizardDef(wizardID)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	s := c.store.Session(w, r, wizardID)

	stepHTML, err := wizard.RenderStep(def, s)
	if err != nil {
		zap.L().Error("render step", zap.Error(err), zap.String("wizard", wizardID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	idx := s.StepIndex()
	c.render(w, page, map[string]any{
		"Title":    def.Title,
		"StepHTML": stepHTML,
		"Step":     idx,
		"Last":     idx == len(def.Steps)-1,
		"First":    idx == 0,
		"Toast":    toast,
	})
}

func (c *Component) renderStatus(w http.ResponseWriter, app *application.Application) {
	sv := application.ViewFor(app.Status)
	c.render(w, "status", map[string]any{
		"Headline":    sv.Headline,
		"Description": sv.Description,
		"Tone":        sv.Tone,
		"App":         app,
	})
}

func (c *Component) render(w http.ResponseWriter, name string, data any) {
	if err := view.Render(w, "apply", name, data, view.CacheSkip); err != nil {
		zap.L().Error("render", zap.Error(err), zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// origin is the rate-limit key the mailer buckets by.
func origin(r *http.Request) string {
	if ip := requestinfo.ClientIP(r); ip != nil {
		return ip.String()
	}
	return "unknown"
}

// components/admin/admin.go
//
// Admin review console.
//
// Context
//   Reviewers list, filter, approve, and reject membership applications,
//   and export the filtered set as CSV.  Every route sits behind the ACL
//   middleware: only accounts holding the “admin” role get through.
//
// Workflow
//   GET  /admin                                – console shell (the page
//                                                fetches rows from the API).
//   GET  /admin/api/applications               – JSON list, filterable by
//                                                q, status, membership.
//   POST /admin/api/applications/{id}/status   – move one application to
//                                                pending/approved/rejected.
//   GET  /admin/export                         – CSV download of the
//                                                filtered applications.
//
//------------------------------------------------------------------------------

package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ibcgulf/circle/internal/acl"
	"github.com/ibcgulf/circle/internal/application"
	"github.com/ibcgulf/circle/internal/component"
	"github.com/ibcgulf/circle/internal/metrics"
	"github.com/ibcgulf/circle/internal/view"
)

var _ component.Component = (*Component)(nil)

// Component serves the review console and its JSON API.
type Component struct {
	db   *sqlx.DB
	repo *application.Repository
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string { return "admin" }

func (c *Component) Migrations() []string { return nil }

func (c *Component) Init(info component.SiteInfo) error {
	c.db = info.GetDB()
	c.repo = application.NewRepository(c.db)
	return nil
}

// Routes attaches the console endpoints onto the shared router.  The whole
// subtree requires the admin role.
func (c *Component) Routes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(acl.RequireRole(c.db.DB, "admin"))
		r.Get("/", c.handleConsole)
		r.Get("/api/applications", c.handleList)
		r.Post("/api/applications/{id}/status", c.handleStatusUpdate)
		r.Get("/export", c.handleExport)
	})
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleConsole(w http.ResponseWriter, r *http.Request) {
	if err := view.Render(w, "admin", "console", nil, view.CacheSkip); err != nil {
		zap.L().Error("render console", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// applicationDTO is the wire shape the console consumes.  It carries every
// reviewable field so the detail panel needs no second fetch.
type applicationDTO struct {
	ID                   string `json:"id"`
	FullName             string `json:"fullName"`
	CompanyName          string `json:"companyName"`
	Role                 string `json:"role"`
	Industry             string `json:"industry"`
	YearsInBusiness      int    `json:"yearsInBusiness"`
	Website              string `json:"website,omitempty"`
	Email                string `json:"email"`
	Mobile               string `json:"mobile"`
	BusinessDescription  string `json:"businessDescription"`
	BusinessStage        string `json:"businessStage"`
	WhyJoin              string `json:"whyJoin"`
	WhatToGain           string `json:"whatToGain"`
	HowContribute        string `json:"howContribute"`
	MembershipType       string `json:"membershipType"`
	WillingToParticipate bool   `json:"willingToParticipate"`
	UnderstandsCurated   bool   `json:"understandsCurated"`
	StoriesInterest      string `json:"storiesInterest,omitempty"`
	Status               string `json:"status"`
	CreatedAt            string `json:"createdAt"`
}

func toDTO(app *application.Application) applicationDTO {
	return applicationDTO{
		ID:                   app.ID,
		FullName:             app.FullName,
		CompanyName:          app.CompanyName,
		Role:                 app.Role,
		Industry:             app.Industry,
		YearsInBusiness:      app.YearsInBusiness,
		Website:              app.Website.String,
		Email:                app.Email,
		Mobile:               app.Mobile,
		BusinessDescription:  app.BusinessDescription,
		BusinessStage:        app.BusinessStage,
		WhyJoin:              app.WhyJoin,
		WhatToGain:           app.WhatToGain,
		HowContribute:        app.HowContribute,
		MembershipType:       app.MembershipType,
		WillingToParticipate: app.WillingToParticipate,
		UnderstandsCurated:   app.UnderstandsCurated,
		StoriesInterest:      app.StoriesInterest.String,
		Status:               string(app.Status),
		CreatedAt:            app.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	apps, err := c.filtered(r)
	if err != nil {
		zap.L().Error("list applications", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	out := make([]applicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, toDTO(&apps[i]))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		zap.L().Error("encode applications", zap.Error(err))
	}
}

// validStatuses gates the transition target; anything else is a client bug.
var validStatuses = map[application.Status]bool{
	application.StatusPending:  true,
	application.StatusApproved: true,
	application.StatusRejected: true,
}

func (c *Component) handleStatusUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	status := application.Status(body.Status)
	if !validStatuses[status] {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	err := c.repo.UpdateStatus(r.Context(), id, status)
	if errors.Is(err, application.ErrNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		zap.L().Error("status update", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	metrics.StatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	zap.L().Info("application status updated",
		zap.String("id", id), zap.String("status", string(status)))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	fmt.Fprintf(w, `{"id":%q,"status":%q}`+"\n", id, status)
}

func (c *Component) handleExport(w http.ResponseWriter, r *http.Request) {
	apps, err := c.filtered(r)
	if err != nil {
		zap.L().Error("export applications", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	name := "ibc-applications-" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if err := application.WriteCSV(w, apps); err != nil {
		zap.L().Error("write csv", zap.Error(err))
	}
}

// filtered loads all applications and applies the request's query filters.
func (c *Component) filtered(r *http.Request) ([]application.Application, error) {
	apps, err := c.repo.All(r.Context())
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	f := application.Filter{
		Query:      q.Get("q"),
		Status:     q.Get("status"),
		Membership: q.Get("membership"),
	}
	return f.Apply(apps), nil
}

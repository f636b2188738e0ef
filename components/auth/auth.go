// components/auth/auth.go
//
// Authentication component – sign-in and sign-out.
//
// Context
//   Members sign in with email and password before applying.  Credentials
//   are checked against the user table with bcrypt; success sets the
//   signed session cookie, and sign-out clears it.  The admin role is
//   resolved separately by the ACL middleware, never from the cookie.
//
//------------------------------------------------------------------------------

package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ibcgulf/circle/internal/auth"
	"github.com/ibcgulf/circle/internal/component"
	"github.com/ibcgulf/circle/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the sign-in flow.
type Component struct {
	db *sqlx.DB
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Migrations returns nil – the user table ships in docs/schema.sql.
func (c *Component) Migrations() []string { return nil }

// Init captures the shared database handle.
func (c *Component) Init(info component.SiteInfo) error {
	c.db = info.GetDB()
	return nil
}

// Routes attaches the sign-in endpoints onto the shared router.
func (c *Component) Routes(r chi.Router) {
	r.Get("/auth/login", c.handleLoginGET)
	r.Post("/auth/login", c.handleLoginPOST)
	r.Post("/auth/logout", c.handleLogout)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

// dummyHash keeps the missing-user path as slow as a real compare.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("circle-dummy"), bcrypt.DefaultCost)

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.Current(r); ok {
		http.Redirect(w, r, "/apply", http.StatusSeeOther)
		return
	}
	c.renderLogin(w, "", "")
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	pass := r.PostFormValue("password")

	id, ok, err := c.checkCredentials(r, email, pass)
	if err != nil {
		zap.L().Error("credential check", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !ok {
		c.renderLogin(w, email, "Incorrect email or password.")
		return
	}

	if err := auth.Login(w, r, id); err != nil {
		zap.L().Error("session issue", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/apply", http.StatusSeeOther)
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.Logout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Component) renderLogin(w http.ResponseWriter, email, errMsg string) {
	err := view.Render(w, "auth", "login", map[string]any{
		"Email": email,
		"Error": errMsg,
	}, view.CacheSkip)
	if err != nil {
		zap.L().Error("render login", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

/*──────────────────────── Credential check ─────────────────────────────────*/

// checkCredentials verifies email + password against the user table.  A
// missing user and a wrong password are indistinguishable to the caller.
func (c *Component) checkCredentials(r *http.Request, email, pass string) (auth.Identity, bool, error) {
	if email == "" || pass == "" {
		return auth.Identity{}, false, nil
	}

	var row struct {
		ID   int64  `db:"id"`
		Hash string `db:"password_hash"`
	}
	err := c.db.GetContext(r.Context(), &row,
		`SELECT id, password_hash FROM user WHERE email = ? AND enabled = TRUE`, email)
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a bcrypt round anyway so timing does not leak account existence.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pass))
		return auth.Identity{}, false, nil
	}
	if err != nil {
		return auth.Identity{}, false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(row.Hash), []byte(pass)) != nil {
		return auth.Identity{}, false, nil
	}
	return auth.Identity{UserID: row.ID, Email: email}, true, nil
}

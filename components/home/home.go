// components/home/home.go
//
// Public landing page.  Static copy plus entry points into the apply and
// inquiry flows; everything dynamic lives in the other components.
//
//------------------------------------------------------------------------------

package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ibcgulf/circle/internal/auth"
	"github.com/ibcgulf/circle/internal/component"
	"github.com/ibcgulf/circle/internal/head"
	"github.com/ibcgulf/circle/internal/view"
)

var _ component.Component = (*Component)(nil)

type Component struct{}

func (c *Component) Name() string { return "home" }

func (c *Component) Migrations() []string { return nil }

func (c *Component) Init(_ component.SiteInfo) error { return nil }

// Routes attaches the landing page onto the shared router.
func (c *Component) Routes(r chi.Router) {
	r.Get("/", c.handleIndex)
}

func init() { component.Register(&Component{}) }

func (c *Component) handleIndex(w http.ResponseWriter, r *http.Request) {
	hb := head.New()
	hb.SetTitle("Indian Business Circle · Gulf")
	hb.Meta(`<meta name="description" content="A curated community of Indian business owners and professionals in the Gulf.">`)
	hb.Link(`<link rel="stylesheet" href="/static/circle.css">`)

	_, signedIn := auth.Current(r)

	err := view.Render(w, "home", "index", map[string]any{
		"Head":     hb,
		"SignedIn": signedIn,
	}, view.CacheDefault)
	if err != nil {
		zap.L().Error("render index", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

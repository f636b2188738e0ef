// internal/component/siteinfo.go
package component

import (
	"github.com/jmoiron/sqlx"

	"github.com/ibcgulf/circle/internal/config"
)

// SiteInfo exposes shared site resources to Components during Init.
// Secrets never travel through it: config.Load resolves vault: references
// before the Config reaches any component.
type SiteInfo interface {
	GetDB() *sqlx.DB
	GetConfig() *config.Config
}

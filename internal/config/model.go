// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `CIRCLE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling and *before* validation,
// so the validated model only ever holds plain strings.  Today that covers
// the database password and the mail API key.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`; Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import (
	"fmt"
	"strings"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  The *secret* portion (`Password`) is
// stored in Vault and injected at runtime, keeping credentials out of flat
// files and git history.  When the template contains a `%s` verb the
// password is substituted there; otherwise the template is used verbatim.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

// FullDSN returns the connect string with the password substituted.
func (d Database) FullDSN() string {
	if strings.Contains(d.DSN, "%s") {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}

//
// Mail section
//

// Mail configures the transactional-email side channel.  Endpoint is the
// Resend-compatible API base; APIKey is normally a `vault:` reference.
// RatePerHour caps accepted notification requests per caller origin.
type Mail struct {
	Endpoint    string   `koanf:"endpoint"      validate:"required,url"`
	APIKey      string   `koanf:"api_key"       validate:"required"`
	From        string   `koanf:"from"          validate:"required"`
	To          []string `koanf:"to"            validate:"required,min=1,dive,email"`
	ReplyTo     string   `koanf:"reply_to"      validate:"omitempty,email"`
	RatePerHour int      `koanf:"rate_per_hour" validate:"min=0"`
}

//
// GeoIP section
//

// GeoIP points at an optional GeoLite2-City database used to annotate
// submission logs.  Empty path disables geo lookups.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or CIRCLE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // CIRCLE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Mail     Mail     `koanf:"mail"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

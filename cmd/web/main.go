// cmd/web/main.go
//
// IBC Gulf Circle – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Start daily rotating logger (tees to console when running in a TTY).
//
//  2. Load layered config (conf/.env → conf/global.yaml → CIRCLE_* env),
//     resolving any vault: secret references along the way.
//
//  3. Open the MySQL pool and ping it.
//
//  4. Open the optional GeoLite2 database (log-and-continue when absent).
//
//  5. Point the view engine at the repo root and load every wizard
//     definition under components/*/forms/.
//
//  6. Init every registered component (they capture the DB, mailer, and
//     config here), then mount their routers plus /metrics and /static.
//
//  7. Serve with hardened timeouts; SIGINT/SIGTERM drain in-flight
//     requests before exit.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ibcgulf/circle/internal/auth"
	"github.com/ibcgulf/circle/internal/component"
	"github.com/ibcgulf/circle/internal/config"
	"github.com/ibcgulf/circle/internal/database"
	"github.com/ibcgulf/circle/internal/logger"
	"github.com/ibcgulf/circle/internal/middleware"
	"github.com/ibcgulf/circle/internal/requestinfo"
	"github.com/ibcgulf/circle/internal/server"
	"github.com/ibcgulf/circle/internal/view"
	"github.com/ibcgulf/circle/internal/wizard"

	_ "github.com/ibcgulf/circle/components/admin"
	_ "github.com/ibcgulf/circle/components/apply"
	_ "github.com/ibcgulf/circle/components/auth"
	_ "github.com/ibcgulf/circle/components/home"
)

const shutdownGrace = 15 * time.Second

// site carries the shared resources handed to each component during Init.
type site struct {
	db  *sqlx.DB
	cfg *config.Config
}

func (s *site) GetDB() *sqlx.DB           { return s.db }
func (s *site) GetConfig() *config.Config { return s.cfg }

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	wd, _ := os.Getwd()
	sugar, err := logger.New(wd, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer sugar.Sync() //nolint:errcheck

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("load config", "err", err)
	}

	//
	// ── 2.  Database ────────────────────────────────────────────────────
	//
	sugar.Info("connecting to database …")
	db, err := database.Open(cfg.Database.FullDSN())
	if err != nil {
		sugar.Fatalw("connect database", "err", err)
	}
	defer db.Close()
	sugar.Info("database online")

	//
	// ── 3.  GeoIP (optional) ────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		sugar.Warnw("geoip disabled", "err", err)
	}

	//
	// ── 4.  Views and wizard definitions ────────────────────────────────
	//
	view.SetRoot(cfg.Paths.Root)
	if err := wizard.RegisterWizards(cfg.Paths.Root); err != nil {
		sugar.Fatalw("load wizard definitions", "err", err)
	}

	//
	// ── 5.  Component init, then route mount ────────────────────────────
	//
	info := &site{db: db, cfg: cfg}
	for _, c := range component.All() {
		if err := c.Init(info); err != nil {
			sugar.Fatalw("component init", "component", c.Name(), "err", err)
		}
		sugar.Infow("component ready", "component", c.Name())
	}

	r := chi.NewRouter()
	r.Use(requestinfo.Enrich)
	r.Use(auth.Middleware)
	r.Use(middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(filepath.Join(cfg.Paths.Root, "static")))))

	for _, c := range component.All() {
		c.Routes(r)
	}

	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}

	//
	// ── 6.  Serve until signalled ───────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("shutting down …")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("server", "err", err)
	}
	sugar.Info("bye")
}

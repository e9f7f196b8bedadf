package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"autoapply-engine/internal/config"
	"autoapply-engine/internal/confirm"
	"autoapply-engine/internal/driver"
	"autoapply-engine/internal/driver/dom"
	"autoapply-engine/internal/engine"
	"autoapply-engine/internal/events"
	"autoapply-engine/internal/ledger"
	"autoapply-engine/internal/session"
	"autoapply-engine/internal/status"
)

func main() {
	var (
		setCookie  = flag.String("set-cookie", "", "store the board session cookie in the OS keychain and exit")
		setIMAPPwd = flag.String("set-imap-password", "", "store the confirmation-mailbox password in the OS keychain and exit")
		screenOnly = flag.Bool("screen-only", false, "screen listings without applying or writing the ledger")
		maxPages   = flag.Int("max-pages", 0, "override the per-query page cap")
	)
	flag.Parse()

	dataDir := os.Getenv("AUTOAPPLY_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}

	// Secret management doesn't need a runnable config.
	if *setCookie != "" {
		if err := session.SetCookie(*setCookie); err != nil {
			log.Fatalf("store cookie: %v", err)
		}
		fmt.Println("session cookie stored")
		return
	}
	if *setIMAPPwd != "" {
		acct := session.IMAPAccount(cfg.Confirm.Username, cfg.Confirm.IMAPHost)
		if err := session.SetIMAPPassword(acct, *setIMAPPwd); err != nil {
			log.Fatalf("store imap password: %v", err)
		}
		fmt.Println("imap password stored")
		return
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("%v", err)
	}

	queries, err := config.BuildQueries(cfg)
	if err != nil {
		log.Fatalf("queries: %v", err)
	}

	store, err := openLedger(cfg, dataDir)
	if err != nil {
		log.Fatalf("ledger open: %v", err)
	}
	defer store.Close()

	drv, err := buildDriver(cfg)
	if err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()
	runner := engine.NewRunner(drv, store, engine.DefaultSelectors(), hub, engine.Options{
		MaxPages:   *maxPages,
		ScreenOnly: *screenOnly,
	})

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if cfg.App.Port > 0 {
		srv := status.New(hub, store)
		g.Go(func() error {
			return srv.ListenAndServe(ctx, cfg.App.Port)
		})
		log.Printf("[engine] status api on http://127.0.0.1:%d", cfg.App.Port)
	}

	g.Go(func() error {
		defer cancel() // run done: take the status server down with us

		if err := runner.Run(ctx, queries); err != nil {
			return err
		}

		if cfg.Confirm.Enabled && !*screenOnly {
			records, err := store.Load(ctx)
			if err != nil {
				return err
			}
			rep, err := confirm.Reconcile(ctx, cfg, records, hub)
			if err != nil {
				// reconciliation is best-effort reporting
				log.Printf("[confirm] reconcile failed: %v", err)
				return nil
			}
			log.Printf("[confirm] confirmed=%d unmatched=%d", len(rep.Confirmed), len(rep.Unmatched))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func openLedger(cfg config.Config, dataDir string) (ledger.Store, error) {
	switch strings.ToLower(cfg.Ledger.Backend) {
	case "file":
		path := cfg.Ledger.Path
		if path == "" {
			path = filepath.Join(dataDir, "applied.json")
		}
		return ledger.OpenFile(path)
	default: // sqlite
		path := cfg.Ledger.Path
		if path == "" {
			path = filepath.Join(dataDir, "autoapply.db")
		}
		return ledger.OpenSQLite(path)
	}
}

// buildDriver assembles the automation session. The snapshot driver covers
// screening against rendered pages; a live wizard-capable session is an
// external collaborator wired in by the embedding caller via
// engine.NewRunner.
func buildDriver(cfg config.Config) (driver.Driver, error) {
	var opts []dom.Option
	if cookie, err := session.GetCookie(); err == nil {
		opts = append(opts, dom.WithCookie(cookie))
	} else {
		log.Printf("[engine] %v, fetching pages unauthenticated", err)
	}

	base := dom.New(opts...)

	aps := cfg.Pacing.ActionsPerSecond
	if aps <= 0 {
		aps = 0.5
	}
	burst := cfg.Pacing.Burst
	if burst <= 0 {
		burst = 1
	}
	return driver.NewPaced(base, aps, burst), nil
}

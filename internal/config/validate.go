package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port != 0 && (cfg.App.Port < 0 || cfg.App.Port > 65535) {
		errs = append(errs, "app.port must be 0..65535")
	}
	if cfg.Pacing.ActionsPerSecond < 0 {
		errs = append(errs, "pacing.actions_per_second must be >= 0")
	}

	switch strings.ToLower(cfg.Ledger.Backend) {
	case "", "sqlite", "file":
	default:
		errs = append(errs, fmt.Sprintf("ledger.backend %q must be sqlite or file", cfg.Ledger.Backend))
	}

	if len(cfg.Queries) == 0 {
		errs = append(errs, "queries must have at least 1 entry")
	}
	for i, q := range cfg.Queries {
		if strings.TrimSpace(q.Keywords) == "" && len(q.Locations) == 0 {
			errs = append(errs, fmt.Sprintf("queries[%d] needs keywords or locations", i))
		}
	}

	if cfg.Confirm.Enabled {
		if strings.TrimSpace(cfg.Confirm.IMAPHost) == "" {
			errs = append(errs, "confirm.imap_host is required when confirm.enabled=true")
		}
		if strings.TrimSpace(cfg.Confirm.Username) == "" {
			errs = append(errs, "confirm.username is required when confirm.enabled=true")
		}
	}

	// enum values are checked again in BuildQueries; catching them here
	// gives the user one combined report
	if _, err := BuildQueries(cfg); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

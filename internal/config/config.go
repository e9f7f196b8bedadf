package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"autoapply-engine/internal/domain"
)

// QueryConfig is one search definition from the YAML file. A query listing
// several locations is expanded into one domain.Query per location.
type QueryConfig struct {
	Keywords            string   `yaml:"keywords"`
	Locations           []string `yaml:"locations"`
	Relevance           string   `yaml:"relevance"` // relevant | recent
	Time                string   `yaml:"time"`      // day | week | month
	Site                []string `yaml:"site"`      // onsite | remote | hybrid
	EasyApplyOnly       bool     `yaml:"easy_apply_only"`
	DescriptionKeywords []string `yaml:"description_keywords"`
	Blacklist           []string `yaml:"blacklist"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
		Port    int    `yaml:"port"`
	} `yaml:"app"`

	Pacing struct {
		ActionsPerSecond float64 `yaml:"actions_per_second"`
		Burst            int     `yaml:"burst"`
	} `yaml:"pacing"`

	Ledger struct {
		Backend string `yaml:"backend"` // sqlite | file
		Path    string `yaml:"path"`
	} `yaml:"ledger"`

	// Defaults are merged into every query's screening options.
	Defaults struct {
		Blacklist           []string `yaml:"blacklist"`
		DescriptionKeywords []string `yaml:"description_keywords"`
	} `yaml:"defaults"`

	Queries []QueryConfig `yaml:"queries"`

	Confirm struct {
		Enabled    bool     `yaml:"enabled"`
		IMAPHost   string   `yaml:"imap_host"`
		IMAPPort   int      `yaml:"imap_port"`
		Username   string   `yaml:"username"`
		Mailbox    string   `yaml:"mailbox"`
		SubjectAny []string `yaml:"subject_any"`
	} `yaml:"confirm"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// BuildQueries expands the config into the flat, ordered query list the
// runner processes. Defaults are appended after per-query entries.
func BuildQueries(cfg Config) ([]domain.Query, error) {
	var out []domain.Query

	for i, qc := range cfg.Queries {
		opts, err := buildOptions(cfg, qc)
		if err != nil {
			return nil, fmt.Errorf("queries[%d]: %w", i, err)
		}

		base := domain.Query{Keywords: strings.TrimSpace(qc.Keywords), Options: opts}

		locs := qc.Locations
		if len(locs) == 0 {
			locs = []string{""}
		}
		for _, loc := range locs {
			out = append(out, base.CloneFor(strings.TrimSpace(loc)))
		}
	}

	return out, nil
}

func buildOptions(cfg Config, qc QueryConfig) (domain.QueryOptions, error) {
	var opts domain.QueryOptions

	switch strings.ToLower(strings.TrimSpace(qc.Relevance)) {
	case "":
	case "relevant":
		opts.Relevance = domain.RelevanceRelevant
	case "recent":
		opts.Relevance = domain.RelevanceRecent
	default:
		return opts, fmt.Errorf("bad relevance %q (want relevant|recent)", qc.Relevance)
	}

	switch strings.ToLower(strings.TrimSpace(qc.Time)) {
	case "":
	case "day":
		opts.TimeFilter = domain.TimePastDay
	case "week":
		opts.TimeFilter = domain.TimePastWeek
	case "month":
		opts.TimeFilter = domain.TimePastMonth
	default:
		return opts, fmt.Errorf("bad time %q (want day|week|month)", qc.Time)
	}

	for _, s := range qc.Site {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "onsite", "on-site":
			opts.Site = append(opts.Site, domain.SiteOnSite)
		case "remote":
			opts.Site = append(opts.Site, domain.SiteRemote)
		case "hybrid":
			opts.Site = append(opts.Site, domain.SiteHybrid)
		default:
			return opts, fmt.Errorf("bad site %q (want onsite|remote|hybrid)", s)
		}
	}

	opts.EasyApplyOnly = qc.EasyApplyOnly
	opts.DescriptionKeywords = trimList(append(append([]string(nil), qc.DescriptionKeywords...), cfg.Defaults.DescriptionKeywords...))
	opts.BlacklistCompanies = trimList(append(append([]string(nil), qc.Blacklist...), cfg.Defaults.Blacklist...))

	return opts, nil
}

func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}

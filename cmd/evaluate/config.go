package main

import (
	"flag"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/plan"
	"github.com/DjordjeVuckovic/rec-bench/pkg/config/env"
)

type cliConfig struct {
	PlanPath    string
	RatingsPath string
	UsersPath   string
	Recommender string
	ReportPath  string
	WorkDir     string
	Seed        uint64
	Trials      int
	Timeout     time.Duration
	HeldOutOut  string
	Output      string
	LogLevel    string

	// set records which flags were given explicitly; they override the plan.
	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (cliConfig, error) {
	cfg := cliConfig{}

	fs.StringVar(&cfg.PlanPath, "plan", env.String("EVAL_PLAN", ""), "Path to evaluation plan YAML")
	fs.StringVar(&cfg.RatingsPath, "ratings", env.String("RATINGS_PATH", plan.DefaultRatingsPath), "Rating set the recommender reads; relative to --dir when set")
	fs.StringVar(&cfg.UsersPath, "users", env.String("USERS_PATH", plan.DefaultUsersPath), "Users-of-interest file the recommender reads; relative to --dir when set")
	fs.StringVar(&cfg.Recommender, "recommender", env.String("RECOMMENDER_BIN", plan.DefaultCommand), "Recommender binary")
	fs.StringVar(&cfg.ReportPath, "report", env.String("REPORT_PATH", plan.DefaultReportPath), "Report file the recommender writes")
	fs.StringVar(&cfg.WorkDir, "dir", "", "Working directory the recommender runs in")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed; 0 derives one from the clock")
	fs.IntVar(&cfg.Trials, "trials", 1, "Number of holdout trials")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Recommender timeout per trial; 0 waits forever")
	fs.StringVar(&cfg.HeldOutOut, "heldout-out", "", "Write held-out ratings to this YAML file")
	fs.StringVar(&cfg.Output, "output", "", "Write a JSON report to this path")
	fs.StringVar(&cfg.LogLevel, "log-level", env.String("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// buildPlan loads the plan file, or the default plan, and applies flags. With
// a plan file only explicit flags override it; without one every flag value,
// including environment-derived defaults, is used.
func (c cliConfig) buildPlan() (*plan.Plan, error) {
	p := plan.Default()
	fromFile := c.PlanPath != ""
	if fromFile {
		loaded, err := plan.LoadFromFile(c.PlanPath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	use := func(name string) bool { return !fromFile || c.set[name] }

	if use("ratings") {
		p.Files.Ratings = c.RatingsPath
	}
	if use("users") {
		p.Files.Users = c.UsersPath
	}
	if p.Engine.Type == plan.EngineProcess {
		if use("recommender") {
			p.Engine.Command = c.Recommender
		}
		if use("report") {
			p.Engine.Report = c.ReportPath
		}
	}
	if c.set["dir"] {
		p.Engine.Dir = c.WorkDir
	}
	if c.set["timeout"] {
		p.Engine.Timeout = c.Timeout
	}
	if c.set["seed"] {
		p.Runs.Seed = c.Seed
	}
	if c.set["trials"] {
		p.Runs.Trials = c.Trials
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/baseline"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/engine"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
)

const (
	DefaultRatingsPath = "datasets/input.dat"
	DefaultUsersPath   = "datasets/explore.dat"
	DefaultCommand     = "./bin/recommender"
	DefaultReportPath  = "result"
	DefaultEngineName  = "recommender"
)

func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NewMissingFile(path, err)
		}
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Default is the plan used when no file is given.
func Default() *Plan {
	p := &Plan{}
	p.applyDefaults()
	return p
}

// Validate fills unset values with defaults and rejects invalid ones.
func (p *Plan) Validate() error {
	p.applyDefaults()

	switch p.Engine.Type {
	case EngineProcess:
		if p.Engine.Command == "" {
			return apperr.NewValidation(fmt.Sprintf("engine %q has no command", p.Engine.Name))
		}
	case EngineHTTP:
		if p.Engine.URL == "" {
			return apperr.NewValidation(fmt.Sprintf("engine %q has no url", p.Engine.Name))
		}
	default:
		return apperr.NewValidation(fmt.Sprintf("engine %q has invalid type %q", p.Engine.Name, p.Engine.Type))
	}
	if p.Engine.Timeout < 0 {
		return apperr.NewValidation("engine timeout must not be negative")
	}

	b := p.Baseline
	if b.MinRatingsPerUser <= 0 || b.SampleSize <= 0 {
		return apperr.NewValidation("baseline sizes must be positive")
	}
	if b.TrainFraction <= 0 || b.TrainFraction >= 1 {
		return apperr.NewValidation(fmt.Sprintf("baseline train_fraction %v outside (0,1)", b.TrainFraction))
	}

	h := p.Holdout
	if h.CandidatePool <= 0 || h.TestUsers <= 0 || h.MinRatings <= 0 || h.MinHoldout <= 0 {
		return apperr.NewValidation("holdout sizes must be positive")
	}
	if h.HoldoutFraction <= 0 || h.HoldoutFraction >= 1 {
		return apperr.NewValidation(fmt.Sprintf("holdout_fraction %v outside (0,1)", h.HoldoutFraction))
	}
	if p.Runs.Trials < 0 {
		return apperr.NewValidation("trials must not be negative")
	}

	return nil
}

func (p *Plan) applyDefaults() {
	if p.Files.Ratings == "" {
		p.Files.Ratings = DefaultRatingsPath
	}
	if p.Files.Users == "" {
		p.Files.Users = DefaultUsersPath
	}

	if p.Engine.Name == "" {
		p.Engine.Name = DefaultEngineName
	}
	if p.Engine.Type == "" {
		p.Engine.Type = EngineProcess
	}
	if p.Engine.Type == EngineProcess {
		if p.Engine.Command == "" {
			p.Engine.Command = DefaultCommand
		}
		if p.Engine.Report == "" {
			p.Engine.Report = DefaultReportPath
		}
	}

	if p.Baseline.MinRatingsPerUser == 0 {
		p.Baseline.MinRatingsPerUser = baseline.DefaultMinRatingsPerUser
	}
	if p.Baseline.SampleSize == 0 {
		p.Baseline.SampleSize = baseline.DefaultSampleSize
	}
	if p.Baseline.TrainFraction == 0 {
		p.Baseline.TrainFraction = baseline.DefaultTrainFraction
	}

	d := holdout.DefaultConfig()
	if p.Holdout.CandidatePool == 0 {
		p.Holdout.CandidatePool = d.CandidatePool
	}
	if p.Holdout.TestUsers == 0 {
		p.Holdout.TestUsers = d.TestUsers
	}
	if p.Holdout.MinRatings == 0 {
		p.Holdout.MinRatings = d.MinRatings
	}
	if p.Holdout.HoldoutFraction == 0 {
		p.Holdout.HoldoutFraction = d.HoldoutFraction
	}
	if p.Holdout.MinHoldout == 0 {
		p.Holdout.MinHoldout = d.MinHoldout
	}

	if p.Runs.Trials == 0 {
		p.Runs.Trials = 1
	}
}

func (p *Plan) BaselineConfig() baseline.Config {
	return baseline.Config{
		MinRatingsPerUser: p.Baseline.MinRatingsPerUser,
		SampleSize:        p.Baseline.SampleSize,
		TrainFraction:     p.Baseline.TrainFraction,
	}
}

func (p *Plan) HoldoutConfig() holdout.Config {
	return holdout.Config{
		CandidatePool:   p.Holdout.CandidatePool,
		TestUsers:       p.Holdout.TestUsers,
		MinRatings:      p.Holdout.MinRatings,
		HoldoutFraction: p.Holdout.HoldoutFraction,
		MinHoldout:      p.Holdout.MinHoldout,
	}
}

// HoldoutFiles returns the files the harness mutates. For a process engine
// with a working directory, relative paths are resolved against it so the
// harness changes the same files the recommender reads.
func (p *Plan) HoldoutFiles() holdout.Files {
	return holdout.Files{
		Ratings: p.resolve(p.Files.Ratings),
		Users:   p.resolve(p.Files.Users),
	}
}

func (p *Plan) resolve(path string) string {
	if p.Engine.Type != EngineProcess || p.Engine.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Engine.Dir, path)
}

func (p *Plan) EngineConfig() engine.Config {
	return engine.Config{
		Name:       p.Engine.Name,
		Type:       p.Engine.Type,
		Command:    p.Engine.Command,
		Dir:        p.Engine.Dir,
		Report:     p.Engine.Report,
		URL:        p.Engine.URL,
		Timeout:    p.Engine.Timeout,
		KeepReport: p.Engine.KeepReport,
	}
}

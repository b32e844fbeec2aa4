package matching

import (
	"context"
	"fmt"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/optimizer"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultJobTitleLimit = 3

// Request is a single resume / job description pair. JobTitle is optional;
// the first line of the job description is used when it is empty.
type Request struct {
	ResumeText string
	JobText    string
	JobTitle   string
}

// Report is the result of one analysis run.
type Report struct {
	RunID string `json:"run_id"`
	scoring.Report

	JobTitleMatches []taxonomy.JobTitleMatch `json:"job_title_matches"`
	ResumeSkills    map[string]int           `json:"resume_skills"`
	JobSkills       map[string]int           `json:"job_skills"`
	SoftSkills      *SoftSkillsReport        `json:"soft_skills,omitempty"`
	Warnings        []string                 `json:"warnings,omitempty"`
	Stages          []Status                 `json:"stages"`
}

// Analyzer runs the analysis stages. It holds no request state and may be
// shared between goroutines.
type Analyzer struct {
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) *Analyzer {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Optimizer == nil {
		deps.Optimizer = optimizer.New(deps.Taxonomy, deps.Logger)
	}
	if deps.Scorer == nil {
		deps.Scorer = scoring.New(nil, deps.Logger)
	}
	if cfg.JobTitleLimit <= 0 {
		cfg.JobTitleLimit = DefaultJobTitleLimit
	}
	return &Analyzer{cfg: cfg, deps: deps}
}

// Stages returns a fresh stage list with the stages that cannot run on the
// configured dependencies already disabled.
func (a *Analyzer) Stages() []Stage {
	stages := []Stage{
		&normalizeStage{},
		&extractStage{},
		&jobTitleStage{},
		&optimizeStage{},
		&alignStage{},
		&softSkillsStage{},
		&scoreStage{},
	}

	if a.deps.Taxonomy == nil {
		for _, name := range []string{StageJobTitle, StageOptimize, StageAlign} {
			DisableByName(stages, name, "no skill taxonomy loaded")
		}
	}
	if a.deps.SoftSkills == nil {
		DisableByName(stages, StageSoftSkills, "no soft skill taxonomy loaded")
	}

	return stages
}

func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	runID := uuid.NewString()
	deps := a.deps
	deps.Logger = logger.WithRunID(deps.Logger, runID)

	stages := a.Stages()
	st := &State{Request: req}

	deps.Logger.Debug("starting analysis", zap.String("job_title", req.JobTitle))
	if err := Run(ctx, &a.cfg, deps, stages, st); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", runID, err)
	}

	if st.Result == nil {
		return nil, fmt.Errorf("analysis %s: no score computed", runID)
	}

	resume, job := st.ResumeKeywords.Set(), st.JobKeywords.Set()
	report := &Report{
		RunID:           runID,
		Report:          st.Result.Report(resume, job),
		JobTitleMatches: nonNilMatches(st.Matches),
		ResumeSkills:    nonNilMap(st.ResumeSkills),
		JobSkills:       nonNilMap(st.JobSkills),
		SoftSkills:      st.Soft,
		Warnings:        st.Warnings,
		Stages:          Describe(stages),
	}

	deps.Logger.Info("analysis finished",
		zap.Float64("overall_score", report.OverallScore),
		zap.Int("warnings", len(report.Warnings)),
	)

	return report, nil
}

func nonNilMatches(m []taxonomy.JobTitleMatch) []taxonomy.JobTitleMatch {
	if m == nil {
		return []taxonomy.JobTitleMatch{}
	}
	return m
}

func nonNilMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

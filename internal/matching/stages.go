package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/keywords"
	"github.com/spigell/resume-matcher/internal/optimizer"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"
	"github.com/spigell/resume-matcher/internal/textnorm"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	StageNormalize  = "normalize"
	StageExtract    = "extract"
	StageJobTitle   = "job_title"
	StageOptimize   = "optimize"
	StageAlign      = "align"
	StageSoftSkills = "soft_skills"
	StageScore      = "score"
)

// State is the request-local data passed between stages.
type State struct {
	Request Request

	ResumeText string
	JobText    string

	ResumeKeywords keywords.Keywords
	JobKeywords    keywords.Keywords

	Matches []taxonomy.JobTitleMatch

	ResumeSkills map[string]int
	JobSkills    map[string]int

	Soft *SoftSkillsReport

	Result   *scoring.Result
	Warnings []string
}

func (st *State) warn(msg string) {
	st.Warnings = append(st.Warnings, msg)
}

type normalizeStage struct{ toggle }

func (s *normalizeStage) Name() string           { return StageNormalize }
func (s *normalizeStage) Validate(*Config) error { return nil }
func (s *normalizeStage) Status() Status         { return s.status(s.Name(), nil) }

func (s *normalizeStage) Apply(_ context.Context, _ Deps, st *State) (Step, error) {
	st.ResumeText = textnorm.Normalize(st.Request.ResumeText)
	st.JobText = textnorm.Normalize(st.Request.JobText)

	if strings.TrimSpace(st.ResumeText) == "" {
		return Step{}, errors.New("resume text is empty")
	}
	if strings.TrimSpace(st.JobText) == "" {
		return Step{}, errors.New("job description text is empty")
	}

	return Step{Initial: 2, Left: 2}, nil
}

type extractStage struct{ toggle }

func (s *extractStage) Name() string           { return StageExtract }
func (s *extractStage) Validate(*Config) error { return nil }
func (s *extractStage) Status() Status         { return s.status(s.Name(), nil) }

func (s *extractStage) Apply(ctx context.Context, _ Deps, st *State) (Step, error) {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		st.ResumeKeywords = keywords.Extract(st.ResumeText)
		return nil
	})
	g.Go(func() error {
		st.JobKeywords = keywords.Extract(st.JobText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Step{}, err
	}

	left := len(st.ResumeKeywords) + len(st.JobKeywords)
	return Step{Initial: 0, Left: left}, nil
}

type jobTitleStage struct {
	toggle
	limit int
}

func (s *jobTitleStage) Name() string   { return StageJobTitle }
func (s *jobTitleStage) Status() Status { return s.status(s.Name(), map[string]string{"limit": strconv.Itoa(s.limit)}) }

func (s *jobTitleStage) Validate(cfg *Config) error {
	if cfg == nil || cfg.JobTitleLimit <= 0 {
		return errors.New("job title limit must be positive")
	}
	s.limit = cfg.JobTitleLimit
	return nil
}

func (s *jobTitleStage) Apply(_ context.Context, deps Deps, st *State) (Step, error) {
	if deps.Taxonomy == nil {
		return Step{}, errors.New("taxonomy is required")
	}

	query := strings.TrimSpace(st.Request.JobTitle)
	if query == "" {
		query = FirstLine(st.Request.JobText)
		if deps.Logger != nil {
			deps.Logger.Debug("job title not given, using the first line of the job description", zap.String("query", query))
		}
	}

	st.Matches = deps.Taxonomy.FindJobTitleMatches(query, s.limit)
	if len(st.Matches) == 0 {
		st.warn("no job title matches found, keywords are not optimized")
	}

	initial := deps.Taxonomy.Len()
	return Step{Initial: initial, Dropped: initial - len(st.Matches), Left: len(st.Matches)}, nil
}

type optimizeStage struct{ toggle }

func (s *optimizeStage) Name() string           { return StageOptimize }
func (s *optimizeStage) Validate(*Config) error { return nil }
func (s *optimizeStage) Status() Status         { return s.status(s.Name(), nil) }

func (s *optimizeStage) Apply(_ context.Context, deps Deps, st *State) (Step, error) {
	if deps.Optimizer == nil {
		return Step{}, errors.New("optimizer is required")
	}

	initial := len(st.ResumeKeywords) + len(st.JobKeywords)
	st.ResumeKeywords = deps.Optimizer.Optimize(st.Matches, st.ResumeKeywords)
	st.JobKeywords = deps.Optimizer.Optimize(st.Matches, st.JobKeywords)

	left := len(st.ResumeKeywords) + len(st.JobKeywords)
	replaced := countProvenance(st.ResumeKeywords, keywords.Optimized) + countProvenance(st.JobKeywords, keywords.Optimized)
	return Step{Initial: initial, Dropped: replaced, Left: left}, nil
}

type alignStage struct{ toggle }

func (s *alignStage) Name() string           { return StageAlign }
func (s *alignStage) Validate(*Config) error { return nil }
func (s *alignStage) Status() Status         { return s.status(s.Name(), nil) }

func (s *alignStage) Apply(_ context.Context, deps Deps, st *State) (Step, error) {
	if deps.Optimizer == nil {
		return Step{}, errors.New("optimizer is required")
	}

	actual := deps.Optimizer.ActualKeywords(st.Matches)
	st.ResumeSkills = deps.Optimizer.Align(st.ResumeKeywords.Strings(), actual)
	st.JobSkills = deps.Optimizer.Align(st.JobKeywords.Strings(), actual)

	initial := 2 * actual.Len()
	left := len(st.ResumeSkills) + len(st.JobSkills)
	return Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

// SoftSkillsReport lists the soft skills found in each document.
type SoftSkillsReport struct {
	ResumeSkills []string `json:"resume_skills"`
	JobSkills    []string `json:"job_skills"`
	Common       []string `json:"common"`
	MatchScore   float64  `json:"match_score"`
}

type softSkillsStage struct{ toggle }

func (s *softSkillsStage) Name() string           { return StageSoftSkills }
func (s *softSkillsStage) Validate(*Config) error { return nil }
func (s *softSkillsStage) Status() Status         { return s.status(s.Name(), nil) }

// Apply aligns the extracted keywords of both documents with the whole soft
// skill vocabulary, independent of the job title.
func (s *softSkillsStage) Apply(_ context.Context, deps Deps, st *State) (Step, error) {
	if deps.SoftSkills == nil || deps.Optimizer == nil {
		return Step{}, errors.New("soft skill taxonomy and optimizer are required")
	}

	pool := deps.SoftSkills.AllSkills()
	actual := optimizer.CountsOf(pool)

	found := func(kw keywords.Keywords) []string {
		optimized := deps.Optimizer.Replace(kw, pool)
		aligned := deps.Optimizer.Align(optimized.Strings(), actual)
		return sortedKeys(aligned)
	}

	resume := found(st.ResumeKeywords)
	job := found(st.JobKeywords)

	st.Soft = &SoftSkillsReport{
		ResumeSkills: resume,
		JobSkills:    job,
		Common:       scoring.CommonKeywords(resume, job),
		MatchScore:   scoring.Percent(scoring.OverlapRatio(resume, job)),
	}

	return Step{Initial: len(pool), Dropped: len(pool) - len(st.Soft.Common), Left: len(st.Soft.Common)}, nil
}

type scoreStage struct {
	toggle
	strict bool
}

func (s *scoreStage) Name() string { return StageScore }

func (s *scoreStage) Status() Status {
	return s.status(s.Name(), map[string]string{"strict": strconv.FormatBool(s.strict)})
}

func (s *scoreStage) Validate(cfg *Config) error {
	s.strict = cfg != nil && cfg.Strict
	return nil
}

func (s *scoreStage) Apply(ctx context.Context, deps Deps, st *State) (Step, error) {
	if deps.Scorer == nil {
		return Step{}, errors.New("scorer is required")
	}

	resume, job := st.ResumeKeywords.Set(), st.JobKeywords.Set()
	step := func(r *scoring.Result) Step {
		jobSet := len(job)
		return Step{Initial: jobSet, Dropped: jobSet - len(r.CommonKeywords), Left: len(r.CommonKeywords)}
	}

	if deps.Scorer.Encoder == nil {
		st.Result = deps.Scorer.KeywordOnly(resume, job)
		st.warn("semantic scoring is disabled")
		return step(st.Result), nil
	}

	result, err := deps.Scorer.Score(ctx, st.ResumeText, st.JobText, resume, job)
	if err != nil {
		if s.strict || !errors.Is(err, ai.ErrSemanticScoringUnavailable) {
			return Step{}, err
		}
		if deps.Logger != nil {
			deps.Logger.Warn("semantic scoring failed, reporting keyword overlap only", zap.Error(err))
		}
		st.warn(fmt.Sprintf("semantic scoring unavailable: %v", err))
	}

	st.Result = result
	return step(result), nil
}

func countProvenance(kw keywords.Keywords, p keywords.Provenance) int {
	n := 0
	for _, k := range kw {
		if k.Provenance == p {
			n++
		}
	}
	return n
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FirstLine returns the first non-blank line of text, trimmed.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

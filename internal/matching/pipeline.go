// Package matching runs the keyword and scoring stages that turn a resume and
// a job description into a fit report.
package matching

import (
	"context"
	"fmt"

	"github.com/spigell/resume-matcher/internal/optimizer"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/taxonomy"

	"go.uber.org/zap"
)

// Stage is a single step of the analysis pipeline.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, st *State) (Step, error)
}

// Deps aggregates the long-lived services shared by all stages. They are
// read-only for the pipeline.
type Deps struct {
	Taxonomy   *taxonomy.Taxonomy
	SoftSkills *taxonomy.Taxonomy
	Optimizer  *optimizer.Optimizer
	Scorer     *scoring.Scorer
	Logger     *zap.Logger
}

// Step reports how many items a stage received, dropped and passed on.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config holds the settings consumed by the stages.
type Config struct {
	JobTitleLimit int
	// Strict turns a semantic scoring failure into an error instead of a
	// keyword-only report.
	Strict bool
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// toggle implements the Disable/IsEnabled part of Stage.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) status(name string, details map[string]string) Status {
	return Status{Name: name, Enabled: !t.disabled, Reason: t.reason, Details: details}
}

// DisableByName marks the stage with the provided name as disabled while
// keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

// Run validates the enabled stages and then applies them in order.
func Run(ctx context.Context, cfg *Config, deps Deps, stages []Stage, st *State) error {
	for _, stage := range stages {
		if !stage.IsEnabled() {
			continue
		}
		if err := stage.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, stage := range stages {
		if !stage.IsEnabled() {
			log.Info("stage disabled", zap.String("name", stage.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := stage.Apply(ctx, deps, st)
		if err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		log.Info("analysis stage",
			zap.String("name", stage.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
	}

	return nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if reporter, ok := stage.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    stage.Name(),
			Enabled: stage.IsEnabled(),
		})
	}
	return statuses
}

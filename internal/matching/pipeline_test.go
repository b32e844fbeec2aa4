package matching

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingStage struct {
	toggle
	name        string
	validateErr error
	applyErr    error
	applied     *[]string
}

func (s *recordingStage) Name() string { return s.name }

func (s *recordingStage) Validate(*Config) error { return s.validateErr }

func (s *recordingStage) Apply(context.Context, Deps, *State) (Step, error) {
	*s.applied = append(*s.applied, s.name)
	return Step{Initial: 3, Dropped: 1, Left: 2}, s.applyErr
}

func TestRunOrderAndLogging(t *testing.T) {
	t.Parallel()

	var applied []string
	stages := []Stage{
		&recordingStage{name: "first", applied: &applied},
		&recordingStage{name: "second", applied: &applied, validateErr: errors.New("not checked")},
		&recordingStage{name: "third", applied: &applied},
	}
	DisableByName(stages, "second", "turned off")

	core, observed := observer.New(zapcore.InfoLevel)
	if err := Run(context.Background(), &Config{}, Deps{Logger: zap.New(core)}, stages, &State{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(applied) != 2 || applied[0] != "first" || applied[1] != "third" {
		t.Fatalf("unexpected applied stages: %v", applied)
	}

	entries := observed.FilterMessage("analysis stage").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 stage entries, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["name"] != "first" || ctx["initial"] != int64(3) || ctx["dropped"] != int64(1) || ctx["left"] != int64(2) {
		t.Fatalf("unexpected stage fields: %v", ctx)
	}

	statuses := Describe(stages)
	if statuses[1].Enabled || statuses[1].Name != "second" {
		t.Fatalf("unexpected status: %+v", statuses[1])
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	var applied []string
	boom := errors.New("boom")

	err := Run(context.Background(), &Config{}, Deps{}, []Stage{
		&recordingStage{name: "ok", applied: &applied},
		&recordingStage{name: "invalid", applied: &applied, validateErr: boom},
	}, &State{})
	if !errors.Is(err, boom) || len(applied) != 0 {
		t.Fatalf("expected validation to fail before any stage runs, got %v (applied %v)", err, applied)
	}

	err = Run(context.Background(), &Config{}, Deps{}, []Stage{
		&recordingStage{name: "failing", applied: &applied, applyErr: boom},
		&recordingStage{name: "never", applied: &applied},
	}, &State{})
	if !errors.Is(err, boom) || len(applied) != 1 {
		t.Fatalf("expected the pipeline to stop at the failing stage, got %v (applied %v)", err, applied)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, &Config{}, Deps{}, []Stage{&recordingStage{name: "x", applied: &applied}}, &State{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestJobTitleStageValidate(t *testing.T) {
	t.Parallel()

	s := &jobTitleStage{}
	if err := s.Validate(&Config{JobTitleLimit: 0}); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
	if err := s.Validate(&Config{JobTitleLimit: 5}); err != nil || s.Status().Details["limit"] != "5" {
		t.Fatalf("unexpected validation result: %v %+v", err, s.Status())
	}
}

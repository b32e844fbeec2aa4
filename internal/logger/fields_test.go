package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  source  ", Value: "  data/job_skills.json  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "source" || fields[0].String != "data/job_skills.json" {
		t.Fatalf("unexpected source field: %+v", fields[0])
	}

	if len(StringFields()) != 0 {
		t.Fatalf("expected no fields")
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	enriched := WithFields(nil, zap.String("stage", "extract"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// The no-op fallback must accept entries.
	enriched.Info("another log")
}

func TestEncoderAndRunFields(t *testing.T) {
	tests := []struct {
		name  string
		build func(*zap.Logger) *zap.Logger
		want  map[string]string
	}{
		{
			name:  "encoder",
			build: func(l *zap.Logger) *zap.Logger { return WithCommonFields(l, " gemini ", "text-embedding-004") },
			want:  map[string]string{FieldProvider: "gemini", FieldModel: "text-embedding-004"},
		},
		{
			name:  "encoder without model",
			build: func(l *zap.Logger) *zap.Logger { return WithCommonFields(l, "local", "") },
			want:  map[string]string{FieldProvider: "local"},
		},
		{
			name:  "run id",
			build: func(l *zap.Logger) *zap.Logger { return WithRunID(l, "3f1c") },
			want:  map[string]string{FieldRunID: "3f1c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.InfoLevel)
			tt.build(zap.New(core)).Info("test log")

			entries := observed.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}

			ctx := entries[0].ContextMap()
			if len(ctx) != len(tt.want) {
				t.Fatalf("unexpected fields: %v", ctx)
			}
			for key, value := range tt.want {
				if ctx[key] != value {
					t.Fatalf("expected %s=%q, got %v", key, value, ctx[key])
				}
			}
		})
	}

	if WithRunID(nil, "") == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		l, err := New(json, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("expected debug level to be enabled")
		}
	}

	l, err := New(false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be disabled")
	}
}

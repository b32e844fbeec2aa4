package taxonomy

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const mirrorSkillSeparator = ";"

type loadOptions struct {
	mirror string
	logger *zap.Logger
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithMirror writes a CSV copy of the loaded records to path. The mirror is
// for inspection only and is never read back.
func WithMirror(path string) LoadOption {
	return func(o *loadOptions) {
		o.mirror = strings.TrimSpace(path)
	}
}

func WithLogger(logger *zap.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Load reads and decodes the taxonomy from src. Any failure is returned as a
// *LoadError. A failing mirror write is logged and does not fail the load.
func Load(ctx context.Context, src Source, opts ...LoadOption) (*Taxonomy, error) {
	o := &loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	name := src.Name()
	o.logger.Debug("reading taxonomy", zap.String("source", name))

	data, format, err := src.Read(ctx)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	records, err := decodeRecords(data, format)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	t, err := New(records)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	o.logger.Info("taxonomy loaded", zap.String("source", name), zap.Int("records", t.Len()))

	if o.mirror != "" {
		if err := t.writeMirror(o.mirror); err != nil {
			o.logger.Warn("failed to write taxonomy mirror", zap.String("path", o.mirror), zap.Error(err))
		} else {
			o.logger.Debug("taxonomy mirror written", zap.String("path", o.mirror))
		}
	}

	return t, nil
}

func decodeRecords(data []byte, format Format) ([]SkillRecord, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unsupported document shape %T: expected a list of records", raw)
	}

	var records []SkillRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// Numeric ids are accepted and read as strings.
		WeaklyTypedInput: true,
		Result:           &records,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	return records, nil
}

// WriteCSV writes the records as an `id,skills` table with the skills of a
// record joined by semicolons.
func (t *Taxonomy) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "skills"}); err != nil {
		return err
	}
	for _, record := range t.records {
		if err := writer.Write([]string{record.ID, strings.Join(record.Skills, mirrorSkillSeparator)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (t *Taxonomy) writeMirror(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

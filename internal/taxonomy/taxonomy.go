// Package taxonomy holds the read-only table of job titles and their skills.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-matcher/internal/fuzzy"
)

var (
	// ErrLoad marks every failure to read or decode a taxonomy source.
	ErrLoad = errors.New("taxonomy load failed")
	// ErrNotFound is returned by Lookup for unknown job titles.
	ErrNotFound = errors.New("job title not found")
)

// LoadError wraps the cause of a failed load together with the source it
// came from. It matches both ErrLoad and the cause with errors.Is.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load taxonomy from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// SkillRecord is a job title and the skills listed for it.
type SkillRecord struct {
	ID     string   `mapstructure:"id" json:"id" yaml:"id"`
	Skills []string `mapstructure:"skills" json:"skills" yaml:"skills"`
}

// JobTitleMatch is a job title ranked against a query.
type JobTitleMatch struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	// Index is the position of the title in the loaded record list.
	Index int `json:"-"`
}

// Taxonomy must not be modified after construction. All methods are safe for
// concurrent use.
type Taxonomy struct {
	records []SkillRecord
	ids     []string
	byID    map[string]int
}

// New builds a taxonomy from records. Records keep their order. When an id
// repeats, Lookup resolves to its first record.
func New(records []SkillRecord) (*Taxonomy, error) {
	t := &Taxonomy{
		records: make([]SkillRecord, 0, len(records)),
		ids:     make([]string, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}

	for i, record := range records {
		id := strings.TrimSpace(record.ID)
		if id == "" {
			return nil, fmt.Errorf("record %d has an empty id", i)
		}

		skills := make([]string, 0, len(record.Skills))
		for _, skill := range record.Skills {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills = append(skills, skill)
			}
		}

		if _, ok := t.byID[id]; !ok {
			t.byID[id] = len(t.records)
		}
		t.records = append(t.records, SkillRecord{ID: id, Skills: skills})
		t.ids = append(t.ids, id)
	}

	return t, nil
}

func (t *Taxonomy) Len() int {
	return len(t.records)
}

// Records returns a copy of the loaded records.
func (t *Taxonomy) Records() []SkillRecord {
	result := make([]SkillRecord, 0, len(t.records))
	for _, record := range t.records {
		result = append(result, SkillRecord{
			ID:     record.ID,
			Skills: append([]string(nil), record.Skills...),
		})
	}
	return result
}

// Lookup returns the skills of the given job title.
func (t *Taxonomy) Lookup(id string) ([]string, error) {
	idx, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return append([]string(nil), t.records[idx].Skills...), nil
}

// FindJobTitleMatches ranks every job title against query and returns at most
// limit matches by descending score. Equal scores keep record order.
func (t *Taxonomy) FindJobTitleMatches(query string, limit int) []JobTitleMatch {
	if limit <= 0 {
		return nil
	}

	matches := fuzzy.Extract(query, t.ids, fuzzy.WRatio, limit)
	result := make([]JobTitleMatch, 0, len(matches))
	for _, m := range matches {
		result = append(result, JobTitleMatch{Title: m.Choice, Score: m.Score, Index: m.Index})
	}
	return result
}

// SkillsFor returns the skills of the matched title, or nil when the title
// is unknown to this taxonomy.
func (t *Taxonomy) SkillsFor(match JobTitleMatch) []string {
	skills, err := t.Lookup(match.Title)
	if err != nil {
		return nil
	}
	return skills
}

// AllSkills returns every distinct skill across all records in first-seen
// order.
func (t *Taxonomy) AllSkills() []string {
	seen := make(map[string]struct{})
	var result []string
	for _, record := range t.records {
		for _, skill := range record.Skills {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			result = append(result, skill)
		}
	}
	return result
}

// Package optimizer aligns extracted keywords with the canonical skill
// vocabulary of a taxonomy.
package optimizer

import (
	"github.com/spigell/resume-matcher/internal/fuzzy"
	"github.com/spigell/resume-matcher/internal/keywords"
	"github.com/spigell/resume-matcher/internal/taxonomy"

	"go.uber.org/zap"
)

const (
	DefaultReplaceThreshold   = 95
	DefaultAlignmentThreshold = 0.90
)

type Optimizer struct {
	Taxonomy *taxonomy.Taxonomy
	// ReplaceThreshold is the minimal token sort score (inclusive) for a
	// keyword to be swapped with a skill from the pool.
	ReplaceThreshold int
	// AlignmentThreshold is the minimal TF-IDF cosine (inclusive) for a skill
	// to be reported by ProcessKeywords.
	AlignmentThreshold float64
	Logger             *zap.Logger
}

func New(tax *taxonomy.Taxonomy, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		Taxonomy:           tax,
		ReplaceThreshold:   DefaultReplaceThreshold,
		AlignmentThreshold: DefaultAlignmentThreshold,
		Logger:             logger,
	}
}

// Counts is a skill frequency table that remembers insertion order.
type Counts struct {
	Keys []string
	Freq map[string]int
}

func newCounts() *Counts {
	return &Counts{Freq: make(map[string]int)}
}

func (c *Counts) add(skill string) {
	if _, ok := c.Freq[skill]; !ok {
		c.Keys = append(c.Keys, skill)
	}
	c.Freq[skill]++
}

func (c *Counts) Len() int {
	return len(c.Keys)
}

// CountsOf counts every skill once per occurrence.
func CountsOf(skills []string) *Counts {
	c := newCounts()
	for _, skill := range skills {
		c.add(skill)
	}
	return c
}

// RelevantSkills concatenates the skill lists of every matched title,
// duplicates included, in match order.
func (o *Optimizer) RelevantSkills(matches []taxonomy.JobTitleMatch) []string {
	if o.Taxonomy == nil {
		return nil
	}

	var pool []string
	for _, match := range matches {
		pool = append(pool, o.Taxonomy.SkillsFor(match)...)
	}
	return pool
}

// ActualKeywords counts, for each skill, how many matched titles list it.
func (o *Optimizer) ActualKeywords(matches []taxonomy.JobTitleMatch) *Counts {
	return CountsOf(o.RelevantSkills(matches))
}

// Optimize replaces candidates with skills of the matched titles.
func (o *Optimizer) Optimize(matches []taxonomy.JobTitleMatch, candidates keywords.Keywords) keywords.Keywords {
	return o.Replace(candidates, o.RelevantSkills(matches))
}

// Replace walks the candidates in order and finds the best pool entry for
// each by token sort ratio, the first one winning ties. When the score
// reaches ReplaceThreshold the first remaining occurrence of the candidate
// is removed and the pool entry is appended. An empty pool leaves the
// candidates unchanged.
func (o *Optimizer) Replace(candidates keywords.Keywords, pool []string) keywords.Keywords {
	result := append(keywords.Keywords(nil), candidates...)
	if len(pool) == 0 {
		o.logger().Debug("empty skill pool, keywords left unchanged", zap.Int("keywords", len(candidates)))
		return result
	}

	replaced := 0
	for _, candidate := range candidates {
		best, ok := fuzzy.ExtractOne(candidate.Text, pool, fuzzy.TokenSortRatio)
		if !ok || best.Score < o.ReplaceThreshold {
			continue
		}

		result = removeFirst(result, candidate.Text)
		result = append(result, keywords.FromStrings([]string{best.Choice}, keywords.Optimized)...)
		replaced++
	}

	o.logger().Debug("keywords optimized",
		zap.Int("keywords", len(candidates)),
		zap.Int("pool", len(pool)),
		zap.Int("replaced", replaced),
	)

	return result
}

func removeFirst(list keywords.Keywords, text string) keywords.Keywords {
	for i, kw := range list {
		if kw.Text == text {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// ProcessKeywords reports the taxonomy skills of the matched titles that are
// aligned with at least one optimized keyword, together with their frequency.
func (o *Optimizer) ProcessKeywords(optimized []string, matches []taxonomy.JobTitleMatch) map[string]int {
	return o.Align(optimized, o.ActualKeywords(matches))
}

// Align vectorizes the optimized keywords and the actual skills with a shared
// TF-IDF vocabulary, one document per entry, and keeps every actual skill
// whose cosine to some optimized keyword reaches AlignmentThreshold.
// Degenerate input (no keywords, no skills or fewer than two distinct terms)
// yields an empty map.
func (o *Optimizer) Align(optimized []string, actual *Counts) map[string]int {
	result := make(map[string]int)
	if len(optimized) == 0 || actual == nil || actual.Len() == 0 {
		return result
	}

	docs := make([]string, 0, len(optimized)+actual.Len())
	docs = append(docs, optimized...)
	docs = append(docs, actual.Keys...)

	if vocabularySize(docs) < 2 {
		o.logger().Debug("degenerate vocabulary, no alignment", zap.Int("documents", len(docs)))
		return result
	}

	rows := tfidf(docs)
	optRows, actRows := rows[:len(optimized)], rows[len(optimized):]

	for _, opt := range optRows {
		for j, act := range actRows {
			sim, ok := cosine(opt, act)
			if !ok || sim < o.AlignmentThreshold {
				continue
			}
			skill := actual.Keys[j]
			result[skill] = actual.Freq[skill]
		}
	}

	return result
}

func (o *Optimizer) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

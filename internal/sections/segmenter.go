// Package sections rebuilds the header/title/content structure of a resume
// from its plain text lines.
package sections

import (
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/fuzzy"
	"github.com/spigell/resume-matcher/internal/textnorm"

	"go.uber.org/zap"
)

const (
	// DefaultHeaderThreshold is the minimal similarity (0-100) to a known
	// header for a line to be classified as one.
	DefaultHeaderThreshold = 80
	// maxTitleWords is the longest line, in words, still treated as a title.
	maxTitleWords = 10
)

// DefaultHeaders is the canonical header vocabulary.
var DefaultHeaders = []string{
	"education", "experience", "work history", "professional background", "skills", "abilities",
	"competencies", "projects", "portfolio", "certifications", "credentials", "licenses",
	"awards", "honors", "publications", "papers", "articles", "interests", "hobbies",
	"summary", "objective", "languages", "activities", "references",
	"work experience", "academic projects", "professional experience", "professional summary",
}

// Segmenter classifies header lines and splits documents into sections.
// It holds no mutable state and is safe for concurrent use.
type Segmenter struct {
	headers   []string
	threshold int
	logger    *zap.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithHeaders replaces the header vocabulary.
func WithHeaders(headers []string) Option {
	return func(s *Segmenter) {
		if len(headers) > 0 {
			s.headers = append([]string(nil), headers...)
		}
	}
}

// WithThreshold sets the header similarity threshold.
func WithThreshold(threshold int) Option {
	return func(s *Segmenter) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Segmenter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		headers:   DefaultHeaders,
		threshold: DefaultHeaderThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsHeader reports whether line looks like a section header: close enough
// to a known header by weighted ratio, fully upper-case, or ending with a colon.
// Weighted ratio lets qualified headers such as "technical skills" match.
func (s *Segmenter) IsHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if textnorm.IsUpper(line) || strings.HasSuffix(line, ":") {
		return true
	}

	_, score := s.bestHeader(line)
	return score >= s.threshold
}

func (s *Segmenter) bestHeader(line string) (string, int) {
	tokens := textnorm.Tokenize(line)
	kept := tokens[:0]
	for _, token := range tokens {
		if utf8.RuneCountInString(token) > 1 {
			kept = append(kept, token)
		}
	}
	cleaned := strings.ToLower(strings.Join(kept, " "))
	if cleaned == "" {
		return "", 0
	}

	match, ok := fuzzy.ExtractOne(cleaned, s.headers, fuzzy.WRatio)
	if !ok {
		return "", 0
	}
	return match.Choice, match.Score
}

// Segment splits text into sections. Every header line opens a new section,
// even when the same header text was already seen. Lines before the first
// header are dropped.
func (s *Segmenter) Segment(text string) []Section {
	var result []Section
	current := -1

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if s.IsHeader(line) {
			result = append(result, Section{Header: line})
			current = len(result) - 1
			continue
		}

		if current >= 0 {
			result[current].Lines = append(result[current].Lines, line)
		}
	}

	return result
}

// SegregateTitleContent splits the content lines of a section into titled
// subsections. Lines of up to ten words open a new subsection; longer lines
// are appended to the open one and dropped when none is open.
func SegregateTitleContent(section Section) []Subsection {
	var result []Subsection
	current := -1

	for _, line := range section.Lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(strings.Fields(line)) <= maxTitleWords {
			result = append(result, Subsection{Title: line, Lines: []string{}})
			current = len(result) - 1
			continue
		}

		if current >= 0 {
			result[current].Lines = append(result[current].Lines, line)
		}
	}

	return result
}

// Build segments text and splits every section into subsections.
func (s *Segmenter) Build(text string) *Tree {
	sections := s.Segment(text)
	subsections := 0
	for i := range sections {
		sections[i].Subsections = SegregateTitleContent(sections[i])
		subsections += len(sections[i].Subsections)
	}

	s.logger.Debug("document segmented",
		zap.Int("sections", len(sections)),
		zap.Int("subsections", subsections),
	)

	return &Tree{Sections: sections}
}

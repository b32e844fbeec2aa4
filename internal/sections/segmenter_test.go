package sections

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleResume = `john doe
john.doe@example.com
summary
data scientist
experienced data scientist with deep knowledge of statistics, python and building machine learning models for production
experience:
acme corp - senior data scientist
led a team of four engineers building forecasting pipelines that reduced inventory costs by twelve percent across regions

designed experiments and dashboards used by product managers to evaluate new features every single week
skills
python, sql, spark
EDUCATION
msc applied mathematics
`

func TestIsHeader(t *testing.T) {
	t.Parallel()

	s := New()
	tests := []struct {
		line string
		want bool
	}{
		{line: "education", want: true},
		{line: "Work Experience", want: true},
		{line: "professional  summary", want: true},
		{line: "technical skills", want: true},
		{line: "relevant experience", want: true},
		{line: "key skills", want: true},
		{line: "education details", want: true},
		{line: "RANDOM WORDS IN CAPITALS", want: true},
		{line: "anything at all:", want: true},
		{line: "led a team of engineers", want: false},
		{line: "python, sql, spark", want: false},
		{line: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			if got := s.IsHeader(tt.line); got != tt.want {
				t.Fatalf("expected IsHeader(%q) = %v, got %v", tt.line, tt.want, got)
			}
		})
	}
}

func TestUpperCaseLineIsAlwaysHeader(t *testing.T) {
	t.Parallel()

	// A threshold above 100 makes fuzzy classification impossible.
	s := New(WithThreshold(101))
	for _, line := range []string{"XYZZY", "QWERTY 2024", "NOT A KNOWN HEADER AT ALL"} {
		if !s.IsHeader(line) {
			t.Fatalf("expected upper-case line %q to be a header", line)
		}
	}
}

func TestSegment(t *testing.T) {
	t.Parallel()

	got := New().Segment(sampleResume)
	want := []Section{
		{Header: "summary", Lines: []string{
			"data scientist",
			"experienced data scientist with deep knowledge of statistics, python and building machine learning models for production",
		}},
		{Header: "experience:", Lines: []string{
			"acme corp - senior data scientist",
			"led a team of four engineers building forecasting pipelines that reduced inventory costs by twelve percent across regions",
			"designed experiments and dashboards used by product managers to evaluate new features every single week",
		}},
		{Header: "skills", Lines: []string{"python, sql, spark"}},
		{Header: "EDUCATION", Lines: []string{"msc applied mathematics"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected sections (-want +got):\n%s", diff)
	}
}

func TestSegmentOpensNewSectionForRepeatedHeader(t *testing.T) {
	t.Parallel()

	text := "intro line\nskills\ngo\nexperience\nacme\nskills\nrust\n"
	got := New().Segment(text)

	headers := make([]string, 0, len(got))
	for _, section := range got {
		headers = append(headers, section.Header)
	}

	want := []string{"skills", "experience", "skills"}
	if diff := cmp.Diff(want, headers); diff != "" {
		t.Fatalf("unexpected headers (-want +got):\n%s", diff)
	}
	if got[2].Lines[0] != "rust" {
		t.Fatalf("expected repeated header to hold its own lines, got %v", got[2].Lines)
	}
}

func TestQualifiedHeaderKeepsItsSection(t *testing.T) {
	t.Parallel()

	long := "one two three four five six seven eight nine ten eleven twelve"
	flat := Flatten(New().Build("technical skills\npython go\n" + long))

	if diff := cmp.Diff([]string{"python go"}, flat.Keys()); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{long}, flat.Get("python go")); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestSegregateTitleContent(t *testing.T) {
	t.Parallel()

	long := "one two three four five six seven eight nine ten eleven"
	section := Section{
		Header: "experience",
		Lines: []string{
			long + " orphan",
			"acme corp",
			"",
			long,
			"globex",
			long + " again",
		},
	}

	got := SegregateTitleContent(section)
	want := []Subsection{
		{Title: "acme corp", Lines: []string{long}},
		{Title: "globex", Lines: []string{long + " again"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected subsections (-want +got):\n%s", diff)
	}
}

func TestBuildEmptySubsections(t *testing.T) {
	t.Parallel()

	tree := New().Build(sampleResume)
	if len(tree.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(tree.Sections))
	}

	skills := tree.Sections[2]
	if len(skills.Subsections) != 1 || !skills.Subsections[0].IsEmpty() {
		t.Fatalf("expected one empty subsection under skills, got %+v", skills.Subsections)
	}
}

package fuzzy

import (
	"testing"
)

func TestScorers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scorer Scorer
		a, b   string
		expect func(int) bool
	}{
		{name: "ratio identical", scorer: Ratio, a: "skills", b: "skills", expect: func(s int) bool { return s == 100 }},
		{name: "ratio empty", scorer: Ratio, a: "", b: "skills", expect: func(s int) bool { return s == 0 }},
		{name: "ratio plural", scorer: Ratio, a: "experience", b: "experiences", expect: func(s int) bool { return s == 95 }},
		{name: "token sort ignores order", scorer: TokenSortRatio, a: "learning machine", b: "Machine Learning", expect: func(s int) bool { return s == 100 }},
		{name: "token sort abbreviation", scorer: TokenSortRatio, a: "ml", b: "machine learning", expect: func(s int) bool { return s < 95 }},
		{name: "partial contained", scorer: PartialRatio, a: "skills", b: "technical skills", expect: func(s int) bool { return s == 100 }},
		{name: "token set subset", scorer: TokenSetRatio, a: "data scientist", b: "senior data scientist", expect: func(s int) bool { return s == 100 }},
		{name: "ratio substitution costs two", scorer: Ratio, a: "kitten", b: "sitting", expect: func(s int) bool { return s == 62 }},
		{name: "token sort near miss", scorer: TokenSortRatio, a: "data analysts", b: "data analysis", expect: func(s int) bool { return s == 92 }},
		{name: "wratio qualified header", scorer: WRatio, a: "technical skills", b: "skills", expect: func(s int) bool { return s == 90 }},
		{name: "wratio header punctuation", scorer: WRatio, a: "Work Experience:", b: "work experience", expect: func(s int) bool { return s == 100 }},
		{name: "wratio unrelated", scorer: WRatio, a: "built etl pipelines", b: "education", expect: func(s int) bool { return s < 80 }},
		{name: "wratio case insensitive", scorer: WRatio, a: "data scientist", b: "Data Scientist", expect: func(s int) bool { return s == 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.scorer(tt.a, tt.b)
			if !tt.expect(got) {
				t.Fatalf("unexpected score %d for %q vs %q", got, tt.a, tt.b)
			}
		})
	}
}

func TestExtractOneTakesFirstMaximum(t *testing.T) {
	t.Parallel()

	match, ok := ExtractOne("sql", []string{"nosql", "sql", "SQL"}, TokenSortRatio)
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Index != 1 || match.Choice != "sql" || match.Score != 100 {
		t.Fatalf("unexpected match: %+v", match)
	}

	if _, ok := ExtractOne("sql", nil, TokenSortRatio); ok {
		t.Fatalf("expected no match for empty choices")
	}
}

func TestExtractOrdersByScoreThenIndex(t *testing.T) {
	t.Parallel()

	choices := []string{"Data Engineer", "Data Scientist", "Senior Data Scientist"}
	matches := Extract("data scientist", choices, WRatio, 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Choice != "Data Scientist" || matches[0].Score != 100 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[1].Choice != "Senior Data Scientist" {
		t.Fatalf("unexpected second match: %+v", matches[1])
	}

	constant := func(string, string) int { return 50 }
	all := Extract("x", []string{"c", "a", "b"}, constant, 0)
	for i, want := range []string{"c", "a", "b"} {
		if all[i].Choice != want || all[i].Index != i {
			t.Fatalf("expected ties to keep input order, got %+v", all)
		}
	}
}

func TestProcess(t *testing.T) {
	t.Parallel()

	if got := Process("  Work-History:\tNOW "); got != "work history now" {
		t.Fatalf("unexpected processed string %q", got)
	}
}

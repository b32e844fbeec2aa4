package scoring

import "math"

// Report is the outward view of a Result. Scores are percentages rounded to
// two decimals.
type Report struct {
	KeywordMatchScore       float64  `json:"keyword_match_score"`
	SemanticSimilarityScore *float64 `json:"semantic_similarity_score"`
	OverallScore            float64  `json:"overall_score"`
	CommonKeywords          []string `json:"common_keywords"`
	JobKeywords             []string `json:"job_keywords"`
	ResumeKeywords          []string `json:"resume_keywords"`
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent turns a ratio into a percentage rounded to two decimals.
func Percent(ratio float64) float64 {
	return Round2(ratio * 100)
}

func (r *Result) Report(resumeKeywords, jobKeywords []string) Report {
	report := Report{
		KeywordMatchScore: Percent(r.KeywordOverlap),
		OverallScore:      Percent(r.Combined),
		CommonKeywords:    nonNil(r.CommonKeywords),
		JobKeywords:       nonNil(jobKeywords),
		ResumeKeywords:    nonNil(resumeKeywords),
	}
	if r.SemanticSimilarity != nil {
		similarity := Percent(*r.SemanticSimilarity)
		report.SemanticSimilarityScore = &similarity
	}
	return report
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

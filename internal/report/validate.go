package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/score"
)

// ValidationError describes a single inconsistency in a report.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Report for internal consistency: the score must match
// the selected criteria, the classification must match the score, the input
// must select the same criteria as the result and the interpretation must be
// the locale text for that result.
func Validate(r *Report) []ValidationError {
	var errs []ValidationError

	if r.Tool == "" {
		errs = append(errs, ValidationError{"tool", "required"})
	}
	if r.Version == "" {
		errs = append(errs, ValidationError{"version", "required"})
	}
	if !r.Language.Valid() {
		errs = append(errs, ValidationError{"language", fmt.Sprintf("invalid language: %q", r.Language)})
	}

	res := r.Result
	if res.MaxScore != score.MaxScore {
		errs = append(errs, ValidationError{"result.max_score", fmt.Sprintf("expected %d, got %d", score.MaxScore, res.MaxScore)})
	}
	if res.Threshold != score.Threshold {
		errs = append(errs, ValidationError{"result.threshold", fmt.Sprintf("expected %d, got %d", score.Threshold, res.Threshold)})
	}

	criteriaOK := true
	seen := make(map[score.Criterion]bool)
	for i, c := range res.Criteria {
		path := fmt.Sprintf("result.criteria[%d]", i)
		if !c.Valid() {
			errs = append(errs, ValidationError{path, fmt.Sprintf("unknown criterion: %q", c)})
			criteriaOK = false
			continue
		}
		if seen[c] {
			errs = append(errs, ValidationError{path, fmt.Sprintf("duplicate criterion: %q", c)})
			criteriaOK = false
		}
		seen[c] = true
	}

	if criteriaOK {
		expected, _ := score.Compute(res.Criteria)
		if res.Score != expected {
			errs = append(errs, ValidationError{"result.score", fmt.Sprintf("score %d does not match computed %d", res.Score, expected)})
		}
	}

	class, err := score.Classify(res.Score)
	if err != nil {
		errs = append(errs, ValidationError{"result.score", err.Error()})
	} else if res.Classification != class {
		errs = append(errs, ValidationError{"result.classification", fmt.Sprintf("expected %q for score %d, got %q", class, res.Score, res.Classification)})
	}

	switch {
	case res.Score == 0 && r.Interpretation != nil:
		errs = append(errs, ValidationError{"interpretation", "must be empty for a zero score"})
	case res.Score > 0 && r.Interpretation == nil:
		errs = append(errs, ValidationError{"interpretation", "required for a non-zero score"})
	case r.Interpretation != nil && r.Interpretation.Classification != res.Classification:
		errs = append(errs, ValidationError{"interpretation.classification", fmt.Sprintf("expected %q, got %q", res.Classification, r.Interpretation.Classification)})
	}

	if criteriaOK {
		errs = append(errs, validateInput(r.Input, res.Criteria)...)
	}
	if err == nil && res.Classification == class && r.Interpretation != nil &&
		r.Interpretation.Classification == res.Classification && r.Language.Valid() {
		errs = append(errs, validateInterpretation(r.Language, res, *r.Interpretation)...)
	}

	return errs
}

func validateInput(in Input, result []score.Criterion) []ValidationError {
	var errs []ValidationError

	dropped := make(map[string]bool, len(in.Dropped))
	for _, d := range in.Dropped {
		dropped[d] = true
	}
	if in.Strict && len(in.Dropped) > 0 {
		errs = append(errs, ValidationError{"input.dropped", "must be empty in strict mode"})
	}

	selected := make(map[score.Criterion]bool)
	for i, s := range in.Criteria {
		if strings.TrimSpace(s) == "" {
			continue
		}
		c, err := score.ParseCriterion(s)
		if err != nil {
			if !dropped[s] {
				errs = append(errs, ValidationError{fmt.Sprintf("input.criteria[%d]", i), fmt.Sprintf("unknown criterion %q is not listed as dropped", s)})
			}
			continue
		}
		selected[c] = true
	}

	want := make(map[score.Criterion]bool, len(result))
	for _, c := range result {
		want[c] = true
	}
	if !maps.Equal(selected, want) {
		errs = append(errs, ValidationError{"input.criteria", fmt.Sprintf("selects [%s], result has [%s]", joinSet(selected), joinSet(want))})
	}
	return errs
}

func joinSet(set map[score.Criterion]bool) string {
	keys := make([]score.Criterion, 0, len(set))
	for c := range set {
		keys = append(keys, c)
	}
	ids := make([]string, 0, len(set))
	for _, c := range score.Normalize(keys) {
		ids = append(ids, string(c))
	}
	return strings.Join(ids, ", ")
}

func validateInterpretation(lang locale.Language, res score.Result, got locale.Interpretation) []ValidationError {
	loc, err := locale.Load(lang)
	if err != nil {
		return []ValidationError{{"language", err.Error()}}
	}
	want, err := loc.Interpret(res)
	if err != nil {
		return []ValidationError{{"interpretation", err.Error()}}
	}

	var errs []ValidationError
	check := func(path, w, g string) {
		if w != g {
			errs = append(errs, ValidationError{path, fmt.Sprintf("expected %q, got %q", w, g)})
		}
	}
	check("interpretation.icon", want.Icon, got.Icon)
	check("interpretation.title", want.Title, got.Title)
	check("interpretation.text", want.Text, got.Text)
	check("interpretation.recommendation_title", want.RecommendationTitle, got.RecommendationTitle)
	check("interpretation.lead", want.Lead, got.Lead)
	check("interpretation.intro", want.Intro, got.Intro)
	check("interpretation.note", want.Note, got.Note)
	if !slices.Equal(want.Items, got.Items) {
		errs = append(errs, ValidationError{"interpretation.items", "do not match the locale text"})
	}
	return errs
}

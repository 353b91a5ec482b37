package score

import "strings"

// Criterion identifies one of the eight clinical observations.
type Criterion string

const (
	CriterionAge          Criterion = "age"
	CriterionSex          Criterion = "sex"
	CriterionSplenomegaly Criterion = "splenomegaly"
	CriterionNoGI         Criterion = "no-gi"
	CriterionPapulosis    Criterion = "papulosis"
	CriterionB12          Criterion = "b12"
	CriterionTryptase     Criterion = "tryptase"
	CriterionIgE          Criterion = "ige"
)

func (c Criterion) Valid() bool {
	_, ok := weights[c]
	return ok
}

// ParseCriterion normalizes s and returns the matching criterion.
// Matching is case-insensitive and accepts "no_gi" for "no-gi".
func ParseCriterion(s string) (Criterion, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	c := Criterion(norm)
	if !c.Valid() {
		return "", invalidf("unknown criterion %q", s)
	}
	return c, nil
}

// ParseCriteria parses every entry of list. Empty entries are skipped.
func ParseCriteria(list []string) ([]Criterion, error) {
	out := make([]Criterion, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			continue
		}
		c, err := ParseCriterion(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Classification is the outcome of comparing a score with the threshold.
type Classification string

const (
	ClassificationSuspected Classification = "suspected"
	ClassificationUnlikely  Classification = "unlikely"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassificationSuspected, ClassificationUnlikely:
		return true
	}
	return false
}

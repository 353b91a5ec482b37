// Package score computes the FIP-Score from selected clinical criteria and
// classifies it against the fixed threshold.
package score

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidInput is returned for unknown or duplicated criteria and for
// scores outside [0, MaxScore].
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Result is the outcome of scoring one selection.
type Result struct {
	Score          int            `json:"score"`
	MaxScore       int            `json:"max_score"`
	Threshold      int            `json:"threshold"`
	Classification Classification `json:"classification"`
	Criteria       []Criterion    `json:"criteria"`
}

// Suspected reports whether the score reaches the threshold.
func (r Result) Suspected() bool {
	return r.Classification == ClassificationSuspected
}

// Percent returns the share of MaxScore reached, from 0 to 100.
func (r Result) Percent() float64 {
	return float64(r.Score) / float64(MaxScore) * 100
}

// Compute sums the weights of the selected criteria.
// Unknown and repeated criteria are rejected with ErrInvalidInput.
func Compute(selected []Criterion) (int, error) {
	seen := make(map[Criterion]bool, len(selected))
	total := 0
	for _, c := range selected {
		w, ok := weights[c]
		if !ok {
			return 0, invalidf("unknown criterion %q", c)
		}
		if seen[c] {
			return 0, invalidf("criterion %q selected twice", c)
		}
		seen[c] = true
		total += w
	}
	return total, nil
}

// Classify maps a score to a classification. Scores outside [0, MaxScore]
// cannot come from Compute and are rejected.
func Classify(score int) (Classification, error) {
	if score < 0 || score > MaxScore {
		return "", invalidf("score %d outside [0, %d]", score, MaxScore)
	}
	if score >= Threshold {
		return ClassificationSuspected, nil
	}
	return ClassificationUnlikely, nil
}

// Evaluate computes and classifies the selection.
func Evaluate(selected []Criterion) (Result, error) {
	total, err := Compute(selected)
	if err != nil {
		return Result{}, err
	}
	class, err := Classify(total)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Score:          total,
		MaxScore:       MaxScore,
		Threshold:      Threshold,
		Classification: class,
		Criteria:       Normalize(selected),
	}, nil
}

// Lenient evaluates the known criteria of selected and returns the ids it
// dropped. Duplicates count once. It never fails.
func Lenient(selected []Criterion) (Result, []Criterion) {
	var known, dropped []Criterion
	seen := make(map[Criterion]bool, len(selected))
	for _, c := range selected {
		if !c.Valid() {
			dropped = append(dropped, c)
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		known = append(known, c)
	}
	r, err := Evaluate(known)
	if err != nil {
		// known holds only distinct valid ids.
		panic(err)
	}
	return r, dropped
}

// Normalize returns the distinct valid criteria of list in display order.
func Normalize(list []Criterion) []Criterion {
	seen := make(map[Criterion]bool, len(list))
	out := make([]Criterion, 0, len(list))
	for _, c := range list {
		if c.Valid() && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return Index(out[i]) < Index(out[j]) })
	return out
}

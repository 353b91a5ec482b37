package score

import "fmt"

const (
	// Threshold is the lowest score classified as suspected.
	Threshold = 48
	// MaxScore is the sum of all criterion weights.
	MaxScore = 96
)

// order is the display order of the criteria.
var order = []Criterion{
	CriterionAge,
	CriterionSex,
	CriterionSplenomegaly,
	CriterionNoGI,
	CriterionPapulosis,
	CriterionB12,
	CriterionTryptase,
	CriterionIgE,
}

var weights = map[Criterion]int{
	CriterionAge:          9,
	CriterionSex:          9,
	CriterionSplenomegaly: 18,
	CriterionNoGI:         11,
	CriterionPapulosis:    9,
	CriterionB12:          15,
	CriterionTryptase:     13,
	CriterionIgE:          12,
}

func init() {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	if sum != MaxScore || len(order) != len(weights) {
		panic(fmt.Sprintf("score: weight table sums to %d over %d criteria, want %d", sum, len(weights), MaxScore))
	}
}

// All returns the criteria in display order.
func All() []Criterion {
	out := make([]Criterion, len(order))
	copy(out, order)
	return out
}

// Weight returns the points contributed by c, or 0 for an unknown criterion.
func Weight(c Criterion) int {
	return weights[c]
}

// Index returns the display position of c, or -1.
func Index(c Criterion) int {
	for i, o := range order {
		if o == c {
			return i
		}
	}
	return -1
}

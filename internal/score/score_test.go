package score

import (
	"errors"
	"testing"
)

// --- Enum validation tests ---

func TestCriterionValid(t *testing.T) {
	for _, c := range All() {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Criterion("eosinophils").Valid() {
		t.Error("expected eosinophils to be invalid")
	}
}

func TestClassificationValid(t *testing.T) {
	for _, c := range []Classification{ClassificationSuspected, ClassificationUnlikely} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Classification("possible").Valid() {
		t.Error("expected possible to be invalid")
	}
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		input string
		want  Criterion
	}{
		{"age", CriterionAge},
		{"AGE", CriterionAge},
		{" b12 ", CriterionB12},
		{"no-gi", CriterionNoGI},
		{"no_gi", CriterionNoGI},
		{"IgE", CriterionIgE},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCriterion(tt.input)
			if err != nil {
				t.Fatalf("ParseCriterion(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCriterion(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCriterionUnknown(t *testing.T) {
	_, err := ParseCriterion("fever")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseCriteriaSkipsBlank(t *testing.T) {
	got, err := ParseCriteria([]string{"age", "", "  ", "tryptase"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != CriterionAge || got[1] != CriterionTryptase {
		t.Errorf("ParseCriteria = %v", got)
	}
}

// --- Weight table ---

func TestWeightTableSumsToMax(t *testing.T) {
	sum := 0
	for _, c := range All() {
		sum += Weight(c)
	}
	if sum != MaxScore {
		t.Errorf("weights sum to %d, want %d", sum, MaxScore)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0] = "mutated"
	if All()[0] != CriterionAge {
		t.Error("All exposed the internal order slice")
	}
}

// --- Compute ---

func TestComputeEverySubset(t *testing.T) {
	all := All()
	for mask := 0; mask < 1<<len(all); mask++ {
		var set []Criterion
		want := 0
		for i, c := range all {
			if mask&(1<<i) != 0 {
				set = append(set, c)
				want += Weight(c)
			}
		}
		got, err := Compute(set)
		if err != nil {
			t.Fatalf("Compute(%v): %v", set, err)
		}
		if got != want {
			t.Errorf("Compute(%v) = %d, want %d", set, got, want)
		}
	}
}

func TestComputeBounds(t *testing.T) {
	if got, _ := Compute(nil); got != 0 {
		t.Errorf("Compute(nil) = %d, want 0", got)
	}
	if got, _ := Compute(All()); got != MaxScore {
		t.Errorf("Compute(all) = %d, want %d", got, MaxScore)
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	a, _ := Compute([]Criterion{CriterionB12, CriterionSex})
	b, _ := Compute([]Criterion{CriterionSex, CriterionB12})
	if a != b {
		t.Errorf("order changed the score: %d vs %d", a, b)
	}
}

func TestComputeIdempotent(t *testing.T) {
	in := []Criterion{CriterionSplenomegaly, CriterionIgE}
	first, _ := Compute(in)
	second, _ := Compute(in)
	if first != second {
		t.Errorf("repeated Compute differs: %d vs %d", first, second)
	}
	if in[0] != CriterionSplenomegaly || in[1] != CriterionIgE {
		t.Error("Compute modified its input")
	}
}

func TestComputeRejects(t *testing.T) {
	tests := []struct {
		name string
		in   []Criterion
	}{
		{"unknown", []Criterion{CriterionAge, "fever"}},
		{"duplicate", []Criterion{CriterionAge, CriterionAge}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

// --- Classify ---

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  Classification
	}{
		{0, ClassificationUnlikely},
		{47, ClassificationUnlikely},
		{48, ClassificationSuspected},
		{96, ClassificationSuspected},
	}
	for _, tt := range tests {
		got, err := Classify(tt.score)
		if err != nil {
			t.Fatalf("Classify(%d): %v", tt.score, err)
		}
		if got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyOutOfRange(t *testing.T) {
	for _, s := range []int{-1, 97, 1000} {
		if _, err := Classify(s); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Classify(%d): expected ErrInvalidInput, got %v", s, err)
		}
	}
}

// --- Evaluate / Lenient ---

func TestEvaluateScenario(t *testing.T) {
	sel := []Criterion{CriterionSplenomegaly, CriterionB12, CriterionTryptase}
	r, err := Evaluate(sel)
	if err != nil {
		t.Fatal(err)
	}
	if r.Score != 46 || r.Suspected() {
		t.Errorf("got %d/%s, want 46/unlikely", r.Score, r.Classification)
	}

	r, err = Evaluate(append(sel, CriterionPapulosis))
	if err != nil {
		t.Fatal(err)
	}
	if r.Score != 55 || !r.Suspected() {
		t.Errorf("got %d/%s, want 55/suspected", r.Score, r.Classification)
	}
	want := []Criterion{CriterionSplenomegaly, CriterionPapulosis, CriterionB12, CriterionTryptase}
	for i, c := range want {
		if r.Criteria[i] != c {
			t.Errorf("Criteria[%d] = %q, want %q", i, r.Criteria[i], c)
		}
	}
	if r.MaxScore != MaxScore || r.Threshold != Threshold {
		t.Errorf("unexpected bounds %d/%d", r.MaxScore, r.Threshold)
	}
}

func TestResultPercent(t *testing.T) {
	r := Result{Score: 48}
	if r.Percent() != 50 {
		t.Errorf("Percent() = %v, want 50", r.Percent())
	}
}

func TestLenientDropsUnknown(t *testing.T) {
	r, dropped := Lenient([]Criterion{CriterionAge, "fever", CriterionAge, CriterionSex})
	if r.Score != 18 {
		t.Errorf("Score = %d, want 18", r.Score)
	}
	if len(dropped) != 1 || dropped[0] != "fever" {
		t.Errorf("dropped = %v", dropped)
	}
}

func TestLenientEmpty(t *testing.T) {
	r, dropped := Lenient(nil)
	if r.Score != 0 || r.Classification != ClassificationUnlikely || len(dropped) != 0 {
		t.Errorf("unexpected result %+v dropped=%v", r, dropped)
	}
}

package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/dshills/fipscore/internal/casefile"
	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/render"
	"github.com/dshills/fipscore/internal/report"
	"github.com/dshills/fipscore/internal/score"
)

func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(filename))
}

func TestGoldenSuspectedReport(t *testing.T) {
	root := projectRoot()

	goldenData, err := os.ReadFile(filepath.Join(root, "testdata", "golden", "suspected-report.json"))
	if err != nil {
		t.Fatalf("failed to read golden file: %v", err)
	}
	var golden report.Report
	if err := json.Unmarshal(goldenData, &golden); err != nil {
		t.Fatalf("failed to parse golden JSON: %v", err)
	}
	for _, e := range report.Validate(&golden) {
		t.Errorf("validation error: %s", e)
	}

	// The case file must still hash to what the report recorded
	c, err := casefile.Load(filepath.Join(root, "testdata", "cases", "suspected.yaml"))
	if err != nil {
		t.Fatalf("failed to load case: %v", err)
	}
	if c.Hash != golden.Input.CaseHash {
		t.Errorf("case hash = %s, want %s", c.Hash, golden.Input.CaseHash)
	}
	if !reflect.DeepEqual(c.Criteria, golden.Input.Criteria) {
		t.Errorf("case criteria = %v, want %v", c.Criteria, golden.Input.Criteria)
	}

	// Rescoring the case reproduces the stored result
	crits, err := score.ParseCriteria(c.Criteria)
	if err != nil {
		t.Fatalf("parse criteria: %v", err)
	}
	res, err := score.Evaluate(crits)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !reflect.DeepEqual(res, golden.Result) {
		t.Errorf("result = %+v, want %+v", res, golden.Result)
	}

	loc := locale.MustLoad(locale.LanguageEnglish)
	rep, err := report.New("1.0.0", loc, golden.Input, res)
	if err != nil {
		t.Fatalf("report.New: %v", err)
	}
	if !reflect.DeepEqual(rep.Interpretation, golden.Interpretation) {
		t.Errorf("interpretation = %+v, want %+v", rep.Interpretation, golden.Interpretation)
	}

	// JSON round-trip stability
	data1, err := render.JSON(&golden)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	var again report.Report
	if err := json.Unmarshal([]byte(data1), &again); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	data2, err := render.JSON(&again)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if data1 != data2 {
		t.Error("JSON round-trip produced different output")
	}
}

func TestGoldenCases(t *testing.T) {
	root := projectRoot()
	tests := []struct {
		file  string
		score int
		class score.Classification
	}{
		{"suspected.yaml", 55, score.ClassificationSuspected},
		{"unlikely.toml", 46, score.ClassificationUnlikely},
		{"plain.txt", 29, score.ClassificationUnlikely},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			c, err := casefile.Load(filepath.Join(root, "testdata", "cases", tt.file))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			crits, err := score.ParseCriteria(c.Criteria)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			res, err := score.Evaluate(crits)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if res.Score != tt.score || res.Classification != tt.class {
				t.Errorf("got %d %s, want %d %s", res.Score, res.Classification, tt.score, tt.class)
			}
		})
	}
}

// Package report defines the FIP-Score output document.
package report

import (
	"fmt"
	"time"

	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/score"
	"github.com/google/uuid"
)

const Tool = "fipscore"

// Report is the top-level output object.
type Report struct {
	ID             string                 `json:"id"`
	Tool           string                 `json:"tool"`
	Version        string                 `json:"version"`
	Language       locale.Language        `json:"language"`
	Input          Input                  `json:"input"`
	Result         score.Result           `json:"result"`
	Interpretation *locale.Interpretation `json:"interpretation,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Input describes where the selection came from.
type Input struct {
	CaseFile string   `json:"case_file,omitempty"`
	CaseHash string   `json:"case_hash,omitempty"`
	Criteria []string `json:"criteria"`
	Dropped  []string `json:"dropped,omitempty"`
	Strict   bool     `json:"strict"`
}

// New builds a report for r in the given locale. A zero score carries no
// interpretation.
func New(version string, loc *locale.Locale, in Input, r score.Result) (*Report, error) {
	rep := &Report{
		ID:        uuid.NewString(),
		Tool:      Tool,
		Version:   version,
		Language:  loc.Language,
		Input:     in,
		Result:    r,
		CreatedAt: time.Now().UTC(),
	}
	if in.Criteria == nil {
		rep.Input.Criteria = []string{}
	}
	if r.Score > 0 {
		interp, err := loc.Interpret(r)
		if err != nil {
			return nil, fmt.Errorf("report.New: %w", err)
		}
		rep.Interpretation = &interp
	}
	return rep, nil
}

// Package render produces Markdown, plain-text and JSON output from a report.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/fipscore/internal/locale"
	"github.com/dshills/fipscore/internal/report"
	"github.com/dshills/fipscore/internal/score"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatJSON:
		return true
	}
	return false
}

const barWidth = 20

// Render dispatches on format.
func Render(f Format, r *report.Report, loc *locale.Locale) (string, error) {
	switch f {
	case FormatText:
		return Text(r, loc), nil
	case FormatMarkdown:
		return Markdown(r, loc), nil
	case FormatJSON:
		return JSON(r)
	}
	return "", fmt.Errorf("render.Render: unknown format %q", f)
}

// Markdown renders a report as a Markdown document.
func Markdown(r *report.Report, loc *locale.Locale) string {
	var b strings.Builder
	res := r.Result

	fmt.Fprintf(&b, "# %s\n\n", loc.Labels.Title)
	fmt.Fprintf(&b, "_%s_\n\n", loc.Labels.Subtitle)
	fmt.Fprintf(&b, "**%s:** %d / %d\n\n", loc.Labels.Score, res.Score, res.MaxScore)
	fmt.Fprintf(&b, "`%s` %.0f%%\n\n", Bar(res.Score), res.Percent())

	fmt.Fprintf(&b, "## %s\n\n", loc.Labels.Criteria)
	if len(res.Criteria) == 0 {
		fmt.Fprintf(&b, "%s\n\n", loc.Labels.NoCriteria)
	} else {
		for _, c := range res.Criteria {
			fmt.Fprintf(&b, "- %s (+%d)\n", loc.CriterionLabel(c), score.Weight(c))
		}
		b.WriteString("\n")
	}

	if len(r.Input.Dropped) > 0 {
		fmt.Fprintf(&b, "> %s: %s\n\n", loc.Labels.Dropped, strings.Join(r.Input.Dropped, ", "))
	}

	in := r.Interpretation
	if in == nil {
		fmt.Fprintf(&b, "%s\n", loc.Labels.Empty)
		return b.String()
	}

	fmt.Fprintf(&b, "## %s\n\n", loc.Labels.Interpretation)
	fmt.Fprintf(&b, "### %s %s\n\n", in.Icon, in.Title)
	fmt.Fprintf(&b, "%s\n\n", in.Text)

	fmt.Fprintf(&b, "## %s\n\n", in.RecommendationTitle)
	fmt.Fprintf(&b, "**%s**\n\n", in.Lead)
	if in.Intro != "" {
		fmt.Fprintf(&b, "%s\n\n", in.Intro)
	}
	for _, item := range in.Items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "\n_%s_\n", in.Note)

	return b.String()
}

// Text renders a compact terminal form of a report.
func Text(r *report.Report, loc *locale.Locale) string {
	var b strings.Builder
	res := r.Result

	fmt.Fprintf(&b, "%s: %d / %d  [%s]\n", loc.Labels.Score, res.Score, res.MaxScore, Bar(res.Score))
	if len(res.Criteria) > 0 {
		labels := make([]string, 0, len(res.Criteria))
		for _, c := range res.Criteria {
			labels = append(labels, fmt.Sprintf("%s +%d", loc.CriterionLabel(c), score.Weight(c)))
		}
		fmt.Fprintf(&b, "%s: %s\n", loc.Labels.Criteria, strings.Join(labels, ", "))
	}
	if len(r.Input.Dropped) > 0 {
		fmt.Fprintf(&b, "%s: %s\n", loc.Labels.Dropped, strings.Join(r.Input.Dropped, ", "))
	}

	in := r.Interpretation
	if in == nil {
		fmt.Fprintf(&b, "%s\n", loc.Labels.Empty)
		return b.String()
	}

	fmt.Fprintf(&b, "\n%s %s\n%s\n\n", in.Icon, in.Title, in.Text)
	fmt.Fprintf(&b, "%s\n%s\n", in.RecommendationTitle, in.Lead)
	if in.Intro != "" {
		fmt.Fprintf(&b, "%s\n", in.Intro)
	}
	for _, item := range in.Items {
		fmt.Fprintf(&b, "  - %s\n", item)
	}
	fmt.Fprintf(&b, "%s\n", in.Note)
	return b.String()
}

// JSON renders a report as indented JSON with a trailing newline.
func JSON(r *report.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render.JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// Criteria renders the weight table.
func Criteria(loc *locale.Locale) string {
	var b strings.Builder
	width := len(loc.Labels.Criterion)
	for _, c := range score.All() {
		if n := len([]rune(loc.CriterionLabel(c))); n > width {
			width = n
		}
	}

	fmt.Fprintf(&b, "%-14s %s %s\n", "ID", pad(loc.Labels.Criterion, width), loc.Labels.Weight)
	for _, c := range score.All() {
		fmt.Fprintf(&b, "%-14s %s %d\n", c, pad(loc.CriterionLabel(c), width), score.Weight(c))
	}
	fmt.Fprintf(&b, "%-14s %s %d\n", "", pad("", width), score.MaxScore)
	return b.String()
}

// Bar draws a fixed-width progress bar for s out of MaxScore.
func Bar(s int) string {
	if s < 0 {
		s = 0
	}
	if s > score.MaxScore {
		s = score.MaxScore
	}
	filled := s * barWidth / score.MaxScore
	return strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
}

// pad left-aligns s to width runes; fmt widths count bytes, not runes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// Package locale loads the built-in English and French texts and fills the
// interpretation blocks for a score result.
package locale

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dshills/fipscore/internal/score"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Language selects one of the built-in locales.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"

	DefaultLanguage = LanguageEnglish
)

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageFrench:
		return true
	}
	return false
}

// ParseLanguage accepts "en" or "fr" in any case.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("locale.ParseLanguage: unsupported language %q (want en or fr)", s)
	}
	return l, nil
}

// Locale holds every user-facing string for one language.
type Locale struct {
	Language  Language          `yaml:"language"`
	Name      string            `yaml:"name"`
	Labels    Labels            `yaml:"labels"`
	Criteria  map[string]string `yaml:"criteria"`
	Suspected Block             `yaml:"suspected"`
	Unlikely  Block             `yaml:"unlikely"`
}

// Labels are the fixed headings of the calculator.
type Labels struct {
	Title          string `yaml:"title"`
	Subtitle       string `yaml:"subtitle"`
	Score          string `yaml:"score"`
	Points         string `yaml:"points"`
	Criteria       string `yaml:"criteria"`
	NoCriteria     string `yaml:"no_criteria"`
	Criterion      string `yaml:"criterion"`
	Weight         string `yaml:"weight"`
	Interpretation string `yaml:"interpretation"`
	Recommendation string `yaml:"recommendation"`
	Empty          string `yaml:"empty"`
	Dropped        string `yaml:"dropped"`
}

// Block is the pre-authored text for one classification. Title and Text
// are templates over Score, Threshold and Max.
type Block struct {
	Icon                string   `yaml:"icon"`
	Title               string   `yaml:"title"`
	Text                string   `yaml:"text"`
	RecommendationTitle string   `yaml:"recommendation_title"`
	Lead                string   `yaml:"lead"`
	Intro               string   `yaml:"intro"`
	Items               []string `yaml:"items"`
	Note                string   `yaml:"note"`
}

// Interpretation is a Block filled in for a given result.
type Interpretation struct {
	Classification      score.Classification `json:"classification"`
	Icon                string               `json:"icon"`
	Title               string               `json:"title"`
	Text                string               `json:"text"`
	RecommendationTitle string               `json:"recommendation_title"`
	Lead                string               `json:"lead"`
	Intro               string               `json:"intro,omitempty"`
	Items               []string             `json:"items"`
	Note                string               `json:"note"`
}

// Load loads a built-in locale.
func Load(lang Language) (*Locale, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("locale.Load: unsupported language %q", lang)
	}
	data, err := builtinFS.ReadFile("builtin/" + string(lang) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("locale.Load: %q: %w", lang, err)
	}
	var l Locale
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("locale.Load: parse %q: %w", lang, err)
	}
	return &l, nil
}

// MustLoad is Load for the built-in languages, which are known to parse.
func MustLoad(lang Language) *Locale {
	l, err := Load(lang)
	if err != nil {
		panic(err)
	}
	return l
}

// List returns the available languages.
func List() ([]Language, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var langs []Language
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			langs = append(langs, Language(strings.TrimSuffix(n, ".yaml")))
		}
	}
	return langs, nil
}

// CriterionLabel returns the display name of c, falling back to its id.
func (l *Locale) CriterionLabel(c score.Criterion) string {
	if s, ok := l.Criteria[string(c)]; ok && s != "" {
		return s
	}
	return string(c)
}

// Block returns the text block for a classification.
func (l *Locale) Block(c score.Classification) Block {
	if c == score.ClassificationSuspected {
		return l.Suspected
	}
	return l.Unlikely
}

// Interpret fills the block matching r.
func (l *Locale) Interpret(r score.Result) (Interpretation, error) {
	if !r.Classification.Valid() {
		return Interpretation{}, fmt.Errorf("locale.Interpret: invalid classification %q", r.Classification)
	}
	b := l.Block(r.Classification)
	vars := struct{ Score, Threshold, Max int }{r.Score, score.Threshold, score.MaxScore}

	title, err := fill(b.Title, vars)
	if err != nil {
		return Interpretation{}, fmt.Errorf("locale.Interpret: title: %w", err)
	}
	text, err := fill(b.Text, vars)
	if err != nil {
		return Interpretation{}, fmt.Errorf("locale.Interpret: text: %w", err)
	}
	return Interpretation{
		Classification:      r.Classification,
		Icon:                b.Icon,
		Title:               title,
		Text:                text,
		RecommendationTitle: b.RecommendationTitle,
		Lead:                b.Lead,
		Intro:               b.Intro,
		Items:               append([]string(nil), b.Items...),
		Note:                b.Note,
	}, nil
}

func fill(text string, data any) (string, error) {
	t, err := template.New("").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Package casefile reads, hashes and parses case files listing the criteria
// present for a patient.
package casefile

import (
	"bufio"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Case holds a loaded case file with its selection and metadata.
type Case struct {
	FilePath string
	Raw      string
	Hash     string
	// Criteria are the selected ids as written in the file.
	Criteria []string
}

// document is the structured form shared by YAML, JSON and TOML files.
// Either field may be used; both are merged and an id in both counts once.
type document struct {
	Criteria []string        `yaml:"criteria" json:"criteria" toml:"criteria"`
	Selected map[string]bool `yaml:"selected" json:"selected" toml:"selected"`
}

// Load reads a case file and computes its SHA-256 hash.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("casefile.Load: %w", err)
	}
	crits, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("casefile.Load: %s: %w", path, err)
	}
	h := sha256.Sum256(data)
	return &Case{
		FilePath: path,
		Raw:      string(data),
		Hash:     fmt.Sprintf("sha256:%x", h),
		Criteria: crits,
	}, nil
}

// Parse decodes data according to the file extension ext.
func Parse(ext string, data []byte) ([]string, error) {
	var doc document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return parseLines(string(data))
	}
	return doc.merge(), nil
}

// merge returns the criteria list followed by the selected keys not already
// listed. Repeats inside the list are kept so strict scoring can reject them.
func (d document) merge() []string {
	out := append([]string(nil), d.Criteria...)
	listed := make(map[string]bool, len(out))
	for _, id := range out {
		listed[normalize(id)] = true
	}
	keys := make([]string, 0, len(d.Selected))
	for k, on := range d.Selected {
		if on && !listed[normalize(k)] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return append(out, keys...)
}

func normalize(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "_", "-")
}

// parseLines reads one id per line. Blank lines and # comments are skipped;
// commas also separate ids.
func parseLines(text string) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		for _, f := range strings.Split(line, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse text: %w", err)
	}
	return out, nil
}

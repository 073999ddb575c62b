// Package scan walks a repository once and scores language evidence
// against the static rule registry.
package scan

import (
	"os"
	"path/filepath"
	"sort"

	"autorepro/internal/errors"
	"autorepro/internal/paths"
	"autorepro/internal/rules"
)

// maxWalkDepth bounds the evidence walk. Manifests and lock files live
// near the root; descending further only finds vendored noise.
const maxWalkDepth = 3

// ignoredDirs are never descended into during the evidence walk
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	".tox":         true,
}

// Reason records which rule matched, in rule evaluation order
type Reason struct {
	Kind    string `json:"kind"`
	Pattern string `json:"pattern"`
}

// LanguageScore aggregates the matched rule weights for one language
type LanguageScore struct {
	Score   int      `json:"score"`
	Reasons []Reason `json:"reasons"`
}

// Result is the immutable outcome of one scan
type Result struct {
	Root       string                    `json:"root"`
	Detected   []string                  `json:"detected"`
	Languages  map[string]*LanguageScore `json:"languages"`
	EnvMarkers []string                  `json:"env_markers,omitempty"`
}

// Has reports whether the language was detected with score > 0
func (r *Result) Has(lang string) bool {
	ls, ok := r.Languages[lang]
	return ok && ls.Score > 0
}

// HasMarker reports whether a generic environment marker was detected
func (r *Result) HasMarker(name string) bool {
	for _, m := range r.EnvMarkers {
		if m == name {
			return true
		}
	}
	return false
}

// Scan evaluates every evidence rule under root. An empty or unmatched
// repository is a valid result with no detected languages, never an
// error; only a root that is not a directory is rejected.
func Scan(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.NewMisuse("repo path %s is not a directory", root)
	}

	files, dirs := walk(root)

	result := &Result{
		Root:      root,
		Detected:  []string{},
		Languages: make(map[string]*LanguageScore),
	}
	for _, lang := range rules.Languages() {
		result.Languages[lang] = &LanguageScore{Reasons: []Reason{}}
	}

	for _, rule := range rules.Registry() {
		if !ruleMatches(rule, files, dirs) {
			continue
		}
		if rule.Marker != "" {
			result.EnvMarkers = append(result.EnvMarkers, rule.Marker)
			continue
		}
		ls := result.Languages[rule.Language]
		ls.Score += rule.Weight
		ls.Reasons = append(ls.Reasons, Reason{Kind: string(rule.Kind), Pattern: rule.Pattern})
	}

	for lang, ls := range result.Languages {
		if ls.Score > 0 {
			result.Detected = append(result.Detected, lang)
		}
	}
	// Descending score, then lexical order on ties
	sort.SliceStable(result.Detected, func(i, j int) bool {
		si := result.Languages[result.Detected[i]].Score
		sj := result.Languages[result.Detected[j]].Score
		if si != sj {
			return si > sj
		}
		return result.Detected[i] < result.Detected[j]
	})

	return result, nil
}

func ruleMatches(rule rules.EvidenceRule, files, dirs map[string]bool) bool {
	switch rule.Kind {
	case rules.KindSource:
		for f := range files {
			if ok, _ := filepath.Match(rule.Pattern, filepath.Base(f)); ok {
				return true
			}
		}
		return false
	default:
		// config, lock and env patterns are root-relative paths; env
		// patterns may name a directory.
		return files[rule.Pattern] || dirs[rule.Pattern]
	}
}

// walk performs the single sequential filesystem walk, returning the
// root-relative file and directory sets up to maxWalkDepth.
func walk(root string) (files, dirs map[string]bool) {
	files = make(map[string]bool)
	dirs = make(map[string]bool)
	walkDir(root, "", 0, files, dirs)
	return files, dirs
}

func walkDir(root, rel string, depth int, files, dirs map[string]bool) {
	if depth > maxWalkDepth {
		return
	}
	entries, err := os.ReadDir(filepath.Join(root, rel))
	if err != nil {
		// Unreadable subdirectories simply contribute no evidence
		return
	}
	for _, e := range entries {
		name := e.Name()
		entryRel := name
		if rel != "" {
			entryRel = paths.NormalizePath(filepath.Join(rel, name))
		}
		if e.IsDir() {
			dirs[entryRel] = true
			if !ignoredDirs[name] {
				walkDir(root, entryRel, depth+1, files, dirs)
			}
			continue
		}
		files[entryRel] = true
	}
}

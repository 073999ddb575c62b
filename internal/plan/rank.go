// Package plan turns scan evidence and free-text descriptions into a
// ranked list of candidate reproduction commands.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"autorepro/internal/errors"
	"autorepro/internal/rules"
	"autorepro/internal/scan"
)

// Default thresholds, resolved by the config layer. Rank itself takes
// MinScore as given so an explicit zero keeps every candidate.
const (
	DefaultMinScore    = 2
	DefaultMaxCommands = 5
)

// Config controls ranking thresholds. MinScore is honored verbatim
// (zero disables the filter); a zero MaxCommands falls back to the
// default since a zero-length plan is never what a caller wants.
type Config struct {
	MinScore    int
	MaxCommands int
	Strict      bool
}

// Adjustment records one scoring contribution beyond the base score
type Adjustment struct {
	Reason string `json:"reason"`
	Delta  int    `json:"delta"`
}

// Candidate is one proposed reproduction command with its score breakdown
type Candidate struct {
	Cmd         string       `json:"cmd"`
	BaseScore   int          `json:"base_score"`
	Adjustments []Adjustment `json:"adjustments"`
	FinalScore  int          `json:"final_score"`
	Needs       []string     `json:"needs"`

	assumption string
}

// Plan is the immutable result of one ranking request
type Plan struct {
	Title         string
	Assumptions   []string
	Needs         []string
	Commands      []Candidate
	NextSteps     []string
	FilteredCount int
}

// defaultOSAssumption is included whenever no stronger environment
// evidence (a devcontainer) exists, so every plan carries at least one
// assumption.
const defaultOSAssumption = "POSIX shell on the current OS runs the commands"

// Rank combines scan evidence and the tokenized description against the
// command rule table. Extra rules (user overlays, CI-derived commands)
// participate on equal footing with the static table.
func Rank(sc *scan.Result, description string, cfg Config, extra ...rules.CommandRule) (*Plan, error) {
	if cfg.MinScore < 0 {
		cfg.MinScore = 0
	}
	if cfg.MaxCommands <= 0 {
		cfg.MaxCommands = DefaultMaxCommands
	}

	tk := tokenize(description)
	table := append(append([]rules.CommandRule{}, rules.Table()...), extra...)

	var ordered []*Candidate
	byCmd := make(map[string]*Candidate)

	addContribution := func(rule rules.CommandRule, reason string) {
		key := normalizeCmd(rule.Cmd)
		cand, ok := byCmd[key]
		if !ok {
			cand = &Candidate{
				Cmd:         strings.TrimSpace(rule.Cmd),
				BaseScore:   rule.Score,
				Adjustments: []Adjustment{},
				Needs:       []string{},
				assumption:  rule.Assumption,
			}
			appendUnique(&cand.Needs, rule.Needs...)
			byCmd[key] = cand
			ordered = append(ordered, cand)
			return
		}
		cand.Adjustments = append(cand.Adjustments, Adjustment{Reason: reason, Delta: rule.Score})
		appendUnique(&cand.Needs, rule.Needs...)
		if cand.assumption == "" {
			cand.assumption = rule.Assumption
		}
	}

	for _, rule := range table {
		for _, kw := range rule.Keywords {
			if tk.matches(kw) {
				addContribution(rule, "keyword:"+strings.ToLower(kw))
			}
		}
		for _, lang := range rule.Languages {
			if sc.Has(lang) {
				addContribution(rule, "lang:"+lang)
			}
		}
		for _, marker := range rule.Markers {
			if sc.HasMarker(marker) {
				addContribution(rule, "env:"+marker)
			}
		}
	}

	for _, cand := range ordered {
		cand.FinalScore = cand.BaseScore
		for _, adj := range cand.Adjustments {
			cand.FinalScore += adj.Delta
		}
	}

	// Stable sort: final score descending, first-seen order on ties.
	// Never re-sorted by name.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FinalScore > ordered[j].FinalScore
	})

	kept := []Candidate{}
	filtered := 0
	for _, cand := range ordered {
		if cand.FinalScore < cfg.MinScore {
			filtered++
			continue
		}
		kept = append(kept, *cand)
	}
	if len(kept) > cfg.MaxCommands {
		kept = kept[:cfg.MaxCommands]
	}

	if len(kept) == 0 && cfg.Strict {
		return nil, &errors.NoCandidateError{MinScore: cfg.MinScore}
	}

	p := &Plan{
		Title:         titleFromDescription(description),
		Assumptions:   []string{},
		Needs:         []string{},
		Commands:      kept,
		NextSteps:     []string{},
		FilteredCount: filtered,
	}

	// Environment-presence annotation: recorded as a need, never as a
	// score adjustment. Absence is not fabricated.
	if sc.HasMarker("devcontainer") {
		appendUnique(&p.Needs, "devcontainer: present")
	} else {
		appendUnique(&p.Assumptions, defaultOSAssumption)
	}

	for _, cand := range kept {
		if cand.assumption != "" {
			appendUnique(&p.Assumptions, cand.assumption)
		}
		appendUnique(&p.Needs, cand.Needs...)
	}

	if len(kept) == 0 {
		appendUnique(&p.Assumptions,
			"the failure is reproducible with a project test command once one is identified")
		p.NextSteps = append(p.NextSteps,
			"Add a lock file or name the test runner in the description, then re-run the plan",
			"Inspect the repository for a Makefile or CI workflow that runs tests")
	} else {
		p.NextSteps = append(p.NextSteps,
			fmt.Sprintf("Run the top candidate: autorepro exec --index 0 (score %d)", kept[0].FinalScore),
			"Record a replayable log with: autorepro exec --index 0 --log .autorepro/exec.jsonl",
			"Bundle the evidence for the issue with: autorepro report")
	}

	if len(p.Assumptions) == 0 {
		appendUnique(&p.Assumptions, defaultOSAssumption)
	}

	return p, nil
}

// normalizeCmd collapses whitespace so the same command proposed by
// different rules deduplicates
func normalizeCmd(cmd string) string {
	return strings.Join(strings.Fields(cmd), " ")
}

func appendUnique(dst *[]string, items ...string) {
	for _, item := range items {
		found := false
		for _, existing := range *dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			*dst = append(*dst, item)
		}
	}
}

// Package ci derives candidate commands from GitHub Actions workflow
// files. A repository that already runs its tests in CI is the best
// oracle for how to reproduce a failure locally, so test-like run steps
// are surfaced as marker-triggered command rules.
package ci

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"autorepro/internal/errors"
	"autorepro/internal/rules"
)

// WorkflowDir is the conventional location of GitHub Actions workflows,
// relative to the repository root
const WorkflowDir = ".github/workflows"

// derivedScore is the trigger contribution of a workflow-derived rule.
// It matches the common-word tier so CI commands rank alongside the
// built-in language defaults rather than dominating them.
const derivedScore = 2

// testVerbs mark a run step as test-like. Substring match against the
// lowercased first line of the step.
var testVerbs = []string{
	"pytest",
	"unittest",
	"tox",
	"jest",
	"vitest",
	"mocha",
	"go test",
	"cargo test",
	"mvn",
	"gradle",
	"npm test",
	"pnpm test",
	"yarn test",
	"make test",
}

type workflowStep struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}

type workflowJob struct {
	Steps []workflowStep `yaml:"steps"`
}

type workflowFile struct {
	Name string                 `yaml:"name"`
	Jobs map[string]workflowJob `yaml:"jobs"`
}

// DeriveRules parses every workflow file under root's workflow
// directory and returns command rules for the test-like run steps it
// finds. A repository without workflows yields no rules and no error;
// an unparseable workflow is an I/O failure naming the file.
func DeriveRules(root string) ([]rules.CommandRule, error) {
	dir := filepath.Join(root, filepath.FromSlash(WorkflowDir))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOFailure(dir, err)
	}

	var derived []rules.CommandRule
	seen := make(map[string]bool)

	for _, entry := range sortedWorkflows(entries) {
		path := filepath.Join(dir, entry)
		cmds, err := extractTestCommands(path)
		if err != nil {
			return nil, err
		}
		for _, cmd := range cmds {
			key := strings.Join(strings.Fields(cmd), " ")
			if seen[key] {
				continue
			}
			seen[key] = true
			derived = append(derived, rules.CommandRule{
				Cmd:        cmd,
				Markers:    []string{"ci"},
				Score:      derivedScore,
				Assumption: fmt.Sprintf("mirrors CI workflow %s", entry),
			})
		}
	}
	return derived, nil
}

// sortedWorkflows filters a directory listing down to workflow files in
// lexical order, so derived rules are stable across runs
func sortedWorkflows(entries []os.DirEntry) []string {
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yml" || ext == ".yaml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

func extractTestCommands(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOFailure(path, err)
	}

	var wf workflowFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, errors.NewIOFailure(path, err).
			WithHint("workflow file is not valid YAML")
	}

	jobNames := make([]string, 0, len(wf.Jobs))
	for name := range wf.Jobs {
		jobNames = append(jobNames, name)
	}
	sort.Strings(jobNames)

	var cmds []string
	for _, job := range jobNames {
		for _, step := range wf.Jobs[job].Steps {
			if cmd, ok := testCommand(step.Run); ok {
				cmds = append(cmds, cmd)
			}
		}
	}
	return cmds, nil
}

// testCommand reduces a run step to its first non-empty line and
// reports whether it looks like a test invocation
func testCommand(run string) (string, bool) {
	for _, line := range strings.Split(run, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, verb := range testVerbs {
			if strings.Contains(lower, verb) {
				return trimmed, true
			}
		}
		return "", false
	}
	return "", false
}

// Package rules holds the static detection and command tables that drive
// scanning and ranking. Both tables are declarative data, not code
// branches, so scoring stays auditable and testable in isolation.
package rules

// Kind tags an evidence rule with the class of file it looks for
type Kind string

const (
	// KindConfig matches a build or project configuration file
	KindConfig Kind = "config"
	// KindLock matches a dependency lock file
	KindLock Kind = "lock"
	// KindSource matches a source-file glob anywhere in the tree
	KindSource Kind = "source"
	// KindEnv matches an environment marker file or directory
	KindEnv Kind = "env"
)

// EvidenceRule is a single detection heuristic with a fixed weight.
// Rules with an empty Language are generic environment markers: they
// never contribute to a language score and surface through Marker
// instead (e.g. "devcontainer").
type EvidenceRule struct {
	Kind     Kind
	Pattern  string
	Weight   int
	Language string
	Marker   string
}

// Weight conventions: primary config 3, secondary config 2, lock 4,
// source glob 1, env marker 1. Multiple matches for one language sum.
const (
	weightPrimaryConfig   = 3
	weightSecondaryConfig = 2
	weightLock            = 4
	weightSource          = 1
	weightEnv             = 1
)

// evidenceRegistry is ordered config > lock > source > env. The scanner
// evaluates rules in this order and reason lists preserve it, which is
// what makes scan output deterministic.
var evidenceRegistry = []EvidenceRule{
	// config
	{Kind: KindConfig, Pattern: "pyproject.toml", Weight: weightPrimaryConfig, Language: "python"},
	{Kind: KindConfig, Pattern: "setup.py", Weight: weightSecondaryConfig, Language: "python"},
	{Kind: KindConfig, Pattern: "requirements.txt", Weight: weightSecondaryConfig, Language: "python"},
	{Kind: KindConfig, Pattern: "tox.ini", Weight: weightSecondaryConfig, Language: "python"},
	{Kind: KindConfig, Pattern: "package.json", Weight: weightPrimaryConfig, Language: "node"},
	{Kind: KindConfig, Pattern: "tsconfig.json", Weight: weightSecondaryConfig, Language: "node"},
	{Kind: KindConfig, Pattern: "go.mod", Weight: weightPrimaryConfig, Language: "go"},
	{Kind: KindConfig, Pattern: "Cargo.toml", Weight: weightPrimaryConfig, Language: "rust"},
	{Kind: KindConfig, Pattern: "pom.xml", Weight: weightPrimaryConfig, Language: "java"},
	{Kind: KindConfig, Pattern: "build.gradle", Weight: weightPrimaryConfig, Language: "java"},
	{Kind: KindConfig, Pattern: "build.gradle.kts", Weight: weightPrimaryConfig, Language: "java"},

	// lock
	{Kind: KindLock, Pattern: "poetry.lock", Weight: weightLock, Language: "python"},
	{Kind: KindLock, Pattern: "uv.lock", Weight: weightLock, Language: "python"},
	{Kind: KindLock, Pattern: "Pipfile.lock", Weight: weightLock, Language: "python"},
	{Kind: KindLock, Pattern: "pnpm-lock.yaml", Weight: weightLock, Language: "node"},
	{Kind: KindLock, Pattern: "package-lock.json", Weight: weightLock, Language: "node"},
	{Kind: KindLock, Pattern: "yarn.lock", Weight: weightLock, Language: "node"},
	{Kind: KindLock, Pattern: "go.sum", Weight: weightLock, Language: "go"},
	{Kind: KindLock, Pattern: "Cargo.lock", Weight: weightLock, Language: "rust"},

	// source
	{Kind: KindSource, Pattern: "*.py", Weight: weightSource, Language: "python"},
	{Kind: KindSource, Pattern: "*.ts", Weight: weightSource, Language: "node"},
	{Kind: KindSource, Pattern: "*.js", Weight: weightSource, Language: "node"},
	{Kind: KindSource, Pattern: "*.go", Weight: weightSource, Language: "go"},
	{Kind: KindSource, Pattern: "*.rs", Weight: weightSource, Language: "rust"},
	{Kind: KindSource, Pattern: "*.java", Weight: weightSource, Language: "java"},

	// env
	{Kind: KindEnv, Pattern: ".python-version", Weight: weightEnv, Language: "python"},
	{Kind: KindEnv, Pattern: ".nvmrc", Weight: weightEnv, Language: "node"},
	{Kind: KindEnv, Pattern: ".devcontainer/devcontainer.json", Weight: weightEnv, Marker: "devcontainer"},
	{Kind: KindEnv, Pattern: ".github/workflows", Weight: weightEnv, Marker: "ci"},
}

// Registry returns the evidence rules in evaluation order.
// The returned slice is shared; callers must not mutate it.
func Registry() []EvidenceRule {
	return evidenceRegistry
}

// Languages returns the set of languages the registry can detect
func Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, r := range evidenceRegistry {
		if r.Language == "" || seen[r.Language] {
			continue
		}
		seen[r.Language] = true
		langs = append(langs, r.Language)
	}
	return langs
}

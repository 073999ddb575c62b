package rules

// CommandRule maps description keywords and detected languages to one
// candidate reproduction command. A rule fires once per matched keyword
// and once per matched language; every firing contributes Score.
type CommandRule struct {
	// Cmd is the shell command proposed to the user
	Cmd string
	// Keywords trigger the rule from the description text. Entries with
	// a space are matched as phrases against the normalized text,
	// single words against the token set.
	Keywords []string
	// Languages trigger the rule from scan evidence
	Languages []string
	// Markers trigger the rule from generic environment markers
	// (e.g. "ci" for workflow-derived commands)
	Markers []string
	// Score is the contribution of each trigger
	Score int
	// Assumption is the human-readable assumption this command makes
	Assumption string
	// Needs lists tool or file requirements as "name: state" entries
	Needs []string
}

// Keyword triggers outrank language defaults: an explicit mention of a
// test runner in the report is stronger evidence than a manifest file.
const (
	scoreKeyword      = 3
	scoreCommonWord   = 2
	scoreLangDefault  = 2
	scoreLangFallback = 1
)

var commandTable = []CommandRule{
	// keyword-triggered
	{
		Cmd:        "pytest -q",
		Keywords:   []string{"pytest"},
		Score:      scoreKeyword,
		Assumption: "pytest is installed in the active environment",
		Needs:      []string{"python: installed"},
	},
	{
		Cmd:        "python -m unittest -v",
		Keywords:   []string{"unittest"},
		Score:      scoreKeyword,
		Assumption: "tests are discoverable by the stdlib unittest loader",
		Needs:      []string{"python: installed"},
	},
	{
		Cmd:        "tox",
		Keywords:   []string{"tox"},
		Score:      scoreKeyword,
		Assumption: "tox.ini declares the failing environment",
		Needs:      []string{"tox: installed"},
	},
	{
		Cmd:        "npx jest -w=1",
		Keywords:   []string{"jest"},
		Score:      scoreKeyword,
		Assumption: "jest is declared in devDependencies",
		Needs:      []string{"node: installed"},
	},
	{
		Cmd:        "npx vitest run",
		Keywords:   []string{"vitest"},
		Score:      scoreKeyword,
		Assumption: "vitest is declared in devDependencies",
		Needs:      []string{"node: installed"},
	},
	{
		Cmd:        "npx mocha",
		Keywords:   []string{"mocha"},
		Score:      scoreKeyword,
		Assumption: "mocha is declared in devDependencies",
		Needs:      []string{"node: installed"},
	},
	{
		Cmd:        "go test ./...",
		Keywords:   []string{"go test", "gotest"},
		Score:      scoreKeyword,
		Assumption: "the module builds with the toolchain named in go.mod",
		Needs:      []string{"go: installed"},
	},
	{
		Cmd:        "cargo test",
		Keywords:   []string{"cargo"},
		Score:      scoreKeyword,
		Assumption: "the crate compiles with the stable toolchain",
		Needs:      []string{"cargo: installed"},
	},
	{
		Cmd:        "mvn -q test",
		Keywords:   []string{"maven", "mvn"},
		Score:      scoreKeyword,
		Assumption: "the surefire test phase reproduces the failure",
		Needs:      []string{"maven: installed"},
	},
	{
		Cmd:        "gradle test --console=plain",
		Keywords:   []string{"gradle"},
		Score:      scoreKeyword,
		Assumption: "the test task reproduces the failure",
		Needs:      []string{"gradle: installed"},
	},
	{
		Cmd:        "pnpm test",
		Keywords:   []string{"pnpm"},
		Score:      scoreKeyword,
		Assumption: "package.json declares a test script",
		Needs:      []string{"pnpm: installed"},
	},
	{
		Cmd:        "yarn test",
		Keywords:   []string{"yarn"},
		Score:      scoreKeyword,
		Assumption: "package.json declares a test script",
		Needs:      []string{"yarn: installed"},
	},
	// "npm" appears in prose about unrelated projects often enough that
	// it only scores as a common word.
	{
		Cmd:        "npm test -s",
		Keywords:   []string{"npm"},
		Score:      scoreCommonWord,
		Assumption: "package.json declares a test script",
		Needs:      []string{"node: installed"},
	},

	// language defaults
	{
		Cmd:        "pytest -q",
		Languages:  []string{"python"},
		Score:      scoreLangDefault,
		Assumption: "pytest is the project's test runner",
		Needs:      []string{"python: installed"},
	},
	{
		Cmd:        "python -m unittest -v",
		Languages:  []string{"python"},
		Score:      scoreLangFallback,
		Assumption: "tests are discoverable by the stdlib unittest loader",
		Needs:      []string{"python: installed"},
	},
	{
		Cmd:        "npm test -s",
		Languages:  []string{"node"},
		Score:      scoreLangDefault,
		Assumption: "package.json declares a test script",
		Needs:      []string{"node: installed"},
	},
	{
		Cmd:        "go test ./...",
		Languages:  []string{"go"},
		Score:      scoreLangDefault,
		Assumption: "the module builds with the toolchain named in go.mod",
		Needs:      []string{"go: installed"},
	},
	{
		Cmd:        "cargo test",
		Languages:  []string{"rust"},
		Score:      scoreLangDefault,
		Assumption: "the crate compiles with the stable toolchain",
		Needs:      []string{"cargo: installed"},
	},
	{
		Cmd:        "mvn -q test",
		Languages:  []string{"java"},
		Score:      scoreLangFallback,
		Assumption: "the project builds with maven",
		Needs:      []string{"maven: installed"},
	},
}

// Table returns the command rules in declaration order.
// The returned slice is shared; callers must not mutate it.
func Table() []CommandRule {
	return commandTable
}

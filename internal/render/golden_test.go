package render

import (
	"path/filepath"
	"testing"

	"autorepro/internal/plan"
	"autorepro/internal/testutil"
)

func goldenPlan() *plan.Plan {
	return &plan.Plan{
		Title:       "Pytest Fails On Auth",
		Assumptions: []string{"POSIX shell on the current OS runs the commands"},
		Needs:       []string{"devcontainer: present"},
		Commands: []plan.Candidate{
			{
				Cmd:       "pytest -q",
				BaseScore: 3,
				Adjustments: []plan.Adjustment{
					{Reason: "lang:python", Delta: 2},
				},
				FinalScore: 5,
			},
			{
				Cmd:        "python -m unittest -v",
				BaseScore:  2,
				FinalScore: 2,
			},
		},
		NextSteps: []string{"Run the top candidate and attach its output"},
	}
}

func TestGoldenMarkdown(t *testing.T) {
	got, err := Render(goldenPlan(), FormatMarkdown)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	testutil.CompareGolden(t, filepath.Join("testdata", "plan.golden.md"), []byte(got))
}

func TestGoldenJSON(t *testing.T) {
	got, err := Render(goldenPlan(), FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	testutil.CompareGolden(t, filepath.Join("testdata", "plan.golden.json"), []byte(got))
}

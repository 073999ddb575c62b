// Package render turns a ranked plan into canonical Markdown or JSON.
// Rendering is pure and deterministic: identical plans produce
// byte-identical documents, which golden-file tests rely on.
package render

import (
	"fmt"
	"strings"

	"autorepro/internal/errors"
	"autorepro/internal/output"
	"autorepro/internal/plan"
)

// Format selects the document format
type Format string

const (
	// FormatMarkdown renders the plan as a Markdown document
	FormatMarkdown Format = "md"
	// FormatJSON renders the plan as canonical JSON
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format string
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON:
		return Format(s), nil
	default:
		return "", errors.NewMisuse("invalid format %q (want md or json)", s)
	}
}

// jsonCommand is the wire shape of one candidate
type jsonCommand struct {
	Cmd    string `json:"cmd"`
	Score  int    `json:"score"`
	Reason string `json:"reason,omitempty"`
}

// jsonPlan is the top-level JSON document; keys serialize in sorted
// order through the deterministic encoder
type jsonPlan struct {
	Title       string        `json:"title"`
	Assumptions []string      `json:"assumptions"`
	Needs       []string      `json:"needs"`
	Commands    []jsonCommand `json:"commands"`
	NextSteps   []string      `json:"next_steps"`
}

// Render produces the plan document in the requested format.
// The output always ends with exactly one trailing newline.
func Render(p *plan.Plan, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(p), nil
	case FormatJSON:
		return renderJSON(p)
	default:
		return "", errors.NewMisuse("invalid format %q (want md or json)", string(format))
	}
}

// Section order is fixed: title, assumptions, candidate commands,
// needed files/env, next steps.
func renderMarkdown(p *plan.Plan) string {
	var b strings.Builder

	b.WriteString("# " + p.Title + "\n\n")

	b.WriteString("## Assumptions\n\n")
	for _, a := range p.Assumptions {
		b.WriteString("- " + a + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Candidate Commands\n\n")
	for _, c := range p.Commands {
		b.WriteString(fmt.Sprintf("- %s — score:%d\n", c.Cmd, c.FinalScore))
	}
	if len(p.Commands) == 0 {
		b.WriteString("- (none above the score threshold)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Needed Files/Env\n\n")
	for _, n := range p.Needs {
		b.WriteString("- " + n + "\n")
	}
	if len(p.Needs) == 0 {
		b.WriteString("- (none recorded)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Next Steps\n\n")
	for _, s := range p.NextSteps {
		b.WriteString("- " + s + "\n")
	}

	return b.String()
}

func renderJSON(p *plan.Plan) (string, error) {
	doc := jsonPlan{
		Title:       p.Title,
		Assumptions: emptyIfNil(p.Assumptions),
		Needs:       emptyIfNil(p.Needs),
		Commands:    make([]jsonCommand, 0, len(p.Commands)),
		NextSteps:   emptyIfNil(p.NextSteps),
	}
	for _, c := range p.Commands {
		reason := ""
		if len(c.Adjustments) > 0 {
			reasons := make([]string, len(c.Adjustments))
			for i, adj := range c.Adjustments {
				reasons[i] = adj.Reason
			}
			reason = strings.Join(reasons, ", ")
		}
		doc.Commands = append(doc.Commands, jsonCommand{
			Cmd:    c.Cmd,
			Score:  c.FinalScore,
			Reason: reason,
		})
	}

	data, err := output.DeterministicEncodeIndented(doc, "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

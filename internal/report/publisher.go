package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"autorepro/internal/errors"
)

// Publisher delivers a rendered bundle summary to some destination,
// typically an issue or pull-request comment. Implementations live
// outside this package; FilePublisher is the built-in one.
type Publisher interface {
	Publish(body string) error
}

// FilePublisher writes the summary body to a local file
type FilePublisher struct {
	Path string
}

func (p FilePublisher) Publish(body string) error {
	if err := os.WriteFile(p.Path, []byte(body), 0o644); err != nil {
		return errors.NewIOFailure(p.Path, err)
	}
	return nil
}

// SummaryBody renders a short Markdown summary of a bundle manifest,
// suitable for pasting into an issue.
func SummaryBody(m *Manifest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Repro bundle %s\n\n", m.BundleID)
	fmt.Fprintf(&sb, "Repository: %s\nCreated: %s\n\nContents:\n", m.Repo, m.CreatedAt)

	names := make([]string, 0, len(m.Sections))
	for name := range m.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s (%d bytes)\n", name, m.Sections[name].SizeBytes)
	}
	return sb.String()
}

package rules

import (
	"os"

	"github.com/BurntSushi/toml"

	"autorepro/internal/errors"
)

// overlayFile is the root structure of .autorepro/rules.toml
type overlayFile struct {
	Rules []overlayRule `toml:"rule"`
}

type overlayRule struct {
	Cmd        string   `toml:"cmd"`
	Keywords   []string `toml:"keywords"`
	Languages  []string `toml:"languages"`
	Score      int      `toml:"score"`
	Assumption string   `toml:"assumption"`
	Needs      []string `toml:"needs"`
}

// LoadOverlay reads user-defined command rules from the given path.
// A missing file yields an empty slice; a malformed file is an I/O
// failure carrying the offending path.
func LoadOverlay(path string) ([]CommandRule, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file overlayFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.NewIOFailure(path, err).WithHint("check the [[rule]] table syntax in the overlay file")
	}

	out := make([]CommandRule, 0, len(file.Rules))
	for _, r := range file.Rules {
		if r.Cmd == "" {
			continue
		}
		score := r.Score
		if score <= 0 {
			score = scoreCommonWord
		}
		out = append(out, CommandRule{
			Cmd:        r.Cmd,
			Keywords:   r.Keywords,
			Languages:  r.Languages,
			Score:      score,
			Assumption: r.Assumption,
			Needs:      r.Needs,
		})
	}
	return out, nil
}

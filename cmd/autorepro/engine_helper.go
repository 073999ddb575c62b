package main

import (
	"autorepro/internal/ci"
	"autorepro/internal/logging"
	"autorepro/internal/paths"
	"autorepro/internal/plan"
	"autorepro/internal/rules"
	"autorepro/internal/scan"
)

// collectExtraRules gathers user overlay rules and CI-derived rules for
// a repository. Both sources are optional.
func collectExtraRules(repoRoot string, logger *logging.Logger) ([]rules.CommandRule, error) {
	var extra []rules.CommandRule

	overlay, err := rules.LoadOverlay(paths.RulesOverlayPath(repoRoot))
	if err != nil {
		return nil, err
	}
	if len(overlay) > 0 {
		logger.Debug("loaded rule overlay", map[string]interface{}{
			"rules": len(overlay),
		})
		extra = append(extra, overlay...)
	}

	derived, err := ci.DeriveRules(repoRoot)
	if err != nil {
		return nil, err
	}
	if len(derived) > 0 {
		logger.Debug("derived rules from CI workflows", map[string]interface{}{
			"rules": len(derived),
		})
		extra = append(extra, derived...)
	}

	return extra, nil
}

// scanAndRank runs the full pipeline: evidence scan, extra-rule
// collection, and candidate ranking.
func scanAndRank(repoRoot, description string, rankCfg plan.Config, logger *logging.Logger) (*scan.Result, *plan.Plan, error) {
	sc, err := scan.Scan(repoRoot)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("scan complete", map[string]interface{}{
		"detected":    sc.Detected,
		"env_markers": sc.EnvMarkers,
	})

	extra, err := collectExtraRules(repoRoot, logger)
	if err != nil {
		return nil, nil, err
	}

	p, err := plan.Rank(sc, description, rankCfg, extra...)
	if err != nil {
		return nil, nil, err
	}
	return sc, p, nil
}

// Package report assembles a shareable diagnostics bundle: the scan
// result, the rendered plan, and the execution log, zipped together
// with a manifest.
package report

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"

	"autorepro/internal/errors"
	"autorepro/internal/logging"
	"autorepro/internal/output"
)

// ManifestName is the bundle's index file
const ManifestName = "manifest.json"

// Bundler writes diagnostics bundles for a repository
type Bundler struct {
	repoRoot string
	logger   *logging.Logger
}

// NewBundler creates a new bundler
func NewBundler(repoRoot string, logger *logging.Logger) *Bundler {
	return &Bundler{
		repoRoot: repoRoot,
		logger:   logger,
	}
}

// Artifact is one named file body to include in the bundle
type Artifact struct {
	Name string
	Body []byte
}

// Manifest describes the bundle contents. Sections is keyed by the
// filename inside the archive.
type Manifest struct {
	SchemaVersion int                `json:"schema_version"`
	BundleID      string             `json:"bundle_id"`
	Tool          string             `json:"tool"`
	Repo          string             `json:"repo"`
	CreatedAt     string             `json:"created_at"`
	Sections      map[string]Section `json:"sections"`
}

// Section is one entry in the manifest's section map
type Section struct {
	SizeBytes int `json:"size_bytes"`
}

// Write creates a zip bundle at outPath containing the artifacts plus
// a generated manifest. Artifact names must be unique.
func (b *Bundler) Write(outPath string, artifacts []Artifact) (*Manifest, error) {
	if len(artifacts) == 0 {
		return nil, errors.NewMisuse("nothing to bundle")
	}

	seen := make(map[string]bool)
	for _, a := range artifacts {
		if a.Name == "" || a.Name == ManifestName {
			return nil, errors.NewMisuse("invalid artifact name %q", a.Name)
		}
		if seen[a.Name] {
			return nil, errors.NewMisuse("duplicate artifact name %q", a.Name)
		}
		seen[a.Name] = true
	}

	sorted := append([]Artifact{}, artifacts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	manifest := &Manifest{
		SchemaVersion: 1,
		BundleID:      uuid.NewString(),
		Tool:          "autorepro",
		Repo:          filepath.Base(b.repoRoot),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Sections:      make(map[string]Section, len(sorted)),
	}
	for _, a := range sorted {
		manifest.Sections[a.Name] = Section{SizeBytes: len(a.Body)}
	}

	manifestBody, err := output.DeterministicEncodeIndented(manifest, "  ")
	if err != nil {
		return nil, errors.NewReproError(errors.InternalError, "cannot encode manifest", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return nil, errors.NewIOFailure(outPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	entries := append([]Artifact{{Name: ManifestName, Body: manifestBody}}, sorted...)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			_ = zw.Close()
			return nil, errors.NewIOFailure(outPath, err)
		}
		if _, err := w.Write(entry.Body); err != nil {
			_ = zw.Close()
			return nil, errors.NewIOFailure(outPath, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.NewIOFailure(outPath, err)
	}

	if b.logger != nil {
		b.logger.Info("wrote diagnostics bundle", map[string]interface{}{
			"path":  outPath,
			"files": len(entries),
		})
	}
	return manifest, nil
}

// CollectFile reads an optional artifact from disk. A missing file is
// skipped silently so bundles work before any run happened.
func CollectFile(path, name string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOFailure(path, err)
	}
	return &Artifact{Name: name, Body: data}, nil
}

// DefaultBundleName is the conventional output filename
const DefaultBundleName = "repro_bundle.zip"

// Package devcontainer writes a starter devcontainer definition so a
// reproduction environment can be pinned alongside the repository.
package devcontainer

import (
	"encoding/json"
	"os"
	"path/filepath"

	"autorepro/internal/errors"
)

// Dir is the conventional devcontainer directory at the repository root
const Dir = ".devcontainer"

// FileName is the definition file inside Dir
const FileName = "devcontainer.json"

// Definition is the subset of the devcontainer schema the template uses
type Definition struct {
	Name            string            `json:"name"`
	Image           string            `json:"image"`
	PostCreate      string            `json:"postCreateCommand,omitempty"`
	RemoteEnv       map[string]string `json:"remoteEnv,omitempty"`
	ForwardPorts    []int             `json:"forwardPorts,omitempty"`
	CustomFeatures  map[string]any    `json:"features,omitempty"`
	WorkspaceFolder string            `json:"workspaceFolder,omitempty"`
}

// imageForLanguage maps a detected primary language to a devcontainer
// base image. Unknown languages fall back to the generic image.
var imageForLanguage = map[string]string{
	"python": "mcr.microsoft.com/devcontainers/python:3.12",
	"node":   "mcr.microsoft.com/devcontainers/javascript-node:22",
	"go":     "mcr.microsoft.com/devcontainers/go:1.24",
	"rust":   "mcr.microsoft.com/devcontainers/rust:1",
	"java":   "mcr.microsoft.com/devcontainers/java:21",
}

const fallbackImage = "mcr.microsoft.com/devcontainers/base:ubuntu"

// Template builds a starter definition for a repository whose primary
// language is known (empty means unknown).
func Template(repoName, primaryLanguage string) *Definition {
	image, ok := imageForLanguage[primaryLanguage]
	if !ok {
		image = fallbackImage
	}
	name := repoName
	if name == "" {
		name = "reproduction"
	}
	return &Definition{
		Name:  name,
		Image: image,
	}
}

// Exists reports whether root already has a devcontainer definition
func Exists(root string) bool {
	_, err := os.Stat(filepath.Join(root, Dir, FileName))
	return err == nil
}

// Write persists the definition under root. An existing definition is
// never overwritten unless force is set.
func Write(root string, def *Definition, force bool) (string, error) {
	path := filepath.Join(root, Dir, FileName)
	if !force && Exists(root) {
		return path, errors.NewMisuse("%s already exists", path).
			WithHint("pass --force to overwrite")
	}

	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return "", errors.NewIOFailure(filepath.Join(root, Dir), err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return "", errors.NewReproError(errors.InternalError, "cannot marshal devcontainer definition", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.NewIOFailure(path, err)
	}
	return path, nil
}

// SPDX-License-Identifier: MPL-2.0

// Package cargo resolves the source root of a Rust crate from its manifest.
package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the crate manifest file name.
	ManifestName = "Cargo.toml"
	// DefaultSourceDir is used when the manifest does not name a library path.
	DefaultSourceDir = "src"
)

// ErrInvalidManifest is returned when Cargo.toml cannot be decoded.
var ErrInvalidManifest = errors.New("invalid Cargo.toml")

type (
	// Manifest is the subset of Cargo.toml consulted for the source root.
	Manifest struct {
		Package *Package `toml:"package"`
		Lib     *Target  `toml:"lib"`
	}

	// Package is the [package] table.
	Package struct {
		Name string `toml:"name"`
	}

	// Target is a [lib] or [[bin]] table.
	Target struct {
		Name string `toml:"name"`
		Path string `toml:"path"`
	}
)

// ReadManifest decodes the Cargo.toml of projectDir.
// A missing manifest is reported with an error wrapping fs.ErrNotExist.
func ReadManifest(projectDir string) (*Manifest, error) {
	manifestPath := filepath.Join(projectDir, ManifestName)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %s", ErrInvalidManifest, manifestPath, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, manifestPath, err)
	}

	return &m, nil
}

// ResolveSourceRoot returns the directory holding the crate's library root.
// The directory of [lib].path wins; otherwise, and when there is no
// Cargo.toml at all, projectDir/src is returned.
func ResolveSourceRoot(projectDir string) (string, error) {
	m, err := ReadManifest(projectDir)
	if errors.Is(err, fs.ErrNotExist) {
		return filepath.Join(projectDir, DefaultSourceDir), nil
	}
	if err != nil {
		return "", err
	}

	if m.Lib == nil || m.Lib.Path == "" {
		return filepath.Join(projectDir, DefaultSourceDir), nil
	}

	// Manifest paths always use forward slashes.
	dir := path.Dir(m.Lib.Path)
	if filepath.IsAbs(filepath.FromSlash(dir)) {
		return filepath.FromSlash(dir), nil
	}
	return filepath.Join(projectDir, filepath.FromSlash(dir)), nil
}

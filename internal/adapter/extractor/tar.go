// Package extractor turns a downloaded component artifact into a runnable
// binary.
package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// BinName is the executable expected inside a component bundle.
const BinName = "component"

// TarExtractor implements domain.Preparer. Tarball artifacts are unpacked
// under repoBaseDir/<version>/; plain artifacts are marked executable in
// place.
type TarExtractor struct {
	repoBaseDir string
	log         zerolog.Logger
}

// NewTarExtractor creates an extractor that places bundles under repoBaseDir.
func NewTarExtractor(repoBaseDir string, log zerolog.Logger) *TarExtractor {
	return &TarExtractor{repoBaseDir: repoBaseDir, log: log}
}

// BinPath returns the path of the binary for an extracted bundle.
func (e *TarExtractor) BinPath(version string) string {
	return filepath.Join(e.ComponentDir(version), "bin", BinName)
}

// ComponentDir returns the directory a bundle version is extracted into.
func (e *TarExtractor) ComponentDir(version string) string {
	return filepath.Join(e.repoBaseDir, version)
}

// IsProvisioned checks if the bundle binary exists for version.
func (e *TarExtractor) IsProvisioned(version string) bool {
	info, err := os.Stat(e.BinPath(version))
	return err == nil && !info.IsDir()
}

// Prepare sets a.BinPath.
func (e *TarExtractor) Prepare(ctx context.Context, a domain.Artifact) (domain.Artifact, error) {
	if a.Path == "" {
		return a, fmt.Errorf("prepare: artifact has no path")
	}
	if !isTarball(a.Path) {
		if err := os.Chmod(a.Path, 0755); err != nil {
			return a, fmt.Errorf("mark executable: %w", err)
		}
		a.BinPath = a.Path
		return a, nil
	}

	version := a.Version
	if version == "" {
		version = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(a.Path), ".gz"), ".tar")
	}
	if e.IsProvisioned(version) {
		e.log.Info().Str("version", version).Msg("component already extracted")
		a.BinPath = e.BinPath(version)
		return a, nil
	}
	if err := e.Extract(ctx, a.Path, e.ComponentDir(version)); err != nil {
		return a, err
	}
	a.BinPath = e.BinPath(version)
	return a, nil
}

func isTarball(path string) bool {
	return strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tgz")
}

// Extract unpacks the tarball into targetDir. The bundle's top-level
// directory is stripped.
func (e *TarExtractor) Extract(ctx context.Context, tarballPath, targetDir string) error {
	if err := os.MkdirAll(filepath.Dir(targetDir), 0755); err != nil {
		return fmt.Errorf("create repository dir: %w", err)
	}

	// Unpack beside the target dir and swap it in with one rename.
	tmpDir, err := os.MkdirTemp(filepath.Dir(targetDir), ".extract-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	e.log.Info().Str("tarball", tarballPath).Str("target", targetDir).Msg("extracting component")

	cmd := exec.CommandContext(ctx, "tar", "xzf", tarballPath, "-C", tmpDir, "--strip-components=1")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(tmpDir)
		return fmt.Errorf("tar extract: %w: %s", err, strings.TrimSpace(string(out)))
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "bin", BinName)); err != nil {
		os.RemoveAll(tmpDir)
		return fmt.Errorf("extracted bundle missing bin/%s, delete %s and retry: %w", BinName, tarballPath, domain.ErrOutdated)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		os.RemoveAll(tmpDir)
		return fmt.Errorf("rename extracted dir: %w", err)
	}

	e.log.Info().Str("path", targetDir).Msg("extraction complete")
	return nil
}

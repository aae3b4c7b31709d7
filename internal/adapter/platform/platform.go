package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName          = ".hoot"
	upstreamDirName     = ".runelite"
	legacyCacheName     = "jagexcache"
	settingsFileName    = "settings.properties"
	clientSettingsName  = "hoot.properties"
	httpCacheSubdirName = "okhttp"
)

// Platform resolves the launcher's directory layout.
type Platform struct {
	homeDir string
	baseDir string
}

// New creates a Platform rooted at the current user's home directory.
// A non-empty baseOverride replaces the default ~/.hoot application directory.
func New(baseOverride string) (*Platform, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewAt(home, baseOverride), nil
}

// NewAt creates a Platform for an explicit home directory.
func NewAt(home, baseOverride string) *Platform {
	base := baseOverride
	if base == "" {
		base = filepath.Join(home, appDirName)
	}
	return &Platform{homeDir: home, baseDir: base}
}

// HomeDir returns the user's real home directory.
func (p *Platform) HomeDir() string { return p.homeDir }

// BaseDir returns the private application directory (~/.hoot).
func (p *Platform) BaseDir() string { return p.baseDir }

// CacheDir returns ~/.hoot/cache.
func (p *Platform) CacheDir() string { return filepath.Join(p.baseDir, "cache") }

// LogsDir returns ~/.hoot/logs.
func (p *Platform) LogsDir() string { return filepath.Join(p.baseDir, "logs") }

// DataDir returns ~/.hoot/data.
func (p *Platform) DataDir() string { return filepath.Join(p.baseDir, "data") }

// ScriptsDir returns ~/.hoot/scripts.
func (p *Platform) ScriptsDir() string { return filepath.Join(p.baseDir, "scripts") }

// RepositoryDir returns the directory prepared component builds are unpacked into.
func (p *Platform) RepositoryDir() string { return filepath.Join(p.CacheDir(), "repository") }

// DefaultSettingsFile returns ~/.hoot/settings.properties.
func (p *Platform) DefaultSettingsFile() string {
	return filepath.Join(p.baseDir, settingsFileName)
}

// DefaultClientSettingsFile returns ~/.hoot/hoot.properties.
func (p *Platform) DefaultClientSettingsFile() string {
	return filepath.Join(p.baseDir, clientSettingsName)
}

// HTTPCacheDirs returns the HTTP cache locations in the order they are
// applied: the upstream client's cache first, ours last.
func (p *Platform) HTTPCacheDirs() []string {
	return []string{
		filepath.Join(p.homeDir, upstreamDirName, "cache", httpCacheSubdirName),
		filepath.Join(p.CacheDir(), httpCacheSubdirName),
	}
}

// LegacyCacheDir returns the component cache written before it was confined
// to the application directory (~/jagexcache).
func (p *Platform) LegacyCacheDir() string {
	return filepath.Join(p.homeDir, legacyCacheName)
}

// MigratedCacheDir returns ~/.hoot/jagexcache.
func (p *Platform) MigratedCacheDir() string {
	return filepath.Join(p.baseDir, legacyCacheName)
}

// EnsureDirs creates the fixed directories under the application directory.
func (p *Platform) EnsureDirs() error {
	for _, dir := range []string{p.CacheDir(), p.LogsDir(), p.DataDir(), p.ScriptsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// ResolveConfigPath resolves a settings file argument. Absolute paths and
// paths starting with ./ or .\ are used as given; anything else is taken
// relative to base.
func ResolveConfigPath(base, name string) string {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "./") || strings.HasPrefix(name, `.\`) {
		return name
	}
	return filepath.Join(base, name)
}

// CheckConfigFile returns false when path exists but is not a regular,
// writable file. A missing path is accepted.
func CheckConfigFile(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	// Root can open anything; treat a file without write bits as read-only.
	if info.Mode().Perm()&0222 == 0 {
		return false
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

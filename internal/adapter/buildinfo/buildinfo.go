// Package buildinfo exposes the properties stamped into the binary at build
// time and the environment variables that override them.
package buildinfo

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed build.toml
var buildTOML string

// Properties are the build-time settings of the launcher.
type Properties struct {
	Version                     string `toml:"version"`
	SystemVersion               string `toml:"system_version"`
	JavConfig                   string `toml:"jav_config"`
	APIBase                     string `toml:"api_base"`
	InsecureSkipTLSVerification bool   `toml:"insecure_skip_tls_verification"`

	// Filled from the environment, never from build.toml.
	LauncherVersion string `toml:"-"`
	Home            string `toml:"-"`
	LogLevel        string `toml:"-"`
	UpdateCheck     string `toml:"-"`
}

// overrides are read with caarlos0/env.
type overrides struct {
	Home                        string `env:"HOOT_HOME"`
	LauncherVersion             string `env:"HOOT_LAUNCHER_VERSION"`
	JavConfig                   string `env:"HOOT_JAV_CONFIG"`
	APIBase                     string `env:"HOOT_API_BASE"`
	InsecureSkipTLSVerification bool   `env:"HOOT_INSECURE_SKIP_TLS_VERIFICATION"`
	LogLevel                    string `env:"HOOT_LOG_LEVEL" envDefault:"info"`
	UpdateCheck                 string `env:"HOOT_UPDATE_CHECK" envDefault:"auto"`
}

// Load decodes the embedded properties and applies environment overrides.
func Load() (Properties, error) {
	return load(buildTOML)
}

func load(src string) (Properties, error) {
	var p Properties
	if _, err := toml.Decode(src, &p); err != nil {
		return Properties{}, fmt.Errorf("decode build properties: %w", err)
	}

	var ov overrides
	if err := env.Parse(&ov); err != nil {
		return Properties{}, fmt.Errorf("parse env: %w", err)
	}

	if ov.JavConfig != "" {
		p.JavConfig = ov.JavConfig
	}
	if ov.APIBase != "" {
		p.APIBase = ov.APIBase
	}
	p.InsecureSkipTLSVerification = p.InsecureSkipTLSVerification || ov.InsecureSkipTLSVerification
	p.LauncherVersion = ov.LauncherVersion
	if p.LauncherVersion == "" {
		p.LauncherVersion = "unknown"
	}
	p.Home = ov.Home
	p.LogLevel = ov.LogLevel
	p.UpdateCheck = ov.UpdateCheck
	return p, nil
}

// VersionOrUnknown returns the version, or "unknown" if none was stamped.
func (p Properties) VersionOrUnknown() string {
	if p.Version == "" {
		return "unknown"
	}
	return p.Version
}

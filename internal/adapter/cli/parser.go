// Package cli turns launch arguments into a RuntimeConfiguration.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"hoot/internal/adapter/environment"
	"hoot/internal/adapter/platform"
	"hoot/internal/domain"
)

// Flag names.
const (
	FlagDebug              = "debug"
	FlagInsecureSkipTLS    = "insecure-skip-tls-verification"
	FlagJavConfig          = "jav_config"
	FlagProxy              = "proxy"
	FlagWorld              = "world"
	FlagSettingsFile       = "runelite"
	FlagClientSettingsFile = "hoot"
)

// RuntimeConfiguration is the resolved launch configuration.
type RuntimeConfiguration struct {
	Debug                       bool
	InsecureSkipTLSVerification bool
	JavConfigURL                string
	Proxy                       *environment.Proxy
	World                       *int
	SettingsFile                string
	ClientSettingsFile          string
	Args                        []string
}

// Defaults are the values used for options not given on the command line.
type Defaults struct {
	JavConfigURL       string
	SettingsFile       string
	ClientSettingsFile string
}

// Parser binds launch flags to a flag set and resolves them.
type Parser struct {
	baseDir  string
	env      *environment.Environment
	defaults Defaults

	fs                 *pflag.FlagSet
	debug              bool
	insecure           bool
	javConfig          string
	proxy              string
	world              int
	settingsFile       string
	clientSettingsFile string
}

// NewParser creates a parser that resolves relative settings paths against
// baseDir and applies side effects to env.
func NewParser(baseDir string, env *environment.Environment, d Defaults) *Parser {
	return &Parser{baseDir: baseDir, env: env, defaults: d}
}

// Bind registers the launch flags on fs.
func (p *Parser) Bind(fs *pflag.FlagSet) {
	p.fs = fs
	fs.BoolVar(&p.debug, FlagDebug, false, "show extra debugging output")
	fs.BoolVar(&p.insecure, FlagInsecureSkipTLS, false, "disable TLS certificate verification")
	fs.StringVar(&p.javConfig, FlagJavConfig, p.defaults.JavConfigURL, "jav_config url")
	fs.StringVar(&p.proxy, FlagProxy, "", "SOCKS proxy as host:port[:user:pass]")
	fs.IntVar(&p.world, FlagWorld, 0, "world to connect to")
	fs.StringVar(&p.settingsFile, FlagSettingsFile, p.defaults.SettingsFile, "use a specified settings file")
	fs.StringVar(&p.clientSettingsFile, FlagClientSettingsFile, p.defaults.ClientSettingsFile, "use a specified client settings file")
}

// Resolve validates the parsed flags, applies their side effects to the
// environment and returns the configuration. args are the raw tokens, kept
// for the startup log.
func (p *Parser) Resolve(args []string) (RuntimeConfiguration, error) {
	if p.fs == nil {
		return RuntimeConfiguration{}, fmt.Errorf("parser is not bound to a flag set")
	}

	settings, err := p.configFile(FlagSettingsFile, p.settingsFile)
	if err != nil {
		return RuntimeConfiguration{}, err
	}
	clientSettings, err := p.configFile(FlagClientSettingsFile, p.clientSettingsFile)
	if err != nil {
		return RuntimeConfiguration{}, err
	}

	cfg := RuntimeConfiguration{
		Debug:                       p.debug,
		InsecureSkipTLSVerification: p.insecure,
		JavConfigURL:                p.javConfig,
		SettingsFile:                settings,
		ClientSettingsFile:          clientSettings,
		Args:                        append([]string(nil), args...),
	}

	if p.fs.Changed(FlagProxy) {
		cfg.Proxy = ParseProxy(p.proxy)
	}
	if p.fs.Changed(FlagWorld) {
		w := p.world
		cfg.World = &w
	}

	p.apply(cfg)
	return cfg, nil
}

// configFile resolves and checks a settings path given on the command line.
// Defaults are used as they are.
func (p *Parser) configFile(flag, name string) (string, error) {
	if !p.fs.Changed(flag) {
		return name, nil
	}
	path := platform.ResolveConfigPath(p.baseDir, name)
	if !platform.CheckConfigFile(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		return "", domain.InaccessibleConfigFile(abs)
	}
	return path, nil
}

// apply publishes the configuration's process-wide effects.
func (p *Parser) apply(cfg RuntimeConfiguration) {
	if p.env == nil {
		return
	}
	if cfg.Debug {
		p.env.SetLogLevel(zerolog.DebugLevel)
	}
	if cfg.Proxy != nil {
		p.env.SetSocksProxy(cfg.Proxy.Host, cfg.Proxy.Port)
		if cfg.Proxy.HasAuth() {
			p.env.SetProxyAuth(cfg.Proxy.User, cfg.Proxy.Password)
		}
	}
	if cfg.World != nil {
		p.env.PublishWorld(*cfg.World)
	}
}

// Parse binds a fresh flag set, parses args and resolves the result.
func Parse(args []string, baseDir string, env *environment.Environment, d Defaults) (RuntimeConfiguration, error) {
	p := NewParser(baseDir, env, d)
	fs := pflag.NewFlagSet("hoot", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	p.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return RuntimeConfiguration{}, Malformed(args, err)
	}
	return p.Resolve(args)
}

// Malformed wraps a flag parsing error, naming the token it refers to.
func Malformed(args []string, err error) error {
	return domain.MalformedArgument(offendingToken(args, err), err)
}

// offendingToken finds the first argument mentioned by a pflag error.
func offendingToken(args []string, err error) string {
	msg := err.Error()
	for _, a := range args {
		if !strings.HasPrefix(a, "-") || isDashOnly(a) {
			continue
		}
		name, _, _ := strings.Cut(a, "=")
		if strings.Contains(msg, a) || strings.Contains(msg, name) {
			return name
		}
	}
	for _, a := range args {
		if a == "" || isDashOnly(a) {
			continue
		}
		if strings.Contains(msg, a) {
			return a
		}
	}
	return msg
}

// isDashOnly reports "-" and "--", which every pflag message contains.
func isDashOnly(a string) bool {
	return strings.Trim(a, "-") == ""
}

// ParseProxy splits host:port[:user:pass]. Fewer than two fields yields nil;
// credentials are set only when at least four fields are present.
func ParseProxy(spec string) *environment.Proxy {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return nil
	}
	p := &environment.Proxy{Host: parts[0], Port: parts[1]}
	if len(parts) >= 4 {
		p.User = parts[2]
		p.Password = parts[3]
	}
	return p
}

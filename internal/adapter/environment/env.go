// Package environment holds the process-wide settings the launcher would
// otherwise keep in globals. One Environment is built in main and passed to
// every component that needs it.
package environment

import (
	"net"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// DefaultUIScale disables fractional scaling in the component.
const DefaultUIScale = "1.0"

// Proxy is a SOCKS endpoint with optional credentials.
type Proxy struct {
	Host     string
	Port     string
	User     string
	Password string
}

// Addr returns host:port.
func (p Proxy) Addr() string {
	return net.JoinHostPort(p.Host, p.Port)
}

// HasAuth reports whether credentials were installed.
func (p Proxy) HasAuth() bool {
	return p.User != ""
}

// Environment is the explicit replacement for ambient process state.
type Environment struct {
	mu              sync.RWMutex
	locale          language.Tag
	uiScale         string
	launcherVersion string
	proxy           *Proxy
	world           *int
	level           zerolog.Level
	home            string
	lastFatal       error
}

// New creates an Environment rooted at home with English locale and the
// given launcher version marker ("unknown" when empty).
func New(home, launcherVersion string) *Environment {
	if launcherVersion == "" {
		launcherVersion = "unknown"
	}
	return &Environment{
		locale:          language.English,
		uiScale:         DefaultUIScale,
		launcherVersion: launcherVersion,
		level:           zerolog.InfoLevel,
		home:            home,
	}
}

// Locale returns the UI language.
func (e *Environment) Locale() language.Tag {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.locale
}

// UIScale returns the UI scale factor passed to the component.
func (e *Environment) UIScale() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.uiScale
}

// LauncherVersion returns the version of the launcher that started hoot,
// or "" when run directly.
func (e *Environment) LauncherVersion() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.launcherVersion
}

// SetLogLevel records the level and applies it to zerolog globally.
func (e *Environment) SetLogLevel(l zerolog.Level) {
	e.mu.Lock()
	e.level = l
	e.mu.Unlock()
	zerolog.SetGlobalLevel(l)
}

// LogLevel returns the level last set with SetLogLevel.
func (e *Environment) LogLevel() zerolog.Level {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level
}

// SetSocksProxy installs the SOCKS host and port, keeping any credentials.
func (e *Environment) SetSocksProxy(host, port string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proxy == nil {
		e.proxy = &Proxy{}
	}
	e.proxy.Host = host
	e.proxy.Port = port
}

// SetProxyAuth installs SOCKS credentials.
func (e *Environment) SetProxyAuth(user, password string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proxy == nil {
		e.proxy = &Proxy{}
	}
	e.proxy.User = user
	e.proxy.Password = password
}

// Proxy returns a copy of the proxy settings, if any.
func (e *Environment) Proxy() (Proxy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.proxy == nil || e.proxy.Host == "" {
		return Proxy{}, false
	}
	return *e.proxy, true
}

// PublishWorld records the world requested on the command line.
func (e *Environment) PublishWorld(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world = &n
}

// World returns the published world, if any.
func (e *Environment) World() (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.world == nil {
		return 0, false
	}
	return *e.world, true
}

// Home returns the home directory, including any active override.
func (e *Environment) Home() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.home
}

// OverrideHome swaps the home directory and returns a func that restores
// the previous value. Not safe against concurrent overrides.
func (e *Environment) OverrideHome(dir string) (restore func()) {
	e.mu.Lock()
	old := e.home
	e.home = dir
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		e.home = old
		e.mu.Unlock()
	}
}

// RecordFatal stores the most recent unhandled background failure.
func (e *Environment) RecordFatal(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastFatal = err
}

// LastFatal returns the cause recorded by RecordFatal, or nil.
func (e *Environment) LastFatal() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastFatal
}

// ChildEnv renders the settings the external component reads from its
// process environment, appended to base.
func (e *Environment) ChildEnv(base []string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	env := append([]string{}, base...)
	env = append(env,
		"HOME="+e.home,
		"LANG="+e.locale.String(),
		"HOOT_UI_SCALE="+e.uiScale,
		"HOOT_LAUNCHER_VERSION="+e.launcherVersion,
	)
	if e.proxy != nil && e.proxy.Host != "" {
		u := url.URL{Scheme: "socks5", Host: e.proxy.Addr()}
		if e.proxy.User != "" {
			u.User = url.UserPassword(e.proxy.User, e.proxy.Password)
		}
		env = append(env, "ALL_PROXY="+u.String())
	}
	return env
}

// Package module is the automation layer's entry point: it indexes the
// scripts directory and starts the quick-launch script.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// Settings keys read by the module.
const (
	SettingsGroup  = "hoot"
	KeyQuickLaunch = "quickLaunch"
)

// Script is an indexed automation script.
type Script struct {
	Name string
	Path string
}

// Module implements domain.Module.
type Module struct {
	scriptsDir string
	settings   domain.ConfigManager
	bus        domain.EventBus
	log        zerolog.Logger

	mu      sync.Mutex
	scripts map[string]Script
}

// New creates a module over scriptsDir. bus may be nil.
func New(scriptsDir string, settings domain.ConfigManager, bus domain.EventBus, log zerolog.Logger) *Module {
	return &Module{scriptsDir: scriptsDir, settings: settings, bus: bus, log: log}
}

// Initialize indexes the scripts directory, creating it if missing. The
// script name is the file name without extension; hidden files are skipped.
func (m *Module) Initialize() error {
	if err := os.MkdirAll(m.scriptsDir, 0755); err != nil {
		return fmt.Errorf("create scripts dir: %w", err)
	}
	entries, err := os.ReadDir(m.scriptsDir)
	if err != nil {
		return fmt.Errorf("read scripts dir: %w", err)
	}

	scripts := make(map[string]Script)
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		scripts[name] = Script{Name: name, Path: filepath.Join(m.scriptsDir, e.Name())}
	}

	m.mu.Lock()
	m.scripts = scripts
	m.mu.Unlock()

	m.log.Info().Int("scripts", len(scripts)).Str("dir", m.scriptsDir).Msg("automation module initialized")
	return nil
}

// Scripts returns the indexed scripts sorted by name.
func (m *Module) Scripts() []Script {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Script, 0, len(m.scripts))
	for _, s := range m.scripts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// QuickLaunch starts the script named by hoot.quickLaunch. No setting means
// nothing to launch; an unknown script is logged and skipped.
func (m *Module) QuickLaunch() error {
	m.mu.Lock()
	scripts := m.scripts
	m.mu.Unlock()
	if scripts == nil {
		return fmt.Errorf("quick launch: module not initialized")
	}

	name, ok := m.settings.Get(SettingsGroup, KeyQuickLaunch)
	if !ok || name == "" {
		return nil
	}
	s, ok := scripts[name]
	if !ok {
		names := make([]string, 0, len(scripts))
		for _, sc := range m.Scripts() {
			names = append(names, sc.Name)
		}
		m.log.Warn().Str("script", name).Strs("available", names).Msg("quick launch script not found")
		return nil
	}

	m.log.Info().Str("script", s.Name).Msg("quick launching script")
	if m.bus != nil {
		m.bus.Post(domain.ScriptLaunched{Name: s.Name, Path: s.Path})
	}
	return nil
}

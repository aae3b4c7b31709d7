// Package settings persists user settings in .properties files.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/magiconair/properties"
	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// Manager implements domain.ConfigManager. Keys are stored as group.key.
// Reads consult the client file first and then the shared settings file;
// writes go to the client file and are saved when the resulting
// ConfigChanged event comes back through the bus.
type Manager struct {
	sharedPath string
	clientPath string
	bus        domain.EventBus
	log        zerolog.Logger

	mu     sync.RWMutex
	shared *properties.Properties
	client *properties.Properties
	dirty  bool
	// pending holds values set since the last save. Load keeps them over
	// what it reads from disk.
	pending map[string]string
}

// NewManager creates a manager for the two settings files. bus may be nil.
func NewManager(sharedPath, clientPath string, bus domain.EventBus, log zerolog.Logger) *Manager {
	return &Manager{
		sharedPath: sharedPath,
		clientPath: clientPath,
		bus:        bus,
		log:        log,
		shared:     newProps(),
		client:     newProps(),
	}
}

func newProps() *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true
	return p
}

// Load reads both files. Missing files load as empty. Values set before
// Load override the loaded client file and are written back to it.
func (m *Manager) Load() error {
	shared, err := loadFile(m.sharedPath)
	if err != nil {
		return err
	}
	client, err := loadFile(m.clientPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	for k, v := range m.pending {
		if _, _, err := client.Set(k, v); err != nil {
			m.log.Warn().Err(err).Str("key", k).Msg("unable to set setting")
		}
	}
	m.shared, m.client = shared, client
	m.dirty = len(m.pending) > 0
	kept := len(m.pending)
	m.mu.Unlock()

	m.log.Debug().
		Str("shared", m.sharedPath).Int("shared_keys", shared.Len()).
		Str("client", m.clientPath).Int("client_keys", client.Len()).
		Int("pending", kept).
		Msg("settings loaded")

	if kept > 0 {
		if err := m.Save(); err != nil {
			m.log.Warn().Err(err).Str("path", m.clientPath).Msg("unable to save settings")
		}
	}
	return nil
}

func loadFile(path string) (*properties.Properties, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true, IgnoreMissing: true}
	p, err := l.LoadAll([]string{path})
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", path, err)
	}
	return p, nil
}

// Get returns the value of group.key.
func (m *Manager) Get(group, key string) (string, bool) {
	k := group + "." + key
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.client.Get(k); ok {
		return v, true
	}
	return m.shared.Get(k)
}

// Set stores group.key and posts ConfigChanged when the value changed.
func (m *Manager) Set(group, key, value string) {
	k := group + "." + key
	m.mu.Lock()
	prev, had := m.client.Get(k)
	if had && prev == value {
		m.mu.Unlock()
		return
	}
	if _, _, err := m.client.Set(k, value); err != nil {
		m.mu.Unlock()
		m.log.Warn().Err(err).Str("key", k).Msg("unable to set setting")
		return
	}
	m.dirty = true
	if m.pending == nil {
		m.pending = make(map[string]string)
	}
	m.pending[k] = value
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Post(domain.ConfigChanged{Group: group, Key: key, Value: value})
	}
}

// OnEvent saves pending changes on ConfigChanged.
func (m *Manager) OnEvent(e domain.Event) {
	if _, ok := e.(domain.ConfigChanged); !ok {
		return
	}
	if err := m.Save(); err != nil {
		m.log.Warn().Err(err).Str("path", m.clientPath).Msg("unable to save settings")
	}
}

// Save writes the client file if it has unsaved changes.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}

	dir := filepath.Dir(m.clientPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	// Rename over the old file only once the new one is complete.
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := m.client.Write(tmp, properties.UTF8); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.clientPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename settings: %w", err)
	}
	m.dirty = false
	m.pending = nil
	return nil
}

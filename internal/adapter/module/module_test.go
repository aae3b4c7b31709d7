package module

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

type mapSettings map[string]string

func (s mapSettings) OnEvent(domain.Event) {}
func (s mapSettings) Load() error          { return nil }
func (s mapSettings) Get(group, key string) (string, bool) {
	v, ok := s[group+"."+key]
	return v, ok
}
func (s mapSettings) Set(group, key, value string) { s[group+"."+key] = value }

type recordingBus struct{ events []domain.Event }

func (b *recordingBus) Register(domain.Subscriber)   {}
func (b *recordingBus) Unregister(domain.Subscriber) {}
func (b *recordingBus) Post(e domain.Event)          { b.events = append(b.events, e) }

func scriptsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("-- script"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestInitialize_IndexesScripts(t *testing.T) {
	dir := scriptsDir(t, "woodcutter.lua", "fisher.js", ".hidden")
	if err := os.Mkdir(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatal(err)
	}

	m := New(dir, mapSettings{}, nil, zerolog.Nop())
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	var names []string
	for _, s := range m.Scripts() {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != "fisher,woodcutter" {
		t.Errorf("scripts = %v", names)
	}
}

func TestInitialize_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts")
	m := New(dir, mapSettings{}, nil, zerolog.Nop())
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("scripts dir not created: %v", err)
	}
}

func TestQuickLaunch_PostsEvent(t *testing.T) {
	dir := scriptsDir(t, "woodcutter.lua")
	bus := &recordingBus{}
	m := New(dir, mapSettings{"hoot.quickLaunch": "woodcutter"}, bus, zerolog.Nop())
	_ = m.Initialize()

	if err := m.QuickLaunch(); err != nil {
		t.Fatalf("QuickLaunch() error: %v", err)
	}
	if len(bus.events) != 1 {
		t.Fatalf("events = %v", bus.events)
	}
	ev, ok := bus.events[0].(domain.ScriptLaunched)
	if !ok || ev.Name != "woodcutter" || ev.Path != filepath.Join(dir, "woodcutter.lua") {
		t.Errorf("event = %#v", bus.events[0])
	}
}

func TestQuickLaunch_NothingConfigured(t *testing.T) {
	bus := &recordingBus{}
	m := New(scriptsDir(t, "a.lua"), mapSettings{}, bus, zerolog.Nop())
	_ = m.Initialize()
	if err := m.QuickLaunch(); err != nil || len(bus.events) != 0 {
		t.Errorf("QuickLaunch() = %v, events = %v", err, bus.events)
	}
}

func TestQuickLaunch_UnknownScriptSkipped(t *testing.T) {
	var buf strings.Builder
	bus := &recordingBus{}
	m := New(scriptsDir(t), mapSettings{"hoot.quickLaunch": "ghost"}, bus, zerolog.New(&buf))
	_ = m.Initialize()
	if err := m.QuickLaunch(); err != nil {
		t.Fatalf("QuickLaunch() error: %v", err)
	}
	if len(bus.events) != 0 || !strings.Contains(buf.String(), "quick launch script not found") {
		t.Errorf("events = %v, log = %q", bus.events, buf.String())
	}
}

func TestQuickLaunch_UnknownScriptListsAvailable(t *testing.T) {
	var buf strings.Builder
	m := New(scriptsDir(t, "fish.lua", "alch.py"), mapSettings{"hoot.quickLaunch": "ghost"}, nil, zerolog.New(&buf))
	_ = m.Initialize()
	_ = m.QuickLaunch()
	if !strings.Contains(buf.String(), `"available":["alch","fish"]`) {
		t.Errorf("log = %q", buf.String())
	}
}

func TestQuickLaunch_BeforeInitialize(t *testing.T) {
	m := New(t.TempDir(), mapSettings{}, nil, zerolog.Nop())
	if err := m.QuickLaunch(); err == nil {
		t.Fatal("expected error")
	}
}

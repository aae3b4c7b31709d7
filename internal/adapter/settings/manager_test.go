package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// loopbackBus delivers posted events straight back to one subscriber.
type loopbackBus struct {
	sub    domain.Subscriber
	events []domain.Event
}

func (b *loopbackBus) Register(s domain.Subscriber)   { b.sub = s }
func (b *loopbackBus) Unregister(domain.Subscriber) {}
func (b *loopbackBus) Post(e domain.Event) {
	b.events = append(b.events, e)
	if b.sub != nil {
		b.sub.OnEvent(e)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MissingFilesAreEmpty(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(filepath.Join(dir, "settings.properties"), filepath.Join(dir, "hoot.properties"), nil, zerolog.Nop())
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := m.Get("hoot", "lastWorld"); ok {
		t.Error("expected no value")
	}
}

func TestGet_ClientOverridesShared(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "settings.properties")
	client := filepath.Join(dir, "hoot.properties")
	writeFile(t, shared, "runelite.fps=50\nrunelite.theme=${dark}\n")
	writeFile(t, client, "runelite.fps=30\n")

	m := NewManager(shared, client, nil, zerolog.Nop())
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("runelite", "fps"); v != "30" {
		t.Errorf("fps = %q, want 30", v)
	}
	if v, _ := m.Get("runelite", "theme"); v != "${dark}" {
		t.Errorf("theme = %q, want unexpanded ${dark}", v)
	}
}

func TestSet_PersistsThroughBus(t *testing.T) {
	dir := t.TempDir()
	client := filepath.Join(dir, "nested", "hoot.properties")
	bus := &loopbackBus{}
	m := NewManager(filepath.Join(dir, "settings.properties"), client, bus, zerolog.Nop())
	bus.Register(m)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	m.Set("hoot", "lastWorld", "420")

	if len(bus.events) != 1 {
		t.Fatalf("events = %v", bus.events)
	}
	if ev, ok := bus.events[0].(domain.ConfigChanged); !ok || ev.Key != "lastWorld" || ev.Value != "420" {
		t.Errorf("event = %#v", bus.events[0])
	}
	b, err := os.ReadFile(client)
	if err != nil {
		t.Fatalf("client file not written: %v", err)
	}
	if !strings.Contains(string(b), "hoot.lastWorld = 420") {
		t.Errorf("client file = %q", b)
	}

	reloaded := NewManager(filepath.Join(dir, "settings.properties"), client, nil, zerolog.Nop())
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if v, _ := reloaded.Get("hoot", "lastWorld"); v != "420" {
		t.Errorf("reloaded lastWorld = %q", v)
	}
}

func TestLoad_KeepsValuesSetBeforeLoad(t *testing.T) {
	dir := t.TempDir()
	client := filepath.Join(dir, "hoot.properties")
	writeFile(t, client, "hoot.quickLaunch = fisher\nhoot.lastWorld = 301\n")

	// Nothing is subscribed yet, as during component attach.
	bus := &loopbackBus{}
	m := NewManager(filepath.Join(dir, "settings.properties"), client, bus, zerolog.Nop())
	m.Set("hoot", "lastWorld", "308")

	if err := m.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if v, ok := m.Get("hoot", "lastWorld"); !ok || v != "308" {
		t.Errorf("lastWorld = %q, %v, want 308", v, ok)
	}
	if v, _ := m.Get("hoot", "quickLaunch"); v != "fisher" {
		t.Errorf("quickLaunch = %q", v)
	}

	b, err := os.ReadFile(client)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hoot.lastWorld = 308") || !strings.Contains(string(b), "hoot.quickLaunch = fisher") {
		t.Errorf("client file = %q", b)
	}
}

func TestSet_UnchangedValuePostsNothing(t *testing.T) {
	bus := &loopbackBus{}
	dir := t.TempDir()
	m := NewManager(filepath.Join(dir, "a"), filepath.Join(dir, "b"), bus, zerolog.Nop())
	m.Set("g", "k", "v")
	m.Set("g", "k", "v")
	if len(bus.events) != 1 {
		t.Errorf("events = %d, want 1", len(bus.events))
	}
}

func TestOnEvent_IgnoresOtherEvents(t *testing.T) {
	dir := t.TempDir()
	client := filepath.Join(dir, "hoot.properties")
	m := NewManager(filepath.Join(dir, "settings.properties"), client, nil, zerolog.Nop())
	m.Set("g", "k", "v")
	m.OnEvent(domain.WorldChanged{})
	if _, err := os.Stat(client); !os.IsNotExist(err) {
		t.Error("client file should not be written for unrelated events")
	}
}

func TestLoad_Unreadable(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, filepath.Join(dir, "hoot.properties"), nil, zerolog.Nop())
	if err := m.Load(); err == nil {
		t.Fatal("expected error loading a directory")
	}
}

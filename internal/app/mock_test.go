package app

import (
	"context"
	"fmt"

	"hoot/internal/adapter/environment"
	"hoot/internal/domain"
)

// callLog records the order collaborators are called in.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// mockTarget records lifecycle calls and the home seen by Init.
type mockTarget struct {
	log       *callLog
	env       *environment.Environment
	size      domain.Dimension
	initHome  string
	envHome   string
	initErr   error
	initPanic bool
	startErr  error
}

func (m *mockTarget) SetSize(d domain.Dimension) error {
	m.log.add("target.SetSize")
	m.size = d
	return nil
}

func (m *mockTarget) Init(ctx context.Context, home string) error {
	m.log.add("target.Init")
	m.initHome = home
	m.envHome = m.env.Home()
	if m.initPanic {
		panic("init exploded")
	}
	return m.initErr
}

func (m *mockTarget) Start(ctx context.Context) error {
	m.log.add("target.Start")
	return m.startErr
}

func (m *mockTarget) Wait() error { return nil }
func (m *mockTarget) Stop()       {}

// mockClient is a component handle with a settable current world.
type mockClient struct {
	log       *callLog
	world     int
	worldErr  error
	injected  domain.Bindings
	injectErr error
	changed   []domain.World
	changeErr error
}

func (m *mockClient) Inject(b domain.Bindings) error {
	m.log.add("client.Inject")
	m.injected = b
	return m.injectErr
}

func (m *mockClient) World() (int, error) { return m.world, m.worldErr }

func (m *mockClient) NewWorld() domain.World { return domain.World{} }

func (m *mockClient) ChangeWorld(w domain.World) error {
	m.log.add("client.ChangeWorld %d", w.ID)
	if m.changeErr != nil {
		return m.changeErr
	}
	m.changed = append(m.changed, w)
	return nil
}

// mockDirectory returns a fixed world list.
type mockDirectory struct {
	result *domain.WorldResult
	err    error
	calls  int
}

func (m *mockDirectory) Worlds(ctx context.Context) (*domain.WorldResult, error) {
	m.calls++
	return m.result, m.err
}

// mockBus records registrations.
type mockBus struct {
	log *callLog
}

func (m *mockBus) Register(s domain.Subscriber) {
	m.log.add("bus.Register %s", s.(interface{ name() string }).name())
}
func (m *mockBus) Unregister(domain.Subscriber) {}
func (m *mockBus) Post(domain.Event)            {}

// step is a generic recording collaborator for the UI, settings and module
// ports. err fails the call named failOn.
type step struct {
	id     string
	log    *callLog
	failOn string
	err    error
}

func (s *step) name() string        { return s.id }
func (s *step) OnEvent(domain.Event) {}

func (s *step) call(method string) error {
	s.log.add("%s.%s", s.id, method)
	if method == s.failOn {
		return s.err
	}
	return nil
}

func (s *step) Load() error                          { return s.call("Load") }
func (s *step) Get(group, key string) (string, bool) { return "", false }
func (s *step) Set(group, key, value string)         {}
func (s *step) Init() error                          { return s.call("Init") }
func (s *step) Show() error                          { return s.call("Show") }
func (s *step) Initialize() error                    { return s.call("Initialize") }
func (s *step) QuickLaunch() error                   { return s.call("QuickLaunch") }

// mockLayout is a fixed directory layout.
type mockLayout struct {
	base, legacy, migrated string
}

func (m mockLayout) BaseDir() string          { return m.base }
func (m mockLayout) LegacyCacheDir() string   { return m.legacy }
func (m mockLayout) MigratedCacheDir() string { return m.migrated }

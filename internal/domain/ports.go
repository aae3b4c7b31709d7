package domain

import "context"

// AttachTarget is the runnable shell the external component is attached to.
// SetSize must be called before Init; Init receives the private home
// directory the component writes its own cache under.
type AttachTarget interface {
	SetSize(d Dimension) error
	Init(ctx context.Context, home string) error
	Start(ctx context.Context) error
	// Wait blocks until the component exits.
	Wait() error
	Stop()
}

// Client is the handle to a loaded external component.
type Client interface {
	// Inject hands the component the collaborators it could not receive at
	// construction time.
	Inject(b Bindings) error
	World() (int, error)
	NewWorld() World
	ChangeWorld(w World) error
}

// Bindings are the late-bound collaborators injected into a Client.
type Bindings struct {
	Bus      EventBus
	Settings ConfigManager
}

// ComponentLoader fetches and prepares the external component.
// Both calls compute once; later calls block until the first completes and
// return its result.
type ComponentLoader interface {
	Get(ctx context.Context) (Artifact, error)
	Prepare(ctx context.Context) (Artifact, error)
}

// Preparer turns a fetched artifact into something runnable.
type Preparer interface {
	Prepare(ctx context.Context, a Artifact) (Artifact, error)
}

// WorldDirectory queries the remote world list.
type WorldDirectory interface {
	Worlds(ctx context.Context) (*WorldResult, error)
}

// Event is anything posted on the EventBus.
type Event interface {
	EventName() string
}

// Subscriber receives events posted on the EventBus.
type Subscriber interface {
	OnEvent(e Event)
}

// EventBus dispatches events to registered subscribers in registration order.
type EventBus interface {
	Register(s Subscriber)
	Unregister(s Subscriber)
	Post(e Event)
}

// ConfigManager owns persisted user settings.
type ConfigManager interface {
	Subscriber
	Load() error
	Get(group, key string) (string, bool)
	Set(group, key, value string)
}

// Toolbar is the navigation strip shown next to the component.
type Toolbar interface {
	Subscriber
	Init() error
}

// MainUI is the application frame.
type MainUI interface {
	Subscriber
	Init() error
	Show() error
}

// OverlayManager is registered on the bus so overlays follow config changes.
type OverlayManager interface {
	Subscriber
}

// Module is the automation layer's entry point.
type Module interface {
	Initialize() error
	QuickLaunch() error
}

// Dialog presents a fatal startup error to the user.
type Dialog interface {
	Fatal(message string, cause error)
}

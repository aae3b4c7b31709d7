package component

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// Settings keys written by the client.
const (
	SettingsGroup = "hoot"
	KeyLastWorld  = "lastWorld"
)

// Client implements domain.Client over a Process's control socket.
type Client struct {
	proc *Process
	log  zerolog.Logger

	mu       sync.Mutex
	bus      domain.EventBus
	settings domain.ConfigManager
}

// NewClient creates a client for proc.
func NewClient(proc *Process, log zerolog.Logger) *Client {
	return &Client{proc: proc, log: log}
}

// Inject stores the event bus and settings manager.
func (c *Client) Inject(b domain.Bindings) error {
	if b.Bus == nil {
		return fmt.Errorf("inject: event bus is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus = b.Bus
	c.settings = b.Settings
	return nil
}

// World returns the world the component is connected to.
func (c *Client) World() (int, error) {
	reply, err := c.proc.request(context.Background(), CmdWorld, "")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(reply)
	if err != nil {
		return 0, fmt.Errorf("%s %s: bad world %q", protocolVersion, CmdWorld, reply)
	}
	return n, nil
}

// NewWorld returns an empty world descriptor for the caller to fill in.
func (c *Client) NewWorld() domain.World {
	return domain.World{}
}

// ChangeWorld switches the component to w, remembers it in the settings and
// posts WorldChanged.
func (c *Client) ChangeWorld(w domain.World) error {
	payload, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode world: %w", err)
	}
	if _, err := c.proc.request(context.Background(), CmdChangeWorld, string(payload)); err != nil {
		return err
	}

	c.mu.Lock()
	bus, settings := c.bus, c.settings
	c.mu.Unlock()

	if settings != nil {
		settings.Set(SettingsGroup, KeyLastWorld, strconv.Itoa(w.ID))
	}
	if bus != nil {
		bus.Post(domain.WorldChanged{World: w})
	}
	c.log.Debug().Int("world", w.ID).Msg("component changed world")
	return nil
}

// Package ui holds console implementations of the launcher's UI ports.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"hoot/internal/domain"
)

// DefaultButtons are the toolbar entries installed by Init.
var DefaultButtons = []string{"Scripts", "Settings", "Worlds", "Logs"}

// Toolbar implements domain.Toolbar.
type Toolbar struct {
	out io.Writer

	mu      sync.Mutex
	buttons []string
	world   int
	ready   bool
}

// NewToolbar creates a toolbar that renders to out.
func NewToolbar(out io.Writer) *Toolbar {
	return &Toolbar{out: out}
}

// Init installs the default buttons.
func (t *Toolbar) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready {
		return fmt.Errorf("toolbar already initialized")
	}
	t.buttons = append([]string(nil), DefaultButtons...)
	t.ready = true
	return nil
}

// Buttons returns the installed entries.
func (t *Toolbar) Buttons() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.buttons...)
}

// OnEvent tracks the current world.
func (t *Toolbar) OnEvent(e domain.Event) {
	wc, ok := e.(domain.WorldChanged)
	if !ok {
		return
	}
	t.mu.Lock()
	t.world = wc.World.ID
	line := t.render()
	t.mu.Unlock()
	fmt.Fprintln(t.out, line)
}

func (t *Toolbar) render() string {
	s := "[" + strings.Join(t.buttons, "] [") + "]"
	if t.world > 0 {
		s += fmt.Sprintf("  world %d", t.world)
	}
	return s
}

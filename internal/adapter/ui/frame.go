package ui

import (
	"fmt"
	"io"
	"sync"

	"hoot/internal/domain"
)

// Frame implements domain.MainUI.
type Frame struct {
	out     io.Writer
	title   string
	toolbar *Toolbar

	mu      sync.Mutex
	ready   bool
	visible bool
	status  string
}

// NewFrame creates the main frame. toolbar may be nil.
func NewFrame(out io.Writer, title string, toolbar *Toolbar) *Frame {
	return &Frame{out: out, title: title, toolbar: toolbar}
}

// Init prepares the frame. It fails when called twice.
func (f *Frame) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ready {
		return fmt.Errorf("frame already initialized")
	}
	f.ready = true
	f.status = "ready"
	return nil
}

// Show renders the frame. Init must have been called.
func (f *Frame) Show() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return fmt.Errorf("frame not initialized")
	}
	f.visible = true
	fmt.Fprintf(f.out, "== %s ==\n", f.title)
	if f.toolbar != nil {
		f.toolbar.mu.Lock()
		fmt.Fprintln(f.out, f.toolbar.render())
		f.toolbar.mu.Unlock()
	}
	fmt.Fprintf(f.out, "status: %s\n", f.status)
	return nil
}

// Visible reports whether Show succeeded.
func (f *Frame) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Status returns the status line.
func (f *Frame) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// OnEvent updates the status line.
func (f *Frame) OnEvent(e domain.Event) {
	var status string
	switch ev := e.(type) {
	case domain.WorldChanged:
		status = fmt.Sprintf("world %d", ev.World.ID)
	case domain.ScriptLaunched:
		status = "running " + ev.Name
	default:
		return
	}
	f.mu.Lock()
	f.status = status
	visible := f.visible
	f.mu.Unlock()
	if visible {
		fmt.Fprintf(f.out, "status: %s\n", status)
	}
}

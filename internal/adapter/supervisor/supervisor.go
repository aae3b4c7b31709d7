// Package supervisor runs background tasks and reports their failures.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// OutdatedHint is logged alongside failures caused by domain.ErrOutdated.
const OutdatedHint = "component artifact is out of date; clear the cache and relaunch"

// FatalRecorder keeps the last background failure.
type FatalRecorder interface {
	RecordFatal(err error)
}

// Supervisor starts named goroutines. A returned error or a panic is logged
// and recorded; it never crashes the process.
type Supervisor struct {
	ctx      context.Context
	log      zerolog.Logger
	recorder FatalRecorder
	wg       sync.WaitGroup
}

// New creates a supervisor whose tasks receive ctx. recorder may be nil.
func New(ctx context.Context, log zerolog.Logger, recorder FatalRecorder) *Supervisor {
	return &Supervisor{ctx: ctx, log: log, recorder: recorder}
}

// Go runs fn on a new goroutine.
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.run(fn); err != nil {
			s.report(name, err)
		}
	}()
}

// Wait blocks until every task started with Go has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(s.ctx)
}

func (s *Supervisor) report(name string, err error) {
	ev := s.log.Error().Err(err).Str("task", name)
	if errors.Is(err, domain.ErrOutdated) {
		ev = ev.Str("hint", OutdatedHint)
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		ev = ev.Bytes("stack", pe.Stack)
	}
	ev.Msg("uncaught error in background task")

	if s.recorder != nil {
		s.recorder.RecordFatal(err)
	}
}

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Package preload fetches the external component in the background while the
// rest of the application graph is built.
package preload

import (
	"context"
	"fmt"

	"hoot/internal/domain"
)

// TaskName is the supervised task name.
const TaskName = "preloader"

// Runner starts supervised background tasks.
type Runner interface {
	Go(name string, fn func(ctx context.Context) error)
}

// Start launches the preloader. It fetches the component and prepares it;
// later loader calls block until it finishes and share its result. Failures
// are reported through the runner only.
func Start(r Runner, loader domain.ComponentLoader) {
	r.Go(TaskName, func(ctx context.Context) error {
		if _, err := loader.Get(ctx); err != nil {
			return fmt.Errorf("load component: %w", err)
		}
		if _, err := loader.Prepare(ctx); err != nil {
			return fmt.Errorf("prepare component: %w", err)
		}
		return nil
	})
}

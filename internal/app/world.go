package app

import (
	"context"
	"fmt"

	"hoot/internal/domain"
)

// NormalizeWorld maps short world numbers onto world ids: values below 300
// get 300 added.
func NormalizeWorld(n int) int {
	if n < 300 {
		return n + 300
	}
	return n
}

// ResolveWorld moves client to world n when the directory knows it. Lookup
// failures and unknown worlds are logged and leave the client unchanged;
// only a failed switch is returned.
func (s *Service) ResolveWorld(ctx context.Context, client domain.Client, n int) error {
	id := NormalizeWorld(n)
	if id <= 300 {
		return nil
	}
	if current, err := client.World(); err == nil && current == id {
		return nil
	} else if err != nil {
		s.logger.Debug().Err(err).Msg("unable to read current world")
	}

	var result *domain.WorldResult
	var err error
	if s.directory != nil {
		result, err = s.directory.Worlds(ctx)
	}
	if err != nil || result == nil {
		s.logger.Warn().Err(err).Msg("failed to lookup worlds")
		return nil
	}

	entry := result.FindWorld(id)
	if entry == nil {
		s.logger.Warn().Int("world", id).Msg("world not found")
		return nil
	}

	w := client.NewWorld()
	w.Activity = entry.Activity
	w.Address = entry.Address
	w.ID = entry.ID
	w.Players = entry.Players
	w.Location = entry.Location
	w.Types = domain.ToWorldTypes(entry.Types)

	if err := client.ChangeWorld(w); err != nil {
		return fmt.Errorf("change world %d: %w", id, err)
	}
	s.logger.Debug().Int("world", id).Msg("applied new world")
	return nil
}

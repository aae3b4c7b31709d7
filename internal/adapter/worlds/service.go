// Package worlds queries the remote world directory.
package worlds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"hoot/internal/domain"
)

const worldsPath = "/worlds.js"

// Service implements domain.WorldDirectory against the API base URL.
type Service struct {
	client  *http.Client
	baseURL string
}

// NewService creates a directory client. client should be the launcher's
// shared HTTP client so lookups use its cache and proxy.
func NewService(client *http.Client, baseURL string) *Service {
	return &Service{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Worlds fetches the current world list.
func (s *Service) Worlds(ctx context.Context) (*domain.WorldResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+worldsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup worlds: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup worlds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup worlds: world API returned HTTP %d", resp.StatusCode)
	}

	var result domain.WorldResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("lookup worlds: invalid API response: %w", err)
	}
	return &result, nil
}

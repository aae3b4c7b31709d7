package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RemoteConfig is the parsed jav_config document.
type RemoteConfig struct {
	Properties map[string]string
	Params     map[string]string
}

// CodeBase returns the base URL the artifact is served from.
func (c RemoteConfig) CodeBase() string { return c.Properties["codebase"] }

// InitialJar returns the artifact file name.
func (c RemoteConfig) InitialJar() string { return c.Properties["initial_jar"] }

// ArtifactURL joins codebase and initial_jar.
func (c RemoteConfig) ArtifactURL() (string, error) {
	base, jar := c.CodeBase(), c.InitialJar()
	if base == "" || jar == "" {
		return "", fmt.Errorf("jav_config: missing codebase or initial_jar")
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(jar, "/"), nil
}

// ParseRemoteConfig reads key=value lines. Lines of the form param=k=v go to
// Params; msg= lines and blank lines are skipped.
func ParseRemoteConfig(r io.Reader) (RemoteConfig, error) {
	cfg := RemoteConfig{
		Properties: make(map[string]string),
		Params:     make(map[string]string),
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "msg":
		case "param":
			pk, pv, _ := strings.Cut(value, "=")
			cfg.Params[pk] = pv
		default:
			cfg.Properties[key] = value
		}
	}
	if err := sc.Err(); err != nil {
		return RemoteConfig{}, fmt.Errorf("read jav_config: %w", err)
	}
	return cfg, nil
}

// FetchRemoteConfig downloads and parses the jav_config at url.
func FetchRemoteConfig(ctx context.Context, client *http.Client, url string) (RemoteConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RemoteConfig{}, fmt.Errorf("jav_config request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return RemoteConfig{}, fmt.Errorf("fetch jav_config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RemoteConfig{}, fmt.Errorf("fetch jav_config: HTTP %d", resp.StatusCode)
	}
	return ParseRemoteConfig(resp.Body)
}

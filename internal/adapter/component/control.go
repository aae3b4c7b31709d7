package component

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// Control protocol. Each request is one line:
//
//	HOOT1 <COMMAND> <token> [payload]
//
// answered by "OK [value]" or "ERR <reason>".
const (
	protocolVersion = "HOOT1"

	CmdStart       = "START"
	CmdWorld       = "WORLD"
	CmdChangeWorld = "CHANGE_WORLD"
)

const (
	dialTimeout    = time.Second
	requestTimeout = 5 * time.Second
)

// control is a client for one component's control socket.
type control struct {
	path  string
	token string
}

func (c control) do(ctx context.Context, command, payload string) (string, error) {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", protocolVersion, command, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(requestTimeout))

	line := protocolVersion + " " + command + " " + c.token
	if payload != "" {
		line += " " + payload
	}
	if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
		return "", fmt.Errorf("%s %s: write: %w", protocolVersion, command, err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%s %s: read reply: %w", protocolVersion, command, err)
	}
	reply = strings.TrimSpace(reply)

	switch {
	case reply == "OK":
		return "", nil
	case strings.HasPrefix(reply, "OK "):
		return strings.TrimPrefix(reply, "OK "), nil
	case strings.HasPrefix(reply, "ERR "):
		return "", fmt.Errorf("%s %s: %s", protocolVersion, command, strings.TrimPrefix(reply, "ERR "))
	default:
		return "", fmt.Errorf("%s %s: unexpected reply %q", protocolVersion, command, reply)
	}
}

// waitForSocket polls until path exists, the component exits, or ctx ends.
func waitForSocket(ctx context.Context, path string, exited <-chan struct{}) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; i < 100; i++ {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-exited:
			return fmt.Errorf("component exited before opening %s", path)
		case <-ticker.C:
		}
	}
	return fmt.Errorf("timeout waiting for socket %s", path)
}

// Package component runs the external component as a child process and
// drives it over a Unix control socket.
package component

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"hoot/internal/adapter/environment"
	"hoot/internal/domain"
)

// TokenGenerator produces control-channel tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// Process implements domain.AttachTarget for a component executable.
type Process struct {
	binPath string
	params  map[string]string
	env     *environment.Environment
	tokens  TokenGenerator
	log     zerolog.Logger
	output  io.Writer

	mu      sync.Mutex
	size    domain.Dimension
	cmd     *exec.Cmd
	ctl     control
	done    chan struct{}
	waitErr error
}

// NewProcess creates a target for the prepared artifact a.
func NewProcess(a domain.Artifact, env *environment.Environment, tokens TokenGenerator, log zerolog.Logger) *Process {
	return &Process{
		binPath: a.BinPath,
		params:  a.Params,
		env:     env,
		tokens:  tokens,
		log:     log,
		output:  os.Stderr,
	}
}

// SetSize records the layout passed to the component at launch.
func (p *Process) SetSize(d domain.Dimension) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", d.Width, d.Height)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil {
		return fmt.Errorf("size must be set before init")
	}
	p.size = d
	return nil
}

// Init launches the component with home as its working and HOME directory
// and waits for its control socket.
func (p *Process) Init(ctx context.Context, home string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return fmt.Errorf("component already initialized")
	}
	if p.size == (domain.Dimension{}) {
		return fmt.Errorf("component size not set")
	}
	if p.binPath == "" {
		return fmt.Errorf("component has no executable")
	}

	token, err := p.tokens.Generate()
	if err != nil {
		return err
	}

	runDir := filepath.Join(home, "run")
	if err := os.MkdirAll(runDir, 0700); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	ctlPath := filepath.Join(runDir, "ctl.sock")
	_ = os.Remove(ctlPath)

	cmd := exec.Command(p.binPath, p.args(ctlPath, token)...)
	cmd.Dir = home
	cmd.Env = append(p.env.ChildEnv(os.Environ()), "HOME="+home)
	cmd.Stdout = p.output
	cmd.Stderr = p.output
	cmd.Stdin = nil
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start component: %w", err)
	}
	p.log.Info().Int("pid", cmd.Process.Pid).Str("socket", ctlPath).Msg("component started")

	p.cmd = cmd
	p.ctl = control{path: ctlPath, token: token}
	p.done = make(chan struct{})
	go p.wait(cmd, p.done)

	if err := waitForSocket(ctx, ctlPath, p.done); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("init component: %w", err)
	}
	return nil
}

func (p *Process) args(ctlPath, token string) []string {
	args := []string{
		"--ctl-socket=" + ctlPath,
		"--width=" + strconv.Itoa(p.size.Width),
		"--height=" + strconv.Itoa(p.size.Height),
		"--token=" + token,
	}
	keys := make([]string, 0, len(p.params))
	for k := range p.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--param="+k+"="+p.params[k])
	}
	return args
}

func (p *Process) wait(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		err = fmt.Errorf("component exited with code %d", exitErr.ExitCode())
	default:
		err = fmt.Errorf("component: %w", err)
	}
	// waitErr is published by closing done.
	p.waitErr = err
	close(done)
}

// Start tells the initialized component to begin running.
func (p *Process) Start(ctx context.Context) error {
	_, err := p.request(ctx, CmdStart, "")
	return err
}

// Wait blocks until the component exits.
func (p *Process) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return fmt.Errorf("component not initialized")
	}
	<-done
	return p.waitErr
}

// Stop asks the component to terminate.
func (p *Process) Stop() {
	p.mu.Lock()
	cmd, done := p.cmd, p.done
	p.mu.Unlock()
	if cmd == nil {
		return
	}
	select {
	case <-done:
		return
	default:
	}
	p.log.Info().Int("pid", cmd.Process.Pid).Msg("stopping component")
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		p.log.Warn().Err(err).Msg("signal component failed")
	}
}

func (p *Process) request(ctx context.Context, command, payload string) (string, error) {
	p.mu.Lock()
	ctl := p.ctl
	p.mu.Unlock()
	if ctl.path == "" {
		return "", fmt.Errorf("%s %s: component not initialized", protocolVersion, command)
	}
	return ctl.do(ctx, command, payload)
}

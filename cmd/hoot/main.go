package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hoot/internal/adapter/buildinfo"
	"hoot/internal/adapter/cli"
	"hoot/internal/adapter/environment"
	"hoot/internal/adapter/extractor"
	"hoot/internal/adapter/httpclient"
	"hoot/internal/adapter/loader"
	"hoot/internal/adapter/logger"
	"hoot/internal/adapter/platform"
	"hoot/internal/adapter/preload"
	"hoot/internal/adapter/supervisor"
	"hoot/internal/adapter/ui"
	"hoot/internal/app"
)

// reportedError has already been shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func main() {
	props, err := buildinfo.Load()
	if err != nil {
		fatal(err)
	}
	layout, err := platform.New(props.Home)
	if err != nil {
		fatal(err)
	}

	env := environment.New(layout.HomeDir(), props.LauncherVersion)
	if lvl, ok := logger.ParseLevel(props.LogLevel); ok {
		env.SetLogLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(props, layout, env, os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		report(err, env, os.Stderr)
		stop()
		os.Exit(1)
	}
}

// newRootCommand binds the launch flags and runs the launcher with args.
func newRootCommand(props buildinfo.Properties, layout *platform.Platform, env *environment.Environment, args []string) *cobra.Command {
	parser := cli.NewParser(layout.BaseDir(), env, cli.Defaults{
		JavConfigURL:       props.JavConfig,
		SettingsFile:       layout.DefaultSettingsFile(),
		ClientSettingsFile: layout.DefaultClientSettingsFile(),
	})

	root := &cobra.Command{
		Use:           "hoot",
		Short:         "hoot launches and drives the game client",
		Version:       props.VersionOrUnknown(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parser.Resolve(args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, props, layout, env)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cli.Malformed(args, err)
	})
	parser.Bind(root.Flags())
	root.SetArgs(args)
	return root
}

// report sends an error that has not been shown yet through the startup
// failure path. Argument errors happen before the log file is open, so only
// the console logger sees them.
func report(err error, env *environment.Environment, w io.Writer) {
	var re reportedError
	if errors.As(err, &re) {
		return
	}
	startupFailure(logger.NewConsole(w), env, w, err)
}

func run(ctx context.Context, cfg cli.RuntimeConfiguration, props buildinfo.Properties, layout *platform.Platform, env *environment.Environment) error {
	if err := layout.EnsureDirs(); err != nil {
		return err
	}
	log, closer, err := logger.New(layout.LogsDir())
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().
		Str("version", props.VersionOrUnknown()).
		Str("launcher_version", env.LauncherVersion()).
		Str("args", argsOrNone(cfg.Args)).
		Msg("hoot starting up")
	started := time.Now()

	var px *environment.Proxy
	if p, ok := env.Proxy(); ok {
		px = &p
	}
	client, netCfg, err := httpclient.New(httpclient.Options{
		CacheDirs: layout.HTTPCacheDirs(),
		Insecure:  cfg.InsecureSkipTLSVerification || props.InsecureSkipTLSVerification,
		Proxy:     px,
	}, log)
	if err != nil {
		return startupFailure(log, env, os.Stderr, err)
	}
	log.Debug().
		Str("cache", netCfg.ActiveCacheDir()).
		Bool("insecure", netCfg.InsecureTrust).
		Str("proxy", netCfg.Proxy).
		Msg("network configured")

	sup := supervisor.New(ctx, log, env)
	ld := loader.New(client, loader.Config{
		JavConfigURL: cfg.JavConfigURL,
		CacheDir:     filepath.Join(layout.CacheDir(), "component"),
		UpdateCheck:  props.UpdateCheck,
	}, extractor.NewTarExtractor(layout.RepositoryDir(), log), log)
	preload.Start(sup, ld)

	svc, err := app.Build(app.Inputs{
		Ctx:        ctx,
		Config:     cfg,
		Properties: props,
		Env:        env,
		Layout:     layout,
		HTTP:       client,
		Loader:     ld,
		Out:        os.Stdout,
		Log:        log,
	})
	if err != nil {
		return startupFailure(log, env, os.Stderr, err)
	}
	if err := svc.Start(ctx); err != nil {
		return startupFailure(log, env, os.Stderr, err)
	}
	log.Info().Dur("took", time.Since(started)).Msg("client initialization complete")

	err = waitForExit(ctx, svc, log)
	sup.Wait()
	return err
}

func startupFailure(log zerolog.Logger, env *environment.Environment, w io.Writer, err error) error {
	ev := log.Error().Err(err)
	if bg := env.LastFatal(); bg != nil {
		ev = ev.AnErr("background", bg)
	}
	ev.Msg("failure during startup")
	ui.NewConsoleDialog(w).Fatal("failure during startup", err)
	return reportedError{err: err}
}

// waitForExit blocks until the component exits or a signal arrives. Without
// a component it waits for the signal.
func waitForExit(ctx context.Context, svc *app.Service, log zerolog.Logger) error {
	target := svc.Target()
	if target == nil {
		<-ctx.Done()
		return nil
	}

	exited := make(chan error, 1)
	go func() { exited <- target.Wait() }()

	select {
	case err := <-exited:
		if err != nil {
			log.Warn().Err(err).Msg("component exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		target.Stop()
		<-exited
	}
	return nil
}

func argsOrNone(args []string) string {
	if len(args) == 0 {
		return "none"
	}
	return strings.Join(args, " ")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "hoot: %v\n", err)
	os.Exit(1)
}

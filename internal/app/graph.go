package app

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"hoot/internal/adapter/buildinfo"
	"hoot/internal/adapter/cli"
	"hoot/internal/adapter/component"
	"hoot/internal/adapter/environment"
	"hoot/internal/adapter/eventbus"
	"hoot/internal/adapter/module"
	"hoot/internal/adapter/platform"
	"hoot/internal/adapter/settings"
	"hoot/internal/adapter/token"
	"hoot/internal/adapter/ui"
	"hoot/internal/adapter/worlds"
	"hoot/internal/domain"
)

// Inputs are the values built before the graph: configuration, the shared
// HTTP client and the loader the preloader is already running.
type Inputs struct {
	Ctx        context.Context
	Config     cli.RuntimeConfiguration
	Properties buildinfo.Properties
	Env        *environment.Environment
	Layout     *platform.Platform
	HTTP       *http.Client
	Loader     domain.ComponentLoader
	Out        io.Writer
	Log        zerolog.Logger
}

// Build assembles the application graph and returns the service. The first
// construction failure is returned as a dependency error.
func Build(in Inputs) (*Service, error) {
	var svc *Service
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger { return &fxLogger{log: in.Log} }),
		fx.Supply(in.Config, in.Properties, in.Env, in.Layout, in.HTTP, in.Log),
		fx.Provide(
			func() context.Context { return in.Ctx },
			func() domain.ComponentLoader { return in.Loader },
			func() io.Writer { return in.Out },
			func(p *platform.Platform) Layout { return p },
			provideAttachment,
			provideBus,
			provideSettings,
			provideDirectory,
			ui.NewToolbar,
			func(t *ui.Toolbar) domain.Toolbar { return t },
			provideFrame,
			provideOverlays,
			provideModule,
			NewService,
		),
		fx.Populate(&svc),
	)
	if err := app.Err(); err != nil {
		return nil, domain.Wrap(domain.CodeDependency, "build application graph", err)
	}
	return svc, nil
}

// provideAttachment waits for the preloaded component. A load failure makes
// the attachment stale rather than failing the graph.
func provideAttachment(ctx context.Context, loader domain.ComponentLoader, env *environment.Environment, log zerolog.Logger) domain.Attachment {
	a, err := loader.Prepare(ctx)
	if err != nil {
		return domain.StaleOrAbsent{Reason: err}
	}
	proc := component.NewProcess(a, env, token.NewRandomGenerator(), log.With().Str("component", a.Version).Logger())
	return domain.Attached{Client: component.NewClient(proc, log), Target: proc}
}

func provideBus(log zerolog.Logger) domain.EventBus {
	return eventbus.New(log)
}

func provideSettings(cfg cli.RuntimeConfiguration, bus domain.EventBus, log zerolog.Logger) domain.ConfigManager {
	return settings.NewManager(cfg.SettingsFile, cfg.ClientSettingsFile, bus, log)
}

func provideDirectory(client *http.Client, props buildinfo.Properties) domain.WorldDirectory {
	return worlds.NewService(client, props.APIBase)
}

func provideFrame(out io.Writer, props buildinfo.Properties, t *ui.Toolbar) domain.MainUI {
	return ui.NewFrame(out, "hoot "+props.VersionOrUnknown(), t)
}

func provideOverlays() domain.OverlayManager {
	return ui.NewOverlays()
}

func provideModule(layout *platform.Platform, s domain.ConfigManager, bus domain.EventBus, log zerolog.Logger) domain.Module {
	return module.New(layout.ScriptsDir(), s, bus, log)
}

// fxLogger routes container events to zerolog. Successful events are trace
// level; failures are errors.
type fxLogger struct {
	log zerolog.Logger
}

func (l *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Supplied:
		if e.Err != nil {
			l.log.Error().Err(e.Err).Str("type", e.TypeName).Msg("supply failed")
			return
		}
		l.log.Trace().Str("type", e.TypeName).Msg("supplied")
	case *fxevent.Provided:
		if e.Err != nil {
			l.log.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("provide failed")
			return
		}
		for _, t := range e.OutputTypeNames {
			l.log.Trace().Str("type", t).Str("constructor", e.ConstructorName).Msg("provided")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			l.log.Error().Err(e.Err).Str("function", e.FunctionName).Msg("invoke failed")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.log.Error().Err(e.Err).Msg("container logger failed")
		}
	}
}

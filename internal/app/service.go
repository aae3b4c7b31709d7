package app

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"hoot/internal/adapter/environment"
	"hoot/internal/domain"
)

// Layout is the part of the directory layout the sequencer needs.
type Layout interface {
	BaseDir() string
	LegacyCacheDir() string
	MigratedCacheDir() string
}

// Deps are the collaborators of the startup sequence.
type Deps struct {
	fx.In

	Attachment domain.Attachment
	Env        *environment.Environment
	Layout     Layout
	Directory  domain.WorldDirectory
	Bus        domain.EventBus
	Settings   domain.ConfigManager
	Toolbar    domain.Toolbar
	Module     domain.Module
	UI         domain.MainUI
	Overlays   domain.OverlayManager
	Log        zerolog.Logger
}

// Service runs the startup sequence.
type Service struct {
	attachment domain.Attachment
	env        *environment.Environment
	layout     Layout
	directory  domain.WorldDirectory
	bus        domain.EventBus
	settings   domain.ConfigManager
	toolbar    domain.Toolbar
	module     domain.Module
	ui         domain.MainUI
	overlays   domain.OverlayManager
	logger     zerolog.Logger
}

// NewService creates the application service with all dependencies injected.
func NewService(d Deps) *Service {
	return &Service{
		attachment: d.Attachment,
		env:        d.Env,
		layout:     d.Layout,
		directory:  d.Directory,
		bus:        d.Bus,
		settings:   d.Settings,
		toolbar:    d.Toolbar,
		module:     d.Module,
		ui:         d.UI,
		overlays:   d.Overlays,
		logger:     d.Log,
	}
}

// Start runs every startup step in order and stops at the first failure.
// Steps that need the component are skipped when it is stale or absent.
func (s *Service) Start(ctx context.Context) error {
	client, target := s.attached()
	if sa, ok := s.attachment.(domain.StaleOrAbsent); ok || s.attachment == nil {
		s.logger.Warn().Err(sa.Reason).Msg("component is outdated")
	}

	if client != nil {
		err := client.Inject(domain.Bindings{Bus: s.bus, Settings: s.settings})
		if err != nil {
			return stepError("inject", err)
		}
	}

	if target != nil {
		if err := s.attach(ctx, client, target); err != nil {
			return err
		}
	}

	if err := s.settings.Load(); err != nil {
		return stepError("load settings", err)
	}

	if err := s.toolbar.Init(); err != nil {
		return stepError("init toolbar", err)
	}
	s.bus.Register(s.toolbar)

	if err := s.module.Initialize(); err != nil {
		return stepError("initialize module", err)
	}

	if err := s.ui.Init(); err != nil {
		return stepError("init ui", err)
	}

	s.bus.Register(s.ui)
	s.bus.Register(s.overlays)
	s.bus.Register(s.settings)
	if err := s.ui.Show(); err != nil {
		return stepError("show ui", err)
	}

	if err := s.module.QuickLaunch(); err != nil {
		return stepError("quick launch", err)
	}
	return nil
}

// Target returns the attach target, or nil when the component is not
// attached.
func (s *Service) Target() domain.AttachTarget {
	_, target := s.attached()
	return target
}

func (s *Service) attached() (domain.Client, domain.AttachTarget) {
	if a, ok := s.attachment.(domain.Attached); ok {
		return a.Client, a.Target
	}
	return nil, nil
}

func (s *Service) attach(ctx context.Context, client domain.Client, target domain.AttachTarget) error {
	MigrateCache(s.logger, s.layout.LegacyCacheDir(), s.layout.MigratedCacheDir())

	if err := target.SetSize(domain.FixedSize); err != nil {
		return stepError("set size", err)
	}
	if err := s.initUnderHome(ctx, target); err != nil {
		return stepError("init component", err)
	}
	if err := target.Start(ctx); err != nil {
		return stepError("start component", err)
	}

	if n, ok := s.env.World(); ok && client != nil {
		if err := s.ResolveWorld(ctx, client, n); err != nil {
			return stepError("world redirect", err)
		}
	}
	return nil
}

// initUnderHome runs Init with the home directory pointed at the launcher's
// base dir. The previous home is restored on every exit path.
func (s *Service) initUnderHome(ctx context.Context, target domain.AttachTarget) error {
	restore := s.env.OverrideHome(s.layout.BaseDir())
	defer restore()
	return target.Init(ctx, s.env.Home())
}

func stepError(step string, err error) error {
	return domain.Wrap(domain.CodeStartupStep, "startup step "+step, err)
}

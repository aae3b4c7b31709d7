// Package loader fetches the external component described by a jav_config
// document and caches the outcome for the whole process.
package loader

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"hoot/internal/domain"
)

// Update-check modes.
const (
	UpdateCheckAuto = "auto"
	UpdateCheckNone = "none"
)

// Config configures a Loader.
type Config struct {
	JavConfigURL string
	CacheDir     string
	UpdateCheck  string
}

// Loader implements domain.ComponentLoader. Get and Prepare each run their
// work once; concurrent and later callers block on the first call and see
// its result.
type Loader struct {
	client   *http.Client
	cfg      Config
	preparer domain.Preparer
	dl       *downloader
	log      zerolog.Logger

	getOnce  sync.Once
	fetched  domain.Artifact
	fetchErr error

	prepareOnce sync.Once
	prepared    domain.Artifact
	prepareErr  error
}

// New creates a loader. preparer may be nil, in which case Prepare returns
// the fetched artifact unchanged.
func New(client *http.Client, cfg Config, preparer domain.Preparer, log zerolog.Logger) *Loader {
	if cfg.UpdateCheck == "" {
		cfg.UpdateCheck = UpdateCheckAuto
	}
	return &Loader{
		client:   client,
		cfg:      cfg,
		preparer: preparer,
		dl:       &downloader{client: client, cacheDir: cfg.CacheDir, log: log},
		log:      log,
	}
}

// Get fetches and validates the component artifact.
func (l *Loader) Get(ctx context.Context) (domain.Artifact, error) {
	l.getOnce.Do(func() {
		defer recordPanic("fetch component", &l.fetchErr)
		l.fetched, l.fetchErr = l.fetch(ctx)
	})
	return l.fetched, l.fetchErr
}

// Prepare makes the fetched artifact runnable.
func (l *Loader) Prepare(ctx context.Context) (domain.Artifact, error) {
	l.prepareOnce.Do(func() {
		defer recordPanic("prepare component", &l.prepareErr)
		a, err := l.Get(ctx)
		if err != nil {
			l.prepareErr = err
			return
		}
		if l.preparer == nil {
			l.prepared = a
			return
		}
		l.prepared, l.prepareErr = l.preparer.Prepare(ctx, a)
	})
	return l.prepared, l.prepareErr
}

// recordPanic stores a panic as the cell's error so later callers do not see
// a zero artifact with a nil error, then lets it continue to the caller.
func recordPanic(op string, dst *error) {
	if r := recover(); r != nil {
		*dst = fmt.Errorf("%s: panic: %v", op, r)
		panic(r)
	}
}

func (l *Loader) fetch(ctx context.Context) (domain.Artifact, error) {
	switch l.cfg.UpdateCheck {
	case UpdateCheckAuto:
	case UpdateCheckNone:
		return domain.Artifact{}, fmt.Errorf("update check disabled: %w", domain.ErrOutdated)
	default:
		return domain.Artifact{}, fmt.Errorf("unknown update check mode %q", l.cfg.UpdateCheck)
	}

	rc, err := FetchRemoteConfig(ctx, l.client, l.cfg.JavConfigURL)
	if err != nil {
		return domain.Artifact{}, err
	}
	url, err := rc.ArtifactURL()
	if err != nil {
		return domain.Artifact{}, err
	}

	path, err := l.dl.Download(ctx, url, rc.InitialJar())
	if err != nil {
		return domain.Artifact{}, err
	}

	l.log.Debug().Str("artifact", path).Int("params", len(rc.Params)).Msg("component fetched")
	return domain.Artifact{
		Path:    path,
		Version: rc.InitialJar(),
		Params:  rc.Params,
	}, nil
}

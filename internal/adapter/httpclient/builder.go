// Package httpclient builds the launcher's shared HTTP client: a bounded
// disk cache, a network-side rewrite of failed GETs, and optional insecure
// trust and SOCKS proxy settings.
package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"

	"hoot/internal/adapter/environment"
)

// Config describes the network setup of a built client.
type Config struct {
	// CacheDirs lists cache locations in the order they were applied. The
	// last one is the active cache.
	CacheDirs         []string
	CacheSize         int64
	RewriteFailedGets bool
	InsecureTrust     bool
	Proxy             string
}

// ActiveCacheDir returns the cache directory in use, or "".
func (c Config) ActiveCacheDir() string {
	if len(c.CacheDirs) == 0 {
		return ""
	}
	return c.CacheDirs[len(c.CacheDirs)-1]
}

// Builder accumulates network settings. It is not safe for concurrent use.
type Builder struct {
	base  http.RoundTripper
	cache httpcache.Cache
	cfg   Config
	log   zerolog.Logger
}

// NewBuilder starts from base, or a clone of http.DefaultTransport when nil.
func NewBuilder(base http.RoundTripper, log zerolog.Logger) *Builder {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &Builder{base: base, log: log}
}

// SetupCache points the client at a disk cache in dir, replacing any cache
// configured before, and installs the failed-GET rewrite.
func (b *Builder) SetupCache(dir string) *Builder {
	b.cache = newDiskCache(dir, MaxCacheSize)
	b.cfg.CacheDirs = append(b.cfg.CacheDirs, dir)
	b.cfg.CacheSize = MaxCacheSize
	b.cfg.RewriteFailedGets = true
	return b
}

// SetupInsecureTrust accepts every certificate chain. Failure to install is
// logged and leaves default trust in place.
func (b *Builder) SetupInsecureTrust() *Builder {
	t, ok := b.base.(*http.Transport)
	if !ok {
		b.log.Warn().Str("transport", fmt.Sprintf("%T", b.base)).Msg("unable to setup insecure trust manager")
		return b
	}
	t = t.Clone()
	t.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true,
		VerifyPeerCertificate: func([][]byte, [][]*x509.Certificate) error {
			return nil
		},
	}
	b.base = t
	b.cfg.InsecureTrust = true
	return b
}

// SetupProxy dials through the SOCKS5 proxy in p.
func (b *Builder) SetupProxy(p environment.Proxy) error {
	t, ok := b.base.(*http.Transport)
	if !ok {
		return fmt.Errorf("socks proxy: unsupported transport %T", b.base)
	}

	var auth *proxy.Auth
	if p.HasAuth() {
		auth = &proxy.Auth{User: p.User, Password: p.Password}
	}
	d, err := proxy.SOCKS5("tcp", p.Addr(), auth, proxy.Direct)
	if err != nil {
		return fmt.Errorf("socks proxy: %w", err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return fmt.Errorf("socks proxy: dialer has no context support")
	}

	t = t.Clone()
	t.Proxy = nil
	t.DialContext = cd.DialContext
	b.base = t
	b.cfg.Proxy = p.Addr()
	return nil
}

// Build returns the client and a snapshot of its configuration. The
// transport chain is cache -> rewrite -> base.
func (b *Builder) Build() (*http.Client, Config) {
	rt := b.base
	if b.cfg.RewriteFailedGets {
		rt = &rewriteTransport{next: rt}
	}
	if b.cache != nil {
		ct := httpcache.NewTransport(b.cache)
		ct.Transport = rt
		ct.MarkCachedResponses = true
		rt = ct
	}

	cfg := b.cfg
	cfg.CacheDirs = append([]string(nil), b.cfg.CacheDirs...)
	return &http.Client{Transport: rt}, cfg
}

// Options are the inputs of New.
type Options struct {
	CacheDirs []string
	Insecure  bool
	Proxy     *environment.Proxy
}

// New builds the launcher's client from opts. A proxy error is returned;
// a trust install failure is only logged.
func New(opts Options, log zerolog.Logger) (*http.Client, Config, error) {
	b := NewBuilder(nil, log)
	if opts.Proxy != nil {
		if err := b.SetupProxy(*opts.Proxy); err != nil {
			return nil, Config{}, err
		}
	}
	for _, dir := range opts.CacheDirs {
		b.SetupCache(dir)
	}
	if opts.Insecure {
		b.SetupInsecureTrust()
	}
	client, cfg := b.Build()
	return client, cfg, nil
}

package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	p := NewAt("/home/user", "")
	cases := map[string]string{
		"base":            p.BaseDir(),
		"cache":           p.CacheDir(),
		"logs":            p.LogsDir(),
		"data":            p.DataDir(),
		"scripts":         p.ScriptsDir(),
		"settings":        p.DefaultSettingsFile(),
		"client settings": p.DefaultClientSettingsFile(),
		"legacy":          p.LegacyCacheDir(),
		"migrated":        p.MigratedCacheDir(),
	}
	want := map[string]string{
		"base":            "/home/user/.hoot",
		"cache":           "/home/user/.hoot/cache",
		"logs":            "/home/user/.hoot/logs",
		"data":            "/home/user/.hoot/data",
		"scripts":         "/home/user/.hoot/scripts",
		"settings":        "/home/user/.hoot/settings.properties",
		"client settings": "/home/user/.hoot/hoot.properties",
		"legacy":          "/home/user/jagexcache",
		"migrated":        "/home/user/.hoot/jagexcache",
	}
	for name, got := range cases {
		if got != want[name] {
			t.Errorf("%s = %q, want %q", name, got, want[name])
		}
	}
}

func TestBaseOverride(t *testing.T) {
	p := NewAt("/home/user", "/opt/hoot")
	if got := p.CacheDir(); got != "/opt/hoot/cache" {
		t.Errorf("CacheDir() = %q, want /opt/hoot/cache", got)
	}
	if got := p.LegacyCacheDir(); got != "/home/user/jagexcache" {
		t.Errorf("LegacyCacheDir() = %q, want /home/user/jagexcache", got)
	}
}

func TestHTTPCacheDirs_OursLast(t *testing.T) {
	p := NewAt("/home/user", "")
	dirs := p.HTTPCacheDirs()
	if len(dirs) != 2 {
		t.Fatalf("expected 2 cache dirs, got %d", len(dirs))
	}
	if dirs[0] != "/home/user/.runelite/cache/okhttp" {
		t.Errorf("dirs[0] = %q", dirs[0])
	}
	if dirs[1] != "/home/user/.hoot/cache/okhttp" {
		t.Errorf("dirs[1] = %q", dirs[1])
	}
}

func TestResolveConfigPath(t *testing.T) {
	base := "/home/user/.hoot"
	tests := []struct {
		in, want string
	}{
		{"settings.properties", "/home/user/.hoot/settings.properties"},
		{"profiles/alt.properties", "/home/user/.hoot/profiles/alt.properties"},
		{"/tmp/x", "/tmp/x"},
		{"./x", "./x"},
		{`.\x`, `.\x`},
	}
	for _, tt := range tests {
		if got := ResolveConfigPath(base, tt.in); got != tt.want {
			t.Errorf("ResolveConfigPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckConfigFile_Missing(t *testing.T) {
	if !CheckConfigFile(filepath.Join(t.TempDir(), "nope.properties")) {
		t.Error("missing file should be accepted")
	}
}

func TestCheckConfigFile_Writable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.properties")
	os.WriteFile(path, []byte("a=b\n"), 0644)
	if !CheckConfigFile(path) {
		t.Error("writable file should be accepted")
	}
}

func TestCheckConfigFile_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.properties")
	os.WriteFile(path, []byte("a=b\n"), 0444)
	if CheckConfigFile(path) {
		t.Error("read-only file should be rejected")
	}
}

func TestCheckConfigFile_Directory(t *testing.T) {
	if CheckConfigFile(t.TempDir()) {
		t.Error("directory should be rejected")
	}
}

func TestEnsureDirs(t *testing.T) {
	p := NewAt(t.TempDir(), "")
	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}
	for _, dir := range []string{p.CacheDir(), p.LogsDir(), p.DataDir(), p.ScriptsDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}

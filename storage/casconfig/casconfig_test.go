package casconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"holohash.dev/holohash/storage"
	"holohash.dev/holohash/storage/casconfig"
	"holohash.dev/holohash/storage/casregistry"
	_ "holohash.dev/holohash/storage/localfs"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeConfig(t, "cas.json", `{"write_policy":"all","backends":[{"name":"localfs","id":"primary","config":{"localfs-dir":"/tmp/a"}}]}`)
	cfg, err := casconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WritePolicy != "all" || len(cfg.Backends) != 1 || cfg.Backends[0].ID != "primary" {
		t.Fatalf("LoadFile: got %+v", cfg)
	}
	if cfg.Backends[0].Config["localfs-dir"] != "/tmp/a" {
		t.Fatalf("LoadFile: config map %v", cfg.Backends[0].Config)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeConfig(t, "cas.toml", `
write_policy = "first"

[[backends]]
name = "localfs"
id = "one"
config = { localfs-dir = "/tmp/one" }

[[backends]]
name = "localfs"
id = "two"
config = { localfs-dir = "/tmp/two" }
`)
	cfg, err := casconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Backends) != 2 || cfg.Backends[1].Config["localfs-dir"] != "/tmp/two" {
		t.Fatalf("LoadFile: got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]casconfig.Config{
		"empty":     {},
		"no name":   {Backends: []casconfig.BackendConfig{{}}},
		"duplicate": {Backends: []casconfig.BackendConfig{{Name: "localfs"}, {Name: "localfs"}}},
		"policy":    {WritePolicy: "some", Backends: []casconfig.BackendConfig{{Name: "localfs"}}},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if _, err := casconfig.LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	bad := writeConfig(t, "bad.toml", "backends = [")
	if _, err := casconfig.LoadFile(bad); err == nil || !strings.Contains(err.Error(), "bad.toml") {
		t.Fatalf("expected decode error naming the file, got %v", err)
	}
}

func TestOpen_ReplicatesAcrossLocalDirs(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	cfg := casconfig.Config{
		WritePolicy: "all",
		Backends: []casconfig.BackendConfig{
			{Name: "localfs", ID: "a", Config: map[string]string{"localfs-dir": dirA}},
			{Name: "localfs", ID: "b", Config: map[string]string{"localfs-dir": dirB}},
		},
	}
	cas, closeFn, err := cfg.Open(casregistry.UsageCLI, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()

	rep, ok := cas.(storage.ReplicatingCAS)
	if !ok {
		t.Fatalf("expected ReplicatingCAS, got %T", cas)
	}
	id, per, err := rep.PutAll([]byte("config-driven"))
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if !per["a"].Equal(id) || !per["b"].Equal(id) {
		t.Fatalf("PutAll: %v", per)
	}
}

func TestOpen_PreferredBackend(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	cfg := casconfig.Config{Backends: []casconfig.BackendConfig{
		{Name: "localfs", ID: "a", Config: map[string]string{"localfs-dir": dirA}},
		{Name: "localfs", ID: "b", Config: map[string]string{"localfs-dir": dirB}},
	}}
	cas, _, err := cfg.Open(casregistry.UsageCLI, "b")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cas.Put([]byte("preferred")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entries, err := os.ReadDir(dirB)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected write to preferred backend dir: %v", err)
	}
	if entries, _ := os.ReadDir(dirA); len(entries) != 0 {
		t.Fatalf("expected no writes to non-preferred backend")
	}

	if _, _, err := cfg.Open(casregistry.UsageCLI, "missing"); err == nil {
		t.Fatalf("expected error for unknown preferred backend")
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := casconfig.Config{Backends: []casconfig.BackendConfig{{Name: "nope"}}}
	if _, _, err := cfg.Open(casregistry.UsageCLI, ""); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

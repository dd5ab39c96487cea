package casregistry

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"holohash.dev/holohash/storage"
)

func testBackend(name string, usage Usage) Backend {
	return Backend{
		Name:          name,
		Usage:         usage,
		RegisterFlags: func(fs *flag.FlagSet) { fs.String(name+"-opt", "", "") },
		Open:          func() (storage.CAS, func() error, error) { return storage.MultiCAS{}, nil, nil },
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			if cfg[name+"-opt"] == "" {
				return nil, nil, errMissing
			}
			return storage.MultiCAS{}, nil, nil
		},
	}
}

var errMissing = errors.New("missing option")

func TestRegister_Validation(t *testing.T) {
	full := testBackend("t-valid", UsageCLI)
	broken := []Backend{
		{},
		{Name: "t-noflags", Usage: UsageCLI, Open: full.Open, OpenConfig: full.OpenConfig},
		{Name: "t-noopen", Usage: UsageCLI, RegisterFlags: full.RegisterFlags, OpenConfig: full.OpenConfig},
		{Name: "t-noconfig", Usage: UsageCLI, RegisterFlags: full.RegisterFlags, Open: full.Open},
		{Name: "t-nousage", RegisterFlags: full.RegisterFlags, Open: full.Open, OpenConfig: full.OpenConfig},
	}
	for _, b := range broken {
		if err := Register(b); err == nil {
			t.Fatalf("Register(%q): expected error", b.Name)
		}
	}
	if err := Register(full); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(full); err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}
}

func TestUsageFiltering(t *testing.T) {
	MustRegister(testBackend("t-daemon", UsageDaemon))
	MustRegister(testBackend("t-both", UsageCLI|UsageDaemon))

	for _, n := range Names(UsageCLI) {
		if n == "t-daemon" {
			t.Fatalf("daemon-only backend listed for CLI")
		}
	}
	if _, _, err := Open("t-daemon", UsageCLI); err == nil {
		t.Fatalf("expected usage error")
	}
	if _, _, err := Open("t-daemon", UsageDaemon); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := Open("t-unknown", UsageCLI); err == nil {
		t.Fatalf("expected unknown backend error")
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs, UsageDaemon)
	if fs.Lookup("t-both-opt") == nil || fs.Lookup("t-daemon-opt") == nil {
		t.Fatalf("expected backend flags to be registered")
	}
}

func TestOpenWithConfig(t *testing.T) {
	MustRegister(testBackend("t-config", UsageCLI))
	if _, _, err := OpenWithConfig("t-config", UsageCLI, nil); err != errMissing {
		t.Fatalf("expected backend error for empty config, got %v", err)
	}
	if _, _, err := OpenWithConfig("t-config", UsageCLI, map[string]string{"t-config-opt": "x"}); err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
}

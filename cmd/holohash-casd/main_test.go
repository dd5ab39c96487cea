package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"holohash.dev/holohash/storage/grpccas"
	"holohash.dev/holohash/storage/localfs"
)

func TestServe_RoundTripAndShutdown(t *testing.T) {
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, lis, cas, zerolog.New(&logs)) }()

	client, err := grpccas.Dial(lis.Addr().String(), grpccas.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	client.Timeout = 5 * time.Second

	id, err := client.Put([]byte("over the wire"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := client.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "over the wire" {
		t.Fatalf("Get: got %q", got)
	}
	if !cas.Has(id) {
		t.Fatalf("daemon should write to its backend")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop after cancel")
	}
	if !strings.Contains(logs.String(), "shutting down") {
		t.Fatalf("expected shutdown log, got %s", logs.String())
	}
}

func TestRun_ListBackends(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"--list-backends"}, &out, &errOut); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
	for _, want := range []string{"localfs", "ipfs"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing backend %s in %q", want, out.String())
		}
	}
}

func TestOpenCAS_FromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "cas.toml")
	cfg := "[[backends]]\nname = \"localfs\"\nconfig = { localfs-dir = \"" + dir + "\" }\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cas, _, err := openCAS(path, "localfs")
	if err != nil {
		t.Fatalf("openCAS: %v", err)
	}
	id, err := cas.Put([]byte("configured"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	local, err := localfs.New(dir)
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	if !local.Has(id) {
		t.Fatalf("expected content in configured directory")
	}
}

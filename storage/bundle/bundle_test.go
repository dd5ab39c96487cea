package bundle_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/storage"
	"holohash.dev/holohash/storage/bundle"
	"holohash.dev/holohash/storage/localfs"
)

func TestBundle_ExportIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	cas, err := localfs.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	id1, err := cas.Put([]byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	id2, err := cas.Put([]byte("world"))
	if err != nil {
		t.Fatal(err)
	}

	var outA bytes.Buffer
	if err := bundle.Export(&outA, cas, []holohash.Hash{id2, id1}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}
	var outB bytes.Buffer
	if err := bundle.Export(&outB, cas, []holohash.Hash{id1, id2}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(outA.Bytes(), outB.Bytes()) {
		t.Fatalf("expected deterministic bundle bytes")
	}
}

func TestBundle_RetypedHashesExportOnce(t *testing.T) {
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	id, err := cas.Put([]byte("wasm"))
	if err != nil {
		t.Fatal(err)
	}
	wasm, err := id.Retype(holohash.TypeWasm)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	opts := bundle.ExportOptions{IncludeIndex: true, Labels: map[string]holohash.Hash{"zome": wasm}}
	if err := bundle.Export(&buf, cas, []holohash.Hash{id, wasm}, opts); err != nil {
		t.Fatal(err)
	}

	names, index := readTar(t, buf.Bytes())
	if len(names) != 2 || names[0] != "blocks/"+id.String() || names[1] != "index.json" {
		t.Fatalf("unexpected entries: %v", names)
	}
	if !strings.Contains(index, `"name":"zome","hash":"`+wasm.String()+`"`) {
		t.Fatalf("label should keep the WasmHash: %s", index)
	}
}

func TestBundle_ImportRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	src, err := localfs.New(srcDir)
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte("payload")
	id, err := src.Put(payload)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := bundle.Export(&buf, src, []holohash.Hash{id}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatal(err)
	}

	dstDir := t.TempDir()
	dst, err := localfs.New(dstDir)
	if err != nil {
		t.Fatal(err)
	}

	if err := bundle.Import(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatal(err)
	}

	got, err := dst.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestBundle_ImportRejectsHashMismatch(t *testing.T) {
	good := []byte("good")
	other := storage.ContentHash([]byte("other"))

	// Name says "other" but bytes are "good" => computed hash mismatch.
	bundleBytes := makeDeterministicTar(t, "blocks/"+other.String(), good)

	dst, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := bundle.Import(bytes.NewReader(bundleBytes), dst); err != storage.ErrHashMismatch {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
}

func TestBundle_ImportRejectsBadNames(t *testing.T) {
	dst, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	legacy := strings.TrimPrefix(storage.ContentHash([]byte("x")).String(), "u")
	err = bundle.Import(bytes.NewReader(makeDeterministicTar(t, "blocks/"+legacy, []byte("x"))), dst)
	if !errors.Is(err, storage.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash for name without leading u, got %v", err)
	}

	err = bundle.Import(bytes.NewReader(makeDeterministicTar(t, "notes.txt", []byte("x"))), dst)
	if err == nil {
		t.Fatalf("expected unknown entry to fail")
	}
	err = bundle.ImportWithOptions(bytes.NewReader(makeDeterministicTar(t, "notes.txt", []byte("x"))), dst, bundle.ImportOptions{IgnoreUnknown: true})
	if err != nil {
		t.Fatalf("IgnoreUnknown: %v", err)
	}

	err = bundle.Import(bytes.NewReader(makeDeterministicTar(t, "../escape", []byte("x"))), dst)
	if err == nil {
		t.Fatalf("expected path traversal to fail")
	}
}

func readTar(t *testing.T, b []byte) ([]string, string) {
	t.Helper()
	tr := tar.NewReader(bytes.NewReader(b))
	var names []string
	var index string
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return names, index
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, h.Name)
		if !h.ModTime.Equal(time.Unix(0, 0)) {
			t.Fatalf("%s: expected normalized mtime, got %v", h.Name, h.ModTime)
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		if h.Name == "index.json" {
			index = string(content)
		}
	}
}

func makeDeterministicTar(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	h := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		Uid:      0,
		Gid:      0,
		Uname:    "",
		Gname:    "",
		ModTime:  time.Unix(0, 0).UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(h); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

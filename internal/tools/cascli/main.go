package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/model"
	"holohash.dev/holohash/storage"
	"holohash.dev/holohash/storage/bundle"
	"holohash.dev/holohash/storage/casconfig"
	"holohash.dev/holohash/storage/casregistry"

	_ "holohash.dev/holohash/storage/grpccas"
	_ "holohash.dev/holohash/storage/ipfs"
	_ "holohash.dev/holohash/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "put":
		return cmdPut(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "export":
		return cmdExport(args[1:], out, errOut)
	case "import":
		return cmdImport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "cascli: minimal CAS tool for walkthroughs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cascli put --backend localfs --localfs-dir <dir> [--type <T>] <file>")
	fmt.Fprintln(w, "  cascli get --backend localfs --localfs-dir <dir> --hash <text> [--out <file>] [--json]")
	fmt.Fprintln(w, "  cascli export --backend localfs --localfs-dir <dir> --hash <text> [--hash ...] [--label name=<text> ...] --out <bundle.tar>")
	fmt.Fprintln(w, "  cascli import --backend localfs --localfs-dir <dir> [--ignore-unknown] <bundle.tar>")
	fmt.Fprintln(w, "  cascli put --backend grpc --grpc-target <host:port> <file>")
	fmt.Fprintln(w, "  cascli put --config <cas.toml|cas.json> [--backend <preferred>] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "IPFS backend:")
	fmt.Fprintln(w, "  cascli put --backend ipfs --ipfs-path <repo> [--ipfs-pin=true|false] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - ipfs backend shells out to the local Kubo 'ipfs' CLI")
	fmt.Fprintln(w, "  - grpc backend talks to holohash-casd (or any CAS gRPC server)")
	fmt.Fprintln(w, "  - put prints the EntryHash of the bytes unless --type names another concrete type")
	fmt.Fprintln(w, "  - get accepts any hash type; content is addressed by payload")
}

type commonFlags struct {
	backend      string
	config       string
	listBackends bool
}

func (c *commonFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&c.backend, "backend", "", "CAS backend name (default localfs; with --config, the preferred backend)")
	fs.StringVar(&c.config, "config", "", "Backend config file (.json or .toml)")
	fs.BoolVar(&c.listBackends, "list-backends", false, "List supported backends and exit")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
}

func (c *commonFlags) openCAS() (storage.CAS, func() error, error) {
	if c.config != "" {
		cfg, err := casconfig.LoadFile(c.config)
		if err != nil {
			return nil, nil, err
		}
		return cfg.Open(casregistry.UsageCLI, c.backend)
	}
	backend := c.backend
	if backend == "" {
		backend = "localfs"
	}
	return casregistry.Open(backend, casregistry.UsageCLI)
}

func printBackends(w io.Writer) {
	for _, b := range casregistry.List(casregistry.UsageCLI) {
		if b.Description == "" {
			_, _ = fmt.Fprintf(w, "%s\n", b.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Description)
	}
}

func cmdPut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var typeName string
	fs.StringVar(&typeName, "type", "EntryHash", "Concrete type to print the content hash as")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cascli put [common flags] [--type <T>] <file>")
		return 2
	}
	t, ok := holohash.TypeByName(typeName)
	if !ok || !t.Concrete() {
		fmt.Fprintf(errOut, "invalid --type %q: must be a concrete type\n", typeName)
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	p := fs.Arg(0)
	b, err := os.ReadFile(p)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(p), err)
		return 1
	}
	id, err := cas.Put(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	id, err = id.Retype(t)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var hashText string
	var outPath string
	var asJSON bool
	fs.StringVar(&hashText, "hash", "", "Hash to fetch")
	fs.StringVar(&outPath, "out", "", "Output file (optional; default stdout)")
	fs.BoolVar(&asJSON, "json", false, "Print a JSON fetch response instead of raw bytes")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if hashText == "" {
		fmt.Fprintln(errOut, "missing --hash")
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: cascli get [common flags] --hash <text> [--out <file>] [--json]")
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	resp, err := model.Fetch(model.FetchRequest{Hash: hashText}, model.FetchOptions{CAS: cas})
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	var b []byte
	if asJSON {
		b, err = json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		b = append(b, '\n')
	} else {
		b = resp.Bytes
	}

	if outPath == "" {
		_, _ = out.Write(b)
		return 0
	}
	if err := os.WriteFile(outPath, b, 0o600); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", outPath, err)
		return 1
	}
	return 0
}

func cmdExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var hashes multiString
	var labels multiString
	var outPath string
	var noIndex bool
	fs.Var(&hashes, "hash", "Hash to export (repeatable)")
	fs.Var(&labels, "label", "Label as name=<hash text> (repeatable)")
	fs.StringVar(&outPath, "out", "", "Bundle file to write")
	fs.BoolVar(&noIndex, "no-index", false, "Omit index.json")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if len(hashes) == 0 || outPath == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: cascli export [common flags] --hash <text> [--hash ...] [--label name=<text> ...] --out <bundle.tar>")
		return 2
	}

	ids := make([]holohash.Hash, 0, len(hashes))
	for _, s := range hashes {
		id, err := holohash.Parse(holohash.TypeHoloHash, s)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --hash: %v\n", err)
			return 2
		}
		ids = append(ids, id)
	}
	labelMap := make(map[string]holohash.Hash, len(labels))
	for _, l := range labels {
		name, text, ok := strings.Cut(l, "=")
		if !ok || name == "" {
			fmt.Fprintf(errOut, "invalid --label %q: want name=<hash>\n", l)
			return 2
		}
		id, err := holohash.Parse(holohash.TypeHoloHash, text)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --label %q: %v\n", name, err)
			return 2
		}
		labelMap[name] = id
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(errOut, "create %s: %v\n", outPath, err)
		return 1
	}
	err = bundle.Export(f, cas, ids, bundle.ExportOptions{IncludeIndex: !noIndex, Labels: labelMap})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(outPath)
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}
	return 0
}

func cmdImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)

	var ignoreUnknown bool
	fs.BoolVar(&ignoreUnknown, "ignore-unknown", false, "Skip unrecognized bundle entries")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: cascli import [common flags] [--ignore-unknown] <bundle.tar>")
		return 2
	}

	cas, closeFn, err := common.openCAS()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "open %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	defer f.Close()

	if err := bundle.ImportWithOptions(f, cas, bundle.ImportOptions{IgnoreUnknown: ignoreUnknown}); err != nil {
		fmt.Fprintf(errOut, "import: %v\n", err)
		return 1
	}
	return 0
}

type multiString []string

func (m *multiString) String() string { return strings.Join(*m, ",") }

func (m *multiString) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("empty value")
	}
	*m = append(*m, v)
	return nil
}

package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"holohash.dev/holohash/cidutil"
	"holohash.dev/holohash/compliance"
	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/internal/logging"
	"holohash.dev/holohash/keys"
	"holohash.dev/holohash/model"
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
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "retype":
		return cmdRetype(args[1:], out, errOut)
	case "location":
		return cmdLocation(args[1:], out, errOut)
	case "content-hash":
		return cmdContentHash(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "from-cid":
		return cmdFromCID(args[1:], out, errOut)
	case "types":
		return cmdTypes(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
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
	fmt.Fprintln(w, "holohash: typed 39-byte identifier tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  holohash inspect [--type <T>] [--lenient] [--json] [--verbose] <text>")
	fmt.Fprintln(w, "  holohash encode --type <T> (--hex <hex> | --file <path>) [--lenient]")
	fmt.Fprintln(w, "  holohash retype --to <T> <text>")
	fmt.Fprintln(w, "  holohash location <text>")
	fmt.Fprintln(w, "  holohash content-hash [--type <T>] <file>")
	fmt.Fprintln(w, "  holohash cid <text>")
	fmt.Fprintln(w, "  holohash from-cid --type <T> <cid>")
	fmt.Fprintln(w, "  holohash types")
	fmt.Fprintln(w, "  holohash key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  holohash key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  holohash key list")
	fmt.Fprintln(w, "  holohash key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  holohash key sign --name <name> [--role <role>] [--digest <alg>] <file>")
	fmt.Fprintln(w, "  holohash key verify --agent <text> --sig <hex> [--digest <alg>] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - <T> is a type name such as AgentPubKey, EntryHash or HoloHash (see 'holohash types')")
	fmt.Fprintln(w, "  - --hex accepts 32 (payload), 36 (payload+checksum) or 39 (full) bytes")
	fmt.Fprintln(w, "  - --lenient skips checksum verification and accepts text without the leading 'u'")
	fmt.Fprintln(w, "  - key commands store seeds under ~/.holohash/keys/<name> (0600 files); override with --keys-dir")
	fmt.Fprintln(w, "  - HOLOHASH_LOG_LEVEL=debug shows construction steps for every command")
}

func lookupType(name string) (holohash.Type, error) {
	t, ok := holohash.TypeByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown type %q (see 'holohash types')", name)
	}
	return t, nil
}

// cliLogger returns a stderr logger at the env-selected level, raised to
// debug when verbose is set.
func cliLogger(errOut io.Writer, verbose bool) *zerolog.Logger {
	cfg := logging.DefaultConfig(logging.ProfileCLI)
	logging.ApplyEnv(&cfg, os.Getenv)
	if verbose {
		cfg.Level = zerolog.DebugLevel
	}
	logger := logging.New(cfg, errOut)
	return &logger
}

func options(lenient bool, logger *zerolog.Logger) holohash.Options {
	return holohash.Options{Mode: compliance.FromStrict(!lenient), Logger: logger}
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var typeName string
	var lenient bool
	var asJSON bool
	var verbose bool
	fs.StringVar(&typeName, "type", "HoloHash", "Expected type")
	fs.BoolVar(&lenient, "lenient", false, "Skip checksum verification")
	fs.BoolVar(&asJSON, "json", false, "Print JSON")
	fs.BoolVar(&verbose, "verbose", false, "Log construction steps to stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash inspect [--type <T>] [--lenient] [--json] <text>")
		return 2
	}
	t, err := lookupType(typeName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --type: %v\n", err)
		return 2
	}

	h, err := holohash.ParseWithOptions(t, fs.Arg(0), options(lenient, cliLogger(errOut, verbose)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid hash: %v\n", err)
		return 1
	}
	view := model.NewHashView(h)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			fmt.Fprintf(errOut, "encode json: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(out, "type:     %s\n", view.Type)
	fmt.Fprintf(out, "hash:     %s\n", view.Hash)
	fmt.Fprintf(out, "prefix:   %s\n", view.Prefix)
	fmt.Fprintf(out, "payload:  %s\n", view.Payload)
	fmt.Fprintf(out, "checksum: %s\n", view.Checksum)
	fmt.Fprintf(out, "location: %d\n", view.Location)
	if view.CID != "" {
		fmt.Fprintf(out, "cid:      %s\n", view.CID)
	}
	return 0
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var typeName string
	var hexIn string
	var file string
	var lenient bool
	fs.StringVar(&typeName, "type", "", "Target type")
	fs.StringVar(&hexIn, "hex", "", "Input bytes as hex")
	fs.StringVar(&file, "file", "", "Read input bytes from file")
	fs.BoolVar(&lenient, "lenient", false, "Skip checksum verification")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if typeName == "" {
		fmt.Fprintln(errOut, "missing --type")
		return 2
	}
	if (hexIn == "") == (file == "") {
		fmt.Fprintln(errOut, "exactly one of --hex or --file is required")
		return 2
	}
	t, err := lookupType(typeName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --type: %v\n", err)
		return 2
	}

	var raw []byte
	if hexIn != "" {
		raw, err = hex.DecodeString(strings.TrimSpace(hexIn))
		if err != nil {
			fmt.Fprintf(errOut, "invalid --hex: %v\n", err)
			return 2
		}
	} else {
		raw, err = os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(file), err)
			return 1
		}
	}

	h, err := holohash.DecodeWithOptions(t, raw, options(lenient, cliLogger(errOut, false)))
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, h)
	return 0
}

func cmdRetype(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("retype", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var to string
	var lenient bool
	fs.StringVar(&to, "to", "", "Concrete target type")
	fs.BoolVar(&lenient, "lenient", false, "Skip checksum verification")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if to == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash retype --to <T> <text>")
		return 2
	}

	h, err := holohash.ParseWithOptions(holohash.TypeHoloHash, fs.Arg(0), options(lenient, cliLogger(errOut, false)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid hash: %v\n", err)
		return 1
	}
	r, err := h.RetypeName(to)
	if err != nil {
		fmt.Fprintf(errOut, "retype: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, r)
	return 0
}

func cmdLocation(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("location", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash location <text>")
		return 2
	}
	h, err := holohash.ParseWithOptions(holohash.TypeHoloHash, fs.Arg(0), options(false, cliLogger(errOut, false)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid hash: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, h.Location())
	return 0
}

func cmdContentHash(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("content-hash", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var typeName string
	fs.StringVar(&typeName, "type", "EntryHash", "Concrete type of the result")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash content-hash [--type <T>] <file>")
		return 2
	}
	t, err := lookupType(typeName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --type: %v\n", err)
		return 2
	}
	path := fs.Arg(0)
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}
	h, err := cidutil.ContentHash(t, b)
	if err != nil {
		fmt.Fprintf(errOut, "content-hash: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, h)
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash cid <text>")
		return 2
	}
	h, err := holohash.ParseWithOptions(holohash.TypeHoloHash, fs.Arg(0), options(false, cliLogger(errOut, false)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid hash: %v\n", err)
		return 1
	}
	c, err := cidutil.ToCID(h)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, c)
	return 0
}

func cmdFromCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("from-cid", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var typeName string
	fs.StringVar(&typeName, "type", "", "Concrete type of the result")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if typeName == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash from-cid --type <T> <cid>")
		return 2
	}
	t, err := lookupType(typeName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --type: %v\n", err)
		return 2
	}
	h, err := cidutil.ParseCID(fs.Arg(0), t)
	if err != nil {
		fmt.Fprintf(errOut, "from-cid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, h)
	return 0
}

func cmdTypes(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("types", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	for _, t := range []holohash.Type{holohash.TypeHoloHash, holohash.TypeAnyLinkable, holohash.TypeAnyDht} {
		fmt.Fprintf(out, "%-16s %s\n", t, t.Prefix())
	}
	for _, t := range holohash.Types() {
		fmt.Fprintf(out, "%-16s %s\n", t, t.Prefix())
	}
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "sign":
		return cmdKeySign(args[1:], out, errOut)
	case "verify":
		return cmdKeyVerify(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "holohash key: local ed25519 agent keys")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  holohash key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  holohash key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  holohash key list")
	fmt.Fprintln(w, "  holohash key export --name <name> [--role <role>]")
	fmt.Fprintln(w, "  holohash key sign --name <name> [--role <role>] [--digest <alg>] <file>")
	fmt.Fprintln(w, "  holohash key verify --agent <text> --sig <hex> [--digest <alg>] <file>")
}

func keysDirFlag(fs *flag.FlagSet) *string {
	return fs.String("keys-dir", "", "Key directory (default ~/.holohash/keys)")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool

	fs.StringVar(&name, "name", "", "Key name (directory under the key store)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")
	dir := keysDirFlag(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	agent, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", agent)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var from string
	var role string
	var force bool

	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&role, "role", "", "Role identifier (e.g. author, reviewer)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")
	dir := keysDirFlag(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if role == "" {
		fmt.Fprintln(errOut, "missing --role")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckRole(role); err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	agent, rolePath, err := ks.DeriveKeyFromRole(from, role, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive role key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created role key: %s\n", agent)
	fmt.Fprintf(out, "Stored at: %s\n", rolePath)
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var role string

	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role (if set, exports derived role key)")
	dir := keysDirFlag(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if role != "" {
		if err := keys.CheckRole(role); err != nil {
			fmt.Fprintf(errOut, "invalid --role: %v\n", err)
			return 2
		}
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	agent, err := ks.ExportKey(name, role)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, agent)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := keysDirFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s\n", e.Name, e.Agent)
		for _, r := range e.Roles {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return 0
}

func cmdKeySign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key sign", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var role string
	var digest string
	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role key")
	fs.StringVar(&digest, "digest", "", "Sign a digest instead of the raw file (blake2b-256, sha256, sha512, sha3-256)")
	dir := keysDirFlag(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash key sign --name <name> [--role <role>] [--digest <alg>] <file>")
		return 2
	}
	ks, err := keys.CreateKeyStore(*dir)
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	priv, err := ks.PrivateKey(name, role)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return 1
	}
	path := fs.Arg(0)
	msg, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}

	var sig []byte
	if digest == "" {
		sig = keys.Sign(msg, priv)
	} else {
		sig, err = keys.SignDigest(msg, digest, priv)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --digest: %v\n", err)
			return 2
		}
	}
	_, _ = fmt.Fprintln(out, hex.EncodeToString(sig))
	return 0
}

func cmdKeyVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var agentText string
	var sigHex string
	var digest string
	fs.StringVar(&agentText, "agent", "", "AgentPubKey of the signer")
	fs.StringVar(&sigHex, "sig", "", "Signature as hex")
	fs.StringVar(&digest, "digest", "", "Digest algorithm used when signing")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if agentText == "" || sigHex == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: holohash key verify --agent <text> --sig <hex> [--digest <alg>] <file>")
		return 2
	}
	agent, err := holohash.Parse(holohash.TypeAgentPubKey, agentText)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --agent: %v\n", err)
		return 2
	}
	sig, err := hex.DecodeString(strings.TrimSpace(sigHex))
	if err != nil {
		fmt.Fprintf(errOut, "invalid --sig: %v\n", err)
		return 2
	}
	path := fs.Arg(0)
	msg, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}

	if digest == "" {
		err = keys.Verify(agent, msg, sig)
	} else {
		err = keys.VerifyDigest(agent, msg, digest, sig)
	}
	if err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

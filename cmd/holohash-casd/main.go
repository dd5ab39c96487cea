package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"holohash.dev/holohash/internal/logging"
	"holohash.dev/holohash/storage"
	"holohash.dev/holohash/storage/casconfig"
	"holohash.dev/holohash/storage/casregistry"
	"holohash.dev/holohash/storage/grpccas"

	_ "holohash.dev/holohash/storage/ipfs"
	_ "holohash.dev/holohash/storage/localfs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("holohash-casd", flag.ContinueOnError)
	fs.SetOutput(errOut)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	backend := fs.String("backend", "localfs", "CAS backend name (or preferred backend with --config)")
	configPath := fs.String("config", "", "Backend config file (.json or .toml); overrides backend flags")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	logger := logging.ConfigureRuntime("holohash-casd")

	cas, closeFn, err := openCAS(*configPath, *backend)
	if err != nil {
		logger.Error().Err(err).Msg("open backend")
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error().Err(err).Str("listen", *listen).Msg("listen")
		return 1
	}

	if err := serve(ctx, lis, cas, logger); err != nil {
		logger.Error().Err(err).Msg("serve")
		return 1
	}
	return 0
}

func openCAS(configPath, backend string) (storage.CAS, func() error, error) {
	if configPath == "" {
		return casregistry.Open(backend, casregistry.UsageDaemon)
	}
	cfg, err := casconfig.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	preferred := ""
	if backend != "localfs" {
		preferred = backend
	}
	return cfg.Open(casregistry.UsageDaemon, preferred)
}

// serve runs the gRPC CAS service on lis until ctx is cancelled.
func serve(ctx context.Context, lis net.Listener, cas storage.CAS, logger zerolog.Logger) error {
	s := grpc.NewServer()
	grpccas.RegisterCASServer(s, &grpccas.Server{CAS: cas, Logger: &logger})

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		s.GracefulStop()
	}()

	logger.Info().Str("listen", lis.Addr().String()).Msg("holohash-casd listening")
	return s.Serve(lis)
}

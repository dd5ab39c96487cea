package grpccas

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/storage"
)

// Server exposes a storage.CAS over the CAS gRPC service.
//
// Hash text in requests is parsed strictly as the generic type; malformed
// text is rejected with InvalidArgument.
type Server struct {
	UnimplementedCASServer
	CAS storage.CAS

	// Logger receives one debug event per call when non-nil.
	Logger *zerolog.Logger
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	b := in.GetValue()
	// Enforce the content hash contract on the server side too.
	expected := storage.ContentHash(b)
	id, err := s.CAS.Put(b)
	if err != nil {
		return nil, s.fail("put", expected.String(), err)
	}
	if !id.SamePayload(expected) {
		return nil, s.fail("put", expected.String(), storage.ErrHashMismatch)
	}
	s.debug("put", id.String()).Int("bytes", len(b)).Msg("grpccas")
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	id, err := parseID(in.GetValue())
	if err != nil {
		return nil, s.fail("get", in.GetValue(), err)
	}
	b, err := s.CAS.Get(id)
	if err != nil {
		return nil, s.fail("get", id.String(), err)
	}
	if err := storage.Verify(id, b); err != nil {
		return nil, s.fail("get", id.String(), err)
	}
	s.debug("get", id.String()).Int("bytes", len(b)).Msg("grpccas")
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	id, err := parseID(in.GetValue())
	if err != nil {
		return nil, s.fail("has", in.GetValue(), err)
	}
	ok := s.CAS.Has(id)
	s.debug("has", id.String()).Bool("found", ok).Msg("grpccas")
	return wrapperspb.Bool(ok), nil
}

func parseID(text string) (holohash.Hash, error) {
	id, err := holohash.Parse(holohash.TypeHoloHash, text)
	if err != nil {
		return holohash.Hash{}, storage.ErrInvalidHash
	}
	return id, nil
}

func (s *Server) debug(method, id string) *zerolog.Event {
	if s.Logger == nil {
		return nil
	}
	return s.Logger.Debug().Str("method", method).Str("hash", id)
}

func (s *Server) fail(method, id string, err error) error {
	if s.Logger != nil {
		s.Logger.Warn().Str("method", method).Str("hash", id).Err(err).Msg("grpccas")
	}
	return mapErr(err)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidHash):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrHashMismatch):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, storage.ErrImmutable):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

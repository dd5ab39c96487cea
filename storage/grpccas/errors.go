package grpccas

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"holohash.dev/holohash/storage"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		// Server uses InvalidArgument for malformed hash text.
		return storage.ErrInvalidHash
	case codes.DataLoss:
		// Server uses DataLoss when bytes do not match the requested hash.
		return storage.ErrHashMismatch
	case codes.AlreadyExists:
		return storage.ErrImmutable
	default:
		// Best-effort: if the server sent a known storage error message, preserve it.
		switch st.Message() {
		case storage.ErrNotFound.Error():
			return storage.ErrNotFound
		case storage.ErrInvalidHash.Error():
			return storage.ErrInvalidHash
		case storage.ErrHashMismatch.Error():
			return storage.ErrHashMismatch
		default:
			return err
		}
	}
}

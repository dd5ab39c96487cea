package model

import (
	"encoding/hex"
	"errors"

	"holohash.dev/holohash/cidutil"
	"holohash.dev/holohash/compliance"
	"holohash.dev/holohash/holohash"
	"holohash.dev/holohash/storage"
)

// NewHashView projects h for JSON output.
func NewHashView(h holohash.Hash) HashView {
	payload := h.Payload()
	sum := h.Checksum()
	v := HashView{
		Type:     h.Type().String(),
		Hash:     h.String(),
		Prefix:   h.Prefix().String(),
		Payload:  hex.EncodeToString(payload[:]),
		Checksum: hex.EncodeToString(sum[:]),
		Location: h.Location(),
	}
	if c, err := cidutil.ToCID(h); err == nil {
		v.CID = c.String()
	}
	return v
}

// Inspect parses the request's hash and returns its view.
func Inspect(req InspectRequest) (*HashView, error) {
	h, err := parse(req.Hash, req.Type, req.Compliance)
	if err != nil {
		return nil, err
	}
	v := NewHashView(h)
	return &v, nil
}

type FetchOptions struct {
	CAS storage.CAS
}

// Fetch resolves the request's hash against a CAS.
func Fetch(req FetchRequest, opts FetchOptions) (*FetchResponse, error) {
	if opts.CAS == nil {
		return nil, NewError(ErrMissingCAS, "no CAS configured")
	}
	h, err := parse(req.Hash, "", req.Compliance)
	if err != nil {
		return nil, err
	}
	b, err := opts.CAS.Get(h)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, NewError(ErrNotFound, err.Error())
		case errors.Is(err, storage.ErrHashMismatch):
			return nil, NewError(ErrHashMismatch, err.Error())
		case errors.Is(err, storage.ErrInvalidHash):
			return nil, NewError(ErrInvalidHash, err.Error())
		default:
			return nil, NewError(ErrInternal, err.Error())
		}
	}
	return &FetchResponse{Hash: NewHashView(h), Bytes: b}, nil
}

func parse(text, typeName string, mode ComplianceMode) (holohash.Hash, error) {
	if text == "" {
		return holohash.Hash{}, NewError(ErrInvalidRequest, "hash is required")
	}
	t := holohash.TypeHoloHash
	if typeName != "" {
		var ok bool
		t, ok = holohash.TypeByName(typeName)
		if !ok {
			return holohash.Hash{}, NewError(ErrUnknownType, "unknown type: "+typeName)
		}
	}
	cm, err := toCompliance(mode)
	if err != nil {
		return holohash.Hash{}, err
	}
	h, err := holohash.ParseWithOptions(t, text, holohash.Options{Mode: cm})
	if err != nil {
		return holohash.Hash{}, NewError(ErrInvalidHash, err.Error())
	}
	return h, nil
}

func toCompliance(mode ComplianceMode) (compliance.ComplianceMode, error) {
	switch mode {
	case "", ComplianceStrict:
		return compliance.Strict, nil
	case CompliancePermissive:
		return compliance.Permissive, nil
	default:
		return compliance.Strict, NewError(ErrInvalidRequest, "invalid compliance mode: "+string(mode))
	}
}

package model

type ComplianceMode string

const (
	CompliancePermissive ComplianceMode = "permissive"
	ComplianceStrict     ComplianceMode = "strict"
)

// InspectRequest asks for a breakdown of one hash.
//
// Type defaults to "HoloHash", which resolves to the concrete type named by
// the hash prefix.
type InspectRequest struct {
	Hash       string         `json:"hash"`
	Type       string         `json:"type,omitempty"`
	Compliance ComplianceMode `json:"compliance,omitempty"`
}

// HashView is the JSON projection of a hash.
//
// Payload and Checksum are lowercase hex. Location is the checksum read as a
// big-endian uint32.
type HashView struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Prefix   string `json:"prefix"`
	Payload  string `json:"payload"`
	Checksum string `json:"checksum"`
	Location uint32 `json:"location"`
	CID      string `json:"cid,omitempty"`
}

// FetchRequest asks for the content addressed by a hash.
type FetchRequest struct {
	Hash       string         `json:"hash"`
	Compliance ComplianceMode `json:"compliance,omitempty"`
}

// FetchResponse carries fetched content.
//
// JSON note: Bytes are encoded as base64 by encoding/json.
type FetchResponse struct {
	Hash  HashView `json:"hash"`
	Bytes []byte   `json:"bytes"`
}

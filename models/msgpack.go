package models

import (
	"encoding/base64"

	"github.com/rohanthewiz/serr"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackEncodingHeader is the request header a client sets to receive
// the view snapshot as msgpack instead of plain JSON.
const (
	MsgPackEncodingHeader = "X-Body-Encoding"
	MsgPackEncodingValue  = "msgpack"
)

// MsgPackSnapshotResponse wraps a msgpack-encoded snapshot in JSON.
// Metadata stays human readable; only the bulky state travels as msgpack.
type MsgPackSnapshotResponse struct {
	Encoding        string `json:"encoding"`
	Revision        uint64 `json:"revision"`
	SnapshotEncoded string `json:"snapshot_encoded"` // Base64-encoded msgpack bytes
}

// EncodeMsgPackSnapshot encodes a snapshot to Base64 msgpack.
//
// Encoding pipeline: Snapshot -> msgpack bytes -> Base64 string
func EncodeMsgPackSnapshot(s Snapshot) (string, error) {
	msgpackBytes, err := msgpack.Marshal(&s)
	if err != nil {
		return "", serr.Wrap(err, "failed to msgpack encode snapshot")
	}
	return base64.StdEncoding.EncodeToString(msgpackBytes), nil
}

// DecodeMsgPackSnapshot reverses EncodeMsgPackSnapshot.
func DecodeMsgPackSnapshot(encoded string) (Snapshot, error) {
	var s Snapshot
	if encoded == "" {
		return s, serr.New("empty snapshot payload")
	}

	msgpackBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return s, serr.Wrap(err, "failed to decode base64 snapshot")
	}

	if err := msgpack.Unmarshal(msgpackBytes, &s); err != nil {
		return s, serr.Wrap(err, "failed to unmarshal msgpack snapshot")
	}
	return s, nil
}

// ToMsgPackResponse converts a snapshot into the msgpack wire envelope.
func (s Snapshot) ToMsgPackResponse() (*MsgPackSnapshotResponse, error) {
	encoded, err := EncodeMsgPackSnapshot(s)
	if err != nil {
		return nil, err
	}
	return &MsgPackSnapshotResponse{
		Encoding:        MsgPackEncodingValue,
		Revision:        s.Revision,
		SnapshotEncoded: encoded,
	}, nil
}

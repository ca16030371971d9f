package msgbind

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// gobPayload is the snapshot format used for gob encoding: the serialized
// wire bytes plus the full type name needed to reconstruct the message.
type gobPayload struct {
	Serialized []byte
	TypeName   string
}

// GobEncode snapshots the message as its wire bytes and full type name.
// This exists so that generic host machinery (deep copies, process
// checkpoints) can move wrappers around; prefer Marshal/Unmarshal for
// ordinary serialization.
func (m *Message) GobEncode() ([]byte, error) {
	data, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = gob.NewEncoder(&buf).Encode(gobPayload{Serialized: data, TypeName: m.FullName()})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode reconstructs the message from a GobEncode snapshot, resolving the
// recorded type name through the message's resolver (the global registries
// for a zero Message).
func (m *Message) GobDecode(data []byte) error {
	var payload gobPayload
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return err
	}
	mt, err := m.resolverOrGlobal().FindMessageByName(protoreflect.FullName(payload.TypeName))
	if err != nil {
		return fmt.Errorf("%w: %s", UnknownTypeError, payload.TypeName)
	}
	m.refl = mt.New()
	return m.Unmarshal(payload.Serialized)
}

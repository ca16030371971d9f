package msgbind

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/protobind/protobind/descbind"
)

// Message wraps a protobuf message of a dynamically-determined type and
// exposes name-keyed field access over it. A Message either exclusively owns
// the message it was constructed with, or is a child view aliasing into a
// parent's field; a child view pins its parent for as long as it lives.
//
// Message implements proto.Message.
type Message struct {
	refl     protoreflect.Message
	resolver Resolver

	// parent is non-nil for child views. It is held only to keep the owner
	// reachable while the view is.
	parent *Message

	descOnce sync.Once
	desc     *descbind.Descriptor
}

// Wrap returns a wrapper around the given message. The wrapper aliases the
// message; it does not copy it.
func Wrap(msg proto.Message, opts ...Option) *Message {
	if w, ok := msg.(*Message); ok {
		return w
	}
	m := &Message{refl: msg.ProtoReflect()}
	for _, opt := range opts {
		opt.apply(m)
	}
	return m
}

// ProtoReflect returns the reflection interface of the underlying message.
// This makes Message satisfy proto.Message.
func (m *Message) ProtoReflect() protoreflect.Message {
	return m.refl
}

// IsWrappedProto reports true. It is the sentinel by which external tooling
// recognizes a wrapped message without importing this package; see IsWrapped.
func (m *Message) IsWrappedProto() bool {
	return true
}

// IsWrapped reports whether the given value is a wrapped message, as opposed
// to a native proto or a non-proto. Detection is duck-typed on the
// IsWrappedProto marker method.
func IsWrapped(v any) bool {
	w, ok := v.(interface{ IsWrappedProto() bool })
	return ok && w.IsWrappedProto()
}

// Descriptor returns the view of the message's type descriptor. The view is
// created once per wrapper and reused, so its derived maps are
// identity-stable across accesses.
func (m *Message) Descriptor() *descbind.Descriptor {
	m.descOnce.Do(func() {
		m.desc = descbind.WrapMessage(m.refl.Descriptor())
	})
	return m.desc
}

// FullName returns the fully-qualified name of the message's type.
func (m *Message) FullName() string {
	return string(m.refl.Descriptor().FullName())
}

// Marshal serializes the message to the wire format.
func (m *Message) Marshal() ([]byte, error) {
	b, err := proto.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", m.FullName(), err)
	}
	return b, nil
}

// Unmarshal replaces the message's contents with the given wire-format data.
func (m *Message) Unmarshal(data []byte) error {
	if err := proto.Unmarshal(data, m); err != nil {
		return fmt.Errorf("parsing %s: %w", m.FullName(), err)
	}
	return nil
}

// MergeFromBytes parses the given wire-format data and merges it into the
// message, per protobuf merge semantics: singular fields are overwritten,
// repeated fields concatenated, sub-messages merged recursively.
func (m *Message) MergeFromBytes(data []byte) error {
	if err := (proto.UnmarshalOptions{Merge: true}).Unmarshal(data, m); err != nil {
		return fmt.Errorf("parsing %s: %w", m.FullName(), err)
	}
	return nil
}

// ByteSize returns the serialized size of the message without allocating the
// buffer.
func (m *Message) ByteSize() int {
	return proto.Size(m)
}

// Clear resets every field to its default and drops all presence.
func (m *Message) Clear() {
	proto.Reset(m)
}

// CopyFrom replaces the message's contents with those of other, which may be
// a wrapper or a native proto of the same full type name. When other comes
// from a foreign descriptor pool, the copy goes through one
// serialize-then-parse hop.
func (m *Message) CopyFrom(other any) error {
	src, err := m.compatibleSource(other)
	if err != nil {
		return err
	}
	if src != nil {
		proto.Reset(m)
		proto.Merge(m, src)
		return nil
	}
	return m.wireHop(other, false)
}

// MergeFrom merges the contents of other into the message, with the same
// argument handling as CopyFrom.
func (m *Message) MergeFrom(other any) error {
	src, err := m.compatibleSource(other)
	if err != nil {
		return err
	}
	if src != nil {
		proto.Merge(m, src)
		return nil
	}
	return m.wireHop(other, true)
}

// compatibleSource validates other and returns it as a proto.Message when it
// shares this message's descriptor, or nil when the copy must go through the
// wire format.
func (m *Message) compatibleSource(other any) (proto.Message, error) {
	pm, ok := asProto(other)
	if !ok {
		return nil, fmt.Errorf("%w: %T", NotAProtoError, other)
	}
	srcRefl := pm.ProtoReflect()
	if srcRefl.Descriptor() == m.refl.Descriptor() {
		return pm, nil
	}
	if srcRefl.Descriptor().FullName() != m.refl.Descriptor().FullName() {
		return nil, fmt.Errorf("%w: expecting message of type %s; got %s",
			InvalidArgumentError, m.FullName(), srcRefl.Descriptor().FullName())
	}
	return nil, nil
}

func (m *Message) wireHop(other any, merge bool) error {
	pm, _ := asProto(other)
	data, err := proto.Marshal(pm)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", pm.ProtoReflect().Descriptor().FullName(), err)
	}
	if merge {
		return m.MergeFromBytes(data)
	}
	return m.Unmarshal(data)
}

// Equal reports whether other is a proto (wrapped or native) with the same
// full type name and contents. For messages from a foreign pool the
// comparison uses deterministic serialization.
func (m *Message) Equal(other any) bool {
	pm, ok := asProto(other)
	if !ok {
		return false
	}
	srcRefl := pm.ProtoReflect()
	if srcRefl.Descriptor() == m.refl.Descriptor() {
		return proto.Equal(m, pm)
	}
	if srcRefl.Descriptor().FullName() != m.refl.Descriptor().FullName() {
		return false
	}
	opts := proto.MarshalOptions{Deterministic: true}
	mine, err := opts.Marshal(m)
	if err != nil {
		return false
	}
	theirs, err := opts.Marshal(pm)
	if err != nil {
		return false
	}
	return string(mine) == string(theirs)
}

// String returns a human-readable debug rendering of the message.
func (m *Message) String() string {
	return prototext.Format(m)
}

// asProto recognizes protocol messages duck-typed on proto.Message; wrappers
// qualify because Message implements it.
func asProto(v any) (proto.Message, bool) {
	pm, ok := v.(proto.Message)
	return pm, ok
}

func (m *Message) resolverOrGlobal() Resolver {
	if m.resolver != nil {
		return m.resolver
	}
	return GlobalResolver
}

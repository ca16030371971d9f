package msgbind

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/protobind/protobind/descbind"
)

// Fields names field values for keyword-style initialization: each key is a
// field name, each value follows the assignment rules of the field's shape
// (scalar set, repeated extend, map update, singular message merge).
type Fields map[string]any

// NewMessage allocates a wrapped message of the given type and initializes
// its fields. typ may be a full-type-name string, a *Message, a native
// proto.Message, or a *descbind.Descriptor; the type is resolved through the
// configured resolver (the global registries by default). A nil value in
// fields is ignored.
func NewMessage(typ any, fields Fields, opts ...Option) (*Message, error) {
	m := &Message{}
	for _, opt := range opts {
		opt.apply(m)
	}

	name, md, err := typeNameOf(typ)
	if err != nil {
		return nil, err
	}
	mt, err := m.resolverOrGlobal().FindMessageByName(name)
	switch {
	case err == nil:
		m.refl = mt.New()
	case md != nil:
		// The pool doesn't know the name but the caller handed us the
		// descriptor itself; build a dynamic message directly.
		m.refl = dynamicpb.NewMessage(md).ProtoReflect()
	default:
		return nil, fmt.Errorf("%w: %s", UnknownTypeError, name)
	}

	if err := m.applyFields(fields); err != nil {
		return nil, err
	}
	return m, nil
}

func typeNameOf(typ any) (protoreflect.FullName, protoreflect.MessageDescriptor, error) {
	switch t := typ.(type) {
	case string:
		return protoreflect.FullName(t), nil, nil
	case protoreflect.FullName:
		return t, nil, nil
	case *descbind.Descriptor:
		return t.Unwrap().FullName(), t.Unwrap(), nil
	case proto.Message: // wrapper or native
		md := t.ProtoReflect().Descriptor()
		return md.FullName(), md, nil
	}
	return "", nil, fmt.Errorf("%w: cannot take a message type from %T", NotAProtoError, typ)
}

// applyFields applies keyword-style initialization to the message.
func (m *Message) applyFields(fields Fields) error {
	for name, val := range fields {
		fd, err := m.fieldByName(name)
		if err != nil {
			return err
		}
		if val == nil {
			continue
		}
		switch {
		case fd.IsMap():
			if err := m.mapField(fd).Update(val); err != nil {
				return err
			}
		case fd.IsList():
			if err := m.repeatedField(fd).Extend(val); err != nil {
				return err
			}
		case isMessageKind(fd.Kind()):
			pm, ok := asProto(val)
			if !ok {
				return fmt.Errorf("%w: %T for message field %s", NotAProtoError, val, fd.FullName())
			}
			want := fd.Message().FullName()
			if got := pm.ProtoReflect().Descriptor().FullName(); got != want {
				return fmt.Errorf("%w: message field %s requires value of type %s; received %s",
					InvalidArgumentError, fd.FullName(), want, got)
			}
			if err := mergeIntoRefl(m.refl.Mutable(fd).Message(), pm); err != nil {
				return err
			}
		default:
			v, err := coerceScalar(fd, val)
			if err != nil {
				return err
			}
			m.refl.Set(fd, v)
		}
	}
	return nil
}

// mergeIntoRefl merges src into dst. Messages that share a descriptor merge
// directly; messages of the same full name from foreign pools go through one
// serialize-then-parse hop.
func mergeIntoRefl(dst protoreflect.Message, src proto.Message) error {
	if dst.Descriptor() == src.ProtoReflect().Descriptor() {
		proto.Merge(dst.Interface(), src)
		return nil
	}
	data, err := proto.Marshal(src)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", src.ProtoReflect().Descriptor().FullName(), err)
	}
	if err := (proto.UnmarshalOptions{Merge: true}).Unmarshal(data, dst.Interface()); err != nil {
		return fmt.Errorf("parsing %s: %w", dst.Descriptor().FullName(), err)
	}
	return nil
}

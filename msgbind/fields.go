package msgbind

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/protobind/protobind/descbind"
)

// FieldValue pairs a field descriptor view with the field's current value,
// as returned by ListFields.
type FieldValue struct {
	Desc  *descbind.FieldDescriptor
	Value any
}

func (m *Message) fieldByName(name string) (protoreflect.FieldDescriptor, error) {
	fd := m.refl.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil, fmt.Errorf("%w: '%s' object has no attribute %q",
			UnknownFieldNameError, m.FullName(), name)
	}
	return fd, nil
}

// GetField is like TryGetField but panics on error.
func (m *Message) GetField(name string) any {
	v, err := m.TryGetField(name)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// TryGetField returns the named field's value. Scalar and enum fields come
// back as host value copies; a singular message field comes back as a child
// view aliasing this message; repeated and map fields come back as container
// proxies aliasing this message. Writes through a view or proxy are visible
// here, and vice versa.
func (m *Message) TryGetField(name string) (any, error) {
	fd, err := m.fieldByName(name)
	if err != nil {
		return nil, err
	}
	return m.getField(fd), nil
}

func (m *Message) getField(fd protoreflect.FieldDescriptor) any {
	switch {
	case fd.IsMap():
		return m.mapField(fd)
	case fd.IsList():
		return m.repeatedField(fd)
	case isMessageKind(fd.Kind()):
		return m.childView(m.refl.Mutable(fd).Message())
	default:
		return hostScalar(fd, m.refl.Get(fd))
	}
}

// SetField is like TrySetField but panics on error.
func (m *Message) SetField(name string, value any) {
	if err := m.TrySetField(name, value); err != nil {
		panic(err.Error())
	}
}

// TrySetField sets the named singular scalar or enum field after coercing the
// value. Message, repeated, and map fields reject assignment; mutate them in
// place through the view or proxy returned by TryGetField. Setting nil on a
// field with explicit presence clears it.
func (m *Message) TrySetField(name string, value any) error {
	fd, err := m.fieldByName(name)
	if err != nil {
		return err
	}
	if fd.IsMap() || fd.IsList() || isMessageKind(fd.Kind()) {
		return fmt.Errorf("%w: %q in protocol message object %s",
			FieldAssignmentError, name, m.FullName())
	}
	if value == nil {
		m.refl.Clear(fd)
		return nil
	}
	v, err := coerceScalar(fd, value)
	if err != nil {
		return err
	}
	m.refl.Set(fd, v)
	return nil
}

// ClearField is like TryClearField but panics on error.
func (m *Message) ClearField(name string) {
	if err := m.TryClearField(name); err != nil {
		panic(err.Error())
	}
}

// TryClearField resets the named field to its default and drops its presence.
func (m *Message) TryClearField(name string) error {
	fd, err := m.fieldByName(name)
	if err != nil {
		return err
	}
	m.refl.Clear(fd)
	return nil
}

// HasField is like TryHasField but panics on error.
func (m *Message) HasField(name string) bool {
	ok, err := m.TryHasField(name)
	if err != nil {
		panic(err.Error())
	}
	return ok
}

// TryHasField reports presence of the named singular field: explicit presence
// for message and optional fields, value-is-nonzero for proto3 scalars
// without explicit presence. Asking about a repeated or map field is an
// error, matching the reference host API.
func (m *Message) TryHasField(name string) (bool, error) {
	fd, err := m.fieldByName(name)
	if err != nil {
		return false, err
	}
	if fd.IsMap() || fd.IsList() {
		return false, fmt.Errorf("%w: HasField not allowed on repeated or map field %q",
			InvalidArgumentError, name)
	}
	return m.refl.Has(fd), nil
}

// ListFields returns a (descriptor view, value) pair for every field with
// non-default presence, ordered by field number. Values are rendered the same
// way TryGetField renders them.
func (m *Message) ListFields() []FieldValue {
	var fds []protoreflect.FieldDescriptor
	m.refl.Range(func(fd protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		fds = append(fds, fd)
		return true
	})
	sort.Slice(fds, func(i, j int) bool {
		return fds[i].Number() < fds[j].Number()
	})
	views := m.Descriptor().FieldsByName()
	result := make([]FieldValue, len(fds))
	for i, fd := range fds {
		result[i] = FieldValue{
			Desc:  views[string(fd.Name())],
			Value: m.getField(fd),
		}
	}
	return result
}

// Range calls f for every field with non-default presence, in undefined
// order, until f returns false. ListFields is the ordered, materialized
// variant.
func (m *Message) Range(f func(*descbind.FieldDescriptor, any) bool) {
	views := m.Descriptor().FieldsByName()
	m.refl.Range(func(fd protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		return f(views[string(fd.Name())], m.getField(fd))
	})
}

// FindInitializationErrors returns the dotted paths of all required fields
// that are not set, recursing through present sub-messages, repeated
// elements, and map values. Proto3 messages have no required fields, so the
// result is empty for them.
func (m *Message) FindInitializationErrors() []string {
	var paths []string
	findInitErrors(m.refl, "", &paths)
	return paths
}

func findInitErrors(msg protoreflect.Message, prefix string, out *[]string) {
	fields := msg.Descriptor().Fields()
	for i, length := 0, fields.Len(); i < length; i++ {
		fd := fields.Get(i)
		name := prefix + string(fd.Name())
		switch {
		case fd.IsMap():
			if !isMessageKind(fd.MapValue().Kind()) {
				continue
			}
			msg.Get(fd).Map().Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
				findInitErrors(v.Message(), fmt.Sprintf("%s[%v].", name, k.Interface()), out)
				return true
			})
		case fd.IsList():
			if !isMessageKind(fd.Kind()) {
				continue
			}
			list := msg.Get(fd).List()
			for j, n := 0, list.Len(); j < n; j++ {
				findInitErrors(list.Get(j).Message(), fmt.Sprintf("%s[%d].", name, j), out)
			}
		default:
			if fd.Cardinality() == protoreflect.Required && !msg.Has(fd) {
				*out = append(*out, name)
			}
			if isMessageKind(fd.Kind()) && msg.Has(fd) {
				findInitErrors(msg.Get(fd).Message(), name+".", out)
			}
		}
	}
}

func (m *Message) childView(refl protoreflect.Message) *Message {
	return &Message{refl: refl, resolver: m.resolver, parent: m}
}

func isMessageKind(k protoreflect.Kind) bool {
	return k == protoreflect.MessageKind || k == protoreflect.GroupKind
}

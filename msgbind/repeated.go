package msgbind

import (
	"fmt"
	"reflect"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// RepeatedField is a proxy aliasing a repeated field of a parent message.
// The proxy and the parent observe the same storage: an element appended here
// is immediately visible through the parent, and vice versa. The proxy pins
// the parent message for as long as it is held.
//
// For message element types, elements cannot be assigned or appended
// directly; new elements appear via Add, and Extend copies whole messages
// element-wise.
type RepeatedField struct {
	parent *Message
	fd     protoreflect.FieldDescriptor
	list   protoreflect.List
}

func (m *Message) repeatedField(fd protoreflect.FieldDescriptor) *RepeatedField {
	return &RepeatedField{parent: m, fd: fd, list: m.refl.Mutable(fd).List()}
}

// Len returns the number of elements.
func (r *RepeatedField) Len() int {
	return r.list.Len()
}

// Get returns the element at index i. Negative indexes count from the end.
// Message elements are returned as mutable child views.
func (r *RepeatedField) Get(i int) (any, error) {
	idx, err := r.index(i)
	if err != nil {
		return nil, err
	}
	if isMessageKind(r.fd.Kind()) {
		return r.parent.childView(r.list.Get(idx).Message()), nil
	}
	return hostScalar(r.fd, r.list.Get(idx)), nil
}

// Set replaces the element at index i. Negative indexes count from the end.
// Message elements reject assignment; mutate them in place instead.
func (r *RepeatedField) Set(i int, value any) error {
	if err := r.rejectMessageWrite("assign to"); err != nil {
		return err
	}
	idx, err := r.index(i)
	if err != nil {
		return err
	}
	v, err := coerceScalar(r.fd, value)
	if err != nil {
		return err
	}
	r.list.Set(idx, v)
	return nil
}

// Delete removes the element at index i, shifting later elements left.
// Negative indexes count from the end.
func (r *RepeatedField) Delete(i int) error {
	idx, err := r.index(i)
	if err != nil {
		return err
	}
	n := r.list.Len()
	for j := idx; j < n-1; j++ {
		r.list.Set(j, r.list.Get(j+1))
	}
	r.list.Truncate(n - 1)
	return nil
}

// Append adds a value at the end. Message element types reject Append; use
// Add or Extend.
func (r *RepeatedField) Append(value any) error {
	if err := r.rejectMessageWrite("append to"); err != nil {
		return err
	}
	v, err := coerceScalar(r.fd, value)
	if err != nil {
		return err
	}
	r.list.Append(v)
	return nil
}

// Insert places a value at index i, shifting elements [i..n) right by one.
// The index must be in [0, n].
func (r *RepeatedField) Insert(i int, value any) error {
	if err := r.rejectMessageWrite("insert into"); err != nil {
		return err
	}
	n := r.list.Len()
	if i < 0 || i > n {
		return fmt.Errorf("%w: insert index %d (len %d)", IndexOutOfRangeError, i, n)
	}
	v, err := coerceScalar(r.fd, value)
	if err != nil {
		return err
	}
	r.list.Append(v)
	for j := n; j > i; j-- {
		r.list.Set(j, r.list.Get(j-1))
	}
	r.list.Set(i, v)
	return nil
}

// Extend appends every element of values, in iteration order. values may be
// a slice or array of host values, or another RepeatedField. For message
// element types the messages (wrapped or native) are copied element-wise.
func (r *RepeatedField) Extend(values any) error {
	if other, ok := values.(*RepeatedField); ok {
		n := other.Len()
		for i := 0; i < n; i++ {
			v, err := other.Get(i)
			if err != nil {
				return err
			}
			if err := r.appendAny(v); err != nil {
				return err
			}
		}
		return nil
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("%w: value for repeated field %s must be a slice; instead was %T",
			TypeMismatchError, r.fd.FullName(), values)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := r.appendAny(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (r *RepeatedField) appendAny(value any) error {
	if !isMessageKind(r.fd.Kind()) {
		v, err := coerceScalar(r.fd, value)
		if err != nil {
			return err
		}
		r.list.Append(v)
		return nil
	}
	pm, ok := asProto(value)
	if !ok {
		return fmt.Errorf("%w: %T in extension of repeated message field %s",
			NotAProtoError, value, r.fd.FullName())
	}
	want := r.fd.Message().FullName()
	if got := pm.ProtoReflect().Descriptor().FullName(); got != want {
		return fmt.Errorf("%w: repeated field %s requires value of type %s; received %s",
			InvalidArgumentError, r.fd.FullName(), want, got)
	}
	elem := r.list.NewElement()
	if err := mergeIntoRefl(elem.Message(), pm); err != nil {
		return err
	}
	r.list.Append(elem)
	return nil
}

// Add allocates a new default element in place, initializes it from fields,
// and returns a mutable view of it. Only message element types support Add.
func (r *RepeatedField) Add(fields Fields) (*Message, error) {
	if !isMessageKind(r.fd.Kind()) {
		return nil, fmt.Errorf("%w: Add on non-message repeated field %s",
			InvalidArgumentError, r.fd.FullName())
	}
	child := r.parent.childView(r.list.AppendMutable().Message())
	if err := child.applyFields(fields); err != nil {
		return nil, err
	}
	return child, nil
}

// Clear removes all elements.
func (r *RepeatedField) Clear() {
	r.list.Truncate(0)
}

// String renders the sequence for debugging, in the style of the reference
// host API: enum elements by name, messages in text format.
func (r *RepeatedField) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := 0, r.list.Len(); i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(renderElement(r.fd, r.list.Get(i)))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (r *RepeatedField) index(i int) (int, error) {
	n := r.list.Len()
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: index %d (len %d)", IndexOutOfRangeError, i, n)
	}
	return idx, nil
}

func (r *RepeatedField) rejectMessageWrite(op string) error {
	if isMessageKind(r.fd.Kind()) {
		return fmt.Errorf("%w: cannot %s repeated message field %s; use Add",
			FieldAssignmentError, op, r.fd.FullName())
	}
	return nil
}

func renderElement(fd protoreflect.FieldDescriptor, v protoreflect.Value) string {
	switch fd.Kind() {
	case protoreflect.EnumKind:
		if vd := fd.Enum().Values().ByNumber(v.Enum()); vd != nil {
			return string(vd.Name())
		}
		return fmt.Sprintf("%d", v.Enum())
	case protoreflect.StringKind:
		return fmt.Sprintf("%q", v.String())
	case protoreflect.BytesKind:
		return fmt.Sprintf("%q", v.Bytes())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return compactText(v.Message())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

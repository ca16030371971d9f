package descbind

import (
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// FieldDescriptor is a read-only view of a field descriptor.
type FieldDescriptor struct {
	fd protoreflect.FieldDescriptor

	// containing is set when this view was produced from a Descriptor, so
	// that ContainingType returns the identical parent view.
	containing *Descriptor

	containingOnce sync.Once
	msgOnce        sync.Once
	msgType        *Descriptor
	enumOnce       sync.Once
	enumType       *EnumDescriptor
}

// WrapField returns a view of the given field descriptor.
func WrapField(fd protoreflect.FieldDescriptor) *FieldDescriptor {
	return &FieldDescriptor{fd: fd}
}

// Name returns the short name of the field.
func (f *FieldDescriptor) Name() string {
	return string(f.fd.Name())
}

// Number returns the field number.
func (f *FieldDescriptor) Number() int32 {
	return int32(f.fd.Number())
}

// Type returns the declared wire type of the field.
func (f *FieldDescriptor) Type() Type {
	// Kind values are defined to match the descriptor.proto type numbers.
	return Type(f.fd.Kind())
}

// CppType returns the storage kind of the field.
func (f *FieldDescriptor) CppType() CppType {
	return CppTypeOf(f.fd.Kind())
}

// Label returns the field's cardinality label.
func (f *FieldDescriptor) Label() Label {
	// Cardinality values match the descriptor.proto label numbers.
	return Label(f.fd.Cardinality())
}

// ContainingType returns the view of the message that declares this field.
func (f *FieldDescriptor) ContainingType() *Descriptor {
	f.containingOnce.Do(func() {
		if f.containing == nil {
			f.containing = WrapMessage(f.fd.ContainingMessage())
		}
	})
	return f.containing
}

// MessageType returns the view of the field's message type, or nil if the
// field is not message-typed. The view is created once and reused.
func (f *FieldDescriptor) MessageType() *Descriptor {
	f.msgOnce.Do(func() {
		if md := f.fd.Message(); md != nil {
			f.msgType = WrapMessage(md)
		}
	})
	return f.msgType
}

// EnumType returns the view of the field's enum type, or nil if the field is
// not enum-typed. The view is created once and reused.
func (f *FieldDescriptor) EnumType() *EnumDescriptor {
	f.enumOnce.Do(func() {
		if ed := f.fd.Enum(); ed != nil {
			f.enumType = WrapEnum(ed)
		}
	})
	return f.enumType
}

// IsExtension reports whether the field is an extension.
func (f *FieldDescriptor) IsExtension() bool {
	return f.fd.IsExtension()
}

// ContainingOneof returns the oneof that declares this field. Oneof fields
// are not surfaced by the bridge, so this always returns nil.
func (f *FieldDescriptor) ContainingOneof() *OneofDescriptor {
	return nil
}

// Equal reports whether the two views refer to the same descriptor.
func (f *FieldDescriptor) Equal(o *FieldDescriptor) bool {
	return o != nil && f.fd == o.fd
}

// Unwrap returns the underlying descriptor.
func (f *FieldDescriptor) Unwrap() protoreflect.FieldDescriptor {
	return f.fd
}

// OneofDescriptor is a placeholder for oneof exposure, which the bridge does
// not support yet.
type OneofDescriptor struct {
	od protoreflect.OneofDescriptor
}

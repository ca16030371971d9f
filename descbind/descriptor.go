package descbind

import (
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Descriptor is a read-only view of a message descriptor.
type Descriptor struct {
	md protoreflect.MessageDescriptor

	fieldsOnce   sync.Once
	fieldsByName map[string]*FieldDescriptor
}

// WrapMessage returns a view of the given message descriptor.
//
// Each call returns a fresh view; callers that need identity-stable derived
// maps should hold on to one view rather than re-wrapping. Use Equal to test
// whether two views refer to the same descriptor.
func WrapMessage(md protoreflect.MessageDescriptor) *Descriptor {
	return &Descriptor{md: md}
}

// Name returns the short name of the message type.
func (d *Descriptor) Name() string {
	return string(d.md.Name())
}

// FullName returns the fully-qualified, dotted name of the message type.
func (d *Descriptor) FullName() string {
	return string(d.md.FullName())
}

// FieldsByName returns the message's fields, keyed by field name. The map is
// built on first access and cached; later calls return the same map instance,
// with the same field views.
func (d *Descriptor) FieldsByName() map[string]*FieldDescriptor {
	d.fieldsOnce.Do(func() {
		fields := d.md.Fields()
		byName := make(map[string]*FieldDescriptor, fields.Len())
		for i, length := 0, fields.Len(); i < length; i++ {
			fd := fields.Get(i)
			byName[string(fd.Name())] = &FieldDescriptor{fd: fd, containing: d}
		}
		d.fieldsByName = byName
	})
	return d.fieldsByName
}

// FieldByName returns the view of the named field, or nil if the message has
// no such field.
func (d *Descriptor) FieldByName(name string) *FieldDescriptor {
	return d.FieldsByName()[name]
}

// Options returns the message's options. A descriptor with no declared
// options yields an empty options message, never nil. The returned message
// must not be modified.
func (d *Descriptor) Options() proto.Message {
	if opts, ok := d.md.Options().(*descriptorpb.MessageOptions); ok && opts != nil {
		return opts
	}
	return &descriptorpb.MessageOptions{}
}

// HasOptions reports whether the descriptor carries an options message. An
// options message always exists, even if empty.
func (d *Descriptor) HasOptions() bool {
	return true
}

// Equal reports whether the two views refer to the same descriptor in the
// shared pool.
func (d *Descriptor) Equal(o *Descriptor) bool {
	return o != nil && d.md == o.md
}

// Unwrap returns the underlying descriptor.
func (d *Descriptor) Unwrap() protoreflect.MessageDescriptor {
	return d.md
}

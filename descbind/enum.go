package descbind

import (
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// EnumDescriptor is a read-only view of an enum descriptor.
type EnumDescriptor struct {
	ed protoreflect.EnumDescriptor

	valuesOnce     sync.Once
	valuesByName   map[string]*EnumValueDescriptor
	valuesByNumber map[int32]*EnumValueDescriptor
}

// WrapEnum returns a view of the given enum descriptor.
func WrapEnum(ed protoreflect.EnumDescriptor) *EnumDescriptor {
	return &EnumDescriptor{ed: ed}
}

// Name returns the short name of the enum type.
func (d *EnumDescriptor) Name() string {
	return string(d.ed.Name())
}

// FullName returns the fully-qualified, dotted name of the enum type.
func (d *EnumDescriptor) FullName() string {
	return string(d.ed.FullName())
}

// IsClosed reports whether the enum is closed: whether only the declared
// numbers are valid values for it.
func (d *EnumDescriptor) IsClosed() bool {
	return d.ed.IsClosed()
}

// ValuesByName returns the declared values keyed by name. The map is built on
// first access and cached; later calls return the same map instance.
func (d *EnumDescriptor) ValuesByName() map[string]*EnumValueDescriptor {
	d.buildValues()
	return d.valuesByName
}

// ValuesByNumber returns the declared values keyed by number. When several
// names share a number (allow_alias), the first declared name wins, matching
// the reference API. The map is built on first access and cached.
func (d *EnumDescriptor) ValuesByNumber() map[int32]*EnumValueDescriptor {
	d.buildValues()
	return d.valuesByNumber
}

func (d *EnumDescriptor) buildValues() {
	d.valuesOnce.Do(func() {
		vals := d.ed.Values()
		byName := make(map[string]*EnumValueDescriptor, vals.Len())
		byNumber := make(map[int32]*EnumValueDescriptor, vals.Len())
		for i, length := 0, vals.Len(); i < length; i++ {
			vd := &EnumValueDescriptor{vd: vals.Get(i)}
			byName[vd.Name()] = vd
			if _, ok := byNumber[vd.Number()]; !ok {
				byNumber[vd.Number()] = vd
			}
		}
		d.valuesByName = byName
		d.valuesByNumber = byNumber
	})
}

// Equal reports whether the two views refer to the same descriptor.
func (d *EnumDescriptor) Equal(o *EnumDescriptor) bool {
	return o != nil && d.ed == o.ed
}

// Unwrap returns the underlying descriptor.
func (d *EnumDescriptor) Unwrap() protoreflect.EnumDescriptor {
	return d.ed
}

// EnumValueDescriptor is a read-only view of a single enum value.
type EnumValueDescriptor struct {
	vd protoreflect.EnumValueDescriptor
}

// WrapEnumValue returns a view of the given enum value descriptor.
func WrapEnumValue(vd protoreflect.EnumValueDescriptor) *EnumValueDescriptor {
	return &EnumValueDescriptor{vd: vd}
}

// Name returns the declared name of the value.
func (v *EnumValueDescriptor) Name() string {
	return string(v.vd.Name())
}

// Number returns the declared number of the value.
func (v *EnumValueDescriptor) Number() int32 {
	return int32(v.vd.Number())
}

// Unwrap returns the underlying descriptor.
func (v *EnumValueDescriptor) Unwrap() protoreflect.EnumValueDescriptor {
	return v.vd
}

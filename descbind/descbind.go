// Package descbind exposes read-only views of protobuf descriptors to a
// dynamically-typed host environment. The views mirror the surface of the
// reference host proto API: a message descriptor with a name-keyed field map,
// enum descriptors with number- and name-keyed value maps, and field
// descriptors that report their wire type, storage kind, and label.
//
// Derived maps are computed lazily, on first access, and cached on the view
// itself, so repeated accesses return the same map instance. Views are cheap
// handles; the descriptors they wrap live for the life of the process.
package descbind

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Type identifies the declared wire type of a field. The names and numeric
// values are the standard ones from descriptor.proto.
type Type = descriptorpb.FieldDescriptorProto_Type

const (
	TypeDouble   = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	TypeFloat    = descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	TypeInt64    = descriptorpb.FieldDescriptorProto_TYPE_INT64
	TypeUint64   = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	TypeInt32    = descriptorpb.FieldDescriptorProto_TYPE_INT32
	TypeFixed64  = descriptorpb.FieldDescriptorProto_TYPE_FIXED64
	TypeFixed32  = descriptorpb.FieldDescriptorProto_TYPE_FIXED32
	TypeBool     = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	TypeString   = descriptorpb.FieldDescriptorProto_TYPE_STRING
	TypeGroup    = descriptorpb.FieldDescriptorProto_TYPE_GROUP
	TypeMessage  = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	TypeBytes    = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	TypeUint32   = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	TypeEnum     = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	TypeSfixed32 = descriptorpb.FieldDescriptorProto_TYPE_SFIXED32
	TypeSfixed64 = descriptorpb.FieldDescriptorProto_TYPE_SFIXED64
	TypeSint32   = descriptorpb.FieldDescriptorProto_TYPE_SINT32
	TypeSint64   = descriptorpb.FieldDescriptorProto_TYPE_SINT64
)

// Label identifies the cardinality of a field. The names and numeric values
// are the standard ones from descriptor.proto.
type Label = descriptorpb.FieldDescriptorProto_Label

const (
	LabelOptional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	LabelRequired = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
	LabelRepeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
)

// CppType identifies the storage kind of a field: the coarse classification
// used to dispatch scalar, enum, string, and message handling. The numeric
// values match the C++ FieldDescriptor::CppType constants, which is what the
// reference host API reports.
type CppType int32

const (
	CppTypeInt32   CppType = 1
	CppTypeInt64   CppType = 2
	CppTypeUint32  CppType = 3
	CppTypeUint64  CppType = 4
	CppTypeDouble  CppType = 5
	CppTypeFloat   CppType = 6
	CppTypeBool    CppType = 7
	CppTypeEnum    CppType = 8
	CppTypeString  CppType = 9
	CppTypeMessage CppType = 10
)

var cppTypeNames = map[CppType]string{
	CppTypeInt32:   "CPPTYPE_INT32",
	CppTypeInt64:   "CPPTYPE_INT64",
	CppTypeUint32:  "CPPTYPE_UINT32",
	CppTypeUint64:  "CPPTYPE_UINT64",
	CppTypeDouble:  "CPPTYPE_DOUBLE",
	CppTypeFloat:   "CPPTYPE_FLOAT",
	CppTypeBool:    "CPPTYPE_BOOL",
	CppTypeEnum:    "CPPTYPE_ENUM",
	CppTypeString:  "CPPTYPE_STRING",
	CppTypeMessage: "CPPTYPE_MESSAGE",
}

func (t CppType) String() string {
	if s, ok := cppTypeNames[t]; ok {
		return s
	}
	return "CPPTYPE_UNKNOWN"
}

// CppTypeOf returns the storage kind for the given field kind. Groups are
// treated as messages.
func CppTypeOf(k protoreflect.Kind) CppType {
	switch k {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return CppTypeInt32
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return CppTypeInt64
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return CppTypeUint32
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return CppTypeUint64
	case protoreflect.DoubleKind:
		return CppTypeDouble
	case protoreflect.FloatKind:
		return CppTypeFloat
	case protoreflect.BoolKind:
		return CppTypeBool
	case protoreflect.EnumKind:
		return CppTypeEnum
	case protoreflect.StringKind, protoreflect.BytesKind:
		return CppTypeString
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return CppTypeMessage
	default:
		return 0
	}
}

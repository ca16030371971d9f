package msgbind

import "errors"

// Errors returned by the bridge. Operations wrap these with context, so test
// with errors.Is rather than equality.
var (
	// UnknownTypeError is returned when the descriptor pool has no message
	// type with the requested full name.
	UnknownTypeError = errors.New("message type not found")

	// UnknownFieldNameError is returned when a message type has no field
	// with the given name.
	UnknownFieldNameError = errors.New("message has no field with given name")

	// FieldAssignmentError is returned on an attempt to directly assign a
	// message, repeated, or map field. Those fields are mutated in place,
	// through the view or proxy returned by the getter.
	FieldAssignmentError = errors.New("assignment not allowed to field")

	// TypeMismatchError is returned when a value cannot be coerced to the
	// field's declared type.
	TypeMismatchError = errors.New("value type does not match field type")

	// NumericRangeError is returned when an integer value is outside the
	// field's declared width, or an enum number is outside a closed enum's
	// declared set.
	NumericRangeError = errors.New("numeric value is out of range")

	// IndexOutOfRangeError is returned for a repeated-field index outside
	// [-n, n).
	IndexOutOfRangeError = errors.New("index is out of range")

	// KeyMissingError is returned for a read of an absent key from a map
	// whose values are not messages.
	KeyMissingError = errors.New("map key not present")

	// MapValueAssignmentError is returned on an attempt to assign to a
	// message-valued map key. Message values are mutated in place on the
	// view returned by Get.
	MapValueAssignmentError = errors.New("cannot assign to message in a map field")

	// NotAProtoError is returned when an argument that must be a protocol
	// message (wrapped or native) is something else.
	NotAProtoError = errors.New("object is not a protocol message")

	// InvalidArgumentError is returned for arguments that are protos of the
	// wrong type, and for operations invoked on an unsuitable field or
	// message, such as HasField on a repeated field.
	InvalidArgumentError = errors.New("invalid argument")
)

package msgbind

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// coerceScalar converts a host value to a protoreflect.Value for the given
// field, dispatching on the field's declared kind. Message kinds are not
// handled here; the callers route message values through the child-view and
// container paths. The same function serves singular fields, repeated
// elements, map keys, and map values (the map entry's key and value field
// descriptors are passed in for the latter two).
func coerceScalar(fd protoreflect.FieldDescriptor, val any) (protoreflect.Value, error) {
	switch fd.Kind() {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		i, err := toInt(fd, val, math.MinInt32, math.MaxInt32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfInt32(int32(i)), nil

	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		i, err := toInt(fd, val, math.MinInt64, math.MaxInt64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfInt64(i), nil

	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		u, err := toUint(fd, val, math.MaxUint32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfUint32(uint32(u)), nil

	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		u, err := toUint(fd, val, math.MaxUint64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfUint64(u), nil

	case protoreflect.FloatKind:
		f, err := toFloat(fd, val)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfFloat32(float32(f)), nil

	case protoreflect.DoubleKind:
		f, err := toFloat(fd, val)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfFloat64(f), nil

	case protoreflect.BoolKind:
		// Only a real bool is accepted; 0 and 1 are not, matching the
		// reference host API.
		b, ok := val.(bool)
		if !ok {
			return protoreflect.Value{}, mismatch(fd, val)
		}
		return protoreflect.ValueOfBool(b), nil

	case protoreflect.StringKind:
		// Text fields reject raw byte buffers.
		s, ok := val.(string)
		if !ok {
			return protoreflect.Value{}, mismatch(fd, val)
		}
		return protoreflect.ValueOfString(s), nil

	case protoreflect.BytesKind:
		switch b := val.(type) {
		case []byte:
			return protoreflect.ValueOfBytes(b), nil
		case string:
			return protoreflect.ValueOfBytes([]byte(b)), nil
		}
		return protoreflect.Value{}, mismatch(fd, val)

	case protoreflect.EnumKind:
		return coerceEnum(fd, val)

	default:
		return protoreflect.Value{}, fmt.Errorf("%w: field %s is a %s and cannot be set from a scalar value",
			TypeMismatchError, fd.FullName(), fd.Kind())
	}
}

func coerceEnum(fd protoreflect.FieldDescriptor, val any) (protoreflect.Value, error) {
	var n int64
	switch v := val.(type) {
	case protoreflect.EnumNumber:
		n = int64(v)
	case protoreflect.EnumValueDescriptor:
		n = int64(v.Number())
	case interface{ Number() int32 }: // enum value descriptor views
		n = int64(v.Number())
	default:
		var err error
		n, err = toInt(fd, val, math.MinInt32, math.MaxInt32)
		if err != nil {
			return protoreflect.Value{}, err
		}
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return protoreflect.Value{}, rangeErr(fd, val)
	}
	ed := fd.Enum()
	if ed.IsClosed() && ed.Values().ByNumber(protoreflect.EnumNumber(n)) == nil {
		return protoreflect.Value{}, fmt.Errorf("%w: enum %s has no value with number %d",
			NumericRangeError, ed.FullName(), n)
	}
	return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), nil
}

// toInt accepts any host integer, and floats with an integral value, and
// range-checks the result against [lo, hi].
func toInt(fd protoreflect.FieldDescriptor, val any, lo, hi int64) (int64, error) {
	var i int64
	switch v := val.(type) {
	case int:
		i = int64(v)
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case protoreflect.EnumNumber:
		i = int64(v)
	case uint:
		return checkUintAsInt(fd, val, uint64(v), lo, hi)
	case uint8:
		i = int64(v)
	case uint16:
		i = int64(v)
	case uint32:
		i = int64(v)
	case uint64:
		return checkUintAsInt(fd, val, v, lo, hi)
	case float32:
		return floatToInt(fd, val, float64(v), lo, hi)
	case float64:
		return floatToInt(fd, val, v, lo, hi)
	default:
		return 0, mismatch(fd, val)
	}
	if i < lo || i > hi {
		return 0, rangeErr(fd, val)
	}
	return i, nil
}

func checkUintAsInt(fd protoreflect.FieldDescriptor, val any, u uint64, lo, hi int64) (int64, error) {
	if u > math.MaxInt64 || int64(u) < lo || int64(u) > hi {
		return 0, rangeErr(fd, val)
	}
	return int64(u), nil
}

func floatToInt(fd protoreflect.FieldDescriptor, val any, f float64, lo, hi int64) (int64, error) {
	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, mismatch(fd, val)
	}
	// float64(math.MaxInt64) rounds up to 2^63, so a closed-interval check
	// against it would let 2^63 through and wrap on conversion. -2^63 is
	// exact, 2^63 is the first excluded value.
	if f < math.MinInt64 || f >= 0x1p63 {
		return 0, rangeErr(fd, val)
	}
	i := int64(f)
	if i < lo || i > hi {
		return 0, rangeErr(fd, val)
	}
	return i, nil
}

// toUint accepts any host integer with a non-negative value, and integral
// floats, range-checked against [0, hi].
func toUint(fd protoreflect.FieldDescriptor, val any, hi uint64) (uint64, error) {
	var u uint64
	switch v := val.(type) {
	case uint:
		u = uint64(v)
	case uint8:
		u = uint64(v)
	case uint16:
		u = uint64(v)
	case uint32:
		u = uint64(v)
	case uint64:
		u = v
	case int:
		return checkIntAsUint(fd, val, int64(v), hi)
	case int8:
		return checkIntAsUint(fd, val, int64(v), hi)
	case int16:
		return checkIntAsUint(fd, val, int64(v), hi)
	case int32:
		return checkIntAsUint(fd, val, int64(v), hi)
	case int64:
		return checkIntAsUint(fd, val, v, hi)
	case float32:
		return floatToUint(fd, val, float64(v), hi)
	case float64:
		return floatToUint(fd, val, v, hi)
	default:
		return 0, mismatch(fd, val)
	}
	if u > hi {
		return 0, rangeErr(fd, val)
	}
	return u, nil
}

func checkIntAsUint(fd protoreflect.FieldDescriptor, val any, i int64, hi uint64) (uint64, error) {
	if i < 0 || uint64(i) > hi {
		return 0, rangeErr(fd, val)
	}
	return uint64(i), nil
}

func floatToUint(fd protoreflect.FieldDescriptor, val any, f float64, hi uint64) (uint64, error) {
	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, mismatch(fd, val)
	}
	// float64(math.MaxUint64) rounds up to 2^64; exclude it the same way.
	if f < 0 || f >= 0x1p64 {
		return 0, rangeErr(fd, val)
	}
	u := uint64(f)
	if u > hi {
		return 0, rangeErr(fd, val)
	}
	return u, nil
}

// toFloat accepts any host integer or float.
func toFloat(fd protoreflect.FieldDescriptor, val any) (float64, error) {
	switch v := val.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, mismatch(fd, val)
}

func mismatch(fd protoreflect.FieldDescriptor, val any) error {
	return fmt.Errorf("%w: %s field %s is not compatible with value of type %T",
		TypeMismatchError, fd.Kind(), fd.FullName(), val)
}

func rangeErr(fd protoreflect.FieldDescriptor, val any) error {
	return fmt.Errorf("%w: value %v does not fit in %s field %s",
		NumericRangeError, val, fd.Kind(), fd.FullName())
}

// hostScalar converts a protoreflect.Value of the given field into the host
// representation handed across the boundary: Go native scalars, with enums as
// protoreflect.EnumNumber.
func hostScalar(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return int32(v.Int())
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return v.Int()
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return uint32(v.Uint())
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return v.Uint()
	case protoreflect.FloatKind:
		return float32(v.Float())
	case protoreflect.DoubleKind:
		return v.Float()
	case protoreflect.BoolKind:
		return v.Bool()
	case protoreflect.StringKind:
		return v.String()
	case protoreflect.BytesKind:
		return v.Bytes()
	case protoreflect.EnumKind:
		return v.Enum()
	default:
		return v.Interface()
	}
}

package msgbind

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// This file provides statically typed facades over the dynamic container
// proxies. Each facade borrows the underlying proxy, so a typed view and the
// dynamic proxy it came from observe the same storage.

// Scalar constrains the element types the typed facades can carry.
type Scalar interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64 | ~bool | ~string | ~[]byte
}

// RepeatedOf is a typed view over a repeated field of scalar or enum
// elements. Obtain one with AsRepeated.
type RepeatedOf[T Scalar] struct {
	r *RepeatedField
}

// Typed aliases for each scalar category. Enum elements travel as
// protoreflect.EnumNumber.
type (
	RepeatedInt32  = RepeatedOf[int32]
	RepeatedInt64  = RepeatedOf[int64]
	RepeatedUInt32 = RepeatedOf[uint32]
	RepeatedUInt64 = RepeatedOf[uint64]
	RepeatedFloat  = RepeatedOf[float32]
	RepeatedDouble = RepeatedOf[float64]
	RepeatedBool   = RepeatedOf[bool]
	RepeatedString = RepeatedOf[string]
	RepeatedBytes  = RepeatedOf[[]byte]
	RepeatedEnum   = RepeatedOf[protoreflect.EnumNumber]
)

// AsRepeated wraps the proxy in a typed view after checking that T matches
// the field's element category.
func AsRepeated[T Scalar](r *RepeatedField) (RepeatedOf[T], error) {
	var zero T
	if err := checkElementType(r.fd, zero); err != nil {
		return RepeatedOf[T]{}, err
	}
	return RepeatedOf[T]{r: r}, nil
}

// Len returns the number of elements.
func (r RepeatedOf[T]) Len() int { return r.r.Len() }

// Get returns the element at index i. Negative indexes count from the end.
func (r RepeatedOf[T]) Get(i int) (T, error) {
	v, err := r.r.Get(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return asElement[T](v)
}

// Set replaces the element at index i.
func (r RepeatedOf[T]) Set(i int, value T) error { return r.r.Set(i, value) }

// Append adds a value at the end.
func (r RepeatedOf[T]) Append(value T) error { return r.r.Append(value) }

// Insert places a value at index i, shifting elements [i..n) right by one.
func (r RepeatedOf[T]) Insert(i int, value T) error { return r.r.Insert(i, value) }

// Delete removes the element at index i.
func (r RepeatedOf[T]) Delete(i int) error { return r.r.Delete(i) }

// Extend appends every value in order.
func (r RepeatedOf[T]) Extend(values ...T) error { return r.r.Extend(values) }

// Clear removes all elements.
func (r RepeatedOf[T]) Clear() { r.r.Clear() }

// Dynamic returns the underlying dynamic proxy.
func (r RepeatedOf[T]) Dynamic() *RepeatedField { return r.r }

func (r RepeatedOf[T]) String() string { return r.r.String() }

// RepeatedMessage is a typed view over a repeated field of message elements.
// Unlike the scalar views it has no Set, Append, or Insert; new elements
// appear via Add, and Extend copies whole messages element-wise.
type RepeatedMessage struct {
	r *RepeatedField
}

// AsRepeatedMessage wraps the proxy in a message-element view after checking
// that the field's elements are messages.
func AsRepeatedMessage(r *RepeatedField) (RepeatedMessage, error) {
	if !isMessageKind(r.fd.Kind()) {
		return RepeatedMessage{}, fmt.Errorf("%w: repeated field %s holds %v elements, not messages",
			TypeMismatchError, r.fd.FullName(), r.fd.Kind())
	}
	return RepeatedMessage{r: r}, nil
}

// Len returns the number of elements.
func (r RepeatedMessage) Len() int { return r.r.Len() }

// Get returns a mutable view of the element at index i.
func (r RepeatedMessage) Get(i int) (*Message, error) {
	v, err := r.r.Get(i)
	if err != nil {
		return nil, err
	}
	return v.(*Message), nil
}

// Add allocates a new element in place, initializes it from fields, and
// returns a mutable view of it.
func (r RepeatedMessage) Add(fields Fields) (*Message, error) { return r.r.Add(fields) }

// Extend appends a copy of every message in order.
func (r RepeatedMessage) Extend(msgs ...proto.Message) error {
	for _, pm := range msgs {
		if err := r.r.appendAny(pm); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the element at index i.
func (r RepeatedMessage) Delete(i int) error { return r.r.Delete(i) }

// Clear removes all elements.
func (r RepeatedMessage) Clear() { r.r.Clear() }

// Dynamic returns the underlying dynamic proxy.
func (r RepeatedMessage) Dynamic() *RepeatedField { return r.r }

func (r RepeatedMessage) String() string { return r.r.String() }

// MapOf is a typed view over a map field with scalar or enum values. Keys
// stay dynamically typed so that one view type serves every key category.
// Obtain one with AsMap.
type MapOf[V Scalar] struct {
	m *MapField
}

// Typed aliases for each value category.
type (
	MappedInt32  = MapOf[int32]
	MappedInt64  = MapOf[int64]
	MappedUInt32 = MapOf[uint32]
	MappedUInt64 = MapOf[uint64]
	MappedFloat  = MapOf[float32]
	MappedDouble = MapOf[float64]
	MappedBool   = MapOf[bool]
	MappedString = MapOf[string]
	MappedBytes  = MapOf[[]byte]
	MappedEnum   = MapOf[protoreflect.EnumNumber]
)

// AsMap wraps the proxy in a typed view after checking that V matches the
// field's value category.
func AsMap[V Scalar](m *MapField) (MapOf[V], error) {
	var zero V
	if err := checkElementType(m.valFd, zero); err != nil {
		return MapOf[V]{}, err
	}
	return MapOf[V]{m: m}, nil
}

// Len returns the number of entries.
func (m MapOf[V]) Len() int { return m.m.Len() }

// Get returns the value for the given key, or KeyMissingError if absent.
func (m MapOf[V]) Get(key any) (V, error) {
	v, err := m.m.Get(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return asElement[V](v)
}

// Set stores a value under the given key.
func (m MapOf[V]) Set(key any, value V) error { return m.m.Set(key, value) }

// Has reports whether the given key is present.
func (m MapOf[V]) Has(key any) (bool, error) { return m.m.Has(key) }

// Delete removes the entry for the given key, if present.
func (m MapOf[V]) Delete(key any) error { return m.m.Delete(key) }

// Clear removes all entries.
func (m MapOf[V]) Clear() { m.m.Clear() }

// Keys returns a single-pass iterator over the map's keys.
func (m MapOf[V]) Keys() *MapIterator { return m.m.Keys() }

// Items returns a single-pass typed iterator over the map's entries.
func (m MapOf[V]) Items() *MapIteratorOf[V] {
	return &MapIteratorOf[V]{it: m.m.Items()}
}

// Dynamic returns the underlying dynamic proxy.
func (m MapOf[V]) Dynamic() *MapField { return m.m }

func (m MapOf[V]) String() string { return m.m.String() }

// MappedMessage is a typed view over a map field with message values.
// Reading an absent key auto-inserts a default value and returns a mutable
// view; there is no Set.
type MappedMessage struct {
	m *MapField
}

// AsMappedMessage wraps the proxy in a message-value view after checking that
// the field's values are messages.
func AsMappedMessage(m *MapField) (MappedMessage, error) {
	if !isMessageKind(m.valFd.Kind()) {
		return MappedMessage{}, fmt.Errorf("%w: map field %s holds %v values, not messages",
			TypeMismatchError, m.fd.FullName(), m.valFd.Kind())
	}
	return MappedMessage{m: m}, nil
}

// Len returns the number of entries.
func (m MappedMessage) Len() int { return m.m.Len() }

// Get returns a mutable view of the value for the given key, inserting a
// default value if the key is absent.
func (m MappedMessage) Get(key any) (*Message, error) {
	v, err := m.m.Get(key)
	if err != nil {
		return nil, err
	}
	return v.(*Message), nil
}

// Has reports whether the given key is present.
func (m MappedMessage) Has(key any) (bool, error) { return m.m.Has(key) }

// Delete removes the entry for the given key, if present.
func (m MappedMessage) Delete(key any) error { return m.m.Delete(key) }

// Clear removes all entries.
func (m MappedMessage) Clear() { m.m.Clear() }

// Keys returns a single-pass iterator over the map's keys.
func (m MappedMessage) Keys() *MapIterator { return m.m.Keys() }

// NewEntry constructs a detached entry message; see MapField.NewEntry.
func (m MappedMessage) NewEntry(fields Fields) (*Message, error) { return m.m.NewEntry(fields) }

// Dynamic returns the underlying dynamic proxy.
func (m MappedMessage) Dynamic() *MapField { return m.m }

func (m MappedMessage) String() string { return m.m.String() }

// MapIteratorOf is a typed single-pass iterator over map entries.
type MapIteratorOf[V Scalar] struct {
	it *MapIterator
}

// Typed iterator aliases for each value category.
type (
	MappedInt32Iterator  = MapIteratorOf[int32]
	MappedInt64Iterator  = MapIteratorOf[int64]
	MappedUInt32Iterator = MapIteratorOf[uint32]
	MappedUInt64Iterator = MapIteratorOf[uint64]
	MappedFloatIterator  = MapIteratorOf[float32]
	MappedDoubleIterator = MapIteratorOf[float64]
	MappedBoolIterator   = MapIteratorOf[bool]
	MappedStringIterator = MapIteratorOf[string]
	MappedBytesIterator  = MapIteratorOf[[]byte]
	MappedEnumIterator   = MapIteratorOf[protoreflect.EnumNumber]
)

// Next returns the next key and value, or false once exhausted.
func (it *MapIteratorOf[V]) Next() (key any, value V, ok bool) {
	e, ok := it.it.Next()
	if !ok {
		var zero V
		return nil, zero, false
	}
	entry := e.(MapEntry)
	v, err := asElement[V](entry.Value)
	if err != nil {
		var zero V
		return nil, zero, false
	}
	return entry.Key, v, true
}

// checkElementType verifies that values of zero's type can faithfully carry
// the field's elements.
func checkElementType[T Scalar](fd protoreflect.FieldDescriptor, zero T) error {
	ok := false
	switch any(zero).(type) {
	case int32:
		ok = fd.Kind() == protoreflect.Int32Kind ||
			fd.Kind() == protoreflect.Sint32Kind ||
			fd.Kind() == protoreflect.Sfixed32Kind
	case int64:
		ok = fd.Kind() == protoreflect.Int64Kind ||
			fd.Kind() == protoreflect.Sint64Kind ||
			fd.Kind() == protoreflect.Sfixed64Kind
	case uint32:
		ok = fd.Kind() == protoreflect.Uint32Kind || fd.Kind() == protoreflect.Fixed32Kind
	case uint64:
		ok = fd.Kind() == protoreflect.Uint64Kind || fd.Kind() == protoreflect.Fixed64Kind
	case float32:
		ok = fd.Kind() == protoreflect.FloatKind
	case float64:
		ok = fd.Kind() == protoreflect.DoubleKind
	case bool:
		ok = fd.Kind() == protoreflect.BoolKind
	case string:
		ok = fd.Kind() == protoreflect.StringKind || fd.Kind() == protoreflect.BytesKind
	case []byte:
		ok = fd.Kind() == protoreflect.BytesKind || fd.Kind() == protoreflect.StringKind
	case protoreflect.EnumNumber:
		ok = fd.Kind() == protoreflect.EnumKind
	}
	if !ok {
		return fmt.Errorf("%w: field %s holds %v elements; incompatible typed view",
			TypeMismatchError, fd.FullName(), fd.Kind())
	}
	return nil
}

// asElement converts a host value produced by a dynamic proxy into T.
// Host values already match the field's category; the only remaining
// adjustments are the string/bytes and enum/int32 interchanges the typed
// views allow.
func asElement[T Scalar](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	switch x := v.(type) {
	case []byte:
		if t, ok := any(string(x)).(T); ok {
			return t, nil
		}
	case string:
		if t, ok := any([]byte(x)).(T); ok {
			return t, nil
		}
	case protoreflect.EnumNumber:
		if t, ok := any(int32(x)).(T); ok {
			return t, nil
		}
	case int32:
		if t, ok := any(protoreflect.EnumNumber(x)).(T); ok {
			return t, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: cannot view %T as %T", TypeMismatchError, v, zero)
}

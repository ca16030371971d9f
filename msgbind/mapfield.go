package msgbind

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// MapField is a proxy aliasing a map field of a parent message. The proxy and
// the parent observe the same storage. The proxy pins the parent message for
// as long as it is held.
//
// Maps whose values are messages cannot be assigned per key; reading an
// absent key auto-inserts a default value and returns a mutable view, and
// values are mutated in place on that view. Maps with scalar values raise
// KeyMissingError on reads of absent keys instead.
type MapField struct {
	parent *Message
	fd     protoreflect.FieldDescriptor
	keyFd  protoreflect.FieldDescriptor
	valFd  protoreflect.FieldDescriptor
	mp     protoreflect.Map
}

func (m *Message) mapField(fd protoreflect.FieldDescriptor) *MapField {
	return &MapField{
		parent: m,
		fd:     fd,
		keyFd:  fd.MapKey(),
		valFd:  fd.MapValue(),
		mp:     m.refl.Mutable(fd).Map(),
	}
}

// Len returns the number of entries.
func (f *MapField) Len() int {
	return f.mp.Len()
}

// Get returns the value for the given key. For message-valued maps an absent
// key is auto-inserted with a default value and a mutable view is returned;
// for all other maps an absent key is KeyMissingError.
func (f *MapField) Get(key any) (any, error) {
	k, err := f.mapKey(key)
	if err != nil {
		return nil, err
	}
	if isMessageKind(f.valFd.Kind()) {
		return f.parent.childView(f.mp.Mutable(k).Message()), nil
	}
	v := f.mp.Get(k)
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: %v in map field %s", KeyMissingError, key, f.fd.FullName())
	}
	return hostScalar(f.valFd, v), nil
}

// Set stores a scalar or enum value under the given key. Message-valued maps
// reject assignment; mutate the view returned by Get instead.
func (f *MapField) Set(key, value any) error {
	if isMessageKind(f.valFd.Kind()) {
		return fmt.Errorf("%w: %s", MapValueAssignmentError, f.fd.FullName())
	}
	k, err := f.mapKey(key)
	if err != nil {
		return err
	}
	v, err := coerceScalar(f.valFd, value)
	if err != nil {
		return err
	}
	f.mp.Set(k, v)
	return nil
}

// Has reports whether the given key is present.
func (f *MapField) Has(key any) (bool, error) {
	k, err := f.mapKey(key)
	if err != nil {
		return false, err
	}
	return f.mp.Has(k), nil
}

// Delete removes the entry for the given key, if present.
func (f *MapField) Delete(key any) error {
	k, err := f.mapKey(key)
	if err != nil {
		return err
	}
	f.mp.Clear(k)
	return nil
}

// Update stores every entry of src, which must be a map with coercible keys
// and values (a Fields value works for string-keyed maps, giving keyword
// semantics). Entries already stored are overwritten; on error, entries
// applied so far are left in place. Message-valued maps reject Update.
func (f *MapField) Update(src any) error {
	if isMessageKind(f.valFd.Kind()) {
		return fmt.Errorf("%w: %s", MapValueAssignmentError, f.fd.FullName())
	}
	rv := reflect.ValueOf(src)
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("%w: value for map field %s must be a map; instead was %T",
			TypeMismatchError, f.fd.FullName(), src)
	}
	iter := rv.MapRange()
	for iter.Next() {
		if err := f.Set(iter.Key().Interface(), iter.Value().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all entries.
func (f *MapField) Clear() {
	keys := f.snapshotKeys()
	for _, k := range keys {
		f.mp.Clear(k)
	}
}

// Keys returns a single-pass iterator over the map's keys.
func (f *MapField) Keys() *MapIterator {
	return f.iterator(iterKeys)
}

// Values returns a single-pass iterator over the map's values.
func (f *MapField) Values() *MapIterator {
	return f.iterator(iterValues)
}

// Items returns a single-pass iterator over the map's entries.
func (f *MapField) Items() *MapIterator {
	return f.iterator(iterItems)
}

// NewEntry constructs a detached message with `key` and `value` fields
// matching this map's entry type, initialized from fields. Text-format
// tooling uses such entries to populate map fields one entry at a time.
func (f *MapField) NewEntry(fields Fields) (*Message, error) {
	entry := &Message{
		refl:     dynamicpb.NewMessage(f.fd.Message()).ProtoReflect(),
		resolver: f.parent.resolver,
	}
	if err := entry.applyFields(fields); err != nil {
		return nil, err
	}
	return entry, nil
}

// EntryClass returns a factory function constructing entry messages; see
// NewEntry.
func (f *MapField) EntryClass() func(Fields) (*Message, error) {
	return f.NewEntry
}

// String renders the map for debugging, with entries ordered by key.
func (f *MapField) String() string {
	keys := f.snapshotKeys()
	sort.Slice(keys, func(i, j int) bool { return lessMapKey(keys[i], keys[j]) })
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(renderElement(f.keyFd, k.Value()))
		sb.WriteString(": ")
		sb.WriteString(renderElement(f.valFd, f.mp.Get(k)))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (f *MapField) mapKey(key any) (protoreflect.MapKey, error) {
	v, err := coerceScalar(f.keyFd, key)
	if err != nil {
		return protoreflect.MapKey{}, err
	}
	return v.MapKey(), nil
}

func (f *MapField) snapshotKeys() []protoreflect.MapKey {
	keys := make([]protoreflect.MapKey, 0, f.mp.Len())
	f.mp.Range(func(k protoreflect.MapKey, _ protoreflect.Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func (f *MapField) iterator(kind iterKind) *MapIterator {
	return &MapIterator{m: f, kind: kind, keys: f.snapshotKeys()}
}

type iterKind int

const (
	iterKeys iterKind = iota
	iterValues
	iterItems
)

// MapEntry is a key/value pair produced by an Items iterator.
type MapEntry struct {
	Key   any
	Value any
}

// MapIterator is a single-pass, non-restartable forward iterator over a map
// proxy. It captures the key set when created and fetches values lazily;
// mutating the map during iteration is not allowed. The iterator holds the
// parent message alive until exhaustion.
type MapIterator struct {
	m    *MapField
	kind iterKind
	keys []protoreflect.MapKey
	next int
}

// Next returns the iterator's next element and true, or a zero value and
// false once the iterator is exhausted. Keys iterators yield host keys,
// values iterators yield host values, and items iterators yield MapEntry
// pairs.
func (it *MapIterator) Next() (any, bool) {
	for it.next < len(it.keys) {
		k := it.keys[it.next]
		it.next++
		if it.kind == iterKeys {
			return hostScalar(it.m.keyFd, k.Value()), true
		}
		v := it.m.mp.Get(k)
		if !v.IsValid() {
			continue // entry removed out from under us
		}
		var val any
		if isMessageKind(it.m.valFd.Kind()) {
			val = it.m.parent.childView(v.Message())
		} else {
			val = hostScalar(it.m.valFd, v)
		}
		if it.kind == iterValues {
			return val, true
		}
		return MapEntry{Key: hostScalar(it.m.keyFd, k.Value()), Value: val}, true
	}
	return nil, false
}

func lessMapKey(a, b protoreflect.MapKey) bool {
	switch av := a.Interface().(type) {
	case bool:
		bv, _ := b.Interface().(bool)
		return !av && bv
	case int32:
		bv, _ := b.Interface().(int32)
		return av < bv
	case int64:
		bv, _ := b.Interface().(int64)
		return av < bv
	case uint32:
		bv, _ := b.Interface().(uint32)
		return av < bv
	case uint64:
		bv, _ := b.Interface().(uint64)
		return av < bv
	case string:
		bv, _ := b.Interface().(string)
		return av < bv
	default:
		return false
	}
}

func compactText(m protoreflect.Message) string {
	b, err := (prototext.MarshalOptions{}).Marshal(m.Interface())
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(b)
}

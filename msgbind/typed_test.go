package msgbind

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func TestTypedRepeated(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	xs, err := AsRepeated[int32](m.GetField("xs").(*RepeatedField))
	require.NoError(t, err)
	require.NoError(t, xs.Extend(1, 2, 3))
	require.NoError(t, xs.Insert(0, 7))
	require.Equal(t, 4, xs.Len())

	got, err := xs.Get(0)
	require.NoError(t, err)
	require.Equal(t, int32(7), got)

	require.NoError(t, xs.Set(-1, 9))
	got, err = xs.Get(3)
	require.NoError(t, err)
	require.Equal(t, int32(9), got)

	// The typed view and the dynamic proxy share storage.
	require.Equal(t, 4, m.GetField("xs").(*RepeatedField).Len())
	require.NoError(t, xs.Delete(0))
	require.Equal(t, 3, xs.Dynamic().Len())
}

func TestTypedRepeatedMismatch(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")
	xs := m.GetField("xs").(*RepeatedField)

	_, err := AsRepeated[string](xs)
	require.ErrorIs(t, err, TypeMismatchError)
	_, err = AsRepeated[int64](xs)
	require.ErrorIs(t, err, TypeMismatchError)
	_, err = AsRepeatedMessage(xs)
	require.ErrorIs(t, err, TypeMismatchError)

	items := m.GetField("items").(*RepeatedField)
	_, err = AsRepeated[int32](items)
	require.ErrorIs(t, err, TypeMismatchError)
}

func TestTypedRepeatedEnum(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	moods, err := AsRepeated[protoreflect.EnumNumber](m.GetField("moods").(*RepeatedField))
	require.NoError(t, err)
	require.NoError(t, moods.Append(1))
	require.NoError(t, moods.Append(2))

	got, err := moods.Get(1)
	require.NoError(t, err)
	require.Equal(t, protoreflect.EnumNumber(2), got)
}

func TestTypedRepeatedMessage(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	items, err := AsRepeatedMessage(m.GetField("items").(*RepeatedField))
	require.NoError(t, err)

	child, err := items.Add(Fields{"value": 4})
	require.NoError(t, err)
	require.Equal(t, int32(4), child.GetField("value"))

	box := newTestMessage(t, types, "bridge.test.IntBox")
	require.NoError(t, box.TrySetField("value", 6))
	require.NoError(t, items.Extend(box))
	require.Equal(t, 2, items.Len())

	got, err := items.Get(1)
	require.NoError(t, err)
	require.Equal(t, int32(6), got.GetField("value"))
}

func TestTypedMap(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	mf, err := AsMap[int32](m.GetField("m").(*MapField))
	require.NoError(t, err)
	require.NoError(t, mf.Set("a", 1))
	require.NoError(t, mf.Set("b", 2))

	got, err := mf.Get("a")
	require.NoError(t, err)
	require.Equal(t, int32(1), got)

	_, err = mf.Get("zzz")
	require.ErrorIs(t, err, KeyMissingError)

	sum := int32(0)
	it := mf.Items()
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		sum += v
	}
	require.Equal(t, int32(3), sum)

	_, err = AsMap[string](m.GetField("m").(*MapField))
	require.ErrorIs(t, err, TypeMismatchError)
}

func TestTypedMappedMessage(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	boxes, err := AsMappedMessage(m.GetField("boxes").(*MapField))
	require.NoError(t, err)

	box, err := boxes.Get(1)
	require.NoError(t, err)
	require.NoError(t, box.TrySetField("value", 3))

	ok, err := boxes.Has(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, boxes.Len())

	_, err = AsMappedMessage(m.GetField("m").(*MapField))
	require.ErrorIs(t, err, TypeMismatchError)
}

func TestTypedBytesStringInterchange(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	// String-kind storage can be read through a []byte view; the bridge
	// converts at the edge. Writes still follow the field's own coercion
	// rules, so they go through the dynamic proxy.
	labels, err := AsMap[[]byte](m.GetField("labels").(*MapField))
	require.NoError(t, err)
	require.NoError(t, labels.Dynamic().Set("k", "v"))
	got, err := labels.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

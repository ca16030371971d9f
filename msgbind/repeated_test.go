package msgbind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepeatedAliasing(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")

	p1 := m.GetField("xs").(*RepeatedField)
	p2 := m.GetField("xs").(*RepeatedField)
	require.NoError(t, p1.Append(5))
	require.Equal(t, 1, p2.Len())
	got, err := p2.Get(0)
	require.NoError(t, err)
	require.Equal(t, int32(5), got)
}

func TestRepeatedInsertOrder(t *testing.T) {
	_, types := compileTypes(t)
	xs := newTestMessage(t, types, "bridge.test.Pair").GetField("xs").(*RepeatedField)

	require.NoError(t, xs.Append(1))
	require.NoError(t, xs.Append(2))
	require.NoError(t, xs.Insert(0, 7))

	require.Equal(t, 3, xs.Len())
	want := []int32{7, 1, 2}
	for i, w := range want {
		got, err := xs.Get(i)
		require.NoError(t, err)
		require.Equal(t, w, got)
	}
	require.Equal(t, "[7, 1, 2]", xs.String())

	// Insert at the end is an append; past the end is out of range.
	require.NoError(t, xs.Insert(3, 9))
	require.ErrorIs(t, xs.Insert(5, 9), IndexOutOfRangeError)
}

func TestRepeatedNegativeIndex(t *testing.T) {
	_, types := compileTypes(t)
	xs := newTestMessage(t, types, "bridge.test.Pair").GetField("xs").(*RepeatedField)
	require.NoError(t, xs.Extend([]int{10, 20, 30}))

	got, err := xs.Get(-1)
	require.NoError(t, err)
	require.Equal(t, int32(30), got)

	require.NoError(t, xs.Set(-3, 11))
	got, err = xs.Get(0)
	require.NoError(t, err)
	require.Equal(t, int32(11), got)

	_, err = xs.Get(-4)
	require.ErrorIs(t, err, IndexOutOfRangeError)
	_, err = xs.Get(3)
	require.ErrorIs(t, err, IndexOutOfRangeError)
}

func TestRepeatedDelete(t *testing.T) {
	_, types := compileTypes(t)
	xs := newTestMessage(t, types, "bridge.test.Pair").GetField("xs").(*RepeatedField)
	require.NoError(t, xs.Extend([]int{1, 2, 3}))

	require.NoError(t, xs.Delete(1))
	require.Equal(t, 2, xs.Len())
	require.Equal(t, "[1, 3]", xs.String())

	require.NoError(t, xs.Delete(-1))
	require.Equal(t, "[1]", xs.String())

	require.ErrorIs(t, xs.Delete(5), IndexOutOfRangeError)
}

func TestRepeatedExtend(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")
	xs := m.GetField("xs").(*RepeatedField)

	require.NoError(t, xs.Extend([]int{1, 2}))
	require.NoError(t, xs.Extend([3]int64{3, 4, 5}))
	require.Equal(t, 5, xs.Len())

	require.ErrorIs(t, xs.Extend(42), TypeMismatchError)
	require.ErrorIs(t, xs.Extend([]string{"no"}), TypeMismatchError)

	// Extending from another proxy copies its elements.
	other := newTestMessage(t, types, "bridge.test.Pair").GetField("xs").(*RepeatedField)
	require.NoError(t, other.Extend(xs))
	require.Equal(t, 5, other.Len())
	require.NoError(t, other.Append(6))
	require.Equal(t, 5, xs.Len())
}

func TestRepeatedCoercion(t *testing.T) {
	_, types := compileTypes(t)
	xs := newTestMessage(t, types, "bridge.test.Pair").GetField("xs").(*RepeatedField)

	require.ErrorIs(t, xs.Append(int64(1)<<40), NumericRangeError)
	require.ErrorIs(t, xs.Append("x"), TypeMismatchError)
	require.NoError(t, xs.Append(3.0))
}

func TestRepeatedMessageField(t *testing.T) {
	_, types := compileTypes(t)
	m := newTestMessage(t, types, "bridge.test.Pair")
	items := m.GetField("items").(*RepeatedField)

	box := newTestMessage(t, types, "bridge.test.IntBox")
	require.NoError(t, box.TrySetField("value", 3))

	// Message elements arrive via Add or Extend, never by direct write.
	require.ErrorIs(t, items.Append(box), FieldAssignmentError)
	require.ErrorIs(t, items.Set(0, box), FieldAssignmentError)
	require.ErrorIs(t, items.Insert(0, box), FieldAssignmentError)

	child, err := items.Add(Fields{"value": 7})
	require.NoError(t, err)
	require.Equal(t, int32(7), child.GetField("value"))

	// The added element aliases the list.
	require.NoError(t, child.TrySetField("value", 8))
	got, err := items.Get(0)
	require.NoError(t, err)
	require.Equal(t, int32(8), got.(*Message).GetField("value"))

	// Extend copies; later edits to the source are not seen.
	require.NoError(t, items.Extend([]*Message{box}))
	require.NoError(t, box.TrySetField("value", 99))
	got, err = items.Get(1)
	require.NoError(t, err)
	require.Equal(t, int32(3), got.(*Message).GetField("value"))

	// Type names must match exactly.
	pair := newTestMessage(t, types, "bridge.test.Pair")
	require.ErrorIs(t, items.Extend([]*Message{pair}), InvalidArgumentError)
	require.ErrorIs(t, items.Extend([]any{"no"}), NotAProtoError)

	_, err = m.GetField("xs").(*RepeatedField).Add(nil)
	require.ErrorIs(t, err, InvalidArgumentError)
}

func TestRepeatedMessageCrossPoolExtend(t *testing.T) {
	_, typesA := compileTypes(t)
	_, typesB := compileTypes(t)

	items := newTestMessage(t, typesA, "bridge.test.Pair").GetField("items").(*RepeatedField)
	foreign := newTestMessage(t, typesB, "bridge.test.IntBox")
	require.NoError(t, foreign.TrySetField("value", 5))

	require.NoError(t, items.Extend([]*Message{foreign}))
	got, err := items.Get(0)
	require.NoError(t, err)
	require.Equal(t, int32(5), got.(*Message).GetField("value"))
}

func TestRepeatedClear(t *testing.T) {
	_, types := compileTypes(t)
	xs := newTestMessage(t, types, "bridge.test.Pair").GetField("xs").(*RepeatedField)
	require.NoError(t, xs.Extend([]int{1, 2, 3}))
	xs.Clear()
	require.Equal(t, 0, xs.Len())
	require.Equal(t, "[]", xs.String())
}

func TestRepeatedEnumString(t *testing.T) {
	_, types := compileTypes(t)
	moods := newTestMessage(t, types, "bridge.test.Pair").GetField("moods").(*RepeatedField)
	require.NoError(t, moods.Append(1))
	require.NoError(t, moods.Append(2))
	require.NoError(t, moods.Append(99))
	require.Equal(t, "[HAPPY, GRUMPY, 99]", moods.String())
}

package msgbind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMessageWithFields(t *testing.T) {
	_, types := compileTypes(t)

	box := newTestMessage(t, types, "bridge.test.IntBox")
	require.NoError(t, box.TrySetField("value", 3))

	m, err := NewMessage("bridge.test.Pair", Fields{
		"a":      5,
		"b":      "hi",
		"xs":     []int{1, 2, 3},
		"m":      map[string]int{"k": 9},
		"box":    box,
		"labels": Fields{"env": "dev"},
		"flag":   true,
		"mood":   1,
	}, WithResolver(types))
	require.NoError(t, err)

	require.Equal(t, int32(5), m.GetField("a"))
	require.Equal(t, "hi", m.GetField("b"))
	require.Equal(t, 3, m.GetField("xs").(*RepeatedField).Len())
	got, err := m.GetField("m").(*MapField).Get("k")
	require.NoError(t, err)
	require.Equal(t, int32(9), got)
	require.Equal(t, int32(3), m.GetField("box").(*Message).GetField("value"))
	env, err := m.GetField("labels").(*MapField).Get("env")
	require.NoError(t, err)
	require.Equal(t, "dev", env)

	// The sub-message was copied, not aliased.
	require.NoError(t, box.TrySetField("value", 99))
	require.Equal(t, int32(3), m.GetField("box").(*Message).GetField("value"))
}

func TestNewMessageNilFieldSkipped(t *testing.T) {
	_, types := compileTypes(t)
	m, err := NewMessage("bridge.test.Pair", Fields{"a": nil, "b": "x"}, WithResolver(types))
	require.NoError(t, err)
	require.False(t, m.HasField("a"))
	require.Equal(t, "x", m.GetField("b"))
}

func TestNewMessageErrors(t *testing.T) {
	_, types := compileTypes(t)

	_, err := NewMessage("bridge.test.Pair", Fields{"nope": 1}, WithResolver(types))
	require.ErrorIs(t, err, UnknownFieldNameError)

	_, err = NewMessage("bridge.test.Pair", Fields{"a": "wrong"}, WithResolver(types))
	require.ErrorIs(t, err, TypeMismatchError)

	_, err = NewMessage("bridge.test.Pair", Fields{"box": 42}, WithResolver(types))
	require.ErrorIs(t, err, NotAProtoError)

	box := newTestMessage(t, types, "bridge.test.IntBox")
	_, err = NewMessage("bridge.test.Pair", Fields{"box": box}, WithResolver(types))
	require.NoError(t, err)
	_, err = NewMessage("bridge.test.IntBox", Fields{"value": 1}, WithResolver(types))
	require.NoError(t, err)
	pair := newTestMessage(t, types, "bridge.test.Pair")
	_, err = NewMessage("bridge.test.Pair", Fields{"box": pair}, WithResolver(types))
	require.ErrorIs(t, err, InvalidArgumentError)

	_, err = NewMessage(42, nil, WithResolver(types))
	require.ErrorIs(t, err, NotAProtoError)
}

func TestNewMessageFromWrapperAndDescriptor(t *testing.T) {
	_, types := compileTypes(t)
	proto1 := newTestMessage(t, types, "bridge.test.Pair")

	// A wrapper stands in for its type.
	m, err := NewMessage(proto1, Fields{"a": 1}, WithResolver(types))
	require.NoError(t, err)
	require.Equal(t, "bridge.test.Pair", m.FullName())

	// So does a descriptor view, even without a resolver that knows it: the
	// descriptor itself is enough to build a dynamic message.
	m2, err := NewMessage(proto1.Descriptor(), Fields{"a": 2})
	require.NoError(t, err)
	require.Equal(t, "bridge.test.Pair", m2.FullName())
	require.Equal(t, int32(2), m2.GetField("a"))
}

func TestNewMessageCrossPoolSubMessage(t *testing.T) {
	_, typesA := compileTypes(t)
	_, typesB := compileTypes(t)

	foreign := newTestMessage(t, typesB, "bridge.test.IntBox")
	require.NoError(t, foreign.TrySetField("value", 4))

	m, err := NewMessage("bridge.test.Pair", Fields{"box": foreign}, WithResolver(typesA))
	require.NoError(t, err)
	require.Equal(t, int32(4), m.GetField("box").(*Message).GetField("value"))
}

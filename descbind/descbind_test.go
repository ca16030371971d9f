package descbind_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protobind/protobind/descbind"
	"github.com/protobind/protobind/internal/bindtest"
)

func TestMessageDescriptorView(t *testing.T) {
	files := bindtest.Compile(t, "test.proto")
	md := bindtest.MessageDescriptor(t, files, "bridge.test.Pair")

	d := descbind.WrapMessage(md)
	require.Equal(t, "Pair", d.Name())
	require.Equal(t, "bridge.test.Pair", d.FullName())
	require.True(t, d.HasOptions())
	// Pair declares no options, yet the options message is still there and
	// usable, matching the descriptor API the views mirror.
	opts, ok := d.Options().(*descriptorpb.MessageOptions)
	require.True(t, ok)
	require.NotNil(t, opts)
	require.False(t, opts.GetDeprecated())
	require.Same(t, md, d.Unwrap())

	require.True(t, d.Equal(descbind.WrapMessage(md)))
	other := bindtest.MessageDescriptor(t, files, "bridge.test.IntBox")
	require.False(t, d.Equal(descbind.WrapMessage(other)))
	require.False(t, d.Equal(nil))
}

func TestFieldsByNameCaching(t *testing.T) {
	files := bindtest.Compile(t, "test.proto")
	d := descbind.WrapMessage(bindtest.MessageDescriptor(t, files, "bridge.test.Pair"))

	m1 := d.FieldsByName()
	m2 := d.FieldsByName()
	require.Equal(t, len(m1), len(m2))
	require.Same(t, m1["a"], m2["a"])
	require.Same(t, m1["a"], d.FieldByName("a"))
	require.Nil(t, d.FieldByName("nope"))

	// Field views hand back the identical containing view.
	require.Same(t, d, m1["a"].ContainingType())
}

func TestFieldDescriptorView(t *testing.T) {
	files := bindtest.Compile(t, "test.proto", "legacy.proto")
	pair := descbind.WrapMessage(bindtest.MessageDescriptor(t, files, "bridge.test.Pair"))

	a := pair.FieldByName("a")
	require.Equal(t, "a", a.Name())
	require.Equal(t, int32(1), a.Number())
	require.Equal(t, descbind.TypeInt32, a.Type())
	require.Equal(t, descbind.CppTypeInt32, a.CppType())
	require.Equal(t, descbind.LabelOptional, a.Label())
	require.Nil(t, a.MessageType())
	require.Nil(t, a.EnumType())
	require.Nil(t, a.ContainingOneof())
	require.False(t, a.IsExtension())

	xs := pair.FieldByName("xs")
	require.Equal(t, descbind.LabelRepeated, xs.Label())

	box := pair.FieldByName("box")
	require.Equal(t, descbind.TypeMessage, box.Type())
	require.Equal(t, descbind.CppTypeMessage, box.CppType())
	require.Equal(t, "bridge.test.IntBox", box.MessageType().FullName())
	require.Same(t, box.MessageType(), box.MessageType())

	raw := pair.FieldByName("raw")
	require.Equal(t, descbind.TypeBytes, raw.Type())
	require.Equal(t, descbind.CppTypeString, raw.CppType())

	job := descbind.WrapMessage(bindtest.MessageDescriptor(t, files, "bridge.legacy.Job"))
	require.Equal(t, descbind.LabelRequired, job.FieldByName("id").Label())

	require.True(t, a.Equal(pair.FieldByName("a")))
	require.False(t, a.Equal(xs))
}

func TestCppTypeNames(t *testing.T) {
	require.Equal(t, "CPPTYPE_INT32", descbind.CppTypeInt32.String())
	require.Equal(t, "CPPTYPE_MESSAGE", descbind.CppTypeMessage.String())
	require.Equal(t, "CPPTYPE_UNKNOWN", descbind.CppType(99).String())
}

func TestEnumDescriptorView(t *testing.T) {
	files := bindtest.Compile(t, "test.proto", "legacy.proto")
	pair := descbind.WrapMessage(bindtest.MessageDescriptor(t, files, "bridge.test.Pair"))

	mood := pair.FieldByName("mood").EnumType()
	require.Equal(t, "Mood", mood.Name())
	require.Equal(t, "bridge.test.Mood", mood.FullName())
	require.False(t, mood.IsClosed())

	byName := mood.ValuesByName()
	require.Len(t, byName, 3)
	require.Equal(t, int32(1), byName["HAPPY"].Number())
	byNumber := mood.ValuesByNumber()
	require.Equal(t, "GRUMPY", byNumber[2].Name())
	require.Same(t, byName["HAPPY"], byNumber[1])

	// Cached across calls.
	require.Same(t, pair.FieldByName("mood").EnumType(), mood)

	job := descbind.WrapMessage(bindtest.MessageDescriptor(t, files, "bridge.legacy.Job"))
	level := job.FieldByName("level").EnumType()
	require.True(t, level.IsClosed())
}

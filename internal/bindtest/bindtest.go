// Package bindtest compiles the test schemas used across the bridge's test
// suites and hands back registries to resolve them from. Compiling the
// sources twice yields two independent descriptor pools for the same names,
// which is how the cross-pool tests get "foreign" messages.
package bindtest

import (
	"context"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Sources holds the in-memory .proto files available to Compile.
var Sources = map[string]string{
	"test.proto": `
syntax = "proto3";
package bridge.test;

import "google/protobuf/any.proto";

enum Mood {
  MOOD_UNSPECIFIED = 0;
  HAPPY = 1;
  GRUMPY = 2;
}

message IntBox {
  int32 value = 1;
}

message Pair {
  int32 a = 1;
  string b = 2;
  repeated int32 xs = 3;
  map<string, int32> m = 4;
  map<int32, IntBox> boxes = 5;
  repeated IntBox items = 6;
  IntBox box = 7;
  bytes raw = 8;
  uint32 u32 = 9;
  uint64 u64 = 10;
  int64 i64 = 11;
  float f32 = 12;
  double f64 = 13;
  bool flag = 14;
  Mood mood = 15;
  repeated Mood moods = 16;
  map<string, string> labels = 17;
  google.protobuf.Any payload = 18;
}
`,
	"legacy.proto": `
syntax = "proto2";
package bridge.legacy;

enum Level {
  LOW = 1;
  HIGH = 2;
}

message Task {
  required string name = 1;
  optional int32 weight = 2;
}

message Job {
  required string id = 1;
  optional Task task = 2;
  repeated Task backlog = 3;
  optional Level level = 4;
  map<string, Task> assignments = 5;
}
`,
	"svc.proto": `
syntax = "proto3";
package bridge.test;

import "test.proto";

service PairService {
  rpc Echo(Pair) returns (Pair);
  rpc Watch(Pair) returns (stream Pair);
}
`,
}

// Compile compiles the named sources (with their imports) into a fresh
// registry. Each call builds an independent descriptor pool.
func Compile(t *testing.T, names ...string) *protoregistry.Files {
	t.Helper()
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(Sources),
		}),
	}
	fds, err := compiler.Compile(context.Background(), names...)
	require.NoError(t, err)
	reg := &protoregistry.Files{}
	for _, fd := range fds {
		register(t, reg, fd)
	}
	return reg
}

func register(t *testing.T, reg *protoregistry.Files, fd protoreflect.FileDescriptor) {
	t.Helper()
	if _, err := reg.FindFileByPath(fd.Path()); err == nil {
		return
	}
	imports := fd.Imports()
	for i, length := 0, imports.Len(); i < length; i++ {
		register(t, reg, imports.Get(i).FileDescriptor)
	}
	require.NoError(t, reg.RegisterFile(fd))
}

// Types wraps the registry in a dynamic type resolver suitable for
// msgbind.WithResolver.
func Types(files *protoregistry.Files) *dynamicpb.Types {
	return dynamicpb.NewTypes(files)
}

// MessageDescriptor finds a message descriptor by full name, failing the test
// if the registry does not hold it.
func MessageDescriptor(t *testing.T, files *protoregistry.Files, name protoreflect.FullName) protoreflect.MessageDescriptor {
	t.Helper()
	d, err := files.FindDescriptorByName(name)
	require.NoError(t, err)
	md, ok := d.(protoreflect.MessageDescriptor)
	require.True(t, ok, "%s is not a message", name)
	return md
}

// MethodDescriptor finds a method descriptor by full name, failing the test
// if the registry does not hold it.
func MethodDescriptor(t *testing.T, files *protoregistry.Files, name protoreflect.FullName) protoreflect.MethodDescriptor {
	t.Helper()
	d, err := files.FindDescriptorByName(name)
	require.NoError(t, err)
	md, ok := d.(protoreflect.MethodDescriptor)
	require.True(t, ok, "%s is not a method", name)
	return md
}

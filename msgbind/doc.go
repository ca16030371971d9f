// Package msgbind is a bidirectional bridge between a dynamically-typed host
// environment and protobuf messages whose concrete types are only known at
// runtime. A Message wraps a native in-memory protobuf message and exposes
// name-keyed field access over the protoreflect API: host code reads and
// writes fields by name, receives container proxies for repeated and map
// fields, and mutates sub-messages through aliasing child views. No field
// data is copied across the boundary; every operation goes straight through
// to the underlying message.
//
// A Message implements proto.Message, so the rest of the protobuf ecosystem
// (the wire codec, prototext, protocmp, gRPC) accepts a wrapper anywhere a
// generated message is accepted. The reverse bridge is duck-typed: any
// proto.Message that is not a wrapper is treated as a "native" message, and
// operations like CopyFrom, MergeFrom, and Any packing accept either form.
//
// Messages are not safe for concurrent mutation; they inherit the
// single-writer model of the underlying protobuf runtime.
package msgbind

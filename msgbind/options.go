package msgbind

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// Resolver resolves a full type name to a message type. It is the bridge's
// handle on the descriptor pool and message factory; protoregistry.GlobalTypes
// and dynamicpb.Types both satisfy it.
type Resolver interface {
	FindMessageByName(name protoreflect.FullName) (protoreflect.MessageType, error)
}

// GlobalResolver resolves names against the process-wide registries. It is
// the default used when no WithResolver option is given.
var GlobalResolver Resolver = protoregistry.GlobalTypes

// Option customizes construction of a Message.
type Option interface {
	apply(*Message)
}

type optionFunc func(*Message)

func (o optionFunc) apply(m *Message) {
	o(m)
}

// WithResolver returns an Option that makes the message resolve type names
// (during construction, gob decoding, and Any unpacking) through the given
// resolver instead of the global registries.
func WithResolver(res Resolver) Option {
	return optionFunc(func(m *Message) {
		m.resolver = res
	})
}

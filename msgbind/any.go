package msgbind

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	// Make sure google.protobuf.Any is present in the global registries so
	// NewAny works without further setup.
	_ "google.golang.org/protobuf/types/known/anypb"

	"github.com/protobind/protobind/descbind"
)

const (
	anyFullName   = "google.protobuf.Any"
	typeURLPrefix = "type.googleapis.com/"
)

// NewAny allocates an empty wrapped google.protobuf.Any.
func NewAny(opts ...Option) (*Message, error) {
	return NewMessage(anyFullName, nil, opts...)
}

// PackAny stores src, which may be a wrapper or a native proto, into the
// given Any: the type URL is set to type.googleapis.com/<full name> and the
// value to the serialized bytes. Exactly one serialization happens regardless
// of src's representation.
func PackAny(anyMsg *Message, src any) error {
	urlFd, valueFd, err := anyFields(anyMsg)
	if err != nil {
		return err
	}
	pm, ok := asProto(src)
	if !ok {
		return fmt.Errorf("%w: cannot pack %T into Any", InvalidArgumentError, src)
	}
	data, err := proto.Marshal(pm)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", pm.ProtoReflect().Descriptor().FullName(), err)
	}
	anyMsg.refl.Set(urlFd, protoreflect.ValueOfString(typeURLPrefix+string(pm.ProtoReflect().Descriptor().FullName())))
	anyMsg.refl.Set(valueFd, protoreflect.ValueOfBytes(data))
	return nil
}

// UnpackAny parses the Any's value into dst, which may be a wrapper or a
// native proto. The Any's type URL must name dst's full type.
func UnpackAny(anyMsg *Message, dst any) error {
	_, valueFd, err := anyFields(anyMsg)
	if err != nil {
		return err
	}
	pm, ok := asProto(dst)
	if !ok {
		return fmt.Errorf("%w: cannot unpack Any into %T", InvalidArgumentError, dst)
	}
	name, err := AnyTypeName(anyMsg)
	if err != nil {
		return err
	}
	if got := string(pm.ProtoReflect().Descriptor().FullName()); got != name {
		return fmt.Errorf("%w: Any holds %s, not %s", InvalidArgumentError, name, got)
	}
	data := anyMsg.refl.Get(valueFd).Bytes()
	if w, ok := dst.(*Message); ok {
		return w.Unmarshal(data)
	}
	if err := proto.Unmarshal(data, pm); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// AnyIs reports whether the Any holds a message of the given descriptor's
// full type name.
func AnyIs(anyMsg *Message, d *descbind.Descriptor) bool {
	name, err := AnyTypeName(anyMsg)
	if err != nil {
		return false
	}
	return name == d.FullName()
}

// AnyTypeName returns the full type name parsed from the Any's type URL.
func AnyTypeName(anyMsg *Message) (string, error) {
	urlFd, _, err := anyFields(anyMsg)
	if err != nil {
		return "", err
	}
	url := anyMsg.refl.Get(urlFd).String()
	return url[strings.LastIndexByte(url, '/')+1:], nil
}

func anyFields(anyMsg *Message) (urlFd, valueFd protoreflect.FieldDescriptor, err error) {
	md := anyMsg.refl.Descriptor()
	if md.FullName() != anyFullName {
		return nil, nil, fmt.Errorf("%w: expecting %s; got %s", InvalidArgumentError, anyFullName, md.FullName())
	}
	return md.Fields().ByName("type_url"), md.Fields().ByName("value"), nil
}

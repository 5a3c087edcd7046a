package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/LavishGent/kvfacade/internal/types"
)

// MsgpackCodec stores structured values as MessagePack. The stored form is
// binary, so it only suits keys that are never read by text-based tools.
type MsgpackCodec struct{}

func NewMsgpackCodec() *MsgpackCodec {
	return &MsgpackCodec{}
}

func (c *MsgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgpackCodec) Unmarshal(data []byte, dest any) error {
	return msgpack.Unmarshal(data, dest)
}

func (c *MsgpackCodec) Name() string {
	return "msgpack"
}

// ByName resolves a configured codec name.
func ByName(name string) (types.Codec, error) {
	switch name {
	case "", "json":
		return NewJSONCodec(), nil
	case "msgpack":
		return NewMsgpackCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

var _ types.Codec = (*MsgpackCodec)(nil)

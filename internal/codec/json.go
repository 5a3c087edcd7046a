package codec

import (
	"encoding/json"

	"github.com/LavishGent/kvfacade/internal/types"
)

// JSONCodec is the default structured codec.
type JSONCodec struct{}

func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Unmarshal(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

func (c *JSONCodec) Name() string {
	return "json"
}

var _ types.Codec = (*JSONCodec)(nil)

// Package codec implements the value encoding policy: scalars are stored as
// plain text, everything else goes through a structured codec.
package codec

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/LavishGent/kvfacade/internal/types"
)

// ValueEncoder is implemented by values that know their own stored form.
type ValueEncoder interface {
	EncodeValue() (string, error)
}

// ValueDecoder is implemented by destinations that parse their own stored form.
type ValueDecoder interface {
	DecodeValue(s string) error
}

// Encoder applies the encoding policy with a chosen structured codec.
type Encoder struct {
	structured types.Codec
}

// New returns an Encoder falling back to structured for non-scalar values.
// A nil structured codec means JSON.
func New(structured types.Codec) *Encoder {
	if structured == nil {
		structured = NewJSONCodec()
	}
	return &Encoder{structured: structured}
}

// Structured returns the codec used for non-scalar values.
func (e *Encoder) Structured() types.Codec {
	return e.structured
}

// Encode converts v to its stored text.
func (e *Encoder) Encode(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case ValueEncoder:
		s, err := x.EncodeValue()
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrEncodeFailed, err)
		}
		return s, nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return "", fmt.Errorf("%w: %v", types.ErrEncodeFailed, err)
		}
		return string(b), nil
	}

	data, err := e.structured.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrEncodeFailed, e.structured.Name(), err)
	}
	return string(data), nil
}

// EncodeAll encodes each value in order.
func (e *Encoder) EncodeAll(values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		s, err := e.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Decode parses stored text s into dest, which must be a non-nil pointer.
// Scalar destinations are parsed from text; anything else is handed to the
// structured codec.
func (e *Encoder) Decode(s string, dest any) error {
	if rv := reflect.ValueOf(dest); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode destination must be a non-nil pointer, got %T", dest)
	}

	switch d := dest.(type) {
	case *string:
		*d = s
		return nil
	case *[]byte:
		*d = []byte(s)
		return nil
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case *int:
		v, err := strconv.ParseInt(s, 10, strconv.IntSize)
		if err != nil {
			return err
		}
		*d = int(v)
		return nil
	case *int8:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return err
		}
		*d = int8(v)
		return nil
	case *int16:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return err
		}
		*d = int16(v)
		return nil
	case *int32:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return err
		}
		*d = int32(v)
		return nil
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case *uint:
		v, err := strconv.ParseUint(s, 10, strconv.IntSize)
		if err != nil {
			return err
		}
		*d = uint(v)
		return nil
	case *uint8:
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return err
		}
		*d = uint8(v)
		return nil
	case *uint16:
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return err
		}
		*d = uint16(v)
		return nil
	case *uint32:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return err
		}
		*d = uint32(v)
		return nil
	case *uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case *float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*d = float32(v)
		return nil
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case ValueDecoder:
		return d.DecodeValue(s)
	case encoding.TextUnmarshaler:
		return d.UnmarshalText([]byte(s))
	}

	return e.structured.Unmarshal([]byte(s), dest)
}

// DecodeAs is the generic form of Decode.
func DecodeAs[T any](e *Encoder, s string) (T, error) {
	var out T
	err := e.Decode(s, &out)
	return out, err
}

package types

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrDecodeFailed     = errors.New("kvfacade: decode failed")
	ErrEncodeFailed     = errors.New("kvfacade: encode failed")
	ErrPartialComposite = errors.New("kvfacade: composite operation partially applied")
	ErrClosed           = errors.New("kvfacade: facade closed")
	ErrInvalidKey       = errors.New("kvfacade: invalid key")
)

// StoreError wraps an error returned by Redis. Unwrap yields the client error as-is.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("kvfacade %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("kvfacade %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// DecodeError reports stored text that does not fit the requested shape.
type DecodeError struct {
	Key    string
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("kvfacade: decode [%s] into %s: %v", e.Key, e.Target, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailed, e.Err}
}

func NewDecodeError(key string, dest any, err error) *DecodeError {
	target := "<nil>"
	if dest != nil {
		target = reflect.TypeOf(dest).String()
	}
	return &DecodeError{Key: key, Target: target, Err: err}
}

// PartialError is returned when one step of a composite operation landed
// and the other failed. Applied names the command that took effect.
type PartialError struct {
	Op      string
	Key     string
	Applied string
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("kvfacade %s [%s]: only %s applied: %v", e.Op, e.Key, e.Applied, e.Err)
}

func (e *PartialError) Unwrap() []error {
	return []error{ErrPartialComposite, e.Err}
}

func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecodeFailed)
}

func IsPartialComposite(err error) bool {
	return errors.Is(err, ErrPartialComposite)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

package kvfacade

import (
	"github.com/LavishGent/kvfacade/internal/types"
)

type (
	// StoreError wraps an error returned by Redis.
	StoreError = types.StoreError
	// DecodeError reports stored text that does not fit the requested type.
	DecodeError = types.DecodeError
	// PartialError reports a composite whose second step failed.
	PartialError = types.PartialError
)

var (
	// ErrDecodeFailed matches every DecodeError.
	ErrDecodeFailed = types.ErrDecodeFailed
	// ErrEncodeFailed indicates a value could not be encoded for storage.
	ErrEncodeFailed = types.ErrEncodeFailed
	// ErrPartialComposite indicates only the first step of a composite landed.
	ErrPartialComposite = types.ErrPartialComposite
	// ErrClosed indicates that the facade has been closed.
	ErrClosed = types.ErrClosed
	// ErrInvalidKey indicates that a key failed validation.
	ErrInvalidKey = types.ErrInvalidKey
)

// IsDecodeError returns true if stored text could not be decoded.
func IsDecodeError(err error) bool {
	return types.IsDecodeError(err)
}

// IsPartialComposite returns true if a composite operation half-applied.
func IsPartialComposite(err error) bool {
	return types.IsPartialComposite(err)
}

// IsStoreError returns true if Redis returned the error.
func IsStoreError(err error) bool {
	return types.IsStoreError(err)
}

// IsInvalidKey returns true if the key failed validation.
func IsInvalidKey(err error) bool {
	return types.IsInvalidKey(err)
}

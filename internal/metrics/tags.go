package metrics

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/LavishGent/kvfacade/internal/types"
)

// Tag creates a formatted DataDog tag string in "key:value" format.
func Tag(key, value string) string {
	return fmt.Sprintf("%s:%s", key, value)
}

// OperationTag names the facade operation, e.g. "operation:hash_get".
func OperationTag(op string) string {
	return Tag("operation", op)
}

// StatusTag creates a status tag (hit/miss/write/error).
func StatusTag(status string) string {
	return Tag("status", status)
}

// ErrorKindTag classifies err, e.g. "error_kind:decode" or "error_kind:store".
func ErrorKindTag(err error) string {
	return Tag("error_kind", errorKind(err))
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case types.IsPartialComposite(err):
		return "partial"
	case types.IsDecodeError(err):
		return "decode"
	case errors.Is(err, types.ErrEncodeFailed):
		return "encode"
	case errors.Is(err, types.ErrClosed):
		return "closed"
	case types.IsInvalidKey(err):
		return "invalid_key"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "store"
	}
}

func storeSide(err error) bool {
	switch errorKind(err) {
	case "store", "partial":
		return true
	}
	return false
}

// MergeTags returns base followed by tags. It never appends into base.
func MergeTags(base, tags []string) []string {
	if len(tags) == 0 {
		return base
	}
	if len(base) == 0 {
		return tags
	}
	return slices.Concat(base, tags)
}

// Package response provides the JSON envelope services built on kvfacade
// return to their callers.
package response

import (
	"net/http"
)

const (
	SuccessCode    = http.StatusOK
	SuccessMessage = "success"
	ErrorCode      = http.StatusInternalServerError
)

// Response is a code/message/data envelope.
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// New builds a Response with every field given.
func New[T any](code int, message string, data T) Response[T] {
	return Response[T]{Code: code, Message: message, Data: data}
}

// Success wraps data with the success code and message.
func Success[T any](data T) Response[T] {
	return New(SuccessCode, SuccessMessage, data)
}

// OK is a success without data.
func OK() Response[any] {
	return New[any](SuccessCode, SuccessMessage, nil)
}

// Error is a failure carrying only a message.
func Error(message string) Response[any] {
	return New[any](ErrorCode, message, nil)
}

// IsSuccess reports whether the envelope carries the success code.
func (r Response[T]) IsSuccess() bool {
	return r.Code == SuccessCode
}

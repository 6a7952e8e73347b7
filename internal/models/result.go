package models

import "fmt"

// ResponseError is the failure value returned across the port boundary.
type ResponseError struct {
	Message  string `json:"error"`
	NotFound bool   `json:"-"`
}

// Result carries either Data or Err, never both.
type Result[T any] struct {
	Data T
	Err  *ResponseError
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func Fail[T any](format string, args ...any) Result[T] {
	return Result[T]{Err: &ResponseError{Message: fmt.Sprintf(format, args...)}}
}

func FailNotFound[T any](format string, args ...any) Result[T] {
	return Result[T]{Err: &ResponseError{Message: fmt.Sprintf(format, args...), NotFound: true}}
}

func (r Result[T]) Failed() bool { return r.Err != nil }

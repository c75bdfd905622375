package app

import "errors"

// ErrPanic is returned when a command panics.
var ErrPanic = errors.New("unexpected panic")

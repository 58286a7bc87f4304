package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrCorruptState = errors.New("corrupt state")
)

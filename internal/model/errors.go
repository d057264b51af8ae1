package model

import "errors"

// ErrInvalidRecord marks a record that failed its own shape checks.
var ErrInvalidRecord = errors.New("invalid record")

package cache

import "errors"

// ErrClosed is returned by backends that are used after Close.
var ErrClosed = errors.New("cache closed")

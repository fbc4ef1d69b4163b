package store

import "errors"

var ErrNotFound = errors.New("tournament not found in store")

package models

import "errors"

// ErrNotFound is returned by repositories when the requested record does
// not exist, or when an atomic update matched no rows.
var ErrNotFound = errors.New("record not found")

package storage

import "errors"

// ErrCorrupt is returned when persisted data exists but cannot be decoded.
var ErrCorrupt = errors.New("storage: corrupt data")

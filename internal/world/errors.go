package world

import "errors"

var ErrInvalidCapacity = errors.New("world: contact capacity must be positive")
